package models

// Composition is one line of a product recipe: the referenced material and
// the units of it consumed per single unit of the product.
type Composition struct {
	RawMaterialID    int64        `bson:"raw_material_id" json:"rawMaterialId"`
	RawMaterial      *RawMaterial `bson:"-" json:"rawMaterial,omitempty"`
	QuantityRequired float64      `bson:"quantity_required" json:"quantityRequired"`
}

// Product is a sellable item defined by a fixed recipe and a unit price.
// The recipe is immutable after creation; products are recipes, not
// production events, so creating one never touches stock.
type Product struct {
	ID           int64         `bson:"id" json:"id"`
	Name         string        `bson:"name" json:"name"`
	Price        float64       `bson:"price" json:"price"`
	Compositions []Composition `bson:"compositions" json:"compositions"`
}
