package models

// RawMaterial is a raw input tracked by stock quantity.
type RawMaterial struct {
	ID            int64   `bson:"id" json:"id"`
	Name          string  `bson:"name" json:"name"`
	StockQuantity float64 `bson:"stock_quantity" json:"stockQuantity"`
}
