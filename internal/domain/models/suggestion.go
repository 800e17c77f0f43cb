package models

// MaterialComposition echoes one recipe line for display purposes.
type MaterialComposition struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
}

// ProductionSuggestion reports how many units of a product the current stock
// supports. It is derived on every request and never persisted.
type ProductionSuggestion struct {
	ProductName      string                `json:"productName"`
	QuantityPossible int64                 `json:"quantityPossible"`
	TotalPrice       float64               `json:"totalPrice"`
	MaterialsUsed    []MaterialComposition `json:"materialsUsed"`
}
