package models

import "time"

// ReportLine is one product's share of a production report.
type ReportLine struct {
	ProductName      string  `bson:"product_name" json:"productName"`
	QuantityPossible int64   `bson:"quantity_possible" json:"quantityPossible"`
	UnitPrice        float64 `bson:"unit_price" json:"unitPrice"`
	PotentialRevenue float64 `bson:"potential_revenue" json:"potentialRevenue"`
}

// ProductionReport is the aggregated feasibility snapshot persisted by the
// reporting service on each scheduled run.
type ProductionReport struct {
	Date                  time.Time    `bson:"date" json:"date"`
	MaterialCount         int          `bson:"material_count" json:"materialCount"`
	ProductCount          int          `bson:"product_count" json:"productCount"`
	TotalStockUnits       float64      `bson:"total_stock_units" json:"totalStockUnits"`
	TotalProducibleUnits  int64        `bson:"total_producible_units" json:"totalProducibleUnits"`
	TotalPotentialRevenue float64      `bson:"total_potential_revenue" json:"totalPotentialRevenue"`
	Lines                 []ReportLine `bson:"lines" json:"lines"`
	CreatedAt             time.Time    `bson:"created_at" json:"createdAt"`
}
