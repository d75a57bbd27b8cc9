package models

// Ingredient represents a stock item tracked by the inventory pages
type Ingredient struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Unit          string  `json:"unit"` // unidades, kg, gramos, litros, ml
	QuantityToday float64 `json:"quantityToday"`
	MinThreshold  float64 `json:"minThreshold"`
	CostPerUnit   float64 `json:"costPerUnit"`
	Supplier      string  `json:"supplier,omitempty"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

// IsLowStock reports whether the ingredient is at or below its minimum
// threshold. The boundary is inclusive: quantity == threshold is low stock.
func (i Ingredient) IsLowStock() bool {
	return i.QuantityToday <= i.MinThreshold
}
