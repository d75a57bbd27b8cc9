package models

// PeriodSales aggregates orders over one day-part
type PeriodSales struct {
	Orders   float64 `json:"orders"`
	Revenue  float64 `json:"revenue"`
	AvgOrder float64 `json:"avgOrder"`
}

// SalesData holds one day of sales split into day-parts.
// Morning covers 6AM-12PM, afternoon 12PM-6PM, evening 6PM-12AM.
type SalesData struct {
	Date      string      `json:"date"`
	Morning   PeriodSales `json:"morning"`
	Afternoon PeriodSales `json:"afternoon"`
	Evening   PeriodSales `json:"evening"`
	Total     PeriodSales `json:"total"`
}
