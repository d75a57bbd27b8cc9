package models

// PredictionData is a demand forecast for one dish in one day-part, as
// produced by the backend's heuristic generator. The dashboard only renders
// it; no invariants beyond normalization apply.
type PredictionData struct {
	DishID          string   `json:"dishId"`
	DishName        string   `json:"dishName,omitempty"`
	Period          string   `json:"period"` // morning, afternoon, evening
	PredictedDemand float64  `json:"predictedDemand"`
	Confidence      float64  `json:"confidence"`
	RecommendedPrep float64  `json:"recommendedPrep"`
	Factors         []string `json:"factors"`
}
