package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/nkcin/restaurant-management-system/app/models"
)

// predictionFromPayload normalizes one forecast row
func predictionFromPayload(v any) models.PredictionData {
	m := asMap(v)
	prediction := models.PredictionData{
		DishID:          pickString(m, "", "dishId", "dish_id"),
		DishName:        pickString(m, "", "dishName", "dish_name"),
		Period:          pickString(m, "morning", "period"),
		PredictedDemand: pickNumber(m, 0, "predictedDemand", "predicted_demand"),
		Confidence:      pickNumber(m, 0, "confidence"),
		RecommendedPrep: pickNumber(m, 0, "recommendedPrep", "recommended_prep"),
		Factors:         []string{},
	}
	if raw, ok := firstPresent(m, "factors"); ok {
		prediction.Factors = stringSlice(raw)
	}
	return prediction
}

// Predictions fetches demand forecasts for a date
func (c *Client) Predictions(ctx context.Context, date string) ([]models.PredictionData, error) {
	payload, apiErr := c.get(ctx, "/api/predictions?date="+url.QueryEscape(date))
	if apiErr != nil {
		return nil, apiErr
	}
	items, ok := payload.([]any)
	if !ok {
		return nil, newError(ErrDecode, "unexpected prediction list response")
	}
	predictions := make([]models.PredictionData, 0, len(items))
	for _, item := range items {
		predictions = append(predictions, predictionFromPayload(item))
	}
	return predictions, nil
}

// GeneratePredictions asks the backend to rebuild its forecasts. The raw
// payload is returned untouched; the dashboard only shows it.
func (c *Client) GeneratePredictions(ctx context.Context) (any, error) {
	payload, apiErr := c.do(ctx, http.MethodPost, "/api/predictions/generate", nil)
	if apiErr != nil {
		return nil, apiErr
	}
	return payload, nil
}
