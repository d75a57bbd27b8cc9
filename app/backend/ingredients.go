package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/nkcin/restaurant-management-system/app/models"
)

// ingredientFromPayload normalizes one stock item
func ingredientFromPayload(v any) models.Ingredient {
	m := asMap(v)
	return models.Ingredient{
		ID:            pickString(m, "", "id"),
		Name:          pickString(m, "", "name"),
		Unit:          pickString(m, "", "unit"),
		QuantityToday: pickNumber(m, 0, "quantityToday", "quantity_today"),
		MinThreshold:  pickNumber(m, 0, "minThreshold", "min_threshold"),
		CostPerUnit:   pickNumber(m, 0, "costPerUnit", "cost_per_unit"),
		Supplier:      pickString(m, "", "supplier"),
		CreatedAt:     pickTimestamp(m, "createdAt", "created_at"),
		UpdatedAt:     pickTimestamp(m, "updatedAt", "updated_at"),
	}
}

// Ingredients fetches the full inventory list
func (c *Client) Ingredients(ctx context.Context) ([]models.Ingredient, error) {
	payload, apiErr := c.get(ctx, "/api/ingredients")
	if apiErr != nil {
		return nil, apiErr
	}
	items, ok := payload.([]any)
	if !ok {
		return nil, newError(ErrDecode, "unexpected ingredient list response")
	}
	ingredients := make([]models.Ingredient, 0, len(items))
	for _, item := range items {
		ingredients = append(ingredients, ingredientFromPayload(item))
	}
	return ingredients, nil
}

// UpdateIngredientQuantity sets today's stock level for one ingredient and
// returns the server's updated copy.
func (c *Client) UpdateIngredientQuantity(ctx context.Context, id string, quantity float64) (models.Ingredient, error) {
	path := fmt.Sprintf("/api/ingredients/%s/quantity", url.PathEscape(id))
	body := map[string]any{"quantity": quantity}
	payload, apiErr := c.do(ctx, http.MethodPut, path, body)
	if apiErr != nil {
		return models.Ingredient{}, apiErr
	}
	return ingredientFromPayload(payload), nil
}
