package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/nkcin/restaurant-management-system/app/models"
)

// dishIngredientFromPayload normalizes one recipe line
func dishIngredientFromPayload(v any) models.DishIngredient {
	m := asMap(v)
	ingredient := models.DishIngredient{
		IngredientID: pickString(m, "", "ingredientId", "ingredient_id"),
		Quantity:     pickNumber(m, 0, "quantity"),
		Unit:         pickString(m, "", "unit"),
	}
	if sub, ok := firstPresent(m, "subIngredient", "sub_ingredient"); ok {
		ingredient.SubIngredient = subIngredientFromPayload(sub)
	}
	return ingredient
}

// subIngredientFromPayload maps the free-form preparation detail. It is
// present-or-absent as a whole; individual fields carry no invariants.
func subIngredientFromPayload(v any) *models.SubIngredient {
	m := asMap(v)
	if m == nil {
		return nil
	}
	return &models.SubIngredient{
		Name:              pickString(m, "", "name"),
		Description:       pickString(m, "", "description"),
		PreparationMethod: pickString(m, "", "preparationMethod", "preparation_method"),
		CookingTime:       pickNumber(m, 0, "cookingTime", "cooking_time"),
		Temperature:       pickString(m, "", "temperature"),
		Notes:             pickString(m, "", "notes"),
	}
}

// dishFromPayload normalizes one dish object
func dishFromPayload(v any) models.Dish {
	m := asMap(v)
	dish := models.Dish{
		ID:              pickString(m, "", "id"),
		Name:            pickString(m, "", "name"),
		Price:           pickNumber(m, 0, "price"),
		Category:        pickString(m, "", "category"),
		Description:     pickString(m, "", "description"),
		DifficultyLevel: pickString(m, "", "difficultyLevel", "difficulty_level"),
		Ingredients:     []models.DishIngredient{},
		CreatedAt:       pickTimestamp(m, "createdAt", "created_at"),
		UpdatedAt:       pickTimestamp(m, "updatedAt", "updated_at"),
	}
	if v, ok := firstPresent(m, "preparationTime", "preparation_time"); ok {
		minutes := numberValue(v, 0)
		dish.PreparationTime = &minutes
	}
	if v, ok := firstPresent(m, "isActive", "is_active"); ok {
		dish.IsActive = boolValue(v, true)
	} else {
		dish.IsActive = true
	}
	if raw, ok := firstPresent(m, "ingredients"); ok {
		for _, item := range asSlice(raw) {
			dish.Ingredients = append(dish.Ingredients, dishIngredientFromPayload(item))
		}
	}
	return dish
}

// dishIngredientToPayload translates a recipe line to the wire shape
func dishIngredientToPayload(ingredient models.DishIngredient) map[string]any {
	payload := map[string]any{
		"ingredient_id": ingredient.IngredientID,
		"quantity":      ingredient.Quantity,
		"unit":          ingredient.Unit,
	}
	if ingredient.SubIngredient != nil {
		payload["sub_ingredient"] = ingredient.SubIngredient
	}
	return payload
}

// dishToPayload builds the full snake_case create payload. Identifiers and
// timestamps are server-assigned and never sent.
func dishToPayload(dish models.Dish) map[string]any {
	ingredients := make([]map[string]any, 0, len(dish.Ingredients))
	for _, ingredient := range dish.Ingredients {
		ingredients = append(ingredients, dishIngredientToPayload(ingredient))
	}
	payload := map[string]any{
		"name":        dish.Name,
		"price":       dish.Price,
		"category":    dish.Category,
		"description": dish.Description,
		"is_active":   dish.IsActive,
		"ingredients": ingredients,
	}
	if dish.PreparationTime != nil {
		payload["preparation_time"] = *dish.PreparationTime
	}
	if dish.DifficultyLevel != "" {
		payload["difficulty_level"] = dish.DifficultyLevel
	}
	return payload
}

// dishPatchToPayload translates only the fields present in the patch. Absent
// fields stay out of the payload entirely so the server never sees nulls.
func dishPatchToPayload(patch models.DishPatch) map[string]any {
	payload := map[string]any{}
	if patch.Name != nil {
		payload["name"] = *patch.Name
	}
	if patch.Price != nil {
		payload["price"] = *patch.Price
	}
	if patch.Category != nil {
		payload["category"] = *patch.Category
	}
	if patch.Description != nil {
		payload["description"] = *patch.Description
	}
	if patch.PreparationTime != nil {
		payload["preparation_time"] = *patch.PreparationTime
	}
	if patch.DifficultyLevel != nil {
		payload["difficulty_level"] = *patch.DifficultyLevel
	}
	if patch.IsActive != nil {
		payload["is_active"] = *patch.IsActive
	}
	if patch.Ingredients != nil {
		ingredients := make([]map[string]any, 0, len(patch.Ingredients))
		for _, ingredient := range patch.Ingredients {
			ingredients = append(ingredients, dishIngredientToPayload(ingredient))
		}
		payload["ingredients"] = ingredients
	}
	return payload
}

// Dishes fetches the full dish list
func (c *Client) Dishes(ctx context.Context) ([]models.Dish, error) {
	payload, apiErr := c.get(ctx, "/api/dishes")
	if apiErr != nil {
		return nil, apiErr
	}
	items, ok := payload.([]any)
	if !ok {
		return nil, newError(ErrDecode, "unexpected dish list response")
	}
	dishes := make([]models.Dish, 0, len(items))
	for _, item := range items {
		dishes = append(dishes, dishFromPayload(item))
	}
	return dishes, nil
}

// CreateDish creates a dish and returns the server's canonical copy, which
// carries the assigned identifier and timestamps.
func (c *Client) CreateDish(ctx context.Context, dish models.Dish) (models.Dish, error) {
	payload, apiErr := c.do(ctx, http.MethodPost, "/api/dishes", dishToPayload(dish))
	if apiErr != nil {
		return models.Dish{}, apiErr
	}
	return dishFromPayload(payload), nil
}

// UpdateDish applies a partial update and returns the server's amended dish
func (c *Client) UpdateDish(ctx context.Context, id string, patch models.DishPatch) (models.Dish, error) {
	path := fmt.Sprintf("/api/dishes/%s", url.PathEscape(id))
	payload, apiErr := c.do(ctx, http.MethodPut, path, dishPatchToPayload(patch))
	if apiErr != nil {
		return models.Dish{}, apiErr
	}
	return dishFromPayload(payload), nil
}

// DeleteDish removes a dish. No response body is expected; success is
// determined by status alone.
func (c *Client) DeleteDish(ctx context.Context, id string) error {
	path := fmt.Sprintf("/api/dishes/%s", url.PathEscape(id))
	if _, apiErr := c.do(ctx, http.MethodDelete, path, nil); apiErr != nil {
		return apiErr
	}
	return nil
}
