package models

// SubIngredient holds free-form preparation detail for a dish ingredient
type SubIngredient struct {
	Name              string  `json:"name"`
	Description       string  `json:"description,omitempty"`
	PreparationMethod string  `json:"preparation_method,omitempty"`
	CookingTime       float64 `json:"cooking_time,omitempty"`
	Temperature       string  `json:"temperature,omitempty"`
	Notes             string  `json:"notes,omitempty"`
}

// DishIngredient links a dish to an ingredient with the amount used per serving.
// IngredientID is a weak reference: the ingredient may have been deleted,
// consumers must treat a failed lookup as "unknown ingredient".
type DishIngredient struct {
	IngredientID  string         `json:"ingredientId"`
	Quantity      float64        `json:"quantity"`
	Unit          string         `json:"unit"`
	SubIngredient *SubIngredient `json:"subIngredient,omitempty"`
}

// Dish represents a menu item
type Dish struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Price           float64          `json:"price"`
	Category        string           `json:"category"`
	Description     string           `json:"description,omitempty"`
	PreparationTime *float64         `json:"preparationTime,omitempty"` // Minutes
	DifficultyLevel string           `json:"difficultyLevel,omitempty"`
	Ingredients     []DishIngredient `json:"ingredients"`
	IsActive        bool             `json:"isActive"`
	CreatedAt       string           `json:"createdAt"` // ISO-8601
	UpdatedAt       string           `json:"updatedAt"` // ISO-8601
}

// DishPatch carries a partial dish update. Nil fields are left untouched on
// the server; they are never serialized as null in the wire payload.
type DishPatch struct {
	Name            *string
	Price           *float64
	Category        *string
	Description     *string
	PreparationTime *float64
	DifficultyLevel *string
	IsActive        *bool
	Ingredients     []DishIngredient // nil = unchanged, empty = clear recipe
}
