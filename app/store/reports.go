package store

import (
	"context"
	"fmt"
	"time"

	"github.com/nkcin/restaurant-management-system/app/models"
)

// Day-part boundaries, matching the analytics dashboard bands:
// morning 6AM-12PM, afternoon 12PM-6PM, evening 6PM-12AM.
const (
	morningStartHour   = 6
	afternoonStartHour = 12
	eveningStartHour   = 18
	eveningEndHour     = 24
)

// DishByID looks a dish up by identifier. Order items hold weak references,
// so a missing dish is a normal outcome, not an error.
func (s *Store) DishByID(id string) (models.Dish, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, dish := range s.dishes {
		if dish.ID == id {
			return dish, true
		}
	}
	return models.Dish{}, false
}

// IngredientByID looks an ingredient up by identifier
func (s *Store) IngredientByID(id string) (models.Ingredient, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ingredient := range s.ingredients {
		if ingredient.ID == id {
			return ingredient, true
		}
	}
	return models.Ingredient{}, false
}

// LowStockIngredients returns ingredients at or below their minimum
// threshold. The boundary is inclusive.
func (s *Store) LowStockIngredients() []models.Ingredient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	low := []models.Ingredient{}
	for _, ingredient := range s.ingredients {
		if ingredient.IsLowStock() {
			low = append(low, ingredient)
		}
	}
	return low
}

// ConsumeIngredientsForOrder deducts recipe ingredients when an order is
// completed. Each affected ingredient is updated through the backend so the
// new stock level is confirmed. Unknown dishes or ingredients are skipped:
// the order holds weak references and must not fail the caller. Low or
// exhausted stock produces warnings, never a block.
func (s *Store) ConsumeIngredientsForOrder(ctx context.Context, order models.Order) []string {
	var warnings []string

	for _, item := range order.Items {
		dish, ok := s.DishByID(item.DishID)
		if !ok {
			// Dish was deleted after the order was taken
			continue
		}

		for _, recipeLine := range dish.Ingredients {
			ingredient, ok := s.IngredientByID(recipeLine.IngredientID)
			if !ok {
				continue
			}

			needed := recipeLine.Quantity * item.Quantity
			newQuantity := ingredient.QuantityToday - needed

			updated, err := s.UpdateIngredientQuantity(ctx, ingredient.ID, newQuantity)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf(
					"Could not update stock for %s: %v", ingredient.Name, err))
				continue
			}

			if updated.QuantityToday <= 0 {
				warnings = append(warnings, fmt.Sprintf(
					"OUT OF STOCK: %s (%.2f %s left)",
					updated.Name, updated.QuantityToday, updated.Unit))
			} else if updated.IsLowStock() {
				warnings = append(warnings, fmt.Sprintf(
					"LOW STOCK: %s (%.2f %s left)",
					updated.Name, updated.QuantityToday, updated.Unit))
			}
		}
	}

	return warnings
}

// SalesByPeriod aggregates the in-memory orders for one calendar day into
// day-part buckets. It is the local fallback for the analytics endpoints:
// it works over cached orders when the backend is unreachable. Only
// completed orders count; orders with unparseable timestamps are skipped.
func (s *Store) SalesByPeriod(date string) models.SalesData {
	s.mu.RLock()
	orders := s.orders
	s.mu.RUnlock()

	data := models.SalesData{Date: date}

	for _, order := range orders {
		if order.Status != models.OrderStatusCompleted {
			continue
		}
		ts, err := time.Parse(time.RFC3339, order.Timestamp)
		if err != nil {
			continue
		}
		if ts.Format("2006-01-02") != date {
			continue
		}

		hour := ts.Hour()
		switch {
		case hour >= morningStartHour && hour < afternoonStartHour:
			data.Morning.Orders++
			data.Morning.Revenue += order.Total
		case hour >= afternoonStartHour && hour < eveningStartHour:
			data.Afternoon.Orders++
			data.Afternoon.Revenue += order.Total
		case hour >= eveningStartHour && hour < eveningEndHour:
			data.Evening.Orders++
			data.Evening.Revenue += order.Total
		}
		data.Total.Orders++
		data.Total.Revenue += order.Total
	}

	finishPeriod(&data.Morning)
	finishPeriod(&data.Afternoon)
	finishPeriod(&data.Evening)
	finishPeriod(&data.Total)
	return data
}

func finishPeriod(p *models.PeriodSales) {
	if p.Orders > 0 {
		p.AvgOrder = p.Revenue / p.Orders
	}
}
