package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/nkcin/restaurant-management-system/app/models"
)

// orderItemFromPayload normalizes one order line
func orderItemFromPayload(v any) models.OrderItem {
	m := asMap(v)
	return models.OrderItem{
		DishID:   pickString(m, "", "dishId", "dish_id"),
		Quantity: pickNumber(m, 0, "quantity"),
		Price:    pickNumber(m, 0, "price"),
		Notes:    pickString(m, "", "notes"),
	}
}

// orderFromPayload normalizes one order object
func orderFromPayload(v any) models.Order {
	m := asMap(v)
	order := models.Order{
		ID:            pickString(m, "", "id"),
		Items:         []models.OrderItem{},
		Total:         pickNumber(m, 0, "total"),
		Subtotal:      pickNumber(m, 0, "subtotal"),
		Tax:           pickNumber(m, 0, "tax"),
		Timestamp:     pickTimestamp(m, "timestamp"),
		Status:        models.OrderStatus(pickString(m, string(models.OrderStatusPending), "status")),
		PaymentMethod: pickString(m, "", "paymentMethod", "payment_method"),
		CustomerID:    pickString(m, "", "customerId", "customer_id"),
		CashierID:     pickString(m, "", "cashierId", "cashier_id"),
	}
	if raw, ok := firstPresent(m, "items"); ok {
		for _, item := range asSlice(raw) {
			order.Items = append(order.Items, orderItemFromPayload(item))
		}
	}
	return order
}

// orderToPayload builds the snake_case create payload. The identifier and
// timestamp are server-assigned and never sent.
func orderToPayload(order models.Order) map[string]any {
	items := make([]map[string]any, 0, len(order.Items))
	for _, item := range order.Items {
		wireItem := map[string]any{
			"dish_id":  item.DishID,
			"quantity": item.Quantity,
			"price":    item.Price,
		}
		if item.Notes != "" {
			wireItem["notes"] = item.Notes
		}
		items = append(items, wireItem)
	}
	payload := map[string]any{
		"items":          items,
		"subtotal":       order.Subtotal,
		"tax":            order.Tax,
		"total":          order.Total,
		"payment_method": order.PaymentMethod,
		"cashier_id":     order.CashierID,
	}
	if order.CustomerID != "" {
		payload["customer_id"] = order.CustomerID
	}
	return payload
}

// CreateOrder registers an order and returns the server's canonical copy
func (c *Client) CreateOrder(ctx context.Context, order models.Order) (models.Order, error) {
	payload, apiErr := c.do(ctx, http.MethodPost, "/api/orders", orderToPayload(order))
	if apiErr != nil {
		return models.Order{}, apiErr
	}
	return orderFromPayload(payload), nil
}

// Orders fetches orders, optionally bounded by ISO date strings
func (c *Client) Orders(ctx context.Context, startDate, endDate string) ([]models.Order, error) {
	params := url.Values{}
	if startDate != "" {
		params.Set("start_date", startDate)
	}
	if endDate != "" {
		params.Set("end_date", endDate)
	}
	path := "/api/orders"
	if query := params.Encode(); query != "" {
		path += "?" + query
	}
	payload, apiErr := c.get(ctx, path)
	if apiErr != nil {
		return nil, apiErr
	}
	items, ok := payload.([]any)
	if !ok {
		return nil, newError(ErrDecode, "unexpected order list response")
	}
	orders := make([]models.Order, 0, len(items))
	for _, item := range items {
		orders = append(orders, orderFromPayload(item))
	}
	return orders, nil
}
