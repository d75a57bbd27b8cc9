package models

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) String() string {
	return string(s)
}

// OrderItem represents a line in an order. DishID is a weak reference: the
// dish may have been deleted after the order was taken.
type OrderItem struct {
	DishID   string  `json:"dishId"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"` // Price at time of order
	Notes    string  `json:"notes,omitempty"`
}

// Order represents a customer order. Total should equal Subtotal + Tax in
// well-formed data but the sync layer does not enforce it.
type Order struct {
	ID            string      `json:"id"`
	Items         []OrderItem `json:"items"`
	Total         float64     `json:"total"`
	Subtotal      float64     `json:"subtotal"`
	Tax           float64     `json:"tax"`
	Timestamp     string      `json:"timestamp"` // ISO-8601
	Status        OrderStatus `json:"status"`
	PaymentMethod string      `json:"paymentMethod"`
	CustomerID    string      `json:"customerId,omitempty"`
	CashierID     string      `json:"cashierId"`
}
