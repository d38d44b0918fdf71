package models

import "time"

type OrderStatus string

// Orders are created directly in completed state; the demo checkout has no
// pending or failed persistence states.
const OrderCompleted OrderStatus = "completed"

type Order struct {
	ID             string      `json:"orderId"`
	UserID         string      `json:"userId"`
	OrderNumber    string      `json:"orderNumber"`
	Email          string      `json:"email"`
	TotalAmount    float64     `json:"totalAmount"`
	CouponCode     *string     `json:"couponCode,omitempty"`
	DiscountAmount float64     `json:"discountAmount"`
	Status         OrderStatus `json:"status"`
	Items          []OrderItem `json:"items,omitempty"`
	CreatedAt      time.Time   `json:"createdAt"`
}

type OrderItem struct {
	ID        string  `json:"id"`
	OrderID   string  `json:"orderId"`
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}
