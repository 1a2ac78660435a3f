package models

import "gorm.io/gorm"

// Order statuses.
const (
	OrderPending    = "PENDING"
	OrderProcessing = "PROCESSING"
	OrderShipped    = "SHIPPED"
	OrderDelivered  = "DELIVERED"
	OrderCancelled  = "CANCELLED"
)

// orderTransitions is the complete set of legal status moves. DELIVERED
// and CANCELLED are terminal.
var orderTransitions = map[string][]string{
	OrderPending:    {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered, OrderCancelled},
	OrderDelivered:  {},
	OrderCancelled:  {},
}

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	_, ok := orderTransitions[s]
	return ok
}

// Order is a placed order. Total is the sum of line subtotals in minor
// units, fixed at checkout.
type Order struct {
	gorm.Model
	UserID          uint   `gorm:"not null;index" json:"user_id"`
	Status          string `gorm:"size:20;not null;default:PENDING;index" json:"status"`
	Total           int64  `gorm:"not null" json:"total"`
	ShippingAddress string `gorm:"type:text" json:"shipping_address"`

	Items   []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	Payment *Payment    `gorm:"foreignKey:OrderID" json:"payment,omitempty"`
}

// CanTransitionTo reports whether the order may move to next.
func (o *Order) CanTransitionTo(next string) bool {
	for _, allowed := range orderTransitions[o.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the order accepts no further transitions.
func (o *Order) IsTerminal() bool {
	return len(orderTransitions[o.Status]) == 0
}

// OrderItem snapshots one product line at checkout time. Price is copied
// from the product so later catalogue edits do not rewrite order history.
type OrderItem struct {
	gorm.Model
	OrderID   uint   `gorm:"not null;index" json:"order_id"`
	ProductID uint   `gorm:"not null;index" json:"product_id"`
	Name      string `gorm:"size:255;not null" json:"name"`
	SKU       string `gorm:"size:100;not null" json:"sku"`
	Price     int64  `gorm:"not null" json:"price"`
	Quantity  int    `gorm:"not null" json:"quantity"`
}

// Subtotal is the line total in minor units.
func (oi *OrderItem) Subtotal() int64 {
	return oi.Price * int64(oi.Quantity)
}
