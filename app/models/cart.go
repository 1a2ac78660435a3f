package models

import "gorm.io/gorm"

// Cart holds items before checkout. A signed-in user has at most one open
// cart (UserID set); a guest cart is keyed by SessionID instead. On login
// the guest cart merges into the user's cart and is deleted.
type Cart struct {
	gorm.Model
	UserID    *uint  `gorm:"index" json:"user_id,omitempty"`
	SessionID string `gorm:"size:64;index" json:"-"`

	Items []CartItem `gorm:"foreignKey:CartID" json:"items"`
}

// CartItem is one product line in a cart.
type CartItem struct {
	gorm.Model
	CartID    uint `gorm:"not null;index:idx_cart_product,unique" json:"cart_id"`
	ProductID uint `gorm:"not null;index:idx_cart_product,unique" json:"product_id"`
	Quantity  int  `gorm:"not null;default:1" json:"quantity"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// Subtotal is the line total in minor units, 0 until Product is loaded.
func (ci *CartItem) Subtotal() int64 {
	if ci.Product == nil {
		return 0
	}
	return ci.Product.Price * int64(ci.Quantity)
}
