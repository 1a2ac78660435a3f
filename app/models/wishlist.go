package models

import "gorm.io/gorm"

// Wishlist is a user's saved-for-later list, one per user.
type Wishlist struct {
	gorm.Model
	UserID uint `gorm:"not null;uniqueIndex" json:"user_id"`

	Items []WishlistItem `gorm:"foreignKey:WishlistID" json:"items"`
}

// WishlistItem is one saved product; a product appears at most once per
// wishlist.
type WishlistItem struct {
	gorm.Model
	WishlistID uint `gorm:"not null;index:idx_wishlist_product,unique" json:"wishlist_id"`
	ProductID  uint `gorm:"not null;index:idx_wishlist_product,unique" json:"product_id"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}
