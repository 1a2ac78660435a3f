package models

import "gorm.io/gorm"

// Review is a customer rating on a product, one per user per product,
// rating 1 to 5.
type Review struct {
	gorm.Model
	UserID    uint   `gorm:"not null;index:idx_user_product_review,unique" json:"user_id"`
	ProductID uint   `gorm:"not null;index:idx_user_product_review,unique" json:"product_id"`
	Rating    int    `gorm:"not null" json:"rating"`
	Comment   string `gorm:"type:text" json:"comment"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
