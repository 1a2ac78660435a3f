package models

import "gorm.io/gorm"

// Product is a catalogue entry. Price is in minor currency units (cents).
// RatingAvg and RatingCount are maintained by the review service whenever
// a review is written or removed.
type Product struct {
	gorm.Model
	Name        string  `gorm:"size:255;not null;index" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	SKU         string  `gorm:"size:100;not null;uniqueIndex" json:"sku"`
	Price       int64   `gorm:"not null;default:0" json:"price"`
	Stock       int     `gorm:"not null;default:0" json:"stock"`
	CategoryID  uint    `gorm:"index" json:"category_id"`
	ImageURL    string  `gorm:"size:512" json:"image_url"`
	RatingAvg   float64 `gorm:"not null;default:0" json:"rating_avg"`
	RatingCount int     `gorm:"not null;default:0" json:"rating_count"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// InStock reports whether at least qty units are available.
func (p *Product) InStock(qty int) bool { return p.Stock >= qty }
