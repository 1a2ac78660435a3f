package models

import "gorm.io/gorm"

// Category groups products for browsing and filtering.
type Category struct {
	gorm.Model
	Name        string `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Slug        string `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
}
