package migrations

import (
	"gorm.io/gorm"

	"github.com/nikhilverma/shopline/app/models"
	"github.com/nikhilverma/shopline/pkg/migration"
)

type createWishlists struct{}

func init() {
	migration.Register("20250301000500_create_wishlists", createWishlists{})
}

func (createWishlists) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Wishlist{}, &models.WishlistItem{})
}

func (createWishlists) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.WishlistItem{}, &models.Wishlist{})
}
