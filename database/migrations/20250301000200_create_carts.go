package migrations

import (
	"gorm.io/gorm"

	"github.com/nikhilverma/shopline/app/models"
	"github.com/nikhilverma/shopline/pkg/migration"
)

type createCarts struct{}

func init() {
	migration.Register("20250301000200_create_carts", createCarts{})
}

func (createCarts) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Cart{}, &models.CartItem{})
}

func (createCarts) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.CartItem{}, &models.Cart{})
}
