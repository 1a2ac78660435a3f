package migrations

import (
	"gorm.io/gorm"

	"github.com/nikhilverma/shopline/app/models"
	"github.com/nikhilverma/shopline/pkg/migration"
)

type createOrders struct{}

func init() {
	migration.Register("20250301000300_create_orders", createOrders{})
}

func (createOrders) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{}, &models.OrderItem{}, &models.Payment{})
}

func (createOrders) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Payment{}, &models.OrderItem{}, &models.Order{})
}
