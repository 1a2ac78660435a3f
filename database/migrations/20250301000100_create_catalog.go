package migrations

import (
	"gorm.io/gorm"

	"github.com/nikhilverma/shopline/app/models"
	"github.com/nikhilverma/shopline/pkg/migration"
)

type createCatalog struct{}

func init() {
	migration.Register("20250301000100_create_catalog", createCatalog{})
}

func (createCatalog) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Category{}, &models.Product{})
}

func (createCatalog) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Product{}, &models.Category{})
}
