package migrations

import (
	"gorm.io/gorm"

	"github.com/nikhilverma/shopline/app/models"
	"github.com/nikhilverma/shopline/pkg/migration"
)

type createReviews struct{}

func init() {
	migration.Register("20250301000400_create_reviews", createReviews{})
}

func (createReviews) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Review{})
}

func (createReviews) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Review{})
}
