package migrations

import (
	"gorm.io/gorm"

	"github.com/nikhilverma/shopline/app/models"
	"github.com/nikhilverma/shopline/pkg/migration"
)

type createUsers struct{}

func init() {
	migration.Register("20250301000000_create_users", createUsers{})
}

func (createUsers) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (createUsers) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.User{})
}
