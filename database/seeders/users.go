package seeders

import (
	"errors"

	"gorm.io/gorm"

	"github.com/nikhilverma/shopline/app/models"
	"github.com/nikhilverma/shopline/pkg/auth"
)

func init() {
	Register("users", SeedUsers)
}

// SeedUsers creates the default admin and a demo customer. Existing
// accounts are left alone so the seeder is safe to re-run.
func SeedUsers(db *gorm.DB) error {
	accounts := []struct {
		name, email, password, role string
	}{
		{"Store Admin", "admin@shopline.test", "admin-secret-1", models.RoleAdmin},
		{"Demo Customer", "customer@shopline.test", "customer-secret-1", models.RoleUser},
	}

	for _, a := range accounts {
		var existing models.User
		err := db.Where("email = ?", a.email).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hash, err := auth.HashPassword(a.password)
		if err != nil {
			return err
		}
		user := models.User{Name: a.name, Email: a.email, Password: hash, Role: a.role}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
	}
	return nil
}
