package seeders

import (
	"errors"

	"gorm.io/gorm"

	"github.com/nikhilverma/shopline/app/models"
	"github.com/nikhilverma/shopline/app/services"
)

func init() {
	Register("catalog", SeedCatalog)
}

// SeedCatalog loads a small demo catalogue. Categories and products are
// matched by slug and SKU, so re-running does not duplicate rows.
func SeedCatalog(db *gorm.DB) error {
	categories := []models.Category{
		{Name: "Electronics", Description: "Phones, audio and accessories"},
		{Name: "Home & Kitchen", Description: "Everything for the house"},
		{Name: "Books", Description: "Paperbacks and hardcovers"},
	}

	catIDs := map[string]uint{}
	for i := range categories {
		categories[i].Slug = services.Slugify(categories[i].Name)

		var existing models.Category
		err := db.Where("slug = ?", categories[i].Slug).First(&existing).Error
		switch {
		case err == nil:
			catIDs[categories[i].Slug] = existing.ID
			continue
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		if err := db.Create(&categories[i]).Error; err != nil {
			return err
		}
		catIDs[categories[i].Slug] = categories[i].ID
	}

	// Prices in cents.
	products := []models.Product{
		{Name: "Wireless Earbuds", SKU: "ELEC-EARBUDS-01", Price: 7999, Stock: 120, CategoryID: catIDs["electronics"], Description: "Bluetooth 5.3, 24h battery with the case."},
		{Name: "USB-C Charger 65W", SKU: "ELEC-CHGR-65", Price: 3499, Stock: 200, CategoryID: catIDs["electronics"], Description: "GaN fast charger, dual port."},
		{Name: "Smart Speaker Mini", SKU: "ELEC-SPKR-MINI", Price: 4999, Stock: 45, CategoryID: catIDs["electronics"], Description: "Voice assistant, room-filling sound."},
		{Name: "Cast Iron Skillet 12in", SKU: "HOME-SKLT-12", Price: 4299, Stock: 60, CategoryID: catIDs["home-kitchen"], Description: "Pre-seasoned, oven safe."},
		{Name: "Pour-Over Coffee Kettle", SKU: "HOME-KTTL-01", Price: 3899, Stock: 80, CategoryID: catIDs["home-kitchen"], Description: "Gooseneck spout, 1 litre."},
		{Name: "The Pragmatic Shopkeeper", SKU: "BOOK-PRAG-01", Price: 2499, Stock: 150, CategoryID: catIDs["books"], Description: "Running a store without losing your mind."},
		{Name: "Distributed Recipes", SKU: "BOOK-DIST-01", Price: 3299, Stock: 4, CategoryID: catIDs["books"], Description: "Cooking for very large parties."},
	}

	for i := range products {
		var existing models.Product
		err := db.Where("sku = ?", products[i].SKU).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&products[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
