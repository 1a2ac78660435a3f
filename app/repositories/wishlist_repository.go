package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/nikhilverma/shopline/app/models"
	"github.com/nikhilverma/shopline/pkg/orm"
)

// WishlistRepository handles database operations for Wishlist.
type WishlistRepository struct{}

func NewWishlistRepository() *WishlistRepository {
	return &WishlistRepository{}
}

// FindOrCreateByUser returns the user's wishlist with items loaded,
// creating an empty one on first use.
func (r *WishlistRepository) FindOrCreateByUser(userID uint) (models.Wishlist, error) {
	var wl models.Wishlist
	err := orm.DB().Model(&models.Wishlist{}).
		Preload("Items").Preload("Items.Product").
		Where("user_id = ?", userID).
		First(&wl)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		wl = models.Wishlist{UserID: userID}
		err = orm.DB().Create(&wl)
	}
	return wl, err
}

// FindItem returns the wishlist line for a product, if present.
func (r *WishlistRepository) FindItem(wishlistID, productID uint) (models.WishlistItem, error) {
	var item models.WishlistItem
	err := orm.DB().Model(&models.WishlistItem{}).
		Where("wishlist_id = ? AND product_id = ?", wishlistID, productID).
		First(&item)
	return item, err
}

// CreateItem adds a product to a wishlist.
func (r *WishlistRepository) CreateItem(item *models.WishlistItem) error {
	return orm.DB().Create(item)
}

// DeleteItem removes a product from a wishlist.
func (r *WishlistRepository) DeleteItem(item *models.WishlistItem) error {
	return orm.DB().Delete(item)
}
