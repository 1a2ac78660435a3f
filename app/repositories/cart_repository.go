package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/nikhilverma/shopline/app/models"
	"github.com/nikhilverma/shopline/pkg/orm"
)

// CartRepository handles database operations for Cart and CartItem.
type CartRepository struct{}

func NewCartRepository() *CartRepository {
	return &CartRepository{}
}

// FindByUser returns the user's open cart with items and products loaded.
func (r *CartRepository) FindByUser(userID uint) (models.Cart, error) {
	var cart models.Cart
	err := orm.DB().Model(&models.Cart{}).
		Preload("Items").Preload("Items.Product").
		Where("user_id = ?", userID).
		First(&cart)
	return cart, err
}

// FindOrCreateByUser returns the user's cart, creating an empty one if
// none exists.
func (r *CartRepository) FindOrCreateByUser(userID uint) (models.Cart, error) {
	cart, err := r.FindByUser(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{UserID: &userID}
		err = orm.DB().Create(&cart)
	}
	return cart, err
}

// FindBySession returns a guest cart keyed by session ID.
func (r *CartRepository) FindBySession(sessionID string) (models.Cart, error) {
	var cart models.Cart
	err := orm.DB().Model(&models.Cart{}).
		Preload("Items").Preload("Items.Product").
		Where("session_id = ? AND user_id IS NULL", sessionID).
		First(&cart)
	return cart, err
}

// FindOrCreateBySession returns a guest cart, creating one if needed.
func (r *CartRepository) FindOrCreateBySession(sessionID string) (models.Cart, error) {
	cart, err := r.FindBySession(sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{SessionID: sessionID}
		err = orm.DB().Create(&cart)
	}
	return cart, err
}

// FindItem returns the cart line for a product, if present.
func (r *CartRepository) FindItem(cartID, productID uint) (models.CartItem, error) {
	var item models.CartItem
	err := orm.DB().Model(&models.CartItem{}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item)
	return item, err
}

// CreateItem adds a line to a cart.
func (r *CartRepository) CreateItem(item *models.CartItem) error {
	return orm.DB().Create(item)
}

// SaveItem persists quantity changes on a line.
func (r *CartRepository) SaveItem(item *models.CartItem) error {
	return orm.DB().Save(item)
}

// DeleteItem removes a line from a cart.
func (r *CartRepository) DeleteItem(item *models.CartItem) error {
	return orm.DB().Delete(item)
}

// Save persists changes on the cart row itself.
func (r *CartRepository) Save(cart *models.Cart) error {
	return orm.DB().Save(cart)
}

// ClearTx removes every line from a cart inside tx, used at checkout.
func (r *CartRepository) ClearTx(tx *gorm.DB, cartID uint) error {
	return tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}

// Delete removes the cart and its lines.
func (r *CartRepository) Delete(cart *models.Cart) error {
	if err := orm.DB().Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}); err != nil {
		return err
	}
	return orm.DB().Delete(cart)
}

// StaleGuestCarts lists guest carts untouched since cutoff, for pruning.
func (r *CartRepository) StaleGuestCarts(cutoff time.Time) ([]models.Cart, error) {
	var carts []models.Cart
	err := orm.DB().Model(&models.Cart{}).
		Where("user_id IS NULL AND updated_at < ?", cutoff).
		Get(&carts)
	return carts, err
}
