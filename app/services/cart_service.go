package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/nikhilverma/shopline/app/models"
	"github.com/nikhilverma/shopline/app/repositories"
	"github.com/nikhilverma/shopline/pkg/collection"
	"github.com/nikhilverma/shopline/pkg/logger"
)

// CartService manages user and guest carts.
type CartService struct {
	carts    *repositories.CartRepository
	products *repositories.ProductRepository
}

func NewCartService() *CartService {
	return &CartService{
		carts:    repositories.NewCartRepository(),
		products: repositories.NewProductRepository(),
	}
}

// CartView is a cart with its computed total.
type CartView struct {
	Cart  models.Cart `json:"cart"`
	Total int64       `json:"total"`
}

// CartTotal sums line subtotals in minor units.
func CartTotal(cart models.Cart) int64 {
	return collection.Sum(cart.Items, func(it models.CartItem) int64 {
		return it.Subtotal()
	})
}

// Get returns the cart for a signed-in user (userID != 0) or a guest
// session, creating it on first use.
func (s *CartService) Get(userID uint, sessionID string) (CartView, error) {
	cart, err := s.find(userID, sessionID)
	if err != nil {
		return CartView{}, err
	}
	return CartView{Cart: cart, Total: CartTotal(cart)}, nil
}

// AddItem puts qty of a product in the cart, adding to an existing line
// if one is present. The quantity is capped at available stock.
func (s *CartService) AddItem(userID uint, sessionID string, productID uint, qty int) (CartView, error) {
	if qty < 1 {
		return CartView{}, ErrBadQuantity
	}

	product, err := s.products.FindByID(productID)
	if err != nil {
		return CartView{}, err
	}
	if product.Stock == 0 {
		return CartView{}, ErrProductInactive
	}

	cart, err := s.find(userID, sessionID)
	if err != nil {
		return CartView{}, err
	}

	item, err := s.carts.FindItem(cart.ID, productID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = models.CartItem{CartID: cart.ID, ProductID: productID, Quantity: min(qty, product.Stock)}
		if err := s.carts.CreateItem(&item); err != nil {
			return CartView{}, err
		}
	case err != nil:
		return CartView{}, err
	default:
		item.Quantity = min(item.Quantity+qty, product.Stock)
		if err := s.carts.SaveItem(&item); err != nil {
			return CartView{}, err
		}
	}

	return s.Get(userID, sessionID)
}

// UpdateItem sets a line's quantity; zero removes the line.
func (s *CartService) UpdateItem(userID uint, sessionID string, productID uint, qty int) (CartView, error) {
	if qty < 0 {
		return CartView{}, ErrBadQuantity
	}

	cart, err := s.find(userID, sessionID)
	if err != nil {
		return CartView{}, err
	}

	item, err := s.carts.FindItem(cart.ID, productID)
	if err != nil {
		return CartView{}, err
	}

	if qty == 0 {
		if err := s.carts.DeleteItem(&item); err != nil {
			return CartView{}, err
		}
		return s.Get(userID, sessionID)
	}

	product, err := s.products.FindByID(productID)
	if err != nil {
		return CartView{}, err
	}

	item.Quantity = min(qty, product.Stock)
	if err := s.carts.SaveItem(&item); err != nil {
		return CartView{}, err
	}
	return s.Get(userID, sessionID)
}

// RemoveItem drops a product from the cart.
func (s *CartService) RemoveItem(userID uint, sessionID string, productID uint) (CartView, error) {
	return s.UpdateItem(userID, sessionID, productID, 0)
}

// MergeGuestCart folds a guest cart's lines into the user's cart and
// deletes the guest cart. Quantities for shared products add together.
func (s *CartService) MergeGuestCart(sessionID string, userID uint) error {
	guest, err := s.carts.FindBySession(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if len(guest.Items) == 0 {
		return s.carts.Delete(&guest)
	}

	for _, line := range guest.Items {
		if _, err := s.AddItem(userID, "", line.ProductID, line.Quantity); err != nil {
			logger.Warn("cart: merge skipped line",
				"product_id", line.ProductID, "error", err)
		}
	}
	return s.carts.Delete(&guest)
}

// PruneStaleGuestCarts deletes guest carts idle longer than maxAge.
// Run from the scheduler.
func (s *CartService) PruneStaleGuestCarts(maxAge time.Duration) int {
	stale, err := s.carts.StaleGuestCarts(time.Now().Add(-maxAge))
	if err != nil {
		logger.Error("cart: prune query failed", "error", err)
		return 0
	}

	pruned := 0
	for i := range stale {
		if err := s.carts.Delete(&stale[i]); err != nil {
			logger.Error("cart: prune failed", "cart_id", stale[i].ID, "error", err)
			continue
		}
		pruned++
	}
	if pruned > 0 {
		logger.Info("cart: pruned stale guest carts", "count", pruned)
	}
	return pruned
}

func (s *CartService) find(userID uint, sessionID string) (models.Cart, error) {
	if userID != 0 {
		return s.carts.FindOrCreateByUser(userID)
	}
	return s.carts.FindOrCreateBySession(sessionID)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
