package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/nikhilverma/shopline/app/models"
	"github.com/nikhilverma/shopline/app/repositories"
)

// WishlistService manages the per-user saved-products list.
type WishlistService struct {
	wishlists *repositories.WishlistRepository
	products  *repositories.ProductRepository
	carts     *CartService
}

func NewWishlistService() *WishlistService {
	return &WishlistService{
		wishlists: repositories.NewWishlistRepository(),
		products:  repositories.NewProductRepository(),
		carts:     NewCartService(),
	}
}

// Get returns the user's wishlist.
func (s *WishlistService) Get(userID uint) (models.Wishlist, error) {
	return s.wishlists.FindOrCreateByUser(userID)
}

// Add puts a product on the wishlist; each product appears once.
func (s *WishlistService) Add(userID, productID uint) (models.Wishlist, error) {
	if _, err := s.products.FindByID(productID); err != nil {
		return models.Wishlist{}, err
	}

	wl, err := s.wishlists.FindOrCreateByUser(userID)
	if err != nil {
		return models.Wishlist{}, err
	}

	if _, err := s.wishlists.FindItem(wl.ID, productID); err == nil {
		return models.Wishlist{}, ErrAlreadyWishlisted
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Wishlist{}, err
	}

	item := models.WishlistItem{WishlistID: wl.ID, ProductID: productID}
	if err := s.wishlists.CreateItem(&item); err != nil {
		return models.Wishlist{}, err
	}
	return s.wishlists.FindOrCreateByUser(userID)
}

// Remove takes a product off the wishlist.
func (s *WishlistService) Remove(userID, productID uint) (models.Wishlist, error) {
	wl, err := s.wishlists.FindOrCreateByUser(userID)
	if err != nil {
		return models.Wishlist{}, err
	}

	item, err := s.wishlists.FindItem(wl.ID, productID)
	if err != nil {
		return models.Wishlist{}, err
	}
	if err := s.wishlists.DeleteItem(&item); err != nil {
		return models.Wishlist{}, err
	}
	return s.wishlists.FindOrCreateByUser(userID)
}

// MoveToCart transfers a wishlisted product into the cart.
func (s *WishlistService) MoveToCart(userID, productID uint) (CartView, error) {
	if _, err := s.Remove(userID, productID); err != nil {
		return CartView{}, err
	}
	return s.carts.AddItem(userID, "", productID, 1)
}
