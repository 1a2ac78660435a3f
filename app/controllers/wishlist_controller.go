package controllers

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/nikhilverma/shopline/app/services"
	"github.com/nikhilverma/shopline/pkg/response"
)

type WishlistController struct {
	service *services.WishlistService
}

func NewWishlistController() *WishlistController {
	return &WishlistController{service: services.NewWishlistService()}
}

func (c *WishlistController) Show(w http.ResponseWriter, r *http.Request) {
	userID, _ := userFromCtx(r)
	wishlist, err := c.service.Get(userID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not load wishlist")
		return
	}
	response.Success(w, wishlist)
}

func (c *WishlistController) Add(w http.ResponseWriter, r *http.Request) {
	userID, _ := userFromCtx(r)
	wishlist, err := c.service.Add(userID, paramUint(r, "productId"))
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.NotFound(w)
		case errors.Is(err, services.ErrAlreadyWishlisted):
			response.Conflict(w, err.Error())
		default:
			response.Error(w, http.StatusInternalServerError, "could not update wishlist")
		}
		return
	}
	response.Success(w, wishlist)
}

func (c *WishlistController) Remove(w http.ResponseWriter, r *http.Request) {
	userID, _ := userFromCtx(r)
	wishlist, err := c.service.Remove(userID, paramUint(r, "productId"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(w)
			return
		}
		response.Error(w, http.StatusInternalServerError, "could not update wishlist")
		return
	}
	response.Success(w, wishlist)
}

// MoveToCart removes a wishlist entry and adds the product to the cart.
func (c *WishlistController) MoveToCart(w http.ResponseWriter, r *http.Request) {
	userID, _ := userFromCtx(r)
	view, err := c.service.MoveToCart(userID, paramUint(r, "productId"))
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.NotFound(w)
		case errors.Is(err, services.ErrProductInactive):
			response.Error(w, http.StatusUnprocessableEntity, err.Error())
		default:
			response.Error(w, http.StatusInternalServerError, "could not move item")
		}
		return
	}
	response.Success(w, view)
}
