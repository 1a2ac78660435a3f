package controllers

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/nikhilverma/shopline/app/services"
	"github.com/nikhilverma/shopline/pkg/bind"
	"github.com/nikhilverma/shopline/pkg/response"
)

// CartController serves both authenticated users and guest sessions;
// identity() decides which cart a request touches.
type CartController struct {
	service *services.CartService
}

func NewCartController() *CartController {
	return &CartController{service: services.NewCartService()}
}

func (c *CartController) Show(w http.ResponseWriter, r *http.Request) {
	userID, sessionID := identity(r)
	view, err := c.service.Get(userID, sessionID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not load cart")
		return
	}
	response.Success(w, view)
}

type cartItemRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,min=1"`
}

func (c *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	var body cartItemRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "malformed request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	userID, sessionID := identity(r)
	view, err := c.service.AddItem(userID, sessionID, body.ProductID, body.Quantity)
	if err != nil {
		c.writeCartError(w, err)
		return
	}
	response.Success(w, view)
}

type cartUpdateRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

func (c *CartController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var body cartUpdateRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "malformed request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	userID, sessionID := identity(r)
	view, err := c.service.UpdateItem(userID, sessionID, paramUint(r, "productId"), body.Quantity)
	if err != nil {
		c.writeCartError(w, err)
		return
	}
	response.Success(w, view)
}

func (c *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, sessionID := identity(r)
	view, err := c.service.RemoveItem(userID, sessionID, paramUint(r, "productId"))
	if err != nil {
		c.writeCartError(w, err)
		return
	}
	response.Success(w, view)
}

func (c *CartController) writeCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.NotFound(w)
	case errors.Is(err, services.ErrProductInactive):
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrBadQuantity):
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
	default:
		response.Error(w, http.StatusInternalServerError, "cart operation failed")
	}
}
