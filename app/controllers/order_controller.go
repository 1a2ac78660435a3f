package controllers

import (
	"errors"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/nikhilverma/shopline/app/services"
	"github.com/nikhilverma/shopline/pkg/bind"
	"github.com/nikhilverma/shopline/pkg/response"
	"github.com/nikhilverma/shopline/pkg/sse"
)

type OrderController struct {
	service *services.OrderService
}

func NewOrderController() *OrderController {
	return &OrderController{service: services.NewOrderService()}
}

type checkoutRequest struct {
	ShippingAddress string `json:"shipping_address" validate:"required,min=10,max=500"`
	PaymentMethod   string `json:"payment_method" validate:"required"`
}

func (c *OrderController) Checkout(w http.ResponseWriter, r *http.Request) {
	var body checkoutRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "malformed request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	userID, _ := userFromCtx(r)
	order, err := c.service.Checkout(r.Context(), userID, body.ShippingAddress, body.PaymentMethod)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyCart):
			response.Error(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, services.ErrInsufficientStock):
			response.Conflict(w, err.Error())
		default:
			response.Error(w, http.StatusInternalServerError, "checkout failed")
		}
		return
	}
	response.Created(w, order)
}

func (c *OrderController) Index(w http.ResponseWriter, r *http.Request) {
	userID, _ := userFromCtx(r)
	page, limit := pageParams(r)
	orders, pagination, err := c.service.ListForUser(userID, page, limit)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not list orders")
		return
	}
	response.Paginated(w, orders, pagination)
}

func (c *OrderController) Show(w http.ResponseWriter, r *http.Request) {
	userID, _ := userFromCtx(r)
	order, err := c.service.Get(paramUint(r, "id"), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(w)
			return
		}
		response.Error(w, http.StatusInternalServerError, "could not load order")
		return
	}
	response.Success(w, order)
}

// Cancel lets a customer cancel their own order while it is still
// PENDING or PROCESSING. A succeeded payment is refunded.
func (c *OrderController) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, _ := userFromCtx(r)
	order, err := c.service.CancelOwn(r.Context(), paramUint(r, "id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.NotFound(w)
		case errors.Is(err, services.ErrNotCancellable):
			response.Conflict(w, err.Error())
		default:
			response.Error(w, http.StatusInternalServerError, "cancel failed")
		}
		return
	}
	response.Success(w, order)
}

// StatusStream pushes the order's status over SSE until it reaches a
// terminal state or the client disconnects. The confirmation page uses
// this instead of polling while the webhook settles the payment.
func (c *OrderController) StatusStream(w http.ResponseWriter, r *http.Request) {
	userID, _ := userFromCtx(r)
	orderID := paramUint(r, "id")

	order, err := c.service.Get(orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(w)
			return
		}
		response.Error(w, http.StatusInternalServerError, "could not load order")
		return
	}

	stream := sse.New(w, r)
	if stream == nil {
		return
	}

	last := ""
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		if order.Status != last {
			last = order.Status
			if err := stream.Send("status", map[string]interface{}{
				"order_id": order.ID,
				"status":   order.Status,
			}); err != nil {
				return
			}
		}
		if order.IsTerminal() {
			return
		}

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			order, err = c.service.Get(orderID, userID)
			if err != nil {
				return
			}
			stream.Heartbeat()
			if stream.IsClosed() {
				return
			}
		}
	}
}
