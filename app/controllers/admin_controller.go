package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/nikhilverma/shopline/app/listeners"
	"github.com/nikhilverma/shopline/app/models"
	"github.com/nikhilverma/shopline/app/services"
	"github.com/nikhilverma/shopline/pkg/bind"
	"github.com/nikhilverma/shopline/pkg/resource"
	"github.com/nikhilverma/shopline/pkg/response"
	"github.com/nikhilverma/shopline/pkg/storage"
	"github.com/nikhilverma/shopline/pkg/ws"
)

// AdminController backs the admin console: catalogue management, order
// fulfilment, refunds, the dashboard and the live order feed.
type AdminController struct {
	catalog  *services.CatalogService
	orders   *services.OrderService
	payments *services.PaymentService
}

func NewAdminController() *AdminController {
	return &AdminController{
		catalog:  services.NewCatalogService(),
		orders:   services.NewOrderService(),
		payments: services.NewPaymentService(),
	}
}

type productRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=255"`
	Description string `json:"description" validate:"max=5000"`
	SKU         string `json:"sku" validate:"required,min=2,max=100"`
	Price       int64  `json:"price" validate:"gte=0"`
	Stock       int    `json:"stock" validate:"gte=0"`
	CategoryID  uint   `json:"category_id"`
	ImageURL    string `json:"image_url" validate:"max=512"`
}

func (c *AdminController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var body productRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "malformed request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	product := models.Product{
		Name:        body.Name,
		Description: body.Description,
		SKU:         body.SKU,
		Price:       body.Price,
		Stock:       body.Stock,
		CategoryID:  body.CategoryID,
		ImageURL:    body.ImageURL,
	}
	if err := c.catalog.CreateProduct(&product); err != nil {
		if errors.Is(err, services.ErrDuplicateSKU) {
			response.Conflict(w, err.Error())
			return
		}
		response.Error(w, http.StatusInternalServerError, "could not create product")
		return
	}
	response.Created(w, product)
}

func (c *AdminController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var body productRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "malformed request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	product, err := c.catalog.UpdateProduct(paramUint(r, "id"), func(p *models.Product) {
		p.Name = body.Name
		p.Description = body.Description
		p.SKU = body.SKU
		p.Price = body.Price
		p.Stock = body.Stock
		p.CategoryID = body.CategoryID
		if body.ImageURL != "" {
			p.ImageURL = body.ImageURL
		}
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.NotFound(w)
		case errors.Is(err, services.ErrDuplicateSKU):
			response.Conflict(w, err.Error())
		default:
			response.Error(w, http.StatusInternalServerError, "could not update product")
		}
		return
	}
	response.Success(w, product)
}

func (c *AdminController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := c.catalog.DeleteProduct(paramUint(r, "id")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(w)
			return
		}
		response.Error(w, http.StatusInternalServerError, "could not delete product")
		return
	}
	response.NoContent(w)
}

// allowed upload extensions, lowercased
var imageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true}

const maxImageUpload = 5 << 20

// UploadImage stores a product image on the configured disk and returns
// its public URL for use in a subsequent product create or update.
func (c *AdminController) UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageUpload); err != nil {
		response.Error(w, http.StatusBadRequest, "upload too large or malformed")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "missing image field")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !imageExtensions[ext] {
		response.Error(w, http.StatusUnprocessableEntity, "unsupported image type")
		return
	}

	path := fmt.Sprintf("products/%d%s", time.Now().UnixNano(), ext)
	if err := storage.PutStream(path, file); err != nil {
		response.Error(w, http.StatusInternalServerError, "could not store image")
		return
	}
	response.Created(w, map[string]string{"path": path, "url": storage.URL(path)})
}

type categoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Slug        string `json:"slug" validate:"max=120"`
	Description string `json:"description" validate:"max=1000"`
}

func (c *AdminController) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var body categoryRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "malformed request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	category := models.Category{Name: body.Name, Slug: body.Slug, Description: body.Description}
	if err := c.catalog.CreateCategory(&category); err != nil {
		response.Error(w, http.StatusInternalServerError, "could not create category")
		return
	}
	response.Created(w, category)
}

func (c *AdminController) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var body categoryRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "malformed request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	category, err := c.catalog.GetCategory(paramUint(r, "id"))
	if err != nil {
		response.NotFound(w)
		return
	}
	category.Name = body.Name
	category.Description = body.Description
	if body.Slug != "" {
		category.Slug = body.Slug
	}
	if err := c.catalog.UpdateCategory(&category); err != nil {
		response.Error(w, http.StatusInternalServerError, "could not update category")
		return
	}
	response.Success(w, category)
}

func (c *AdminController) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := c.catalog.DeleteCategory(paramUint(r, "id")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(w)
			return
		}
		response.Error(w, http.StatusInternalServerError, "could not delete category")
		return
	}
	response.NoContent(w)
}

// Orders lists every order, optionally filtered by ?status=.
func (c *AdminController) Orders(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && !models.ValidOrderStatus(status) {
		response.Error(w, http.StatusUnprocessableEntity, "unknown order status")
		return
	}

	page, limit := pageParams(r)
	orders, pagination, err := c.orders.ListAll(status, page, limit)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not list orders")
		return
	}
	response.Paginated(w, orders, pagination)
}

type orderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateOrderStatus moves an order along its lifecycle. Cancelling here
// restores stock and refunds a succeeded payment like a customer cancel.
func (c *AdminController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var body orderStatusRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "malformed request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}
	if !models.ValidOrderStatus(body.Status) {
		response.Error(w, http.StatusUnprocessableEntity, "unknown order status")
		return
	}

	order, err := c.orders.ChangeStatus(r.Context(), paramUint(r, "id"), body.Status)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.NotFound(w)
		case errors.Is(err, services.ErrInvalidTransition):
			response.Conflict(w, err.Error())
		default:
			response.Error(w, http.StatusInternalServerError, "could not update order")
		}
		return
	}
	response.Success(w, order)
}

// Refund retries the gateway refund for a cancelled order whose earlier
// refund attempt failed.
func (c *AdminController) Refund(w http.ResponseWriter, r *http.Request) {
	order, err := c.orders.Refund(r.Context(), paramUint(r, "id"))
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.NotFound(w)
		case errors.Is(err, services.ErrNotRefundable):
			response.Conflict(w, err.Error())
		default:
			response.Error(w, http.StatusInternalServerError, "refund failed")
		}
		return
	}
	response.Success(w, order)
}

// FailedPayments lists payments stuck in FAILED for manual follow-up.
func (c *AdminController) FailedPayments(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	payments, pagination, err := c.payments.ListFailed(page, limit)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not list payments")
		return
	}
	response.Paginated(w, resource.Items(payments, failedPaymentItem), pagination)
}

func failedPaymentItem(p models.Payment) resource.Map {
	return resource.Map{
		"id":                p.ID,
		"order_id":          p.OrderID,
		"status":            p.Status,
		"amount":            p.Amount,
		"currency":          p.Currency,
		"gateway_charge_id": p.GatewayChargeID,
		"failed_at":         p.UpdatedAt,
	}
}

// Stats feeds the dashboard: order counts per status and products
// running low on stock.
func (c *AdminController) Stats(w http.ResponseWriter, r *http.Request) {
	counts, err := c.orders.CountByStatus()
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not compute stats")
		return
	}
	lowStock, err := c.catalog.LowStock()
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not compute stats")
		return
	}
	response.Success(w, map[string]interface{}{
		"orders_by_status": counts,
		"low_stock":        lowStock,
	})
}

// OrderFeed upgrades to a websocket carrying live order and payment
// events for the console header.
func (c *AdminController) OrderFeed(w http.ResponseWriter, r *http.Request) {
	ws.Upgrade(w, r, listeners.OrderFeed)
}
