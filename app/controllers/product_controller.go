package controllers

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/nikhilverma/shopline/app/repositories"
	"github.com/nikhilverma/shopline/app/services"
	"github.com/nikhilverma/shopline/pkg/response"
)

type ProductController struct {
	catalog *services.CatalogService
	reviews *services.ReviewService
}

func NewProductController() *ProductController {
	return &ProductController{
		catalog: services.NewCatalogService(),
		reviews: services.NewReviewService(),
	}
}

// Index lists the catalogue with search, filter and sort parameters:
// q, category_id, min_price, max_price, sort, page, limit.
func (c *ProductController) Index(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	filter := repositories.ProductFilter{
		Search:     r.URL.Query().Get("q"),
		CategoryID: uint(queryInt(r, "category_id", 0)),
		MinPrice:   queryInt64(r, "min_price", 0),
		MaxPrice:   queryInt64(r, "max_price", 0),
		Sort:       r.URL.Query().Get("sort"),
		Page:       page,
		Limit:      limit,
	}

	products, pagination, err := c.catalog.Search(filter)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not list products")
		return
	}
	response.Paginated(w, products, pagination)
}

func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	product, err := c.catalog.GetProduct(paramUint(r, "id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(w)
			return
		}
		response.Error(w, http.StatusInternalServerError, "could not load product")
		return
	}
	response.Success(w, product)
}

// Reviews lists a product's reviews.
func (c *ProductController) Reviews(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	reviews, pagination, err := c.reviews.ListByProduct(paramUint(r, "id"), page, limit)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not list reviews")
		return
	}
	response.Paginated(w, reviews, pagination)
}
