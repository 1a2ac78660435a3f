package controllers

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/nikhilverma/shopline/app/services"
	"github.com/nikhilverma/shopline/pkg/response"
)

type CategoryController struct {
	catalog *services.CatalogService
}

func NewCategoryController() *CategoryController {
	return &CategoryController{catalog: services.NewCatalogService()}
}

func (c *CategoryController) Index(w http.ResponseWriter, r *http.Request) {
	categories, err := c.catalog.Categories()
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not list categories")
		return
	}
	response.Success(w, categories)
}

func (c *CategoryController) Show(w http.ResponseWriter, r *http.Request) {
	category, err := c.catalog.GetCategory(paramUint(r, "id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(w)
			return
		}
		response.Error(w, http.StatusInternalServerError, "could not load category")
		return
	}
	response.Success(w, category)
}
