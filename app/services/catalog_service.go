package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/nikhilverma/shopline/app/models"
	"github.com/nikhilverma/shopline/app/repositories"
	"github.com/nikhilverma/shopline/pkg/event"
	"github.com/nikhilverma/shopline/pkg/orm"
)

// CatalogService covers product and category management plus storefront
// listing. Only admin routes reach the write methods.
type CatalogService struct {
	products   *repositories.ProductRepository
	categories *repositories.CategoryRepository
}

func NewCatalogService() *CatalogService {
	return &CatalogService{
		products:   repositories.NewProductRepository(),
		categories: repositories.NewCategoryRepository(),
	}
}

// LowStockThreshold is the stock level at or below which a product shows
// in the admin low-stock listing and fires an alert.
const LowStockThreshold = 5

// Search lists products for the storefront.
func (s *CatalogService) Search(filter repositories.ProductFilter) ([]models.Product, orm.Pagination, error) {
	return s.products.Search(filter)
}

// GetProduct returns one product.
func (s *CatalogService) GetProduct(id uint) (models.Product, error) {
	return s.products.FindByID(id)
}

// CreateProduct validates SKU uniqueness and persists the product.
func (s *CatalogService) CreateProduct(p *models.Product) error {
	if _, err := s.products.FindBySKU(p.SKU); err == nil {
		return ErrDuplicateSKU
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return s.products.Create(p)
}

// UpdateProduct persists catalogue edits; a changed SKU must stay unique.
func (s *CatalogService) UpdateProduct(id uint, apply func(p *models.Product)) (models.Product, error) {
	product, err := s.products.FindByID(id)
	if err != nil {
		return models.Product{}, err
	}

	oldSKU := product.SKU
	apply(&product)

	if product.SKU != oldSKU {
		if existing, err := s.products.FindBySKU(product.SKU); err == nil && existing.ID != product.ID {
			return models.Product{}, ErrDuplicateSKU
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Product{}, err
		}
	}

	if err := s.products.Update(&product); err != nil {
		return models.Product{}, err
	}

	if product.Stock <= LowStockThreshold {
		event.FireAsync(event.ProductLowStock, product)
	}
	return product, nil
}

// DeleteProduct removes a product from the catalogue.
func (s *CatalogService) DeleteProduct(id uint) error {
	product, err := s.products.FindByID(id)
	if err != nil {
		return err
	}
	return s.products.Delete(&product)
}

// LowStock lists products running out.
func (s *CatalogService) LowStock() ([]models.Product, error) {
	return s.products.LowStock(LowStockThreshold)
}

// Categories lists all categories.
func (s *CatalogService) Categories() ([]models.Category, error) {
	return s.categories.All()
}

// GetCategory returns one category.
func (s *CatalogService) GetCategory(id uint) (models.Category, error) {
	return s.categories.FindByID(id)
}

// CreateCategory persists a category, deriving the slug from the name
// when none is given.
func (s *CatalogService) CreateCategory(cat *models.Category) error {
	if cat.Slug == "" {
		cat.Slug = Slugify(cat.Name)
	}
	return s.categories.Create(cat)
}

// UpdateCategory persists category edits.
func (s *CatalogService) UpdateCategory(cat *models.Category) error {
	return s.categories.Update(cat)
}

// DeleteCategory removes a category. Products keep their category_id and
// simply list as uncategorised.
func (s *CatalogService) DeleteCategory(id uint) error {
	cat, err := s.categories.FindByID(id)
	if err != nil {
		return err
	}
	return s.categories.Delete(&cat)
}

// Slugify lowercases a name and squashes runs of non-alphanumerics to
// single hyphens.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// ProductCacheKey builds the cache key used for cached product listings.
func ProductCacheKey(parts ...interface{}) string {
	return "shopline:products:" + fmt.Sprint(parts...)
}
