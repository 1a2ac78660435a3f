package repositories

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/nikhilverma/shopline/app/models"
	"github.com/nikhilverma/shopline/pkg/cache"
	"github.com/nikhilverma/shopline/pkg/orm"
)

// ErrInsufficientStock is returned when a guarded stock decrement finds
// fewer units than requested.
var ErrInsufficientStock = errors.New("insufficient stock")

// ProductFilter narrows and orders a catalogue listing.
type ProductFilter struct {
	Search     string
	CategoryID uint
	MinPrice   int64
	MaxPrice   int64
	Sort       string // "price_asc", "price_desc", "rating", "newest"
	Page       int
	Limit      int
}

// ProductRepository handles database operations for Product.
type ProductRepository struct{}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

// Search returns one page of products matching filter.
func (r *ProductRepository) Search(filter ProductFilter) ([]models.Product, orm.Pagination, error) {
	q := orm.DB().Model(&models.Product{}).Preload("Category")

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("name LIKE ? OR description LIKE ?", like, like)
	}
	if filter.CategoryID != 0 {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.MinPrice > 0 {
		q = q.Where("price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		q = q.Where("price <= ?", filter.MaxPrice)
	}

	switch filter.Sort {
	case "price_asc":
		q = q.Order("price asc")
	case "price_desc":
		q = q.Order("price desc")
	case "rating":
		q = q.Order("rating_avg desc")
	default:
		q = q.Order("created_at desc")
	}

	var products []models.Product
	pagination, err := q.GetWithPagination(&products, filter.Page, filter.Limit)
	return products, pagination, err
}

// FindByID looks up a product, cached for five minutes.
func (r *ProductRepository) FindByID(id uint) (models.Product, error) {
	var product models.Product
	key := fmt.Sprintf("shopline:product:%d", id)
	err := orm.DB().Model(&models.Product{}).Preload("Category").
		Where("id = ?", id).Limit(1).
		Cache(key, 5*time.Minute, &product)
	if err == nil && product.ID == 0 {
		return product, gorm.ErrRecordNotFound
	}
	return product, err
}

// FindBySKU looks up a product by its SKU.
func (r *ProductRepository) FindBySKU(sku string) (models.Product, error) {
	var product models.Product
	err := orm.DB().Model(&models.Product{}).Where("sku = ?", sku).First(&product)
	return product, err
}

// FindByIDs loads the given products keyed for checkout.
func (r *ProductRepository) FindByIDs(ids []uint) ([]models.Product, error) {
	var products []models.Product
	err := orm.DB().Model(&models.Product{}).Where("id IN ?", ids).Get(&products)
	return products, err
}

// Create persists a product and invalidates cached listings.
func (r *ProductRepository) Create(product *models.Product) error {
	if err := orm.DB().Create(product); err != nil {
		return err
	}
	r.invalidate(product.ID)
	return nil
}

// Update persists changes and invalidates cached listings.
func (r *ProductRepository) Update(product *models.Product) error {
	if err := orm.DB().Save(product); err != nil {
		return err
	}
	r.invalidate(product.ID)
	return nil
}

// Delete soft-deletes a product and invalidates cached listings.
func (r *ProductRepository) Delete(product *models.Product) error {
	if err := orm.DB().Delete(product); err != nil {
		return err
	}
	r.invalidate(product.ID)
	return nil
}

// LowStock lists products at or below threshold units.
func (r *ProductRepository) LowStock(threshold int) ([]models.Product, error) {
	var products []models.Product
	err := orm.DB().Model(&models.Product{}).
		Where("stock <= ?", threshold).
		Order("stock asc").
		Get(&products)
	return products, err
}

// DecrementStock atomically takes qty units from a product inside tx.
// The guarded UPDATE only matches when enough stock remains, so two
// concurrent checkouts cannot oversell.
func (r *ProductRepository) DecrementStock(tx *gorm.DB, productID uint, qty int) error {
	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	r.invalidate(productID)
	return nil
}

// IncrementStock returns qty units to a product inside tx, used when an
// order is cancelled.
func (r *ProductRepository) IncrementStock(tx *gorm.DB, productID uint, qty int) error {
	res := tx.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	r.invalidate(productID)
	return nil
}

// UpdateRatingAggregate recomputes a product's average rating and review
// count from the reviews table.
func (r *ProductRepository) UpdateRatingAggregate(productID uint) error {
	var agg struct {
		Avg   float64
		Count int
	}
	err := orm.DB().Gorm().Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) as avg, COUNT(*) as count").
		Where("product_id = ?", productID).
		Scan(&agg).Error
	if err != nil {
		return err
	}

	err = orm.DB().Model(&models.Product{}).Where("id = ?", productID).
		Updates(map[string]interface{}{
			"rating_avg":   agg.Avg,
			"rating_count": agg.Count,
		})
	if err != nil {
		return err
	}
	r.invalidate(productID)
	return nil
}

func (r *ProductRepository) invalidate(productID uint) {
	cache.Del(fmt.Sprintf("shopline:product:%d", productID))
	cache.DelPattern("shopline:products:*")
}
