package repositories

import (
	"time"

	"github.com/nikhilverma/shopline/app/models"
	"github.com/nikhilverma/shopline/pkg/cache"
	"github.com/nikhilverma/shopline/pkg/orm"
)

const categoriesCacheKey = "shopline:categories:all"

// CategoryRepository handles database operations for Category.
type CategoryRepository struct{}

func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{}
}

// All returns every category, cached for ten minutes.
func (r *CategoryRepository) All() ([]models.Category, error) {
	var cats []models.Category
	err := orm.DB().Model(&models.Category{}).Order("name asc").
		Cache(categoriesCacheKey, 10*time.Minute, &cats)
	return cats, err
}

// FindByID looks up a category by primary key.
func (r *CategoryRepository) FindByID(id uint) (models.Category, error) {
	var cat models.Category
	err := orm.DB().Model(&models.Category{}).Where("id = ?", id).First(&cat)
	return cat, err
}

// FindBySlug looks up a category by its URL slug.
func (r *CategoryRepository) FindBySlug(slug string) (models.Category, error) {
	var cat models.Category
	err := orm.DB().Model(&models.Category{}).Where("slug = ?", slug).First(&cat)
	return cat, err
}

// Create persists a category and drops the listing cache.
func (r *CategoryRepository) Create(cat *models.Category) error {
	if err := orm.DB().Create(cat); err != nil {
		return err
	}
	cache.Del(categoriesCacheKey)
	return nil
}

// Update persists changes and drops the listing cache.
func (r *CategoryRepository) Update(cat *models.Category) error {
	if err := orm.DB().Save(cat); err != nil {
		return err
	}
	cache.Del(categoriesCacheKey)
	return nil
}

// Delete soft-deletes a category and drops the listing cache.
func (r *CategoryRepository) Delete(cat *models.Category) error {
	if err := orm.DB().Delete(cat); err != nil {
		return err
	}
	cache.Del(categoriesCacheKey)
	return nil
}
