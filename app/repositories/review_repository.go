package repositories

import (
	"github.com/nikhilverma/shopline/app/models"
	"github.com/nikhilverma/shopline/pkg/orm"
)

// ReviewRepository handles database operations for Review.
type ReviewRepository struct{}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{}
}

// FindByUserAndProduct returns a user's review of a product, if any.
func (r *ReviewRepository) FindByUserAndProduct(userID, productID uint) (models.Review, error) {
	var review models.Review
	err := orm.DB().Model(&models.Review{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&review)
	return review, err
}

// FindByID looks up a review by primary key.
func (r *ReviewRepository) FindByID(id uint) (models.Review, error) {
	var review models.Review
	err := orm.DB().Model(&models.Review{}).Where("id = ?", id).First(&review)
	return review, err
}

// ListByProduct returns one page of a product's reviews, newest first.
func (r *ReviewRepository) ListByProduct(productID uint, page, limit int) ([]models.Review, orm.Pagination, error) {
	var reviews []models.Review
	pagination, err := orm.DB().Model(&models.Review{}).
		Preload("User").
		Where("product_id = ?", productID).
		Order("created_at desc").
		GetWithPagination(&reviews, page, limit)
	return reviews, pagination, err
}

// Create persists a review.
func (r *ReviewRepository) Create(review *models.Review) error {
	return orm.DB().Create(review)
}

// Update persists changes to a review.
func (r *ReviewRepository) Update(review *models.Review) error {
	return orm.DB().Save(review)
}

// Delete removes a review.
func (r *ReviewRepository) Delete(review *models.Review) error {
	return orm.DB().Delete(review)
}
