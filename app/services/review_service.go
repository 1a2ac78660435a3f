package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/nikhilverma/shopline/app/jobs"
	"github.com/nikhilverma/shopline/app/models"
	"github.com/nikhilverma/shopline/app/repositories"
	"github.com/nikhilverma/shopline/pkg/logger"
	"github.com/nikhilverma/shopline/pkg/orm"
	"github.com/nikhilverma/shopline/pkg/queue"
)

// ReviewService enforces one review per user per product and keeps the
// product rating aggregate current.
type ReviewService struct {
	reviews  *repositories.ReviewRepository
	products *repositories.ProductRepository
}

func NewReviewService() *ReviewService {
	return &ReviewService{
		reviews:  repositories.NewReviewRepository(),
		products: repositories.NewProductRepository(),
	}
}

// Add creates a review. Rating must be 1..5 and the user must not have
// reviewed the product before.
func (s *ReviewService) Add(userID, productID uint, rating int, comment string) (models.Review, error) {
	if rating < 1 || rating > 5 {
		return models.Review{}, ErrRatingRange
	}

	if _, err := s.products.FindByID(productID); err != nil {
		return models.Review{}, err
	}

	if _, err := s.reviews.FindByUserAndProduct(userID, productID); err == nil {
		return models.Review{}, ErrDuplicateReview
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Review{}, err
	}

	review := models.Review{
		UserID:    userID,
		ProductID: productID,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.reviews.Create(&review); err != nil {
		return models.Review{}, err
	}

	s.refreshAggregate(productID)
	if err := queue.Dispatch(jobs.ReviewNotificationJob{ReviewID: review.ID, ProductID: productID}); err != nil {
		logger.Warn("review: notification job not queued", "review_id", review.ID, "error", err)
	}
	return review, nil
}

// Update edits the caller's own review.
func (s *ReviewService) Update(reviewID, userID uint, rating int, comment string) (models.Review, error) {
	if rating < 1 || rating > 5 {
		return models.Review{}, ErrRatingRange
	}

	review, err := s.reviews.FindByID(reviewID)
	if err != nil {
		return models.Review{}, err
	}
	if review.UserID != userID {
		return models.Review{}, gorm.ErrRecordNotFound
	}

	review.Rating = rating
	review.Comment = comment
	if err := s.reviews.Update(&review); err != nil {
		return models.Review{}, err
	}

	s.refreshAggregate(review.ProductID)
	return review, nil
}

// Delete removes the caller's own review; admins may remove any.
func (s *ReviewService) Delete(reviewID, userID uint, isAdmin bool) error {
	review, err := s.reviews.FindByID(reviewID)
	if err != nil {
		return err
	}
	if review.UserID != userID && !isAdmin {
		return gorm.ErrRecordNotFound
	}

	if err := s.reviews.Delete(&review); err != nil {
		return err
	}
	s.refreshAggregate(review.ProductID)
	return nil
}

// ListByProduct pages a product's reviews.
func (s *ReviewService) ListByProduct(productID uint, page, limit int) ([]models.Review, orm.Pagination, error) {
	return s.reviews.ListByProduct(productID, page, limit)
}

func (s *ReviewService) refreshAggregate(productID uint) {
	if err := s.products.UpdateRatingAggregate(productID); err != nil {
		logger.Error("review: aggregate refresh failed", "product_id", productID, "error", err)
	}
}
