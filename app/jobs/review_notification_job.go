package jobs

import (
	"fmt"

	"github.com/nikhilverma/shopline/app/repositories"
	"github.com/nikhilverma/shopline/pkg/notification"
)

// ReviewNotificationJob pings the ops Slack channel about a new review,
// so low ratings get a human look.
type ReviewNotificationJob struct {
	ReviewID  uint `json:"review_id"`
	ProductID uint `json:"product_id"`
}

func (j ReviewNotificationJob) Handle() error {
	reviews := repositories.NewReviewRepository()
	products := repositories.NewProductRepository()

	review, err := reviews.FindByID(j.ReviewID)
	if err != nil {
		return fmt.Errorf("review notification: load review %d: %w", j.ReviewID, err)
	}
	product, err := products.FindByID(j.ProductID)
	if err != nil {
		return fmt.Errorf("review notification: load product %d: %w", j.ProductID, err)
	}

	errs := notification.Send("", &newReviewAlert{
		ProductName: product.Name,
		Rating:      review.Rating,
		Comment:     review.Comment,
	})
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

type newReviewAlert struct {
	ProductName string
	Rating      int
	Comment     string
}

func (a *newReviewAlert) Via() []string { return []string{"slack"} }

func (a *newReviewAlert) ToSlack() notification.SlackData {
	color := "good"
	if a.Rating <= 2 {
		color = "danger"
	}
	return notification.SlackData{
		Text: fmt.Sprintf("New review: %s — %d/5", a.ProductName, a.Rating),
		Attachments: []notification.SlackAttachment{
			{Color: color, Text: a.Comment},
		},
	}
}
