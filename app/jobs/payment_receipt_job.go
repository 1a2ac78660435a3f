package jobs

import (
	"fmt"

	"github.com/nikhilverma/shopline/app/repositories"
	"github.com/nikhilverma/shopline/pkg/mail"
)

// PaymentReceiptJob emails the customer once their payment succeeds.
type PaymentReceiptJob struct {
	OrderID uint `json:"order_id"`
}

func (j PaymentReceiptJob) Handle() error {
	orders := repositories.NewOrderRepository()
	users := repositories.NewUserRepository()

	order, err := orders.FindByID(j.OrderID)
	if err != nil {
		return fmt.Errorf("payment receipt: load order %d: %w", j.OrderID, err)
	}
	user, err := users.FindByID(order.UserID)
	if err != nil {
		return fmt.Errorf("payment receipt: load user %d: %w", order.UserID, err)
	}

	body := fmt.Sprintf(
		"<h1>Payment received</h1>"+
			"<p>We received %s for order #%d. It is now being prepared for shipping.</p>",
		money(order.Total), order.ID)

	return mail.To(user.Email).
		Subject(fmt.Sprintf("Receipt for Shopline order #%d", order.ID)).
		Body(body).
		Send()
}
