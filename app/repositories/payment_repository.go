package repositories

import (
	"gorm.io/gorm"

	"github.com/nikhilverma/shopline/app/models"
	"github.com/nikhilverma/shopline/pkg/orm"
)

// PaymentRepository handles database operations for Payment.
type PaymentRepository struct{}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{}
}

// CreateTx inserts a payment inside tx.
func (r *PaymentRepository) CreateTx(tx *gorm.DB, payment *models.Payment) error {
	return tx.Create(payment).Error
}

// FindByID looks up a payment by primary key.
func (r *PaymentRepository) FindByID(id uint) (models.Payment, error) {
	var payment models.Payment
	err := orm.DB().Model(&models.Payment{}).Where("id = ?", id).First(&payment)
	return payment, err
}

// FindByChargeID resolves a gateway charge ID to our payment row, the
// lookup every webhook starts with.
func (r *PaymentRepository) FindByChargeID(chargeID string) (models.Payment, error) {
	var payment models.Payment
	err := orm.DB().Model(&models.Payment{}).
		Where("gateway_charge_id = ?", chargeID).
		First(&payment)
	return payment, err
}

// FindByChargeIDTx is FindByChargeID inside tx.
func (r *PaymentRepository) FindByChargeIDTx(tx *gorm.DB, chargeID string) (models.Payment, error) {
	var payment models.Payment
	err := tx.Where("gateway_charge_id = ?", chargeID).First(&payment).Error
	return payment, err
}

// InFlightByOrderTx returns the order's non-FAILED payment inside tx.
// gorm.ErrRecordNotFound means a new charge may be created.
func (r *PaymentRepository) InFlightByOrderTx(tx *gorm.DB, orderID uint) (models.Payment, error) {
	var payment models.Payment
	err := tx.Where("order_id = ? AND status <> ?", orderID, models.PaymentFailed).
		First(&payment).Error
	return payment, err
}

// UpdateStatusTx writes the payment's status inside tx.
func (r *PaymentRepository) UpdateStatusTx(tx *gorm.DB, paymentID uint, status string) error {
	return tx.Model(&models.Payment{}).
		Where("id = ?", paymentID).
		UpdateColumn("status", status).Error
}

// ListFailed returns one page of failed payments for the admin console.
func (r *PaymentRepository) ListFailed(page, limit int) ([]models.Payment, orm.Pagination, error) {
	var payments []models.Payment
	pagination, err := orm.DB().Model(&models.Payment{}).
		Where("status = ?", models.PaymentFailed).
		Order("created_at desc").
		GetWithPagination(&payments, page, limit)
	return payments, pagination, err
}
