package repositories

import (
	"time"

	"gorm.io/gorm"

	"github.com/nikhilverma/shopline/app/models"
	"github.com/nikhilverma/shopline/pkg/orm"
)

// OrderRepository handles database operations for Order and OrderItem.
type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

// CreateTx inserts an order with its items inside tx.
func (r *OrderRepository) CreateTx(tx *gorm.DB, order *models.Order) error {
	return tx.Create(order).Error
}

// FindByID returns an order with items and payment loaded.
func (r *OrderRepository) FindByID(id uint) (models.Order, error) {
	var order models.Order
	err := orm.DB().Model(&models.Order{}).
		Preload("Items").Preload("Payment").
		Where("id = ?", id).
		First(&order)
	return order, err
}

// FindByIDForUser returns an order only when it belongs to userID.
func (r *OrderRepository) FindByIDForUser(id, userID uint) (models.Order, error) {
	var order models.Order
	err := orm.DB().Model(&models.Order{}).
		Preload("Items").Preload("Payment").
		Where("id = ? AND user_id = ?", id, userID).
		First(&order)
	return order, err
}

// FindByIDTx loads an order inside tx so the status read and the
// subsequent write share one transaction.
func (r *OrderRepository) FindByIDTx(tx *gorm.DB, id uint) (models.Order, error) {
	var order models.Order
	err := tx.Preload("Items").Preload("Payment").
		Where("id = ?", id).
		First(&order).Error
	return order, err
}

// ListByUser returns one page of the user's orders, newest first.
func (r *OrderRepository) ListByUser(userID uint, page, limit int) ([]models.Order, orm.Pagination, error) {
	var orders []models.Order
	pagination, err := orm.DB().Model(&models.Order{}).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at desc").
		GetWithPagination(&orders, page, limit)
	return orders, pagination, err
}

// ListAll returns one page of all orders, optionally filtered by status.
func (r *OrderRepository) ListAll(status string, page, limit int) ([]models.Order, orm.Pagination, error) {
	q := orm.DB().Model(&models.Order{}).Preload("Items").Order("created_at desc")
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var orders []models.Order
	pagination, err := q.GetWithPagination(&orders, page, limit)
	return orders, pagination, err
}

// UpdateStatusTx writes the order's status inside tx.
func (r *OrderRepository) UpdateStatusTx(tx *gorm.DB, orderID uint, status string) error {
	return tx.Model(&models.Order{}).
		Where("id = ?", orderID).
		UpdateColumn("status", status).Error
}

// StalePending lists PENDING orders created before cutoff, for the
// nightly cancellation task.
func (r *OrderRepository) StalePending(cutoff time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := orm.DB().Model(&models.Order{}).
		Preload("Items").
		Where("status = ? AND created_at < ?", models.OrderPending, cutoff).
		Get(&orders)
	return orders, err
}

// CountByStatus tallies orders per status for the admin dashboard.
func (r *OrderRepository) CountByStatus() (map[string]int64, error) {
	var rows []struct {
		Status string
		N      int64
	}
	err := orm.DB().Gorm().Model(&models.Order{}).
		Select("status, COUNT(*) as n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}
