package repository

import (
	"context"
	"errors"

	"github.com/shopswift/storefront/models"
	"gorm.io/gorm"
)

// ErrOrderNotFound is returned when no archived order matches a lookup.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepository archives confirmed orders.
type OrderRepository interface {
	Create(ctx context.Context, order *models.OrderRecord) error
	FindByOrderNumber(ctx context.Context, sessionID, orderNumber string) (*models.OrderRecord, error)
	FindBySession(ctx context.Context, sessionID string, limit int) ([]models.OrderRecord, error)
}

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

// Create inserts the order and its lines in one transaction.
func (r *GormOrderRepository) Create(ctx context.Context, order *models.OrderRecord) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// FindByOrderNumber looks an order up within one session. Order numbers are
// only unique per session.
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, sessionID, orderNumber string) (*models.OrderRecord, error) {
	var o models.OrderRecord
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("session_id = ? AND order_number = ?", sessionID, orderNumber).
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// FindBySession lists a session's orders, newest first.
func (r *GormOrderRepository) FindBySession(ctx context.Context, sessionID string, limit int) ([]models.OrderRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	var orders []models.OrderRecord
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("session_id = ?", sessionID).
		Order("placed_at DESC").
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
