package repository

import (
	"context"

	"go-grocery-delivery/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(tx *gorm.DB, order *model.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	FindAll(ctx context.Context) ([]model.Order, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Order, error)
	UpdateDeliveryPerson(ctx context.Context, id uuid.UUID, deliveryPersonID uuid.UUID) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) error
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

// Create persists the order and its line items within tx
func (r *orderRepo) Create(tx *gorm.DB, order *model.Order) error {
	return tx.Create(order).Error
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items.Product").
		Preload("DeliveryPerson").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) FindAll(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("DeliveryPerson").
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// FindByCustomer returns the customer's orders with product details joined
func (r *orderRepo) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Preload("Items.Product").
		Preload("DeliveryPerson").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// UpdateDeliveryPerson overwrites the assignment unconditionally (last write wins)
func (r *orderRepo) UpdateDeliveryPerson(ctx context.Context, id uuid.UUID, deliveryPersonID uuid.UUID) error {
	return r.updateColumn(ctx, id, "delivery_person_id", deliveryPersonID)
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) error {
	return r.updateColumn(ctx, id, "status", status)
}

func (r *orderRepo) updateColumn(ctx context.Context, id uuid.UUID, column string, value interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
