package service

import (
	"context"
	"fmt"
	"strings"

	"go-grocery-delivery/internal/event"
	"go-grocery-delivery/internal/model"
	"go-grocery-delivery/internal/repository"
	"go-grocery-delivery/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrProductMissing = fmt.Errorf("%w: product not found", ErrNotFound)

type ProductService interface {
	CreateProduct(ctx context.Context, req *CreateProductRequest, actor Actor) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *UpdateProductRequest, actor Actor) (*model.Product, error)
	GetAllProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
}

type CreateProductRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Image       string `json:"image"`
	Price       *int64 `json:"price" validate:"required,gte=0"`
	Stock       *int   `json:"stock" validate:"required,gte=0"`
}

// UpdateProductRequest carries only the fields the client wants to change
type UpdateProductRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Image       *string `json:"image"`
	Price       *int64  `json:"price" validate:"omitempty,gte=0"`
	Stock       *int    `json:"stock" validate:"omitempty,gte=0"`
}

func (r *UpdateProductRequest) fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if r.Name != nil {
		fields["name"] = *r.Name
	}
	if r.Description != nil {
		fields["description"] = *r.Description
	}
	if r.Category != nil {
		fields["category"] = *r.Category
	}
	if r.Image != nil {
		fields["image"] = *r.Image
	}
	if r.Price != nil {
		fields["price"] = *r.Price
	}
	if r.Stock != nil {
		fields["stock"] = *r.Stock
	}
	return fields
}

type productService struct {
	productRepo repository.ProductRepository
	db          *gorm.DB
	events      event.Publisher
}

func NewProductService(pRepo repository.ProductRepository, db *gorm.DB, events event.Publisher) ProductService {
	return &productService{
		productRepo: pRepo,
		db:          db,
		events:      events,
	}
}

func (s *productService) CreateProduct(ctx context.Context, req *CreateProductRequest, actor Actor) (*model.Product, error) {
	// 1. Validasi Struct Dasar
	if msg := validator.FirstError(req); msg != "" {
		return nil, validationError(msg)
	}

	product := &model.Product{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Category:    req.Category,
		Image:       req.Image,
		Price:       *req.Price,
		Stock:       *req.Stock,
		VendorID:    actor.ID,
	}
	product.CreatedBy = actor.ID.String()
	product.UpdatedBy = actor.ID.String()

	if msg := validator.FirstError(product); msg != "" {
		return nil, validationError(msg)
	}

	// 2. Simpan ke Database
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	// 3. Broadcast dengan user info
	s.publish(event.Event{
		Type:   "stock_update",
		Action: event.ProductCreated,
		Key:    product.ID.String(),
		Data: map[string]interface{}{
			"id":    product.ID,
			"name":  product.Name,
			"stock": product.Stock,
			"price": product.Price,
		},
		User:    actor.userInfo(),
		Message: fmt.Sprintf("%s created product '%s'", actor.Name, product.Name),
	})

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, req *UpdateProductRequest, actor Actor) (*model.Product, error) {
	if msg := validator.FirstError(req); msg != "" {
		return nil, validationError(msg)
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, validationError("name must not be empty")
	}

	var updated model.Product
	var oldStock int

	// Only the supplied columns are written, so a concurrent stock decrement is not overwritten by a stale read
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&updated, "id = ?", id).Error; err != nil {
			return notFoundOr(err, ErrProductMissing)
		}
		oldStock = updated.Stock

		fields := req.fields()
		if len(fields) == 0 {
			return nil
		}
		fields["updated_by"] = actor.ID.String()

		if err := tx.Model(&model.Product{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return err
		}
		return tx.First(&updated, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}

	s.publish(event.Event{
		Type:   "stock_update",
		Action: event.ProductUpdated,
		Key:    updated.ID.String(),
		Data: map[string]interface{}{
			"id":        updated.ID,
			"name":      updated.Name,
			"old_stock": oldStock,
			"new_stock": updated.Stock,
			"price":     updated.Price,
		},
		User:    actor.userInfo(),
		Message: fmt.Sprintf("%s updated product '%s'", actor.Name, updated.Name),
	})

	return &updated, nil
}

func (s *productService) GetAllProducts(ctx context.Context) ([]model.Product, error) {
	return s.productRepo.FindAll(ctx)
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrProductMissing)
	}
	return product, nil
}

func (s *productService) publish(ev event.Event) {
	if s.events == nil {
		return
	}
	go s.events.Publish(context.Background(), ev)
}
