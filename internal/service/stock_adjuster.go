package service

import (
	"errors"

	"go-grocery-delivery/internal/model"
	"go-grocery-delivery/internal/repository"

	"gorm.io/gorm"
)

// StockAdjuster applies the inventory side of a placement
type StockAdjuster struct {
	products repository.ProductRepository
}

func NewStockAdjuster(products repository.ProductRepository) *StockAdjuster {
	return &StockAdjuster{products: products}
}

// Commit decrements stock for every line item inside tx. Each decrement is
// conditional on sufficient stock, so a stale validation cannot oversell;
// any failure aborts tx and with it the order row.
func (a *StockAdjuster) Commit(tx *gorm.DB, items []model.OrderItem, updatedBy string) error {
	for _, item := range items {
		product, err := a.products.DecrementStock(tx, item.ProductID, item.Quantity, updatedBy)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return ErrProductNotFound
		case errors.Is(err, repository.ErrInsufficientStock):
			return &StockError{ProductID: product.ID, Name: product.Name, Requested: item.Quantity, Available: product.Stock}
		case err != nil:
			return err
		}
	}
	return nil
}
