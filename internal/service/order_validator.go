package service

import (
	"context"
	"strings"

	"go-grocery-delivery/internal/model"
	"go-grocery-delivery/internal/repository"
	"go-grocery-delivery/pkg/validator"

	"github.com/google/uuid"
)

// CartItem is one requested line: a product reference and a quantity
type CartItem struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

type PlaceOrderRequest struct {
	LineItems []CartItem `json:"lineItems"`
	// Products is the field name older mobile clients send
	Products    []CartItem `json:"products"`
	TotalAmount int64      `json:"totalAmount"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Address     string     `json:"address"`
}

type contactDetails struct {
	Email string `validate:"email"`
}

// Items returns the cart regardless of which field the client used
func (r *PlaceOrderRequest) Items() []CartItem {
	if len(r.LineItems) > 0 {
		return r.LineItems
	}
	return r.Products
}

// precheck enforces the request-level preconditions before the catalog is consulted
func (r *PlaceOrderRequest) precheck() error {
	if len(r.Items()) == 0 ||
		strings.TrimSpace(r.Name) == "" ||
		strings.TrimSpace(r.Email) == "" ||
		strings.TrimSpace(r.Address) == "" {
		return ErrEmptyCart
	}
	if msg := validator.FirstError(&contactDetails{Email: r.Email}); msg != "" {
		return validationError("invalid email address")
	}
	return nil
}

// OrderValidator checks a cart against a point-in-time snapshot of the catalog.
// It never mutates anything.
type OrderValidator struct {
	products repository.ProductRepository
}

func NewOrderValidator(products repository.ProductRepository) *OrderValidator {
	return &OrderValidator{products: products}
}

// Validate resolves every product in one lookup, checks stock and recomputes the
// total from current catalog prices. The claimed total must match exactly.
func (v *OrderValidator) Validate(ctx context.Context, items []CartItem, claimedTotal int64) ([]model.OrderItem, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	requested := make(map[uuid.UUID]int, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if _, seen := requested[item.ProductID]; !seen {
			ids = append(ids, item.ProductID)
		}
		requested[item.ProductID] += item.Quantity
	}

	products, err := v.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(products) < len(ids) {
		return nil, ErrProductNotFound
	}

	catalog := make(map[uuid.UUID]model.Product, len(products))
	for _, p := range products {
		catalog[p.ID] = p
	}

	// Repeated lines for one product are checked against stock together
	for _, id := range ids {
		p := catalog[id]
		if requested[id] > p.Stock {
			return nil, &StockError{ProductID: p.ID, Name: p.Name, Requested: requested[id], Available: p.Stock}
		}
	}

	var computedTotal int64
	lineItems := make([]model.OrderItem, 0, len(items))
	for _, item := range items {
		p := catalog[item.ProductID]
		computedTotal += int64(item.Quantity) * p.Price
		lineItems = append(lineItems, model.OrderItem{
			ProductID: p.ID,
			Quantity:  item.Quantity,
			UnitPrice: p.Price,
		})
	}

	if computedTotal != claimedTotal {
		return nil, ErrTotalMismatch
	}

	return lineItems, nil
}
