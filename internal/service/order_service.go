package service

import (
	"context"
	"errors"
	"fmt"

	"go-grocery-delivery/internal/event"
	"go-grocery-delivery/internal/model"
	"go-grocery-delivery/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, actor Actor, req *PlaceOrderRequest) (*model.Order, error)
	AssignDelivery(ctx context.Context, actor Actor, orderID uuid.UUID, deliveryPersonID *uuid.UUID) (*model.Order, error)
	UpdateStatus(ctx context.Context, actor Actor, orderID uuid.UUID, status string) (*model.Order, error)
	ListOrders(ctx context.Context, actor Actor) ([]model.Order, error)
	GetOrder(ctx context.Context, actor Actor, orderID uuid.UUID) (*model.Order, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	validator *OrderValidator
	stock     *StockAdjuster
	db        *gorm.DB
	events    event.Publisher
}

func NewOrderService(
	oRepo repository.OrderRepository,
	pRepo repository.ProductRepository,
	uRepo repository.UserRepository,
	db *gorm.DB,
	events event.Publisher,
) OrderService {
	return &orderService{
		orderRepo: oRepo,
		userRepo:  uRepo,
		validator: NewOrderValidator(pRepo),
		stock:     NewStockAdjuster(pRepo),
		db:        db,
		events:    events,
	}
}

func (s *orderService) PlaceOrder(ctx context.Context, actor Actor, req *PlaceOrderRequest) (*model.Order, error) {
	// 1. Request preconditions
	if err := req.precheck(); err != nil {
		return nil, err
	}

	// 2. Validate against the catalog
	lineItems, err := s.validator.Validate(ctx, req.Items(), req.TotalAmount)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		CustomerID:  actor.ID,
		Items:       lineItems,
		TotalAmount: req.TotalAmount,
		Status:      model.StatusPending,
		Name:        req.Name,
		Email:       req.Email,
		Address:     req.Address,
	}
	order.CreatedBy = actor.ID.String()
	order.UpdatedBy = actor.ID.String()

	// 3. Order row and stock decrements commit or roll back together
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.Create(tx, order); err != nil {
			return err
		}
		return s.stock.Commit(tx, order.Items, actor.ID.String())
	})
	if err != nil {
		return nil, err
	}

	placed, err := s.orderRepo.FindByID(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	s.publish(event.Event{
		Type:   "order",
		Action: event.OrderPlaced,
		Key:    placed.ID.String(),
		Data: map[string]interface{}{
			"id":           placed.ID,
			"status":       placed.Status,
			"total_amount": placed.TotalAmount,
			"items":        len(placed.Items),
			"address":      placed.Address,
		},
		User:    actor.userInfo(),
		Message: fmt.Sprintf("%s placed an order for %d item(s)", actor.Name, len(placed.Items)),
	})

	return placed, nil
}

// AssignDelivery sets the delivery person, or the caller when none is given.
// Reassignment is allowed and the last write wins.
func (s *orderService) AssignDelivery(ctx context.Context, actor Actor, orderID uuid.UUID, deliveryPersonID *uuid.UUID) (*model.Order, error) {
	existing, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, notFoundOr(err, ErrOrderNotFound)
	}

	assignee := actor.ID
	if deliveryPersonID != nil && *deliveryPersonID != uuid.Nil {
		assignee = *deliveryPersonID
	}

	person, err := s.userRepo.FindByID(ctx, assignee)
	if err != nil {
		return nil, notFoundOr(err, ErrUserNotFound)
	}
	if person.Role != model.RoleDelivery {
		return nil, validationError("assignee is not a delivery partner")
	}

	if err := s.orderRepo.UpdateDeliveryPerson(ctx, orderID, assignee); err != nil {
		return nil, notFoundOr(err, ErrOrderNotFound)
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, notFoundOr(err, ErrOrderNotFound)
	}

	s.publish(event.Event{
		Type:   "order",
		Action: event.OrderAssigned,
		Key:    order.ID.String(),
		Data: map[string]interface{}{
			"id":                 order.ID,
			"status":             order.Status,
			"delivery_person_id": assignee,
			"delivery_person":    person.Name,
			"reassigned":         existing.IsAssigned(),
		},
		User:    actor.userInfo(),
		Message: fmt.Sprintf("%s assigned order to %s", actor.Name, person.Name),
	})

	return order, nil
}

// UpdateStatus accepts any recognised status from any current status
func (s *orderService) UpdateStatus(ctx context.Context, actor Actor, orderID uuid.UUID, status string) (*model.Order, error) {
	existing, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, notFoundOr(err, ErrOrderNotFound)
	}

	newStatus, err := model.ParseOrderStatus(status)
	if err != nil {
		return nil, ErrInvalidStatus
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, newStatus); err != nil {
		return nil, notFoundOr(err, ErrOrderNotFound)
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, notFoundOr(err, ErrOrderNotFound)
	}

	s.publish(event.Event{
		Type:   "order",
		Action: event.OrderStatusUpdated,
		Key:    order.ID.String(),
		Data: map[string]interface{}{
			"id":         order.ID,
			"old_status": existing.Status,
			"new_status": order.Status,
		},
		User:    actor.userInfo(),
		Message: fmt.Sprintf("Order status updated to %s", order.Status),
	})

	return order, nil
}

// ListOrders returns every order to roles that may view all of them and only
// the caller's own orders to everyone else
func (s *orderService) ListOrders(ctx context.Context, actor Actor) ([]model.Order, error) {
	if actor.Role.Can(model.CapViewAllOrders) {
		return s.orderRepo.FindAll(ctx)
	}
	return s.orderRepo.FindByCustomer(ctx, actor.ID)
}

func (s *orderService) GetOrder(ctx context.Context, actor Actor, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, notFoundOr(err, ErrOrderNotFound)
	}
	// Customers cannot tell other customers' orders apart from missing ones
	if !actor.Role.Can(model.CapViewAllOrders) && order.CustomerID != actor.ID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) publish(ev event.Event) {
	if s.events == nil {
		return
	}
	go s.events.Publish(context.Background(), ev)
}

// notFoundOr maps gorm's missing-row error to the domain error and passes anything else through
func notFoundOr(err error, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}
