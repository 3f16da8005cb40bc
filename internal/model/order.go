package model

import (
	"errors"

	"github.com/google/uuid"
)

var ErrUnknownStatus = errors.New("unknown order status")

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPrepared  OrderStatus = "prepared"
	StatusInTransit OrderStatus = "in transit"
	StatusDelivered OrderStatus = "delivered"
)

// OrderStatuses lists every recognised status in fulfillment order
var OrderStatuses = []OrderStatus{StatusPending, StatusPrepared, StatusInTransit, StatusDelivered}

// ParseOrderStatus accepts only the four recognised wire values
func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range OrderStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", ErrUnknownStatus
}

type Order struct {
	BaseModel
	CustomerID uuid.UUID   `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer   *User       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items      []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"products"`
	// Snapshot of Σ quantity × unit price at placement, in cents
	TotalAmount int64       `gorm:"not null" json:"total_amount"`
	Status      OrderStatus `gorm:"type:varchar(20);not null;default:pending;index" json:"status"`

	DeliveryPersonID *uuid.UUID `gorm:"type:uuid;index" json:"delivery_person_id"`
	DeliveryPerson   *User      `gorm:"foreignKey:DeliveryPersonID" json:"delivery_person,omitempty"`

	// Contact snapshot, independent from the customer's account
	Name    string `gorm:"type:varchar(255);not null" json:"name"`
	Email   string `gorm:"type:varchar(255);not null" json:"email"`
	Address string `gorm:"type:text;not null" json:"address"`
}

// OrderItem is a line item embedded in an order
type OrderItem struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	UnitPrice int64     `gorm:"not null" json:"unit_price"`
}

// IsAssigned reports whether a delivery person has claimed the order
func (o *Order) IsAssigned() bool {
	return o.DeliveryPersonID != nil && *o.DeliveryPersonID != uuid.Nil
}
