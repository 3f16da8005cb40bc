package model

import "github.com/google/uuid"

// Product is a catalog entry. Price is in minor currency units (cents).
type Product struct {
	BaseModel
	Name        string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Description string    `gorm:"type:text" json:"description"`
	Category    string    `gorm:"type:varchar(100);index" json:"category"`
	Image       string    `gorm:"type:varchar(512)" json:"image"`
	Price       int64     `gorm:"not null;default:0" json:"price" validate:"gte=0"`
	Stock       int       `gorm:"not null;default:0" json:"stock" validate:"gte=0"`
	VendorID    uuid.UUID `gorm:"type:uuid;not null;index" json:"vendor_id" validate:"uuid_required"`
	Vendor      *User     `gorm:"foreignKey:VendorID" json:"vendor,omitempty" validate:"-"`
}
