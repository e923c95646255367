package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tenant is a prospective or current renter, tracked per service area.
type Tenant struct {
	ID string `gorm:"type:varchar(36);primaryKey" json:"id"`

	Name         string       `gorm:"type:varchar(255)" json:"name,omitempty"`
	Phone        string       `gorm:"type:varchar(32)" json:"phone,omitempty"`
	LocationCode string       `gorm:"type:varchar(16);index" json:"locationCode,omitempty"`
	Status       TenantStatus `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

// TenantStatus is the lifecycle state of a tenant record.
type TenantStatus string

const (
	TenantStatusActive   TenantStatus = "active"
	TenantStatusInactive TenantStatus = "inactive"
)

func (Tenant) TableName() string {
	return "tenants"
}

func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}
