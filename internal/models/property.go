package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Property is a rental listing created when a visit report is approved.
// It starts inactive and unpublished; a superadmin publish flips both flags.
type Property struct {
	ID string `gorm:"type:varchar(36);primaryKey" json:"id"`

	Title        string `gorm:"type:varchar(255)" json:"title,omitempty"`
	Address      string `gorm:"type:text" json:"address,omitempty"`
	LocationCode string `gorm:"type:varchar(16);index" json:"locationCode,omitempty"`

	Status      PropertyStatus `gorm:"type:varchar(20);not null;default:'inactive';index" json:"status"`
	IsPublished bool           `gorm:"not null;default:false;index" json:"isPublished"`

	// OwnerID references the owner's user account. OwnerLoginID duplicates
	// the owner's loginId for cheap lookups; the two are always written
	// together (see workflow and owner PATCH paths).
	OwnerID      *string `gorm:"type:varchar(36);index" json:"owner,omitempty"`
	Owner        *User   `gorm:"foreignKey:OwnerID" json:"ownerDetails,omitempty"`
	OwnerLoginID string  `gorm:"type:varchar(32);index" json:"ownerLoginId,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index:idx_property_created_at,sort:desc" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

// PropertyStatus is the listing state of a property.
type PropertyStatus string

const (
	PropertyStatusInactive PropertyStatus = "inactive"
	PropertyStatusActive   PropertyStatus = "active"
)

func (Property) TableName() string {
	return "properties"
}

func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// Publish marks the property live. Safe to call repeatedly.
func (p *Property) Publish() {
	p.Status = PropertyStatusActive
	p.IsPublished = true
}
