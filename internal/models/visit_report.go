package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VisitReport is a field-collected submission describing a prospective
// owner/property, awaiting admin review. It is created by the field team
// and mutated exactly once, by the approval or rejection workflow.
type VisitReport struct {
	ID string `gorm:"type:varchar(36);primaryKey" json:"id"`

	PropertyInfo         PropertyInfo         `gorm:"embedded;embeddedPrefix:info_" json:"propertyInfo"`
	Status               VisitStatus          `gorm:"type:varchar(20);not null;default:'submitted';index" json:"status"`
	GeneratedCredentials GeneratedCredentials `gorm:"embedded;embeddedPrefix:cred_" json:"generatedCredentials"`

	// PropertyID is set on approval to link the report to the record it produced.
	PropertyID *string `gorm:"type:varchar(36);index" json:"property,omitempty"`

	AreaManagerID *string `gorm:"type:varchar(36)" json:"areaManagerId,omitempty"`
	AreaManager   *User   `gorm:"foreignKey:AreaManagerID" json:"areaManager,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index:idx_visit_created_at,sort:desc" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

// PropertyInfo holds the free-form details collected during the visit.
type PropertyInfo struct {
	OwnerName    string `gorm:"type:varchar(255)" json:"ownerName,omitempty"`
	ContactPhone string `gorm:"type:varchar(32)" json:"contactPhone,omitempty"`
	Address      string `gorm:"type:text" json:"address,omitempty"`
	LocationCode string `gorm:"type:varchar(16)" json:"locationCode,omitempty"`
	Name         string `gorm:"type:varchar(255)" json:"name,omitempty"`
}

// GeneratedCredentials records the login identity issued on approval.
// The temporary password is kept as a bcrypt hash and never re-returned.
type GeneratedCredentials struct {
	LoginID      string `gorm:"type:varchar(32)" json:"loginId,omitempty"`
	TempPassword string `gorm:"type:varchar(255)" json:"-"`
}

// VisitStatus is the review state of a visit report.
type VisitStatus string

const (
	VisitStatusSubmitted VisitStatus = "submitted"
	VisitStatusApproved  VisitStatus = "approved"
	VisitStatusRejected  VisitStatus = "rejected"
)

func (VisitReport) TableName() string {
	return "visit_reports"
}

func (v *VisitReport) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return nil
}
