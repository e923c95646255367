package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Owner is the profile record behind a rental owner account, keyed by the
// globally unique loginId issued at visit approval.
type Owner struct {
	ID      string `gorm:"type:varchar(36);primaryKey" json:"id"`
	LoginID string `gorm:"type:varchar(32);not null;uniqueIndex" json:"loginId"`

	Name         string `gorm:"type:varchar(255)" json:"name,omitempty"`
	Email        string `gorm:"type:varchar(255)" json:"email,omitempty"`
	Phone        string `gorm:"type:varchar(32)" json:"phone,omitempty"`
	Address      string `gorm:"type:text" json:"address,omitempty"`
	LocationCode string `gorm:"type:varchar(16);index" json:"locationCode,omitempty"`

	Credentials Credentials  `gorm:"embedded;embeddedPrefix:cred_" json:"credentials"`
	KYC         KYC          `gorm:"embedded;embeddedPrefix:kyc_" json:"kyc"`
	Profile     OwnerProfile `gorm:"embedded;embeddedPrefix:profile_" json:"profile"`

	// IsActive is driven by the KYC status: verified activates, rejected deactivates.
	IsActive    bool `gorm:"not null;default:false" json:"isActive"`
	PasswordSet bool `gorm:"not null;default:false" json:"passwordSet"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index:idx_owner_created_at,sort:desc" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

// Credentials holds the owner's password material. The password column
// stores a bcrypt hash; the one-time plaintext is only ever returned in the
// approval response.
type Credentials struct {
	Password  string `gorm:"type:varchar(255)" json:"-"`
	FirstTime bool   `gorm:"not null;default:false" json:"firstTime"`
}

// KYC is the Know-Your-Customer verification state of an owner.
type KYC struct {
	Status     KYCStatus  `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	VerifiedAt *time.Time `json:"verifiedAt,omitempty"`
}

// OwnerProfile carries display fields the owner can edit after onboarding.
type OwnerProfile struct {
	Name string `gorm:"type:varchar(255)" json:"name,omitempty"`
}

// KYCStatus is the verification state of an owner profile.
type KYCStatus string

const (
	KYCStatusPending  KYCStatus = "pending"
	KYCStatusVerified KYCStatus = "verified"
	KYCStatusRejected KYCStatus = "rejected"
)

// ValidKYCDecision reports whether s is an allowed admin KYC decision.
// Pending is the initial state only and cannot be set through the API.
func ValidKYCDecision(s KYCStatus) bool {
	return s == KYCStatusVerified || s == KYCStatusRejected
}

func (Owner) TableName() string {
	return "owners"
}

func (o *Owner) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}
