package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account that can authenticate against the API. Owner accounts
// are created by the visit approval workflow; admin accounts are seeded out
// of band.
type User struct {
	ID      string `gorm:"type:varchar(36);primaryKey" json:"id"`
	LoginID string `gorm:"type:varchar(32);not null;uniqueIndex" json:"loginId"`

	Name  string `gorm:"type:varchar(255)" json:"name,omitempty"`
	Phone string `gorm:"type:varchar(32)" json:"phone,omitempty"`
	Email string `gorm:"type:varchar(255)" json:"email,omitempty"`

	// Password is a bcrypt hash.
	Password string `gorm:"type:varchar(255)" json:"-"`

	Role         Role       `gorm:"type:varchar(20);not null;index" json:"role"`
	LocationCode string     `gorm:"type:varchar(16);index" json:"locationCode,omitempty"`
	Status       UserStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

// Role is the authorization role of a user account.
type Role string

const (
	RoleOwner      Role = "owner"
	RoleTenant     Role = "tenant"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// UserStatus is the lifecycle state of a user account.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusDisabled UserStatus = "disabled"
)

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}
