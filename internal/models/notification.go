package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification is a message addressed to a single user account.
type Notification struct {
	ID string `gorm:"type:varchar(36);primaryKey" json:"id"`

	RecipientID string `gorm:"type:varchar(36);not null;index" json:"recipient"`
	Type        string `gorm:"type:varchar(32);not null" json:"type"`
	Message     string `gorm:"type:text;not null" json:"message"`

	ReadAt    *time.Time `json:"readAt,omitempty"`
	CreatedAt time.Time  `gorm:"not null;autoCreateTime;index:idx_notification_created_at,sort:desc" json:"createdAt"`
}

// Notification types used by the workflows.
const (
	NotificationTypeKYCUpdate       = "kyc_update"
	NotificationTypeOwnerOnboarded  = "owner_onboarded"
	NotificationTypeVisitEscalation = "visit_escalation"
)

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return nil
}
