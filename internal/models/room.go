package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Room is a rentable unit inside a property.
type Room struct {
	ID string `gorm:"type:varchar(36);primaryKey" json:"id"`

	PropertyID string    `gorm:"type:varchar(36);not null;index" json:"property"`
	Property   *Property `gorm:"foreignKey:PropertyID" json:"propertyDetails,omitempty"`

	Name     string     `gorm:"type:varchar(64)" json:"name,omitempty"`
	Rent     *int       `json:"rent,omitempty"`
	Capacity int        `json:"capacity,omitempty"`
	Status   RoomStatus `gorm:"type:varchar(20);not null;default:'available'" json:"status"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

// RoomStatus is the occupancy state of a room.
type RoomStatus string

const (
	RoomStatusAvailable RoomStatus = "available"
	RoomStatusOccupied  RoomStatus = "occupied"
)

func (Room) TableName() string {
	return "rooms"
}

func (r *Room) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}
