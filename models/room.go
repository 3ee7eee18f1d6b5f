package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomMaintenance RoomStatus = "maintenance"
	RoomCleaning    RoomStatus = "cleaning"
)

func (s RoomStatus) Valid() bool {
	switch s {
	case RoomAvailable, RoomOccupied, RoomMaintenance, RoomCleaning:
		return true
	}
	return false
}

type RoomType string

const (
	RoomStandard RoomType = "standard"
	RoomDeluxe   RoomType = "deluxe"
	RoomSuite    RoomType = "suite"
	RoomFamily   RoomType = "family"
)

func (t RoomType) Valid() bool {
	switch t {
	case RoomStandard, RoomDeluxe, RoomSuite, RoomFamily:
		return true
	}
	return false
}

// Room status is owned by the reservation and maintenance services;
// generic updates must never write it directly.
type Room struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	RoomNumber    string         `gorm:"column:room_number;uniqueIndex;size:50" json:"room_number"`
	RoomType      RoomType       `gorm:"column:room_type;size:20" json:"room_type"`
	Status        RoomStatus     `gorm:"size:20;default:available" json:"status"`
	Floor         int            `json:"floor"`
	Capacity      int            `json:"capacity"`
	PricePerNight float64        `gorm:"column:price_per_night" json:"price_per_night"`
	Amenities     datatypes.JSON `json:"amenities,omitempty"`
	Description   *string        `gorm:"type:text" json:"description"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
