package models

import (
	"time"

	"gorm.io/gorm"
)

type ReservationStatus string

const (
	ReservationPending    ReservationStatus = "pending"
	ReservationConfirmed  ReservationStatus = "confirmed"
	ReservationCheckedIn  ReservationStatus = "checked_in"
	ReservationCheckedOut ReservationStatus = "checked_out"
	ReservationCancelled  ReservationStatus = "cancelled"
)

// reservationTransitions is the legal edge set of the reservation
// state machine. checked_out and cancelled are terminal.
var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationPending:   {ReservationConfirmed, ReservationCancelled},
	ReservationConfirmed: {ReservationCheckedIn, ReservationCancelled},
	ReservationCheckedIn: {ReservationCheckedOut, ReservationCancelled},
}

func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationCheckedIn,
		ReservationCheckedOut, ReservationCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether s -> next is a legal edge.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, t := range reservationTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Blocking reports whether a reservation in this status holds its room
// for availability purposes. Cancelled and checked-out never block.
func (s ReservationStatus) Blocking() bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationCheckedIn:
		return true
	}
	return false
}

// BlockingStatuses is used in availability queries (status IN ?).
var BlockingStatuses = []ReservationStatus{
	ReservationPending, ReservationConfirmed, ReservationCheckedIn,
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPartial  PaymentStatus = "partial"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

type Reservation struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	GuestID uint `gorm:"index;column:guest_id" json:"guest_id"`
	RoomID  uint `gorm:"index;column:room_id" json:"room_id"`

	CheckInDate  time.Time `gorm:"column:check_in_date" json:"check_in_date"`
	CheckOutDate time.Time `gorm:"column:check_out_date" json:"check_out_date"`

	ActualCheckIn  *time.Time `gorm:"column:actual_check_in" json:"actual_check_in"`
	ActualCheckOut *time.Time `gorm:"column:actual_check_out" json:"actual_check_out"`

	Adults   int `gorm:"default:1" json:"adults"`
	Children int `gorm:"default:0" json:"children"`

	// TotalAmount is derived (nights x price_per_night) and recomputed
	// whenever the dates or room change while pending/confirmed.
	TotalAmount float64 `gorm:"column:total_amount" json:"total_amount"`

	Status ReservationStatus `gorm:"size:20;default:pending;index" json:"status"`

	// PaymentStatus is derived from the payment ledger, never set by
	// clients directly.
	PaymentStatus PaymentStatus `gorm:"column:payment_status;size:20;default:pending" json:"payment_status"`

	SpecialRequests *string `gorm:"column:special_requests;type:text" json:"special_requests"`
	CreatedBy       uint    `gorm:"column:created_by" json:"created_by"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Guest Guest `gorm:"foreignKey:GuestID" json:"guest,omitempty"`
	Room  Room  `gorm:"foreignKey:RoomID" json:"room,omitempty"`
}

// Nights returns the whole-night count of [check_in, check_out).
func (r *Reservation) Nights() int {
	n := int(r.CheckOutDate.Sub(r.CheckInDate).Hours() / 24)
	if n < 0 {
		return 0
	}
	return n
}
