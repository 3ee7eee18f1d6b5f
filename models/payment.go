package models

import "time"

// Payment rows are append-only: refunds are new negative-amount rows,
// never edits, and payments are kept for reporting even after the
// reservation closes. No UpdatedAt/DeletedAt on purpose.
type Payment struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	ReservationID uint    `gorm:"index;column:reservation_id" json:"reservation_id"`
	Amount        float64 `json:"amount"` // positive = payment, negative = refund

	PaymentMethod        string  `gorm:"column:payment_method;size:50" json:"payment_method"`
	TransactionReference *string `gorm:"column:transaction_reference;size:150" json:"transaction_reference"`
	Notes                *string `gorm:"type:text" json:"notes"`
	ProcessedBy          uint    `gorm:"column:processed_by" json:"processed_by"`

	CreatedAt time.Time `json:"created_at"`

	Reservation Reservation `gorm:"foreignKey:ReservationID" json:"-"`
}
