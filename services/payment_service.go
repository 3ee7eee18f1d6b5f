package services

import (
	"errors"
	"strings"
	"time"

	"hotel-pms-backend/models"

	"gorm.io/gorm"
)

// PaymentService is an append-only ledger. Rows are never edited or
// deleted; a refund is a new negative-amount row referencing the
// original payment in its notes.
type PaymentService struct {
	DB *gorm.DB
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{DB: db}
}

type RecordPaymentInput struct {
	ReservationID        uint
	Amount               float64
	PaymentMethod        string
	TransactionReference *string
	Notes                *string
	ProcessedBy          uint
}

type PaymentFilter struct {
	DateFrom      *time.Time
	DateTo        *time.Time
	PaymentMethod string
	ProcessedBy   uint
}

// PaymentSummary is the ledger view of one reservation.
type PaymentSummary struct {
	ReservationID    uint                 `json:"reservation_id"`
	TotalAmount      float64              `json:"total_amount"`
	PaidAmount       float64              `json:"paid_amount"`
	RefundedAmount   float64              `json:"refunded_amount"`
	NetPaid          float64              `json:"net_paid"`
	RemainingBalance float64              `json:"remaining_balance"`
	PaymentStatus    models.PaymentStatus `json:"payment_status"`
}

// Record appends a positive payment and re-derives the reservation's
// payment status.
func (s *PaymentService) Record(in RecordPaymentInput) (models.Payment, error) {
	var payment models.Payment

	if in.Amount <= 0 {
		return payment, validationErr("amount must be positive")
	}
	if strings.TrimSpace(in.PaymentMethod) == "" {
		return payment, validationErr("payment_method is required")
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var res models.Reservation
		if err := lockReservation(tx, in.ReservationID, &res); err != nil {
			return err
		}
		if res.Status == models.ReservationCancelled {
			return preconditionErr("reservation %d is cancelled; refunds are the only ledger entries left", res.ID)
		}
		if err := activeStaffExists(tx, in.ProcessedBy); err != nil {
			return err
		}

		payment = models.Payment{
			ReservationID:        in.ReservationID,
			Amount:               in.Amount,
			PaymentMethod:        strings.TrimSpace(in.PaymentMethod),
			TransactionReference: in.TransactionReference,
			Notes:                in.Notes,
			ProcessedBy:          in.ProcessedBy,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		return recomputePaymentStatus(tx, in.ReservationID)
	})
	return payment, err
}

// Refund appends a negative row against the reservation of the given
// payment. The refund may not exceed the net amount still paid.
func (s *PaymentService) Refund(paymentID uint, amount float64, reason string, processedBy uint) (models.Payment, error) {
	var refund models.Payment

	if amount <= 0 {
		return refund, validationErr("refund amount must be positive")
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var original models.Payment
		if err := tx.First(&original, paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundErr("payment", paymentID)
			}
			return err
		}
		if original.Amount <= 0 {
			return validationErr("payment %d is itself a refund", paymentID)
		}

		var res models.Reservation
		if err := lockReservation(tx, original.ReservationID, &res); err != nil {
			return err
		}
		if err := activeStaffExists(tx, processedBy); err != nil {
			return err
		}

		net, err := ledgerNet(tx, original.ReservationID)
		if err != nil {
			return err
		}
		if amount > net {
			return conflictErr("refund %.2f exceeds net paid %.2f on reservation %d",
				amount, net, original.ReservationID)
		}

		notes := strings.TrimSpace(reason)
		refund = models.Payment{
			ReservationID: original.ReservationID,
			Amount:        -amount,
			PaymentMethod: original.PaymentMethod,
			ProcessedBy:   processedBy,
		}
		if notes != "" {
			refund.Notes = &notes
		}
		if err := tx.Create(&refund).Error; err != nil {
			return err
		}
		return recomputePaymentStatus(tx, original.ReservationID)
	})
	return refund, err
}

func (s *PaymentService) GetByID(id uint) (models.Payment, error) {
	var payment models.Payment
	if err := s.DB.First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return payment, notFoundErr("payment", id)
		}
		return payment, err
	}
	return payment, nil
}

func (s *PaymentService) ListByReservation(reservationID uint) ([]models.Payment, error) {
	var count int64
	if err := s.DB.Model(&models.Reservation{}).Where("id = ?", reservationID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, notFoundErr("reservation", reservationID)
	}

	var payments []models.Payment
	err := s.DB.Where("reservation_id = ?", reservationID).
		Order("created_at").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (s *PaymentService) List(filter PaymentFilter) ([]models.Payment, error) {
	q := s.DB.Model(&models.Payment{})
	if filter.DateFrom != nil {
		q = q.Where("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		q = q.Where("created_at < ?", *filter.DateTo)
	}
	if filter.PaymentMethod != "" {
		q = q.Where("payment_method = ?", filter.PaymentMethod)
	}
	if filter.ProcessedBy != 0 {
		q = q.Where("processed_by = ?", filter.ProcessedBy)
	}

	var payments []models.Payment
	if err := q.Order("created_at DESC").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// Summary reports the ledger totals and the derived status for one
// reservation.
func (s *PaymentService) Summary(reservationID uint) (PaymentSummary, error) {
	var summary PaymentSummary

	var res models.Reservation
	if err := s.DB.First(&res, reservationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return summary, notFoundErr("reservation", reservationID)
		}
		return summary, err
	}

	payments, err := s.ListByReservation(reservationID)
	if err != nil {
		return summary, err
	}

	summary = PaymentSummary{
		ReservationID: reservationID,
		TotalAmount:   res.TotalAmount,
		PaymentStatus: res.PaymentStatus,
	}
	for _, p := range payments {
		if p.Amount > 0 {
			summary.PaidAmount += p.Amount
		} else {
			summary.RefundedAmount += -p.Amount
		}
	}
	summary.NetPaid = summary.PaidAmount - summary.RefundedAmount
	summary.RemainingBalance = res.TotalAmount - summary.PaidAmount
	if summary.RemainingBalance < 0 {
		summary.RemainingBalance = 0
	}
	return summary, nil
}

// ledgerNet sums every row (payments positive, refunds negative) for
// a reservation.
func ledgerNet(tx *gorm.DB, reservationID uint) (float64, error) {
	var net float64
	err := tx.Model(&models.Payment{}).
		Where("reservation_id = ?", reservationID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&net).Error
	return net, err
}

// recomputePaymentStatus derives reservation.payment_status from the
// ledger: net <= 0 is pending, or refunded once refund rows exist;
// below total is partial, at or above total is paid. Callers must
// already hold the reservation lock.
func recomputePaymentStatus(tx *gorm.DB, reservationID uint) error {
	var res models.Reservation
	if err := tx.First(&res, reservationID).Error; err != nil {
		return err
	}

	net, err := ledgerNet(tx, reservationID)
	if err != nil {
		return err
	}
	var refunds int64
	if err := tx.Model(&models.Payment{}).
		Where("reservation_id = ? AND amount < 0", reservationID).
		Count(&refunds).Error; err != nil {
		return err
	}

	status := models.PaymentPending
	switch {
	case net <= 0:
		if refunds > 0 {
			status = models.PaymentRefunded
		}
	case net >= res.TotalAmount:
		status = models.PaymentPaid
	default:
		status = models.PaymentPartial
	}

	if status == res.PaymentStatus {
		return nil
	}
	return tx.Model(&res).Update("payment_status", status).Error
}
