package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"hotel-pms-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReservationService drives the reservation state machine and the room
// status side effects that come with it. Every mutation runs in a
// transaction holding a FOR UPDATE lock on the room row, so an
// availability check and the insert it guards cannot interleave with a
// concurrent booking of the same room.
type ReservationService struct {
	DB *gorm.DB
}

func NewReservationService(db *gorm.DB) *ReservationService {
	return &ReservationService{DB: db}
}

type CreateReservationInput struct {
	GuestID         uint
	RoomID          uint
	CheckInDate     time.Time
	CheckOutDate    time.Time
	Adults          int
	Children        int
	SpecialRequests *string
	CreatedBy       uint
}

type UpdateReservationInput struct {
	GuestID         *uint
	RoomID          *uint
	CheckInDate     *time.Time
	CheckOutDate    *time.Time
	Adults          *int
	Children        *int
	SpecialRequests *string
}

type ReservationFilter struct {
	Status        models.ReservationStatus
	PaymentStatus models.PaymentStatus
	CheckInFrom   *time.Time
	CheckInTo     *time.Time
	GuestName     string
}

func lockRoom(tx *gorm.DB, id uint, room *models.Room) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(room, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFoundErr("room", id)
	}
	return err
}

func lockReservation(tx *gorm.DB, id uint, res *models.Reservation) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(res, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFoundErr("reservation", id)
	}
	return err
}

// overlappingRoomIDs selects room ids held by a blocking reservation
// overlapping [checkIn, checkOut). Ranges are half-open: a check-out
// and a check-in on the same day never conflict.
func overlappingRoomIDs(db *gorm.DB, checkIn, checkOut time.Time) *gorm.DB {
	return db.Model(&models.Reservation{}).
		Select("room_id").
		Where("status IN ?", models.BlockingStatuses).
		Where("check_in_date < ? AND check_out_date > ?", checkOut, checkIn)
}

func overlapExists(tx *gorm.DB, roomID uint, checkIn, checkOut time.Time, excludeID uint) (bool, error) {
	q := tx.Model(&models.Reservation{}).
		Where("room_id = ?", roomID).
		Where("status IN ?", models.BlockingStatuses).
		Where("check_in_date < ? AND check_out_date > ?", checkOut, checkIn)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsRoomAvailable reports whether the room can take a booking for
// [checkIn, checkOut). A room under maintenance is never available,
// even with no overlapping reservation. excludeID lets an update check
// availability ignoring its own prior booking (0 = exclude nothing).
func (s *ReservationService) IsRoomAvailable(roomID uint, checkIn, checkOut time.Time, excludeID uint) (bool, error) {
	var room models.Room
	if err := s.DB.First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, notFoundErr("room", roomID)
		}
		return false, err
	}
	if room.Status == models.RoomMaintenance {
		return false, nil
	}

	overlap, err := overlapExists(s.DB, roomID, checkIn, checkOut, excludeID)
	if err != nil {
		return false, err
	}
	return !overlap, nil
}

func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func validateDateRange(checkIn, checkOut time.Time) error {
	if checkIn.IsZero() || checkOut.IsZero() {
		return validationErr("check_in_date and check_out_date are required")
	}
	if !checkOut.After(checkIn) {
		return validationErr("check_out_date must be after check_in_date")
	}
	return nil
}

// Create books a room. The availability check and the insert run under
// the same room lock, which closes the double-booking race.
func (s *ReservationService) Create(in CreateReservationInput) (models.Reservation, error) {
	var res models.Reservation

	in.CheckInDate = normalizeDate(in.CheckInDate)
	in.CheckOutDate = normalizeDate(in.CheckOutDate)
	if err := validateDateRange(in.CheckInDate, in.CheckOutDate); err != nil {
		return res, err
	}
	if in.Adults < 1 {
		return res, validationErr("at least one adult is required")
	}
	if in.Children < 0 {
		return res, validationErr("children must not be negative")
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := lockRoom(tx, in.RoomID, &room); err != nil {
			return err
		}
		if room.Status == models.RoomMaintenance {
			return conflictErr("room %d is under maintenance", in.RoomID)
		}
		if in.Adults+in.Children > room.Capacity {
			return validationErr("room %s holds %d guests, requested %d",
				room.RoomNumber, room.Capacity, in.Adults+in.Children)
		}

		var guest models.Guest
		if err := tx.First(&guest, in.GuestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundErr("guest", in.GuestID)
			}
			return err
		}
		if err := activeStaffExists(tx, in.CreatedBy); err != nil {
			return err
		}

		overlap, err := overlapExists(tx, in.RoomID, in.CheckInDate, in.CheckOutDate, 0)
		if err != nil {
			return err
		}
		if overlap {
			return conflictErr("room %s already booked for %s to %s",
				room.RoomNumber,
				in.CheckInDate.Format("2006-01-02"),
				in.CheckOutDate.Format("2006-01-02"))
		}

		res = models.Reservation{
			GuestID:         in.GuestID,
			RoomID:          in.RoomID,
			CheckInDate:     in.CheckInDate,
			CheckOutDate:    in.CheckOutDate,
			Adults:          in.Adults,
			Children:        in.Children,
			SpecialRequests: in.SpecialRequests,
			Status:          models.ReservationPending,
			PaymentStatus:   models.PaymentPending,
			CreatedBy:       in.CreatedBy,
		}
		res.TotalAmount = float64(res.Nights()) * room.PricePerNight

		return tx.Create(&res).Error
	})
	if err != nil {
		return models.Reservation{}, err
	}
	return s.GetByID(res.ID)
}

func (s *ReservationService) GetByID(id uint) (models.Reservation, error) {
	var res models.Reservation
	err := s.DB.Preload("Guest").Preload("Room").First(&res, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return res, notFoundErr("reservation", id)
		}
		return res, err
	}
	return res, nil
}

func (s *ReservationService) List(filter ReservationFilter) ([]models.Reservation, error) {
	q := s.DB.Model(&models.Reservation{}).Preload("Guest").Preload("Room")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		q = q.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.CheckInFrom != nil {
		q = q.Where("check_in_date >= ?", normalizeDate(*filter.CheckInFrom))
	}
	if filter.CheckInTo != nil {
		q = q.Where("check_in_date <= ?", normalizeDate(*filter.CheckInTo))
	}
	if filter.GuestName != "" {
		like := "%" + strings.ToLower(filter.GuestName) + "%"
		q = q.Joins("JOIN guests ON guests.id = reservations.guest_id").
			Where("LOWER(guests.first_name) LIKE ? OR LOWER(guests.last_name) LIKE ?", like, like)
	}

	var list []models.Reservation
	if err := q.Order("check_in_date DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Update applies a partial merge. Changing dates or room re-validates
// availability (excluding this reservation) and recomputes the total,
// and is only legal while pending or confirmed.
func (s *ReservationService) Update(id uint, in UpdateReservationInput) (models.Reservation, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var res models.Reservation
		if err := lockReservation(tx, id, &res); err != nil {
			return err
		}

		stayChanged := in.RoomID != nil || in.CheckInDate != nil || in.CheckOutDate != nil
		if stayChanged &&
			res.Status != models.ReservationPending && res.Status != models.ReservationConfirmed {
			return conflictErr("reservation %d is %s; dates and room are frozen", id, res.Status)
		}

		if in.GuestID != nil {
			var guest models.Guest
			if err := tx.First(&guest, *in.GuestID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return notFoundErr("guest", *in.GuestID)
				}
				return err
			}
			res.GuestID = *in.GuestID
		}
		if in.RoomID != nil {
			res.RoomID = *in.RoomID
		}
		if in.CheckInDate != nil {
			res.CheckInDate = normalizeDate(*in.CheckInDate)
		}
		if in.CheckOutDate != nil {
			res.CheckOutDate = normalizeDate(*in.CheckOutDate)
		}
		if in.Adults != nil {
			if *in.Adults < 1 {
				return validationErr("at least one adult is required")
			}
			res.Adults = *in.Adults
		}
		if in.Children != nil {
			if *in.Children < 0 {
				return validationErr("children must not be negative")
			}
			res.Children = *in.Children
		}
		if in.SpecialRequests != nil {
			res.SpecialRequests = in.SpecialRequests
		}

		if err := validateDateRange(res.CheckInDate, res.CheckOutDate); err != nil {
			return err
		}

		// Lock the (possibly new) room before re-checking availability.
		var room models.Room
		if err := lockRoom(tx, res.RoomID, &room); err != nil {
			return err
		}

		if stayChanged {
			if room.Status == models.RoomMaintenance {
				return conflictErr("room %d is under maintenance", res.RoomID)
			}
			overlap, err := overlapExists(tx, res.RoomID, res.CheckInDate, res.CheckOutDate, res.ID)
			if err != nil {
				return err
			}
			if overlap {
				return conflictErr("room %s already booked for %s to %s",
					room.RoomNumber,
					res.CheckInDate.Format("2006-01-02"),
					res.CheckOutDate.Format("2006-01-02"))
			}
			res.TotalAmount = float64(res.Nights()) * room.PricePerNight
		}

		if res.Adults+res.Children > room.Capacity {
			return validationErr("room %s holds %d guests, requested %d",
				room.RoomNumber, room.Capacity, res.Adults+res.Children)
		}

		if err := tx.Save(&res).Error; err != nil {
			return err
		}
		return recomputePaymentStatus(tx, res.ID)
	})
	if err != nil {
		return models.Reservation{}, err
	}
	return s.GetByID(id)
}

func (s *ReservationService) transition(id uint, next models.ReservationStatus, apply func(tx *gorm.DB, res *models.Reservation, room *models.Room) error) (models.Reservation, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var res models.Reservation
		if err := lockReservation(tx, id, &res); err != nil {
			return err
		}
		var room models.Room
		if err := lockRoom(tx, res.RoomID, &room); err != nil {
			return err
		}

		if !res.Status.CanTransitionTo(next) {
			return transitionErr("reservation", id, string(res.Status), string(next))
		}

		res.Status = next
		if apply != nil {
			if err := apply(tx, &res, &room); err != nil {
				return err
			}
		}
		return tx.Save(&res).Error
	})
	if err != nil {
		return models.Reservation{}, err
	}
	return s.GetByID(id)
}

// Confirm advances pending -> confirmed.
func (s *ReservationService) Confirm(id uint) (models.Reservation, error) {
	return s.transition(id, models.ReservationConfirmed, nil)
}

// CheckIn advances confirmed -> checked_in, stamps actual_check_in and
// marks the room occupied. A room pulled into maintenance after the
// booking was made cannot receive the guest.
func (s *ReservationService) CheckIn(id uint) (models.Reservation, error) {
	return s.transition(id, models.ReservationCheckedIn,
		func(tx *gorm.DB, res *models.Reservation, room *models.Room) error {
			if room.Status == models.RoomMaintenance {
				return conflictErr("room %s is under maintenance", room.RoomNumber)
			}
			now := time.Now().UTC()
			res.ActualCheckIn = &now
			return tx.Model(room).Update("status", models.RoomOccupied).Error
		})
}

// CheckOut advances checked_in -> checked_out, stamps actual_check_out
// and sends the room to cleaning. If an urgent maintenance ticket was
// deferred while the room was occupied, the room goes to maintenance
// instead.
func (s *ReservationService) CheckOut(id uint) (models.Reservation, error) {
	return s.transition(id, models.ReservationCheckedOut,
		func(tx *gorm.DB, res *models.Reservation, room *models.Room) error {
			now := time.Now().UTC()
			res.ActualCheckOut = &now

			next, err := vacatedRoomStatus(tx, room.ID, models.RoomCleaning)
			if err != nil {
				return err
			}
			return tx.Model(room).Update("status", next).Error
		})
}

// Cancel diverts any pre-checked_out state to cancelled. A room held
// occupied solely by this reservation reverts to available. With prior
// payments the ledger recomputation runs; the derived status becomes
// refunded once refunds bring the net to zero.
func (s *ReservationService) Cancel(id uint, reason string) (models.Reservation, error) {
	return s.transition(id, models.ReservationCancelled,
		func(tx *gorm.DB, res *models.Reservation, room *models.Room) error {
			if reason = strings.TrimSpace(reason); reason != "" {
				note := fmt.Sprintf("cancelled: %s", reason)
				if res.SpecialRequests != nil && *res.SpecialRequests != "" {
					note = *res.SpecialRequests + "\n" + note
				}
				res.SpecialRequests = &note
			}

			if res.ActualCheckIn != nil && room.Status == models.RoomOccupied {
				next, err := vacatedRoomStatus(tx, room.ID, models.RoomAvailable)
				if err != nil {
					return err
				}
				if err := tx.Model(room).Update("status", next).Error; err != nil {
					return err
				}
			}

			if err := tx.Save(res).Error; err != nil {
				return err
			}
			if err := recomputePaymentStatus(tx, res.ID); err != nil {
				return err
			}
			// Reload so the caller's final save does not clobber the
			// freshly derived payment_status.
			return tx.First(res, res.ID).Error
		})
}

// vacatedRoomStatus decides where a room lands after its occupant
// leaves: an open high/critical ticket pins it to maintenance,
// otherwise it takes the fallback (cleaning after checkout, available
// after cancellation).
func vacatedRoomStatus(tx *gorm.DB, roomID uint, fallback models.RoomStatus) (models.RoomStatus, error) {
	var urgent int64
	err := tx.Model(&models.MaintenanceTicket{}).
		Where("room_id = ? AND status IN ? AND priority IN ?",
			roomID, models.OpenMaintenanceStatuses,
			[]models.MaintenancePriority{models.PriorityHigh, models.PriorityCritical}).
		Count(&urgent).Error
	if err != nil {
		return fallback, err
	}
	if urgent > 0 {
		return models.RoomMaintenance, nil
	}
	return fallback, nil
}

// TodayArrivals lists confirmed reservations whose check-in date is
// today.
func (s *ReservationService) TodayArrivals() ([]models.Reservation, error) {
	today := normalizeDate(time.Now().UTC())
	var list []models.Reservation
	err := s.DB.Preload("Guest").Preload("Room").
		Where("status = ? AND check_in_date >= ? AND check_in_date < ?",
			models.ReservationConfirmed, today, today.AddDate(0, 0, 1)).
		Order("check_in_date").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// TodayDepartures lists in-house reservations due out today.
func (s *ReservationService) TodayDepartures() ([]models.Reservation, error) {
	today := normalizeDate(time.Now().UTC())
	var list []models.Reservation
	err := s.DB.Preload("Guest").Preload("Room").
		Where("status = ? AND check_out_date >= ? AND check_out_date < ?",
			models.ReservationCheckedIn, today, today.AddDate(0, 0, 1)).
		Order("check_out_date").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
