package services

import (
	"errors"
	"strings"
	"time"

	"hotel-pms-backend/models"

	"gorm.io/gorm"
)

// RoomService owns the rooms table. Room.Status is only ever written
// by the reservation and maintenance services; the generic Update here
// strips it out.
type RoomService struct {
	DB *gorm.DB
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{DB: db}
}

// RoomFilter narrows List results. AvailableFrom/To, when both set,
// keep only rooms free for that window.
type RoomFilter struct {
	Status        models.RoomStatus
	RoomType      models.RoomType
	Floor         *int
	AvailableFrom *time.Time
	AvailableTo   *time.Time
}

func (s *RoomService) Create(room *models.Room) error {
	room.RoomNumber = strings.TrimSpace(room.RoomNumber)
	if room.RoomNumber == "" {
		return validationErr("room_number is required")
	}
	if !room.RoomType.Valid() {
		return validationErr("invalid room_type %q", room.RoomType)
	}
	if room.Floor <= 0 {
		return validationErr("floor must be positive")
	}
	if room.Capacity < 1 {
		return validationErr("capacity must be at least 1")
	}
	if room.PricePerNight < 0 {
		return validationErr("price_per_night must not be negative")
	}
	if room.Status == "" {
		room.Status = models.RoomAvailable
	} else if room.Status != models.RoomAvailable {
		return validationErr("new rooms start as available")
	}

	if err := s.DB.Create(room).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return conflictErr("room_number %q already exists", room.RoomNumber)
		}
		return err
	}
	return nil
}

func (s *RoomService) GetByID(id uint) (models.Room, error) {
	var room models.Room
	if err := s.DB.First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return room, notFoundErr("room", id)
		}
		return room, err
	}
	return room, nil
}

func (s *RoomService) List(filter RoomFilter) ([]models.Room, error) {
	q := s.DB.Model(&models.Room{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.RoomType != "" {
		q = q.Where("room_type = ?", filter.RoomType)
	}
	if filter.Floor != nil {
		q = q.Where("floor = ?", *filter.Floor)
	}
	if filter.AvailableFrom != nil && filter.AvailableTo != nil {
		q = q.Where("status <> ?", models.RoomMaintenance).
			Where("id NOT IN (?)", overlappingRoomIDs(s.DB, *filter.AvailableFrom, *filter.AvailableTo))
	}

	var rooms []models.Room
	if err := q.Order("room_number").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

// Available returns rooms free for [checkIn, checkOut) with at least
// the requested capacity.
func (s *RoomService) Available(checkIn, checkOut time.Time, capacity int) ([]models.Room, error) {
	if !checkOut.After(checkIn) {
		return nil, validationErr("check_out must be after check_in")
	}

	q := s.DB.Model(&models.Room{}).
		Where("status <> ?", models.RoomMaintenance).
		Where("id NOT IN (?)", overlappingRoomIDs(s.DB, checkIn, checkOut))
	if capacity > 0 {
		q = q.Where("capacity >= ?", capacity)
	}

	var rooms []models.Room
	if err := q.Order("room_number").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

// Update applies a partial merge. Omitted fields keep their value;
// id, status and timestamps are never writable here.
func (s *RoomService) Update(id uint, fields map[string]interface{}) (models.Room, error) {
	room, err := s.GetByID(id)
	if err != nil {
		return room, err
	}

	delete(fields, "id")
	delete(fields, "created_at")
	delete(fields, "updated_at")
	delete(fields, "deleted_at")
	if _, ok := fields["status"]; ok {
		return room, conflictErr("room %d: status is managed by reservations and maintenance", id)
	}

	if v, ok := fields["room_number"]; ok {
		num, _ := v.(string)
		num = strings.TrimSpace(num)
		if num == "" {
			return room, validationErr("room_number must not be empty")
		}
		fields["room_number"] = num
	}
	if v, ok := fields["room_type"]; ok {
		t, _ := v.(string)
		if !models.RoomType(t).Valid() {
			return room, validationErr("invalid room_type %q", t)
		}
	}
	if v, ok := fields["floor"]; ok {
		if n, ok := toInt(v); !ok || n <= 0 {
			return room, validationErr("floor must be positive")
		}
	}
	if v, ok := fields["capacity"]; ok {
		if n, ok := toInt(v); !ok || n < 1 {
			return room, validationErr("capacity must be at least 1")
		}
	}
	if v, ok := fields["price_per_night"]; ok {
		if f, ok := toFloat(v); !ok || f < 0 {
			return room, validationErr("price_per_night must not be negative")
		}
	}

	if len(fields) == 0 {
		return room, nil
	}

	if err := s.DB.Model(&room).Updates(fields).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return room, conflictErr("room_number already exists")
		}
		return room, err
	}
	return s.GetByID(id)
}

// SetHousekeepingStatus flips a room between available and cleaning.
// Occupied and maintenance are reserved for the lifecycle services.
func (s *RoomService) SetHousekeepingStatus(id uint, status models.RoomStatus) (models.Room, error) {
	if status != models.RoomAvailable && status != models.RoomCleaning {
		return models.Room{}, conflictErr("room %d: status %q can only be set by reservations or maintenance", id, status)
	}

	var room models.Room
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockRoom(tx, id, &room); err != nil {
			return err
		}
		if room.Status != models.RoomAvailable && room.Status != models.RoomCleaning {
			return conflictErr("room %d is %s and cannot be set to %s", id, room.Status, status)
		}
		room.Status = status
		return tx.Model(&room).Update("status", status).Error
	})
	return room, err
}

// Delete soft-deletes a room. Rooms referenced by a non-terminal
// reservation are never deleted.
func (s *RoomService) Delete(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := lockRoom(tx, id, &room); err != nil {
			return err
		}

		var active int64
		if err := tx.Model(&models.Reservation{}).
			Where("room_id = ? AND status IN ?", id, models.BlockingStatuses).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return conflictErr("room %d has %d active reservations", id, active)
		}

		return tx.Delete(&models.Room{}, id).Error
	})
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
