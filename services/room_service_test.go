package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-pms-backend/models"
)

func TestCreateRoomDuplicateNumber(t *testing.T) {
	db := newTestDB(t)
	svc := NewRoomService(db)

	room := models.Room{
		RoomNumber:    "101",
		RoomType:      models.RoomStandard,
		Floor:         1,
		Capacity:      2,
		PricePerNight: 1200,
	}
	require.NoError(t, svc.Create(&room))
	assert.Equal(t, models.RoomAvailable, room.Status)

	dup := models.Room{
		RoomNumber:    "101",
		RoomType:      models.RoomDeluxe,
		Floor:         1,
		Capacity:      3,
		PricePerNight: 2000,
	}
	assert.ErrorIs(t, svc.Create(&dup), ErrConflict)
}

func TestAvailableExcludesBookedAndMaintenance(t *testing.T) {
	db := newTestDB(t)
	rooms := NewRoomService(db)
	reservations := NewReservationService(db)
	staff := seedStaff(t, db, "staff")
	guest := seedGuest(t, db, "1100500000001")

	booked := seedRoom(t, db, "101", 2, 1200)
	broken := seedRoom(t, db, "102", 2, 1200)
	free := seedRoom(t, db, "103", 2, 1200)
	small := seedRoom(t, db, "104", 1, 800)

	_, err := reservations.Create(CreateReservationInput{
		GuestID:      guest.ID,
		RoomID:       booked.ID,
		CheckInDate:  date(2026, time.June, 1),
		CheckOutDate: date(2026, time.June, 5),
		Adults:       1,
		CreatedBy:    staff.ID,
	})
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Room{}).
		Where("id = ?", broken.ID).
		Update("status", models.RoomMaintenance).Error)

	available, err := rooms.Available(date(2026, time.June, 2), date(2026, time.June, 4), 2)
	require.NoError(t, err)

	ids := make([]uint, 0, len(available))
	for _, r := range available {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []uint{free.ID}, ids)
	assert.NotContains(t, ids, small.ID)
}

func TestRoomUpdateRejectsStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewRoomService(db)
	room := seedRoom(t, db, "101", 2, 1200)

	_, err := svc.Update(room.ID, map[string]interface{}{"status": "occupied"})
	assert.ErrorIs(t, err, ErrConflict)

	updated, err := svc.Update(room.ID, map[string]interface{}{"price_per_night": 1500.0})
	require.NoError(t, err)
	assert.Equal(t, 1500.0, updated.PricePerNight)
}

func TestRoomUpdateValidatesFields(t *testing.T) {
	db := newTestDB(t)
	svc := NewRoomService(db)
	room := seedRoom(t, db, "101", 2, 1200)

	_, err := svc.Update(room.ID, map[string]interface{}{"floor": 0})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Update(room.ID, map[string]interface{}{"floor": -2})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Update(room.ID, map[string]interface{}{"capacity": 0})
	assert.ErrorIs(t, err, ErrValidation)

	updated, err := svc.Update(room.ID, map[string]interface{}{"floor": 3})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Floor)
}

func TestSetHousekeepingStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewRoomService(db)
	room := seedRoom(t, db, "101", 2, 1200)

	updated, err := svc.SetHousekeepingStatus(room.ID, models.RoomCleaning)
	require.NoError(t, err)
	assert.Equal(t, models.RoomCleaning, updated.Status)

	updated, err = svc.SetHousekeepingStatus(room.ID, models.RoomAvailable)
	require.NoError(t, err)
	assert.Equal(t, models.RoomAvailable, updated.Status)

	// occupied and maintenance are off limits for housekeeping
	_, err = svc.SetHousekeepingStatus(room.ID, models.RoomOccupied)
	assert.ErrorIs(t, err, ErrConflict)

	require.NoError(t, db.Model(&models.Room{}).
		Where("id = ?", room.ID).
		Update("status", models.RoomMaintenance).Error)
	_, err = svc.SetHousekeepingStatus(room.ID, models.RoomAvailable)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestDeleteRoomWithActiveReservations(t *testing.T) {
	db := newTestDB(t)
	rooms := NewRoomService(db)
	reservations := NewReservationService(db)
	staff := seedStaff(t, db, "staff")
	guest := seedGuest(t, db, "1100500000001")
	room := seedRoom(t, db, "101", 2, 1200)

	res, err := reservations.Create(CreateReservationInput{
		GuestID:      guest.ID,
		RoomID:       room.ID,
		CheckInDate:  date(2026, time.June, 1),
		CheckOutDate: date(2026, time.June, 3),
		Adults:       1,
		CreatedBy:    staff.ID,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, rooms.Delete(room.ID), ErrConflict)

	_, err = reservations.Cancel(res.ID, "plans changed")
	require.NoError(t, err)
	assert.NoError(t, rooms.Delete(room.ID))

	_, err = rooms.GetByID(room.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
