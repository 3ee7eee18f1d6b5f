package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-pms-backend/models"
)

func TestCreateGuestDuplicateIdentity(t *testing.T) {
	db := newTestDB(t)
	svc := NewGuestService(db)

	guest := models.Guest{
		FirstName:      "Somchai",
		LastName:       "Jaidee",
		Email:          "somchai@example.com",
		Phone:          "0812345678",
		IdentityNumber: "1100500000001",
		Gender:         models.GenderMale,
		Nationality:    "Thai",
	}
	require.NoError(t, svc.Create(&guest))

	dup := models.Guest{
		FirstName:      "Somsak",
		LastName:       "Jaidee",
		Email:          "somsak@example.com",
		Phone:          "0898765432",
		IdentityNumber: "1100500000001",
		Gender:         models.GenderMale,
		Nationality:    "Thai",
	}
	assert.ErrorIs(t, svc.Create(&dup), ErrConflict)
}

func TestCreateGuestValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewGuestService(db)

	err := svc.Create(&models.Guest{
		FirstName:      "  ",
		LastName:       "Jaidee",
		Email:          "x@example.com",
		IdentityNumber: "1100500000001",
		Gender:         models.GenderMale,
	})
	assert.ErrorIs(t, err, ErrValidation)

	err = svc.Create(&models.Guest{
		FirstName:      "Somchai",
		LastName:       "Jaidee",
		Email:          "x@example.com",
		IdentityNumber: "1100500000002",
		Gender:         "unknown",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSearchGuests(t *testing.T) {
	db := newTestDB(t)
	svc := NewGuestService(db)

	seedGuest(t, db, "1100500000001")
	other := models.Guest{
		FirstName:      "Maria",
		LastName:       "Garcia",
		Email:          "maria@example.com",
		Phone:          "0655512345",
		IdentityNumber: "AB123456",
		Gender:         models.GenderFemale,
		Nationality:    "Spanish",
	}
	require.NoError(t, svc.Create(&other))

	results, err := svc.Search("garcia")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Maria", results[0].FirstName)

	results, err = svc.Search("0655512")
	require.NoError(t, err)
	require.Len(t, results, 1)

	results, err = svc.Search("AB1234")
	require.NoError(t, err)
	require.Len(t, results, 1)

	_, err = svc.Search("   ")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGuestReservations(t *testing.T) {
	db := newTestDB(t)
	guests := NewGuestService(db)
	reservations := NewReservationService(db)
	staff := seedStaff(t, db, "staff")
	room := seedRoom(t, db, "101", 2, 1200)
	guest := seedGuest(t, db, "1100500000001")

	_, err := reservations.Create(CreateReservationInput{
		GuestID:      guest.ID,
		RoomID:       room.ID,
		CheckInDate:  date(2026, time.June, 1),
		CheckOutDate: date(2026, time.June, 3),
		Adults:       1,
		CreatedBy:    staff.ID,
	})
	require.NoError(t, err)

	list, err := guests.Reservations(guest.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = guests.Reservations(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteGuestWithActiveReservation(t *testing.T) {
	db := newTestDB(t)
	guests := NewGuestService(db)
	reservations := NewReservationService(db)
	staff := seedStaff(t, db, "staff")
	room := seedRoom(t, db, "101", 2, 1200)
	guest := seedGuest(t, db, "1100500000001")

	res, err := reservations.Create(CreateReservationInput{
		GuestID:      guest.ID,
		RoomID:       room.ID,
		CheckInDate:  date(2026, time.June, 1),
		CheckOutDate: date(2026, time.June, 3),
		Adults:       1,
		CreatedBy:    staff.ID,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, guests.Delete(guest.ID), ErrConflict)

	_, err = reservations.Cancel(res.ID, "no show")
	require.NoError(t, err)
	assert.NoError(t, guests.Delete(guest.ID))
}
