package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-pms-backend/models"
)

func TestDashboardRoomCounts(t *testing.T) {
	db := newTestDB(t)
	reports := NewReportService(db)
	reservations := NewReservationService(db)
	staff := seedStaff(t, db, "staff")
	guest := seedGuest(t, db, "1100500000001")

	occupied := seedRoom(t, db, "101", 2, 1200)
	seedRoom(t, db, "102", 2, 1200)
	broken := seedRoom(t, db, "103", 2, 1200)
	require.NoError(t, db.Model(&models.Room{}).
		Where("id = ?", broken.ID).
		Update("status", models.RoomMaintenance).Error)

	today := normalizeDate(time.Now().UTC())
	res, err := reservations.Create(CreateReservationInput{
		GuestID:      guest.ID,
		RoomID:       occupied.ID,
		CheckInDate:  today,
		CheckOutDate: today.AddDate(0, 0, 2),
		Adults:       1,
		CreatedBy:    staff.ID,
	})
	require.NoError(t, err)
	_, err = reservations.Confirm(res.ID)
	require.NoError(t, err)
	_, err = reservations.CheckIn(res.ID)
	require.NoError(t, err)

	stats, err := reports.Dashboard()
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalRooms)
	assert.Equal(t, int64(1), stats.OccupiedRooms)
	assert.Equal(t, int64(1), stats.AvailableRooms)
	assert.Equal(t, int64(1), stats.MaintenanceRooms)
	assert.InDelta(t, 100.0/3, stats.OccupancyRate, 0.01)
	assert.Equal(t, int64(1), stats.TotalReservationsToday)
	assert.Equal(t, int64(1), stats.CheckInsToday)
}

func TestOccupancyReport(t *testing.T) {
	db := newTestDB(t)
	reports := NewReportService(db)
	reservations := NewReservationService(db)
	staff := seedStaff(t, db, "staff")
	guest := seedGuest(t, db, "1100500000001")
	room := seedRoom(t, db, "101", 2, 1000)
	seedRoom(t, db, "102", 2, 1000)

	_, err := reservations.Create(CreateReservationInput{
		GuestID:      guest.ID,
		RoomID:       room.ID,
		CheckInDate:  date(2026, time.June, 2),
		CheckOutDate: date(2026, time.June, 4),
		Adults:       1,
		CreatedBy:    staff.ID,
	})
	require.NoError(t, err)

	rows, err := reports.Occupancy(date(2026, time.June, 1), date(2026, time.June, 5))
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, 0, rows[0].OccupiedRooms)
	assert.Equal(t, 1, rows[1].OccupiedRooms)
	assert.Equal(t, 1, rows[2].OccupiedRooms)
	assert.Equal(t, 0, rows[3].OccupiedRooms)

	assert.Equal(t, 50.0, rows[1].OccupancyRate)
	assert.Equal(t, 1000.0, rows[1].Revenue)

	// the checkout day holds no stay
	assert.Equal(t, 0.0, rows[3].Revenue)
}

func TestRevenueReportBuckets(t *testing.T) {
	db := newTestDB(t)
	reports := NewReportService(db)
	reservations := NewReservationService(db)
	staff := seedStaff(t, db, "staff")
	guest := seedGuest(t, db, "1100500000001")
	room := seedRoom(t, db, "101", 2, 1000)

	_, err := reservations.Create(CreateReservationInput{
		GuestID:      guest.ID,
		RoomID:       room.ID,
		CheckInDate:  date(2026, time.June, 2),
		CheckOutDate: date(2026, time.June, 4),
		Adults:       1,
		CreatedBy:    staff.ID,
	})
	require.NoError(t, err)

	rows, err := reports.Revenue("monthly", date(2026, time.June, 1), date(2026, time.June, 5))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2026-06", rows[0].Period)
	assert.Equal(t, 2000.0, rows[0].RoomRevenue)
	assert.Equal(t, int64(1), rows[0].TotalReservations)

	_, err = reports.Revenue("hourly", date(2026, time.June, 1), date(2026, time.June, 5))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestExportCSV(t *testing.T) {
	db := newTestDB(t)
	reports := NewReportService(db)
	seedRoom(t, db, "101", 2, 1000)

	name, data, err := reports.ExportCSV("occupancy", date(2026, time.June, 1), date(2026, time.June, 3))
	require.NoError(t, err)
	assert.Equal(t, "occupancy_2026-06-01_2026-06-03.csv", name)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "date,total_rooms,occupied_rooms,occupancy_rate,revenue", strings.TrimSpace(lines[0]))

	_, _, err = reports.ExportCSV("pdf", date(2026, time.June, 1), date(2026, time.June, 3))
	assert.ErrorIs(t, err, ErrValidation)
}
