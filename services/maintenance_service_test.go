package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-pms-backend/models"
)

func TestUrgentTicketFlipsRoomToMaintenance(t *testing.T) {
	db := newTestDB(t)
	svc := NewMaintenanceService(db)
	staff := seedStaff(t, db, "staff")
	room := seedRoom(t, db, "101", 2, 1200)

	ticket, err := svc.Report(ReportMaintenanceInput{
		RoomID:           room.ID,
		IssueDescription: "burst water pipe",
		Priority:         models.PriorityCritical,
		ReportedBy:       staff.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, models.MaintenancePending, ticket.Status)
	assert.Equal(t, models.RoomMaintenance, roomStatus(t, db, room.ID))
}

func TestLowPriorityTicketLeavesRoomAlone(t *testing.T) {
	db := newTestDB(t)
	svc := NewMaintenanceService(db)
	staff := seedStaff(t, db, "staff")
	room := seedRoom(t, db, "101", 2, 1200)

	_, err := svc.Report(ReportMaintenanceInput{
		RoomID:           room.ID,
		IssueDescription: "remote control battery",
		Priority:         models.PriorityLow,
		ReportedBy:       staff.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, models.RoomAvailable, roomStatus(t, db, room.ID))
}

func TestUrgentTicketDeferredWhileOccupied(t *testing.T) {
	db := newTestDB(t)
	maintenance := NewMaintenanceService(db)
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
	_, err = reservations.Confirm(res.ID)
	require.NoError(t, err)
	_, err = reservations.CheckIn(res.ID)
	require.NoError(t, err)

	_, err = maintenance.Report(ReportMaintenanceInput{
		RoomID:           room.ID,
		IssueDescription: "air conditioning failure",
		Priority:         models.PriorityHigh,
		ReportedBy:       staff.ID,
	})
	require.NoError(t, err)

	// the guest is in-house, so the flip waits for the room to vacate
	assert.Equal(t, models.RoomOccupied, roomStatus(t, db, room.ID))

	_, err = reservations.CheckOut(res.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoomMaintenance, roomStatus(t, db, room.ID))
}

func TestCompleteSendsRoomToCleaning(t *testing.T) {
	db := newTestDB(t)
	svc := NewMaintenanceService(db)
	staff := seedStaff(t, db, "staff")
	room := seedRoom(t, db, "101", 2, 1200)

	ticket, err := svc.Report(ReportMaintenanceInput{
		RoomID:           room.ID,
		IssueDescription: "broken shower head",
		Priority:         models.PriorityHigh,
		ReportedBy:       staff.ID,
	})
	require.NoError(t, err)
	require.Equal(t, models.RoomMaintenance, roomStatus(t, db, room.ID))

	ticket, err = svc.Assign(ticket.ID, staff.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MaintenanceInProgress, ticket.Status)
	require.NotNil(t, ticket.AssignedTo)
	assert.Equal(t, staff.ID, *ticket.AssignedTo)

	ticket, err = svc.Complete(ticket.ID, "replaced the fitting")
	require.NoError(t, err)
	assert.Equal(t, models.MaintenanceCompleted, ticket.Status)
	require.NotNil(t, ticket.ResolvedAt)

	// finished rooms go through housekeeping, never straight to available
	assert.Equal(t, models.RoomCleaning, roomStatus(t, db, room.ID))
}

func TestCompleteKeepsRoomWithSiblingOpenTicket(t *testing.T) {
	db := newTestDB(t)
	svc := NewMaintenanceService(db)
	staff := seedStaff(t, db, "staff")
	room := seedRoom(t, db, "101", 2, 1200)

	first, err := svc.Report(ReportMaintenanceInput{
		RoomID:           room.ID,
		IssueDescription: "burst water pipe",
		Priority:         models.PriorityCritical,
		ReportedBy:       staff.ID,
	})
	require.NoError(t, err)

	_, err = svc.Report(ReportMaintenanceInput{
		RoomID:           room.ID,
		IssueDescription: "water damage on carpet",
		Priority:         models.PriorityHigh,
		ReportedBy:       staff.ID,
	})
	require.NoError(t, err)

	_, err = svc.Assign(first.ID, staff.ID)
	require.NoError(t, err)
	_, err = svc.Complete(first.ID, "pipe replaced")
	require.NoError(t, err)

	assert.Equal(t, models.RoomMaintenance, roomStatus(t, db, room.ID))
}

func TestMaintenanceTransitions(t *testing.T) {
	db := newTestDB(t)
	svc := NewMaintenanceService(db)
	staff := seedStaff(t, db, "staff")
	room := seedRoom(t, db, "101", 2, 1200)

	ticket, err := svc.Report(ReportMaintenanceInput{
		RoomID:           room.ID,
		IssueDescription: "flickering light",
		Priority:         models.PriorityMedium,
		ReportedBy:       staff.ID,
	})
	require.NoError(t, err)

	// pending tickets cannot complete without being worked on
	_, err = svc.Complete(ticket.ID, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	ticket, err = svc.Cancel(ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MaintenanceCancelled, ticket.Status)

	// cancelled is terminal
	_, err = svc.Assign(ticket.ID, staff.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateRejectsStatusField(t *testing.T) {
	db := newTestDB(t)
	svc := NewMaintenanceService(db)
	staff := seedStaff(t, db, "staff")
	room := seedRoom(t, db, "101", 2, 1200)

	ticket, err := svc.Report(ReportMaintenanceInput{
		RoomID:           room.ID,
		IssueDescription: "flickering light",
		Priority:         models.PriorityMedium,
		ReportedBy:       staff.ID,
	})
	require.NoError(t, err)

	_, err = svc.Update(ticket.ID, map[string]interface{}{"status": "completed"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUpdateIgnoresImmutableReferences(t *testing.T) {
	db := newTestDB(t)
	svc := NewMaintenanceService(db)
	staff := seedStaff(t, db, "staff")
	room := seedRoom(t, db, "101", 2, 1200)

	ticket, err := svc.Report(ReportMaintenanceInput{
		RoomID:           room.ID,
		IssueDescription: "flickering light",
		Priority:         models.PriorityMedium,
		ReportedBy:       staff.ID,
	})
	require.NoError(t, err)

	// a ticket stays pinned to its room and reporter
	updated, err := svc.Update(ticket.ID, map[string]interface{}{
		"room_id":     uint(9999),
		"reported_by": uint(9999),
		"notes":       "checked the fixture",
	})
	require.NoError(t, err)
	assert.Equal(t, room.ID, updated.RoomID)
	assert.Equal(t, staff.ID, updated.ReportedBy)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "checked the fixture", *updated.Notes)
}

func TestUpdateEscalationFlipsRoom(t *testing.T) {
	db := newTestDB(t)
	svc := NewMaintenanceService(db)
	staff := seedStaff(t, db, "staff")
	room := seedRoom(t, db, "101", 2, 1200)

	ticket, err := svc.Report(ReportMaintenanceInput{
		RoomID:           room.ID,
		IssueDescription: "slow drain",
		Priority:         models.PriorityLow,
		ReportedBy:       staff.ID,
	})
	require.NoError(t, err)
	require.Equal(t, models.RoomAvailable, roomStatus(t, db, room.ID))

	ticket, err = svc.Update(ticket.ID, map[string]interface{}{"priority": "critical"})
	require.NoError(t, err)
	assert.Equal(t, models.PriorityCritical, ticket.Priority)
	assert.Equal(t, models.RoomMaintenance, roomStatus(t, db, room.ID))
}
