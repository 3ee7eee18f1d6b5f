package services

import (
	"errors"
	"strings"
	"time"

	"hotel-pms-backend/models"

	"gorm.io/gorm"
)

// MaintenanceService runs the ticket state machine and its room-status
// side effects: an open high/critical ticket forces the room into
// maintenance, and closing the last open ticket sends the room to
// cleaning, never straight to available.
type MaintenanceService struct {
	DB *gorm.DB
}

func NewMaintenanceService(db *gorm.DB) *MaintenanceService {
	return &MaintenanceService{DB: db}
}

type ReportMaintenanceInput struct {
	RoomID           uint
	IssueDescription string
	Priority         models.MaintenancePriority
	ReportedBy       uint
}

type MaintenanceFilter struct {
	Status     models.MaintenanceStatus
	Priority   models.MaintenancePriority
	RoomID     uint
	AssignedTo uint
}

// Report files a new ticket. An urgent ticket flips the room to
// maintenance immediately unless a guest is in-house; the ticket is
// still recorded and the flip happens when the room is vacated.
func (s *MaintenanceService) Report(in ReportMaintenanceInput) (models.MaintenanceTicket, error) {
	var ticket models.MaintenanceTicket

	in.IssueDescription = strings.TrimSpace(in.IssueDescription)
	if in.IssueDescription == "" {
		return ticket, validationErr("issue_description is required")
	}
	if !in.Priority.Valid() {
		return ticket, validationErr("invalid priority %q", in.Priority)
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := lockRoom(tx, in.RoomID, &room); err != nil {
			return err
		}
		if err := activeStaffExists(tx, in.ReportedBy); err != nil {
			return err
		}

		ticket = models.MaintenanceTicket{
			RoomID:           in.RoomID,
			IssueDescription: in.IssueDescription,
			Priority:         in.Priority,
			Status:           models.MaintenancePending,
			ReportedBy:       in.ReportedBy,
		}
		if err := tx.Create(&ticket).Error; err != nil {
			return err
		}

		if in.Priority.Urgent() && room.Status != models.RoomOccupied {
			if err := tx.Model(&room).Update("status", models.RoomMaintenance).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return ticket, err
}

func (s *MaintenanceService) GetByID(id uint) (models.MaintenanceTicket, error) {
	var ticket models.MaintenanceTicket
	err := s.DB.Preload("Room").First(&ticket, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ticket, notFoundErr("maintenance ticket", id)
		}
		return ticket, err
	}
	return ticket, nil
}

func (s *MaintenanceService) List(filter MaintenanceFilter) ([]models.MaintenanceTicket, error) {
	q := s.DB.Model(&models.MaintenanceTicket{}).Preload("Room")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		q = q.Where("priority = ?", filter.Priority)
	}
	if filter.RoomID != 0 {
		q = q.Where("room_id = ?", filter.RoomID)
	}
	if filter.AssignedTo != 0 {
		q = q.Where("assigned_to = ?", filter.AssignedTo)
	}

	var tickets []models.MaintenanceTicket
	if err := q.Order("created_at DESC").Find(&tickets).Error; err != nil {
		return nil, err
	}
	return tickets, nil
}

// Pending lists open tickets, most urgent first.
func (s *MaintenanceService) Pending() ([]models.MaintenanceTicket, error) {
	var tickets []models.MaintenanceTicket
	err := s.DB.Preload("Room").
		Where("status IN ?", models.OpenMaintenanceStatuses).
		Order("CASE priority WHEN 'critical' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END, created_at").
		Find(&tickets).Error
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

func (s *MaintenanceService) ByRoom(roomID uint) ([]models.MaintenanceTicket, error) {
	var count int64
	if err := s.DB.Model(&models.Room{}).Where("id = ?", roomID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, notFoundErr("room", roomID)
	}

	var tickets []models.MaintenanceTicket
	err := s.DB.Where("room_id = ?", roomID).
		Order("created_at DESC").
		Find(&tickets).Error
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

// Assign moves pending -> in_progress and records the assignee.
func (s *MaintenanceService) Assign(ticketID, staffID uint) (models.MaintenanceTicket, error) {
	return s.transition(ticketID, models.MaintenanceInProgress,
		func(tx *gorm.DB, ticket *models.MaintenanceTicket, _ *models.Room) error {
			if err := activeStaffExists(tx, staffID); err != nil {
				return err
			}
			ticket.AssignedTo = &staffID
			return nil
		})
}

// Complete moves in_progress -> completed, stamps resolved_at and,
// when no other open ticket holds the room, sends it to cleaning for
// housekeeping sign-off.
func (s *MaintenanceService) Complete(ticketID uint, notes string) (models.MaintenanceTicket, error) {
	return s.transition(ticketID, models.MaintenanceCompleted,
		func(tx *gorm.DB, ticket *models.MaintenanceTicket, room *models.Room) error {
			now := time.Now().UTC()
			ticket.ResolvedAt = &now
			if notes = strings.TrimSpace(notes); notes != "" {
				ticket.Notes = &notes
			}
			return releaseRoomIfClear(tx, ticket, room)
		})
}

// Cancel voids an open ticket and re-evaluates the room status the
// same way completion does.
func (s *MaintenanceService) Cancel(ticketID uint) (models.MaintenanceTicket, error) {
	return s.transition(ticketID, models.MaintenanceCancelled,
		func(tx *gorm.DB, ticket *models.MaintenanceTicket, room *models.Room) error {
			return releaseRoomIfClear(tx, ticket, room)
		})
}

// Update edits ticket fields. Status changes go through the dedicated
// transitions; escalating an open ticket to urgent triggers the same
// room flip as reporting one.
func (s *MaintenanceService) Update(id uint, fields map[string]interface{}) (models.MaintenanceTicket, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var ticket models.MaintenanceTicket
		if err := tx.First(&ticket, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundErr("maintenance ticket", id)
			}
			return err
		}

		delete(fields, "id")
		delete(fields, "created_at")
		delete(fields, "updated_at")
		delete(fields, "deleted_at")
		delete(fields, "resolved_at")
		// room_id and reported_by are fixed at report time; a ticket
		// never moves to another room or reporter.
		delete(fields, "room_id")
		delete(fields, "reported_by")
		if _, ok := fields["status"]; ok {
			return conflictErr("ticket %d: status changes go through assign/complete/cancel", id)
		}

		escalated := false
		if v, ok := fields["priority"]; ok {
			p, _ := v.(string)
			prio := models.MaintenancePriority(p)
			if !prio.Valid() {
				return validationErr("invalid priority %q", p)
			}
			escalated = prio.Urgent() && !ticket.Priority.Urgent() && ticket.Status.Open()
		}
		if v, ok := fields["assigned_to"]; ok {
			if id, ok := toInt(v); ok && id > 0 {
				if err := activeStaffExists(tx, uint(id)); err != nil {
					return err
				}
			}
		}

		if len(fields) > 0 {
			if err := tx.Model(&ticket).Updates(fields).Error; err != nil {
				return err
			}
		}

		if escalated {
			var room models.Room
			if err := lockRoom(tx, ticket.RoomID, &room); err != nil {
				return err
			}
			if room.Status != models.RoomOccupied && room.Status != models.RoomMaintenance {
				if err := tx.Model(&room).Update("status", models.RoomMaintenance).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return models.MaintenanceTicket{}, err
	}
	return s.GetByID(id)
}

func (s *MaintenanceService) transition(id uint, next models.MaintenanceStatus, apply func(tx *gorm.DB, ticket *models.MaintenanceTicket, room *models.Room) error) (models.MaintenanceTicket, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var ticket models.MaintenanceTicket
		if err := tx.First(&ticket, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundErr("maintenance ticket", id)
			}
			return err
		}
		var room models.Room
		if err := lockRoom(tx, ticket.RoomID, &room); err != nil {
			return err
		}

		if !ticket.Status.CanTransitionTo(next) {
			return transitionErr("maintenance ticket", id, string(ticket.Status), string(next))
		}

		ticket.Status = next
		if apply != nil {
			if err := apply(tx, &ticket, &room); err != nil {
				return err
			}
		}
		return tx.Save(&ticket).Error
	})
	if err != nil {
		return models.MaintenanceTicket{}, err
	}
	return s.GetByID(id)
}

// releaseRoomIfClear sends a maintenance-held room to cleaning once no
// other open ticket remains on it. Occupied rooms are left alone.
func releaseRoomIfClear(tx *gorm.DB, closing *models.MaintenanceTicket, room *models.Room) error {
	var open int64
	err := tx.Model(&models.MaintenanceTicket{}).
		Where("room_id = ? AND status IN ? AND id <> ?",
			closing.RoomID, models.OpenMaintenanceStatuses, closing.ID).
		Count(&open).Error
	if err != nil {
		return err
	}
	if open > 0 || room.Status != models.RoomMaintenance {
		return nil
	}
	return tx.Model(room).Update("status", models.RoomCleaning).Error
}
