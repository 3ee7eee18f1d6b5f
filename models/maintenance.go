package models

import (
	"time"

	"gorm.io/gorm"
)

type MaintenancePriority string

const (
	PriorityLow      MaintenancePriority = "low"
	PriorityMedium   MaintenancePriority = "medium"
	PriorityHigh     MaintenancePriority = "high"
	PriorityCritical MaintenancePriority = "critical"
)

func (p MaintenancePriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Urgent priorities force the room into maintenance status while the
// ticket is open.
func (p MaintenancePriority) Urgent() bool {
	return p == PriorityHigh || p == PriorityCritical
}

type MaintenanceStatus string

const (
	MaintenancePending    MaintenanceStatus = "pending"
	MaintenanceInProgress MaintenanceStatus = "in_progress"
	MaintenanceCompleted  MaintenanceStatus = "completed"
	MaintenanceCancelled  MaintenanceStatus = "cancelled"
)

var maintenanceTransitions = map[MaintenanceStatus][]MaintenanceStatus{
	MaintenancePending:    {MaintenanceInProgress, MaintenanceCancelled},
	MaintenanceInProgress: {MaintenanceCompleted, MaintenanceCancelled},
}

func (s MaintenanceStatus) Valid() bool {
	switch s {
	case MaintenancePending, MaintenanceInProgress, MaintenanceCompleted, MaintenanceCancelled:
		return true
	}
	return false
}

func (s MaintenanceStatus) CanTransitionTo(next MaintenanceStatus) bool {
	for _, t := range maintenanceTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Open reports whether the ticket still holds the room (pending or
// in_progress).
func (s MaintenanceStatus) Open() bool {
	return s == MaintenancePending || s == MaintenanceInProgress
}

var OpenMaintenanceStatuses = []MaintenanceStatus{
	MaintenancePending, MaintenanceInProgress,
}

type MaintenanceTicket struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	RoomID uint `gorm:"index;column:room_id" json:"room_id"`

	IssueDescription string              `gorm:"column:issue_description;type:text" json:"issue_description"`
	Priority         MaintenancePriority `gorm:"size:20" json:"priority"`
	Status           MaintenanceStatus   `gorm:"size:20;default:pending;index" json:"status"`

	AssignedTo *uint      `gorm:"column:assigned_to" json:"assigned_to"`
	ResolvedAt *time.Time `gorm:"column:resolved_at" json:"resolved_at"` // set only on completion
	Notes      *string    `gorm:"type:text" json:"notes"`
	ReportedBy uint       `gorm:"column:reported_by" json:"reported_by"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Room Room `gorm:"foreignKey:RoomID" json:"room,omitempty"`
}

func (MaintenanceTicket) TableName() string { return "room_maintenance" }
