package models

import "time"

type MaintenanceStatus string

const (
	MaintenancePlanned    MaintenanceStatus = "planned"
	MaintenanceInProgress MaintenanceStatus = "in_progress"
	MaintenanceCompleted  MaintenanceStatus = "completed"
	MaintenanceCancelled  MaintenanceStatus = "cancelled"
)

func (s MaintenanceStatus) Valid() bool {
	switch s {
	case MaintenancePlanned, MaintenanceInProgress, MaintenanceCompleted, MaintenanceCancelled:
		return true
	}
	return false
}

// Active reports whether a schedule in this status can still block a room.
func (s MaintenanceStatus) Active() bool {
	return s == MaintenancePlanned || s == MaintenanceInProgress
}

// MaintenanceSchedule is a planned block of one room. EndDate is exclusive.
type MaintenanceSchedule struct {
	ID               uint              `gorm:"primaryKey" json:"id"`
	IndividualRoomID uint              `gorm:"column:individual_room_id;index;not null" json:"individual_room_id"`
	Title            string            `gorm:"column:title;size:255" json:"title"`
	Description      string            `gorm:"column:description;type:text" json:"description,omitempty"`
	Status           MaintenanceStatus `gorm:"column:status;size:32;index" json:"status"`
	BlockRoom        bool              `gorm:"column:block_room;not null" json:"block_room"`
	StartDate        time.Time         `gorm:"column:start_date;index" json:"start_date"`
	EndDate          time.Time         `gorm:"column:end_date;index" json:"end_date"`
	AssignedTo       *uint             `gorm:"column:assigned_to" json:"assigned_to"`
	CreatedBy        *uint             `gorm:"column:created_by" json:"created_by"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

func (MaintenanceSchedule) TableName() string { return "room_maintenance_schedules" }

// Blocks reports whether the schedule blocks its room at instant t.
func (m *MaintenanceSchedule) Blocks(t time.Time) bool {
	return m.BlockRoom && m.Status.Active() && !m.StartDate.After(t) && t.Before(m.EndDate)
}

// Overlaps reports whether [start, end) intersects the schedule's interval.
func (m *MaintenanceSchedule) Overlaps(start, end time.Time) bool {
	return m.StartDate.Before(end) && start.Before(m.EndDate)
}

// MaintenanceLogEntry is the append-only audit trail of room status changes.
type MaintenanceLogEntry struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	IndividualRoomID uint       `gorm:"column:individual_room_id;index" json:"individual_room_id"`
	ScheduleID       *uint      `gorm:"column:schedule_id;index" json:"schedule_id,omitempty"`
	StatusFrom       RoomStatus `gorm:"column:status_from;size:32" json:"status_from"`
	StatusTo         RoomStatus `gorm:"column:status_to;size:32" json:"status_to"`
	Reason           string     `gorm:"column:reason;type:text" json:"reason"`
	PerformedBy      *uint      `gorm:"column:performed_by" json:"performed_by"`
	CreatedAt        time.Time  `json:"created_at"`
}

func (MaintenanceLogEntry) TableName() string { return "room_maintenance_log" }
