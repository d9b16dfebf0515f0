package models

import (
	"time"

	"gorm.io/datatypes"
)

// BookingModification records one committed admin edit of a booking.
type BookingModification struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	BookingID  uint           `gorm:"column:booking_id;index" json:"booking_id"`
	Changes    datatypes.JSON `gorm:"column:changes" json:"changes"`
	RecordedBy *uint          `gorm:"column:recorded_by" json:"recorded_by"`

	// NotificationStatus is one of "skipped", "sent", "failed".
	NotificationStatus string    `gorm:"column:notification_status;size:16;default:skipped" json:"notification_status"`
	NotificationError  string    `gorm:"column:notification_error;type:text" json:"notification_error,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}
