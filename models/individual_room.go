package models

import (
	"time"

	"gorm.io/gorm"
)

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomCleaning    RoomStatus = "cleaning"
	RoomInspection  RoomStatus = "inspection"
	RoomMaintenance RoomStatus = "maintenance"
	RoomOutOfOrder  RoomStatus = "out_of_order"
)

func (s RoomStatus) Valid() bool {
	switch s {
	case RoomAvailable, RoomOccupied, RoomCleaning, RoomInspection, RoomMaintenance, RoomOutOfOrder:
		return true
	}
	return false
}

// IndividualRoom is a physical room. The *Override fields are nullable:
// nil inherits the owning RoomType's value.
type IndividualRoom struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	RoomTypeID uint       `gorm:"column:room_type_id;index;not null" json:"room_type_id"`
	RoomNumber string     `gorm:"column:room_number;uniqueIndex;size:50" json:"room_number"`
	Floor      string     `gorm:"column:floor;size:10" json:"floor"`
	Status     RoomStatus `gorm:"column:status;size:32;default:available;index" json:"status"`
	Notes      string     `gorm:"column:notes;type:text" json:"notes,omitempty"`

	SingleEnabledOverride        *bool    `gorm:"column:single_occupancy_enabled_override" json:"single_occupancy_enabled_override"`
	DoubleEnabledOverride        *bool    `gorm:"column:double_occupancy_enabled_override" json:"double_occupancy_enabled_override"`
	TripleEnabledOverride        *bool    `gorm:"column:triple_occupancy_enabled_override" json:"triple_occupancy_enabled_override"`
	ChildrenAllowedOverride      *bool    `gorm:"column:children_allowed_override" json:"children_allowed_override"`
	ChildPriceMultiplierOverride *float64 `gorm:"column:child_price_multiplier_override" json:"child_price_multiplier_override"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	RoomType *RoomType `gorm:"foreignKey:RoomTypeID" json:"room_type,omitempty"`
}

func (IndividualRoom) TableName() string { return "individual_rooms" }
