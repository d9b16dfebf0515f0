package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RoomType is a bookable category ("Deluxe", "Family Suite"). Its counters
// are adjusted when bookings move between room types.
type RoomType struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string `gorm:"size:150;uniqueIndex" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	MaxGuests   int    `gorm:"column:max_guests;default:2" json:"max_guests"`

	// PricePerNight is the base rate, used when a tier rate is not set.
	PricePerNight decimal.Decimal     `gorm:"column:price_per_night;type:decimal(12,2)" json:"price_per_night"`
	PriceSingle   decimal.NullDecimal `gorm:"column:price_single;type:decimal(12,2)" json:"price_single"`
	PriceDouble   decimal.NullDecimal `gorm:"column:price_double;type:decimal(12,2)" json:"price_double"`
	PriceTriple   decimal.NullDecimal `gorm:"column:price_triple;type:decimal(12,2)" json:"price_triple"`

	SingleEnabled   bool `gorm:"column:single_occupancy_enabled;not null" json:"single_occupancy_enabled"`
	DoubleEnabled   bool `gorm:"column:double_occupancy_enabled;not null" json:"double_occupancy_enabled"`
	TripleEnabled   bool `gorm:"column:triple_occupancy_enabled;not null" json:"triple_occupancy_enabled"`
	ChildrenAllowed bool `gorm:"column:children_allowed;not null" json:"children_allowed"`

	// ChildPriceMultiplier is a percent of the nightly rate; nil means the
	// site-wide default applies.
	ChildPriceMultiplier *float64 `gorm:"column:child_price_multiplier" json:"child_price_multiplier"`

	TotalRooms     int `gorm:"column:total_rooms;default:0" json:"total_rooms"`
	RoomsAvailable int `gorm:"column:rooms_available;default:0" json:"rooms_available"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (RoomType) TableName() string { return "rooms" }
