package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OccupancyType string

const (
	OccupancySingle OccupancyType = "single"
	OccupancyDouble OccupancyType = "double"
	OccupancyTriple OccupancyType = "triple"
)

func (o OccupancyType) Valid() bool {
	return o == OccupancySingle || o == OccupancyDouble || o == OccupancyTriple
}

type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingCheckedIn  BookingStatus = "checked-in"
	BookingCheckedOut BookingStatus = "checked-out"
	BookingCancelled  BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCheckedIn, BookingCheckedOut, BookingCancelled:
		return true
	}
	return false
}

// HoldsInventory reports whether a booking in this status occupies one of
// its room type's available rooms.
func (s BookingStatus) HoldsInventory() bool {
	return s == BookingConfirmed || s == BookingCheckedIn
}

// Booking is a reservation. CheckOutDate is exclusive; AdultGuests +
// ChildGuests always equals NumberOfGuests.
type Booking struct {
	ID               uint   `gorm:"primaryKey" json:"id"`
	BookingReference string `gorm:"column:booking_reference;size:64;uniqueIndex" json:"booking_reference"`

	RoomID           uint  `gorm:"column:room_id;index;not null" json:"room_id"`
	IndividualRoomID *uint `gorm:"column:individual_room_id;index" json:"individual_room_id"`

	GuestName    string `gorm:"column:guest_name;size:255" json:"guest_name"`
	GuestEmail   string `gorm:"column:guest_email;size:255" json:"guest_email"`
	GuestPhone   string `gorm:"column:guest_phone;size:50" json:"guest_phone"`
	GuestCountry string `gorm:"column:guest_country;size:100" json:"guest_country,omitempty"`

	CheckInDate    time.Time `gorm:"column:check_in_date;type:date" json:"check_in_date"`
	CheckOutDate   time.Time `gorm:"column:check_out_date;type:date" json:"check_out_date"`
	NumberOfNights int       `gorm:"column:number_of_nights" json:"number_of_nights"`

	NumberOfGuests int           `gorm:"column:number_of_guests" json:"number_of_guests"`
	AdultGuests    int           `gorm:"column:adult_guests;default:1" json:"adult_guests"`
	ChildGuests    int           `gorm:"column:child_guests;default:0" json:"child_guests"`
	OccupancyType  OccupancyType `gorm:"column:occupancy_type;size:16;default:double" json:"occupancy_type"`

	// ChildPriceMultiplier is the percent that applied when the booking was
	// last priced.
	ChildPriceMultiplier float64         `gorm:"column:child_price_multiplier" json:"child_price_multiplier"`
	TotalAmount          decimal.Decimal `gorm:"column:total_amount;type:decimal(12,2)" json:"total_amount"`
	ChildSupplementTotal decimal.Decimal `gorm:"column:child_supplement_total;type:decimal(12,2)" json:"child_supplement_total"`
	VATAmount            decimal.Decimal `gorm:"column:vat_amount;type:decimal(12,2)" json:"vat_amount"`

	SpecialRequests string        `gorm:"column:special_requests;type:text" json:"special_requests,omitempty"`
	Status          BookingStatus `gorm:"column:status;size:32;index" json:"status"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	RoomType       *RoomType       `gorm:"foreignKey:RoomID" json:"room_type,omitempty"`
	IndividualRoom *IndividualRoom `gorm:"foreignKey:IndividualRoomID" json:"individual_room,omitempty"`
}
