package services

import (
	"context"
	"errors"
	"sort"
	"strconv"

	"hotel-backoffice/models"
)

type FieldChange struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// ChangeSet maps a booking field name to its old and new value.
type ChangeSet map[string]FieldChange

// Fields returns the changed field names in a stable order.
func (c ChangeSet) Fields() []string {
	out := make([]string, 0, len(c))
	for k := range c {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ErrNotificationSkipped is returned by a notifier that sent nothing, such
// as a channel switched off in site settings.
var ErrNotificationSkipped = errors.New("notification skipped")

// BookingNotifier tells the guest their booking changed.
type BookingNotifier interface {
	NotifyBookingModified(ctx context.Context, booking *models.Booking, changes ChangeSet) error
}

func optionalID(id *uint) string {
	if id == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*id), 10)
}

// DiffBooking compares the guest-visible fields of two versions of a
// booking.
func DiffBooking(before, after *models.Booking) ChangeSet {
	pairs := []struct {
		field    string
		old, new string
	}{
		{"room_id", strconv.FormatUint(uint64(before.RoomID), 10), strconv.FormatUint(uint64(after.RoomID), 10)},
		{"individual_room_id", optionalID(before.IndividualRoomID), optionalID(after.IndividualRoomID)},
		{"guest_name", before.GuestName, after.GuestName},
		{"guest_email", before.GuestEmail, after.GuestEmail},
		{"guest_phone", before.GuestPhone, after.GuestPhone},
		{"guest_country", before.GuestCountry, after.GuestCountry},
		{"check_in_date", before.CheckInDate.Format(dateLayout), after.CheckInDate.Format(dateLayout)},
		{"check_out_date", before.CheckOutDate.Format(dateLayout), after.CheckOutDate.Format(dateLayout)},
		{"number_of_nights", strconv.Itoa(before.NumberOfNights), strconv.Itoa(after.NumberOfNights)},
		{"number_of_guests", strconv.Itoa(before.NumberOfGuests), strconv.Itoa(after.NumberOfGuests)},
		{"adult_guests", strconv.Itoa(before.AdultGuests), strconv.Itoa(after.AdultGuests)},
		{"child_guests", strconv.Itoa(before.ChildGuests), strconv.Itoa(after.ChildGuests)},
		{"occupancy_type", string(before.OccupancyType), string(after.OccupancyType)},
		{"total_amount", before.TotalAmount.StringFixed(2), after.TotalAmount.StringFixed(2)},
		{"status", string(before.Status), string(after.Status)},
		{"special_requests", before.SpecialRequests, after.SpecialRequests},
	}

	changes := ChangeSet{}
	for _, p := range pairs {
		if p.old != p.new {
			changes[p.field] = FieldChange{Old: p.old, New: p.new}
		}
	}
	return changes
}
