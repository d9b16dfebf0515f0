package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"hotel-backoffice/models"
	"hotel-backoffice/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// EditBookingRequest is the admin booking edit form.
type EditBookingRequest struct {
	RoomTypeID       uint                 `json:"room_id" binding:"required"`
	IndividualRoomID *uint                `json:"individual_room_id"`
	GuestName        string               `json:"guest_name"`
	GuestEmail       string               `json:"guest_email"`
	GuestPhone       string               `json:"guest_phone"`
	GuestCountry     string               `json:"guest_country"`
	CheckInDate      string               `json:"check_in_date"`
	CheckOutDate     string               `json:"check_out_date"`
	NumberOfGuests   int                  `json:"number_of_guests"`
	ChildGuests      int                  `json:"child_guests"`
	OccupancyType    models.OccupancyType `json:"occupancy_type"`
	Status           models.BookingStatus `json:"status"`
	SpecialRequests  string               `json:"special_requests"`
	NotifyGuest      bool                 `json:"notify_guest"`
}

// QuoteRequest prices a stay without saving anything.
type QuoteRequest struct {
	RoomTypeID       uint                 `json:"room_id" binding:"required"`
	IndividualRoomID *uint                `json:"individual_room_id"`
	CheckInDate      string               `json:"check_in_date" binding:"required"`
	CheckOutDate     string               `json:"check_out_date" binding:"required"`
	NumberOfGuests   int                  `json:"number_of_guests"`
	ChildGuests      int                  `json:"child_guests"`
	OccupancyType    models.OccupancyType `json:"occupancy_type" binding:"required"`
}

type EditBookingResult struct {
	Booking           *models.Booking `json:"booking"`
	Quote             PriceQuote      `json:"quote"`
	Changes           ChangeSet       `json:"changes"`
	NotificationSent  bool            `json:"notification_sent"`
	NotificationError string          `json:"notification_error,omitempty"`
	Message           string          `json:"message"`
}

// BookingEditService edits bookings: validation, pricing, room-type
// counter reconciliation and audit in one transaction, guest notification
// after commit.
type BookingEditService struct {
	store    repository.Store
	settings SettingsProvider
	rooms    *RoomStatusService
	notifier BookingNotifier
	logger   *zap.Logger
}

func NewBookingEditService(store repository.Store, settings SettingsProvider, rooms *RoomStatusService, notifier BookingNotifier, logger *zap.Logger) *BookingEditService {
	return &BookingEditService{
		store:    store,
		settings: settings,
		rooms:    rooms,
		notifier: notifier,
		logger:   logger,
	}
}

// GuestComposition splits a guest total into adults and children. Children
// must be fewer than the total so at least one adult remains.
func GuestComposition(total, children int) (adults int, err error) {
	if total < 1 {
		return 0, validationErr("number of guests must be at least 1")
	}
	if children < 0 {
		return 0, validationErr("number of children cannot be negative")
	}
	if children >= total {
		return 0, validationErr("number of children must be less than the total number of guests")
	}
	return max(1, total-children), nil
}

func (s *BookingEditService) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	b, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return nil, dbErr(fmt.Sprintf("booking %d", id), err)
	}
	return b, nil
}

type pricedStay struct {
	roomType *models.RoomType
	room     *models.IndividualRoom
	adults   int
	quote    PriceQuote
}

// price loads the room type and optional room, checks capacity and prices
// the stay against the effective policy.
func (s *BookingEditService) price(ctx context.Context, roomTypeID uint, roomID *uint, guests, children, nights int, occupancy models.OccupancyType) (*pricedStay, error) {
	adults, err := GuestComposition(guests, children)
	if err != nil {
		return nil, err
	}
	if !occupancy.Valid() {
		return nil, validationErr("unknown occupancy type %q", occupancy)
	}

	rt, err := s.store.GetRoomType(ctx, roomTypeID)
	if err != nil {
		return nil, dbErr(fmt.Sprintf("room type %d", roomTypeID), err)
	}
	if rt.MaxGuests > 0 && guests > rt.MaxGuests {
		return nil, validationErr("%s allows at most %d guests", rt.Name, rt.MaxGuests)
	}

	var room *models.IndividualRoom
	if roomID != nil {
		room, err = s.store.GetIndividualRoom(ctx, *roomID)
		if err != nil {
			return nil, dbErr(fmt.Sprintf("room %d", *roomID), err)
		}
		if room.RoomTypeID != rt.ID {
			return nil, validationErr("room %s does not belong to %s", room.RoomNumber, rt.Name)
		}
	}

	ps := LoadPricingSettings(ctx, s.settings)
	quote, err := CalculatePrice(PriceInput{
		Nights:        nights,
		OccupancyType: occupancy,
		Rates:         RatesFromRoomType(rt),
		BaseRate:      rt.PricePerNight,
		Adults:        adults,
		Children:      children,
		Policy:        ResolvePolicy(rt, room, ps.DefaultChildMultiplier),
		VATEnabled:    ps.VATEnabled,
		VATRate:       ps.VATRate,
	})
	if err != nil {
		return nil, err
	}
	return &pricedStay{roomType: rt, room: room, adults: adults, quote: quote}, nil
}

// Quote prices a prospective stay.
func (s *BookingEditService) Quote(ctx context.Context, req QuoteRequest) (PriceQuote, error) {
	_, _, nights, err := ParseStayDates(req.CheckInDate, req.CheckOutDate)
	if err != nil {
		return PriceQuote{}, err
	}
	p, err := s.price(ctx, req.RoomTypeID, req.IndividualRoomID, req.NumberOfGuests, req.ChildGuests, nights, req.OccupancyType)
	if err != nil {
		return PriceQuote{}, err
	}
	return p.quote, nil
}

func validateGuest(req *EditBookingRequest) error {
	req.GuestName = strings.TrimSpace(req.GuestName)
	req.GuestEmail = strings.TrimSpace(req.GuestEmail)
	if req.GuestName == "" {
		return validationErr("guest name is required")
	}
	if req.GuestEmail == "" || !strings.Contains(req.GuestEmail, "@") {
		return validationErr("a valid guest email is required")
	}
	if req.RoomTypeID == 0 {
		return validationErr("room type is required")
	}
	return nil
}

// EditBooking applies an admin edit. Nothing is written unless validation
// and pricing pass; all writes commit or roll back together.
func (s *BookingEditService) EditBooking(ctx context.Context, id uint, req EditBookingRequest, actor *uint) (*EditBookingResult, error) {
	if err := validateGuest(&req); err != nil {
		return nil, err
	}
	checkIn, checkOut, nights, err := ParseStayDates(req.CheckInDate, req.CheckOutDate)
	if err != nil {
		return nil, err
	}

	before, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return nil, dbErr(fmt.Sprintf("booking %d", id), err)
	}

	occupancy := req.OccupancyType
	if occupancy == "" {
		occupancy = before.OccupancyType
	}
	status := req.Status
	if status == "" {
		status = before.Status
	}
	if !status.Valid() {
		return nil, validationErr("unknown booking status %q", status)
	}

	p, err := s.price(ctx, req.RoomTypeID, req.IndividualRoomID, req.NumberOfGuests, req.ChildGuests, nights, occupancy)
	if err != nil {
		return nil, err
	}
	if p.room != nil && !sameRoom(before.IndividualRoomID, req.IndividualRoomID) &&
		(p.room.Status == models.RoomMaintenance || p.room.Status == models.RoomOutOfOrder) {
		return nil, validationErr("room %s is %s and cannot be assigned", p.room.RoomNumber, p.room.Status)
	}

	after := *before
	after.RoomID = p.roomType.ID
	after.IndividualRoomID = req.IndividualRoomID
	after.GuestName = req.GuestName
	after.GuestEmail = req.GuestEmail
	after.GuestPhone = strings.TrimSpace(req.GuestPhone)
	after.GuestCountry = strings.TrimSpace(req.GuestCountry)
	after.CheckInDate = checkIn
	after.CheckOutDate = checkOut
	after.NumberOfNights = nights
	after.NumberOfGuests = req.NumberOfGuests
	after.AdultGuests = p.adults
	after.ChildGuests = req.ChildGuests
	after.OccupancyType = occupancy
	after.ChildPriceMultiplier = p.quote.ChildPriceMultiplier
	after.TotalAmount = p.quote.Total
	after.ChildSupplementTotal = p.quote.ChildSupplement
	after.VATAmount = p.quote.VAT
	after.SpecialRequests = strings.TrimSpace(req.SpecialRequests)
	after.Status = status
	if after.BookingReference == "" {
		after.BookingReference = "BK-" + strings.ToUpper(uuid.NewString()[:8])
	}
	after.RoomType, after.IndividualRoom = nil, nil

	changes := DiffBooking(before, &after)
	var modificationID uint

	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := s.reconcileInventory(ctx, tx, before, &after); err != nil {
			return err
		}
		if err := s.rooms.applyBookingLifecycle(ctx, tx, before, &after, actor); err != nil {
			return err
		}
		if err := tx.SaveBooking(ctx, &after); err != nil {
			return dbErr("save booking", err)
		}
		if len(changes) == 0 {
			return nil
		}
		payload, err := json.Marshal(changes)
		if err != nil {
			return fmt.Errorf("encode booking changes: %w", err)
		}
		mod := &models.BookingModification{
			BookingID:          after.ID,
			Changes:            datatypes.JSON(payload),
			RecordedBy:         actor,
			NotificationStatus: "skipped",
		}
		if err := tx.CreateBookingModification(ctx, mod); err != nil {
			return dbErr("record booking modification", err)
		}
		modificationID = mod.ID
		return nil
	})
	if err != nil {
		s.logger.Warn("booking edit rolled back", zap.Uint("booking_id", id), zap.Error(err))
		return nil, err
	}

	after.RoomType = p.roomType
	after.IndividualRoom = p.room
	res := &EditBookingResult{
		Booking: &after,
		Quote:   p.quote,
		Changes: changes,
		Message: "Booking updated successfully.",
	}
	if len(changes) == 0 {
		res.Message = "No changes were made to the booking."
	}

	if req.NotifyGuest && len(changes) > 0 && s.notifier != nil {
		s.notify(ctx, &after, changes, modificationID, res)
	}
	return res, nil
}

// reconcileInventory keeps rooms_available in step with the bookings that
// hold a room. The old type gets its room back when the booking held one
// before the edit and no longer holds it there; the new type gives one up
// when the booking holds one after the edit and did not hold it there. The
// caller's transaction undoes the release when the take fails.
func (s *BookingEditService) reconcileInventory(ctx context.Context, tx repository.Store, before, after *models.Booking) error {
	moved := before.RoomID != after.RoomID
	heldBefore := before.Status.HoldsInventory()
	holdsAfter := after.Status.HoldsInventory()

	if heldBefore && (moved || !holdsAfter) {
		if err := tx.AdjustRoomsAvailable(ctx, before.RoomID, 1); err != nil {
			return dbErr(fmt.Sprintf("room type %d", before.RoomID), err)
		}
	}
	if holdsAfter && (moved || !heldBefore) {
		return s.takeRoom(ctx, tx, after.RoomID)
	}
	return nil
}

// takeRoom claims one room of a type under a row lock, failing with
// ErrRoomUnavailable when the type is full.
func (s *BookingEditService) takeRoom(ctx context.Context, tx repository.Store, roomTypeID uint) error {
	target, err := tx.GetRoomTypeForUpdate(ctx, roomTypeID)
	if err != nil {
		return dbErr(fmt.Sprintf("room type %d", roomTypeID), err)
	}
	if target.RoomsAvailable <= 0 {
		return &kindError{kind: ErrRoomUnavailable, msg: fmt.Sprintf("no %s rooms are available", target.Name)}
	}
	if err := tx.AdjustRoomsAvailable(ctx, roomTypeID, -1); err != nil {
		return dbErr(fmt.Sprintf("room type %d", roomTypeID), err)
	}
	return nil
}

// notify runs after commit; a failure only degrades the result message and
// a skipped channel leaves it untouched.
func (s *BookingEditService) notify(ctx context.Context, b *models.Booking, changes ChangeSet, modificationID uint, res *EditBookingResult) {
	status, errMsg := "sent", ""
	err := s.notifier.NotifyBookingModified(ctx, b, changes)
	switch {
	case errors.Is(err, ErrNotificationSkipped):
		status = "skipped"
		s.logger.Info("booking change notification skipped",
			zap.Uint("booking_id", b.ID),
			zap.String("reference", b.BookingReference),
		)
	case err != nil:
		status, errMsg = "failed", err.Error()
		res.NotificationError = errMsg
		res.Message = "Booking updated successfully, but the guest notification could not be sent."
		s.logger.Warn("booking change notification failed",
			zap.Uint("booking_id", b.ID),
			zap.String("reference", b.BookingReference),
			zap.Error(err),
		)
	default:
		res.NotificationSent = true
		res.Message = "Booking updated successfully and the guest was notified."
	}

	if modificationID == 0 {
		return
	}
	if err := s.store.UpdateBookingModificationNotification(ctx, modificationID, status, errMsg); err != nil {
		s.logger.Warn("failed to record notification outcome",
			zap.Uint("modification_id", modificationID),
			zap.Error(err),
		)
	}
}
