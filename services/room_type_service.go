package services

import (
	"context"
	"fmt"
	"strings"

	"hotel-backoffice/models"
	"hotel-backoffice/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RoomTypeInput is the admin form for a room type. Tier prices may be null
// to fall back to the base rate.
type RoomTypeInput struct {
	Name                 string              `json:"name" binding:"required"`
	Description          string              `json:"description"`
	MaxGuests            int                 `json:"max_guests"`
	PricePerNight        decimal.Decimal     `json:"price_per_night"`
	PriceSingle          decimal.NullDecimal `json:"price_single"`
	PriceDouble          decimal.NullDecimal `json:"price_double"`
	PriceTriple          decimal.NullDecimal `json:"price_triple"`
	SingleEnabled        *bool               `json:"single_occupancy_enabled"`
	DoubleEnabled        *bool               `json:"double_occupancy_enabled"`
	TripleEnabled        *bool               `json:"triple_occupancy_enabled"`
	ChildrenAllowed      *bool               `json:"children_allowed"`
	ChildPriceMultiplier *float64            `json:"child_price_multiplier"`
	TotalRooms           *int                `json:"total_rooms"`
}

// RoomView is an individual room with the policy that applies to it.
type RoomView struct {
	models.IndividualRoom
	Policy EffectivePolicy `json:"effective_policy"`
}

type RoomTypeService struct {
	store    repository.Store
	settings SettingsProvider
	logger   *zap.Logger
}

func NewRoomTypeService(store repository.Store, settings SettingsProvider, logger *zap.Logger) *RoomTypeService {
	return &RoomTypeService{store: store, settings: settings, logger: logger}
}

func checkPrice(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return validationErr("%s cannot be negative", field)
	}
	return nil
}

func (in RoomTypeInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return validationErr("room type name is required")
	}
	if in.MaxGuests < 0 || (in.TotalRooms != nil && *in.TotalRooms < 0) {
		return validationErr("max guests and total rooms cannot be negative")
	}
	if err := checkPrice("price per night", in.PricePerNight); err != nil {
		return err
	}
	for field, p := range map[string]decimal.NullDecimal{
		"single price": in.PriceSingle,
		"double price": in.PriceDouble,
		"triple price": in.PriceTriple,
	} {
		if p.Valid {
			if err := checkPrice(field, p.Decimal); err != nil {
				return err
			}
		}
	}
	if in.ChildPriceMultiplier != nil && *in.ChildPriceMultiplier < 0 {
		return validationErr("child price multiplier cannot be negative")
	}
	return nil
}

// applyTo copies the form onto rt. Omitted flags and a zero max_guests keep
// rt's current values.
func (in RoomTypeInput) applyTo(rt *models.RoomType) {
	rt.Name = strings.TrimSpace(in.Name)
	rt.Description = strings.TrimSpace(in.Description)
	if in.MaxGuests > 0 {
		rt.MaxGuests = in.MaxGuests
	}
	rt.PricePerNight = in.PricePerNight
	rt.PriceSingle = in.PriceSingle
	rt.PriceDouble = in.PriceDouble
	rt.PriceTriple = in.PriceTriple
	rt.SingleEnabled = boolOr(in.SingleEnabled, rt.SingleEnabled)
	rt.DoubleEnabled = boolOr(in.DoubleEnabled, rt.DoubleEnabled)
	rt.TripleEnabled = boolOr(in.TripleEnabled, rt.TripleEnabled)
	rt.ChildrenAllowed = boolOr(in.ChildrenAllowed, rt.ChildrenAllowed)
	rt.ChildPriceMultiplier = in.ChildPriceMultiplier
}

func (s *RoomTypeService) List(ctx context.Context) ([]models.RoomType, error) {
	list, err := s.store.ListRoomTypes(ctx)
	if err != nil {
		return nil, dbErr("list room types", err)
	}
	return list, nil
}

// Create starts a room type with every room available.
func (s *RoomTypeService) Create(ctx context.Context, in RoomTypeInput) (*models.RoomType, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	rt := &models.RoomType{
		MaxGuests:       2,
		SingleEnabled:   true,
		DoubleEnabled:   true,
		TripleEnabled:   true,
		ChildrenAllowed: true,
	}
	in.applyTo(rt)
	if in.TotalRooms != nil {
		rt.TotalRooms = *in.TotalRooms
		rt.RoomsAvailable = *in.TotalRooms
	}

	if err := s.store.CreateRoomType(ctx, rt); err != nil {
		return nil, dbErr(fmt.Sprintf("room type %q", rt.Name), err)
	}
	s.logger.Info("room type created", zap.Uint("room_type_id", rt.ID), zap.String("name", rt.Name))
	return rt, nil
}

// Update edits a room type. A change to total_rooms shifts rooms_available
// by the same amount; shrinking below the rooms already booked is rejected.
// An omitted total_rooms leaves both counters alone.
func (s *RoomTypeService) Update(ctx context.Context, id uint, in RoomTypeInput) (*models.RoomType, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var out *models.RoomType
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		rt, err := tx.GetRoomTypeForUpdate(ctx, id)
		if err != nil {
			return dbErr(fmt.Sprintf("room type %d", id), err)
		}
		in.applyTo(rt)

		if in.TotalRooms != nil {
			total := *in.TotalRooms
			delta := total - rt.TotalRooms
			if rt.RoomsAvailable+delta < 0 {
				return validationErr("%s has %d rooms booked; total rooms cannot drop to %d",
					rt.Name, rt.TotalRooms-rt.RoomsAvailable, total)
			}
			rt.TotalRooms = total
			rt.RoomsAvailable += delta
		}

		if err := tx.UpdateRoomType(ctx, rt); err != nil {
			return dbErr(fmt.Sprintf("room type %q", rt.Name), err)
		}
		out = rt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListRooms returns the rooms of one room type (all rooms for 0), each with
// its effective policy.
func (s *RoomTypeService) ListRooms(ctx context.Context, roomTypeID uint) ([]RoomView, error) {
	rooms, err := s.store.ListIndividualRooms(ctx, roomTypeID)
	if err != nil {
		return nil, dbErr("list rooms", err)
	}
	ps := LoadPricingSettings(ctx, s.settings)
	out := make([]RoomView, 0, len(rooms))
	for i := range rooms {
		out = append(out, RoomView{
			IndividualRoom: rooms[i],
			Policy:         ResolvePolicy(rooms[i].RoomType, &rooms[i], ps.DefaultChildMultiplier),
		})
	}
	return out, nil
}

// RoomPolicy resolves the effective policy of one room.
func (s *RoomTypeService) RoomPolicy(ctx context.Context, roomID uint) (EffectivePolicy, error) {
	room, err := s.store.GetIndividualRoom(ctx, roomID)
	if err != nil {
		return EffectivePolicy{}, dbErr(fmt.Sprintf("room %d", roomID), err)
	}
	rt, err := s.store.GetRoomType(ctx, room.RoomTypeID)
	if err != nil {
		return EffectivePolicy{}, dbErr(fmt.Sprintf("room type %d", room.RoomTypeID), err)
	}
	ps := LoadPricingSettings(ctx, s.settings)
	return ResolvePolicy(rt, room, ps.DefaultChildMultiplier), nil
}
