package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"hotel-backoffice/models"
	"hotel-backoffice/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type staticSettings map[string]string

func (s staticSettings) Get(_ context.Context, key, def string) string {
	if v, ok := s[key]; ok {
		return v
	}
	return def
}

func (s staticSettings) Update(_ context.Context, key, value string) error {
	s[key] = value
	return nil
}

func (s staticSettings) Invalidate(context.Context, string) error { return nil }

type fakeNotifier struct {
	mu      sync.Mutex
	err     error
	calls   int
	changes ChangeSet
}

func (f *fakeNotifier) NotifyBookingModified(_ context.Context, _ *models.Booking, changes ChangeSet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.changes = changes
	return f.err
}

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time          { return c.now }
func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.Local)}
}

func ptr[T any](v T) *T { return &v }

func seedRoomType(t *testing.T, store *repository.MemoryStore, id uint, name string, available int) *models.RoomType {
	t.Helper()
	rt := &models.RoomType{
		ID:              id,
		Name:            name,
		MaxGuests:       3,
		PricePerNight:   decimal.NewFromInt(180),
		PriceSingle:     decimal.NewNullDecimal(decimal.NewFromInt(200)),
		SingleEnabled:   true,
		DoubleEnabled:   true,
		TripleEnabled:   true,
		ChildrenAllowed: true,
		TotalRooms:      3,
		RoomsAvailable:  available,
	}
	require.NoError(t, store.CreateRoomType(context.Background(), rt))
	return rt
}

func seedRoom(store *repository.MemoryStore, id, roomTypeID uint, number string, status models.RoomStatus) *models.IndividualRoom {
	room := &models.IndividualRoom{ID: id, RoomTypeID: roomTypeID, RoomNumber: number, Status: status}
	store.PutIndividualRoom(room)
	return room
}

func roomStatus(t *testing.T, store repository.Store, id uint) models.RoomStatus {
	t.Helper()
	room, err := store.GetIndividualRoom(context.Background(), id)
	require.NoError(t, err)
	return room.Status
}

func roomsAvailable(t *testing.T, store repository.Store, id uint) int {
	t.Helper()
	rt, err := store.GetRoomType(context.Background(), id)
	require.NoError(t, err)
	return rt.RoomsAvailable
}
