package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"hotel-backoffice/models"
)

// MemoryStore is an in-process Store. Transactions are serialized and run
// against a copy of the state that replaces the original only on success.
type MemoryStore struct {
	mu    *sync.Mutex
	state *memoryState
	inTx  bool
}

type memoryState struct {
	roomTypes     map[uint]models.RoomType
	rooms         map[uint]models.IndividualRoom
	bookings      map[uint]models.Booking
	modifications map[uint]models.BookingModification
	schedules     map[uint]models.MaintenanceSchedule
	logs          []models.MaintenanceLogEntry
	settings      map[string]models.Setting
	nextID        uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		mu: &sync.Mutex{},
		state: &memoryState{
			roomTypes:     map[uint]models.RoomType{},
			rooms:         map[uint]models.IndividualRoom{},
			bookings:      map[uint]models.Booking{},
			modifications: map[uint]models.BookingModification{},
			schedules:     map[uint]models.MaintenanceSchedule{},
			settings:      map[string]models.Setting{},
		},
	}
}

func (st *memoryState) clone() *memoryState {
	c := &memoryState{
		roomTypes:     make(map[uint]models.RoomType, len(st.roomTypes)),
		rooms:         make(map[uint]models.IndividualRoom, len(st.rooms)),
		bookings:      make(map[uint]models.Booking, len(st.bookings)),
		modifications: make(map[uint]models.BookingModification, len(st.modifications)),
		schedules:     make(map[uint]models.MaintenanceSchedule, len(st.schedules)),
		logs:          append([]models.MaintenanceLogEntry(nil), st.logs...),
		settings:      make(map[string]models.Setting, len(st.settings)),
		nextID:        st.nextID,
	}
	for k, v := range st.roomTypes {
		c.roomTypes[k] = v
	}
	for k, v := range st.rooms {
		c.rooms[k] = v
	}
	for k, v := range st.bookings {
		c.bookings[k] = v
	}
	for k, v := range st.modifications {
		c.modifications[k] = v
	}
	for k, v := range st.schedules {
		c.schedules[k] = v
	}
	for k, v := range st.settings {
		c.settings[k] = v
	}
	return c
}

func (s *MemoryStore) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *MemoryStore) id(current uint) uint {
	if current != 0 {
		if current > s.state.nextID {
			s.state.nextID = current
		}
		return current
	}
	s.state.nextID++
	return s.state.nextID
}

func (s *MemoryStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	unlock := s.lock()
	defer unlock()

	work := s.state.clone()
	tx := &MemoryStore{mu: s.mu, state: work, inTx: true}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	*s.state = *work
	return nil
}

// ---------------------------
// Room types
// ---------------------------

func (s *MemoryStore) GetRoomType(_ context.Context, id uint) (*models.RoomType, error) {
	defer s.lock()()
	rt, ok := s.state.roomTypes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &rt, nil
}

func (s *MemoryStore) GetRoomTypeForUpdate(ctx context.Context, id uint) (*models.RoomType, error) {
	return s.GetRoomType(ctx, id)
}

func (s *MemoryStore) ListRoomTypes(_ context.Context) ([]models.RoomType, error) {
	defer s.lock()()
	out := make([]models.RoomType, 0, len(s.state.roomTypes))
	for _, rt := range s.state.roomTypes {
		out = append(out, rt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) nameTaken(name string, id uint) bool {
	for _, other := range s.state.roomTypes {
		if other.ID != id && strings.EqualFold(other.Name, name) {
			return true
		}
	}
	return false
}

func (s *MemoryStore) CreateRoomType(_ context.Context, rt *models.RoomType) error {
	defer s.lock()()
	if s.nameTaken(rt.Name, rt.ID) {
		return ErrDuplicate
	}
	rt.ID = s.id(rt.ID)
	now := time.Now()
	rt.CreatedAt, rt.UpdatedAt = now, now
	s.state.roomTypes[rt.ID] = *rt
	return nil
}

func (s *MemoryStore) UpdateRoomType(_ context.Context, rt *models.RoomType) error {
	defer s.lock()()
	if _, ok := s.state.roomTypes[rt.ID]; !ok {
		return ErrNotFound
	}
	if s.nameTaken(rt.Name, rt.ID) {
		return ErrDuplicate
	}
	rt.UpdatedAt = time.Now()
	s.state.roomTypes[rt.ID] = *rt
	return nil
}

func (s *MemoryStore) AdjustRoomsAvailable(_ context.Context, id uint, delta int) error {
	defer s.lock()()
	rt, ok := s.state.roomTypes[id]
	if !ok {
		return ErrNotFound
	}
	rt.RoomsAvailable += delta
	s.state.roomTypes[id] = rt
	return nil
}

// ---------------------------
// Individual rooms
// ---------------------------

// PutIndividualRoom inserts or replaces a room. Rooms are managed outside
// the core, so this is only used for seeding.
func (s *MemoryStore) PutIndividualRoom(room *models.IndividualRoom) {
	defer s.lock()()
	room.ID = s.id(room.ID)
	s.state.rooms[room.ID] = *room
}

// PutBooking inserts or replaces a booking, for seeding.
func (s *MemoryStore) PutBooking(b *models.Booking) {
	defer s.lock()()
	b.ID = s.id(b.ID)
	s.state.bookings[b.ID] = *b
}

func (s *MemoryStore) GetIndividualRoom(_ context.Context, id uint) (*models.IndividualRoom, error) {
	defer s.lock()()
	room, ok := s.state.rooms[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &room, nil
}

func (s *MemoryStore) ListIndividualRooms(_ context.Context, roomTypeID uint) ([]models.IndividualRoom, error) {
	defer s.lock()()
	out := []models.IndividualRoom{}
	for _, room := range s.state.rooms {
		if roomTypeID != 0 && room.RoomTypeID != roomTypeID {
			continue
		}
		if rt, ok := s.state.roomTypes[room.RoomTypeID]; ok {
			room.RoomType = &rt
		}
		out = append(out, room)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomNumber < out[j].RoomNumber })
	return out, nil
}

func (s *MemoryStore) ListRoomIDsByStatus(_ context.Context, status models.RoomStatus) ([]uint, error) {
	defer s.lock()()
	var ids []uint
	for id, room := range s.state.rooms {
		if room.Status == status {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *MemoryStore) UpdateRoomStatus(_ context.Context, id uint, status models.RoomStatus) error {
	defer s.lock()()
	room, ok := s.state.rooms[id]
	if !ok {
		return ErrNotFound
	}
	room.Status = status
	room.UpdatedAt = time.Now()
	s.state.rooms[id] = room
	return nil
}

// ---------------------------
// Bookings
// ---------------------------

func (s *MemoryStore) GetBooking(_ context.Context, id uint) (*models.Booking, error) {
	defer s.lock()()
	b, ok := s.state.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	b.RoomType, b.IndividualRoom = nil, nil
	if rt, ok := s.state.roomTypes[b.RoomID]; ok {
		b.RoomType = &rt
	}
	if b.IndividualRoomID != nil {
		if room, ok := s.state.rooms[*b.IndividualRoomID]; ok {
			b.IndividualRoom = &room
		}
	}
	return &b, nil
}

func (s *MemoryStore) SaveBooking(_ context.Context, b *models.Booking) error {
	defer s.lock()()
	b.ID = s.id(b.ID)
	b.UpdatedAt = time.Now()
	stored := *b
	stored.RoomType, stored.IndividualRoom = nil, nil
	s.state.bookings[b.ID] = stored
	return nil
}

func (s *MemoryStore) CreateBookingModification(_ context.Context, m *models.BookingModification) error {
	defer s.lock()()
	m.ID = s.id(m.ID)
	m.CreatedAt = time.Now()
	s.state.modifications[m.ID] = *m
	return nil
}

func (s *MemoryStore) UpdateBookingModificationNotification(_ context.Context, id uint, status, errMsg string) error {
	defer s.lock()()
	m, ok := s.state.modifications[id]
	if !ok {
		return ErrNotFound
	}
	m.NotificationStatus, m.NotificationError = status, errMsg
	s.state.modifications[id] = m
	return nil
}

// BookingModifications returns the recorded edits of a booking, oldest first.
func (s *MemoryStore) BookingModifications(bookingID uint) []models.BookingModification {
	defer s.lock()()
	var out []models.BookingModification
	for _, m := range s.state.modifications {
		if m.BookingID == bookingID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ---------------------------
// Maintenance
// ---------------------------

func (s *MemoryStore) GetSchedule(_ context.Context, id uint) (*models.MaintenanceSchedule, error) {
	defer s.lock()()
	m, ok := s.state.schedules[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &m, nil
}

func (s *MemoryStore) ListSchedules(_ context.Context, roomID uint) ([]models.MaintenanceSchedule, error) {
	defer s.lock()()
	out := []models.MaintenanceSchedule{}
	for _, m := range s.state.schedules {
		if roomID == 0 || m.IndividualRoomID == roomID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	return out, nil
}

func (s *MemoryStore) CreateSchedule(_ context.Context, m *models.MaintenanceSchedule) error {
	defer s.lock()()
	m.ID = s.id(m.ID)
	now := time.Now()
	m.CreatedAt, m.UpdatedAt = now, now
	s.state.schedules[m.ID] = *m
	return nil
}

func (s *MemoryStore) UpdateSchedule(_ context.Context, m *models.MaintenanceSchedule) error {
	defer s.lock()()
	if _, ok := s.state.schedules[m.ID]; !ok {
		return ErrNotFound
	}
	m.UpdatedAt = time.Now()
	s.state.schedules[m.ID] = *m
	return nil
}

func (s *MemoryStore) DeleteSchedule(_ context.Context, id uint) error {
	defer s.lock()()
	if _, ok := s.state.schedules[id]; !ok {
		return ErrNotFound
	}
	delete(s.state.schedules, id)
	return nil
}

func (s *MemoryStore) FindOverlappingBlocks(_ context.Context, roomID uint, start, end time.Time, excludeID uint) ([]models.MaintenanceSchedule, error) {
	defer s.lock()()
	var out []models.MaintenanceSchedule
	for _, m := range s.state.schedules {
		if m.IndividualRoomID != roomID || m.ID == excludeID {
			continue
		}
		if m.BlockRoom && m.Status.Active() && m.Overlaps(start, end) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *MemoryStore) HasActiveBlock(_ context.Context, roomID uint, at time.Time) (bool, error) {
	defer s.lock()()
	for _, m := range s.state.schedules {
		if m.IndividualRoomID == roomID && m.Blocks(at) {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) ListActiveBlockRoomIDs(_ context.Context, at time.Time) ([]uint, error) {
	defer s.lock()()
	seen := map[uint]bool{}
	var ids []uint
	for _, m := range s.state.schedules {
		if m.Blocks(at) && !seen[m.IndividualRoomID] {
			seen[m.IndividualRoomID] = true
			ids = append(ids, m.IndividualRoomID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *MemoryStore) AppendMaintenanceLog(_ context.Context, e *models.MaintenanceLogEntry) error {
	defer s.lock()()
	e.ID = s.id(e.ID)
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	s.state.logs = append(s.state.logs, *e)
	return nil
}

func (s *MemoryStore) ListMaintenanceLog(_ context.Context, roomID uint, limit int) ([]models.MaintenanceLogEntry, error) {
	defer s.lock()()
	out := []models.MaintenanceLogEntry{}
	for i := len(s.state.logs) - 1; i >= 0; i-- {
		e := s.state.logs[i]
		if roomID != 0 && e.IndividualRoomID != roomID {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// ---------------------------
// Settings
// ---------------------------

func (s *MemoryStore) GetSetting(_ context.Context, key string) (*models.Setting, error) {
	defer s.lock()()
	st, ok := s.state.settings[key]
	if !ok {
		return nil, ErrNotFound
	}
	return &st, nil
}

func (s *MemoryStore) ListSettings(_ context.Context) ([]models.Setting, error) {
	defer s.lock()()
	out := make([]models.Setting, 0, len(s.state.settings))
	for _, st := range s.state.settings {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *MemoryStore) PutSetting(_ context.Context, key, value string) error {
	defer s.lock()()
	s.state.settings[key] = models.Setting{Key: key, Value: value, UpdatedAt: time.Now()}
	return nil
}

var _ Store = (*MemoryStore)(nil)
