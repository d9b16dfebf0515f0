package repository

import (
	"context"
	"errors"
	"time"

	"hotel-backoffice/models"
)

var (
	// ErrNotFound is returned when a looked-up row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a unique key.
	ErrDuplicate = errors.New("duplicate key")
)

type RoomTypeRepository interface {
	GetRoomType(ctx context.Context, id uint) (*models.RoomType, error)
	// GetRoomTypeForUpdate reads the row under a write lock when the store
	// supports it. Only meaningful inside Transaction.
	GetRoomTypeForUpdate(ctx context.Context, id uint) (*models.RoomType, error)
	ListRoomTypes(ctx context.Context) ([]models.RoomType, error)
	CreateRoomType(ctx context.Context, rt *models.RoomType) error
	UpdateRoomType(ctx context.Context, rt *models.RoomType) error
	AdjustRoomsAvailable(ctx context.Context, id uint, delta int) error
}

type RoomRepository interface {
	GetIndividualRoom(ctx context.Context, id uint) (*models.IndividualRoom, error)
	// ListIndividualRooms lists rooms of one room type, or all rooms when
	// roomTypeID is 0.
	ListIndividualRooms(ctx context.Context, roomTypeID uint) ([]models.IndividualRoom, error)
	ListRoomIDsByStatus(ctx context.Context, status models.RoomStatus) ([]uint, error)
	UpdateRoomStatus(ctx context.Context, id uint, status models.RoomStatus) error
}

type BookingRepository interface {
	GetBooking(ctx context.Context, id uint) (*models.Booking, error)
	SaveBooking(ctx context.Context, b *models.Booking) error
	CreateBookingModification(ctx context.Context, m *models.BookingModification) error
	UpdateBookingModificationNotification(ctx context.Context, id uint, status, errMsg string) error
}

type MaintenanceRepository interface {
	GetSchedule(ctx context.Context, id uint) (*models.MaintenanceSchedule, error)
	// ListSchedules lists the schedules of one room, or of all rooms when
	// roomID is 0, most recent start first.
	ListSchedules(ctx context.Context, roomID uint) ([]models.MaintenanceSchedule, error)
	CreateSchedule(ctx context.Context, s *models.MaintenanceSchedule) error
	UpdateSchedule(ctx context.Context, s *models.MaintenanceSchedule) error
	DeleteSchedule(ctx context.Context, id uint) error

	// FindOverlappingBlocks returns active blocking schedules of roomID whose
	// interval intersects [start, end), ignoring excludeID.
	FindOverlappingBlocks(ctx context.Context, roomID uint, start, end time.Time, excludeID uint) ([]models.MaintenanceSchedule, error)
	HasActiveBlock(ctx context.Context, roomID uint, at time.Time) (bool, error)
	ListActiveBlockRoomIDs(ctx context.Context, at time.Time) ([]uint, error)

	AppendMaintenanceLog(ctx context.Context, e *models.MaintenanceLogEntry) error
	ListMaintenanceLog(ctx context.Context, roomID uint, limit int) ([]models.MaintenanceLogEntry, error)
}

type SettingRepository interface {
	GetSetting(ctx context.Context, key string) (*models.Setting, error)
	ListSettings(ctx context.Context) ([]models.Setting, error)
	PutSetting(ctx context.Context, key, value string) error
}

// Store is the persistence port used by the services.
type Store interface {
	RoomTypeRepository
	RoomRepository
	BookingRepository
	MaintenanceRepository
	SettingRepository

	// Transaction runs fn as one unit of work. fn receives a Store bound to
	// the transaction; returning an error rolls everything back.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

func activeMaintenanceStatuses() []models.MaintenanceStatus {
	return []models.MaintenanceStatus{models.MaintenancePlanned, models.MaintenanceInProgress}
}
