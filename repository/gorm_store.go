package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotel-backoffice/models"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements Store on a relational database through GORM.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// duplicate maps unique-key violations (MySQL 1062, or whatever the
// dialector translates to gorm.ErrDuplicatedKey) to ErrDuplicate.
func duplicate(err error) error {
	if err == nil {
		return nil
	}
	var merr *mysql.MySQLError
	if errors.As(err, &merr) && merr.Number == 1062 {
		return fmt.Errorf("%w: %s", ErrDuplicate, merr.Message)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

// ---------------------------
// Room types
// ---------------------------

func (s *GormStore) GetRoomType(ctx context.Context, id uint) (*models.RoomType, error) {
	var rt models.RoomType
	if err := s.db.WithContext(ctx).First(&rt, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &rt, nil
}

func (s *GormStore) GetRoomTypeForUpdate(ctx context.Context, id uint) (*models.RoomType, error) {
	var rt models.RoomType
	if err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&rt, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &rt, nil
}

func (s *GormStore) ListRoomTypes(ctx context.Context) ([]models.RoomType, error) {
	var list []models.RoomType
	if err := s.db.WithContext(ctx).Order("id").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list room types: %w", err)
	}
	return list, nil
}

func (s *GormStore) CreateRoomType(ctx context.Context, rt *models.RoomType) error {
	return duplicate(s.db.WithContext(ctx).Create(rt).Error)
}

func (s *GormStore) UpdateRoomType(ctx context.Context, rt *models.RoomType) error {
	return duplicate(s.db.WithContext(ctx).Omit(clause.Associations).Save(rt).Error)
}

func (s *GormStore) AdjustRoomsAvailable(ctx context.Context, id uint, delta int) error {
	res := s.db.WithContext(ctx).
		Model(&models.RoomType{}).
		Where("id = ?", id).
		UpdateColumn("rooms_available", gorm.Expr("rooms_available + ?", delta))
	if res.Error != nil {
		return fmt.Errorf("adjust rooms_available for room type %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ---------------------------
// Individual rooms
// ---------------------------

func (s *GormStore) GetIndividualRoom(ctx context.Context, id uint) (*models.IndividualRoom, error) {
	var room models.IndividualRoom
	if err := s.db.WithContext(ctx).First(&room, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &room, nil
}

func (s *GormStore) ListIndividualRooms(ctx context.Context, roomTypeID uint) ([]models.IndividualRoom, error) {
	q := s.db.WithContext(ctx).Preload("RoomType").Order("room_number")
	if roomTypeID != 0 {
		q = q.Where("room_type_id = ?", roomTypeID)
	}
	var rooms []models.IndividualRoom
	if err := q.Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("list individual rooms: %w", err)
	}
	return rooms, nil
}

func (s *GormStore) ListRoomIDsByStatus(ctx context.Context, status models.RoomStatus) ([]uint, error) {
	var ids []uint
	if err := s.db.WithContext(ctx).
		Model(&models.IndividualRoom{}).
		Where("status = ?", status).
		Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list rooms in status %s: %w", status, err)
	}
	return ids, nil
}

func (s *GormStore) UpdateRoomStatus(ctx context.Context, id uint, status models.RoomStatus) error {
	res := s.db.WithContext(ctx).
		Model(&models.IndividualRoom{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("update status of room %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ---------------------------
// Bookings
// ---------------------------

func (s *GormStore) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	var b models.Booking
	if err := s.db.WithContext(ctx).
		Preload("RoomType").
		Preload("IndividualRoom").
		First(&b, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (s *GormStore) SaveBooking(ctx context.Context, b *models.Booking) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(b).Error; err != nil {
		return fmt.Errorf("save booking %d: %w", b.ID, err)
	}
	return nil
}

func (s *GormStore) CreateBookingModification(ctx context.Context, m *models.BookingModification) error {
	return s.db.WithContext(ctx).Create(m).Error
}

func (s *GormStore) UpdateBookingModificationNotification(ctx context.Context, id uint, status, errMsg string) error {
	return s.db.WithContext(ctx).
		Model(&models.BookingModification{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"notification_status": status,
			"notification_error":  errMsg,
		}).Error
}

// ---------------------------
// Maintenance
// ---------------------------

func (s *GormStore) GetSchedule(ctx context.Context, id uint) (*models.MaintenanceSchedule, error) {
	var m models.MaintenanceSchedule
	if err := s.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

func (s *GormStore) ListSchedules(ctx context.Context, roomID uint) ([]models.MaintenanceSchedule, error) {
	q := s.db.WithContext(ctx).Order("start_date DESC")
	if roomID != 0 {
		q = q.Where("individual_room_id = ?", roomID)
	}
	var list []models.MaintenanceSchedule
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list maintenance schedules: %w", err)
	}
	return list, nil
}

func (s *GormStore) CreateSchedule(ctx context.Context, m *models.MaintenanceSchedule) error {
	return s.db.WithContext(ctx).Create(m).Error
}

func (s *GormStore) UpdateSchedule(ctx context.Context, m *models.MaintenanceSchedule) error {
	return s.db.WithContext(ctx).Save(m).Error
}

func (s *GormStore) DeleteSchedule(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.MaintenanceSchedule{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete maintenance schedule %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) activeBlocks(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&models.MaintenanceSchedule{}).
		Where("block_room = ? AND status IN ?", true, activeMaintenanceStatuses())
}

func (s *GormStore) FindOverlappingBlocks(ctx context.Context, roomID uint, start, end time.Time, excludeID uint) ([]models.MaintenanceSchedule, error) {
	q := s.activeBlocks(ctx).
		Where("individual_room_id = ?", roomID).
		Where("start_date < ? AND end_date > ?", end, start)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var list []models.MaintenanceSchedule
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("find overlapping blocks for room %d: %w", roomID, err)
	}
	return list, nil
}

func (s *GormStore) HasActiveBlock(ctx context.Context, roomID uint, at time.Time) (bool, error) {
	var n int64
	if err := s.activeBlocks(ctx).
		Where("individual_room_id = ?", roomID).
		Where("start_date <= ? AND end_date > ?", at, at).
		Count(&n).Error; err != nil {
		return false, fmt.Errorf("check active block for room %d: %w", roomID, err)
	}
	return n > 0, nil
}

func (s *GormStore) ListActiveBlockRoomIDs(ctx context.Context, at time.Time) ([]uint, error) {
	var ids []uint
	if err := s.activeBlocks(ctx).
		Where("start_date <= ? AND end_date > ?", at, at).
		Distinct("individual_room_id").
		Pluck("individual_room_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list actively blocked rooms: %w", err)
	}
	return ids, nil
}

// AppendMaintenanceLog inserts inside a nested transaction so that a failed
// insert (missing audit table) rolls back to a savepoint and leaves the
// enclosing transaction usable.
func (s *GormStore) AppendMaintenanceLog(ctx context.Context, e *models.MaintenanceLogEntry) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(e).Error
	})
}

func (s *GormStore) ListMaintenanceLog(ctx context.Context, roomID uint, limit int) ([]models.MaintenanceLogEntry, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if roomID != 0 {
		q = q.Where("individual_room_id = ?", roomID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var list []models.MaintenanceLogEntry
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list maintenance log: %w", err)
	}
	return list, nil
}

// ---------------------------
// Settings
// ---------------------------

func (s *GormStore) GetSetting(ctx context.Context, key string) (*models.Setting, error) {
	var st models.Setting
	if err := s.db.WithContext(ctx).Where("setting_key = ?", key).First(&st).Error; err != nil {
		return nil, notFound(err)
	}
	return &st, nil
}

func (s *GormStore) ListSettings(ctx context.Context) ([]models.Setting, error) {
	var list []models.Setting
	if err := s.db.WithContext(ctx).Order("setting_key").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	return list, nil
}

func (s *GormStore) PutSetting(ctx context.Context, key, value string) error {
	st := models.Setting{Key: key, Value: value, UpdatedAt: time.Now()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"setting_value", "updated_at"}),
	}).Create(&st).Error
}

var _ Store = (*GormStore)(nil)
