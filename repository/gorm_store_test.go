package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotel-backoffice/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockStore(t *testing.T) (sqlmock.Sqlmock, *GormStore) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return mock, NewGormStore(gdb)
}

func TestGormStore_GetRoomType_NotFound(t *testing.T) {
	mock, store := setupMockStore(t)

	mock.ExpectQuery("SELECT \\* FROM `rooms`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	rt, err := store.GetRoomType(context.Background(), 42)

	assert.Nil(t, rt)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_GetRoomType_Success(t *testing.T) {
	mock, store := setupMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "name", "max_guests", "price_per_night", "price_triple", "total_rooms", "rooms_available"}).
		AddRow(5, "Deluxe", 3, "150.00", nil, 4, 2)
	mock.ExpectQuery("SELECT \\* FROM `rooms`").WillReturnRows(rows)

	rt, err := store.GetRoomType(context.Background(), 5)

	require.NoError(t, err)
	assert.Equal(t, uint(5), rt.ID)
	assert.Equal(t, "Deluxe", rt.Name)
	assert.Equal(t, "150", rt.PricePerNight.String())
	assert.False(t, rt.PriceTriple.Valid)
	assert.Equal(t, 2, rt.RoomsAvailable)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_AdjustRoomsAvailable(t *testing.T) {
	mock, store := setupMockStore(t)

	mock.ExpectExec("UPDATE `rooms` SET `rooms_available`=rooms_available \\+ \\?").
		WithArgs(-1, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.AdjustRoomsAvailable(context.Background(), 5, -1))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_AdjustRoomsAvailable_MissingRoomType(t *testing.T) {
	mock, store := setupMockStore(t)

	mock.ExpectExec("UPDATE `rooms`").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.AdjustRoomsAvailable(context.Background(), 99, 1)

	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_CreateRoomType_Duplicate(t *testing.T) {
	mock, store := setupMockStore(t)

	mock.ExpectExec("INSERT INTO `rooms`").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'Deluxe' for key 'idx_rooms_name'"})

	err := store.CreateRoomType(context.Background(), &models.RoomType{Name: "Deluxe", MaxGuests: 2})

	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Contains(t, err.Error(), "Duplicate entry")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_CreateRoomType_OtherErrorPassesThrough(t *testing.T) {
	mock, store := setupMockStore(t)

	boom := errors.New("connection reset")
	mock.ExpectExec("INSERT INTO `rooms`").WillReturnError(boom)

	err := store.CreateRoomType(context.Background(), &models.RoomType{Name: "Deluxe"})

	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_UpdateRoomStatus_MissingRoom(t *testing.T) {
	mock, store := setupMockStore(t)

	mock.ExpectExec("UPDATE `individual_rooms` SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.UpdateRoomStatus(context.Background(), 7, models.RoomCleaning)

	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_HasActiveBlock(t *testing.T) {
	mock, store := setupMockStore(t)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `room_maintenance_schedules`").
		WithArgs(true, models.MaintenancePlanned, models.MaintenanceInProgress, 3, at, at).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

	blocked, err := store.HasActiveBlock(context.Background(), 3, at)

	require.NoError(t, err)
	assert.True(t, blocked)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_ListActiveBlockRoomIDs(t *testing.T) {
	mock, store := setupMockStore(t)

	mock.ExpectQuery("SELECT DISTINCT `individual_room_id` FROM `room_maintenance_schedules`").
		WillReturnRows(sqlmock.NewRows([]string{"individual_room_id"}).AddRow(3).AddRow(8))

	ids, err := store.ListActiveBlockRoomIDs(context.Background(), time.Now())

	require.NoError(t, err)
	assert.Equal(t, []uint{3, 8}, ids)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_PutSetting_Upserts(t *testing.T) {
	mock, store := setupMockStore(t)

	mock.ExpectExec("INSERT INTO `site_settings`.*ON DUPLICATE KEY UPDATE").
		WithArgs(models.SettingVATRate, "7.5", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.PutSetting(context.Background(), models.SettingVATRate, "7.5"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_TransactionRollsBackOnError(t *testing.T) {
	mock, store := setupMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `rooms`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	failure := errors.New("target room type is full")
	err := store.Transaction(context.Background(), func(tx Store) error {
		if err := tx.AdjustRoomsAvailable(context.Background(), 5, 1); err != nil {
			return err
		}
		return failure
	})

	assert.ErrorIs(t, err, failure)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_AppendMaintenanceLog_FailureKeepsTransaction(t *testing.T) {
	mock, store := setupMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `individual_rooms` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("^SAVEPOINT").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO `room_maintenance_log`").
		WillReturnError(&mysql.MySQLError{Number: 1146, Message: "Table 'room_maintenance_log' doesn't exist"})
	mock.ExpectExec("ROLLBACK TO SAVEPOINT").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	var logErr error
	err := store.Transaction(context.Background(), func(tx Store) error {
		if err := tx.UpdateRoomStatus(context.Background(), 3, models.RoomMaintenance); err != nil {
			return err
		}
		logErr = tx.AppendMaintenanceLog(context.Background(), &models.MaintenanceLogEntry{
			IndividualRoomID: 3,
			StatusFrom:       models.RoomAvailable,
			StatusTo:         models.RoomMaintenance,
			Reason:           "Maintenance #1 created",
			CreatedAt:        time.Now(),
		})
		return nil
	})

	require.NoError(t, err)
	assert.Error(t, logErr)
	require.NoError(t, mock.ExpectationsWereMet())
}
