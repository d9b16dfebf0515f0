package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hotel-backoffice/models"
	"hotel-backoffice/repository"

	"go.uber.org/zap"
)

// ScheduleInput is the admin form for a maintenance schedule. Dates accept
// RFC 3339, "YYYY-MM-DDTHH:MM", "YYYY-MM-DD HH:MM:SS" or a bare date.
type ScheduleInput struct {
	IndividualRoomID uint                     `json:"individual_room_id" binding:"required"`
	Title            string                   `json:"title"`
	Description      string                   `json:"description"`
	Status           models.MaintenanceStatus `json:"status"`
	BlockRoom        *bool                    `json:"block_room"`
	StartDate        string                   `json:"start_date" binding:"required"`
	EndDate          string                   `json:"end_date" binding:"required"`
	AssignedTo       *uint                    `json:"assigned_to"`
}

var scheduleTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	dateLayout,
}

func parseScheduleTime(field, v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range scheduleTimeLayouts {
		if t, err := time.ParseInLocation(layout, v, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, validationErr("invalid %s %q", field, v)
}

// MaintenanceService manages maintenance schedules. Every write runs in one
// transaction together with the resulting room status change.
type MaintenanceService struct {
	store  repository.Store
	status *RoomStatusService
	logger *zap.Logger
}

func NewMaintenanceService(store repository.Store, status *RoomStatusService, logger *zap.Logger) *MaintenanceService {
	return &MaintenanceService{store: store, status: status, logger: logger}
}

// apply copies the form onto m. An omitted status or block_room keeps what m
// already holds, so Create seeds the defaults and Update keeps stored values.
func (s *MaintenanceService) apply(in ScheduleInput, m *models.MaintenanceSchedule) error {
	if in.IndividualRoomID == 0 {
		return validationErr("a room is required")
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = "Maintenance"
	}
	status := in.Status
	if status == "" {
		status = m.Status
	}
	if !status.Valid() {
		return validationErr("unknown maintenance status %q", status)
	}
	start, err := parseScheduleTime("start date", in.StartDate)
	if err != nil {
		return err
	}
	end, err := parseScheduleTime("end date", in.EndDate)
	if err != nil {
		return err
	}
	if !end.After(start) {
		return validationErr("end date must be after start date")
	}

	m.IndividualRoomID = in.IndividualRoomID
	m.Title = title
	m.Description = strings.TrimSpace(in.Description)
	m.Status = status
	if in.BlockRoom != nil {
		m.BlockRoom = *in.BlockRoom
	}
	m.StartDate = start
	m.EndDate = end
	m.AssignedTo = in.AssignedTo
	return nil
}

func (s *MaintenanceService) checkOverlap(ctx context.Context, tx repository.Store, m *models.MaintenanceSchedule) error {
	if !m.BlockRoom || !m.Status.Active() {
		return nil
	}
	clashes, err := tx.FindOverlappingBlocks(ctx, m.IndividualRoomID, m.StartDate, m.EndDate, m.ID)
	if err != nil {
		return dbErr("check overlapping schedules", err)
	}
	if len(clashes) > 0 {
		c := clashes[0]
		return &kindError{
			kind: ErrScheduleOverlap,
			msg: fmt.Sprintf("room already has blocking maintenance #%d from %s to %s",
				c.ID, c.StartDate.Format("2006-01-02 15:04"), c.EndDate.Format("2006-01-02 15:04")),
		}
	}
	return nil
}

func (s *MaintenanceService) Create(ctx context.Context, in ScheduleInput, actor *uint) (*models.MaintenanceSchedule, error) {
	m := &models.MaintenanceSchedule{Status: models.MaintenancePlanned, BlockRoom: true, CreatedBy: actor}
	if err := s.apply(in, m); err != nil {
		return nil, err
	}

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.GetIndividualRoom(ctx, m.IndividualRoomID); err != nil {
			return dbErr(fmt.Sprintf("room %d", m.IndividualRoomID), err)
		}
		if err := s.checkOverlap(ctx, tx, m); err != nil {
			return err
		}
		if err := tx.CreateSchedule(ctx, m); err != nil {
			return dbErr("create maintenance schedule", err)
		}
		_, err := s.status.syncFromMaintenance(ctx, tx, m.IndividualRoomID,
			fmt.Sprintf("Maintenance #%d created", m.ID), actor, &m.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MaintenanceService) Update(ctx context.Context, id uint, in ScheduleInput, actor *uint) (*models.MaintenanceSchedule, error) {
	var out *models.MaintenanceSchedule
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		m, err := tx.GetSchedule(ctx, id)
		if err != nil {
			return dbErr(fmt.Sprintf("maintenance schedule %d", id), err)
		}
		previousRoom := m.IndividualRoomID
		if err := s.apply(in, m); err != nil {
			return err
		}
		if _, err := tx.GetIndividualRoom(ctx, m.IndividualRoomID); err != nil {
			return dbErr(fmt.Sprintf("room %d", m.IndividualRoomID), err)
		}
		if err := s.checkOverlap(ctx, tx, m); err != nil {
			return err
		}
		if err := tx.UpdateSchedule(ctx, m); err != nil {
			return dbErr("update maintenance schedule", err)
		}

		trigger := fmt.Sprintf("Maintenance #%d updated", m.ID)
		if previousRoom != m.IndividualRoomID {
			if _, err := s.status.syncFromMaintenance(ctx, tx, previousRoom, trigger, actor, &m.ID); err != nil {
				return err
			}
		}
		if _, err := s.status.syncFromMaintenance(ctx, tx, m.IndividualRoomID, trigger, actor, &m.ID); err != nil {
			return err
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MaintenanceService) Delete(ctx context.Context, id uint, actor *uint) error {
	return s.store.Transaction(ctx, func(tx repository.Store) error {
		m, err := tx.GetSchedule(ctx, id)
		if err != nil {
			return dbErr(fmt.Sprintf("maintenance schedule %d", id), err)
		}
		if err := tx.DeleteSchedule(ctx, id); err != nil {
			return dbErr("delete maintenance schedule", err)
		}
		_, err = s.status.syncFromMaintenance(ctx, tx, m.IndividualRoomID,
			fmt.Sprintf("Maintenance #%d deleted", id), actor, nil)
		return err
	})
}

// List reconciles room statuses first so the screen never shows a room
// stuck in maintenance after its block ended. Reconciliation errors are
// logged, not returned.
func (s *MaintenanceService) List(ctx context.Context, roomID uint, actor *uint) ([]models.MaintenanceSchedule, error) {
	if _, err := s.status.ReconcileMaintenanceStatuses(ctx, actor); err != nil {
		s.logger.Warn("maintenance reconciliation failed", zap.Error(err))
	}
	list, err := s.store.ListSchedules(ctx, roomID)
	if err != nil {
		return nil, dbErr("list maintenance schedules", err)
	}
	return list, nil
}

func (s *MaintenanceService) Log(ctx context.Context, roomID uint, limit int) ([]models.MaintenanceLogEntry, error) {
	entries, err := s.store.ListMaintenanceLog(ctx, roomID, limit)
	if err != nil {
		return nil, dbErr("list maintenance log", err)
	}
	return entries, nil
}
