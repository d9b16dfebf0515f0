package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotel-backoffice/models"
	"hotel-backoffice/repository"

	"go.uber.org/zap"
)

// housekeepingTransitions lists the manual status changes allowed from each
// room status. out_of_order is only ever cleared by hand.
var housekeepingTransitions = map[models.RoomStatus][]models.RoomStatus{
	models.RoomAvailable:   {models.RoomOccupied, models.RoomCleaning, models.RoomMaintenance, models.RoomOutOfOrder},
	models.RoomOccupied:    {models.RoomCleaning, models.RoomOutOfOrder},
	models.RoomCleaning:    {models.RoomInspection, models.RoomMaintenance, models.RoomOutOfOrder},
	models.RoomInspection:  {models.RoomAvailable, models.RoomCleaning, models.RoomMaintenance, models.RoomOutOfOrder},
	models.RoomMaintenance: {models.RoomAvailable, models.RoomCleaning, models.RoomOutOfOrder},
	models.RoomOutOfOrder:  {models.RoomAvailable, models.RoomCleaning, models.RoomMaintenance},
}

// CanTransition reports whether a manual change from -> to is allowed.
func CanTransition(from, to models.RoomStatus) bool {
	for _, s := range housekeepingTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// RoomStatusService keeps individual room statuses consistent with
// maintenance schedules, housekeeping actions and booking check-in/out.
type RoomStatusService struct {
	store  repository.Store
	now    func() time.Time
	logger *zap.Logger
}

func NewRoomStatusService(store repository.Store, logger *zap.Logger) *RoomStatusService {
	return &RoomStatusService{store: store, now: time.Now, logger: logger}
}

// WithClock replaces the time source.
func (s *RoomStatusService) WithClock(now func() time.Time) *RoomStatusService {
	s.now = now
	return s
}

type statusChange struct {
	to         models.RoomStatus
	reason     string
	actor      *uint
	scheduleID *uint
}

// transition writes the new status and appends an audit entry. A failed
// audit write is logged and does not undo the status change.
func (s *RoomStatusService) transition(ctx context.Context, tx repository.Store, room *models.IndividualRoom, c statusChange) error {
	if room.Status == c.to {
		return nil
	}
	if err := tx.UpdateRoomStatus(ctx, room.ID, c.to); err != nil {
		return dbErr(fmt.Sprintf("update status of room %d", room.ID), err)
	}

	entry := &models.MaintenanceLogEntry{
		IndividualRoomID: room.ID,
		ScheduleID:       c.scheduleID,
		StatusFrom:       room.Status,
		StatusTo:         c.to,
		Reason:           c.reason,
		PerformedBy:      c.actor,
		CreatedAt:        s.now(),
	}
	if err := tx.AppendMaintenanceLog(ctx, entry); err != nil {
		s.logger.Warn("maintenance log write failed; keeping status change",
			zap.Uint("room_id", room.ID),
			zap.String("from", string(room.Status)),
			zap.String("to", string(c.to)),
			zap.Error(err),
		)
	}

	s.logger.Info("room status changed",
		zap.Uint("room_id", room.ID),
		zap.String("from", string(room.Status)),
		zap.String("to", string(c.to)),
		zap.String("reason", c.reason),
	)
	room.Status = c.to
	return nil
}

// syncFromMaintenance applies the block rule to one room inside tx: an
// active block forces maintenance unless the room is occupied or out of
// order; no active block releases a room held in maintenance.
func (s *RoomStatusService) syncFromMaintenance(ctx context.Context, tx repository.Store, roomID uint, trigger string, actor, scheduleID *uint) (bool, error) {
	room, err := tx.GetIndividualRoom(ctx, roomID)
	if err != nil {
		return false, dbErr(fmt.Sprintf("room %d", roomID), err)
	}
	blocked, err := tx.HasActiveBlock(ctx, roomID, s.now())
	if err != nil {
		return false, dbErr("check maintenance blocks", err)
	}

	before := room.Status
	switch {
	case blocked && before != models.RoomOccupied && before != models.RoomOutOfOrder && before != models.RoomMaintenance:
		err = s.transition(ctx, tx, room, statusChange{
			to:         models.RoomMaintenance,
			reason:     trigger + ": active maintenance block",
			actor:      actor,
			scheduleID: scheduleID,
		})
	case !blocked && before == models.RoomMaintenance:
		err = s.transition(ctx, tx, room, statusChange{
			to:         models.RoomAvailable,
			reason:     trigger + ": no active maintenance block",
			actor:      actor,
			scheduleID: scheduleID,
		})
	}
	if err != nil {
		return false, err
	}
	return room.Status != before, nil
}

// SyncRoomStatusFromMaintenance re-derives one room's status from its
// maintenance schedules and returns the resulting status.
func (s *RoomStatusService) SyncRoomStatusFromMaintenance(ctx context.Context, roomID uint, actor *uint) (models.RoomStatus, error) {
	var status models.RoomStatus
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := s.syncFromMaintenance(ctx, tx, roomID, "Status sync", actor, nil); err != nil {
			return err
		}
		room, err := tx.GetIndividualRoom(ctx, roomID)
		if err != nil {
			return dbErr(fmt.Sprintf("room %d", roomID), err)
		}
		status = room.Status
		return nil
	})
	return status, err
}

type ReconcileSummary struct {
	Checked int    `json:"checked"`
	Changed []uint `json:"changed"`
}

// ReconcileMaintenanceStatuses re-runs the block rule for every room that
// has an active block or currently sits in maintenance, healing rooms left
// in maintenance after their schedule expired or was cancelled. Each room
// is its own transaction; failures are collected and returned together.
func (s *RoomStatusService) ReconcileMaintenanceStatuses(ctx context.Context, actor *uint) (ReconcileSummary, error) {
	summary := ReconcileSummary{Changed: []uint{}}

	blocked, err := s.store.ListActiveBlockRoomIDs(ctx, s.now())
	if err != nil {
		return summary, dbErr("list blocked rooms", err)
	}
	inMaintenance, err := s.store.ListRoomIDsByStatus(ctx, models.RoomMaintenance)
	if err != nil {
		return summary, dbErr("list rooms in maintenance", err)
	}

	seen := map[uint]bool{}
	var ids []uint
	for _, id := range append(blocked, inMaintenance...) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	var errs []error
	for _, id := range ids {
		var changed bool
		err := s.store.Transaction(ctx, func(tx repository.Store) error {
			var err error
			changed, err = s.syncFromMaintenance(ctx, tx, id, "Reconciliation", actor, nil)
			return err
		})
		summary.Checked++
		if err != nil {
			errs = append(errs, fmt.Errorf("room %d: %w", id, err))
			continue
		}
		if changed {
			summary.Changed = append(summary.Changed, id)
		}
	}
	if len(summary.Changed) > 0 {
		s.logger.Info("maintenance reconciliation changed rooms",
			zap.Int("checked", summary.Checked),
			zap.Uints("changed", summary.Changed),
		)
	}
	return summary, errors.Join(errs...)
}

// UpdateRoomStatus applies a housekeeping action. Asking for available
// while a maintenance block is active lands the room in maintenance.
func (s *RoomStatusService) UpdateRoomStatus(ctx context.Context, roomID uint, to models.RoomStatus, reason string, actor *uint) (*models.IndividualRoom, error) {
	if !to.Valid() {
		return nil, validationErr("unknown room status %q", to)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "Housekeeping update"
	}

	var out *models.IndividualRoom
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		room, err := tx.GetIndividualRoom(ctx, roomID)
		if err != nil {
			return dbErr(fmt.Sprintf("room %d", roomID), err)
		}
		out = room
		if room.Status == to {
			return nil
		}
		if !CanTransition(room.Status, to) {
			return validationErr("room %s cannot move from %s to %s", room.RoomNumber, room.Status, to)
		}

		target := to
		if to == models.RoomAvailable {
			blocked, err := tx.HasActiveBlock(ctx, roomID, s.now())
			if err != nil {
				return dbErr("check maintenance blocks", err)
			}
			if blocked {
				target = models.RoomMaintenance
				reason += " (active maintenance block)"
			}
		}
		return s.transition(ctx, tx, room, statusChange{to: target, reason: reason, actor: actor})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// applyBookingLifecycle moves the booked room when a booking is checked in
// or out. Runs inside the booking edit transaction.
func (s *RoomStatusService) applyBookingLifecycle(ctx context.Context, tx repository.Store, before, after *models.Booking, actor *uint) error {
	reason := fmt.Sprintf("Booking %s", after.BookingReference)

	roomMoved := !sameRoom(before.IndividualRoomID, after.IndividualRoomID)
	if before.Status == models.BookingCheckedIn && before.IndividualRoomID != nil &&
		(roomMoved || after.Status != models.BookingCheckedIn) {
		old, err := tx.GetIndividualRoom(ctx, *before.IndividualRoomID)
		if err != nil {
			return dbErr(fmt.Sprintf("room %d", *before.IndividualRoomID), err)
		}
		if old.Status == models.RoomOccupied {
			if err := s.transition(ctx, tx, old, statusChange{to: models.RoomCleaning, reason: reason + " vacated the room", actor: actor}); err != nil {
				return err
			}
		}
	}

	if after.Status == models.BookingCheckedIn && after.IndividualRoomID != nil &&
		(roomMoved || before.Status != models.BookingCheckedIn) {
		room, err := tx.GetIndividualRoom(ctx, *after.IndividualRoomID)
		if err != nil {
			return dbErr(fmt.Sprintf("room %d", *after.IndividualRoomID), err)
		}
		if room.Status == models.RoomMaintenance || room.Status == models.RoomOutOfOrder {
			return validationErr("room %s is %s and cannot be checked into", room.RoomNumber, room.Status)
		}
		return s.transition(ctx, tx, room, statusChange{to: models.RoomOccupied, reason: reason + " checked in", actor: actor})
	}
	return nil
}

func sameRoom(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
