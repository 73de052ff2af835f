package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/acad-scheduler/timetable-api/internal/models"
	appErrors "github.com/acad-scheduler/timetable-api/pkg/errors"
)

type timeSlotStore interface {
	FindByTriple(ctx context.Context, exec sqlx.ExtContext, day string, start, end models.TimeOfDay) (*models.TimeSlot, error)
	Create(ctx context.Context, exec sqlx.ExtContext, slot *models.TimeSlot) (bool, error)
}

// TimeSlotService canonicalizes (day, start, end) triples into persistent
// time slot identities. The same normalization runs on the write path and
// the read path, so differently formatted representations of one wall-clock
// period always land on one record.
type TimeSlotService struct {
	slots  timeSlotStore
	logger *zap.Logger
}

// NewTimeSlotService wires the canonicalizer.
func NewTimeSlotService(slots timeSlotStore, logger *zap.Logger) *TimeSlotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimeSlotService{slots: slots, logger: logger}
}

// NormalizeTriple reduces raw day/time strings to the canonical identity.
// Date prefixes, timezone suffixes, seconds and casing are all stripped
// before comparison; comparing raw timestamp strings is what this exists
// to prevent.
func NormalizeTriple(day, start, end string) (string, models.TimeOfDay, models.TimeOfDay, error) {
	canonicalDay, err := models.NormalizeDay(day)
	if err != nil {
		return "", models.TimeOfDay{}, models.TimeOfDay{}, err
	}
	startTime, err := models.ParseTimeOfDay(start)
	if err != nil {
		return "", models.TimeOfDay{}, models.TimeOfDay{}, fmt.Errorf("start time: %w", err)
	}
	endTime, err := models.ParseTimeOfDay(end)
	if err != nil {
		return "", models.TimeOfDay{}, models.TimeOfDay{}, fmt.Errorf("end time: %w", err)
	}
	if !startTime.Before(endTime) {
		return "", models.TimeOfDay{}, models.TimeOfDay{}, fmt.Errorf("start %s must precede end %s", startTime, endTime)
	}
	return canonicalDay, startTime, endTime, nil
}

// Resolve performs an exact-match lookup on the normalized triple.
// Returns (nil, nil) when no slot exists.
func (s *TimeSlotService) Resolve(ctx context.Context, exec sqlx.ExtContext, day, start, end string) (*models.TimeSlot, error) {
	canonicalDay, startTime, endTime, err := NormalizeTriple(day, start, end)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid time slot identity")
	}

	slot, err := s.slots.FindByTriple(ctx, exec, canonicalDay, startTime, endTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve time slot")
	}
	return slot, nil
}

// Canonicalize resolves the triple, creating the slot on first reference.
// A duplicate-insert race against a concurrent caller is benign: the insert
// is conflict-free, so it never aborts an enclosing transaction, and the
// winner's row is re-read when the insert is a no-op.
func (s *TimeSlotService) Canonicalize(ctx context.Context, exec sqlx.ExtContext, day, start, end string) (*models.TimeSlot, error) {
	slot, err := s.Resolve(ctx, exec, day, start, end)
	if err != nil || slot != nil {
		return slot, err
	}

	canonicalDay, startTime, endTime, err := NormalizeTriple(day, start, end)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid time slot identity")
	}

	created := &models.TimeSlot{DayOfWeek: canonicalDay, StartTime: startTime, EndTime: endTime}
	inserted, err := s.slots.Create(ctx, exec, created)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create time slot")
	}
	if !inserted {
		s.logger.Debug("time slot insert lost race, re-reading",
			zap.String("day", canonicalDay),
			zap.String("start", startTime.String()),
			zap.String("end", endTime.String()))
		existing, findErr := s.slots.FindByTriple(ctx, exec, canonicalDay, startTime, endTime)
		if findErr != nil {
			return nil, appErrors.Wrap(findErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to re-read time slot after lost race")
		}
		return existing, nil
	}
	return created, nil
}
