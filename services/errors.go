package services

import (
	"errors"
	"fmt"

	"hotel-backoffice/repository"
)

// Error kinds. Callers match them with errors.Is; messages carry detail.
var (
	ErrValidation      = errors.New("validation error")
	ErrPolicyViolation = errors.New("policy violation")
	ErrRoomUnavailable = errors.New("room unavailable")
	ErrScheduleOverlap = errors.New("schedule overlap")
	ErrNotFound        = errors.New("not found")
	ErrDatabase        = errors.New("database error")
)

// kindError attaches a kind to a human-readable message.
type kindError struct {
	kind error
	msg  string
	err  error
}

func (e *kindError) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *kindError) Is(target error) bool { return target == e.kind }

func (e *kindError) Unwrap() error { return e.err }

func validationErr(format string, args ...any) error {
	return &kindError{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

func policyErr(format string, args ...any) error {
	return &kindError{kind: ErrPolicyViolation, msg: fmt.Sprintf(format, args...)}
}

// dbErr classifies a persistence error: missing rows become ErrNotFound,
// unique-key clashes ErrValidation, everything else ErrDatabase. Errors that
// already carry a kind pass through.
func dbErr(what string, err error) error {
	if err == nil {
		return nil
	}
	var ke *kindError
	if errors.As(err, &ke) {
		return err
	}
	if errors.Is(err, repository.ErrNotFound) {
		return &kindError{kind: ErrNotFound, msg: what + " not found"}
	}
	if errors.Is(err, repository.ErrDuplicate) {
		return &kindError{kind: ErrValidation, msg: what + ": already exists", err: err}
	}
	return &kindError{kind: ErrDatabase, msg: what, err: err}
}

// Message returns the admin-facing text of err. Database failures are
// reported generically.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrDatabase) {
		return "a database error occurred; no changes were saved"
	}
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.msg
	}
	return err.Error()
}
