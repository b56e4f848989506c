package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Business error codes shared across the booking flow.
const (
	CodeInvalidRequest          = "invalid_request"
	CodeProtocolViolation       = "protocol_violation"
	CodePersistenceConflict     = "persistence_conflict"
	CodeCollaboratorUnreachable = "collaborator_unreachable"
	CodeCollaboratorBadResponse = "collaborator_bad_response"
	CodeOutsideWorkingHours     = "outside_working_hours"
	CodeNotASlot                = "not_a_slot"
	CodeUnknownService          = "unknown_service"
)

type BusinessError struct {
	Code  string
	Cause error
}

func (e BusinessError) Error() string {
	if e.Cause != nil {
		return e.Code + ": " + e.Cause.Error()
	}
	return e.Code
}

func (e BusinessError) Unwrap() error {
	return e.Cause
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func Wrap(code string, err error) error {
	return BusinessError{Code: code, Cause: err}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// CodeOf returns the business code carried by err, if any.
func CodeOf(err error) (string, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code, true
	}
	return "", false
}

// IsUniqueViolation reports whether the database rejected a write
// because of a unique index.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
