package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrStatusChanged means the invoice left the expected status before the update landed
	ErrStatusChanged = errors.New("invoice status changed concurrently")
	// ErrHasDependents is matched by every DependentsError
	ErrHasDependents = errors.New("record has dependents")
	// ErrDuplicate is returned when a unique column already holds the value
	ErrDuplicate = errors.New("duplicate record")
)

// DependentsError explains why a delete was refused
type DependentsError struct {
	Entity    string
	Dependent string
}

func (e *DependentsError) Error() string {
	return fmt.Sprintf("Cannot delete %s with %s", e.Entity, e.Dependent)
}

func (e *DependentsError) Is(target error) bool {
	return target == ErrHasDependents
}

// IsNotFound reports whether err is a missing-row error
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// SQLite reports constraint failures only through the message
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func wrapDuplicate(err error, what string) error {
	if err != nil && isDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s already exists", ErrDuplicate, what)
	}
	return err
}
