package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrStateConflict is returned when a conditional status update matched
	// no row because the entity moved to another state since it was read.
	ErrStateConflict = errors.New("entity state changed concurrently")
	// ErrInvalidTransition is returned when the requested transition is not
	// in the state machine's table at all.
	ErrInvalidTransition = errors.New("invalid status transition")
)

func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint")
}
