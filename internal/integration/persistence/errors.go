// Package persistence implements the GORM backed data store and repositories.
package persistence

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainerror "github.com/diet-tracker/backend/internal/domain/error"
)

const pgUniqueViolation = "23505"

// classify wraps a native GORM/driver error into a StoreError of the right kind.
// It returns nil for a nil error.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var storeErr *domainerror.StoreError
	if errors.As(err, &storeErr) {
		return err
	}
	return domainerror.NewStoreError(op, kindOf(err), err)
}

func kindOf(err error) error {
	if isUniqueViolation(err) {
		return domainerror.ErrConflict
	}
	if isUnavailable(err) {
		return domainerror.ErrBackendUnavailable
	}
	return domainerror.ErrUnknown
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, pgUniqueViolation)
}

func isUnavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "sql: database is closed") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "unable to open database file")
}
