package store

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrConstraintViolation reports a unique or foreign-key conflict.
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrNotFound reports a keyed lookup that matched nothing.
	ErrNotFound = errors.New("not found")
	// ErrConnectivity reports that the store could not be reached.
	ErrConnectivity = errors.New("store unreachable")
	// ErrInvalidInput reports arguments rejected before reaching the store.
	ErrInvalidInput = errors.New("invalid input")
)

var kinds = []error{ErrNotFound, ErrConstraintViolation, ErrConnectivity, ErrInvalidInput}

// pgIntegrityClass is the SQLSTATE class for integrity constraint violations.
const pgIntegrityClass = "23"

// classify prefixes err with op and wraps the kind it belongs to, if any.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if kind := kindOf(err); kind != nil {
		if errors.Is(err, kind) {
			return fmt.Errorf("%s: %w", op, err)
		}
		return fmt.Errorf("%s: %w: %w", op, kind, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func kindOf(err error) error {
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrConstraintViolation
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, pgIntegrityClass) {
		return ErrConstraintViolation
	}

	var connectErr *pgconn.ConnectError
	var netErr net.Error
	switch {
	case errors.As(err, &connectErr), errors.As(err, &netErr),
		errors.Is(err, driver.ErrBadConn), errors.Is(err, sql.ErrConnDone):
		return ErrConnectivity
	}

	// sqlite reports constraint failures by message only.
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "FOREIGN KEY constraint failed") {
		return ErrConstraintViolation
	}
	return nil
}
