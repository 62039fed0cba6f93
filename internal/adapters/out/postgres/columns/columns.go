// Package columns holds the column types and mapping helpers shared by the repository
// packages: address snapshots, optional ids and the optimistic write check.
package columns

import (
	"errors"
	"fmt"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/errs"

	"github.com/AlekSi/pointer"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgErrSerializationFailure = "40001"
	pgErrDeadlockDetected     = "40P01"
)

// Address is an embedded address snapshot. Coordinates are optional on the wire but the
// domain always carries them, so they are stored as plain columns.
type Address struct {
	Name      string
	Phone     string
	Line      string
	City      string `gorm:"index"`
	Pincode   string `gorm:"index"`
	Latitude  float64
	Longitude float64
}

func FromAddress(a kernel.Address) Address {
	return Address{
		Name:      a.Name(),
		Phone:     a.Phone(),
		Line:      a.Line(),
		City:      a.City(),
		Pincode:   a.Pincode(),
		Latitude:  a.Coordinates().Latitude,
		Longitude: a.Coordinates().Longitude,
	}
}

func (a Address) ToDomain() (kernel.Address, error) {
	return kernel.NewAddress(a.Name, a.Phone, a.Line, a.City, a.Pincode, kernel.Coordinates{
		Latitude:  a.Latitude,
		Longitude: a.Longitude,
	})
}

// UUIDPtr converts an optional domain id to its column value.
func UUIDPtr(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	return pointer.To(id.Bytes())
}

func ToUUID(id uuid.UUID) (kernel.UUID, error) {
	return kernel.UUIDFromBytes(id[:])
}

// ToUUIDPtr converts a nullable id column back to the domain.
func ToUUIDPtr(id *uuid.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil
	}
	parsed, err := ToUUID(*id)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// ToUUIDs converts a list of id columns.
func ToUUIDs(ids []uuid.UUID) ([]kernel.UUID, error) {
	res := make([]kernel.UUID, 0, len(ids))
	for _, id := range ids {
		parsed, err := ToUUID(id)
		if err != nil {
			return nil, err
		}
		res = append(res, parsed)
	}
	return res, nil
}

// CheckVersioned turns the result of a "WHERE id = ? AND version = ?" write into the
// domain outcome: zero affected rows means another writer got there first.
func CheckVersioned(result *gorm.DB, entity string, id kernel.UUID) error {
	if isRetryable(result.Error) {
		return fmt.Errorf("update %s %s: %w: %w", entity, id, errs.ErrConcurrentModification, result.Error)
	}
	if result.Error != nil {
		return fmt.Errorf("update %s %s: %w", entity, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, errs.ErrConcurrentModification)
	}
	return nil
}

// CheckInsert maps a unique-key violation to a concurrent modification: two writers raced
// to create the same row and the loser must re-read.
func CheckInsert(err error, entity string, id kernel.UUID) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s %s: %w", entity, id, errs.ErrConcurrentModification)
	}
	if isRetryable(err) {
		return fmt.Errorf("insert %s %s: %w: %w", entity, id, errs.ErrConcurrentModification, err)
	}
	return fmt.Errorf("insert %s %s: %w", entity, id, err)
}

// isRetryable reports a deadlock or serialization failure. PostgreSQL has already
// aborted the transaction, so the whole attempt must run again.
func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgErrDeadlockDetected || pgErr.Code == pgErrSerializationFailure
	}
	return false
}

// CheckFound maps gorm's missing-row error to errs.ErrObjectNotFound.
func CheckFound(err error, entity string, id any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewObjectNotFoundError(entity, id)
	}
	return fmt.Errorf("get %s %v: %w", entity, id, err)
}
