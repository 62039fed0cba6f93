package queries

import (
	"errors"
	"time"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/errs"
	"tpts/internal/pkg/guard"
)

var ErrGetDailyEarningsQueryIsNotConstructed = errors.New(
	"GetDailyEarningsQuery must be created via NewGetDailyEarningsQuery constructor",
)

// GetDailyEarningsQuery sums one payee's earning entries over a calendar day. The day is
// taken in the location of the time passed in.
type GetDailyEarningsQuery struct {
	ownerID kernel.UUID
	day     time.Time
	guard   guard.ConstructorGuard
}

func NewGetDailyEarningsQuery(ownerID kernel.UUID, day time.Time) (GetDailyEarningsQuery, error) {
	if err := ownerID.Validate(); err != nil {
		return GetDailyEarningsQuery{}, err
	}
	if day.IsZero() {
		return GetDailyEarningsQuery{}, errs.NewValueIsRequiredError("day")
	}
	return GetDailyEarningsQuery{ownerID: ownerID, day: day, guard: guard.NewConstructorGuard()}, nil
}

func (q GetDailyEarningsQuery) Validate() error {
	return q.guard.Validate(ErrGetDailyEarningsQueryIsNotConstructed)
}

func (q GetDailyEarningsQuery) OwnerID() kernel.UUID { return q.ownerID }
func (q GetDailyEarningsQuery) Day() time.Time       { return q.day }
