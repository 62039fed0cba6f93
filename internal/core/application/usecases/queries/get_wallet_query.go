// Package queries holds the read side: views served straight from the database without
// loading aggregates.
package queries

import (
	"errors"

	"tpts/internal/core/domain/model/kernel"
	"tpts/internal/pkg/guard"
)

var ErrGetWalletQueryIsNotConstructed = errors.New(
	"GetWalletQuery must be created via NewGetWalletQuery constructor",
)

// GetWalletQuery reads the cached balance of one payee.
//
// Example:
//
//	query, err := NewGetWalletQuery(agentID)
//	if err != nil {
//	    return err
//	}
//	wallet, err := NewGetWalletQueryHandler(db).Handle(ctx, query)
type GetWalletQuery struct {
	ownerID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewGetWalletQuery(ownerID kernel.UUID) (GetWalletQuery, error) {
	if err := ownerID.Validate(); err != nil {
		return GetWalletQuery{}, err
	}
	return GetWalletQuery{ownerID: ownerID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetWalletQuery) Validate() error {
	return q.guard.Validate(ErrGetWalletQueryIsNotConstructed)
}

func (q GetWalletQuery) OwnerID() kernel.UUID { return q.ownerID }
