package commands

import (
	"context"

	"tpts/internal/core/domain/model/kernel"

	"go.uber.org/zap"
)

// sweepStep handles one row of a sweep and reports whether it changed anything.
type sweepStep func(ctx context.Context, uow UoW, id kernel.UUID, fx *effects) (bool, error)

// sweep lists due rows in one unit of work and then handles each in its own, so one
// conflicting row does not hold back the rest. Failed rows are logged and left for the
// next run. It returns the number of rows changed.
func (rt Runtime) sweep(
	ctx context.Context,
	component string,
	list func(ctx context.Context, uow UoW) ([]kernel.UUID, error),
	step sweepStep,
) (int, error) {
	var due []kernel.UUID
	err := rt.execute(ctx, func(ctx context.Context, uow UoW, _ *effects) error {
		var err error
		due, err = list(ctx, uow)
		return err
	})
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, id := range due {
		if err = ctx.Err(); err != nil {
			return changed, err
		}

		var done bool
		err = rt.execute(ctx, func(ctx context.Context, uow UoW, fx *effects) error {
			var stepErr error
			done, stepErr = step(ctx, uow, id, fx)
			return stepErr
		})
		if err != nil {
			rt.logger().Warn("sweep row skipped",
				zap.String("component", component),
				zap.Stringer("id", id),
				zap.Error(err),
			)
			continue
		}
		if done {
			changed++
		}
	}
	return changed, nil
}
