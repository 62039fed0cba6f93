package guard_test

import (
	"errors"
	"testing"

	"tpts/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("constructed guard passes", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errors.New("not constructed")))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero value returns the supplied error", func(t *testing.T) {
		var g guard.ConstructorGuard
		expected := errors.New("parcel not constructed")

		assert.Equal(t, expected, g.Validate(expected))
	})

	t.Run("zero value falls back to the default error", func(t *testing.T) {
		var g guard.ConstructorGuard

		assert.Equal(t, guard.ErrDefaultConstructorGuard, g.Validate(nil))
	})
}

func TestConstructorGuard_EmbeddedInValueObject(t *testing.T) {
	errWeightNotConstructed := errors.New("Weight must be created via NewWeight")

	type weight struct {
		kg    float64
		guard guard.ConstructorGuard
	}
	validate := func(w weight) error { return w.guard.Validate(errWeightNotConstructed) }

	built := weight{kg: 2.5, guard: guard.NewConstructorGuard()}
	require.NoError(t, validate(built))

	literal := weight{kg: 2.5}
	require.ErrorIs(t, validate(literal), errWeightNotConstructed)
}
