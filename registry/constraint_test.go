package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.deviceregistry.dev/registry"
)

func u8(v uint8) []byte { return []byte{v} }

func TestConstraintMinMax(t *testing.T) {
	t.Parallel()

	minV, maxV := 7.0, 18.0
	c := registry.Constraint{Min: &minV, Max: &maxV}

	tcs := map[string]struct {
		v    uint8
		want bool // true == violation
	}{
		"below min": {6, true},
		"at min":    {7, false},
		"in range":  {12, false},
		"at max":    {18, false},
		"above max": {19, true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := c.Check(u8(tc.v), registry.TypeUint8)
			if tc.want {
				require.ErrorIs(t, err, registry.ErrInvalid)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestConstraintAllowDenyList(t *testing.T) {
	t.Parallel()

	c := registry.Constraint{
		Allow: [][]byte{u8(1), u8(2), u8(3)},
		Deny:  [][]byte{u8(2)},
	}

	require.NoError(t, c.Check(u8(1), registry.TypeUint8))
	assert.ErrorIs(t, c.Check(u8(2), registry.TypeUint8), registry.ErrInvalid, "denied even though allowed")
	assert.ErrorIs(t, c.Check(u8(4), registry.TypeUint8), registry.ErrInvalid, "not in allow-list")
}

func TestConstraintStringExact(t *testing.T) {
	t.Parallel()

	c := registry.Constraint{Allow: [][]byte{[]byte("red"), []byte("green"), []byte("blue")}}

	require.NoError(t, c.Check([]byte("red"), registry.TypeString))
	require.ErrorIs(t, c.Check([]byte("yellow"), registry.TypeString), registry.ErrInvalid)
}

func TestConstraintBoolAlwaysPasses(t *testing.T) {
	t.Parallel()

	var c registry.Constraint
	require.NoError(t, c.Check([]byte{1}, registry.TypeBool))
}

func TestConstraintZeroValueImposesNoRestriction(t *testing.T) {
	t.Parallel()

	var c registry.Constraint
	require.NoError(t, c.Check(u8(255), registry.TypeUint8))
}
