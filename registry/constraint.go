package registry

import (
	"bytes"
	"fmt"
	"math"
)

// Constraint validates candidate byte values for a parameter. It is a
// tagged sum keyed by the parameter's type: numeric types may set Min/Max
// and allow/deny lists of exact values; string and opaque types use
// allow/deny lists of exact byte values; bool carries no constraint.
//
// A zero-value Constraint imposes no restrictions.
type Constraint struct {
	// Min and Max bound numeric types. Either may be nil to leave that
	// bound unchecked.
	Min, Max *float64

	// Allow, if non-empty, requires the candidate to equal one of these
	// values exactly.
	Allow [][]byte

	// Deny, if non-empty, rejects the candidate if it equals any of these
	// values exactly.
	Deny [][]byte
}

// Check validates candidate against c for a parameter of type typ. Multiple
// constraint kinds combine conjunctively: every applicable check must pass.
// Any violation returns [ErrInvalid].
func (c Constraint) Check(candidate []byte, typ Type) error {
	switch typ {
	case TypeBool, TypeGroup:
		return nil

	case TypeString, TypeOpaque:
		return c.checkExact(candidate)

	default:
		return c.checkNumeric(candidate, typ)
	}
}

func (c Constraint) checkExact(candidate []byte) error {
	if len(c.Allow) > 0 && !containsBytes(c.Allow, candidate) {
		return fmt.Errorf("registry: value not in allow-list: %w", ErrInvalid)
	}

	if containsBytes(c.Deny, candidate) {
		return fmt.Errorf("registry: value in deny-list: %w", ErrInvalid)
	}

	return nil
}

func (c Constraint) checkNumeric(candidate []byte, typ Type) error {
	f, err := numericFloat(candidate, typ)
	if err != nil {
		return err
	}

	if c.Min != nil && f < *c.Min {
		return fmt.Errorf("registry: %v below minimum %v: %w", f, *c.Min, ErrInvalid)
	}

	if c.Max != nil && f > *c.Max {
		return fmt.Errorf("registry: %v above maximum %v: %w", f, *c.Max, ErrInvalid)
	}

	if len(c.Allow) > 0 && !containsBytes(c.Allow, candidate) {
		return fmt.Errorf("registry: value not in allow-list: %w", ErrInvalid)
	}

	if containsBytes(c.Deny, candidate) {
		return fmt.Errorf("registry: value in deny-list: %w", ErrInvalid)
	}

	return nil
}

// numericFloat decodes candidate as a float64 for range comparison,
// regardless of the parameter's underlying numeric representation.
func numericFloat(candidate []byte, typ Type) (float64, error) {
	switch typ {
	case TypeFloat32:
		u, err := getUint(candidate, 4)
		if err != nil {
			return 0, err
		}

		return float64(math.Float32frombits(uint32(u))), nil

	case TypeFloat64:
		u, err := getUint(candidate, 8)
		if err != nil {
			return 0, err
		}

		return math.Float64frombits(u), nil

	case TypeInt8, TypeInt16, TypeInt32, TypeInt64:
		u, err := getUint(candidate, typ.Size())
		if err != nil {
			return 0, err
		}

		return float64(signExtend(u, typ.Size())), nil

	default:
		u, err := getUint(candidate, typ.Size())
		if err != nil {
			return 0, err
		}

		return float64(u), nil
	}
}

func containsBytes(set [][]byte, candidate []byte) bool {
	for _, s := range set {
		if bytes.Equal(s, candidate) {
			return true
		}
	}

	return false
}
