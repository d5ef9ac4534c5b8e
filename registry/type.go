package registry

import "fmt"

// Type is the closed set of primitive value types a [Parameter] can carry.
type Type int

const (
	// TypeGroup is a sentinel used only on schema nodes that are not
	// parameters. It is never a valid value type.
	TypeGroup Type = iota

	TypeOpaque
	TypeString
	TypeBool

	TypeUint8
	TypeUint16
	TypeUint32
	TypeUint64

	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64

	TypeFloat32
	TypeFloat64
)

// String returns the human-readable name of t, used in error messages and as
// the type name stored in persisted storage records.
func (t Type) String() string {
	switch t {
	case TypeGroup:
		return "group"
	case TypeOpaque:
		return "opaque"
	case TypeString:
		return "string"
	case TypeBool:
		return "bool"
	case TypeUint8:
		return "u8"
	case TypeUint16:
		return "u16"
	case TypeUint32:
		return "u32"
	case TypeUint64:
		return "u64"
	case TypeInt8:
		return "i8"
	case TypeInt16:
		return "i16"
	case TypeInt32:
		return "i32"
	case TypeInt64:
		return "i64"
	case TypeFloat32:
		return "f32"
	case TypeFloat64:
		return "f64"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// ParseType parses the name produced by [Type.String] back into a Type.
func ParseType(name string) (Type, error) {
	switch name {
	case "group":
		return TypeGroup, nil
	case "opaque":
		return TypeOpaque, nil
	case "string":
		return TypeString, nil
	case "bool":
		return TypeBool, nil
	case "u8":
		return TypeUint8, nil
	case "u16":
		return TypeUint16, nil
	case "u32":
		return TypeUint32, nil
	case "u64":
		return TypeUint64, nil
	case "i8":
		return TypeInt8, nil
	case "i16":
		return TypeInt16, nil
	case "i32":
		return TypeInt32, nil
	case "i64":
		return TypeInt64, nil
	case "f32":
		return TypeFloat32, nil
	case "f64":
		return TypeFloat64, nil
	default:
		return 0, fmt.Errorf("registry: unknown type %q: %w", name, ErrInvalid)
	}
}

// Size returns the natural byte size of t, or 0 for types with no fixed size
// (string, opaque — these are bounded by the mapping callback's window
// instead).
func (t Type) Size() int {
	switch t {
	case TypeBool, TypeUint8, TypeInt8:
		return 1
	case TypeUint16, TypeInt16:
		return 2
	case TypeUint32, TypeInt32, TypeFloat32:
		return 4
	case TypeUint64, TypeInt64, TypeFloat64:
		return 8
	default:
		return 0
	}
}

// BuildOptions controls which build-time-optional type variants this
// registry instance supports. The RIOT OS registry this module is modeled
// on gates 64-bit integer and floating point support behind
// CONFIG_REGISTRY_USE_INT64/FLOAT32/FLOAT64 to keep firmware size down; Go
// cannot compile out an enum value, so instead [ConvertStringToValue] (and
// with it [Registry.SetString]) rejects a disabled type with [ErrInvalid].
// Schema declaration, [Registry.Set] and [Constraint.Check] do not consult
// these options, so parameters of a disabled type can still be declared and
// set from raw bytes.
type BuildOptions struct {
	Int64   bool
	Float32 bool
	Float64 bool
}

// DefaultBuildOptions enables every optional type variant. Use this unless
// you are modeling a size-constrained target.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{Int64: true, Float32: true, Float64: true}
}

// Supports reports whether t is enabled under these build options. Types
// that are never gated (everything except 64-bit ints, float32 and
// float64) always return true.
func (o BuildOptions) Supports(t Type) bool {
	switch t {
	case TypeUint64, TypeInt64:
		return o.Int64
	case TypeFloat32:
		return o.Float32
	case TypeFloat64:
		return o.Float64
	default:
		return true
	}
}
