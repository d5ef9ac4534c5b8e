package registry

import (
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
)

// Value is a borrowed view over the bytes backing a parameter's current
// value. Bytes always aliases memory owned by an [Instance] (typically a
// field inside the driver's data struct) — Value never owns or copies the
// memory it points at, and must not be retained past the call that produced
// it.
type Value struct {
	Type  Type
	Bytes []byte
}

// ConvertStringToValue parses text according to typ and writes the result
// into dst, returning the number of bytes written. It fails with
// [ErrInvalid] if text cannot be parsed as typ, or if the parsed value does
// not fit in dst.
//
// Semantics per type:
//   - integers: decimal by default; accepts "0x" and "0" prefixes (base 0);
//     signed types parse signed, unsigned types parse unsigned.
//   - bool: parsed as an integer, any non-zero value is true.
//   - float/double: locale-independent decimal float.
//   - string: copied verbatim followed by a trailing NUL, which is counted in
//     the returned length; fails if len(text)+1 exceeds len(dst).
//   - opaque: base64-decoded; fails if the decoded length exceeds len(dst).
//   - group: never a valid value; always fails.
func ConvertStringToValue(text string, dst []byte, typ Type, opts BuildOptions) (int, error) {
	if typ != TypeGroup && !opts.Supports(typ) {
		return 0, fmt.Errorf("registry: type %s disabled by build options: %w", typ, ErrInvalid)
	}

	switch typ {
	case TypeGroup:
		return 0, fmt.Errorf("registry: group has no value: %w", ErrInvalid)

	case TypeString:
		if len(text)+1 > len(dst) {
			return 0, fmt.Errorf("registry: string %d bytes exceeds capacity %d: %w", len(text), len(dst), ErrInvalid)
		}

		n := copy(dst, text)
		dst[n] = 0

		return n + 1, nil

	case TypeOpaque:
		decoded, err := base64.StdEncoding.DecodeString(text)
		if err != nil {
			return 0, fmt.Errorf("registry: opaque base64 decode: %w: %w", err, ErrInvalid)
		}

		if len(decoded) > len(dst) {
			return 0, fmt.Errorf("registry: opaque %d bytes exceeds capacity %d: %w", len(decoded), len(dst), ErrInvalid)
		}

		n := copy(dst, decoded)

		return n, nil

	case TypeBool:
		i, err := strconv.ParseInt(text, 0, 64)
		if err != nil {
			return 0, fmt.Errorf("registry: bool parse %q: %w: %w", text, err, ErrInvalid)
		}

		if len(dst) < 1 {
			return 0, fmt.Errorf("registry: bool needs 1 byte, dst has %d: %w", len(dst), ErrInvalid)
		}

		if i != 0 {
			dst[0] = 1
		} else {
			dst[0] = 0
		}

		return 1, nil

	case TypeUint8, TypeUint16, TypeUint32, TypeUint64:
		return convertUintToValue(text, dst, typ)

	case TypeInt8, TypeInt16, TypeInt32, TypeInt64:
		return convertIntToValue(text, dst, typ)

	case TypeFloat32:
		f, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return 0, fmt.Errorf("registry: float32 parse %q: %w: %w", text, err, ErrInvalid)
		}

		return putFloat32(dst, float32(f))

	case TypeFloat64:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return 0, fmt.Errorf("registry: float64 parse %q: %w: %w", text, err, ErrInvalid)
		}

		return putFloat64(dst, f)

	default:
		return 0, fmt.Errorf("registry: unknown type %s: %w", typ, ErrInvalid)
	}
}

func convertUintToValue(text string, dst []byte, typ Type) (int, error) {
	bits := typ.Size() * 8

	u, err := strconv.ParseUint(text, 0, bits)
	if err != nil {
		return 0, fmt.Errorf("registry: %s parse %q: %w: %w", typ, text, err, ErrInvalid)
	}

	return putUint(dst, u, typ.Size())
}

func convertIntToValue(text string, dst []byte, typ Type) (int, error) {
	bits := typ.Size() * 8

	i, err := strconv.ParseInt(text, 0, bits)
	if err != nil {
		return 0, fmt.Errorf("registry: %s parse %q: %w: %w", typ, text, err, ErrInvalid)
	}

	return putUint(dst, uint64(i), typ.Size())
}

func putUint(dst []byte, v uint64, size int) (int, error) {
	if len(dst) < size {
		return 0, fmt.Errorf("registry: value needs %d bytes, dst has %d: %w", size, len(dst), ErrInvalid)
	}

	for i := range size {
		dst[i] = byte(v >> (8 * i))
	}

	return size, nil
}

func putFloat32(dst []byte, f float32) (int, error) {
	return putUint(dst, uint64(math.Float32bits(f)), 4)
}

func putFloat64(dst []byte, f float64) (int, error) {
	return putUint(dst, math.Float64bits(f), 8)
}

// ConvertValueToString renders v as a string according to its type. This is
// the Go reformulation of the original two-pass "null buffer returns needed
// length" C idiom — Go strings size themselves, so there is only one call.
func ConvertValueToString(v Value) (string, error) {
	switch v.Type {
	case TypeGroup:
		return "", fmt.Errorf("registry: group has no value: %w", ErrInvalid)

	case TypeString:
		n := len(v.Bytes)
		for i, b := range v.Bytes {
			if b == 0 {
				n = i
				break
			}
		}

		return string(v.Bytes[:n]), nil

	case TypeOpaque:
		return base64.StdEncoding.EncodeToString(v.Bytes), nil

	case TypeBool:
		if len(v.Bytes) < 1 {
			return "", fmt.Errorf("registry: bool value truncated: %w", ErrInvalid)
		}

		return strconv.FormatBool(v.Bytes[0] != 0), nil

	case TypeUint8, TypeUint16, TypeUint32, TypeUint64:
		u, err := getUint(v.Bytes, v.Type.Size())
		if err != nil {
			return "", err
		}

		return strconv.FormatUint(u, 10), nil

	case TypeInt8, TypeInt16, TypeInt32, TypeInt64:
		u, err := getUint(v.Bytes, v.Type.Size())
		if err != nil {
			return "", err
		}

		return strconv.FormatInt(signExtend(u, v.Type.Size()), 10), nil

	case TypeFloat32:
		u, err := getUint(v.Bytes, 4)
		if err != nil {
			return "", err
		}

		return strconv.FormatFloat(float64(math.Float32frombits(uint32(u))), 'g', -1, 32), nil

	case TypeFloat64:
		u, err := getUint(v.Bytes, 8)
		if err != nil {
			return "", err
		}

		return strconv.FormatFloat(math.Float64frombits(u), 'g', -1, 64), nil

	default:
		return "", fmt.Errorf("registry: unknown type %s: %w", v.Type, ErrInvalid)
	}
}

func getUint(src []byte, size int) (uint64, error) {
	if len(src) < size {
		return 0, fmt.Errorf("registry: value truncated, need %d bytes have %d: %w", size, len(src), ErrInvalid)
	}

	var u uint64
	for i := range size {
		u |= uint64(src[i]) << (8 * i)
	}

	return u, nil
}

func signExtend(u uint64, size int) int64 {
	bits := size * 8
	shift := 64 - bits

	return int64(u<<shift) >> shift
}
