package main

import (
	"errors"

	"go.deviceregistry.dev/registry"
)

// errorCode renders err as the short error-taxonomy name the shell prints
// after "error: ". Unrecognized errors fall back to "invalid" rather than
// leaking Go error text, keeping the shell's failure vocabulary closed.
func errorCode(err error) string {
	switch {
	case errors.Is(err, registry.ErrNotFound):
		return "not_found"
	case errors.Is(err, registry.ErrNoDestination):
		return "no_destination"
	case errors.Is(err, registry.ErrGroupIsNotAParameter):
		return "group_is_not_a_parameter"
	case errors.Is(err, registry.ErrInvalid):
		return "invalid"
	default:
		return "invalid"
	}
}
