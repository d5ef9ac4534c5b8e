package registry

import "errors"

// Sentinel errors returned by the registry. Callers should use [errors.Is]
// rather than comparing error values directly, since every returned error is
// wrapped with context via %w.
var (
	// ErrInvalid is returned for bad arguments, constraint violations, type
	// mismatches, oversized input, or unparseable value strings.
	ErrInvalid = errors.New("registry: invalid")

	// ErrNotFound is returned when an id or name does not resolve in the
	// graph.
	ErrNotFound = errors.New("registry: not found")

	// ErrNoDestination is returned when a save operation runs with no
	// destination storage registered.
	ErrNoDestination = errors.New("registry: no destination storage registered")

	// ErrGroupIsNotAParameter is returned when Get or Set is attempted on a
	// group node.
	ErrGroupIsNotAParameter = errors.New("registry: group is not a parameter")

	// ErrAlreadyRegistered is returned by [Registry.RegisterNamespace] when a
	// namespace with the same name is already registered.
	ErrAlreadyRegistered = errors.New("registry: already registered")
)
