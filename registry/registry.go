// Package registry implements a typed, hierarchical runtime configuration
// store: namespace → schema → instance → group/parameter. Drivers own the
// memory their parameters map to; the registry only borrows it through a
// schema's [MappingFunc].
//
// Create a [Registry] with [New], declare namespaces and schemas, attach
// driver instances with [Registry.AddSchemaInstance], then use [Registry.Get]
// and [Registry.Set] to read and stage configuration changes, and
// [Registry.CommitInstance] (or one of its siblings) to ask a driver to
// apply them.
package registry

import (
	"fmt"
	"log/slog"
)

// Registry is the process-wide configuration store: an ordered list of
// namespaces, each holding an ordered list of schemas, each holding an
// ordered list of instances. Registration (namespaces, schema instances) is
// one-shot at startup; steady-state operation only reads this structure.
//
// The zero value is not usable; create one with [New].
type Registry struct {
	namespaces   []*Namespace
	opts         BuildOptions
	logger       *slog.Logger
	nsRegistered map[string]bool
}

// Option configures a [Registry] at construction time.
type Option func(*Registry)

// WithBuildOptions sets which optional type variants (64-bit ints, floats)
// this registry supports. The default is [DefaultBuildOptions], which
// enables all of them.
func WithBuildOptions(opts BuildOptions) Option {
	return func(r *Registry) { r.opts = opts }
}

// WithLogger sets the logger used for conditions the registry surfaces as
// log lines rather than errors (constraint failures during [Load], per-
// record load failures). The default is [slog.Default].
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// New creates an empty [Registry].
func New(opts ...Option) *Registry {
	r := &Registry{
		opts:         DefaultBuildOptions(),
		logger:       slog.Default(),
		nsRegistered: make(map[string]bool),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Logger returns the registry's configured logger.
func (r *Registry) Logger() *slog.Logger { return r.logger }

// BuildOptions returns the registry's configured build options.
func (r *Registry) BuildOptions() BuildOptions { return r.opts }

// RegisterNamespace appends ns to the registry's namespace list, assigning
// ns.ID = current list length. Registration is one-shot: a namespace whose
// Name was already registered returns [ErrAlreadyRegistered].
func (r *Registry) RegisterNamespace(ns *Namespace) error {
	if r.nsRegistered[ns.Name] {
		return fmt.Errorf("registry: namespace %q: %w", ns.Name, ErrAlreadyRegistered)
	}

	ns.ID = uint32(len(r.namespaces))
	r.namespaces = append(r.namespaces, ns)
	r.nsRegistered[ns.Name] = true

	for _, s := range ns.Schemas {
		s.Namespace = ns
	}

	return nil
}

// Namespaces returns the registered namespaces in registration order.
func (r *Registry) Namespaces() []*Namespace {
	return r.namespaces
}

// AddSchemaInstance links instance to schema, appends it to the schema's
// instance list, and assigns instance.ID = current list length. If
// schema.Namespace is still unset, it is linked to the registered namespace
// whose Schemas list contains schema. Like namespace registration, this is
// expected to happen once at startup.
func (r *Registry) AddSchemaInstance(schema *Schema, instance *Instance) error {
	if instance == nil {
		return fmt.Errorf("registry: nil instance: %w", ErrInvalid)
	}

	if schema.Namespace == nil {
		for _, ns := range r.namespaces {
			for _, s := range ns.Schemas {
				if s == schema {
					schema.Namespace = ns
				}
			}
		}
	}

	instance.Schema = schema
	instance.ID = uint32(len(schema.instances))
	schema.instances = append(schema.instances, instance)

	return nil
}

// FindNamespace looks up a namespace by id.
func (r *Registry) FindNamespace(id uint32) (*Namespace, error) {
	for _, ns := range r.namespaces {
		if ns.ID == id {
			return ns, nil
		}
	}

	return nil, fmt.Errorf("registry: namespace id %d: %w", id, ErrNotFound)
}

// FindNamespaceByName looks up a namespace by name.
func (r *Registry) FindNamespaceByName(name string) (*Namespace, error) {
	for _, ns := range r.namespaces {
		if ns.Name == name {
			return ns, nil
		}
	}

	return nil, fmt.Errorf("registry: namespace %q: %w", name, ErrNotFound)
}

// FindSchema looks up a schema by id within ns.
func FindSchema(ns *Namespace, id uint32) (*Schema, error) {
	for _, s := range ns.Schemas {
		if s.ID == id {
			return s, nil
		}
	}

	return nil, fmt.Errorf("registry: schema id %d in namespace %q: %w", id, ns.Name, ErrNotFound)
}

// FindSchemaByName looks up a schema by name within ns.
func FindSchemaByName(ns *Namespace, name string) (*Schema, error) {
	for _, s := range ns.Schemas {
		if s.Name == name {
			return s, nil
		}
	}

	return nil, fmt.Errorf("registry: schema %q in namespace %q: %w", name, ns.Name, ErrNotFound)
}

// FindInstance looks up an instance by id within schema.
func FindInstance(schema *Schema, id uint32) (*Instance, error) {
	for _, inst := range schema.instances {
		if inst.ID == id {
			return inst, nil
		}
	}

	return nil, fmt.Errorf("registry: instance id %d in schema %q: %w", id, schema.Name, ErrNotFound)
}

// FindInstanceByName looks up an instance by name within schema.
func FindInstanceByName(schema *Schema, name string) (*Instance, error) {
	for _, inst := range schema.instances {
		if inst.Name == name {
			return inst, nil
		}
	}

	return nil, fmt.Errorf("registry: instance %q in schema %q: %w", name, schema.Name, ErrNotFound)
}

// Get resolves parameter's current value inside instance via the schema's
// mapping callback. Get never copies: the returned [Value] borrows the
// instance's memory directly.
func (r *Registry) Get(instance *Instance, parameter *Parameter) (Value, error) {
	if instance.Schema != parameter.Schema {
		return Value{}, fmt.Errorf("registry: parameter %q does not belong to instance %q's schema: %w",
			parameter.Name, instance.Name, ErrInvalid)
	}

	if parameter.Type == TypeGroup {
		return Value{}, fmt.Errorf("registry: get %q: %w", parameter.Name, ErrGroupIsNotAParameter)
	}

	window, err := instance.Schema.Mapping(parameter.ID, instance)
	if err != nil {
		return Value{}, fmt.Errorf("registry: mapping %s/%s: %w", instance.Schema.Name, parameter.Name, err)
	}

	return Value{Type: parameter.Type, Bytes: window}, nil
}

// Set resolves parameter's window inside instance, validates src against
// the parameter's constraints, and copies src into the window. Set does
// not fire the instance's commit callback; callers stage changes with Set
// and apply them atomically from the driver's perspective with one of the
// Commit* methods.
func (r *Registry) Set(instance *Instance, parameter *Parameter, src []byte) error {
	if instance.Schema != parameter.Schema {
		return fmt.Errorf("registry: parameter %q does not belong to instance %q's schema: %w",
			parameter.Name, instance.Name, ErrInvalid)
	}

	if parameter.Type == TypeGroup {
		return fmt.Errorf("registry: set %q: %w", parameter.Name, ErrGroupIsNotAParameter)
	}

	window, err := instance.Schema.Mapping(parameter.ID, instance)
	if err != nil {
		return fmt.Errorf("registry: mapping %s/%s: %w", instance.Schema.Name, parameter.Name, err)
	}

	if len(src) > len(window) {
		return fmt.Errorf("registry: set %q: %d bytes exceeds window of %d: %w",
			parameter.Name, len(src), len(window), ErrInvalid)
	}

	if err := parameter.Constraint.Check(src, parameter.Type); err != nil {
		return fmt.Errorf("registry: set %q: %w", parameter.Name, err)
	}

	copy(window, src)

	return nil
}

// SetString parses text according to parameter's type and applies it with
// Set.
func (r *Registry) SetString(instance *Instance, parameter *Parameter, text string) error {
	window, err := instance.Schema.Mapping(parameter.ID, instance)
	if err != nil {
		return fmt.Errorf("registry: mapping %s/%s: %w", instance.Schema.Name, parameter.Name, err)
	}

	buf := make([]byte, len(window))

	n, err := ConvertStringToValue(text, buf, parameter.Type, r.opts)
	if err != nil {
		return fmt.Errorf("registry: set %q: %w", parameter.Name, err)
	}

	return r.Set(instance, parameter, buf[:n])
}

// CommitParameter invokes instance's commit callback scoped to parameter.
func (r *Registry) CommitParameter(instance *Instance, parameter *Parameter) error {
	id := parameter.ID

	return r.fireCommit(instance, CommitScopeParameter, &id)
}

// CommitGroup invokes instance's commit callback scoped to group.
func (r *Registry) CommitGroup(instance *Instance, group *Group) error {
	id := group.ID

	return r.fireCommit(instance, CommitScopeGroup, &id)
}

// CommitInstance invokes instance's commit callback for the whole instance.
func (r *Registry) CommitInstance(instance *Instance) error {
	return r.fireCommit(instance, CommitScopeInstance, nil)
}

func (r *Registry) fireCommit(instance *Instance, scope CommitScope, id *uint32) error {
	if instance.Commit == nil {
		// A missing commit callback is not an error: the instance simply
		// has nothing to do at commit time. Skip it, record no error.
		return nil
	}

	return instance.Commit(scope, id)
}

// CommitSchema commits every instance of schema, in instance order.
// Errors from individual instances are collected: the first non-zero
// result is remembered, but the traversal continues so one broken
// instance does not skip its siblings.
func (r *Registry) CommitSchema(schema *Schema) error {
	var first error

	for _, inst := range schema.instances {
		if err := r.CommitInstance(inst); err != nil && first == nil {
			first = err
		}
	}

	return first
}

// CommitNamespace commits every schema in ns, in declaration order.
func (r *Registry) CommitNamespace(ns *Namespace) error {
	var first error

	for _, s := range ns.Schemas {
		if err := r.CommitSchema(s); err != nil && first == nil {
			first = err
		}
	}

	return first
}

// Commit commits every namespace in the registry, in registration order.
func (r *Registry) Commit() error {
	var first error

	for _, ns := range r.namespaces {
		if err := r.CommitNamespace(ns); err != nil && first == nil {
			first = err
		}
	}

	return first
}
