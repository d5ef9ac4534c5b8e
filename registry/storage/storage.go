// Package storage persists registry parameter values to and from durable
// backends. Multiple sources may be registered; loading fans in from all of
// them in registration order, last write wins on a path collision. Only one
// destination may be registered at a time; saving walks every parameter in
// the wrapped registry and writes it there.
package storage

import (
	"context"
	"fmt"
	"strings"

	"go.deviceregistry.dev/registry"
	"go.deviceregistry.dev/registry/stringpath"
)

// LoadFunc receives one persisted record during [Source.Load]. path is the
// slash-delimited name path the record was saved under (see
// [go.deviceregistry.dev/registry/stringpath]).
type LoadFunc func(path string, typ registry.Type, raw []byte) error

// Source loads previously persisted records and hands each one to cb.
// Implementations should keep calling cb for every record even after cb
// returns an error for one of them; the caller aggregates errors itself.
type Source interface {
	Load(ctx context.Context, cb LoadFunc) error
}

// Destination persists one record under path.
type Destination interface {
	Save(ctx context.Context, path string, typ registry.Type, raw []byte) error
}

// SaveStarter is an optional interface a [Destination] can implement to
// prepare for a batch of [Destination.Save] calls (e.g. truncate a file,
// open a transaction).
type SaveStarter interface {
	SaveStart(ctx context.Context) error
}

// SaveEnder is an optional interface a [Destination] can implement to
// finalize a batch of [Destination.Save] calls (e.g. flush, commit, close).
type SaveEnder interface {
	SaveEnd(ctx context.Context) error
}

// Registry wraps a [registry.Registry] with a set of storage backends. The
// zero value is not usable; create one with [New].
type Registry struct {
	reg     *registry.Registry
	sources []Source
	dest    Destination
}

// New wraps reg for loading from and saving to storage backends.
func New(reg *registry.Registry) *Registry {
	return &Registry{reg: reg}
}

// AddSource registers src as an additional source of configuration on
// [Registry.Load]. Sources are consulted in registration order; a later
// source's value for a given path overwrites an earlier one's.
func (r *Registry) AddSource(src Source) {
	r.sources = append(r.sources, src)
}

// SetDestination registers dst as the single destination [Registry.Save]
// writes to, replacing any previously registered destination.
func (r *Registry) SetDestination(dst Destination) {
	r.dest = dst
}

// Load reads every registered source in order and applies each record it
// yields to the wrapped registry via [registry.Registry.Set]. A record whose
// path cannot be resolved, whose kind is not a parameter, whose stored type
// doesn't match, or whose value violates its parameter's constraints is
// logged and skipped — never returned — matching the non-fatal, logged-only
// per-record failure policy of the load this mirrors. Load only returns an
// error if a source's own Load call itself fails outright.
func (r *Registry) Load(ctx context.Context) error {
	return r.loadFiltered(ctx, "")
}

// LoadPath behaves like Load but discards any record whose saved path does
// not fall under prefix, restricting application to a single rooted subtree
// (e.g. one instance or one namespace) of a source that may hold records for
// the whole registry.
func (r *Registry) LoadPath(ctx context.Context, prefix string) error {
	return r.loadFiltered(ctx, prefix)
}

func (r *Registry) loadFiltered(ctx context.Context, prefix string) error {
	var firstErr error

	warn := func(err error) {
		r.reg.Logger().Warn("registry/storage: load record failed", "error", err)
	}

	for _, src := range r.sources {
		err := src.Load(ctx, func(path string, typ registry.Type, raw []byte) error {
			if prefix != "" && path != prefix && !strings.HasPrefix(path, strings.TrimSuffix(prefix, "/")+"/") {
				return nil
			}

			inst, kind, _, param, err := stringpath.ToGroupOrParameter(r.reg, path)
			if err != nil {
				warn(fmt.Errorf("storage: load %q: %w", path, err))
				return nil
			}

			if kind != registry.NodeParameter {
				warn(fmt.Errorf("storage: load %q: %w", path, registry.ErrGroupIsNotAParameter))
				return nil
			}

			if param.Type != typ {
				warn(fmt.Errorf("storage: load %q: stored type %s does not match parameter type %s: %w",
					path, typ, param.Type, registry.ErrInvalid))
				return nil
			}

			if err := r.reg.Set(inst, param, raw); err != nil {
				warn(fmt.Errorf("storage: load %q: %w", path, err))
			}

			return nil
		})
		if err != nil {
			wrapped := fmt.Errorf("storage: source load: %w", err)
			warn(wrapped)

			if firstErr == nil {
				firstErr = wrapped
			}
		}
	}

	return firstErr
}

// saveNode is the per-PARAMETER-node work every rooted save entry point
// shares: resolve the current value, render its path, and hand both to the
// destination. Non-parameter nodes (namespace/schema/instance/group) are
// ignored, matching the export traversal's "save acts only on leaves" rule.
func (r *Registry) saveNode(ctx context.Context) registry.ExportFunc {
	return func(node registry.ExportNode, _ any) error {
		if node.Kind != registry.NodeParameter {
			return nil
		}

		v, err := r.reg.Get(node.Instance, node.Parameter)
		if err != nil {
			return fmt.Errorf("storage: get %q: %w", node.Parameter.Name, err)
		}

		path, err := stringpath.Parameter(node.Instance, node.Parameter)
		if err != nil {
			return fmt.Errorf("storage: path for %q: %w", node.Parameter.Name, err)
		}

		if err := r.dest.Save(ctx, path, v.Type, v.Bytes); err != nil {
			return fmt.Errorf("storage: save %q: %w", path, err)
		}

		return nil
	}
}

// bracketSave wraps walk with the destination's optional SaveStart/SaveEnd
// hooks, and fails immediately with [registry.ErrNoDestination] if none is
// registered. walk is expected to invoke [Registry.saveNode] at every node
// of whichever rooted export call it wraps.
func (r *Registry) bracketSave(ctx context.Context, walk func(registry.ExportFunc) error) error {
	if r.dest == nil {
		return registry.ErrNoDestination
	}

	if starter, ok := r.dest.(SaveStarter); ok {
		if err := starter.SaveStart(ctx); err != nil {
			return fmt.Errorf("storage: save start: %w", err)
		}
	}

	err := walk(r.saveNode(ctx))

	if ender, ok := r.dest.(SaveEnder); ok {
		if endErr := ender.SaveEnd(ctx); endErr != nil && err == nil {
			err = fmt.Errorf("storage: save end: %w", endErr)
		}
	}

	return err
}

// Save exports every parameter in the wrapped registry and writes it to the
// registered destination. It returns [registry.ErrNoDestination] if none is
// registered. A destination that implements [SaveStarter]/[SaveEnder] has
// those hooks called bracketing the export.
func (r *Registry) Save(ctx context.Context) error {
	return r.bracketSave(ctx, func(cb registry.ExportFunc) error {
		return r.reg.Export(cb, 0, nil)
	})
}

// SaveNamespace saves every parameter reachable from ns.
func (r *Registry) SaveNamespace(ctx context.Context, ns *registry.Namespace) error {
	return r.bracketSave(ctx, func(cb registry.ExportFunc) error {
		return r.reg.ExportNamespace(ns, cb, 0, nil)
	})
}

// SaveSchema saves every parameter reachable from schema.
func (r *Registry) SaveSchema(ctx context.Context, schema *registry.Schema) error {
	return r.bracketSave(ctx, func(cb registry.ExportFunc) error {
		return r.reg.ExportSchema(schema, cb, 0, nil)
	})
}

// SaveInstance saves every parameter reachable from instance.
func (r *Registry) SaveInstance(ctx context.Context, instance *registry.Instance) error {
	return r.bracketSave(ctx, func(cb registry.ExportFunc) error {
		return r.reg.ExportInstance(instance, cb, 0, nil)
	})
}

// SaveGroup saves every parameter reachable from group, scoped to instance.
func (r *Registry) SaveGroup(ctx context.Context, instance *registry.Instance, group *registry.Group) error {
	return r.bracketSave(ctx, func(cb registry.ExportFunc) error {
		return r.reg.ExportGroup(instance, group, cb, 0, nil)
	})
}

// SaveParameter saves a single parameter, scoped to instance.
func (r *Registry) SaveParameter(ctx context.Context, instance *registry.Instance, parameter *registry.Parameter) error {
	return r.bracketSave(ctx, func(cb registry.ExportFunc) error {
		return r.reg.ExportParameter(instance, parameter, cb, 0, nil)
	})
}
