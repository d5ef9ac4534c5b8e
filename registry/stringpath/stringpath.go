// Package stringpath encodes and decodes registry graph locations as
// slash-delimited name paths, e.g. "/sys/rgb-led/led0/calibration/offset".
// Names are looked up by exact segment match; unlike [intpath], a string
// path remains meaningful across registry restarts as long as names are
// stable.
package stringpath

import (
	"fmt"
	"strings"

	"go.deviceregistry.dev/registry"
)

// Namespace renders ns as "/<namespace>".
func Namespace(ns *registry.Namespace) string {
	return "/" + ns.Name
}

// Schema renders s as "/<namespace>/<schema>".
func Schema(s *registry.Schema) string {
	return Namespace(s.Namespace) + "/" + s.Name
}

// Instance renders inst as "/<namespace>/<schema>/<instance>".
func Instance(inst *registry.Instance) string {
	return Schema(inst.Schema) + "/" + inst.Name
}

// Group renders group, scoped to inst, as
// "/<namespace>/<schema>/<instance>/<group>[/<group>...]".
func Group(inst *registry.Instance, group *registry.Group) (string, error) {
	segs, ok := groupSegments(inst.Schema.Groups, group, nil)
	if !ok {
		return "", fmt.Errorf("stringpath: group %q not reachable from schema %q: %w",
			group.Name, inst.Schema.Name, registry.ErrNotFound)
	}

	return Instance(inst) + "/" + strings.Join(segs, "/"), nil
}

// Parameter renders parameter, scoped to inst, as
// "/<namespace>/<schema>/<instance>[/<group>...]/<parameter>".
func Parameter(inst *registry.Instance, parameter *registry.Parameter) (string, error) {
	segs, ok := parameterSegments(inst.Schema.Groups, inst.Schema.Parameters, parameter, nil)
	if !ok {
		return "", fmt.Errorf("stringpath: parameter %q not reachable from schema %q: %w",
			parameter.Name, inst.Schema.Name, registry.ErrNotFound)
	}

	return Instance(inst) + "/" + strings.Join(segs, "/"), nil
}

func groupSegments(groups []*registry.Group, target *registry.Group, prefix []string) ([]string, bool) {
	for _, g := range groups {
		segs := append(append([]string{}, prefix...), g.Name)
		if g == target {
			return segs, true
		}

		if found, ok := groupSegments(g.Groups, target, segs); ok {
			return found, true
		}
	}

	return nil, false
}

func parameterSegments(groups []*registry.Group, params []*registry.Parameter, target *registry.Parameter, prefix []string) ([]string, bool) {
	for _, p := range params {
		if p == target {
			return append(append([]string{}, prefix...), p.Name), true
		}
	}

	for _, g := range groups {
		segs := append(append([]string{}, prefix...), g.Name)
		if found, ok := parameterSegments(g.Groups, g.Parameters, target, segs); ok {
			return found, true
		}
	}

	return nil, false
}

// segments splits path on "/", dropping the leading empty segment a
// rooted path produces.
func segments(path string) []string {
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return nil
	}

	return strings.Split(path, "/")
}

// ToNamespace resolves a "/<namespace>" path against r.
func ToNamespace(r *registry.Registry, path string) (*registry.Namespace, error) {
	segs := segments(path)
	if len(segs) < 1 {
		return nil, fmt.Errorf("stringpath: %q: %w", path, registry.ErrInvalid)
	}

	return r.FindNamespaceByName(segs[0])
}

// ToSchema resolves a "/<namespace>/<schema>" path against r.
func ToSchema(r *registry.Registry, path string) (*registry.Namespace, *registry.Schema, error) {
	segs := segments(path)
	if len(segs) < 2 {
		return nil, nil, fmt.Errorf("stringpath: %q: %w", path, registry.ErrInvalid)
	}

	ns, err := r.FindNamespaceByName(segs[0])
	if err != nil {
		return nil, nil, err
	}

	s, err := registry.FindSchemaByName(ns, segs[1])
	if err != nil {
		return ns, nil, err
	}

	return ns, s, nil
}

// ToInstance resolves a "/<namespace>/<schema>/<instance>" path against r.
func ToInstance(r *registry.Registry, path string) (*registry.Namespace, *registry.Schema, *registry.Instance, error) {
	segs := segments(path)
	if len(segs) < 3 {
		return nil, nil, nil, fmt.Errorf("stringpath: %q: %w", path, registry.ErrInvalid)
	}

	ns, s, err := ToSchema(r, "/"+segs[0]+"/"+segs[1])
	if err != nil {
		return ns, s, nil, err
	}

	inst, err := registry.FindInstanceByName(s, segs[2])
	if err != nil {
		return ns, s, nil, err
	}

	return ns, s, inst, nil
}

// ToGroupOrParameter resolves a
// "/<namespace>/<schema>/<instance>/<name>[/<name>...]" path against r,
// walking the instance's schema's group tree by name at each segment. It
// reports which kind of node the final segment named.
func ToGroupOrParameter(r *registry.Registry, path string) (*registry.Instance, registry.NodeKind, *registry.Group, *registry.Parameter, error) {
	segs := segments(path)
	if len(segs) < 4 {
		return nil, 0, nil, nil, fmt.Errorf("stringpath: %q: %w", path, registry.ErrInvalid)
	}

	_, _, inst, err := ToInstance(r, "/"+segs[0]+"/"+segs[1]+"/"+segs[2])
	if err != nil {
		return nil, 0, nil, nil, err
	}

	groups := inst.Schema.Groups
	params := inst.Schema.Parameters

	for i, name := range segs[3:] {
		last := i == len(segs[3:])-1

		if last {
			for _, p := range params {
				if p.Name == name {
					return inst, registry.NodeParameter, nil, p, nil
				}
			}
		}

		var next *registry.Group
		for _, g := range groups {
			if g.Name == name {
				next = g
				break
			}
		}

		if next == nil {
			return nil, 0, nil, nil, fmt.Errorf("stringpath: %q: segment %q: %w", path, name, registry.ErrNotFound)
		}

		if last {
			return inst, registry.NodeGroup, next, nil, nil
		}

		groups = next.Groups
		params = next.Parameters
	}

	return nil, 0, nil, nil, fmt.Errorf("stringpath: %q: %w", path, registry.ErrInvalid)
}
