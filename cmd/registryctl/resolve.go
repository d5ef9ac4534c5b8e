package main

import (
	"strings"

	"go.deviceregistry.dev/registry"
	"go.deviceregistry.dev/registry/stringpath"
)

// node is whichever graph level a shell path resolved to. Only the fields
// matching Kind are populated; callers switch on Kind before touching the
// rest.
type node struct {
	Kind      registry.NodeKind
	Namespace *registry.Namespace
	Schema    *registry.Schema
	Instance  *registry.Instance
	Group     *registry.Group
	Parameter *registry.Parameter
}

// resolve walks path against r, picking the rooted lookup that matches its
// segment count: "/ns" is a namespace, "/ns/schema" a schema,
// "/ns/schema/inst" an instance, and anything deeper a group or parameter
// inside that instance.
func resolve(r *registry.Registry, path string) (node, error) {
	segs := strings.Split(strings.TrimPrefix(path, "/"), "/")

	switch len(segs) {
	case 0, 1:
		ns, err := stringpath.ToNamespace(r, path)
		if err != nil {
			return node{}, err
		}

		return node{Kind: registry.NodeNamespace, Namespace: ns}, nil

	case 2:
		ns, s, err := stringpath.ToSchema(r, path)
		if err != nil {
			return node{}, err
		}

		return node{Kind: registry.NodeSchema, Namespace: ns, Schema: s}, nil

	case 3:
		ns, s, inst, err := stringpath.ToInstance(r, path)
		if err != nil {
			return node{}, err
		}

		return node{Kind: registry.NodeInstance, Namespace: ns, Schema: s, Instance: inst}, nil

	default:
		inst, kind, group, param, err := stringpath.ToGroupOrParameter(r, path)
		if err != nil {
			return node{}, err
		}

		return node{Kind: kind, Schema: inst.Schema, Instance: inst, Group: group, Parameter: param}, nil
	}
}
