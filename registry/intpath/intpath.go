// Package intpath encodes and decodes registry graph locations as tuples of
// the dense integer ids the registry assigns at registration time. Unlike
// [stringpath], int paths never allocate or parse text, at the cost of being
// meaningless outside the process that assigned the ids.
package intpath

import (
	"fmt"

	"go.deviceregistry.dev/registry"
)

// Namespace identifies a namespace by id.
type Namespace struct {
	NamespaceID uint32
}

// Schema identifies a schema by (namespace, schema) id.
type Schema struct {
	NamespaceID uint32
	SchemaID    uint32
}

// Instance identifies an instance by (namespace, schema, instance) id.
type Instance struct {
	NamespaceID uint32
	SchemaID    uint32
	InstanceID  uint32
}

// Group identifies a group by (namespace, schema, instance, group) id. The
// instance is part of the path because groups themselves carry no value;
// only an instance's occurrence of a group is ever addressed.
type Group struct {
	NamespaceID uint32
	SchemaID    uint32
	InstanceID  uint32
	GroupID     uint32
}

// Parameter identifies a parameter by (namespace, schema, instance,
// parameter) id.
type Parameter struct {
	NamespaceID uint32
	SchemaID    uint32
	InstanceID  uint32
	ParameterID uint32
}

// FromNamespace builds the int path of ns.
func FromNamespace(ns *registry.Namespace) Namespace {
	return Namespace{NamespaceID: ns.ID}
}

// FromSchema builds the int path of s.
func FromSchema(s *registry.Schema) Schema {
	return Schema{NamespaceID: s.Namespace.ID, SchemaID: s.ID}
}

// FromInstance builds the int path of inst.
func FromInstance(inst *registry.Instance) Instance {
	return Instance{
		NamespaceID: inst.Schema.Namespace.ID,
		SchemaID:    inst.Schema.ID,
		InstanceID:  inst.ID,
	}
}

// FromGroup builds the int path of group, scoped to inst.
func FromGroup(inst *registry.Instance, group *registry.Group) Group {
	return Group{
		NamespaceID: inst.Schema.Namespace.ID,
		SchemaID:    inst.Schema.ID,
		InstanceID:  inst.ID,
		GroupID:     group.ID,
	}
}

// FromParameter builds the int path of parameter, scoped to inst.
func FromParameter(inst *registry.Instance, parameter *registry.Parameter) Parameter {
	return Parameter{
		NamespaceID: inst.Schema.Namespace.ID,
		SchemaID:    inst.Schema.ID,
		InstanceID:  inst.ID,
		ParameterID: parameter.ID,
	}
}

// ToNamespace resolves path against r.
func ToNamespace(r *registry.Registry, path Namespace) (*registry.Namespace, error) {
	return r.FindNamespace(path.NamespaceID)
}

// ToSchema resolves path against r.
func ToSchema(r *registry.Registry, path Schema) (*registry.Namespace, *registry.Schema, error) {
	ns, err := r.FindNamespace(path.NamespaceID)
	if err != nil {
		return nil, nil, err
	}

	s, err := registry.FindSchema(ns, path.SchemaID)
	if err != nil {
		return ns, nil, err
	}

	return ns, s, nil
}

// ToInstance resolves path against r.
func ToInstance(r *registry.Registry, path Instance) (*registry.Namespace, *registry.Schema, *registry.Instance, error) {
	ns, s, err := ToSchema(r, Schema{NamespaceID: path.NamespaceID, SchemaID: path.SchemaID})
	if err != nil {
		return ns, s, nil, err
	}

	inst, err := registry.FindInstance(s, path.InstanceID)
	if err != nil {
		return ns, s, nil, err
	}

	return ns, s, inst, nil
}

// ToGroup resolves path against r.
func ToGroup(r *registry.Registry, path Group) (*registry.Namespace, *registry.Schema, *registry.Instance, *registry.Group, error) {
	ns, s, inst, err := ToInstance(r, Instance{
		NamespaceID: path.NamespaceID, SchemaID: path.SchemaID, InstanceID: path.InstanceID,
	})
	if err != nil {
		return ns, s, inst, nil, err
	}

	g, err := s.FindGroup(path.GroupID)
	if err != nil {
		return ns, s, inst, nil, fmt.Errorf("intpath: %w", err)
	}

	return ns, s, inst, g, nil
}

// ToParameter resolves path against r.
func ToParameter(r *registry.Registry, path Parameter) (*registry.Namespace, *registry.Schema, *registry.Instance, *registry.Parameter, error) {
	ns, s, inst, err := ToInstance(r, Instance{
		NamespaceID: path.NamespaceID, SchemaID: path.SchemaID, InstanceID: path.InstanceID,
	})
	if err != nil {
		return ns, s, inst, nil, err
	}

	p, err := s.FindParameter(path.ParameterID)
	if err != nil {
		return ns, s, inst, nil, fmt.Errorf("intpath: %w", err)
	}

	return ns, s, inst, p, nil
}
