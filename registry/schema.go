package registry

import "fmt"

// NodeKind identifies what kind of graph node a value refers to, used by
// [Export] callbacks and path encoders.
type NodeKind int

const (
	NodeNamespace NodeKind = iota
	NodeSchema
	NodeInstance
	NodeGroup
	NodeParameter
)

func (k NodeKind) String() string {
	switch k {
	case NodeNamespace:
		return "namespace"
	case NodeSchema:
		return "schema"
	case NodeInstance:
		return "instance"
	case NodeGroup:
		return "group"
	case NodeParameter:
		return "parameter"
	default:
		return "unknown"
	}
}

// Namespace is a root bucket partitioning schemas by origin (e.g. "sys",
// "app", "tests"). Namespaces are declared once and live for the process;
// ID is assigned by [Registry.RegisterNamespace] in registration order.
type Namespace struct {
	ID          uint32
	Name        string
	Description string
	Schemas     []*Schema
}

// Group is a named non-leaf node inside a schema. Groups may nest
// arbitrarily and own ordered sub-groups and sub-parameters; groups carry
// no value of their own.
type Group struct {
	ID          uint32
	Name        string
	Description string
	Schema      *Schema
	Groups      []*Group
	Parameters  []*Parameter
}

// Parameter is a leaf node of a schema: it has a primitive type and
// optional constraints, but its value lives inside each [Instance], not on
// the Parameter itself.
type Parameter struct {
	ID          uint32
	Name        string
	Description string
	Schema      *Schema
	Type        Type
	Constraint  Constraint
}

// MappingFunc resolves a parameter's current byte window inside an
// instance's driver data. It is the one extension point every [Schema]
// must implement; the registry never itself knows the layout of a driver's
// struct.
//
// The callback must be pure (no side effects) and must return a window
// that remains valid for the instance's lifetime. The returned length must
// equal the parameter's natural type size (or, for string/opaque, the
// fixed maximum buffer).
type MappingFunc func(paramID uint32, inst *Instance) ([]byte, error)

// Schema is the static shape of one configurable kind (e.g. "rgb-led"):
// name, description, the namespace it belongs to, ordered top-level groups
// and parameters, a mapping callback, and the list of its instances.
//
// Schemas are declared once at startup and never mutated afterward.
type Schema struct {
	ID          uint32
	Name        string
	Description string
	Namespace   *Namespace
	Groups      []*Group
	Parameters  []*Parameter
	Mapping     MappingFunc

	instances []*Instance

	// nextNodeID issues the shared group-or-parameter id space. Call
	// AddGroup/AddParameter instead of constructing nodes directly so this
	// stays dense.
	nextNodeID uint32
}

// NewSchema constructs an empty schema with the given id. Schema IDs are
// assigned at declaration time by the caller, matching the static,
// compile-time-declared nature of the original C schema tables. The
// schema's Namespace is set when it is linked by
// [Registry.RegisterNamespace] or [Registry.AddSchemaInstance].
func NewSchema(id uint32, name, description string, mapping MappingFunc) *Schema {
	return &Schema{
		ID:          id,
		Name:        name,
		Description: description,
		Mapping:     mapping,
	}
}

// AddGroup appends a new top-level group to the schema and returns it,
// assigning it the next id in the schema's shared group-or-parameter id
// space.
func (s *Schema) AddGroup(name, description string) *Group {
	g := &Group{ID: s.nextNodeID, Name: name, Description: description, Schema: s}
	s.nextNodeID++
	s.Groups = append(s.Groups, g)

	return g
}

// AddParameter appends a new top-level parameter to the schema and returns
// it, assigning it the next id in the schema's shared group-or-parameter id
// space.
func (s *Schema) AddParameter(name, description string, typ Type, c Constraint) *Parameter {
	p := &Parameter{ID: s.nextNodeID, Name: name, Description: description, Schema: s, Type: typ, Constraint: c}
	s.nextNodeID++
	s.Parameters = append(s.Parameters, p)

	return p
}

// AddGroup appends a nested sub-group to g, sharing its schema's
// group-or-parameter id space.
func (g *Group) AddGroup(name, description string) *Group {
	child := &Group{ID: g.Schema.nextNodeID, Name: name, Description: description, Schema: g.Schema}
	g.Schema.nextNodeID++
	g.Groups = append(g.Groups, child)

	return child
}

// AddParameter appends a parameter to g, sharing its schema's
// group-or-parameter id space.
func (g *Group) AddParameter(name, description string, typ Type, c Constraint) *Parameter {
	p := &Parameter{ID: g.Schema.nextNodeID, Name: name, Description: description, Schema: g.Schema, Type: typ, Constraint: c}
	g.Schema.nextNodeID++
	g.Parameters = append(g.Parameters, p)

	return p
}

// Instances returns the schema's registered instances in insertion order.
func (s *Schema) Instances() []*Instance {
	return s.instances
}

// findParameter looks up a parameter by id anywhere in the schema's group
// tree: the schema's own parameters first, then each group depth-first.
func (s *Schema) findParameter(id uint32) (*Parameter, error) {
	for _, p := range s.Parameters {
		if p.ID == id {
			return p, nil
		}
	}

	for _, g := range s.Groups {
		if p, err := g.findParameter(id); err == nil {
			return p, nil
		}
	}

	return nil, fmt.Errorf("registry: parameter id %d in schema %q: %w", id, s.Name, ErrNotFound)
}

func (g *Group) findParameter(id uint32) (*Parameter, error) {
	for _, p := range g.Parameters {
		if p.ID == id {
			return p, nil
		}
	}

	for _, child := range g.Groups {
		if p, err := child.findParameter(id); err == nil {
			return p, nil
		}
	}

	return nil, fmt.Errorf("registry: parameter id %d in group %q: %w", id, g.Name, ErrNotFound)
}

// FindParameter looks up a parameter by id anywhere in the schema's group
// tree: the schema's own parameters first, then each group depth-first.
func (s *Schema) FindParameter(id uint32) (*Parameter, error) {
	return s.findParameter(id)
}

// FindGroup looks up a group by id anywhere in the schema's group tree.
func (s *Schema) FindGroup(id uint32) (*Group, error) {
	for _, g := range s.Groups {
		if found, err := g.findGroup(id); err == nil {
			return found, nil
		}
	}

	return nil, fmt.Errorf("registry: group id %d in schema %q: %w", id, s.Name, ErrNotFound)
}

func (g *Group) findGroup(id uint32) (*Group, error) {
	if g.ID == id {
		return g, nil
	}

	for _, child := range g.Groups {
		if found, err := child.findGroup(id); err == nil {
			return found, nil
		}
	}

	return nil, fmt.Errorf("registry: group id %d: %w", id, ErrNotFound)
}

// findGroupOrParameterNode looks up whichever node (group or parameter)
// owns id within the schema's flat group-or-parameter id space.
func (s *Schema) findGroupOrParameterNode(id uint32) (NodeKind, error) {
	for _, p := range s.Parameters {
		if p.ID == id {
			return NodeParameter, nil
		}
	}

	for _, g := range s.Groups {
		if kind, err := g.findNode(id); err == nil {
			return kind, nil
		}
	}

	return 0, fmt.Errorf("registry: group-or-parameter id %d: %w", id, ErrNotFound)
}

func (g *Group) findNode(id uint32) (NodeKind, error) {
	if g.ID == id {
		return NodeGroup, nil
	}

	for _, p := range g.Parameters {
		if p.ID == id {
			return NodeParameter, nil
		}
	}

	for _, child := range g.Groups {
		if kind, err := child.findNode(id); err == nil {
			return kind, nil
		}
	}

	return 0, fmt.Errorf("registry: group-or-parameter id %d: %w", id, ErrNotFound)
}
