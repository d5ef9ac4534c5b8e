package registry

// ExportNode is passed to an [ExportFunc] at every graph node visited by a
// traversal. Only the fields relevant to Kind are populated; for
// NodeParameter, Instance is also set so the callback can call
// [Registry.Get] to obtain the parameter's current value.
type ExportNode struct {
	Kind      NodeKind
	Namespace *Namespace
	Schema    *Schema
	Instance  *Instance
	Group     *Group
	Parameter *Parameter

	// Depth is this node's distance from the root of the rooted export
	// call that produced it (the root itself is depth 0).
	Depth int
}

// Name returns the node's human-readable name, regardless of kind.
func (n ExportNode) Name() string {
	switch n.Kind {
	case NodeNamespace:
		return n.Namespace.Name
	case NodeSchema:
		return n.Schema.Name
	case NodeInstance:
		return n.Instance.Name
	case NodeGroup:
		return n.Group.Name
	case NodeParameter:
		return n.Parameter.Name
	default:
		return ""
	}
}

// ID returns the node's stable identifier, regardless of kind.
func (n ExportNode) ID() uint32 {
	switch n.Kind {
	case NodeNamespace:
		return n.Namespace.ID
	case NodeSchema:
		return n.Schema.ID
	case NodeInstance:
		return n.Instance.ID
	case NodeGroup:
		return n.Group.ID
	case NodeParameter:
		return n.Parameter.ID
	default:
		return 0
	}
}

// ExportFunc is invoked at every node an export traversal visits. A
// non-nil error does not stop the traversal: siblings and the rest of the
// graph are still visited, and the first non-nil error is returned to the
// top-level caller once the whole traversal completes.
type ExportFunc func(node ExportNode, context any) error

// frame is one pending unit of work in the iterative export walk: a node
// plus its depth from the walk's root. Using an explicit stack instead of
// plain recursion means a pathologically deep group nesting cannot
// overflow the Go call stack.
type frame struct {
	kind     NodeKind
	ns       *Namespace
	schema   *Schema
	instance *Instance
	group    *Group
	param    *Parameter
	depth    int
}

func (f frame) node() ExportNode {
	return ExportNode{
		Kind: f.kind, Namespace: f.ns, Schema: f.schema,
		Instance: f.instance, Group: f.group, Parameter: f.param, Depth: f.depth,
	}
}

// children returns f's direct children in declaration/insertion order:
// namespace → schemas, schema → instances, instance → schema's groups then
// top-level parameters, group → sub-groups then parameters.
func (f frame) children() []frame {
	next := f.depth + 1

	switch f.kind {
	case NodeNamespace:
		out := make([]frame, 0, len(f.ns.Schemas))
		for _, s := range f.ns.Schemas {
			out = append(out, frame{kind: NodeSchema, ns: f.ns, schema: s, depth: next})
		}

		return out

	case NodeSchema:
		out := make([]frame, 0, len(f.schema.instances))
		for _, inst := range f.schema.instances {
			out = append(out, frame{kind: NodeInstance, ns: f.ns, schema: f.schema, instance: inst, depth: next})
		}

		return out

	case NodeInstance:
		var out []frame
		for _, g := range f.instance.Schema.Groups {
			out = append(out, frame{kind: NodeGroup, ns: f.ns, schema: f.schema, instance: f.instance, group: g, depth: next})
		}

		for _, p := range f.instance.Schema.Parameters {
			out = append(out, frame{kind: NodeParameter, ns: f.ns, schema: f.schema, instance: f.instance, param: p, depth: next})
		}

		return out

	case NodeGroup:
		var out []frame
		for _, g := range f.group.Groups {
			out = append(out, frame{kind: NodeGroup, ns: f.ns, schema: f.schema, instance: f.instance, group: g, depth: next})
		}

		for _, p := range f.group.Parameters {
			out = append(out, frame{kind: NodeParameter, ns: f.ns, schema: f.schema, instance: f.instance, param: p, depth: next})
		}

		return out

	default: // NodeParameter has no children
		return nil
	}
}

// walk runs an iterative depth-first traversal rooted at root, bounded by
// maxDepth (0 = unlimited; 1 = root only; n>1 = root plus n-1 more levels).
// A callback error is remembered but never stops the walk; the first one
// is returned once every node has been visited.
func walk(root frame, maxDepth int, cb ExportFunc, ctx any) error {
	var firstErr error

	stack := []frame{root}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if maxDepth != 0 && f.depth >= maxDepth {
			continue
		}

		if err := cb(f.node(), ctx); err != nil && firstErr == nil {
			firstErr = err
		}

		children := f.children()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}

	return firstErr
}

// Export walks every namespace in the registry, depth-first, invoking cb at
// every node. See [ExportNamespace] for depth semantics.
func (r *Registry) Export(cb ExportFunc, depth int, ctx any) error {
	var firstErr error

	for _, ns := range r.namespaces {
		if err := r.ExportNamespace(ns, cb, depth, ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// ExportNamespace walks ns and everything beneath it. depth bounds how many
// levels are visited relative to ns: 0 is unlimited, 1 visits only ns
// itself, n>1 visits ns plus n-1 more levels.
func (r *Registry) ExportNamespace(ns *Namespace, cb ExportFunc, depth int, ctx any) error {
	return walk(frame{kind: NodeNamespace, ns: ns}, depth, cb, ctx)
}

// ExportSchema walks schema and everything beneath it (its instances, and
// each instance's groups/parameters). depth is relative to schema.
func (r *Registry) ExportSchema(schema *Schema, cb ExportFunc, depth int, ctx any) error {
	return walk(frame{kind: NodeSchema, ns: schema.Namespace, schema: schema}, depth, cb, ctx)
}

// ExportInstance walks instance and everything beneath it (its schema's
// groups and top-level parameters). depth is relative to instance.
func (r *Registry) ExportInstance(instance *Instance, cb ExportFunc, depth int, ctx any) error {
	schema := instance.Schema

	var ns *Namespace
	if schema != nil {
		ns = schema.Namespace
	}

	return walk(frame{kind: NodeInstance, ns: ns, schema: schema, instance: instance}, depth, cb, ctx)
}

// ExportGroup walks group (scoped to instance) and everything beneath it.
// depth is relative to group.
func (r *Registry) ExportGroup(instance *Instance, group *Group, cb ExportFunc, depth int, ctx any) error {
	schema := group.Schema

	var ns *Namespace
	if schema != nil {
		ns = schema.Namespace
	}

	return walk(frame{kind: NodeGroup, ns: ns, schema: schema, instance: instance, group: group}, depth, cb, ctx)
}

// ExportParameter invokes cb once, for parameter scoped to instance.
// Parameters have no children, so depth has no effect beyond 0 (no-op).
func (r *Registry) ExportParameter(instance *Instance, parameter *Parameter, cb ExportFunc, depth int, ctx any) error {
	schema := parameter.Schema

	var ns *Namespace
	if schema != nil {
		ns = schema.Namespace
	}

	return walk(frame{kind: NodeParameter, ns: ns, schema: schema, instance: instance, param: parameter}, depth, cb, ctx)
}
