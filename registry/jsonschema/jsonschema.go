// Package jsonschema converts a registry [registry.Schema]'s parameter
// metadata into a draft-7 JSON Schema document, for tooling and
// documentation purposes. This is new surface the original C registry never
// had — it has no reflection over its static schema tables — but it is the
// natural Go-ecosystem way to publish a schema's shape for documentation or
// a future network frontend.
package jsonschema

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"go.deviceregistry.dev/registry"
)

// FromSchema walks s's groups and parameters and produces a draft-7 JSON
// Schema document describing its shape: each [registry.Group] becomes a
// nested object property, each [registry.Parameter] becomes a scalar
// property typed from its primitive [registry.Type], with minimum, maximum,
// and enum populated from the parameter's [registry.Constraint].
func FromSchema(s *registry.Schema) *jsonschema.Schema {
	return &jsonschema.Schema{
		Title:       s.Name,
		Description: s.Description,
		Type:        "object",
		Properties:  nodeProperties(s.Groups, s.Parameters),
	}
}

func nodeProperties(groups []*registry.Group, params []*registry.Parameter) map[string]*jsonschema.Schema {
	if len(groups) == 0 && len(params) == 0 {
		return nil
	}

	props := make(map[string]*jsonschema.Schema, len(groups)+len(params))

	for _, g := range groups {
		props[g.Name] = &jsonschema.Schema{
			Type:        "object",
			Description: g.Description,
			Properties:  nodeProperties(g.Groups, g.Parameters),
		}
	}

	for _, p := range params {
		props[p.Name] = parameterSchema(p)
	}

	return props
}

// parameterSchema describes a single leaf parameter. Allow-list candidates
// that fail to render as strings (e.g. a malformed fixed-width constraint)
// are skipped rather than aborting the whole document — this function never
// fails, since it only describes already-validated static schema metadata.
func parameterSchema(p *registry.Parameter) *jsonschema.Schema {
	s := &jsonschema.Schema{
		Type:        jsonType(p.Type),
		Description: p.Description,
	}

	if p.Constraint.Min != nil {
		s.Minimum = jsonschema.Ptr(*p.Constraint.Min)
	}

	if p.Constraint.Max != nil {
		s.Maximum = jsonschema.Ptr(*p.Constraint.Max)
	}

	for _, raw := range p.Constraint.Allow {
		v, err := registry.ConvertValueToString(registry.Value{Type: p.Type, Bytes: raw})
		if err != nil {
			continue
		}

		s.Enum = append(s.Enum, enumValue(p.Type, v))
	}

	return s
}

// enumValue renders an allow-listed candidate as the Go type json.Marshal
// would pick for this parameter's JSON Schema type, so Enum entries match
// the declared Type instead of always being strings.
func enumValue(typ registry.Type, s string) any {
	switch jsonType(typ) {
	case "boolean":
		return s == "true"
	case "integer", "number":
		return json.Number(s)
	default:
		return s
	}
}

func jsonType(typ registry.Type) string {
	switch typ {
	case registry.TypeBool:
		return "boolean"
	case registry.TypeString, registry.TypeOpaque:
		return "string"
	case registry.TypeUint8, registry.TypeUint16, registry.TypeUint32, registry.TypeUint64,
		registry.TypeInt8, registry.TypeInt16, registry.TypeInt32, registry.TypeInt64:
		return "integer"
	case registry.TypeFloat32, registry.TypeFloat64:
		return "number"
	case registry.TypeGroup:
		return "object"
	default:
		return fmt.Sprintf("unknown(%s)", typ)
	}
}
