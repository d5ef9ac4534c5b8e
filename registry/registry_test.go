package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.deviceregistry.dev/registry"
)

// rgbLEDData is the driver-owned memory backing an rgb-led schema instance,
// standing in for what a real driver would embed in its own struct: index 0
// is red, 1 is green, 2 is blue.
type rgbLEDData = [3]byte

func newRGBLEDSchema() *registry.Schema {
	schema := registry.NewSchema(0, "rgb-led", "", nil)
	schema.Mapping = func(paramID uint32, inst *registry.Instance) ([]byte, error) {
		data := inst.Data.(*rgbLEDData)
		if paramID >= uint32(len(data)) {
			return nil, registry.ErrNotFound
		}

		return data[paramID : paramID+1], nil
	}

	schema.AddParameter("r", "", registry.TypeUint8, registry.Constraint{})
	schema.AddParameter("g", "", registry.TypeUint8, registry.Constraint{})
	b0, b1 := 7.0, 18.0
	schema.AddParameter("b", "", registry.TypeUint8, registry.Constraint{Min: &b0, Max: &b1})

	return schema
}

func newInstance(r *registry.Registry, schema *registry.Schema, name string, data *rgbLEDData, commits *[]committed) *registry.Instance {
	inst := &registry.Instance{
		Name: name,
		Data: data,
		Commit: func(scope registry.CommitScope, id *uint32) error {
			*commits = append(*commits, committed{scope: scope, id: id})
			return nil
		},
	}

	if err := r.AddSchemaInstance(schema, inst); err != nil {
		panic(err)
	}

	return inst
}

type committed struct {
	scope registry.CommitScope
	id    *uint32
}

func TestRegistryGetSetRoundTrip(t *testing.T) {
	t.Parallel()

	r := registry.New()
	schema := newRGBLEDSchema()

	data := &rgbLEDData{}
	var commits []committed
	inst := newInstance(r, schema, "led0", data, &commits)

	red := schema.Parameters[0]

	require.NoError(t, r.Set(inst, red, []byte{200}))

	v, err := r.Get(inst, red)
	require.NoError(t, err)
	assert.Equal(t, byte(200), v.Bytes[0])
	assert.Equal(t, byte(200), data[0])
}

func TestRegistrySetConstraintViolationLeavesValueUnchanged(t *testing.T) {
	t.Parallel()

	r := registry.New()
	schema := newRGBLEDSchema()

	data := &rgbLEDData{0, 0, 10}
	var commits []committed
	inst := newInstance(r, schema, "led0", data, &commits)

	blue := schema.Parameters[2]

	err := r.Set(inst, blue, []byte{200}) // out of [7,18] range
	require.ErrorIs(t, err, registry.ErrInvalid)
	assert.Equal(t, byte(10), data[2], "rejected set must not mutate the backing value")
}

func TestRegistrySetGroupParameterRejected(t *testing.T) {
	t.Parallel()

	r := registry.New()
	schema := registry.NewSchema(0, "s", "", noopMapping)
	group := schema.AddGroup("g", "")

	data := &rgbLEDData{}
	var commits []committed
	inst := newInstance(r, schema, "i0", data, &commits)

	groupParam := &registry.Parameter{ID: group.ID, Name: group.Name, Schema: schema, Type: registry.TypeGroup}

	err := r.Set(inst, groupParam, []byte{1})
	require.ErrorIs(t, err, registry.ErrGroupIsNotAParameter)
}

func TestRegistryCommitScopeDispatch(t *testing.T) {
	t.Parallel()

	r := registry.New()
	schema := newRGBLEDSchema()

	data := &rgbLEDData{}
	var commits []committed
	inst := newInstance(r, schema, "led0", data, &commits)

	red := schema.Parameters[0]
	require.NoError(t, r.CommitParameter(inst, red))
	require.Len(t, commits, 1)
	assert.Equal(t, registry.CommitScopeParameter, commits[0].scope)
	assert.Equal(t, red.ID, *commits[0].id)

	commits = nil
	require.NoError(t, r.CommitInstance(inst))
	require.Len(t, commits, 1)
	assert.Equal(t, registry.CommitScopeInstance, commits[0].scope)
	assert.Nil(t, commits[0].id)
}

func TestRegistryCommitWithNilCallbackIsNotAnError(t *testing.T) {
	t.Parallel()

	r := registry.New()
	schema := newRGBLEDSchema()

	inst := &registry.Instance{Name: "led0", Data: &rgbLEDData{}}
	require.NoError(t, r.AddSchemaInstance(schema, inst))

	require.NoError(t, r.CommitInstance(inst))
}

func TestRegistryCommitNamespaceVisitsEveryInstanceDespiteErrors(t *testing.T) {
	t.Parallel()

	r := registry.New()
	ns := &registry.Namespace{Name: "sys"}
	require.NoError(t, r.RegisterNamespace(ns))

	schema := newRGBLEDSchema()
	ns.Schemas = append(ns.Schemas, schema)

	var order []string

	failing := &registry.Instance{
		Name: "bad", Data: &rgbLEDData{},
		Commit: func(registry.CommitScope, *uint32) error {
			order = append(order, "bad")
			return registry.ErrInvalid
		},
	}
	ok := &registry.Instance{
		Name: "good", Data: &rgbLEDData{},
		Commit: func(registry.CommitScope, *uint32) error {
			order = append(order, "good")
			return nil
		},
	}

	require.NoError(t, r.AddSchemaInstance(schema, failing))
	require.NoError(t, r.AddSchemaInstance(schema, ok))

	err := r.CommitNamespace(ns)
	require.ErrorIs(t, err, registry.ErrInvalid)
	assert.Equal(t, []string{"bad", "good"}, order, "one failing instance must not skip its siblings")
}
