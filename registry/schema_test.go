package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.deviceregistry.dev/registry"
)

func noopMapping(uint32, *registry.Instance) ([]byte, error) { return nil, nil }

func TestSchemaGroupOrParameterIDsAreDenseAndShared(t *testing.T) {
	t.Parallel()

	s := registry.NewSchema(0, "rgb-led", "", noopMapping)

	p0 := s.AddParameter("r", "", registry.TypeUint8, registry.Constraint{})
	g0 := s.AddGroup("calibration", "")
	p1 := s.AddParameter("g", "", registry.TypeUint8, registry.Constraint{})
	p2 := g0.AddParameter("offset", "", registry.TypeInt8, registry.Constraint{})
	g1 := g0.AddGroup("nested", "")
	p3 := g1.AddParameter("scale", "", registry.TypeFloat32, registry.Constraint{})

	// Group and parameter ids share one flat, dense, insertion-ordered
	// space scoped to the schema, regardless of nesting depth.
	assert.Equal(t, uint32(0), p0.ID)
	assert.Equal(t, uint32(1), g0.ID)
	assert.Equal(t, uint32(2), p1.ID)
	assert.Equal(t, uint32(3), p2.ID)
	assert.Equal(t, uint32(4), g1.ID)
	assert.Equal(t, uint32(5), p3.ID)
}

func TestRegistryNamespaceIDsAreDenseInRegistrationOrder(t *testing.T) {
	t.Parallel()

	r := registry.New()

	sys := &registry.Namespace{Name: "sys"}
	app := &registry.Namespace{Name: "app"}

	require.NoError(t, r.RegisterNamespace(sys))
	require.NoError(t, r.RegisterNamespace(app))

	assert.Equal(t, uint32(0), sys.ID)
	assert.Equal(t, uint32(1), app.ID)
}

func TestRegistryNamespaceDuplicateNameRejected(t *testing.T) {
	t.Parallel()

	r := registry.New()

	require.NoError(t, r.RegisterNamespace(&registry.Namespace{Name: "sys"}))
	err := r.RegisterNamespace(&registry.Namespace{Name: "sys"})
	require.ErrorIs(t, err, registry.ErrAlreadyRegistered)
}

func TestSchemaInstanceIDsAreDenseInAdditionOrder(t *testing.T) {
	t.Parallel()

	r := registry.New()
	s := registry.NewSchema(0, "rgb-led", "", noopMapping)

	first := &registry.Instance{Name: "led0"}
	second := &registry.Instance{Name: "led1"}

	require.NoError(t, r.AddSchemaInstance(s, first))
	require.NoError(t, r.AddSchemaInstance(s, second))

	assert.Equal(t, uint32(0), first.ID)
	assert.Equal(t, uint32(1), second.ID)
	assert.Same(t, s, first.Schema)
	assert.Equal(t, []*registry.Instance{first, second}, s.Instances())
}

func TestRegistryFindLookupsByIDAndName(t *testing.T) {
	t.Parallel()

	r := registry.New()
	ns := &registry.Namespace{Name: "sys"}
	require.NoError(t, r.RegisterNamespace(ns))

	s := registry.NewSchema(0, "rgb-led", "", noopMapping)
	ns.Schemas = append(ns.Schemas, s)

	inst := &registry.Instance{Name: "led0"}
	require.NoError(t, r.AddSchemaInstance(s, inst))

	got, err := r.FindNamespaceByName("sys")
	require.NoError(t, err)
	assert.Same(t, ns, got)

	gotSchema, err := registry.FindSchemaByName(ns, "rgb-led")
	require.NoError(t, err)
	assert.Same(t, s, gotSchema)

	gotInst, err := registry.FindInstance(s, 0)
	require.NoError(t, err)
	assert.Same(t, inst, gotInst)

	_, err = r.FindNamespaceByName("missing")
	require.ErrorIs(t, err, registry.ErrNotFound)
}
