package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.deviceregistry.dev/registry"
	"go.deviceregistry.dev/registry/examples/rgbled"
	"go.deviceregistry.dev/registry/storage"
	"go.deviceregistry.dev/registry/stringtest"
)

func buildTestApp(t *testing.T) (*app, *registry.Instance) {
	t.Helper()

	r := registry.New()
	ns := &registry.Namespace{Name: "sys"}

	schema := rgbled.NewSchema(ns)
	require.NoError(t, r.RegisterNamespace(ns))

	inst, _ := rgbled.NewInstance("led0")
	require.NoError(t, r.AddSchemaInstance(schema, inst))

	return &app{reg: r, storage: storage.New(r), out: &bytes.Buffer{}}, inst
}

func TestGetSetRoundTrip(t *testing.T) {
	t.Parallel()

	a, _ := buildTestApp(t)

	setCmd := newSetCmd(a)
	require.NoError(t, setCmd.RunE(setCmd, []string{"/sys/rgb-led/led0/red", "200"}))

	getCmd := newGetCmd(a)
	require.NoError(t, getCmd.RunE(getCmd, []string{"/sys/rgb-led/led0/red"}))

	assert.Equal(t, "200\n", a.out.(*bytes.Buffer).String())
}

func TestGetOnGroupFails(t *testing.T) {
	t.Parallel()

	a, _ := buildTestApp(t)

	getCmd := newGetCmd(a)
	err := getCmd.RunE(getCmd, []string{"/sys/rgb-led/led0/brightnesses"})
	require.ErrorIs(t, err, registry.ErrGroupIsNotAParameter)
	assert.Equal(t, "error: group_is_not_a_parameter\n", a.out.(*bytes.Buffer).String())
}

func TestGetUnknownPathFails(t *testing.T) {
	t.Parallel()

	a, _ := buildTestApp(t)

	getCmd := newGetCmd(a)
	err := getCmd.RunE(getCmd, []string{"/sys/rgb-led/led0/nope"})
	require.ErrorIs(t, err, registry.ErrNotFound)
	assert.Equal(t, "error: not_found\n", a.out.(*bytes.Buffer).String())
}

func TestCommitInstanceRecordsCommit(t *testing.T) {
	t.Parallel()

	a, inst := buildTestApp(t)

	commitCmd := newCommitCmd(a)
	require.NoError(t, commitCmd.RunE(commitCmd, []string{"/sys/rgb-led/led0"}))

	data := inst.Data.(*rgbled.Data)
	assert.Equal(t, 1, data.CommitCount())
}

func TestExportPrintsEveryNode(t *testing.T) {
	t.Parallel()

	a, _ := buildTestApp(t)

	exportCmd := newExportCmd(a)
	require.NoError(t, exportCmd.RunE(exportCmd, nil))

	want := stringtest.JoinLF(
		"(0 namespace) sys",
		"  (0 schema) rgb-led",
		"    (0 instance) led0",
		"      (3 group) brightnesses",
		"        (4 parameter) white",
		"        (5 parameter) yellow",
		"      (0 parameter) red",
		"      (1 parameter) green",
		"      (2 parameter) blue",
	) + "\n"

	assert.Equal(t, want, a.out.(*bytes.Buffer).String())
}

func TestSaveThenLoadRoundTripsThroughFile(t *testing.T) {
	t.Parallel()

	a, inst := buildTestApp(t)
	path := filepath.Join(t.TempDir(), "state.yaml")

	require.NoError(t, a.reg.Set(inst, inst.Schema.Parameters[0], []byte{9}))

	saveCmd := newSaveCmd(a)
	require.NoError(t, saveCmd.RunE(saveCmd, []string{path}))

	require.FileExists(t, path)

	a2, inst2 := buildTestApp(t)

	loadCmd := newLoadCmd(a2)
	require.NoError(t, loadCmd.RunE(loadCmd, []string{path}))

	got, err := a2.reg.Get(inst2, inst2.Schema.Parameters[0])
	require.NoError(t, err)
	assert.Equal(t, byte(9), got.Bytes[0])
}

func TestSaveWithNoDestinationWiredManuallyFails(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := registry.New()
	ns := &registry.Namespace{Name: "sys"}
	schema := rgbled.NewSchema(ns)
	require.NoError(t, r.RegisterNamespace(ns))
	inst, _ := rgbled.NewInstance("led0")
	require.NoError(t, r.AddSchemaInstance(schema, inst))

	st := storage.New(r)
	err := st.Save(ctx)
	require.ErrorIs(t, err, registry.ErrNoDestination)
}
