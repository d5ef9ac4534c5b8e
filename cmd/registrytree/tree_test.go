package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.deviceregistry.dev/registry/examples/demo"
)

func TestBuildLinesIncludesEveryLevel(t *testing.T) {
	t.Parallel()

	reg, _ := demo.Build(slog.Default())
	lines := buildLines(reg)

	require.NotEmpty(t, lines)

	var sawParameterValue bool

	for _, l := range lines {
		if l.depth == 0 {
			assert.Contains(t, l.text, "namespace")
		}

		if l.text == "(0 parameter) red = 0" {
			sawParameterValue = true
		}
	}

	assert.True(t, sawParameterValue, "expected a rendered parameter line with its current value")
}

func TestVisibleIndicesHidesCollapsedSubtree(t *testing.T) {
	t.Parallel()

	lines := []line{
		{depth: 0, text: "root"},
		{depth: 1, text: "child-a"},
		{depth: 2, text: "grandchild"},
		{depth: 1, text: "child-b"},
	}

	collapsed := map[int]bool{1: true}

	visible := visibleIndices(lines, collapsed)
	assert.Equal(t, []int{0, 1, 3}, visible, "collapsing child-a should hide grandchild but not child-b")
}
