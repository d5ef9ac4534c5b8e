package main

import (
	"fmt"

	"go.deviceregistry.dev/registry"
)

// line is one row of the flattened, depth-first export walk this program
// renders. Collapsing a line hides every subsequent line whose depth is
// greater than its own, up to the next line at depth <= its own.
type line struct {
	depth int
	text  string
}

// buildLines flattens every namespace in r into a depth-first line list.
// Each label has the same "(id kind) name" form as cmd/registryctl's
// "export" lines; parameter lines additionally show " = <current value>".
func buildLines(r *registry.Registry) []line {
	var lines []line

	_ = r.Export(func(n registry.ExportNode, _ any) error {
		label := fmt.Sprintf("(%d %s) %s", n.ID(), n.Kind, n.Name())

		if n.Kind == registry.NodeParameter {
			if v, err := r.Get(n.Instance, n.Parameter); err == nil {
				if text, err := registry.ConvertValueToString(v); err == nil {
					label = fmt.Sprintf("%s = %s", label, text)
				}
			}
		}

		lines = append(lines, line{depth: n.Depth, text: label})

		return nil
	}, 0, nil)

	return lines
}

// visibleIndices returns the indices into lines that are not hidden beneath
// a collapsed ancestor.
func visibleIndices(lines []line, collapsed map[int]bool) []int {
	var visible []int

	skipDepth := -1

	for i, l := range lines {
		if skipDepth != -1 {
			if l.depth > skipDepth {
				continue
			}

			skipDepth = -1
		}

		visible = append(visible, i)

		if collapsed[i] {
			skipDepth = l.depth
		}
	}

	return visible
}
