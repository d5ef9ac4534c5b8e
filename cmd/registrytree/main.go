// Command registrytree is a read-only, interactive tree browser over a
// device configuration registry: an alternative frontend to
// cmd/registryctl's "export" verb, navigated instead of printed.
package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"

	"go.deviceregistry.dev/registry/examples/demo"
	"go.deviceregistry.dev/registry/registrylog"
)

func main() {
	os.Exit(run())
}

func run() int {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "registrytree: stdout is not a terminal")
		return 1
	}

	pub := registrylog.NewPublisher()
	defer pub.Close()

	handler, err := registrylog.CreateHandlerWithStrings(pub, "info", "logfmt")
	if err != nil {
		fmt.Fprintf(os.Stderr, "registrytree: %v\n", err)
		return 1
	}

	reg, _ := demo.Build(slog.New(handler))

	p := tea.NewProgram(newModel(reg, pub))

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "registrytree: %v\n", err)
		return 1
	}

	return 0
}
