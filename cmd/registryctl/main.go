// Command registryctl is a shell over a device configuration registry: get,
// set, and commit parameters, walk the graph with export, and load/save its
// state through a file-backed storage destination.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.deviceregistry.dev/registry/examples/demo"
	"go.deviceregistry.dev/registry/profile"
	"go.deviceregistry.dev/registry/registrylog"
	"go.deviceregistry.dev/registry/version"
)

func main() {
	logCfg := registrylog.NewConfig()
	profileCfg := profile.NewConfig()

	// Peek for --log-config ahead of the real flag parse below, so a
	// config file's level/format become the flags' defaults while an
	// explicit --log-level/--log-format on the command line still wins.
	var logConfigPath string

	peek := pflag.NewFlagSet("registryctl-peek", pflag.ContinueOnError)
	peek.ParseErrorsWhitelist.UnknownFlags = true
	peek.Usage = func() {}
	peek.StringVar(&logConfigPath, "log-config", "", "")
	_ = peek.Parse(os.Args[1:])

	if logConfigPath != "" {
		if err := logCfg.LoadFile(logConfigPath); err != nil {
			fmt.Fprintf(os.Stderr, "registryctl: %v\n", err)
			os.Exit(1)
		}
	}

	rootCmd := &cobra.Command{
		Use:           "registryctl",
		Short:         "Inspect and drive a device configuration registry",
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	var prof *profile.Profiler

	// a is shared by reference with every subcommand's RunE below. Its
	// fields are populated once flags are parsed and PersistentPreRunE
	// runs, before any subcommand body executes.
	a := &app{out: os.Stdout}

	rootCmd.PersistentPreRunE = func(*cobra.Command, []string) error {
		logger, err := logCfg.NewLogger(os.Stderr)
		if err != nil {
			return fmt.Errorf("registryctl: %w", err)
		}

		prof = profileCfg.NewProfiler()
		if err := prof.Start(); err != nil {
			return fmt.Errorf("registryctl: %w", err)
		}

		a.reg, a.storage = demo.Build(logger)

		return nil
	}

	rootCmd.PersistentPostRunE = func(*cobra.Command, []string) error {
		return prof.Stop()
	}

	rootCmd.PersistentFlags().StringVar(&logConfigPath, "log-config", logConfigPath,
		"path to a YAML file overlaying --log-level/--log-format defaults")
	logCfg.RegisterFlags(rootCmd.PersistentFlags())
	profileCfg.RegisterFlags(rootCmd.PersistentFlags())

	if err := logCfg.RegisterCompletions(rootCmd); err != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", err)
	}

	if err := profileCfg.RegisterCompletions(rootCmd); err != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", err)
	}

	rootCmd.AddCommand(
		newGetCmd(a),
		newSetCmd(a),
		newCommitCmd(a),
		newExportCmd(a),
		newLoadCmd(a),
		newSaveCmd(a),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
