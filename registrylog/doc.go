// Package registrylog provides structured logging handler construction for
// use with [log/slog], wired into the registry's CLI and storage layers.
//
// It supports multiple output formats ([FormatJSON] and [FormatLogfmt]) and
// the four severity levels the registry surfaces ([GetLevel]). Use
// [CreateHandler] to build a handler directly, or use [Config] for CLI flag
// integration via [github.com/spf13/pflag] and shell completion support via
// [github.com/spf13/cobra].
//
// Typical usage creates a [Config], registers flags, then builds a handler
// at startup:
//
//	cfg := registrylog.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//	cfg.RegisterCompletions(rootCmd)
//
//	handler, err := cfg.NewHandler(os.Stderr)
//	slog.SetDefault(slog.New(handler))
//
// A [Publisher] fans out log output to multiple subscribers, which
// [cmd/registrytree] uses to stream log lines into its TUI pane:
//
//	pub := registrylog.NewPublisher()
//	handler := registrylog.CreateHandler(pub, slog.LevelInfo, registrylog.FormatJSON)
//	logger := slog.New(handler)
//
//	sub := pub.Subscribe()
//	go func() {
//	    for entry := range sub.C() {
//	        // Deliver entry to the TUI.
//	    }
//	}()
package registrylog
