package registrylog

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags holds CLI flag names for log configuration, allowing callers to
// customize flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	Level  string
	Format string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{
		Flags: f,
	}
}

// Config holds CLI flag values for log configuration.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewHandler] to create a [slog.Handler]
// for logging.
type Config struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Flags  Flags  `yaml:"-"`
}

// NewConfig returns a new [Config] with default flag names, level "info",
// and format "logfmt".
func NewConfig() *Config {
	f := Flags{
		Level:  "log-level",
		Format: "log-format",
	}

	c := f.NewConfig()
	c.Level = "info"
	c.Format = string(FormatLogfmt)

	return c
}

// LoadFile reads a YAML document at path and overlays its "level"/"format"
// fields onto c. A missing file is not an error, so callers can point this
// at an optional config path. Call LoadFile before [Config.RegisterFlags]
// so the file's values become the flags' defaults and an explicit CLI flag
// still wins.
func (c *Config) LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return fmt.Errorf("registrylog: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("registrylog: parse %s: %w", path, err)
	}

	return nil
}

// RegisterFlags adds logging flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Level, c.Flags.Level, c.Level,
		fmt.Sprintf("log level, one of: %s", AllLevelStrings()))
	flags.StringVar(&c.Format, c.Flags.Format, c.Format,
		fmt.Sprintf("log format, one of: %s", AllFormatStrings()))
}

// RegisterCompletions registers shell completions for log flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Level,
		cobra.FixedCompletions(AllLevelStrings(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Level, err)
	}

	err = cmd.RegisterFlagCompletionFunc(c.Flags.Format,
		cobra.FixedCompletions(AllFormatStrings(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Format, err)
	}

	return nil
}

// NewHandler creates a new [slog.Handler] that writes to w, using the level
// and format strings stored in c.
func (c *Config) NewHandler(w io.Writer) (slog.Handler, error) {
	return CreateHandlerWithStrings(w, c.Level, c.Format)
}

// NewLogger creates a [slog.Logger] wrapping [Config.NewHandler].
func (c *Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	h, err := c.NewHandler(w)
	if err != nil {
		return nil, err
	}

	return slog.New(h), nil
}
