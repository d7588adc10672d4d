// Package root contains the root command for the application
package root

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"fjacquet/clarity-ledger/internal/config"
	"fjacquet/clarity-ledger/internal/container"
	"fjacquet/clarity-ledger/internal/logging"
)

// GlobalFlags holds the persistent flags shared by every command. Empty
// values leave the configuration untouched.
type GlobalFlags struct {
	ConfigFile string
	LogLevel   string
	LogFormat  string
	DataDir    string
	Backend    string
}

var (
	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "clarity",
		Short: "A personal finance tracker for income, expenses, budgets and scanned bills.",
		Long: `clarity records income and expense transactions, tracks monthly budgets per
category and reports totals and trends. Bills can be scanned from images or PDFs
with OCR and, optionally, an AI model that extracts amount, date and vendor.`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  setup,
		PersistentPostRunE: teardown,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	// Flags are the persistent flags after parsing.
	Flags = GlobalFlags{}

	app              *container.Container
	containerOptions []container.Option
	initOnce         sync.Once
)

// Init initializes the root command and all flags. It is safe to call more
// than once.
func Init() {
	initOnce.Do(func() {
		pf := Cmd.PersistentFlags()
		pf.StringVar(&Flags.ConfigFile, "config", "", "Config file (default searches $HOME/.clarity, .clarity and .)")
		pf.StringVar(&Flags.LogLevel, "log-level", "", "Log level: debug, info, warn or error")
		pf.StringVar(&Flags.LogFormat, "log-format", "", "Log format: text or json")
		pf.StringVar(&Flags.DataDir, "data-dir", "", "Directory holding the ledger data")
		pf.StringVar(&Flags.Backend, "backend", "", "Storage backend: file, sqlite or memory")
	})
}

// SetContainerOptions sets options passed to the container built for each
// command run. Tests use it to replace external collaborators.
func SetContainerOptions(opts ...container.Option) {
	containerOptions = opts
}

// App returns the container built for the running command.
func App() (*container.Container, error) {
	if app == nil {
		return nil, errors.New("application is not initialized")
	}
	return app, nil
}

// LoadConfig reads the configuration and applies the persistent flags.
func LoadConfig() (*config.Config, error) {
	cfg, err := config.InitializeConfigFromFile(Flags.ConfigFile)
	if err != nil {
		return nil, err
	}
	if Flags.LogLevel != "" {
		cfg.Log.Level = Flags.LogLevel
	}
	if Flags.LogFormat != "" {
		cfg.Log.Format = Flags.LogFormat
	}
	if Flags.DataDir != "" {
		cfg.Data.Directory = Flags.DataDir
	}
	if Flags.Backend != "" {
		cfg.Data.Backend = Flags.Backend
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setup(cmd *cobra.Command, args []string) error {
	config.LoadEnv(nil)

	// cobra skips PersistentPostRunE when RunE fails
	if err := Close(); err != nil {
		return err
	}

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	c, err := container.NewContainer(cmd.Context(), cfg, containerOptions...)
	if err != nil {
		return err
	}
	app = c
	c.GetLogger().Debug("Running command", logging.F(logging.FieldOperation, cmd.CommandPath()))
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	return Close()
}

// Close releases the container of the last command run, if any.
func Close() error {
	if app == nil {
		return nil
	}
	err := app.Close()
	app = nil
	return err
}
