// Package cmdtest runs the clarity command tree in tests against an
// isolated home and data directory.
package cmdtest

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"fjacquet/clarity-ledger/cmd/root"
	"fjacquet/clarity-ledger/internal/container"
	"fjacquet/clarity-ledger/internal/logging"
)

// Env is an isolated environment for command runs.
type Env struct {
	t       *testing.T
	DataDir string
	Logger  *logging.MockLogger
}

// New points HOME at a temp dir, disables AI unless opts provide a client
// and registers opts for every container the commands build.
func New(t *testing.T, opts ...container.Option) *Env {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CLARITY_AI_ENABLED", "false")
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Chdir(t.TempDir())

	root.Init()
	logger := logging.NewMockLogger()
	root.SetContainerOptions(append([]container.Option{container.WithLogger(logger)}, opts...)...)
	t.Cleanup(func() { root.SetContainerOptions() })

	return &Env{t: t, DataDir: t.TempDir(), Logger: logger}
}

// Run executes the command line args with the file backend in the env's data
// directory and returns what the command wrote to stdout and stderr.
func (e *Env) Run(args ...string) (string, string, error) {
	e.t.Helper()
	resetFlags(root.Cmd)

	var stdout, stderr bytes.Buffer
	root.Cmd.SetOut(&stdout)
	root.Cmd.SetErr(&stderr)
	root.Cmd.SetArgs(append(args, "--backend", "file", "--data-dir", e.DataDir))
	err := root.Cmd.ExecuteContext(context.Background())
	if closeErr := root.Close(); err == nil {
		err = closeErr
	}
	return stdout.String(), stderr.String(), err
}

// resetFlags restores every flag to its default; cobra keeps parsed values
// between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}
