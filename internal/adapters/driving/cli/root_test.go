package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/legis/internal/core/domain"
)

// runCommand executes the root command with args against the given
// services and returns what was written to stdout and stderr.
func runCommand(t *testing.T, s *Services, args ...string) (string, string, error) {
	t.Helper()

	resetFlags(rootCmd)
	SetServices(s)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		SetServices(&Services{})
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		resetFlags(rootCmd)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// resetFlags restores every flag of cmd and its children to its default,
// since flag variables are package globals shared between runs.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

func TestSetupServices_UsesBootstrap(t *testing.T) {
	records := &mockRecordService{bill: domain.Bill{ID: "118-hr-1"}}
	var gotOpts Options
	closed := false

	bootstrap = func(opts Options) (*Services, error) {
		gotOpts = opts
		return &Services{Records: records, Close: func() { closed = true }}, nil
	}
	defer func() { bootstrap = nil }()

	_, _, err := runCommand(t, &Services{}, "bill", "118-hr-1", "--config-dir", "/tmp/legis-test", "-v")

	require.NoError(t, err)
	assert.Equal(t, Options{ConfigDir: "/tmp/legis-test", Verbose: true}, gotOpts)
	assert.Equal(t, "118-hr-1", records.lastID)
	assert.True(t, closed, "services are closed after the command")
}

func TestSetupServices_BootstrapError(t *testing.T) {
	bootstrap = func(Options) (*Services, error) {
		return nil, errors.New("config unreadable")
	}
	defer func() { bootstrap = nil }()

	_, _, err := runCommand(t, &Services{}, "bill", "118-hr-1")

	assert.EqualError(t, err, "config unreadable")
}

func TestSetupServices_SkippedForVersion(t *testing.T) {
	called := false
	bootstrap = func(Options) (*Services, error) {
		called = true
		return &Services{}, nil
	}
	defer func() { bootstrap = nil }()

	_, _, err := runCommand(t, &Services{}, "version")

	require.NoError(t, err)
	assert.False(t, called)
}

func TestExplain(t *testing.T) {
	unavailable := &domain.UnavailableError{Signature: "/bill/118/hr/1", Live: errors.New("timeout")}

	err := explain(unavailable)
	assert.Contains(t, err.Error(), "no data for /bill/118/hr/1")

	invalid := errors.Join(domain.ErrInvalidInput, errors.New("bad id"))
	assert.Same(t, invalid, explain(invalid))
}

func TestVersionCmd(t *testing.T) {
	originalVersion := version
	version = "test-version-1.0.0"
	defer func() { version = originalVersion }()

	stdout, _, err := runCommand(t, &Services{}, "version")

	require.NoError(t, err)
	assert.Contains(t, stdout, "legis version test-version-1.0.0")
}

func TestVersionCmd_Use(t *testing.T) {
	assert.Equal(t, "version", versionCmd.Use)
	assert.Equal(t, "Print the version number", versionCmd.Short)
}
