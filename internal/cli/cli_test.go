package cli

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

const (
	fipsKey        = "000102030405060708090a0b0c0d0e0f"
	fipsPlaintext  = "00112233445566778899aabbccddeeff"
	fipsCiphertext = "69c4e0d86a7b0430d8cdb78070b4c55a"

	abandonAbout = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
)

// setupCLI points the config at a fresh file and disables color.
func setupCLI(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	t.Setenv("AESTRACE_CONFIG", path)

	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	return path
}

// execute runs the root command with args and stdin, returning stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	return executeWithLevel(t, new(slog.LevelVar), stdin, args...)
}

func executeWithLevel(t *testing.T, level *slog.LevelVar, stdin string, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := NewRootCommand("test", level)
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))

	err := cmd.Execute()
	return out.String(), err
}

func mustExecute(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	out, err := execute(t, stdin, args...)
	require.NoError(t, err, "aestrace %s", strings.Join(args, " "))
	return out
}

func TestVerboseLowersLogLevel(t *testing.T) {
	setupCLI(t)

	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)
	_, err := executeWithLevel(t, level, "", "selftest", "-v")
	require.NoError(t, err)
	require.Equal(t, slog.LevelDebug, level.Level())
}
