package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Davincible/aestrace/pkg/crypto/kdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigManagerCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aestrace", "config.json")

	cm, err := NewConfigManagerAt(path)
	require.NoError(t, err)
	assert.Equal(t, path, cm.Path())
	assert.Equal(t, DefaultConfig(), cm.GetConfig())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cm, err := NewConfigManagerAt(path)
	require.NoError(t, err)

	cfg := cm.GetConfig()
	cfg.Defaults.InputFormat = InputFormatHex
	cfg.Defaults.PadByte = 0
	cfg.KDF.Iterations = 5000
	cfg.UI.UseColor = false
	cm.SetConfig(cfg)
	require.NoError(t, cm.SaveConfig())

	reloaded, err := NewConfigManagerAt(path)
	require.NoError(t, err)
	assert.Equal(t, InputFormatHex, reloaded.GetConfig().Defaults.InputFormat)
	assert.Equal(t, byte(0), reloaded.GetConfig().Defaults.PadByte)
	assert.Equal(t, 5000, reloaded.GetConfig().KDF.Iterations)
	assert.False(t, reloaded.GetConfig().UI.UseColor)
}

func TestPartialConfigKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"defaults":{"input_format":"hex"}}`), 0600))

	cm, err := NewConfigManagerAt(path)
	require.NoError(t, err)
	cfg := cm.GetConfig()
	assert.Equal(t, InputFormatHex, cfg.Defaults.InputFormat)
	assert.Equal(t, 100000, cfg.KDF.Iterations)
	assert.Equal(t, "m/0'/0'", cfg.Derivation.DefaultPath)
}

func TestInvalidConfigFileFails(t *testing.T) {
	tests := []struct {
		name    string
		content string
		msg     string
	}{
		{"Malformed JSON", `{`, "failed to parse config"},
		{"Bad input format", `{"defaults":{"input_format":"base64"}}`, "input_format"},
		{"Too few iterations", `{"kdf":{"iterations":10}}`, "iterations must be at least"},
		{"Bad path", `{"derivation":{"default_path":"0/1"}}`, "default_path"},
		{"Bad verbosity", `{"ui":{"verbosity":"loud"}}`, "verbosity"},
		{"Bad permissions", `{"report":{"file_permissions":"rw-------"}}`, "file_permissions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))

			_, err := NewConfigManagerAt(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestReportFileMode(t *testing.T) {
	cfg := DefaultConfig()
	mode, err := cfg.ReportFileMode()
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), mode)

	cfg.Report.FilePermissions = "1777"
	_, err = cfg.ReportFileMode()
	assert.Error(t, err)
}

func TestKDFParams(t *testing.T) {
	params := DefaultConfig().KDFParams()
	assert.Equal(t, []byte("aestrace-kdf-v1"), params.Salt)
	assert.Equal(t, 100000, params.Iterations)
	assert.Equal(t, kdf.AlgorithmPBKDF2, params.Algorithm)

	cfg := DefaultConfig()
	cfg.KDF.Algorithm = kdf.AlgorithmArgon2id
	cfg.KDF.Argon2Time = 2
	require.NoError(t, cfg.Validate())
	params = cfg.KDFParams()
	assert.Equal(t, uint32(2), params.Time)
	assert.Equal(t, uint32(64*1024), params.MemoryKiB)
	assert.Equal(t, uint8(4), params.Threads)

	cfg.KDF.Algorithm = "md5"
	assert.ErrorContains(t, cfg.Validate(), "unknown algorithm")
}

func TestProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cm, err := NewConfigManagerAt(path)
	require.NoError(t, err)

	require.NoError(t, cm.AddProfile(&Profile{
		Name:           "lab",
		Description:    "hex inputs, fast kdf",
		InputFormat:    InputFormatHex,
		DerivationPath: "m/1'",
		KDFIterations:  2000,
	}))
	assert.Error(t, cm.AddProfile(&Profile{}))
	assert.Error(t, cm.AddProfile(&Profile{Name: "bad", InputFormat: "binary"}))
	assert.Error(t, cm.AddProfile(&Profile{Name: "bad", DerivationPath: "nope"}))

	reloaded, err := NewConfigManagerAt(path)
	require.NoError(t, err)
	require.Len(t, reloaded.ListProfiles(), 1)

	profile, err := reloaded.GetProfile("lab")
	require.NoError(t, err)
	assert.Equal(t, "hex inputs, fast kdf", profile.Description)

	require.NoError(t, reloaded.ApplyProfile("lab"))
	cfg := reloaded.GetConfig()
	assert.Equal(t, InputFormatHex, cfg.Defaults.InputFormat)
	assert.Equal(t, "m/1'", cfg.Derivation.DefaultPath)
	assert.Equal(t, 2000, cfg.KDF.Iterations)

	assert.Error(t, reloaded.ApplyProfile("missing"))

	require.NoError(t, reloaded.DeleteProfile("lab"))
	assert.Error(t, reloaded.DeleteProfile("lab"))
	_, err = reloaded.GetProfile("lab")
	assert.ErrorContains(t, err, "not found")
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("AESTRACE_CONFIG", "/tmp/custom.json")
	path, err := GetConfigPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.json", path)

	t.Setenv("AESTRACE_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	path, err = GetConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg", "aestrace", "config.json"), path)
}

func TestNewConfigManagerUsesEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.json")
	t.Setenv("AESTRACE_CONFIG", path)

	cm, err := NewConfigManager()
	require.NoError(t, err)
	assert.Equal(t, path, cm.Path())
	assert.FileExists(t, path)
}

func TestResetConfigReplacesInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"defaults":{"input_format":"base64"}}`), 0600))

	_, err := NewConfigManagerAt(path)
	require.Error(t, err)

	cm, err := ResetConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cm.GetConfig())

	reloaded, err := NewConfigManagerAt(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), reloaded.GetConfig())
}

func TestVerbosityDefaults(t *testing.T) {
	tests := []struct {
		verbosity    string
		wantTrace    bool
		wantSchedule bool
	}{
		{VerbosityQuiet, false, false},
		{VerbosityNormal, true, false},
		{VerbosityVerbose, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.verbosity, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.UI.Verbosity = tt.verbosity
			require.NoError(t, cfg.Validate())
			assert.Equal(t, tt.wantTrace, cfg.ShowTrace())
			assert.Equal(t, tt.wantSchedule, cfg.ShowSchedule())
		})
	}

	cfg := DefaultConfig()
	cfg.Defaults.Trace = false
	cfg.UI.Verbosity = VerbosityVerbose
	assert.False(t, cfg.ShowTrace(), "verbose does not override a disabled trace")

	cfg.UI.Verbosity = "loud"
	assert.ErrorContains(t, cfg.Validate(), "ui.verbosity")
}
