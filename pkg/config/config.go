// Package config provides configuration management for the aestrace CLI
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Davincible/aestrace/pkg/crypto/hdkey"
	"github.com/Davincible/aestrace/pkg/crypto/kdf"
)

const (
	InputFormatText = "text"
	InputFormatHex  = "hex"
)

const (
	VerbosityQuiet   = "quiet"
	VerbosityNormal  = "normal"
	VerbosityVerbose = "verbose"
)

// Config represents the main configuration structure
type Config struct {
	Version    string           `json:"version"`
	Defaults   DefaultSettings  `json:"defaults"`
	KDF        KDFConfig        `json:"kdf"`
	Derivation DerivationConfig `json:"derivation"`
	UI         UIConfig         `json:"ui"`
	Report     ReportConfig     `json:"report"`
}

// DefaultSettings contains default values for encryption runs
type DefaultSettings struct {
	InputFormat  string `json:"input_format"`  // text or hex
	PadByte      byte   `json:"pad_byte"`      // fills short text inputs
	Trace        bool   `json:"trace"`         // print every stage
	ShowSchedule bool   `json:"show_schedule"` // print the expanded key
}

// KDFConfig controls passphrase stretching
type KDFConfig struct {
	Algorithm       string `json:"algorithm"` // pbkdf2 or argon2id
	Iterations      int    `json:"iterations"`
	Salt            string `json:"salt"`
	Argon2Time      uint32 `json:"argon2_time"`
	Argon2MemoryKiB uint32 `json:"argon2_memory_kib"`
	Argon2Threads   uint8  `json:"argon2_threads"`
}

// DerivationConfig controls hierarchical key derivation
type DerivationConfig struct {
	DefaultPath string `json:"default_path"`
}

// UIConfig contains user interface settings
type UIConfig struct {
	UseColor     bool   `json:"use_color"`
	UppercaseHex bool   `json:"uppercase_hex"`
	Verbosity    string `json:"verbosity"` // quiet hides the trace, verbose adds the key schedule
}

// ReportConfig controls where trace reports are written
type ReportConfig struct {
	Directory       string `json:"directory"`
	FilePermissions string `json:"file_permissions"`
}

// Profile is a named set of input defaults
type Profile struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	InputFormat    string `json:"input_format"`
	DerivationPath string `json:"derivation_path"`
	KDFIterations  int    `json:"kdf_iterations"`
}

// ConfigManager manages configuration loading and saving
type ConfigManager struct {
	config     *Config
	configPath string
	profiles   map[string]*Profile
}

// NewConfigManager creates a configuration manager for the default path
func NewConfigManager() (*ConfigManager, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return NewConfigManagerAt(configPath)
}

// NewConfigManagerAt creates a configuration manager backed by configPath,
// writing the defaults there if the file does not exist yet.
func NewConfigManagerAt(configPath string) (*ConfigManager, error) {
	cm := &ConfigManager{
		configPath: configPath,
		profiles:   make(map[string]*Profile),
	}

	if err := cm.LoadConfig(); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		cm.config = DefaultConfig()
		if err := cm.SaveConfig(); err != nil {
			return nil, fmt.Errorf("failed to save default config: %w", err)
		}
	}

	if err := cm.LoadProfiles(); err != nil {
		// Profiles are optional, so we don't fail here
		cm.profiles = make(map[string]*Profile)
	}

	return cm, nil
}

// ResetConfig writes the default configuration to configPath, replacing any
// existing file without reading it.
func ResetConfig(configPath string) (*ConfigManager, error) {
	cm := &ConfigManager{
		config:     DefaultConfig(),
		configPath: configPath,
		profiles:   make(map[string]*Profile),
	}

	if err := cm.SaveConfig(); err != nil {
		return nil, err
	}
	if err := cm.LoadProfiles(); err != nil {
		cm.profiles = make(map[string]*Profile)
	}

	return cm, nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0.0",
		Defaults: DefaultSettings{
			InputFormat:  InputFormatText,
			PadByte:      ' ',
			Trace:        true,
			ShowSchedule: false,
		},
		KDF: KDFConfig{
			Algorithm:       kdf.AlgorithmPBKDF2,
			Iterations:      kdf.DefaultIterations,
			Salt:            kdf.DefaultSalt,
			Argon2Time:      kdf.DefaultArgon2Time,
			Argon2MemoryKiB: kdf.DefaultArgon2MemoryKiB,
			Argon2Threads:   kdf.DefaultArgon2Threads,
		},
		Derivation: DerivationConfig{
			DefaultPath: hdkey.DefaultPath,
		},
		UI: UIConfig{
			UseColor:     true,
			UppercaseHex: true,
			Verbosity:    VerbosityNormal,
		},
		Report: ReportConfig{
			Directory:       "",
			FilePermissions: "0600",
		},
	}
}

// Validate checks the configuration for values the tool cannot use
func (c *Config) Validate() error {
	switch c.Defaults.InputFormat {
	case InputFormatText, InputFormatHex:
	default:
		return fmt.Errorf("defaults.input_format must be %q or %q, got %q",
			InputFormatText, InputFormatHex, c.Defaults.InputFormat)
	}

	params := c.KDFParams()
	if err := params.Validate(); err != nil {
		return fmt.Errorf("kdf: %w", err)
	}

	if err := hdkey.ValidatePath(c.Derivation.DefaultPath); err != nil {
		return fmt.Errorf("derivation.default_path: %w", err)
	}

	switch c.UI.Verbosity {
	case VerbosityQuiet, VerbosityNormal, VerbosityVerbose:
	default:
		return fmt.Errorf("ui.verbosity must be quiet, normal or verbose, got %q", c.UI.Verbosity)
	}

	if _, err := c.ReportFileMode(); err != nil {
		return err
	}

	return nil
}

// ShowTrace reports whether encryptions print every stage by default
func (c *Config) ShowTrace() bool {
	return c.Defaults.Trace && c.UI.Verbosity != VerbosityQuiet
}

// ShowSchedule reports whether encryptions print the key schedule by default
func (c *Config) ShowSchedule() bool {
	switch c.UI.Verbosity {
	case VerbosityQuiet:
		return false
	case VerbosityVerbose:
		return true
	default:
		return c.Defaults.ShowSchedule
	}
}

// KDFParams converts the kdf section into derivation parameters
func (c *Config) KDFParams() kdf.Params {
	return kdf.Params{
		Algorithm:  c.KDF.Algorithm,
		Salt:       []byte(c.KDF.Salt),
		Iterations: c.KDF.Iterations,
		Time:       c.KDF.Argon2Time,
		MemoryKiB:  c.KDF.Argon2MemoryKiB,
		Threads:    c.KDF.Argon2Threads,
	}
}

// ReportFileMode parses report.file_permissions as an octal mode
func (c *Config) ReportFileMode() (os.FileMode, error) {
	mode, err := strconv.ParseUint(c.Report.FilePermissions, 8, 32)
	if err != nil || mode > 0777 {
		return 0, fmt.Errorf("report.file_permissions must be an octal mode such as 0600, got %q",
			c.Report.FilePermissions)
	}
	return os.FileMode(mode), nil
}

// LoadConfig loads the configuration from disk
func (cm *ConfigManager) LoadConfig() error {
	data, err := os.ReadFile(cm.configPath)
	if err != nil {
		return err
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", cm.configPath, err)
	}

	cm.config = config
	return nil
}

// SaveConfig saves the configuration to disk
func (cm *ConfigManager) SaveConfig() error {
	configDir := filepath.Dir(cm.configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cm.config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(cm.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// GetConfig returns the current configuration
func (cm *ConfigManager) GetConfig() *Config {
	return cm.config
}

// SetConfig updates the configuration
func (cm *ConfigManager) SetConfig(config *Config) {
	cm.config = config
}

// Path returns the file the configuration is stored in
func (cm *ConfigManager) Path() string {
	return cm.configPath
}

func (cm *ConfigManager) profilesPath() string {
	return filepath.Join(filepath.Dir(cm.configPath), "profiles.json")
}

// LoadProfiles loads saved profiles
func (cm *ConfigManager) LoadProfiles() error {
	data, err := os.ReadFile(cm.profilesPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	profiles := make(map[string]*Profile)
	if err := json.Unmarshal(data, &profiles); err != nil {
		return fmt.Errorf("failed to parse profiles: %w", err)
	}

	cm.profiles = profiles
	return nil
}

// SaveProfiles saves profiles to disk
func (cm *ConfigManager) SaveProfiles() error {
	data, err := json.MarshalIndent(cm.profiles, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profiles: %w", err)
	}

	if err := os.WriteFile(cm.profilesPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write profiles: %w", err)
	}

	return nil
}

// AddProfile adds a new profile
func (cm *ConfigManager) AddProfile(profile *Profile) error {
	if profile.Name == "" {
		return fmt.Errorf("profile name cannot be empty")
	}
	if profile.InputFormat != "" && profile.InputFormat != InputFormatText && profile.InputFormat != InputFormatHex {
		return fmt.Errorf("profile input format must be %q or %q", InputFormatText, InputFormatHex)
	}
	if profile.DerivationPath != "" {
		if err := hdkey.ValidatePath(profile.DerivationPath); err != nil {
			return fmt.Errorf("profile derivation path: %w", err)
		}
	}

	cm.profiles[profile.Name] = profile
	return cm.SaveProfiles()
}

// GetProfile retrieves a profile by name
func (cm *ConfigManager) GetProfile(name string) (*Profile, error) {
	profile, exists := cm.profiles[name]
	if !exists {
		return nil, fmt.Errorf("profile '%s' not found", name)
	}
	return profile, nil
}

// ListProfiles returns all available profiles
func (cm *ConfigManager) ListProfiles() []*Profile {
	profiles := make([]*Profile, 0, len(cm.profiles))
	for _, profile := range cm.profiles {
		profiles = append(profiles, profile)
	}
	return profiles
}

// DeleteProfile removes a profile
func (cm *ConfigManager) DeleteProfile(name string) error {
	if _, exists := cm.profiles[name]; !exists {
		return fmt.Errorf("profile '%s' not found", name)
	}

	delete(cm.profiles, name)
	return cm.SaveProfiles()
}

// ApplyProfile overlays the non-empty fields of a profile onto the config
func (cm *ConfigManager) ApplyProfile(name string) error {
	profile, err := cm.GetProfile(name)
	if err != nil {
		return err
	}

	if profile.InputFormat != "" {
		cm.config.Defaults.InputFormat = profile.InputFormat
	}
	if profile.DerivationPath != "" {
		cm.config.Derivation.DefaultPath = profile.DerivationPath
	}
	if profile.KDFIterations != 0 {
		cm.config.KDF.Iterations = profile.KDFIterations
	}

	return cm.config.Validate()
}

// GetConfigPath returns the configuration file path
func GetConfigPath() (string, error) {
	if customPath := os.Getenv("AESTRACE_CONFIG"); customPath != "" {
		return customPath, nil
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "aestrace", "config.json"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "aestrace", "config.json"), nil
}
