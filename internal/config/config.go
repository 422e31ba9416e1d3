package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"openphil/internal/eventbus"
)

// FileName is the per-directory configuration file
const FileName = ".openphil.toml"

// Config represents the application configuration
type Config struct {
	Version  int            `toml:"version"`
	Database string         `toml:"database"`
	Log      LogSettings    `toml:"log"`
	UI       UISettings     `toml:"ui"`
	Import   ImportSettings `toml:"import"`
}

// LogSettings controls where and how much is logged
type LogSettings struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	ShowIndices    bool `toml:"show_indices"`
	WrapWidth      int  `toml:"wrap_width"` // 0 follows the terminal width
	HighlightSplit bool `toml:"highlight_split"`
}

// ImportSettings controls witness discovery and tokenization
type ImportSettings struct {
	Extensions  []string `toml:"extensions"`
	MaxDepth    int      `toml:"max_depth"`
	IndexStride int      `toml:"index_stride"`
	Workers     int      `toml:"workers"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a config service for the given file. An empty
// path resolves to .openphil.toml in the working directory when present, and
// to the user config directory otherwise.
func NewConfigService(path string) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{filePath: path}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(path string, bus eventbus.EventBus) ConfigService {
	cs := NewConfigService(path).(*configService)
	cs.bus = bus
	return cs
}

// DefaultPath returns the config file used when none is given
func DefaultPath() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "openphil", "config.toml")
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration, falling back to defaults if the file is missing
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, os.ErrNotExist) {
		cfg = DefaultConfig()
	} else if err != nil {
		return nil, err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{
			Path:     cs.filePath,
			Database: cfg.Database,
		})
	}

	return cfg, nil
}

// Save saves the configuration to the service's file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}

	return nil
}

// LoadFromPath loads configuration from a specific path. Missing fields keep
// their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.normalize()

	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// normalize replaces unusable values with defaults
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.Database == "" {
		c.Database = def.Database
	}
	if c.Log.File == "" {
		c.Log.File = def.Log.File
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.UI.WrapWidth < 0 {
		c.UI.WrapWidth = 0
	}
	if len(c.Import.Extensions) == 0 {
		c.Import.Extensions = def.Import.Extensions
	}
	if c.Import.MaxDepth <= 0 {
		c.Import.MaxDepth = def.Import.MaxDepth
	}
	if c.Import.IndexStride <= 0 {
		c.Import.IndexStride = def.Import.IndexStride
	}
	if c.Import.Workers <= 0 {
		c.Import.Workers = def.Import.Workers
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	dataDir, err := os.UserConfigDir()
	if err != nil {
		dataDir = "."
	}

	return &Config{
		Version:  1,
		Database: filepath.Join(dataDir, "openphil", "openphil.db"),
		Log: LogSettings{
			File:  "openphil.log",
			Level: "info",
		},
		UI: UISettings{
			ShowIndices:    false,
			HighlightSplit: true,
		},
		Import: ImportSettings{
			Extensions:  []string{".txt"},
			MaxDepth:    5,
			IndexStride: 100,
			Workers:     4,
		},
	}
}
