// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"inkmark/internal/logger"
)

// Config holds the application's combined configuration.
type Config struct {
	Logger  LoggerConfig  `toml:"logger"`
	Editor  EditorConfig  `toml:"editor"`
	Tools   ToolsConfig   `toml:"tools"`
	Convert ConvertConfig `toml:"convert"`
	Bridge  BridgeConfig  `toml:"bridge"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	LogLevel    string `toml:"log_level"`
	LogFilePath string `toml:"log_file"` // empty means the default path, "-" means stderr
}

// EditorConfig holds editor-specific settings.
type EditorConfig struct {
	BaseScale       float64 `toml:"base_scale"`
	ZoomStep        float64 `toml:"zoom_step"`
	SystemClipboard bool    `toml:"system_clipboard"`
	StatusBarHeight int     `toml:"status_bar_height"`
}

// ToolsConfig seeds the session tool settings.
type ToolsConfig struct {
	StrokeColor string  `toml:"stroke_color"`
	FillColor   string  `toml:"fill_color"`
	FillEnabled bool    `toml:"fill_enabled"`
	StrokeWidth float64 `toml:"stroke_width"`
	FontSize    float64 `toml:"font_size"`
	FontFamily  string  `toml:"font_family"`
}

// ConvertConfig points at the external document conversion service.
type ConvertConfig struct {
	ServiceURL     string `toml:"service_url"` // empty disables conversion
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the request timeout as a duration.
func (c ConvertConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultConvertTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// BridgeConfig configures the host-bridge HTTP listener.
type BridgeConfig struct {
	Enabled    bool   `toml:"enabled"`
	ListenAddr string `toml:"listen_addr"`
}

var (
	loadedConfig *Config
	loadOnce     sync.Once
	loadErr      error
)

// NewDefaultConfig creates a Config struct with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: LoggerConfig{
			LogLevel:    "info",
			LogFilePath: "", // default path logic in main applies
		},
		Editor: EditorConfig{
			BaseScale:       BaseScale,
			ZoomStep:        ZoomStep,
			SystemClipboard: true,
			StatusBarHeight: StatusBarHeight,
		},
		Tools: ToolsConfig{
			StrokeColor: DefaultStrokeColor,
			FillColor:   DefaultFillColor,
			StrokeWidth: DefaultStrokeWidth,
			FontSize:    DefaultFontSize,
			FontFamily:  DefaultFontFamily,
		},
		Convert: ConvertConfig{
			TimeoutSeconds: int(DefaultConvertTimeout / time.Second),
		},
		Bridge: BridgeConfig{
			ListenAddr: DefaultBridgeAddr,
		},
	}
}

// loadFromFile attempts to load configuration from a TOML file. A
// missing file is not an error; it returns a nil Config. The metadata is
// kept so the merge can tell an absent boolean key from an explicit
// false.
func loadFromFile(filePath string) (*Config, toml.MetaData, error) {
	var md toml.MetaData
	_, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return nil, md, nil
	}
	if err != nil {
		return nil, md, fmt.Errorf("error checking config file '%s': %w", filePath, err)
	}

	cfg := &Config{}
	md, err = toml.DecodeFile(filePath, cfg)
	if err != nil {
		return nil, md, fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	if len(md.Undecoded()) > 0 {
		logger.Warnf("config file '%s': unrecognized keys: %v", filePath, md.Undecoded())
	}
	return cfg, md, nil
}

// validate checks config values and resets invalid ones to defaults.
func (c *Config) validate() {
	defaults := NewDefaultConfig()

	if c.Logger.LogLevel == "" {
		c.Logger.LogLevel = defaults.Logger.LogLevel
	}
	if c.Editor.BaseScale <= 0 {
		c.Editor.BaseScale = defaults.Editor.BaseScale
	}
	if c.Editor.ZoomStep <= 0 {
		c.Editor.ZoomStep = defaults.Editor.ZoomStep
	}
	if c.Editor.StatusBarHeight <= 0 {
		c.Editor.StatusBarHeight = defaults.Editor.StatusBarHeight
	}
	if c.Tools.StrokeWidth <= 0 {
		c.Tools.StrokeWidth = defaults.Tools.StrokeWidth
	}
	if c.Tools.FontSize <= 0 {
		c.Tools.FontSize = defaults.Tools.FontSize
	}
	if c.Tools.FontFamily == "" {
		c.Tools.FontFamily = defaults.Tools.FontFamily
	}
	if c.Tools.StrokeColor == "" {
		c.Tools.StrokeColor = defaults.Tools.StrokeColor
	}
	if c.Tools.FillColor == "" {
		c.Tools.FillColor = defaults.Tools.FillColor
	}
	if c.Convert.TimeoutSeconds <= 0 {
		c.Convert.TimeoutSeconds = defaults.Convert.TimeoutSeconds
	}
	if c.Bridge.ListenAddr == "" {
		c.Bridge.ListenAddr = defaults.Bridge.ListenAddr
	}
}

// LoadConfig orchestrates loading defaults, file, applying flags, and
// validation. It should be called only once, typically from main.
func LoadConfig(configFilePath string, flags *Flags) (*Config, error) {
	loadOnce.Do(func() {
		cfg := NewDefaultConfig()

		// Determine effective config file path
		effectivePath := configFilePath
		if effectivePath == "" {
			configDir, err := os.UserConfigDir()
			if err == nil {
				effectivePath = filepath.Join(configDir, ConfigDirName, DefaultConfigFileName)
			}
		}

		if effectivePath != "" {
			fileCfg, md, err := loadFromFile(effectivePath)
			if err != nil {
				loadErr = err
			} else if fileCfg != nil {
				mergeFileConfig(cfg, fileCfg, md)
			}
		}

		if flags != nil {
			flags.ApplyOverrides(cfg)
		}

		cfg.validate()
		loadedConfig = cfg
	})

	return loadedConfig, loadErr
}

// mergeFileConfig copies the file's explicitly set values over the
// defaults. Zero values mean "not set" for everything except booleans,
// which consult the decode metadata because false is a valid setting.
func mergeFileConfig(cfg, fileCfg *Config, md toml.MetaData) {
	if fileCfg.Logger.LogLevel != "" {
		cfg.Logger.LogLevel = fileCfg.Logger.LogLevel
	}
	if fileCfg.Logger.LogFilePath != "" {
		cfg.Logger.LogFilePath = fileCfg.Logger.LogFilePath
	}
	if fileCfg.Editor.BaseScale > 0 {
		cfg.Editor.BaseScale = fileCfg.Editor.BaseScale
	}
	if fileCfg.Editor.ZoomStep > 0 {
		cfg.Editor.ZoomStep = fileCfg.Editor.ZoomStep
	}
	if md.IsDefined("editor", "system_clipboard") {
		cfg.Editor.SystemClipboard = fileCfg.Editor.SystemClipboard
	}
	if fileCfg.Editor.StatusBarHeight > 0 {
		cfg.Editor.StatusBarHeight = fileCfg.Editor.StatusBarHeight
	}
	if fileCfg.Tools.StrokeColor != "" {
		cfg.Tools.StrokeColor = fileCfg.Tools.StrokeColor
	}
	if fileCfg.Tools.FillColor != "" {
		cfg.Tools.FillColor = fileCfg.Tools.FillColor
	}
	if md.IsDefined("tools", "fill_enabled") {
		cfg.Tools.FillEnabled = fileCfg.Tools.FillEnabled
	}
	if fileCfg.Tools.StrokeWidth > 0 {
		cfg.Tools.StrokeWidth = fileCfg.Tools.StrokeWidth
	}
	if fileCfg.Tools.FontSize > 0 {
		cfg.Tools.FontSize = fileCfg.Tools.FontSize
	}
	if fileCfg.Tools.FontFamily != "" {
		cfg.Tools.FontFamily = fileCfg.Tools.FontFamily
	}
	if fileCfg.Convert.ServiceURL != "" {
		cfg.Convert.ServiceURL = fileCfg.Convert.ServiceURL
	}
	if fileCfg.Convert.TimeoutSeconds > 0 {
		cfg.Convert.TimeoutSeconds = fileCfg.Convert.TimeoutSeconds
	}
	if md.IsDefined("bridge", "enabled") {
		cfg.Bridge.Enabled = fileCfg.Bridge.Enabled
	}
	if fileCfg.Bridge.ListenAddr != "" {
		cfg.Bridge.ListenAddr = fileCfg.Bridge.ListenAddr
	}
}

// Get returns the loaded application configuration. Panics if LoadConfig
// wasn't called.
func Get() *Config {
	if loadedConfig == nil {
		panic("config.Get() called before config.LoadConfig()")
	}
	return loadedConfig
}
