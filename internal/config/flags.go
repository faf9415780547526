// internal/config/flags.go
package config

import (
	"flag"
	"fmt"
)

// Flags holds values parsed from command-line flags.
// Use pointers to distinguish between unset flags and zero-value flags.
type Flags struct {
	ConfigFilePath *string
	Version        *bool
	LogLevel       *string
	LogFilePath    *string
	Scale          *float64
	ConvertURL     *string
	BridgeAddr     *string
	Bridge         *bool
	NoClipboard    *bool
}

// DefineFlags sets up the command-line flags and associates them with
// the Flags struct fields.
func (f *Flags) DefineFlags() {
	f.ConfigFilePath = flag.String("config", "", fmt.Sprintf("Path to TOML configuration file (default ~/.config/%s/%s)", ConfigDirName, DefaultConfigFileName))
	f.Version = flag.Bool("version", false, "Show version information and exit")
	f.LogLevel = flag.String("loglevel", "", "Log level (debug, info, warn, error) - Overrides config file")
	f.LogFilePath = flag.String("logfile", "", "Path to write log file (use '-' for stderr) - Overrides config file")
	f.Scale = flag.Float64("scale", 0, "Base render scale in pixels per PDF point - Overrides config file")
	f.ConvertURL = flag.String("convert-url", "", "Base URL of the document conversion service - Overrides config file")
	f.BridgeAddr = flag.String("bridge-addr", "", "Listen address for the host bridge - Overrides config file")
	f.Bridge = flag.Bool("bridge", false, "Start the host bridge HTTP listener")
	f.NoClipboard = flag.Bool("no-clipboard", false, "Disable system clipboard integration")
}

// ParseFlags parses the defined command-line flags into the Flags
// struct. It returns the remaining non-flag arguments (the file path).
func (f *Flags) ParseFlags() []string {
	f.DefineFlags()
	flag.Parse()
	return flag.Args()
}

// ApplyOverrides updates the Config struct with values from flags *if*
// they were set.
func (f *Flags) ApplyOverrides(cfg *Config) {
	// Visit only processes flags that were actually set
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "loglevel":
			if f.LogLevel != nil && *f.LogLevel != "" {
				cfg.Logger.LogLevel = *f.LogLevel
			}
		case "logfile":
			if f.LogFilePath != nil { // empty string is valid ("-")
				cfg.Logger.LogFilePath = *f.LogFilePath
			}
		case "scale":
			if f.Scale != nil && *f.Scale > 0 {
				cfg.Editor.BaseScale = *f.Scale
			}
		case "convert-url":
			if f.ConvertURL != nil && *f.ConvertURL != "" {
				cfg.Convert.ServiceURL = *f.ConvertURL
			}
		case "bridge-addr":
			if f.BridgeAddr != nil && *f.BridgeAddr != "" {
				cfg.Bridge.ListenAddr = *f.BridgeAddr
			}
		case "bridge":
			if f.Bridge != nil {
				cfg.Bridge.Enabled = *f.Bridge
			}
		case "no-clipboard":
			if f.NoClipboard != nil && *f.NoClipboard {
				cfg.Editor.SystemClipboard = false
			}
		}
	})
}
