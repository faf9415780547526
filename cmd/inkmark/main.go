// cmd/inkmark/main.go
package main

import (
	"context"
	"fmt"
	stlog "log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"inkmark/internal/app"
	"inkmark/internal/bridge"
	"inkmark/internal/config"
	"inkmark/internal/convert"
	"inkmark/internal/document"
	"inkmark/internal/editor"
	"inkmark/internal/event"
	"inkmark/internal/logger"
	"inkmark/internal/render"
)

var version = "dev"

func main() {
	// A .env next to the binary can carry the conversion service URL
	// and bridge address, the same way the host application passes them.
	_ = godotenv.Load()

	var flags config.Flags
	args := flags.ParseFlags()

	if flags.Version != nil && *flags.Version {
		fmt.Printf("%s %s\n", config.AppName, version)
		return
	}

	configPath := ""
	if flags.ConfigFilePath != nil {
		configPath = *flags.ConfigFilePath
	}
	cfg, err := config.LoadConfig(configPath, &flags)
	if err != nil {
		stlog.Fatalf("Failed to load configuration: %v", err)
	}
	applyEnvOverrides(cfg)

	logOutput, cleanup, err := openLogOutput(cfg.Logger.LogFilePath)
	if err != nil {
		stlog.Fatalf("Failed to open log file: %v", err)
	}
	defer cleanup()
	logger.Init(logger.ParseLevel(cfg.Logger.LogLevel), logOutput)
	logger.Infof("Starting %s %s", config.AppName, version)

	store, err := openStore()
	if err != nil {
		logger.Fatalf("Failed to open blob store: %v", err)
	}

	events := event.NewManager()
	ed := editor.New(cfg, events, render.PDFRasterizer{})
	defer ed.Close()

	ed.AttachStore(store)
	ed.AttachConverter(convert.NewClient(cfg.Convert))

	var port bridge.Port
	if cfg.Bridge.Enabled {
		httpPort := bridge.NewHTTPPort(cfg.Bridge.ListenAddr, store)
		go func() {
			if err := httpPort.Listen(); err != nil {
				logger.Errorf("bridge: listener stopped: %v", err)
			}
		}()
		defer httpPort.Close()
		port = httpPort
		ed.AttachPort(port)
		logger.Infof("bridge: listening on %s", cfg.Bridge.ListenAddr)
	}

	ctx := context.Background()
	if len(args) > 0 {
		if err := ed.Load(ctx, document.FileSource{Path: args[0]}); err != nil {
			logger.Fatalf("Failed to open %s: %v", args[0], err)
		}
	} else if err := ed.NewBlank(ctx); err != nil {
		logger.Fatalf("Failed to create blank document: %v", err)
	}

	inkApp, err := app.NewApp(ed, port)
	if err != nil {
		logger.Errorf("Error initializing application: %v", err)
		os.Exit(1)
	}
	if err := inkApp.Run(); err != nil {
		logger.Errorf("Application exited with error: %v", err)
		os.Exit(1)
	}
	logger.Infof("%s finished", config.AppName)
}

// applyEnvOverrides picks up host-supplied settings that arrive via the
// environment rather than flags or the config file.
func applyEnvOverrides(cfg *config.Config) {
	if v := os.Getenv("INKMARK_CONVERT_URL"); v != "" {
		cfg.Convert.ServiceURL = v
	}
	if v := os.Getenv("INKMARK_BRIDGE_ADDR"); v != "" {
		cfg.Bridge.ListenAddr = v
		cfg.Bridge.Enabled = true
	}
}

// openLogOutput resolves the configured log destination. "-" means
// stderr; empty means the default path under the user cache dir.
func openLogOutput(path string) (*os.File, func(), error) {
	if path == "-" {
		return os.Stderr, func() {}, nil
	}
	if path == "" {
		cacheDir, err := os.UserCacheDir()
		if err != nil {
			return os.Stderr, func() {}, nil
		}
		dir := filepath.Join(cacheDir, config.AppName)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
		path = filepath.Join(dir, config.AppName+".log")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

// openStore places the shared blob store under the user cache dir.
func openStore() (*document.Store, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return nil, err
	}
	return document.NewStore(filepath.Join(cacheDir, config.AppName, "blobs"))
}
