package config

import "time"

// Base application details
const AppName = "inkmark"
const ConfigDirName = "inkmark"
const DefaultConfigFileName = "config.toml"
const DefaultLogFileName = "inkmark.log"

// UI Layout
const StatusBarHeight = 1

// Status Bar
const MessageTimeout = 4 * time.Second

// Rendering. Pages rasterize at BaseScale overlay pixels per PDF point
// so strokes stay crisp on typical displays.
const BaseScale = 1.5
const MinZoom = 0.25
const MaxZoom = 6.0
const ZoomStep = 0.25

// Defaults for the [tools] section.
const DefaultStrokeColor = "#e11d48"
const DefaultFillColor = "#ffffff"
const DefaultStrokeWidth = 2.0
const DefaultFontSize = 16.0
const DefaultFontFamily = "Helvetica"

// Defaults for the [convert] section.
const DefaultConvertTimeout = 60 * time.Second

// Defaults for the [bridge] section.
const DefaultBridgeAddr = "127.0.0.1:8754"
