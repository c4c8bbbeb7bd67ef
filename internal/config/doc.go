// Package config loads the scrollpane configuration.
//
// Settings come from three layers, later layers overriding earlier ones:
//
//	┌──────────────────────────────┐
//	│  3. Environment Variables    │  ← LINE_WRAP, WORD_WRAP, MAX_ENTRIES, SCROLLPANE_*
//	├──────────────────────────────┤
//	│  2. Config File (optional)   │  ← --config scrollpane.toml
//	├──────────────────────────────┤
//	│  1. Built-in Defaults        │
//	└──────────────────────────────┘
//
// Command-line flags are applied on top by the caller. Files ending in .yaml
// or .yml are read as YAML with the same keys.
//
// The file uses three sections:
//
//	[scroll]
//	lineWrap = true
//	wordWrap = false
//	maxEntries = 100
//	maxBatch = 0        # requests per message, 0 for no limit
//	maxEntryWidth = 0   # longest accepted entry, 0 for no limit
//
//	[logging]
//	level = "info"
//	file = "/tmp/scrollpane.log"
//
//	[server]
//	listen = "127.0.0.1:7777"
//
// Boolean variables accept 1/0, true/false, yes/no and on/off. A value that
// cannot be decoded keeps its default and is reported in Config.Problems,
// so a bad environment never prevents startup.
//
// # Basic Usage
//
//	cfg, err := config.Load(config.WithFile(path))
//	if err != nil {
//		return err
//	}
//	buf := scroll.NewBuffer(cfg.BufferOptions())
package config
