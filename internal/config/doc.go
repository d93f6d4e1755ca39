// Package config provides the configuration of the text engine.
//
// Configuration is assembled from layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← TEXTCORE_*, highest priority
//	├─────────────────────────────┤
//	│  2. Config File             │  ← TOML (.toml) or YAML (.yaml/.yml)
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// # Sub-packages
//
//   - loader: TOML, YAML and environment sources parsed into maps
//   - watcher: fsnotify-based change notification for config and input files
//
// # Basic Usage
//
//	cfg, err := config.Load("textcore.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	low, high := cfg.Store.LowWatermark, cfg.Store.HighWatermark
//
// A TOML file looks like:
//
//	[store]
//	low_watermark = 32
//	high_watermark = 512
//
//	[positions]
//	on_full_overlap = "delete"   # or "clamp"
//
//	[[partitions]]
//	content_type = "comment"
//	start = "/*"
//	end = "*/"
//
//	[formatting.comment]
//	strategies = ["trim", "wrap"]
//	width = 72
//
//	[logging]
//	level = "info"
package config
