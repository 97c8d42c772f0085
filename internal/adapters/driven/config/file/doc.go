// Package file provides file-based implementations of the configuration layer.
//
// Adapters:
//   - Load/Save: TOML or YAML configuration file, chosen by extension
//   - LoadDotEnv: .env file loading into the process environment
//   - Watcher: fsnotify-based change notification for watch mode
package file
