// Package config loads and watches the coedit configuration file.
//
// Configuration is TOML or YAML, chosen by file extension. Missing
// files are not an error: defaults apply and file values override them
// field by field. A Watcher can reload the file on change, debounced so
// an editor writing the file in several bursts triggers one reload.
package config
