// Package config loads omr-scan configuration.
//
// Values are resolved in order: built-in defaults, then the TOML file, then
// OMR_* environment variables. The merged result is normalized (trimmed,
// lower-cased, defaults restored for empty fields) and validated before it
// is returned.
package config
