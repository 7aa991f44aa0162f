// Package config loads the defaults applied to every assemble run.
//
// # Resolution Order
//
// Values are layered, later sources winning:
//
//  1. Built-in defaults
//  2. The TOML file at the given path, or ~/.config/assemble-logs/config.toml
//  3. ASSEMBLE_LOGS_* environment variables
//
// Command-line flags are applied on top of the result by the caller. A missing
// config file is not an error; the tool works without one.
//
// # Default Values
//
//   - max_age: 168h (one week of rotated segments)
//   - max_files: 0 (no count limit)
//   - compact, error_details: false
//   - color: always (auto drops colour when stdout is not a terminal)
//   - log_level: info
//   - metrics_file: unset (no textfile written)
//   - prefs_path: ~/.config/assemble-logs/prefs.toml
//
// # TOML Format
//
//	max_age = "72h"
//	max_files = 20
//	compact = true
//	color = "auto"
//	log_level = "debug"
//	metrics_file = "/var/lib/node_exporter/textfile/assemble_logs.prom"
//
// max_age uses Go duration syntax. Every field is optional and tilde
// expansion is applied to metrics_file and prefs_path.
//
// # Environment
//
// Each key has an upper-case counterpart with the ASSEMBLE_LOGS_ prefix, for
// example ASSEMBLE_LOGS_MAX_FILES=5 or ASSEMBLE_LOGS_COLOR=never.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML or environment parsing errors
//   - Out of range values: non-positive max_age, negative max_files, an
//     unknown color mode or log level
package config
