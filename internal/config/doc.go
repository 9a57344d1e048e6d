// Package config loads lodestar's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/lodestar/config.toml (default)
//  3. If the config file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing or zero, use defaults
//
// # Default Values
//
//   - max_lines: 2,000,000
//   - chunk_size: 65536 bytes
//   - request_timeout: 0 (wait for response headers indefinitely)
//   - log_file: ~/.local/state/lodestar/lodestar.log
//   - default_format: empty (detect from content)
//
// # TOML Format
//
//	max_lines = 2000000
//	chunk_size = 65536
//	user_agent = "lodestar/0.1"
//	request_timeout = 30
//	cookie = "session=..."
//	authorization = "Bearer ..."
//	log_file = "~/.local/state/lodestar/lodestar.log"
//	default_format = "resmoke"
//
// String values are trimmed and paths expand a leading "~". Negative numbers
// and unknown formats are rejected with an error wrapped as
// "parse config: ...".
package config
