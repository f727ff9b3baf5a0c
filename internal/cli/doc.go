// Package cli implements the topicmaps command-line interface.
//
// The CLI is a thin client of the sync engine: it resolves a workspace,
// selects a topicmap through the registry, and either prints it, exports it,
// or keeps it in sync with the push channel. It is built using cobra and
// logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - maps list: List the topicmaps of a workspace
//   - maps show: Print a topicmap and its visible topics
//   - maps create: Create a topicmap and select it
//   - maps export: Write a topicmap as DOT or SVG
//   - watch: Apply push messages to a topicmap until interrupted
//   - devserver: Serve an in-memory graph store for local testing
//   - state: Inspect or clear the locally remembered selection
//
// # Configuration
//
// Settings come from ~/.config/topicmaps/config.toml (see package config).
// --config selects another file, --server and --workspace override single
// values.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Otherwise the
// level comes from log.level in the config file. Loggers are passed through
// context.Context.
package cli
