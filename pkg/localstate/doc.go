// Package localstate persists small client-local hints across sessions.
//
// The topicmap registry remembers the last selected workspace and, per
// workspace, the last selected topicmap. These values are hints only: the
// registry checks them against the server before use.
//
// Three backends implement [Store]:
//
//   - [FileStore]: one JSON file per key under a config directory (CLI default)
//   - [RedisStore]: keys in a redis database, shared between machines
//   - [MemoryStore]: process-local, for tests and ephemeral sessions
package localstate
