// Package config loads topicmaps client configuration from a TOML file.
//
// The default location is ~/.config/topicmaps/config.toml, or
// $XDG_CONFIG_HOME/topicmaps/config.toml when that variable is set. A missing
// file is not an error: [Load] returns [Default] unchanged. Keys present in
// the file override the defaults, absent keys keep them.
//
// Example file:
//
//	[server]
//	url = "http://localhost:8080"
//	timeout = "10s"
//
//	[client]
//	workspace = 3
//	writable = true
//
//	[state]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[log]
//	level = "debug"
package config
