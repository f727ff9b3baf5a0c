// Package devserver is an in-memory reference implementation of the remote
// graph store.
//
// It serves the REST contract the topicmap client speaks, plus a websocket
// push channel at /ws. Writes that arrive over REST are broadcast as sync
// messages to every other connected client, identified by X-Client-Id.
// Domain changes made through the Go API ([Server.UpdateTopic],
// [Server.DeleteTopic], ...) or the /topic and /association endpoints are
// broadcast as directives to everyone.
//
// The server backs end-to-end tests and the `topicmaps devserver` command.
// Nothing is persisted.
package devserver
