// Package pkg provides the libraries behind the topicmaps client.
//
// # Overview
//
// A topicmap is a named, persistent 2D view onto a shared knowledge graph.
// The client keeps one in-memory view model per loaded topicmap, writes
// every local change back to the graph store, and folds in changes made
// elsewhere as they arrive on the push channel. The pkg directory is
// organized into four areas:
//
//  1. View models - [topicmap] and [model]
//  2. Selection and dispatch - [registry], [renderer], [directive], [push]
//  3. Infrastructure - [client], [localstate], [config], [httputil], [observability]
//  4. Tooling - [export] and [devserver]
//
// # Architecture
//
// The typical data flow:
//
//	graph store (REST)
//	     ↓
//	[client] fetches topicmap data
//	     ↓
//	[renderer] adapter builds a [topicmap.Viewmodel]
//	     ↓
//	[registry] caches it and tracks the selection
//	     ↑
//	[push] messages → [directive] reconciler → every loaded view model
//
// Local edits go the other way: a view model mutates itself first and then
// calls its [topicmap.Store], which [client] implements over REST. A failed
// write leaves the local change in place and surfaces as a
// [topicmap.UnsyncedError].
//
// # Quick Start
//
// Select a workspace and reveal a topic:
//
//	c, _ := client.New(client.Options{BaseURL: "http://localhost:8080"})
//	renderers, _ := renderer.NewRegistry(canvas.New(c, c), geomap.New(c, c))
//	reg, _ := registry.New(registry.Options{
//	    Service:   c,
//	    Renderers: renderers,
//	    Writable:  true,
//	})
//
//	vm, _ := reg.SelectWorkspace(ctx, workspaceID)
//	err := vm.RevealTopic(ctx, topic, model.Point{X: 100, Y: 200}, true)
//
// # Main Packages
//
// [topicmap] - The view model: topics and associations with placement,
// visibility, selection, translation and clusters. Mutators persist through
// a Store; reconcile methods apply remote changes without writing.
//
// [registry] - Per-workspace topicmap summaries, the view-model cache, and
// the selection protocol backed by [localstate] hints.
//
// [renderer] - Renderer adapters keyed by URI. [renderer/canvas] is the
// default graph canvas, [renderer/geomap] places geo-coordinate topics by
// longitude and latitude.
//
// [directive] - Graph change notifications and the reconciler that applies
// them to every loaded view model.
//
// [push] - The websocket client and the serial dispatcher for push messages.
//
// [client] - REST client for the graph store with retries.
//
// [devserver] - In-memory graph store speaking the same protocol, for tests
// and local development.
package pkg
