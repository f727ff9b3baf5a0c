// Package registry owns the topicmaps of each workspace and decides which
// one is current.
//
// A [Registry] replaces any notion of a global "current topicmap": callers
// hold the instance and ask it for the current [topicmap.Viewmodel].
//
// # Selection
//
// Per workspace the registry moves from "no topicmap selected" to "topicmap
// selected" when [Registry.SelectWorkspace] runs. It fetches the
// workspace's summaries, creates a default topicmap if there are none, and
// restores the last selected topicmap from local state if it still exists.
//
// [Registry.SetSelectedTopicmap] runs three steps in order: it persists the
// last-selected marker, resolves the renderer adapter for the map's URI, and
// then serves the view model from cache or loads it through the adapter.
//
// # Caching
//
// View models are cached by topicmap id and invalidated explicitly, never by
// time. [Registry.ReloadTopicmap] discards the current map's local state,
// including an uncommitted pan offset.
//
// # Concurrency
//
// A Registry is not safe for concurrent use. Run UI actions and push
// message handling on the same goroutine.
package registry
