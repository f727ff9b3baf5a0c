// Package topicmap implements the client-side view model of a topicmap.
//
// A [Viewmodel] is the single source of truth for what is placed on one
// topicmap: which topics and associations are members, where topics sit,
// whether they are visible, which object is selected, and how far the map
// is panned. Every state-changing operation updates memory first and then,
// if the view model is writable, issues the matching write through a [Store].
//
// # Mutation Families
//
// The operations fall into three groups with different persistence rules:
//
//   - User mutations ([Viewmodel.RevealTopic], [Viewmodel.HideTopic],
//     [Viewmodel.SetTopicPosition], [Viewmodel.SetTranslation], ...) mutate
//     memory and persist when writable.
//   - Directive handlers ([Viewmodel.UpdateTopic], [Viewmodel.UpsertTopic],
//     [Viewmodel.DeleteTopic], ...) mirror changes the remote store already
//     made. They never write and silently ignore unknown ids.
//   - Sync handlers ([Viewmodel.SyncTopicPosition], ...) mirror changes other
//     clients made to the same shared topicmap. They never write either.
//
// Selection and [Viewmodel.TranslateBy] are pure in-memory state.
//
// # Optimistic Writes
//
// Writes are optimistic: the local mutation is kept even if the remote write
// fails. Failures come back as [*UnsyncedError] (code UNSYNCED) and are also
// delivered to [Config.OnUnsynced] if set. No rollback is attempted.
//
// # Concurrency
//
// A Viewmodel is not safe for concurrent use. All calls are expected to come
// from one event loop.
package topicmap
