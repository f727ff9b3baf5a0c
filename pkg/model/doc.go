// Package model defines the wire types shared by the topicmap client.
//
// These types sit at the boundary between the remote graph store and the
// in-memory view model in pkg/topicmap:
//
//   - [Topic], [Association]: domain objects as the store describes them
//   - [ViewProps]: per-topicmap placement properties (x, y, visibility, ...)
//   - [TopicmapInfo]: summary of a topicmap (id, name, renderer URI)
//   - [TopicmapData]: a fully fetched topicmap
//
// All types round-trip through encoding/json using snake_case keys.
package model
