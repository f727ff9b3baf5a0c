// Package renderer defines the Renderer Adapter contract and the registry
// that dispatches on a topicmap's renderer URI.
//
// # Overview
//
// Every topicmap records the URI of the renderer that owns it. An [Adapter]
// claims one URI and knows how to turn fetched topicmap data into a
// [topicmap.Viewmodel] with the right update policy:
//
//   - [canvas]: the default graph canvas. Update directives only refresh
//     topics that are already on the map.
//   - [geomap]: a geographic map of geo-coordinate topics. Update
//     directives create accepted topics that are not yet shown.
//
// # Registry
//
// A [Registry] is filled at startup and is read-only afterwards:
//
//	reg, err := renderer.NewRegistry(canvas.New(c, c), geomap.New(c, c))
//	adapter, err := reg.Lookup(info.RendererURI)
//	vm, err := adapter.LoadTopicmap(ctx, info.ID, renderer.Config{Writable: true})
//
// Looking up an unregistered URI returns an UNKNOWN_RENDERER error.
//
// [canvas]: github.com/matzehuels/topicmaps/pkg/renderer/canvas
// [geomap]: github.com/matzehuels/topicmaps/pkg/renderer/geomap
package renderer
