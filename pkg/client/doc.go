// Package client talks to the remote graph store over REST.
//
// [Client] implements the write contract of [topicmap.Store], the
// [registry.Service] calls, and the [renderer.Loader] read, so one value
// wires a registry end to end:
//
//	c, err := client.New(client.Options{BaseURL: "http://localhost:8080"})
//	renderers, _ := renderer.NewRegistry(canvas.New(c, c), geomap.New(c, c))
//	reg, _ := registry.New(registry.Options{Service: c, Renderers: renderers})
//
// Every request carries the client's id in the X-Client-Id header, so the
// server can avoid echoing a client's own changes back over the push
// channel. Transport failures and 5xx responses are retried with backoff;
// a 404 becomes a NOT_FOUND error.
//
// [topicmap.Store]: github.com/matzehuels/topicmaps/pkg/topicmap
// [registry.Service]: github.com/matzehuels/topicmaps/pkg/registry
// [renderer.Loader]: github.com/matzehuels/topicmaps/pkg/renderer
package client
