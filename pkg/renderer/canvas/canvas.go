// Package canvas is the default graph-canvas renderer adapter.
//
// Canvas topicmaps hold topics and associations. Update directives refresh
// topics already on the map and ignore all others.
package canvas

import (
	"context"
	"fmt"

	"github.com/matzehuels/topicmaps/pkg/model"
	"github.com/matzehuels/topicmaps/pkg/renderer"
	"github.com/matzehuels/topicmaps/pkg/topicmap"
)

// URI is the renderer URI stored on canvas topicmaps.
const URI = "topicmaps.canvas"

// Adapter loads canvas topicmaps.
type Adapter struct {
	loader renderer.Loader
	store  topicmap.Store
}

// New returns a canvas adapter. store receives the writes of writable view
// models and may be nil if only read-only maps are loaded.
func New(loader renderer.Loader, store topicmap.Store) *Adapter {
	return &Adapter{loader: loader, store: store}
}

// Info implements renderer.Adapter.
func (a *Adapter) Info() renderer.Info {
	return renderer.Info{URI: URI, Name: "Topicmap"}
}

// LoadTopicmap implements renderer.Adapter.
func (a *Adapter) LoadTopicmap(ctx context.Context, id model.ID, cfg renderer.Config) (*topicmap.Viewmodel, error) {
	data, err := renderer.Fetch(ctx, a.loader, id, URI)
	if err != nil {
		return nil, fmt.Errorf("load canvas topicmap %d: %w", id, err)
	}
	return topicmap.New(data, a.store, topicmap.Config{
		Writable:   cfg.Writable,
		Policy:     topicmap.ReconcileUpdate,
		Observer:   cfg.Observer,
		OnUnsynced: cfg.OnUnsynced,
	})
}

var _ renderer.Adapter = (*Adapter)(nil)
