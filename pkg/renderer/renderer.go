package renderer

import (
	"context"
	"slices"

	"github.com/matzehuels/topicmaps/pkg/errors"
	"github.com/matzehuels/topicmaps/pkg/model"
	"github.com/matzehuels/topicmaps/pkg/topicmap"
)

// Info identifies the renderer URI an adapter claims.
type Info struct {
	URI  string `json:"uri"`
	Name string `json:"name"`
}

// Config is passed to [Adapter.LoadTopicmap].
type Config struct {
	// Writable enables remote writes on the loaded view model.
	Writable bool
	// Observer receives view-model change events. May be nil.
	Observer func(topicmap.Event)
	// OnUnsynced receives failed remote writes. May be nil.
	OnUnsynced func(*topicmap.UnsyncedError)
}

// Loader fetches complete topicmap data from the remote store.
type Loader interface {
	FetchTopicmap(ctx context.Context, id model.ID) (model.TopicmapData, error)
}

// Adapter loads topicmaps for one renderer URI.
type Adapter interface {
	Info() Info
	LoadTopicmap(ctx context.Context, id model.ID, cfg Config) (*topicmap.Viewmodel, error)
}

// Registry maps renderer URIs to adapters.
type Registry struct {
	adapters map[string]Adapter
	order    []string
}

// NewRegistry returns a registry holding the given adapters.
// It fails if two adapters claim the same URI.
func NewRegistry(adapters ...Adapter) (*Registry, error) {
	r := &Registry{adapters: make(map[string]Adapter, len(adapters))}
	for _, a := range adapters {
		if err := r.Register(a); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds an adapter.
func (r *Registry) Register(a Adapter) error {
	info := a.Info()
	if info.URI == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "renderer %q has no URI", info.Name)
	}
	if _, dup := r.adapters[info.URI]; dup {
		return errors.New(errors.ErrCodeInvalidConfig, "renderer %q registered twice", info.URI)
	}
	r.adapters[info.URI] = a
	r.order = append(r.order, info.URI)
	return nil
}

// Lookup returns the adapter that claims uri.
func (r *Registry) Lookup(uri string) (Adapter, error) {
	a, ok := r.adapters[uri]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownRenderer, "no renderer registered for %q", uri)
	}
	return a, nil
}

// Has reports whether uri is registered.
func (r *Registry) Has(uri string) bool {
	_, ok := r.adapters[uri]
	return ok
}

// Infos returns the registered renderers in registration order.
func (r *Registry) Infos() []Info {
	out := make([]Info, 0, len(r.order))
	for _, uri := range r.order {
		out = append(out, r.adapters[uri].Info())
	}
	return out
}

// URIs returns the registered URIs, sorted.
func (r *Registry) URIs() []string {
	return slices.Sorted(slices.Values(r.order))
}

// Fetch loads topicmap data through l and checks that it belongs to the
// renderer identified by uri. Adapters share it.
func Fetch(ctx context.Context, l Loader, id model.ID, uri string) (model.TopicmapData, error) {
	data, err := l.FetchTopicmap(ctx, id)
	if err != nil {
		return model.TopicmapData{}, err
	}
	if got := data.Info.RendererURI; got != "" && got != uri {
		return model.TopicmapData{}, errors.New(errors.ErrCodeInvalidInput,
			"topicmap %d belongs to renderer %q, not %q", id, got, uri)
	}
	return data, nil
}
