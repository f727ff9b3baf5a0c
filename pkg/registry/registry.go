package registry

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topicmaps/pkg/errors"
	"github.com/matzehuels/topicmaps/pkg/localstate"
	"github.com/matzehuels/topicmaps/pkg/model"
	"github.com/matzehuels/topicmaps/pkg/observability"
	"github.com/matzehuels/topicmaps/pkg/renderer"
	"github.com/matzehuels/topicmaps/pkg/topicmap"
)

// DefaultName is the name of topicmaps created for empty workspaces.
const DefaultName = "untitled"

// Service is the part of the remote store the registry needs.
type Service interface {
	FetchTopicmaps(ctx context.Context, workspaceID model.ID) ([]model.TopicmapInfo, error)
	CreateTopicmap(ctx context.Context, name, rendererURI string, workspaceID model.ID) (model.TopicmapInfo, error)
}

// Options configures a Registry.
type Options struct {
	Service   Service
	Renderers *renderer.Registry
	// State keeps last-selected hints. Nil uses a memory store.
	State localstate.Store
	// DefaultRenderer is used for topicmaps created for empty workspaces.
	// Empty uses the first registered renderer.
	DefaultRenderer string
	// Writable is passed to every loaded view model.
	Writable bool
	// Observer receives view-model events tagged with the topicmap id.
	Observer func(topicmapID model.ID, e topicmap.Event)
	// OnUnsynced receives failed remote writes of any loaded view model.
	OnUnsynced func(*topicmap.UnsyncedError)
	Logger     *log.Logger
}

// Registry tracks topicmap summaries per workspace, the current workspace
// and topicmap, and a cache of loaded view models.
type Registry struct {
	opts   Options
	state  localstate.Store
	logger *log.Logger

	summaries map[model.ID][]model.TopicmapInfo
	cache     map[model.ID]*topicmap.Viewmodel

	workspace model.ID
	current   model.ID
}

// New returns a registry with no workspace selected.
func New(opts Options) (*Registry, error) {
	if opts.Service == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "registry needs a service")
	}
	if opts.Renderers == nil || len(opts.Renderers.Infos()) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "registry needs at least one renderer")
	}
	if opts.DefaultRenderer == "" {
		opts.DefaultRenderer = opts.Renderers.Infos()[0].URI
	}
	if !opts.Renderers.Has(opts.DefaultRenderer) {
		return nil, errors.New(errors.ErrCodeUnknownRenderer, "default renderer %q is not registered", opts.DefaultRenderer)
	}

	r := &Registry{
		opts:      opts,
		state:     opts.State,
		logger:    opts.Logger,
		summaries: make(map[model.ID][]model.TopicmapInfo),
		cache:     make(map[model.ID]*topicmap.Viewmodel),
	}
	if r.state == nil {
		r.state = localstate.NewMemoryStore()
	}
	if r.logger == nil {
		r.logger = log.Default()
	}
	return r, nil
}

// =============================================================================
// Accessors
// =============================================================================

// Workspace returns the selected workspace, or NoID.
func (r *Registry) Workspace() model.ID { return r.workspace }

// CurrentID returns the selected topicmap id, or NoID.
func (r *Registry) CurrentID() model.ID { return r.current }

// Current returns the selected view model, or nil.
func (r *Registry) Current() *topicmap.Viewmodel { return r.cache[r.current] }

// Lookup returns a cached view model.
func (r *Registry) Lookup(id model.ID) (*topicmap.Viewmodel, bool) {
	vm, ok := r.cache[id]
	return vm, ok
}

// Loaded returns every cached view model, the current one first and the
// rest ordered by id.
func (r *Registry) Loaded() []*topicmap.Viewmodel {
	ids := slices.SortedFunc(maps.Keys(r.cache), cmp.Compare[model.ID])
	out := make([]*topicmap.Viewmodel, 0, len(ids))
	if vm, ok := r.cache[r.current]; ok {
		out = append(out, vm)
	}
	for _, id := range ids {
		if id != r.current {
			out = append(out, r.cache[id])
		}
	}
	return out
}

// Summaries returns the known topicmaps of a workspace, or nil if they were
// never fetched.
func (r *Registry) Summaries(ws model.ID) []model.TopicmapInfo {
	return slices.Clone(r.summaries[ws])
}

// LastWorkspace returns the workspace hint from local state.
func (r *Registry) LastWorkspace(ctx context.Context) (model.ID, bool) {
	id, ok, err := localstate.GetID(ctx, r.state, localstate.KeyWorkspace)
	if err != nil {
		r.logger.Warn("ignoring workspace hint", "err", err)
		return model.NoID, false
	}
	return id, ok
}

// =============================================================================
// Selection
// =============================================================================

// SelectWorkspace makes ws the current workspace and selects one of its
// topicmaps: the last selected one if it still exists, else the first.
// An empty workspace gets a default topicmap first. The workspace hint is
// stored only once a topicmap of ws is selected. On failure the previous
// workspace stays current.
func (r *Registry) SelectWorkspace(ctx context.Context, ws model.ID) (*topicmap.Viewmodel, error) {
	vm, err := r.selectWorkspace(ctx, ws)
	if err != nil {
		return nil, err
	}
	if err := localstate.SetID(ctx, r.state, localstate.KeyWorkspace, ws); err != nil {
		r.logger.Warn("could not store workspace hint", "workspace", ws, "err", err)
	}
	return vm, nil
}

func (r *Registry) selectWorkspace(ctx context.Context, ws model.ID) (*topicmap.Viewmodel, error) {
	infos, err := r.ensureSummaries(ctx, ws)
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		if infos, err = r.createDefault(ctx, ws); err != nil {
			return nil, err
		}
	}

	id := infos[0].ID
	if hint, ok, err := localstate.GetID(ctx, r.state, localstate.TopicmapKey(ws)); err != nil {
		r.logger.Warn("ignoring topicmap hint", "workspace", ws, "err", err)
	} else if ok && slices.ContainsFunc(infos, func(i model.TopicmapInfo) bool { return i.ID == hint }) {
		id = hint
	} else if ok {
		r.logger.Debug("last selected topicmap is gone", "workspace", ws, "topicmap", hint)
	}

	prev, prevCurrent := r.workspace, r.current
	r.workspace = ws
	vm, err := r.SetSelectedTopicmap(ctx, id)
	if err != nil {
		r.workspace, r.current = prev, prevCurrent
		return nil, err
	}
	return vm, nil
}

// SetSelectedTopicmap makes id the current topicmap of the current
// workspace. It persists the last-selected marker, resolves the renderer,
// and then serves the view model from cache or loads it.
func (r *Registry) SetSelectedTopicmap(ctx context.Context, id model.ID) (*topicmap.Viewmodel, error) {
	if r.workspace == model.NoID {
		return nil, errors.New(errors.ErrCodeNoTopicmap, "no workspace selected")
	}
	info, ok := r.info(r.workspace, id)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "topicmap %d is not in workspace %d", id, r.workspace)
	}

	if err := localstate.SetID(ctx, r.state, localstate.TopicmapKey(r.workspace), id); err != nil {
		r.logger.Warn("could not store topicmap hint", "topicmap", id, "err", err)
	}

	adapter, err := r.opts.Renderers.Lookup(info.RendererURI)
	if err != nil {
		return nil, err
	}

	vm, err := r.load(ctx, adapter, id)
	if err != nil {
		return nil, err
	}
	r.current = id
	r.logger.Debug("topicmap selected", "topicmap", id, "workspace", r.workspace, "renderer", info.RendererURI)
	return vm, nil
}

// CreateTopicmap creates a topicmap in the current workspace and selects it.
// An empty rendererURI uses the default renderer.
func (r *Registry) CreateTopicmap(ctx context.Context, name, rendererURI string) (*topicmap.Viewmodel, error) {
	if r.workspace == model.NoID {
		return nil, errors.New(errors.ErrCodeNoTopicmap, "no workspace selected")
	}
	if rendererURI == "" {
		rendererURI = r.opts.DefaultRenderer
	}
	if !r.opts.Renderers.Has(rendererURI) {
		return nil, errors.New(errors.ErrCodeUnknownRenderer, "no renderer registered for %q", rendererURI)
	}
	if err := errors.ValidateTopicmapName(name); err != nil {
		return nil, err
	}
	if _, err := r.ensureSummaries(ctx, r.workspace); err != nil {
		return nil, err
	}
	info, err := r.opts.Service.CreateTopicmap(ctx, name, rendererURI, r.workspace)
	if err != nil {
		return nil, fmt.Errorf("create topicmap %q: %w", name, err)
	}
	r.summaries[r.workspace] = append(r.summaries[r.workspace], info)
	return r.SetSelectedTopicmap(ctx, info.ID)
}

// =============================================================================
// Delete / Reload
// =============================================================================

// DeleteTopicmap forgets a topicmap that was deleted in workspace ws.
//
// If ws is the current workspace and it is now empty, a default topicmap is
// created. If the deleted map was current, another one is selected. For any
// other workspace default creation waits until that workspace is selected.
// The returned view model is the current one afterwards, or nil if the
// selection did not change.
func (r *Registry) DeleteTopicmap(ctx context.Context, id, ws model.ID) (*topicmap.Viewmodel, error) {
	r.Invalidate(ctx, id)
	if infos, ok := r.summaries[ws]; ok {
		r.summaries[ws] = slices.DeleteFunc(infos, func(i model.TopicmapInfo) bool { return i.ID == id })
	}

	if ws != r.workspace {
		r.logger.Debug("topicmap deleted in other workspace", "topicmap", id, "workspace", ws)
		return nil, nil
	}

	if len(r.summaries[ws]) == 0 {
		if _, err := r.createDefault(ctx, ws); err != nil {
			return nil, err
		}
	}
	if id != r.current {
		return nil, nil
	}
	r.current = model.NoID
	return r.SetSelectedTopicmap(ctx, r.summaries[ws][0].ID)
}

// ReloadTopicmap drops the current view model and loads it again.
func (r *Registry) ReloadTopicmap(ctx context.Context) (*topicmap.Viewmodel, error) {
	if r.current == model.NoID {
		return nil, errors.New(errors.ErrCodeNoTopicmap, "no topicmap selected")
	}
	r.Invalidate(ctx, r.current)
	return r.SetSelectedTopicmap(ctx, r.current)
}

// Invalidate removes a view model from the cache.
func (r *Registry) Invalidate(ctx context.Context, id model.ID) {
	if _, ok := r.cache[id]; !ok {
		return
	}
	delete(r.cache, id)
	observability.Cache().OnEvict(ctx, id)
}

// RefreshSummaries refetches the summaries of ws.
func (r *Registry) RefreshSummaries(ctx context.Context, ws model.ID) ([]model.TopicmapInfo, error) {
	delete(r.summaries, ws)
	return r.ensureSummaries(ctx, ws)
}

// =============================================================================
// Internal Helpers
// =============================================================================

func (r *Registry) ensureSummaries(ctx context.Context, ws model.ID) ([]model.TopicmapInfo, error) {
	if infos, ok := r.summaries[ws]; ok {
		return infos, nil
	}
	infos, err := r.opts.Service.FetchTopicmaps(ctx, ws)
	if err != nil {
		return nil, fmt.Errorf("fetch topicmaps of workspace %d: %w", ws, err)
	}
	if infos == nil {
		infos = []model.TopicmapInfo{}
	}
	r.summaries[ws] = infos
	return infos, nil
}

func (r *Registry) createDefault(ctx context.Context, ws model.ID) ([]model.TopicmapInfo, error) {
	info, err := r.opts.Service.CreateTopicmap(ctx, DefaultName, r.opts.DefaultRenderer, ws)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNoTopicmap, err, "workspace %d has no topicmap", ws)
	}
	r.logger.Info("created default topicmap", "topicmap", info.ID, "workspace", ws)
	r.summaries[ws] = append(r.summaries[ws], info)
	return r.summaries[ws], nil
}

func (r *Registry) info(ws, id model.ID) (model.TopicmapInfo, bool) {
	for _, i := range r.summaries[ws] {
		if i.ID == id {
			return i, true
		}
	}
	return model.TopicmapInfo{}, false
}

func (r *Registry) load(ctx context.Context, adapter renderer.Adapter, id model.ID) (*topicmap.Viewmodel, error) {
	vm, ok := r.cache[id]
	observability.Cache().OnLookup(ctx, id, ok)
	if ok {
		return vm, nil
	}

	cfg := renderer.Config{Writable: r.opts.Writable, OnUnsynced: r.opts.OnUnsynced}
	if obs := r.opts.Observer; obs != nil {
		cfg.Observer = func(e topicmap.Event) { obs(id, e) }
	}
	vm, err := adapter.LoadTopicmap(ctx, id, cfg)
	if err != nil {
		return nil, err
	}
	r.cache[id] = vm
	r.logger.Debug("topicmap loaded", "topicmap", id, "topics", vm.TopicCount(), "assocs", vm.AssociationCount())
	return vm, nil
}
