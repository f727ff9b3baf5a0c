package topicmap

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"time"

	"github.com/matzehuels/topicmaps/pkg/errors"
	"github.com/matzehuels/topicmaps/pkg/model"
	"github.com/matzehuels/topicmaps/pkg/observability"
)

// Viewmodel is the in-memory projection of one persisted topicmap.
//
// The zero value is not usable - use New.
type Viewmodel struct {
	info        model.TopicmapInfo
	background  string
	topics      map[model.ID]*ViewTopic
	assocs      map[model.ID]*ViewAssociation
	translation model.Point
	selection   Selection

	store Store
	cfg   Config
}

// New builds a view model from fetched topicmap data.
//
// store may be nil for read-only view models. New fails if data lists a
// topic or association id twice, or if a writable view model has no store.
func New(data model.TopicmapData, store Store, cfg Config) (*Viewmodel, error) {
	if cfg.Writable && store == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "writable topicmap %d needs a store", data.Info.ID)
	}

	vm := &Viewmodel{
		info:        data.Info,
		background:  data.Background,
		topics:      make(map[model.ID]*ViewTopic, len(data.Topics)),
		assocs:      make(map[model.ID]*ViewAssociation, len(data.Associations)),
		translation: data.Translation,
		store:       store,
		cfg:         cfg,
	}

	for _, t := range data.Topics {
		if _, dup := vm.topics[t.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput, "topicmap %d lists topic %d twice", data.Info.ID, t.ID)
		}
		pos, _ := t.ViewProps.Position()
		vm.topics[t.ID] = newViewTopic(t.Topic, pos, t.ViewProps.Visibility(), t.ViewProps.Extra())
	}
	for _, a := range data.Associations {
		if cfg.TopicsOnly {
			break
		}
		if _, dup := vm.assocs[a.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput, "topicmap %d lists association %d twice", data.Info.ID, a.ID)
		}
		vm.assocs[a.ID] = newViewAssociation(a)
	}
	return vm, nil
}

// =============================================================================
// Accessors
// =============================================================================

// Info returns the topicmap summary.
func (vm *Viewmodel) Info() model.TopicmapInfo { return vm.info }

// ID returns the topicmap id.
func (vm *Viewmodel) ID() model.ID { return vm.info.ID }

// Name returns the topicmap name.
func (vm *Viewmodel) Name() string { return vm.info.Name }

// RendererURI returns the URI of the renderer that owns this topicmap.
func (vm *Viewmodel) RendererURI() string { return vm.info.RendererURI }

// Background returns the background reference, if any.
func (vm *Viewmodel) Background() string { return vm.background }

// Writable reports whether mutations are persisted.
func (vm *Viewmodel) Writable() bool { return vm.cfg.Writable }

// Policy returns the update-directive policy.
func (vm *Viewmodel) Policy() UpdatePolicy { return vm.cfg.Policy }

// Translation returns the current pan offset.
func (vm *Viewmodel) Translation() model.Point { return vm.translation }

// Selection returns the current selection.
func (vm *Viewmodel) Selection() Selection { return vm.selection }

// Topic returns a copy of the topic with the given id.
func (vm *Viewmodel) Topic(id model.ID) (ViewTopic, bool) {
	t, ok := vm.topics[id]
	if !ok {
		return ViewTopic{}, false
	}
	return copyTopic(t), true
}

// Association returns a copy of the association with the given id.
func (vm *Viewmodel) Association(id model.ID) (ViewAssociation, bool) {
	a, ok := vm.assocs[id]
	if !ok {
		return ViewAssociation{}, false
	}
	return *a, true
}

// HasTopic reports whether id is a topic member, visible or not.
func (vm *Viewmodel) HasTopic(id model.ID) bool {
	_, ok := vm.topics[id]
	return ok
}

// HasAssociation reports whether id is an association member.
func (vm *Viewmodel) HasAssociation(id model.ID) bool {
	_, ok := vm.assocs[id]
	return ok
}

// TopicCount returns the number of topic members, hidden ones included.
func (vm *Viewmodel) TopicCount() int { return len(vm.topics) }

// AssociationCount returns the number of association members.
func (vm *Viewmodel) AssociationCount() int { return len(vm.assocs) }

// Topics returns copies of all topic members ordered by id.
func (vm *Viewmodel) Topics() []ViewTopic {
	out := make([]ViewTopic, 0, len(vm.topics))
	for _, id := range sortedKeys(vm.topics) {
		out = append(out, copyTopic(vm.topics[id]))
	}
	return out
}

// VisibleTopics returns copies of the visible topic members ordered by id.
func (vm *Viewmodel) VisibleTopics() []ViewTopic {
	var out []ViewTopic
	for _, id := range sortedKeys(vm.topics) {
		if t := vm.topics[id]; t.Visible {
			out = append(out, copyTopic(t))
		}
	}
	return out
}

// Associations returns copies of all association members ordered by id.
func (vm *Viewmodel) Associations() []ViewAssociation {
	out := make([]ViewAssociation, 0, len(vm.assocs))
	for _, id := range sortedKeys(vm.assocs) {
		out = append(out, *vm.assocs[id])
	}
	return out
}

// IncidentAssociations returns the associations one of whose players is id.
func (vm *Viewmodel) IncidentAssociations(id model.ID) []ViewAssociation {
	var out []ViewAssociation
	for _, aid := range vm.incident(id) {
		out = append(out, *vm.assocs[aid])
	}
	return out
}

// =============================================================================
// Internal Helpers
// =============================================================================

func (vm *Viewmodel) isMember(id model.ID) bool {
	return vm.HasTopic(id) || vm.HasAssociation(id)
}

// incident returns the ids of associations connected to id, ordered.
func (vm *Viewmodel) incident(id model.ID) []model.ID {
	var out []model.ID
	for aid, a := range vm.assocs {
		if a.Connects(id) {
			out = append(out, aid)
		}
	}
	slices.Sort(out)
	return out
}

func (vm *Viewmodel) lookupTopic(id model.ID) (*ViewTopic, error) {
	t, ok := vm.topics[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotMember, "topic %d is not on topicmap %d", id, vm.info.ID)
	}
	return t, nil
}

func (vm *Viewmodel) lookupAssociation(id model.ID) (*ViewAssociation, error) {
	a, ok := vm.assocs[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotMember, "association %d is not on topicmap %d", id, vm.info.ID)
	}
	return a, nil
}

func (vm *Viewmodel) emit(kind EventKind, id model.ID) {
	if vm.cfg.Observer != nil {
		vm.cfg.Observer(Event{Kind: kind, ID: id})
	}
}

// persist issues a remote write when the view model is writable.
func (vm *Viewmodel) persist(ctx context.Context, op string, objectID model.ID, write func(Store) error) error {
	if !vm.cfg.Writable {
		return nil
	}
	start := time.Now()
	err := write(vm.store)
	observability.Sync().OnWrite(ctx, op, vm.info.ID, time.Since(start), err)
	if err == nil {
		return nil
	}
	ue := &UnsyncedError{Op: op, TopicmapID: vm.info.ID, ObjectID: objectID, Err: err}
	if vm.cfg.OnUnsynced != nil {
		vm.cfg.OnUnsynced(ue)
	}
	return ue
}

func copyTopic(t *ViewTopic) ViewTopic {
	c := *t
	c.Props = t.Props.Clone()
	return c
}

func sortedKeys[V any](m map[model.ID]V) []model.ID {
	return slices.SortedFunc(maps.Keys(m), cmp.Compare[model.ID])
}
