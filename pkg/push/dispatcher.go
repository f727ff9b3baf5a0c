package push

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topicmaps/pkg/directive"
	"github.com/matzehuels/topicmaps/pkg/errors"
	"github.com/matzehuels/topicmaps/pkg/model"
	"github.com/matzehuels/topicmaps/pkg/observability"
	"github.com/matzehuels/topicmaps/pkg/topicmap"
)

// Maps looks up loaded view models by topicmap id.
type Maps interface {
	Lookup(id model.ID) (*topicmap.Viewmodel, bool)
}

// Dispatcher routes push messages to the reconciler or to sync handlers.
type Dispatcher struct {
	reconciler *directive.Reconciler
	maps       Maps
	logger     *log.Logger
}

// NewDispatcher returns a dispatcher. A nil logger uses log.Default().
func NewDispatcher(r *directive.Reconciler, maps Maps, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Dispatcher{reconciler: r, maps: maps, logger: logger}
}

// Run dispatches messages until msgs is closed or ctx is done. A failing
// message is logged and does not stop the loop. onDone, if non-nil, is
// called after each message.
func (d *Dispatcher) Run(ctx context.Context, msgs <-chan Message, onDone func(Message, error)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-msgs:
			if !ok {
				return nil
			}
			err := d.Dispatch(ctx, m)
			if err != nil {
				d.logger.Error("push message failed", "type", m.Type, "err", err)
			}
			if onDone != nil {
				onDone(m, err)
			}
		}
	}
}

// Dispatch handles one message.
func (d *Dispatcher) Dispatch(ctx context.Context, m Message) error {
	if t := directive.Type(m.Type); t.Known() {
		return d.reconciler.Apply(ctx, directive.Directive{Type: t, Arg: m.Args})
	}
	if m.Type == TypeProcessDirectives {
		var ds []directive.Directive
		if err := decodeArgs(m, &ds); err != nil {
			return err
		}
		return d.reconciler.ApplyAll(ctx, ds)
	}

	start := time.Now()
	err := d.sync(m)
	observability.Sync().OnDirective(ctx, m.Type, time.Since(start), err)
	return err
}

func (d *Dispatcher) sync(m Message) error {
	switch m.Type {
	case TypeAddTopic:
		var a AddTopicArgs
		if err := decodeArgs(m, &a); err != nil {
			return err
		}
		d.with(m.Type, a.TopicmapID, func(vm *topicmap.Viewmodel) { vm.SyncAddTopic(a.Topic, a.ViewProps) })
	case TypeAddAssoc:
		var a AddAssocArgs
		if err := decodeArgs(m, &a); err != nil {
			return err
		}
		d.with(m.Type, a.TopicmapID, func(vm *topicmap.Viewmodel) { vm.SyncAddAssociation(a.Assoc) })
	case TypeSetPosition:
		var a SetPositionArgs
		if err := decodeArgs(m, &a); err != nil {
			return err
		}
		d.with(m.Type, a.TopicmapID, func(vm *topicmap.Viewmodel) { vm.SyncTopicPosition(a.TopicID, a.Pos) })
	case TypeSetVisibility:
		var a SetVisibilityArgs
		if err := decodeArgs(m, &a); err != nil {
			return err
		}
		d.with(m.Type, a.TopicmapID, func(vm *topicmap.Viewmodel) { vm.SyncTopicVisibility(a.TopicID, a.Visibility) })
	case TypeRemoveAssoc:
		var a RemoveAssocArgs
		if err := decodeArgs(m, &a); err != nil {
			return err
		}
		d.with(m.Type, a.TopicmapID, func(vm *topicmap.Viewmodel) { vm.SyncRemoveAssociation(a.AssocID) })
	default:
		return errors.New(errors.ErrCodeUnknownMessage, "unknown push message %q", m.Type)
	}
	return nil
}

// with runs fn on the view model of id if it is loaded.
func (d *Dispatcher) with(typ string, id model.ID, fn func(*topicmap.Viewmodel)) {
	vm, ok := d.maps.Lookup(id)
	if !ok {
		d.logger.Debug("sync for topicmap not loaded", "type", typ, "topicmap", id)
		return
	}
	fn(vm)
}

func decodeArgs(m Message, v any) error {
	if len(m.Args) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "%s message has no args", m.Type)
	}
	if err := json.Unmarshal(m.Args, v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s args", m.Type)
	}
	return nil
}
