package directive

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topicmaps/pkg/errors"
	"github.com/matzehuels/topicmaps/pkg/model"
	"github.com/matzehuels/topicmaps/pkg/observability"
	"github.com/matzehuels/topicmaps/pkg/topicmap"
)

// Target supplies the view models a directive applies to. The current
// topicmap comes first.
type Target interface {
	Loaded() []*topicmap.Viewmodel
}

// Reconciler applies directives to the view models of a Target.
//
// Apply must not be called concurrently; the push channel delivers
// directives one at a time and each is finished before the next starts.
type Reconciler struct {
	target Target
	logger *log.Logger
}

// NewReconciler returns a reconciler over target. A nil logger uses
// log.Default().
func NewReconciler(target Target, logger *log.Logger) *Reconciler {
	if logger == nil {
		logger = log.Default()
	}
	return &Reconciler{target: target, logger: logger}
}

// ApplyAll applies ds in order. It stops at the first error; directives
// before it stay applied.
func (r *Reconciler) ApplyAll(ctx context.Context, ds []Directive) error {
	for i, d := range ds {
		if err := r.Apply(ctx, d); err != nil {
			r.logger.Debug("directive batch aborted", "index", i, "of", len(ds))
			return err
		}
	}
	return nil
}

// Apply applies one directive.
func (r *Reconciler) Apply(ctx context.Context, d Directive) error {
	start := time.Now()
	err := r.apply(d)
	observability.Sync().OnDirective(ctx, string(d.Type), time.Since(start), err)
	return err
}

func (r *Reconciler) apply(d Directive) error {
	switch {
	case d.Type.IsSchema():
		r.logger.Warn("schema directive not supported, skipping", "directive", d.Type)
		return nil
	case !d.Type.Known():
		return errors.New(errors.ErrCodeUnknownDirective, "unknown directive %q", d.Type)
	}

	switch d.Type {
	case UpdateTopic:
		t, err := d.Topic()
		if err != nil {
			return err
		}
		r.each(d.Type, t.ID, func(vm *topicmap.Viewmodel) bool { return vm.ApplyTopicUpdate(t) })
	case DeleteTopic:
		id, err := d.ObjectID()
		if err != nil {
			return err
		}
		r.each(d.Type, id, func(vm *topicmap.Viewmodel) bool { return vm.DeleteTopic(id) })
	case UpdateAssociation:
		a, err := d.Association()
		if err != nil {
			return err
		}
		r.each(d.Type, a.ID, func(vm *topicmap.Viewmodel) bool { return vm.UpdateAssociation(a) })
	case DeleteAssociation:
		id, err := d.ObjectID()
		if err != nil {
			return err
		}
		r.each(d.Type, id, func(vm *topicmap.Viewmodel) bool { return vm.DeleteAssociation(id) })
	}
	return nil
}

func (r *Reconciler) each(t Type, id model.ID, fn func(*topicmap.Viewmodel) bool) {
	n := 0
	for _, vm := range r.target.Loaded() {
		if fn(vm) {
			n++
		}
	}
	r.logger.Debug("directive applied", "directive", t, "id", id, "topicmaps", n)
}
