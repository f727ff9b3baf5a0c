package topicmap

import (
	"context"
	stderrors "errors"

	"github.com/matzehuels/topicmaps/pkg/errors"
	"github.com/matzehuels/topicmaps/pkg/model"
)

// =============================================================================
// Reveal
// =============================================================================

// RevealTopic places topic on the map at pos.
//
// A non-member is added as a visible topic and persisted. A hidden member is
// made visible again, keeping its old position. A visible member is left
// alone. If sel is true the topic becomes the selection in every case.
func (vm *Viewmodel) RevealTopic(ctx context.Context, topic model.Topic, pos model.Point, sel bool) error {
	id := topic.ID
	var err error

	vt, ok := vm.topics[id]
	switch {
	case !ok:
		vm.topics[id] = newViewTopic(topic, pos, true, nil)
		vm.emit(EventTopicAdded, id)
		props := model.NewViewProps(pos, true)
		err = vm.persist(ctx, OpAddTopic, id, func(s Store) error {
			return s.AddTopic(ctx, vm.info.ID, id, props)
		})
	case !vt.Visible:
		vt.Visible = true
		vm.emit(EventTopicShown, id)
		err = vm.persist(ctx, OpSetTopicVisibility, id, func(s Store) error {
			return s.SetTopicVisibility(ctx, vm.info.ID, id, true)
		})
	}

	if sel {
		vm.setSelection(Selection{ID: id, Kind: KindTopic})
	}
	return err
}

// RevealAssociation places assoc on the map. Both players must already be
// members. Revealing a member only affects the selection. TopicsOnly maps
// refuse associations.
func (vm *Viewmodel) RevealAssociation(ctx context.Context, assoc model.Association, sel bool) error {
	id := assoc.ID
	if vm.cfg.TopicsOnly {
		return errors.New(errors.ErrCodeUnsupported, "topicmap %d shows no associations", vm.info.ID)
	}
	var err error

	if !vm.HasAssociation(id) {
		for _, p := range []model.ID{assoc.Role1.PlayerID, assoc.Role2.PlayerID} {
			if !vm.isMember(p) {
				return errors.New(errors.ErrCodeNotMember,
					"association %d: player %d is not on topicmap %d", id, p, vm.info.ID)
			}
		}
		vm.assocs[id] = newViewAssociation(assoc)
		vm.emit(EventAssociationAdded, id)
		err = vm.persist(ctx, OpAddAssociation, id, func(s Store) error {
			return s.AddAssociation(ctx, vm.info.ID, id)
		})
	}

	if sel {
		vm.setSelection(Selection{ID: id, Kind: KindAssociation})
	}
	return err
}

// RevealRelatedTopic reveals rel and selects it, then reveals the association
// that connects it to the originating topic without selecting it. On
// TopicsOnly maps only the topic is revealed.
func (vm *Viewmodel) RevealRelatedTopic(ctx context.Context, rel model.RelatedTopic, pos model.Point) error {
	if !rel.Association.Connects(rel.ID) {
		return errors.New(errors.ErrCodeInvalidInput,
			"association %d does not connect topic %d", rel.Association.ID, rel.ID)
	}
	topicErr := vm.RevealTopic(ctx, rel.Topic, pos, true)
	if vm.cfg.TopicsOnly {
		return topicErr
	}
	assocErr := vm.RevealAssociation(ctx, rel.Association, false)
	return stderrors.Join(topicErr, assocErr)
}

// =============================================================================
// Placement
// =============================================================================

// SetTopicPosition moves a member topic and persists the position.
// Visibility and selection are not affected.
func (vm *Viewmodel) SetTopicPosition(ctx context.Context, id model.ID, pos model.Point) error {
	vt, err := vm.lookupTopic(id)
	if err != nil {
		return err
	}
	vt.Position = pos
	vm.emit(EventTopicMoved, id)
	return vm.persist(ctx, OpSetTopicPosition, id, func(s Store) error {
		return s.SetTopicPosition(ctx, vm.info.ID, id, pos)
	})
}

// SetViewProps merges renderer-specific view properties into a member topic
// and persists them. Position and visibility have dedicated operations and
// are rejected here.
func (vm *Viewmodel) SetViewProps(ctx context.Context, id model.ID, props model.ViewProps) error {
	vt, err := vm.lookupTopic(id)
	if err != nil {
		return err
	}
	for _, k := range []string{model.PropX, model.PropY, model.PropVisibility} {
		if _, ok := props[k]; ok {
			return errors.New(errors.ErrCodeInvalidInput, "view property %q cannot be set generically", k)
		}
	}
	if vt.Props == nil {
		vt.Props = model.ViewProps{}
	}
	for k, v := range props {
		vt.Props[k] = v
	}
	vm.emit(EventPropsChanged, id)
	sent := props.Clone()
	return vm.persist(ctx, OpSetViewProps, id, func(s Store) error {
		return s.SetViewProps(ctx, vm.info.ID, id, sent)
	})
}

// =============================================================================
// Hide
// =============================================================================

// HideTopic makes a member topic invisible and removes every association
// connected to it. The topic stays a member. Each removal is persisted.
func (vm *Viewmodel) HideTopic(ctx context.Context, id model.ID) error {
	vt, err := vm.lookupTopic(id)
	if err != nil {
		return err
	}

	var errs []error
	if vt.Visible {
		vt.Visible = false
		vm.emit(EventTopicHidden, id)
		errs = append(errs, vm.persist(ctx, OpSetTopicVisibility, id, func(s Store) error {
			return s.SetTopicVisibility(ctx, vm.info.ID, id, false)
		}))
	}
	if vm.selection.Is(id, KindTopic) {
		vm.resetSelection()
	}
	for _, aid := range vm.incident(id) {
		errs = append(errs, vm.removeAssociation(ctx, aid, true)...)
	}
	return stderrors.Join(errs...)
}

// HideAssociation removes a member association and persists the removal.
// Associations attached to it are removed as well.
func (vm *Viewmodel) HideAssociation(ctx context.Context, id model.ID) error {
	if _, err := vm.lookupAssociation(id); err != nil {
		return err
	}
	return stderrors.Join(vm.removeAssociation(ctx, id, true)...)
}

// removeAssociation drops id and, transitively, every association whose
// player is a dropped association. Removals are persisted if persist is set.
func (vm *Viewmodel) removeAssociation(ctx context.Context, id model.ID, persist bool) []error {
	var errs []error
	stack := []model.ID{id}
	for len(stack) > 0 {
		aid := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := vm.assocs[aid]; !ok {
			continue
		}
		delete(vm.assocs, aid)
		if vm.selection.Is(aid, KindAssociation) {
			vm.resetSelection()
		}
		vm.emit(EventAssociationRemoved, aid)
		if persist {
			errs = append(errs, vm.persist(ctx, OpRemoveAssociation, aid, func(s Store) error {
				return s.RemoveAssociation(ctx, vm.info.ID, aid)
			}))
		}
		stack = append(stack, vm.incident(aid)...)
	}
	return errs
}

// =============================================================================
// Selection
// =============================================================================

// SetSelection selects a member object. Selection is never persisted.
func (vm *Viewmodel) SetSelection(id model.ID, kind Kind) error {
	switch kind {
	case KindTopic:
		if _, err := vm.lookupTopic(id); err != nil {
			return err
		}
	case KindAssociation:
		if _, err := vm.lookupAssociation(id); err != nil {
			return err
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "cannot select kind %s", kind)
	}
	vm.setSelection(Selection{ID: id, Kind: kind})
	return nil
}

// ResetSelection clears the selection.
func (vm *Viewmodel) ResetSelection() {
	vm.resetSelection()
}

func (vm *Viewmodel) setSelection(s Selection) {
	if vm.selection == s {
		return
	}
	vm.selection = s
	vm.emit(EventSelectionChanged, s.ID)
}

func (vm *Viewmodel) resetSelection() {
	if vm.selection.IsNone() {
		return
	}
	vm.selection = Selection{}
	vm.emit(EventSelectionChanged, model.NoID)
}

// =============================================================================
// Translation
// =============================================================================

// SetTranslation sets the pan offset and persists it.
func (vm *Viewmodel) SetTranslation(ctx context.Context, x, y float64) error {
	t := model.Point{X: x, Y: y}
	vm.translation = t
	vm.emit(EventTranslated, model.NoID)
	return vm.persist(ctx, OpSetTranslation, vm.info.ID, func(s Store) error {
		return s.SetTranslation(ctx, vm.info.ID, t)
	})
}

// TranslateBy shifts the pan offset without persisting it. Callers commit
// the final offset with SetTranslation when the gesture ends.
func (vm *Viewmodel) TranslateBy(dx, dy float64) {
	vm.translation = vm.translation.Add(model.Point{X: dx, Y: dy})
	vm.emit(EventTranslated, model.NoID)
}
