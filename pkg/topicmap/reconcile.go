package topicmap

import (
	"context"

	"github.com/matzehuels/topicmaps/pkg/model"
)

// =============================================================================
// Directive Handlers
// =============================================================================

// UpdateTopic refreshes type and label of a member topic. Position,
// visibility and the remote store are untouched. Non-members are ignored.
// It reports whether the topic was a member.
func (vm *Viewmodel) UpdateTopic(topic model.Topic) bool {
	vt, ok := vm.topics[topic.ID]
	if !ok {
		return false
	}
	vt.TypeURI = topic.TypeURI
	vt.Label = topic.Label()
	vm.emit(EventTopicUpdated, topic.ID)
	return true
}

// UpsertTopic refreshes a member topic like UpdateTopic and moves it to
// the position the upsert rule derives, or creates it if the rule accepts
// it. Both happen locally only. It reports whether the topic is a member
// afterwards.
func (vm *Viewmodel) UpsertTopic(topic model.Topic) bool {
	rule := vm.cfg.Upsert
	if rule == nil {
		rule = &UpsertRule{}
	}
	var (
		pos    model.Point
		hasPos bool
	)
	if rule.Position != nil {
		pos, hasPos = rule.Position(topic)
	}

	if vm.UpdateTopic(topic) {
		if vt := vm.topics[topic.ID]; hasPos && vt.Position != pos {
			vt.Position = pos
			vm.emit(EventTopicMoved, topic.ID)
		}
		return true
	}
	if rule.Accept != nil && !rule.Accept(topic) {
		return false
	}
	vm.topics[topic.ID] = newViewTopic(topic, pos, true, nil)
	vm.emit(EventTopicAdded, topic.ID)
	return true
}

// ApplyTopicUpdate dispatches an update directive according to the
// configured policy.
func (vm *Viewmodel) ApplyTopicUpdate(topic model.Topic) bool {
	if vm.cfg.Policy == UpsertOnUpdate {
		return vm.UpsertTopic(topic)
	}
	return vm.UpdateTopic(topic)
}

// UpdateAssociation refreshes type, label and roles of a member
// association. Non-members are ignored.
func (vm *Viewmodel) UpdateAssociation(assoc model.Association) bool {
	va, ok := vm.assocs[assoc.ID]
	if !ok {
		return false
	}
	va.TypeURI = assoc.TypeURI
	va.Label = assoc.Value
	va.Role1 = assoc.Role1
	va.Role2 = assoc.Role2
	vm.emit(EventAssociationUpdated, assoc.ID)
	return true
}

// DeleteTopic drops a topic that no longer exists anywhere, together with
// the associations connected to it. Nothing is written. It reports whether
// the topic was a member.
func (vm *Viewmodel) DeleteTopic(id model.ID) bool {
	if _, ok := vm.topics[id]; !ok {
		return false
	}
	for _, aid := range vm.incident(id) {
		vm.removeAssociation(context.Background(), aid, false)
	}
	delete(vm.topics, id)
	if vm.selection.Is(id, KindTopic) {
		vm.resetSelection()
	}
	vm.emit(EventTopicRemoved, id)
	return true
}

// DeleteAssociation drops an association that no longer exists anywhere.
// Nothing is written. It reports whether the association was a member.
func (vm *Viewmodel) DeleteAssociation(id model.ID) bool {
	if _, ok := vm.assocs[id]; !ok {
		return false
	}
	vm.removeAssociation(context.Background(), id, false)
	return true
}

// =============================================================================
// Sync Handlers
// =============================================================================

// SyncAddTopic mirrors another client adding or re-showing a topic.
func (vm *Viewmodel) SyncAddTopic(topic model.Topic, props model.ViewProps) {
	pos, hasPos := props.Position()
	visible := props.Visibility()

	vt, ok := vm.topics[topic.ID]
	if !ok {
		vm.topics[topic.ID] = newViewTopic(topic, pos, visible, props.Extra())
		vm.emit(EventTopicAdded, topic.ID)
		return
	}
	if hasPos {
		vt.Position = pos
	}
	if visible {
		vm.SyncTopicVisibility(topic.ID, true)
	}
}

// SyncAddAssociation mirrors another client revealing an association.
// It is ignored unless both players are members, and on TopicsOnly maps.
func (vm *Viewmodel) SyncAddAssociation(assoc model.Association) bool {
	if vm.HasAssociation(assoc.ID) {
		return true
	}
	if vm.cfg.TopicsOnly {
		return false
	}
	if !vm.isMember(assoc.Role1.PlayerID) || !vm.isMember(assoc.Role2.PlayerID) {
		return false
	}
	vm.assocs[assoc.ID] = newViewAssociation(assoc)
	vm.emit(EventAssociationAdded, assoc.ID)
	return true
}

// SyncTopicPosition mirrors another client moving a topic.
func (vm *Viewmodel) SyncTopicPosition(id model.ID, pos model.Point) bool {
	vt, ok := vm.topics[id]
	if !ok {
		return false
	}
	vt.Position = pos
	vm.emit(EventTopicMoved, id)
	return true
}

// SyncTopicVisibility mirrors another client showing or hiding a topic.
// Hiding drops connected associations locally.
func (vm *Viewmodel) SyncTopicVisibility(id model.ID, visible bool) bool {
	vt, ok := vm.topics[id]
	if !ok {
		return false
	}
	if vt.Visible == visible {
		return true
	}
	vt.Visible = visible
	if visible {
		vm.emit(EventTopicShown, id)
		return true
	}
	vm.emit(EventTopicHidden, id)
	if vm.selection.Is(id, KindTopic) {
		vm.resetSelection()
	}
	for _, aid := range vm.incident(id) {
		vm.removeAssociation(context.Background(), aid, false)
	}
	return true
}

// SyncRemoveAssociation mirrors another client hiding an association.
func (vm *Viewmodel) SyncRemoveAssociation(id model.ID) bool {
	return vm.DeleteAssociation(id)
}
