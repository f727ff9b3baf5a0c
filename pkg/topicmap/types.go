package topicmap

import (
	"github.com/matzehuels/topicmaps/pkg/model"
)

// =============================================================================
// Entities
// =============================================================================

// ViewTopic is a topic placed on a topicmap.
type ViewTopic struct {
	ID       model.ID
	TypeURI  string
	Label    string
	Position model.Point
	Visible  bool
	// Props holds renderer-specific view properties other than x, y and
	// visibility.
	Props model.ViewProps
}

// ViewAssociation is an association placed on a topicmap.
// Associations have no visibility of their own: a member is shown.
type ViewAssociation struct {
	ID      model.ID
	TypeURI string
	Label   string
	Role1   model.Role
	Role2   model.Role
}

// Connects reports whether id plays either role.
func (a ViewAssociation) Connects(id model.ID) bool {
	return a.Role1.PlayerID == id || a.Role2.PlayerID == id
}

// OtherPlayer returns the player opposite to id.
func (a ViewAssociation) OtherPlayer(id model.ID) (model.ID, bool) {
	switch id {
	case a.Role1.PlayerID:
		return a.Role2.PlayerID, true
	case a.Role2.PlayerID:
		return a.Role1.PlayerID, true
	}
	return model.NoID, false
}

func newViewTopic(t model.Topic, pos model.Point, visible bool, extra model.ViewProps) *ViewTopic {
	return &ViewTopic{
		ID:       t.ID,
		TypeURI:  t.TypeURI,
		Label:    t.Label(),
		Position: pos,
		Visible:  visible,
		Props:    extra,
	}
}

func newViewAssociation(a model.Association) *ViewAssociation {
	return &ViewAssociation{
		ID:      a.ID,
		TypeURI: a.TypeURI,
		Label:   a.Value,
		Role1:   a.Role1,
		Role2:   a.Role2,
	}
}

// =============================================================================
// Selection
// =============================================================================

// Kind distinguishes topics from associations in a selection.
type Kind int

const (
	KindNone Kind = iota
	KindTopic
	KindAssociation
)

func (k Kind) String() string {
	switch k {
	case KindTopic:
		return "topic"
	case KindAssociation:
		return "association"
	default:
		return "none"
	}
}

// Selection is the currently selected object, if any.
type Selection struct {
	ID   model.ID
	Kind Kind
}

// IsNone reports whether nothing is selected.
func (s Selection) IsNone() bool { return s.Kind == KindNone }

// Is reports whether s selects the given object.
func (s Selection) Is(id model.ID, kind Kind) bool {
	return s.Kind == kind && s.ID == id
}

// =============================================================================
// Events
// =============================================================================

// EventKind names a change the presentation layer must re-sync.
type EventKind string

const (
	EventTopicAdded         EventKind = "topic_added"
	EventTopicShown         EventKind = "topic_shown"
	EventTopicHidden        EventKind = "topic_hidden"
	EventTopicMoved         EventKind = "topic_moved"
	EventTopicUpdated       EventKind = "topic_updated"
	EventTopicRemoved       EventKind = "topic_removed"
	EventPropsChanged       EventKind = "props_changed"
	EventAssociationAdded   EventKind = "association_added"
	EventAssociationUpdated EventKind = "association_updated"
	EventAssociationRemoved EventKind = "association_removed"
	EventSelectionChanged   EventKind = "selection_changed"
	EventTranslated         EventKind = "translated"
)

// Event describes one change to a view model. ID is the affected object,
// or NoID for map-wide changes (translation, cleared selection).
type Event struct {
	Kind EventKind
	ID   model.ID
}

// =============================================================================
// Configuration
// =============================================================================

// UpdatePolicy decides what an update directive does for a topic that is
// not yet on the map.
type UpdatePolicy int

const (
	// ReconcileUpdate refreshes members and ignores everything else.
	ReconcileUpdate UpdatePolicy = iota
	// UpsertOnUpdate creates the topic if the upsert rule accepts it.
	UpsertOnUpdate
)

func (p UpdatePolicy) String() string {
	if p == UpsertOnUpdate {
		return "upsert-on-update"
	}
	return "reconcile-update"
}

// UpsertRule controls topics created by [Viewmodel.UpsertTopic].
type UpsertRule struct {
	// Accept filters which topics may be created. Nil accepts all.
	Accept func(model.Topic) bool
	// Position derives a topic's place from its content. It places created
	// topics and moves members on update. Nil, or ok == false, leaves a
	// member where it is and creates at the origin.
	Position func(model.Topic) (pos model.Point, ok bool)
}

// Config configures a Viewmodel.
type Config struct {
	// Writable enables remote writes. A read-only view model behaves the
	// same in memory but never touches its Store.
	Writable bool
	// Policy selects the update-directive behavior.
	Policy UpdatePolicy
	// Upsert is consulted when Policy is UpsertOnUpdate.
	Upsert *UpsertRule
	// TopicsOnly refuses associations: reveals fail with UNSUPPORTED,
	// loaded and synced associations are dropped.
	TopicsOnly bool
	// Observer receives change events. May be nil.
	Observer func(Event)
	// OnUnsynced receives every failed remote write. May be nil.
	OnUnsynced func(*UnsyncedError)
}
