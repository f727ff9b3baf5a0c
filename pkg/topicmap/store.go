package topicmap

import (
	"context"
	"fmt"

	"github.com/matzehuels/topicmaps/pkg/errors"
	"github.com/matzehuels/topicmaps/pkg/model"
)

// Store is the write side of the remote graph store, as seen by one
// topicmap. Implementations must not call back into the view model.
type Store interface {
	AddTopic(ctx context.Context, topicmapID, topicID model.ID, props model.ViewProps) error
	AddAssociation(ctx context.Context, topicmapID, assocID model.ID) error
	SetTopicPosition(ctx context.Context, topicmapID, topicID model.ID, pos model.Point) error
	SetTopicVisibility(ctx context.Context, topicmapID, topicID model.ID, visible bool) error
	SetViewProps(ctx context.Context, topicmapID, topicID model.ID, props model.ViewProps) error
	RemoveAssociation(ctx context.Context, topicmapID, assocID model.ID) error
	SetTranslation(ctx context.Context, topicmapID model.ID, t model.Point) error
	SetClusterPosition(ctx context.Context, topicmapID model.ID, coords []model.ClusterCoord) error
}

// Remote write operations, as reported in UnsyncedError.Op and to hooks.
const (
	OpAddTopic           = "add_topic"
	OpAddAssociation     = "add_association"
	OpSetTopicPosition   = "set_topic_position"
	OpSetTopicVisibility = "set_topic_visibility"
	OpSetViewProps       = "set_view_props"
	OpRemoveAssociation  = "remove_association"
	OpSetTranslation     = "set_translation"
	OpSetClusterPosition = "set_cluster_position"
)

// UnsyncedError reports a local mutation whose remote write failed.
// The local state keeps the mutation; the remote store may disagree with it
// until the topicmap is reloaded.
type UnsyncedError struct {
	Op         string
	TopicmapID model.ID
	ObjectID   model.ID
	Err        error
}

func (e *UnsyncedError) Error() string {
	return fmt.Sprintf("unsynced %s (topicmap %d, object %d): %v", e.Op, e.TopicmapID, e.ObjectID, e.Err)
}

func (e *UnsyncedError) Unwrap() error { return e.Err }

// Code reports UNSYNCED for errors.Is.
func (e *UnsyncedError) Code() errors.Code { return errors.ErrCodeUnsynced }
