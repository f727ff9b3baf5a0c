// Package topicmaptest provides a recording topicmap.Store for tests.
package topicmaptest

import (
	"context"
	"sync"

	"github.com/matzehuels/topicmaps/pkg/model"
	"github.com/matzehuels/topicmaps/pkg/topicmap"
)

// Call is one recorded write.
type Call struct {
	Op         string
	TopicmapID model.ID
	ObjectID   model.ID
	Props      model.ViewProps
	Point      model.Point
	Visible    bool
	Coords     []model.ClusterCoord
}

// Recorder records every write. Writes whose Op is in Fail return the
// mapped error after being recorded.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
	Fail  map[string]error
}

// Calls returns a copy of the recorded writes.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Count returns the number of recorded writes for op, or all writes if op
// is empty.
func (r *Recorder) Count(op string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if op == "" || c.Op == op {
			n++
		}
	}
	return n
}

// Reset forgets all recorded writes.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

func (r *Recorder) record(c Call) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
	return r.Fail[c.Op]
}

func (r *Recorder) AddTopic(_ context.Context, mapID, topicID model.ID, props model.ViewProps) error {
	return r.record(Call{Op: topicmap.OpAddTopic, TopicmapID: mapID, ObjectID: topicID, Props: props.Clone()})
}

func (r *Recorder) AddAssociation(_ context.Context, mapID, assocID model.ID) error {
	return r.record(Call{Op: topicmap.OpAddAssociation, TopicmapID: mapID, ObjectID: assocID})
}

func (r *Recorder) SetTopicPosition(_ context.Context, mapID, topicID model.ID, pos model.Point) error {
	return r.record(Call{Op: topicmap.OpSetTopicPosition, TopicmapID: mapID, ObjectID: topicID, Point: pos})
}

func (r *Recorder) SetTopicVisibility(_ context.Context, mapID, topicID model.ID, visible bool) error {
	return r.record(Call{Op: topicmap.OpSetTopicVisibility, TopicmapID: mapID, ObjectID: topicID, Visible: visible})
}

func (r *Recorder) SetViewProps(_ context.Context, mapID, topicID model.ID, props model.ViewProps) error {
	return r.record(Call{Op: topicmap.OpSetViewProps, TopicmapID: mapID, ObjectID: topicID, Props: props.Clone()})
}

func (r *Recorder) RemoveAssociation(_ context.Context, mapID, assocID model.ID) error {
	return r.record(Call{Op: topicmap.OpRemoveAssociation, TopicmapID: mapID, ObjectID: assocID})
}

func (r *Recorder) SetTranslation(_ context.Context, mapID model.ID, t model.Point) error {
	return r.record(Call{Op: topicmap.OpSetTranslation, TopicmapID: mapID, Point: t})
}

func (r *Recorder) SetClusterPosition(_ context.Context, mapID model.ID, coords []model.ClusterCoord) error {
	return r.record(Call{Op: topicmap.OpSetClusterPosition, TopicmapID: mapID, Coords: append([]model.ClusterCoord(nil), coords...)})
}

var _ topicmap.Store = (*Recorder)(nil)

// Topic returns a test topic.
func Topic(id model.ID, label string) model.Topic {
	return model.Topic{ID: id, TypeURI: "dmx.notes.note", Value: label}
}

// Assoc returns a test association between two players.
func Assoc(id, p1, p2 model.ID) model.Association {
	return model.Association{
		ID:      id,
		TypeURI: "dmx.core.association",
		Role1:   model.Role{PlayerID: p1, RoleTypeURI: "dmx.core.default"},
		Role2:   model.Role{PlayerID: p2, RoleTypeURI: "dmx.core.default"},
	}
}

// Data returns topicmap data with the given topics placed visibly at the
// origin and the given associations.
func Data(id model.ID, topics []model.Topic, assocs []model.Association) model.TopicmapData {
	d := model.TopicmapData{
		Info:         model.TopicmapInfo{ID: id, Name: "test", RendererURI: "topicmaps.canvas"},
		Associations: assocs,
	}
	for _, t := range topics {
		d.Topics = append(d.Topics, model.ViewTopicData{Topic: t, ViewProps: model.NewViewProps(model.Point{}, true)})
	}
	return d
}
