package devserver

import (
	"maps"
	"slices"
	"sync"

	"github.com/matzehuels/topicmaps/pkg/errors"
	"github.com/matzehuels/topicmaps/pkg/model"
)

type storedMap struct {
	info        model.TopicmapInfo
	props       map[model.ID]model.ViewProps
	assocs      map[model.ID]bool
	translation model.Point
}

// store holds the graph and the topicmaps. All methods lock.
type store struct {
	mu      sync.RWMutex
	nextID  model.ID
	topics  map[model.ID]model.Topic
	assocs  map[model.ID]model.Association
	maps    map[model.ID]*storedMap
	assigns map[model.ID]model.ID // object -> workspace
}

func newStore() *store {
	return &store{
		nextID:  1000,
		topics:  make(map[model.ID]model.Topic),
		assocs:  make(map[model.ID]model.Association),
		maps:    make(map[model.ID]*storedMap),
		assigns: make(map[model.ID]model.ID),
	}
}

func (s *store) newID() model.ID {
	s.nextID++
	return s.nextID
}

func (s *store) putTopic(t model.Topic, ws model.ID) model.Topic {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == model.NoID {
		t.ID = s.newID()
	}
	s.topics[t.ID] = t
	if ws != model.NoID {
		s.assigns[t.ID] = ws
	}
	return t
}

func (s *store) putAssoc(a model.Association, ws model.ID) (model.Association, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range []model.ID{a.Role1.PlayerID, a.Role2.PlayerID} {
		if !s.exists(p) {
			return model.Association{}, errors.New(errors.ErrCodeNotFound, "player %d not found", p)
		}
	}
	if a.ID == model.NoID {
		a.ID = s.newID()
	}
	s.assocs[a.ID] = a
	if ws != model.NoID {
		s.assigns[a.ID] = ws
	}
	return a, nil
}

func (s *store) exists(id model.ID) bool {
	_, t := s.topics[id]
	_, a := s.assocs[id]
	return t || a
}

// deleteTopic removes a topic everywhere, with its associations. It
// returns the ids of the removed associations.
func (s *store) deleteTopic(id model.ID) (bool, []model.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.topics[id]; !ok {
		return false, nil
	}
	delete(s.topics, id)
	delete(s.assigns, id)
	for _, m := range s.maps {
		delete(m.props, id)
	}
	return true, s.dropAssocsOf(id)
}

func (s *store) deleteAssoc(id model.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assocs[id]; !ok {
		return false
	}
	s.dropAssoc(id)
	s.dropAssocsOf(id)
	return true
}

func (s *store) dropAssoc(id model.ID) {
	delete(s.assocs, id)
	delete(s.assigns, id)
	for _, m := range s.maps {
		delete(m.assocs, id)
	}
}

func (s *store) dropAssocsOf(player model.ID) []model.ID {
	var dropped []model.ID
	stack := []model.ID{player}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for aid, a := range s.assocs {
			if a.Connects(id) {
				s.dropAssoc(aid)
				dropped = append(dropped, aid)
				stack = append(stack, aid)
			}
		}
	}
	slices.Sort(dropped)
	return dropped
}

func (s *store) createMap(name, uri string, ws model.ID) model.TopicmapInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	info := model.TopicmapInfo{ID: s.newID(), Name: name, RendererURI: uri, WorkspaceID: ws}
	s.maps[info.ID] = &storedMap{
		info:   info,
		props:  make(map[model.ID]model.ViewProps),
		assocs: make(map[model.ID]bool),
	}
	s.assigns[info.ID] = ws
	return info
}

func (s *store) deleteMap(id model.ID) (model.TopicmapInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.maps[id]
	if !ok {
		return model.TopicmapInfo{}, false
	}
	delete(s.maps, id)
	delete(s.assigns, id)
	return m.info, true
}

func (s *store) summaries(ws model.ID) []model.TopicmapInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.TopicmapInfo{}
	for _, id := range slices.Sorted(maps.Keys(s.maps)) {
		if info := s.maps[id].info; info.WorkspaceID == ws {
			out = append(out, info)
		}
	}
	return out
}

func (s *store) workspaceOf(id model.ID) (model.ID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ws, ok := s.assigns[id]
	return ws, ok
}

func (s *store) snapshot(id model.ID) (model.TopicmapData, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.maps[id]
	if !ok {
		return model.TopicmapData{}, false
	}
	data := model.TopicmapData{
		Info:         m.info,
		Topics:       []model.ViewTopicData{},
		Associations: []model.Association{},
		Translation:  m.translation,
	}
	for _, tid := range slices.Sorted(maps.Keys(m.props)) {
		data.Topics = append(data.Topics, model.ViewTopicData{Topic: s.topics[tid], ViewProps: m.props[tid].Clone()})
	}
	for _, aid := range slices.Sorted(maps.Keys(m.assocs)) {
		data.Associations = append(data.Associations, s.assocs[aid])
	}
	return data, true
}

// update runs fn on topicmap id under the write lock.
func (s *store) update(id model.ID, fn func(m *storedMap) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.maps[id]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "topicmap %d not found", id)
	}
	return fn(m)
}

func (s *store) topic(id model.ID) (model.Topic, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.topics[id]
	return t, ok
}

func (s *store) assoc(id model.ID) (model.Association, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assocs[id]
	return a, ok
}
