package devserver

import (
	"net/http"

	"github.com/matzehuels/topicmaps/pkg/errors"
	"github.com/matzehuels/topicmaps/pkg/model"
	"github.com/matzehuels/topicmaps/pkg/push"
)

// =============================================================================
// Reads
// =============================================================================

func (s *Server) handleFetchTopicmap(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	data, ok := s.store.snapshot(id)
	if !ok {
		writeError(w, errors.New(errors.ErrCodeNotFound, "topicmap %d not found", id))
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) handleSummaries(w http.ResponseWriter, r *http.Request) {
	ws, err := idParam(r, "ws")
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.summaries(ws))
}

func (s *Server) handleAssignedWorkspace(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	ws, ok := s.store.workspaceOf(id)
	if !ok {
		writeError(w, errors.New(errors.ErrCodeNotFound, "object %d has no workspace", id))
		return
	}
	writeJSON(w, http.StatusOK, map[string]model.ID{"id": ws})
}

// =============================================================================
// Topicmaps
// =============================================================================

type createRequest struct {
	Name        string   `json:"name"`
	RendererURI string   `json:"renderer_uri"`
	WorkspaceID model.ID `json:"workspace_id"`
}

func (s *Server) handleCreateTopicmap(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.RendererURI == "" || req.WorkspaceID == model.NoID {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "renderer_uri and workspace_id are required"))
		return
	}
	writeJSON(w, http.StatusCreated, s.store.createMap(req.Name, req.RendererURI, req.WorkspaceID))
}

func (s *Server) handleDeleteTopicmap(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if _, ok := s.store.deleteMap(id); !ok {
		writeError(w, errors.New(errors.ErrCodeNotFound, "topicmap %d not found", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Topicmap Writes
// =============================================================================

// mapWrite parses the topicmap id and the named object id, runs fn under
// the store lock and, on success, broadcasts the returned message to every
// other client.
func (s *Server) mapWrite(w http.ResponseWriter, r *http.Request, param string,
	fn func(m *storedMap, objID model.ID) (*push.Message, error)) {
	mapID, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var objID model.ID
	if param != "" {
		if objID, err = idParam(r, param); err != nil {
			writeError(w, err)
			return
		}
	}
	var msgs *push.Message
	err = s.store.update(mapID, func(m *storedMap) error {
		var err error
		msgs, err = fn(m, objID)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if msgs != nil {
		s.hub.broadcast(*msgs, r.Header.Get(push.HeaderClientID))
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddTopic(w http.ResponseWriter, r *http.Request) {
	var props model.ViewProps
	if err := readJSON(r, &props); err != nil {
		writeError(w, err)
		return
	}
	s.mapWrite(w, r, "topic", func(m *storedMap, tid model.ID) (*push.Message, error) {
		t, ok := s.store.topics[tid]
		if !ok {
			return nil, errors.New(errors.ErrCodeNotFound, "topic %d not found", tid)
		}
		m.props[tid] = props
		return message(push.TypeAddTopic, push.AddTopicArgs{TopicmapID: m.info.ID, Topic: t, ViewProps: props})
	})
}

func (s *Server) handleSetPosition(w http.ResponseWriter, r *http.Request) {
	var pos model.Point
	if err := readJSON(r, &pos); err != nil {
		writeError(w, err)
		return
	}
	s.mapWrite(w, r, "topic", func(m *storedMap, tid model.ID) (*push.Message, error) {
		props, err := onMap(m, tid)
		if err != nil {
			return nil, err
		}
		props[model.PropX], props[model.PropY] = pos.X, pos.Y
		return message(push.TypeSetPosition, push.SetPositionArgs{TopicmapID: m.info.ID, TopicID: tid, Pos: pos})
	})
}

func (s *Server) handleSetVisibility(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Visibility bool `json:"visibility"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.mapWrite(w, r, "topic", func(m *storedMap, tid model.ID) (*push.Message, error) {
		props, err := onMap(m, tid)
		if err != nil {
			return nil, err
		}
		props[model.PropVisibility] = req.Visibility
		return message(push.TypeSetVisibility, push.SetVisibilityArgs{TopicmapID: m.info.ID, TopicID: tid, Visibility: req.Visibility})
	})
}

func (s *Server) handleSetProps(w http.ResponseWriter, r *http.Request) {
	var extra model.ViewProps
	if err := readJSON(r, &extra); err != nil {
		writeError(w, err)
		return
	}
	s.mapWrite(w, r, "topic", func(m *storedMap, tid model.ID) (*push.Message, error) {
		props, err := onMap(m, tid)
		if err != nil {
			return nil, err
		}
		for k, v := range extra {
			props[k] = v
		}
		return nil, nil
	})
}

func (s *Server) handleAddAssoc(w http.ResponseWriter, r *http.Request) {
	s.mapWrite(w, r, "assoc", func(m *storedMap, aid model.ID) (*push.Message, error) {
		a, ok := s.store.assocs[aid]
		if !ok {
			return nil, errors.New(errors.ErrCodeNotFound, "association %d not found", aid)
		}
		for _, p := range []model.ID{a.Role1.PlayerID, a.Role2.PlayerID} {
			if _, topic := m.props[p]; !topic && !m.assocs[p] {
				return nil, errors.New(errors.ErrCodeNotMember, "player %d is not on topicmap %d", p, m.info.ID)
			}
		}
		m.assocs[aid] = true
		return message(push.TypeAddAssoc, push.AddAssocArgs{TopicmapID: m.info.ID, Assoc: a})
	})
}

func (s *Server) handleRemoveAssoc(w http.ResponseWriter, r *http.Request) {
	s.mapWrite(w, r, "assoc", func(m *storedMap, aid model.ID) (*push.Message, error) {
		if !m.assocs[aid] {
			return nil, errors.New(errors.ErrCodeNotFound, "association %d is not on topicmap %d", aid, m.info.ID)
		}
		delete(m.assocs, aid)
		return message(push.TypeRemoveAssoc, push.RemoveAssocArgs{TopicmapID: m.info.ID, AssocID: aid})
	})
}

func (s *Server) handleSetTranslation(w http.ResponseWriter, r *http.Request) {
	var t model.Point
	if err := readJSON(r, &t); err != nil {
		writeError(w, err)
		return
	}
	s.mapWrite(w, r, "", func(m *storedMap, _ model.ID) (*push.Message, error) {
		m.translation = t
		return nil, nil
	})
}

func (s *Server) handleSetCluster(w http.ResponseWriter, r *http.Request) {
	var coords []model.ClusterCoord
	if err := readJSON(r, &coords); err != nil {
		writeError(w, err)
		return
	}
	var moved []model.ClusterCoord
	s.mapWrite(w, r, "", func(m *storedMap, _ model.ID) (*push.Message, error) {
		for _, c := range coords {
			props, err := onMap(m, c.TopicID)
			if err != nil {
				return nil, err
			}
			props[model.PropX], props[model.PropY] = c.X, c.Y
		}
		moved = coords
		return nil, nil
	})
	mapID, _ := idParam(r, "id")
	for _, c := range moved {
		if m, err := message(push.TypeSetPosition, push.SetPositionArgs{TopicmapID: mapID, TopicID: c.TopicID, Pos: model.Point{X: c.X, Y: c.Y}}); err == nil {
			s.hub.broadcast(*m, r.Header.Get(push.HeaderClientID))
		}
	}
}

func onMap(m *storedMap, tid model.ID) (model.ViewProps, error) {
	props, ok := m.props[tid]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "topic %d is not on topicmap %d", tid, m.info.ID)
	}
	if props == nil {
		props = model.ViewProps{}
		m.props[tid] = props
	}
	return props, nil
}

func message(typ string, args any) (*push.Message, error) {
	m, err := push.NewMessage(typ, args)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// =============================================================================
// Domain Objects
// =============================================================================

func (s *Server) handlePutTopic(w http.ResponseWriter, r *http.Request) {
	var t model.Topic
	if err := readJSON(r, &t); err != nil {
		writeError(w, err)
		return
	}
	if r.Method == http.MethodPost {
		ws, _ := model.ParseID(r.URL.Query().Get("workspace"))
		writeJSON(w, http.StatusCreated, s.CreateTopic(t, ws))
		return
	}
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	t.ID = id
	if err := s.UpdateTopic(t); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTopic(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.DeleteTopic(id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePutAssoc(w http.ResponseWriter, r *http.Request) {
	var a model.Association
	if err := readJSON(r, &a); err != nil {
		writeError(w, err)
		return
	}
	if r.Method == http.MethodPost {
		ws, _ := model.ParseID(r.URL.Query().Get("workspace"))
		created, err := s.CreateAssociation(a, ws)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
		return
	}
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	a.ID = id
	if err := s.UpdateAssociation(a); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleDeleteAssoc(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.DeleteAssociation(id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
