package devserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/topicmaps/pkg/directive"
	"github.com/matzehuels/topicmaps/pkg/errors"
	"github.com/matzehuels/topicmaps/pkg/model"
	"github.com/matzehuels/topicmaps/pkg/push"
)

// Server is the in-memory graph store. It implements http.Handler.
type Server struct {
	store  *store
	hub    *hub
	router chi.Router
	logger *log.Logger
}

// New returns an empty server. A nil logger uses log.Default().
func New(logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{store: newStore(), hub: newHub(logger), logger: logger}
	s.router = s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Clients returns the number of connected push clients.
func (s *Server) Clients() int { return s.hub.count() }

// Close sends a close frame to every push client.
func (s *Server) Close() { s.hub.closeAll() }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/ws", s.hub.serve)

	r.Get("/workspace/{ws}/topicmaps", s.handleSummaries)
	r.Get("/object/{id}/workspace", s.handleAssignedWorkspace)

	r.Post("/topicmap", s.handleCreateTopicmap)
	r.Route("/topicmap/{id}", func(r chi.Router) {
		r.Get("/", s.handleFetchTopicmap)
		r.Delete("/", s.handleDeleteTopicmap)
		r.Put("/topic/{topic}", s.handleAddTopic)
		r.Put("/topic/{topic}/position", s.handleSetPosition)
		r.Put("/topic/{topic}/visibility", s.handleSetVisibility)
		r.Put("/topic/{topic}/props", s.handleSetProps)
		r.Put("/association/{assoc}", s.handleAddAssoc)
		r.Delete("/association/{assoc}", s.handleRemoveAssoc)
		r.Put("/translation", s.handleSetTranslation)
		r.Put("/cluster", s.handleSetCluster)
	})

	r.Post("/topic", s.handlePutTopic)
	r.Put("/topic/{id}", s.handlePutTopic)
	r.Delete("/topic/{id}", s.handleDeleteTopic)
	r.Post("/association", s.handlePutAssoc)
	r.Put("/association/{id}", s.handlePutAssoc)
	r.Delete("/association/{id}", s.handleDeleteAssoc)
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(),
			"client", r.Header.Get(push.HeaderClientID))
	})
}

// =============================================================================
// Go API
// =============================================================================

// CreateTopicmap adds a topicmap to a workspace.
func (s *Server) CreateTopicmap(name, rendererURI string, ws model.ID) model.TopicmapInfo {
	return s.store.createMap(name, rendererURI, ws)
}

// DeleteTopicmap removes a topicmap.
func (s *Server) DeleteTopicmap(id model.ID) bool {
	_, ok := s.store.deleteMap(id)
	return ok
}

// Topicmap returns a snapshot of a topicmap.
func (s *Server) Topicmap(id model.ID) (model.TopicmapData, bool) {
	return s.store.snapshot(id)
}

// CreateTopic stores a new topic, assigning an id if it has none.
func (s *Server) CreateTopic(t model.Topic, ws model.ID) model.Topic {
	return s.store.putTopic(t, ws)
}

// CreateAssociation stores a new association. Both players must exist.
func (s *Server) CreateAssociation(a model.Association, ws model.ID) (model.Association, error) {
	return s.store.putAssoc(a, ws)
}

// UpdateTopic replaces a topic and broadcasts UPDATE_TOPIC.
func (s *Server) UpdateTopic(t model.Topic) error {
	if _, ok := s.store.topic(t.ID); !ok {
		return errors.New(errors.ErrCodeNotFound, "topic %d not found", t.ID)
	}
	s.store.putTopic(t, model.NoID)
	return s.broadcastDirectives(directiveOf(directive.UpdateTopic, t))
}

// DeleteTopic removes a topic and its associations everywhere and
// broadcasts the matching delete directives in one message.
func (s *Server) DeleteTopic(id model.ID) error {
	t, ok := s.store.topic(id)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "topic %d not found", id)
	}
	_, dropped := s.store.deleteTopic(id)
	var ds []directive.Directive
	for _, aid := range dropped {
		ds = append(ds, directiveOf(directive.DeleteAssociation, map[string]model.ID{"id": aid}))
	}
	ds = append(ds, directiveOf(directive.DeleteTopic, t))
	return s.broadcastDirectives(ds...)
}

// UpdateAssociation replaces an association and broadcasts
// UPDATE_ASSOCIATION.
func (s *Server) UpdateAssociation(a model.Association) error {
	if _, ok := s.store.assoc(a.ID); !ok {
		return errors.New(errors.ErrCodeNotFound, "association %d not found", a.ID)
	}
	if _, err := s.store.putAssoc(a, model.NoID); err != nil {
		return err
	}
	return s.broadcastDirectives(directiveOf(directive.UpdateAssociation, a))
}

// DeleteAssociation removes an association everywhere and broadcasts
// DELETE_ASSOCIATION.
func (s *Server) DeleteAssociation(id model.ID) error {
	a, ok := s.store.assoc(id)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "association %d not found", id)
	}
	s.store.deleteAssoc(id)
	return s.broadcastDirectives(directiveOf(directive.DeleteAssociation, a))
}

// Broadcast sends a raw message to every push client.
func (s *Server) Broadcast(m push.Message) {
	s.hub.broadcast(m, "")
}

func (s *Server) broadcastDirectives(ds ...directive.Directive) error {
	if len(ds) == 1 {
		s.hub.broadcast(push.DirectiveMessage(ds[0]), "")
		return nil
	}
	m, err := push.NewMessage(push.TypeProcessDirectives, ds)
	if err != nil {
		return err
	}
	s.hub.broadcast(m, "")
	return nil
}

func directiveOf(t directive.Type, arg any) directive.Directive {
	d, _ := directive.New(t, arg)
	return d
}

// =============================================================================
// HTTP Helpers
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeNotMember:
		status = http.StatusBadRequest
	}
	http.Error(w, errors.UserMessage(err), status)
}

func readJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

func idParam(r *http.Request, name string) (model.ID, error) {
	raw := chi.URLParam(r, name)
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return model.NoID, errors.New(errors.ErrCodeInvalidInput, "invalid %s %q", name, raw)
	}
	return model.ID(n), nil
}
