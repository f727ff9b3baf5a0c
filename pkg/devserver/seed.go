package devserver

import (
	"github.com/matzehuels/topicmaps/pkg/model"
	"github.com/matzehuels/topicmaps/pkg/renderer/canvas"
	"github.com/matzehuels/topicmaps/pkg/renderer/geomap"
)

// Seed fills workspace ws with a small demo graph: a canvas topicmap
// "Demo" and a geomap "Places". It returns both summaries.
func (s *Server) Seed(ws model.ID) []model.TopicmapInfo {
	note := func(v string) model.Topic {
		return s.store.putTopic(model.Topic{TypeURI: "dmx.notes.note", Value: v}, ws)
	}
	link := func(a, b model.ID) model.Association {
		assoc, _ := s.store.putAssoc(model.Association{
			TypeURI: "dmx.core.association",
			Role1:   model.Role{PlayerID: a, RoleTypeURI: "dmx.core.default"},
			Role2:   model.Role{PlayerID: b, RoleTypeURI: "dmx.core.default"},
		}, ws)
		return assoc
	}

	ideas, draft, review, archive := note("Ideas"), note("Draft"), note("Review"), note("Archive")
	a1 := link(ideas.ID, draft.ID)
	a2 := link(draft.ID, review.ID)
	link(review.ID, archive.ID) // in the graph, not on the map
	meta := link(a1.ID, review.ID)

	demo := s.store.createMap("Demo", canvas.URI, ws)
	_ = s.store.update(demo.ID, func(m *storedMap) error {
		m.props[ideas.ID] = model.NewViewProps(model.Point{X: 0, Y: 0}, true)
		m.props[draft.ID] = model.NewViewProps(model.Point{X: 200, Y: 0}, true)
		m.props[review.ID] = model.NewViewProps(model.Point{X: 200, Y: 150}, true)
		m.props[archive.ID] = model.NewViewProps(model.Point{X: 400, Y: 150}, false)
		for _, id := range []model.ID{a1.ID, a2.ID, meta.ID} {
			m.assocs[id] = true
		}
		return nil
	})

	berlin := s.store.putTopic(geoTopic(13.40, 52.52), ws)
	lisbon := s.store.putTopic(geoTopic(-9.14, 38.72), ws)
	places := s.store.createMap("Places", geomap.URI, ws)
	_ = s.store.update(places.ID, func(m *storedMap) error {
		m.props[berlin.ID] = model.NewViewProps(model.Point{}, true)
		m.props[lisbon.ID] = model.NewViewProps(model.Point{}, true)
		return nil
	})

	return []model.TopicmapInfo{demo, places}
}

func geoTopic(lon, lat float64) model.Topic {
	return model.Topic{
		TypeURI: geomap.GeoCoordinateType,
		Children: map[string]any{
			geomap.LongitudeType: lon,
			geomap.LatitudeType:  lat,
		},
	}
}
