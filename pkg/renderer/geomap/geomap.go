// Package geomap is the geographic renderer adapter.
//
// A geomap shows geo-coordinate topics placed by longitude (x) and latitude
// (y). It holds no associations. Update directives add a geo-coordinate
// that is not yet on the map and move one that is.
package geomap

import (
	"context"
	"fmt"
	"strconv"

	"github.com/matzehuels/topicmaps/pkg/model"
	"github.com/matzehuels/topicmaps/pkg/renderer"
	"github.com/matzehuels/topicmaps/pkg/topicmap"
)

const (
	// URI is the renderer URI stored on geomaps.
	URI = "topicmaps.geomap"

	GeoCoordinateType = "dmx.geomaps.geo_coordinate"
	LongitudeType     = "dmx.geomaps.longitude"
	LatitudeType      = "dmx.geomaps.latitude"
)

// Adapter loads geomaps.
type Adapter struct {
	loader renderer.Loader
	store  topicmap.Store
}

// New returns a geomap adapter.
func New(loader renderer.Loader, store topicmap.Store) *Adapter {
	return &Adapter{loader: loader, store: store}
}

// Info implements renderer.Adapter.
func (a *Adapter) Info() renderer.Info {
	return renderer.Info{URI: URI, Name: "Geomap"}
}

// LoadTopicmap implements renderer.Adapter.
func (a *Adapter) LoadTopicmap(ctx context.Context, id model.ID, cfg renderer.Config) (*topicmap.Viewmodel, error) {
	data, err := renderer.Fetch(ctx, a.loader, id, URI)
	if err != nil {
		return nil, fmt.Errorf("load geomap %d: %w", id, err)
	}

	geo := data
	geo.Topics = nil
	for _, t := range data.Topics {
		if !IsGeoCoordinate(t.Topic) {
			continue
		}
		if pos, ok := Coordinates(t.Topic); ok {
			t.ViewProps = t.ViewProps.Clone()
			if t.ViewProps == nil {
				t.ViewProps = model.ViewProps{}
			}
			t.ViewProps[model.PropX] = pos.X
			t.ViewProps[model.PropY] = pos.Y
		}
		geo.Topics = append(geo.Topics, t)
	}

	return topicmap.New(geo, a.store, topicmap.Config{
		Writable: cfg.Writable,
		Policy:   topicmap.UpsertOnUpdate,
		Upsert: &topicmap.UpsertRule{
			Accept:   IsGeoCoordinate,
			Position: Coordinates,
		},
		TopicsOnly: true,
		Observer:   cfg.Observer,
		OnUnsynced: cfg.OnUnsynced,
	})
}

// IsGeoCoordinate reports whether t is a geo-coordinate topic.
func IsGeoCoordinate(t model.Topic) bool {
	return t.TypeURI == GeoCoordinateType
}

// Coordinates reads longitude and latitude from t's children.
func Coordinates(t model.Topic) (model.Point, bool) {
	lon, ok1 := number(t.Children[LongitudeType])
	lat, ok2 := number(t.Children[LatitudeType])
	if !ok1 || !ok2 {
		return model.Point{}, false
	}
	return model.Point{X: lon, Y: lat}, true
}

// number accepts a bare number, a numeric string, or a child topic object
// carrying the number in "value".
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	case map[string]any:
		return number(n["value"])
	}
	return 0, false
}

var _ renderer.Adapter = (*Adapter)(nil)
