package model

import (
	"fmt"
	"maps"
	"strconv"
)

// =============================================================================
// Identifiers
// =============================================================================

// ID identifies topics, associations, topicmaps and workspaces.
// IDs are opaque: only equality is meaningful.
type ID int64

// NoID is the zero ID, used where no object is referenced.
const NoID ID = 0

// String returns the decimal form of the ID.
func (id ID) String() string { return strconv.FormatInt(int64(id), 10) }

// ParseID parses a decimal ID.
func ParseID(s string) (ID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return NoID, fmt.Errorf("parse id %q: %w", s, err)
	}
	return ID(n), nil
}

// =============================================================================
// Geometry
// =============================================================================

// Point is a canvas coordinate or offset in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point { return Point{X: p.X + d.X, Y: p.Y + d.Y} }

// =============================================================================
// Domain Objects
// =============================================================================

// Topic is a knowledge-graph node.
type Topic struct {
	ID       ID             `json:"id"`
	TypeURI  string         `json:"type_uri"`
	Value    string         `json:"value"`
	Children map[string]any `json:"children,omitempty"`
}

// Label returns the display value, falling back to the ID.
func (t Topic) Label() string {
	if t.Value != "" {
		return t.Value
	}
	return t.ID.String()
}

// Role is one end of an association.
type Role struct {
	PlayerID    ID     `json:"player_id"`
	RoleTypeURI string `json:"role_type_uri,omitempty"`
}

// Association is a knowledge-graph edge between two players.
type Association struct {
	ID      ID     `json:"id"`
	TypeURI string `json:"type_uri"`
	Value   string `json:"value,omitempty"`
	Role1   Role   `json:"role_1"`
	Role2   Role   `json:"role_2"`
}

// Connects reports whether id plays either role.
func (a Association) Connects(id ID) bool {
	return a.Role1.PlayerID == id || a.Role2.PlayerID == id
}

// OtherPlayer returns the player opposite to id.
// The second result is false if id plays neither role.
func (a Association) OtherPlayer(id ID) (ID, bool) {
	switch id {
	case a.Role1.PlayerID:
		return a.Role2.PlayerID, true
	case a.Role2.PlayerID:
		return a.Role1.PlayerID, true
	}
	return NoID, false
}

// RelatedTopic is a topic reached from another topic, together with the
// association that connects them.
type RelatedTopic struct {
	Topic
	Association Association `json:"assoc"`
}

// =============================================================================
// View Properties
// =============================================================================

// Well-known view property keys.
const (
	PropX          = "x"
	PropY          = "y"
	PropVisibility = "visibility"
)

// ViewProps holds renderer-specific properties of a topic's placement on one
// topicmap. Besides the well-known keys, renderers store arbitrary values
// (color, expansion state, ...).
type ViewProps map[string]any

// NewViewProps returns properties for a placement at pos.
func NewViewProps(pos Point, visible bool) ViewProps {
	return ViewProps{PropX: pos.X, PropY: pos.Y, PropVisibility: visible}
}

// Position extracts the x/y pair. The second result is false if either is
// missing or not numeric.
func (p ViewProps) Position() (Point, bool) {
	x, okX := toFloat(p[PropX])
	y, okY := toFloat(p[PropY])
	if !okX || !okY {
		return Point{}, false
	}
	return Point{X: x, Y: y}, true
}

// Visibility returns the visibility flag, defaulting to true when absent.
func (p ViewProps) Visibility() bool {
	if v, ok := p[PropVisibility].(bool); ok {
		return v
	}
	return true
}

// Extra returns a copy without the well-known keys, or nil if nothing remains.
func (p ViewProps) Extra() ViewProps {
	var out ViewProps
	for k, v := range p {
		if k == PropX || k == PropY || k == PropVisibility {
			continue
		}
		if out == nil {
			out = ViewProps{}
		}
		out[k] = v
	}
	return out
}

// Clone returns a shallow copy.
func (p ViewProps) Clone() ViewProps {
	if p == nil {
		return nil
	}
	return maps.Clone(p)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case interface{ Float64() (float64, error) }:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// =============================================================================
// Topicmaps
// =============================================================================

// TopicmapInfo summarizes a topicmap.
type TopicmapInfo struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	RendererURI string `json:"renderer_uri"`
	WorkspaceID ID     `json:"workspace_id,omitempty"`
}

// ViewTopicData is a topic together with its placement on a topicmap.
type ViewTopicData struct {
	Topic
	ViewProps ViewProps `json:"view_props"`
}

// TopicmapData is a fully fetched topicmap.
type TopicmapData struct {
	Info         TopicmapInfo    `json:"info"`
	Topics       []ViewTopicData `json:"topics"`
	Associations []Association   `json:"assocs"`
	Translation  Point           `json:"translation"`
	Background   string          `json:"background,omitempty"`
}

// ClusterCoord is one entry of a batch position update.
type ClusterCoord struct {
	TopicID ID      `json:"topic_id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}
