package client

import (
	"context"
	"net/http"

	"github.com/matzehuels/topicmaps/pkg/model"
	"github.com/matzehuels/topicmaps/pkg/registry"
	"github.com/matzehuels/topicmaps/pkg/renderer"
	"github.com/matzehuels/topicmaps/pkg/topicmap"
)

// =============================================================================
// Reads
// =============================================================================

// FetchTopicmap returns the complete topicmap.
func (c *Client) FetchTopicmap(ctx context.Context, id model.ID) (model.TopicmapData, error) {
	var data model.TopicmapData
	err := c.get(ctx, topicmapPath(id), &data)
	return data, err
}

// FetchTopicmaps returns the summaries of a workspace's topicmaps.
func (c *Client) FetchTopicmaps(ctx context.Context, workspaceID model.ID) ([]model.TopicmapInfo, error) {
	var infos []model.TopicmapInfo
	err := c.get(ctx, "/workspace/"+workspaceID.String()+"/topicmaps", &infos)
	return infos, err
}

// CreateTopicmapRequest is the body of a create call.
type CreateTopicmapRequest struct {
	Name        string   `json:"name"`
	RendererURI string   `json:"renderer_uri"`
	WorkspaceID model.ID `json:"workspace_id"`
}

// CreateTopicmap creates a topicmap in a workspace.
func (c *Client) CreateTopicmap(ctx context.Context, name, rendererURI string, workspaceID model.ID) (model.TopicmapInfo, error) {
	var info model.TopicmapInfo
	req := CreateTopicmapRequest{Name: name, RendererURI: rendererURI, WorkspaceID: workspaceID}
	err := c.do(ctx, http.MethodPost, "/topicmap", req, &info)
	return info, err
}

// DeleteTopicmap deletes a topicmap. Its topics and associations remain.
func (c *Client) DeleteTopicmap(ctx context.Context, id model.ID) error {
	return c.do(ctx, http.MethodDelete, topicmapPath(id), nil, nil)
}

// AssignedWorkspace returns the workspace an object belongs to.
func (c *Client) AssignedWorkspace(ctx context.Context, objectID model.ID) (model.ID, error) {
	var ref struct {
		ID model.ID `json:"id"`
	}
	err := c.get(ctx, "/object/"+objectID.String()+"/workspace", &ref)
	return ref.ID, err
}

// =============================================================================
// Writes
// =============================================================================

// VisibilityRequest is the body of a visibility call.
type VisibilityRequest struct {
	Visibility bool `json:"visibility"`
}

func (c *Client) AddTopic(ctx context.Context, topicmapID, topicID model.ID, props model.ViewProps) error {
	return c.put(ctx, topicmapPath(topicmapID, "topic", topicID.String()), props)
}

func (c *Client) AddAssociation(ctx context.Context, topicmapID, assocID model.ID) error {
	return c.put(ctx, topicmapPath(topicmapID, "association", assocID.String()), nil)
}

func (c *Client) SetTopicPosition(ctx context.Context, topicmapID, topicID model.ID, pos model.Point) error {
	return c.put(ctx, topicmapPath(topicmapID, "topic", topicID.String(), "position"), pos)
}

func (c *Client) SetTopicVisibility(ctx context.Context, topicmapID, topicID model.ID, visible bool) error {
	return c.put(ctx, topicmapPath(topicmapID, "topic", topicID.String(), "visibility"), VisibilityRequest{Visibility: visible})
}

func (c *Client) SetViewProps(ctx context.Context, topicmapID, topicID model.ID, props model.ViewProps) error {
	return c.put(ctx, topicmapPath(topicmapID, "topic", topicID.String(), "props"), props)
}

func (c *Client) RemoveAssociation(ctx context.Context, topicmapID, assocID model.ID) error {
	return c.do(ctx, http.MethodDelete, topicmapPath(topicmapID, "association", assocID.String()), nil, nil)
}

func (c *Client) SetTranslation(ctx context.Context, topicmapID model.ID, t model.Point) error {
	return c.put(ctx, topicmapPath(topicmapID, "translation"), t)
}

func (c *Client) SetClusterPosition(ctx context.Context, topicmapID model.ID, coords []model.ClusterCoord) error {
	return c.put(ctx, topicmapPath(topicmapID, "cluster"), coords)
}

var (
	_ topicmap.Store   = (*Client)(nil)
	_ registry.Service = (*Client)(nil)
	_ renderer.Loader  = (*Client)(nil)
)
