package localstate

import (
	"context"
	"fmt"

	"github.com/matzehuels/topicmaps/pkg/model"
)

// Store is a string key/value store.
type Store interface {
	// Get returns the value for key. A missing key is not an error.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// All returns every stored key and value.
	All(ctx context.Context) (map[string]string, error)
	Close() error
}

// KeyWorkspace holds the last selected workspace id.
const KeyWorkspace = "workspace_id"

// TopicmapKey returns the key holding the last selected topicmap of ws.
func TopicmapKey(ws model.ID) string {
	return "topicmap_id." + ws.String()
}

// GetID reads an id. A missing key yields NoID and false.
func GetID(ctx context.Context, s Store, key string) (model.ID, bool, error) {
	v, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return model.NoID, false, err
	}
	id, err := model.ParseID(v)
	if err != nil {
		return model.NoID, false, fmt.Errorf("local state %q: %w", key, err)
	}
	return id, true, nil
}

// SetID stores an id.
func SetID(ctx context.Context, s Store, key string, id model.ID) error {
	return s.Set(ctx, key, id.String())
}
