package push

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/topicmaps/pkg/directive"
	"github.com/matzehuels/topicmaps/pkg/model"
)

// Message is one push message.
type Message struct {
	Type string          `json:"type"`
	Args json.RawMessage `json:"args,omitempty"`
}

// NewMessage builds a message, encoding args as JSON.
func NewMessage(typ string, args any) (Message, error) {
	raw, err := json.Marshal(args)
	if err != nil {
		return Message{}, fmt.Errorf("encode %s message: %w", typ, err)
	}
	return Message{Type: typ, Args: raw}, nil
}

// DirectiveMessage wraps a single directive.
func DirectiveMessage(d directive.Directive) Message {
	return Message{Type: string(d.Type), Args: d.Arg}
}

// Message types besides the directive types.
const (
	TypeProcessDirectives = "processDirectives"

	TypeAddTopic      = "addTopicToTopicmap"
	TypeAddAssoc      = "addAssocToTopicmap"
	TypeSetPosition   = "setTopicPosition"
	TypeSetVisibility = "setTopicVisibility"
	TypeRemoveAssoc   = "removeAssocFromTopicmap"
)

// AddTopicArgs are the args of addTopicToTopicmap.
type AddTopicArgs struct {
	TopicmapID model.ID        `json:"topicmap_id"`
	Topic      model.Topic     `json:"topic"`
	ViewProps  model.ViewProps `json:"view_props"`
}

// AddAssocArgs are the args of addAssocToTopicmap.
type AddAssocArgs struct {
	TopicmapID model.ID          `json:"topicmap_id"`
	Assoc      model.Association `json:"assoc"`
}

// SetPositionArgs are the args of setTopicPosition.
type SetPositionArgs struct {
	TopicmapID model.ID    `json:"topicmap_id"`
	TopicID    model.ID    `json:"topic_id"`
	Pos        model.Point `json:"pos"`
}

// SetVisibilityArgs are the args of setTopicVisibility.
type SetVisibilityArgs struct {
	TopicmapID model.ID `json:"topicmap_id"`
	TopicID    model.ID `json:"topic_id"`
	Visibility bool     `json:"visibility"`
}

// RemoveAssocArgs are the args of removeAssocFromTopicmap.
type RemoveAssocArgs struct {
	TopicmapID model.ID `json:"topicmap_id"`
	AssocID    model.ID `json:"assoc_id"`
}
