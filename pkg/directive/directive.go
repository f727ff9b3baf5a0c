package directive

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/topicmaps/pkg/errors"
	"github.com/matzehuels/topicmaps/pkg/model"
)

// Type names a directive.
type Type string

const (
	UpdateTopic       Type = "UPDATE_TOPIC"
	DeleteTopic       Type = "DELETE_TOPIC"
	UpdateAssociation Type = "UPDATE_ASSOCIATION"
	DeleteAssociation Type = "DELETE_ASSOCIATION"

	UpdateTopicType       Type = "UPDATE_TOPIC_TYPE"
	DeleteTopicType       Type = "DELETE_TOPIC_TYPE"
	UpdateAssociationType Type = "UPDATE_ASSOCIATION_TYPE"
	DeleteAssociationType Type = "DELETE_ASSOCIATION_TYPE"
)

// Known reports whether t is a recognized directive type.
func (t Type) Known() bool {
	return t.isObject() || t.IsSchema()
}

// IsSchema reports whether t is a type-level directive.
func (t Type) IsSchema() bool {
	switch t {
	case UpdateTopicType, DeleteTopicType, UpdateAssociationType, DeleteAssociationType:
		return true
	}
	return false
}

func (t Type) isObject() bool {
	switch t {
	case UpdateTopic, DeleteTopic, UpdateAssociation, DeleteAssociation:
		return true
	}
	return false
}

// Directive is one change notification.
type Directive struct {
	Type Type            `json:"type"`
	Arg  json.RawMessage `json:"arg"`
}

// New builds a directive, encoding arg as JSON.
func New(t Type, arg any) (Directive, error) {
	raw, err := json.Marshal(arg)
	if err != nil {
		return Directive{}, fmt.Errorf("encode %s: %w", t, err)
	}
	return Directive{Type: t, Arg: raw}, nil
}

// Topic decodes the argument of a topic directive.
func (d Directive) Topic() (model.Topic, error) {
	var t model.Topic
	if err := d.decode(&t); err != nil {
		return model.Topic{}, err
	}
	return t, nil
}

// Association decodes the argument of an association directive.
func (d Directive) Association() (model.Association, error) {
	var a model.Association
	if err := d.decode(&a); err != nil {
		return model.Association{}, err
	}
	return a, nil
}

// ObjectID decodes the id of the affected object. Delete directives may
// carry the full object or just {"id": ...}.
func (d Directive) ObjectID() (model.ID, error) {
	var ref struct {
		ID model.ID `json:"id"`
	}
	if err := d.decode(&ref); err != nil {
		return model.NoID, err
	}
	return ref.ID, nil
}

func (d Directive) decode(v any) error {
	if len(d.Arg) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "%s directive has no argument", d.Type)
	}
	if err := json.Unmarshal(d.Arg, v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s argument", d.Type)
	}
	return nil
}

// Decode parses a JSON array of directives.
func Decode(data []byte) ([]Directive, error) {
	var ds []Directive
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode directives")
	}
	return ds, nil
}
