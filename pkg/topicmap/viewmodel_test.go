package topicmap_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/matzehuels/topicmaps/pkg/errors"
	"github.com/matzehuels/topicmaps/pkg/model"
	"github.com/matzehuels/topicmaps/pkg/topicmap"
	"github.com/matzehuels/topicmaps/pkg/topicmap/topicmaptest"
)

func newWritable(t *testing.T, data model.TopicmapData) (*topicmap.Viewmodel, *topicmaptest.Recorder) {
	t.Helper()
	rec := &topicmaptest.Recorder{}
	vm, err := topicmap.New(data, rec, topicmap.Config{Writable: true})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return vm, rec
}

func TestNew(t *testing.T) {
	t.Run("writable without store", func(t *testing.T) {
		_, err := topicmap.New(topicmaptest.Data(1, nil, nil), nil, topicmap.Config{Writable: true})
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("New() error = %v, want INVALID_INPUT", err)
		}
	})

	t.Run("duplicate topic", func(t *testing.T) {
		a := topicmaptest.Topic(1, "a")
		_, err := topicmap.New(topicmaptest.Data(1, []model.Topic{a, a}, nil), nil, topicmap.Config{})
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("New() error = %v, want INVALID_INPUT", err)
		}
	})

	t.Run("view props", func(t *testing.T) {
		data := model.TopicmapData{
			Info: model.TopicmapInfo{ID: 7, Name: "Research", RendererURI: "topicmaps.canvas"},
			Topics: []model.ViewTopicData{{
				Topic:     topicmaptest.Topic(1, "a"),
				ViewProps: model.ViewProps{"x": 10.0, "y": 20.0, "visibility": false, "color": "red"},
			}},
			Translation: model.Point{X: 5, Y: 6},
		}
		vm, err := topicmap.New(data, nil, topicmap.Config{})
		if err != nil {
			t.Fatalf("New() error: %v", err)
		}
		vt, ok := vm.Topic(1)
		if !ok {
			t.Fatal("topic 1 missing")
		}
		if vt.Position != (model.Point{X: 10, Y: 20}) || vt.Visible {
			t.Errorf("topic = %+v, want hidden at 10,20", vt)
		}
		if vt.Props["color"] != "red" || len(vt.Props) != 1 {
			t.Errorf("Props = %v, want only color", vt.Props)
		}
		if vm.Translation() != (model.Point{X: 5, Y: 6}) {
			t.Errorf("Translation = %v", vm.Translation())
		}
		if vm.Name() != "Research" || vm.RendererURI() != "topicmaps.canvas" {
			t.Errorf("info = %+v", vm.Info())
		}
	})
}

func TestRevealTopicRoundTrip(t *testing.T) {
	vm, rec := newWritable(t, topicmaptest.Data(1, nil, nil))
	topic := model.Topic{ID: 10, TypeURI: "note", Value: "hello"}

	if err := vm.RevealTopic(context.Background(), topic, model.Point{X: 100, Y: 200}, true); err != nil {
		t.Fatalf("RevealTopic() error: %v", err)
	}

	if vm.TopicCount() != 1 {
		t.Fatalf("TopicCount = %d, want 1", vm.TopicCount())
	}
	vt, _ := vm.Topic(10)
	if vt.Position != (model.Point{X: 100, Y: 200}) || !vt.Visible || vt.Label != "hello" {
		t.Errorf("topic = %+v", vt)
	}
	if !vm.Selection().Is(10, topicmap.KindTopic) {
		t.Errorf("Selection = %+v, want topic 10", vm.Selection())
	}

	calls := rec.Calls()
	if len(calls) != 1 || calls[0].Op != topicmap.OpAddTopic {
		t.Fatalf("calls = %+v, want one add_topic", calls)
	}
	pos, _ := calls[0].Props.Position()
	if pos != (model.Point{X: 100, Y: 200}) || !calls[0].Props.Visibility() {
		t.Errorf("persisted props = %v", calls[0].Props)
	}
}

func TestRevealTopicReadOnly(t *testing.T) {
	rec := &topicmaptest.Recorder{}
	vm, err := topicmap.New(topicmaptest.Data(1, nil, nil), rec, topicmap.Config{Writable: false})
	if err != nil {
		t.Fatal(err)
	}
	topic := model.Topic{ID: 10, TypeURI: "note", Value: "hello"}
	if err := vm.RevealTopic(context.Background(), topic, model.Point{X: 100, Y: 200}, true); err != nil {
		t.Fatalf("RevealTopic() error: %v", err)
	}
	vt, ok := vm.Topic(10)
	if !ok || vt.Position != (model.Point{X: 100, Y: 200}) || !vt.Visible {
		t.Errorf("topic = %+v, ok=%v", vt, ok)
	}
	if n := rec.Count(""); n != 0 {
		t.Errorf("read-only view model issued %d writes", n)
	}
}

func TestRevealTopicIdempotent(t *testing.T) {
	vm, rec := newWritable(t, topicmaptest.Data(1, nil, nil))
	ctx := context.Background()
	topic := topicmaptest.Topic(5, "five")

	_ = vm.RevealTopic(ctx, topic, model.Point{X: 1, Y: 1}, false)
	_ = vm.RevealTopic(ctx, topic, model.Point{X: 99, Y: 99}, true)

	if vm.TopicCount() != 1 {
		t.Errorf("TopicCount = %d, want 1", vm.TopicCount())
	}
	if rec.Count("") != 1 {
		t.Errorf("writes = %d, want 1", rec.Count(""))
	}
	vt, _ := vm.Topic(5)
	if vt.Position != (model.Point{X: 1, Y: 1}) {
		t.Errorf("second reveal moved the topic to %v", vt.Position)
	}
	if !vm.Selection().Is(5, topicmap.KindTopic) {
		t.Error("second reveal should select")
	}
}

func TestRevealHiddenTopic(t *testing.T) {
	vm, rec := newWritable(t, topicmaptest.Data(1, []model.Topic{topicmaptest.Topic(5, "five")}, nil))
	ctx := context.Background()

	if err := vm.HideTopic(ctx, 5); err != nil {
		t.Fatal(err)
	}
	rec.Reset()

	if err := vm.RevealTopic(ctx, topicmaptest.Topic(5, "five"), model.Point{X: 50}, false); err != nil {
		t.Fatal(err)
	}
	if vm.TopicCount() != 1 {
		t.Errorf("TopicCount = %d, want 1", vm.TopicCount())
	}
	vt, _ := vm.Topic(5)
	if !vt.Visible {
		t.Error("topic should be visible again")
	}
	calls := rec.Calls()
	if len(calls) != 1 || calls[0].Op != topicmap.OpSetTopicVisibility || !calls[0].Visible {
		t.Errorf("calls = %+v, want one visibility=true write", calls)
	}
}

func TestRevealAssociation(t *testing.T) {
	topics := []model.Topic{topicmaptest.Topic(1, "a"), topicmaptest.Topic(2, "b")}
	vm, rec := newWritable(t, topicmaptest.Data(1, topics, nil))
	ctx := context.Background()

	if err := vm.RevealAssociation(ctx, topicmaptest.Assoc(10, 1, 2), true); err != nil {
		t.Fatal(err)
	}
	if err := vm.RevealAssociation(ctx, topicmaptest.Assoc(10, 1, 2), false); err != nil {
		t.Fatal(err)
	}
	if vm.AssociationCount() != 1 || rec.Count(topicmap.OpAddAssociation) != 1 {
		t.Errorf("associations = %d, writes = %d", vm.AssociationCount(), rec.Count(topicmap.OpAddAssociation))
	}
	if !vm.Selection().Is(10, topicmap.KindAssociation) {
		t.Errorf("Selection = %+v", vm.Selection())
	}

	err := vm.RevealAssociation(ctx, topicmaptest.Assoc(11, 1, 99), false)
	if !errors.Is(err, errors.ErrCodeNotMember) {
		t.Errorf("dangling reveal error = %v, want NOT_MEMBER", err)
	}
}

func TestRevealRelatedTopic(t *testing.T) {
	vm, rec := newWritable(t, topicmaptest.Data(1, []model.Topic{topicmaptest.Topic(1, "origin")}, nil))
	ctx := context.Background()

	rel := model.RelatedTopic{Topic: topicmaptest.Topic(2, "neighbor"), Association: topicmaptest.Assoc(20, 1, 2)}
	if err := vm.RevealRelatedTopic(ctx, rel, model.Point{X: 30, Y: 40}); err != nil {
		t.Fatal(err)
	}
	if !vm.HasTopic(2) || !vm.HasAssociation(20) {
		t.Fatal("related topic and association should be members")
	}
	if !vm.Selection().Is(2, topicmap.KindTopic) {
		t.Errorf("Selection = %+v, want topic 2", vm.Selection())
	}
	if rec.Count(topicmap.OpAddTopic) != 1 || rec.Count(topicmap.OpAddAssociation) != 1 {
		t.Errorf("calls = %+v", rec.Calls())
	}

	bad := model.RelatedTopic{Topic: topicmaptest.Topic(3, "x"), Association: topicmaptest.Assoc(21, 1, 2)}
	if err := vm.RevealRelatedTopic(ctx, bad, model.Point{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestSetTopicPosition(t *testing.T) {
	vm, rec := newWritable(t, topicmaptest.Data(1, []model.Topic{topicmaptest.Topic(1, "a")}, nil))
	ctx := context.Background()
	_ = vm.SetSelection(1, topicmap.KindTopic)

	for range 2 {
		if err := vm.SetTopicPosition(ctx, 1, model.Point{X: 7, Y: 8}); err != nil {
			t.Fatal(err)
		}
	}
	vt, _ := vm.Topic(1)
	if vt.Position != (model.Point{X: 7, Y: 8}) || !vt.Visible {
		t.Errorf("topic = %+v", vt)
	}
	if !vm.Selection().Is(1, topicmap.KindTopic) {
		t.Error("SetTopicPosition should not touch the selection")
	}
	if rec.Count(topicmap.OpSetTopicPosition) != 2 {
		t.Errorf("position writes = %d, want 2", rec.Count(topicmap.OpSetTopicPosition))
	}

	if err := vm.SetTopicPosition(ctx, 42, model.Point{}); !errors.Is(err, errors.ErrCodeNotMember) {
		t.Errorf("unknown id error = %v, want NOT_MEMBER", err)
	}
}

func TestSetViewProps(t *testing.T) {
	vm, rec := newWritable(t, topicmaptest.Data(1, []model.Topic{topicmaptest.Topic(1, "a")}, nil))
	ctx := context.Background()

	if err := vm.SetViewProps(ctx, 1, model.ViewProps{"color": "blue"}); err != nil {
		t.Fatal(err)
	}
	vt, _ := vm.Topic(1)
	if vt.Props["color"] != "blue" {
		t.Errorf("Props = %v", vt.Props)
	}
	if rec.Count(topicmap.OpSetViewProps) != 1 {
		t.Error("view props should be persisted")
	}
	if err := vm.SetViewProps(ctx, 1, model.ViewProps{"x": 1.0}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestHideTopicCascades(t *testing.T) {
	topics := []model.Topic{
		topicmaptest.Topic(1, "hub"), topicmaptest.Topic(2, "b"),
		topicmaptest.Topic(3, "c"), topicmaptest.Topic(4, "d"),
	}
	assocs := []model.Association{
		topicmaptest.Assoc(10, 1, 2),
		topicmaptest.Assoc(11, 3, 1),
		topicmaptest.Assoc(12, 1, 4),
		topicmaptest.Assoc(13, 2, 3),
		topicmaptest.Assoc(14, 10, 4), // attached to association 10
	}
	vm, rec := newWritable(t, topicmaptest.Data(1, topics, assocs))
	ctx := context.Background()

	if err := vm.HideTopic(ctx, 1); err != nil {
		t.Fatal(err)
	}

	for _, id := range []model.ID{10, 11, 12, 14} {
		if vm.HasAssociation(id) {
			t.Errorf("association %d should be removed", id)
		}
	}
	if !vm.HasAssociation(13) {
		t.Error("association 13 is not incident and should stay")
	}
	vt, ok := vm.Topic(1)
	if !ok {
		t.Fatal("hidden topic must stay a member")
	}
	if vt.Visible {
		t.Error("topic should be hidden")
	}
	if rec.Count(topicmap.OpRemoveAssociation) != 4 || rec.Count(topicmap.OpSetTopicVisibility) != 1 {
		t.Errorf("calls = %+v", rec.Calls())
	}
}

func TestSelectionInvariant(t *testing.T) {
	topics := []model.Topic{topicmaptest.Topic(1, "a"), topicmaptest.Topic(2, "b"), topicmaptest.Topic(3, "c")}
	assocs := []model.Association{topicmaptest.Assoc(10, 1, 2), topicmaptest.Assoc(11, 2, 3)}
	ctx := context.Background()

	tests := []struct {
		name     string
		selectID model.ID
		kind     topicmap.Kind
		op       func(vm *topicmap.Viewmodel)
		cleared  bool
	}{
		{"hide selected topic", 1, topicmap.KindTopic, func(vm *topicmap.Viewmodel) { _ = vm.HideTopic(ctx, 1) }, true},
		{"hide other topic", 3, topicmap.KindTopic, func(vm *topicmap.Viewmodel) { _ = vm.HideTopic(ctx, 1) }, false},
		{"delete selected topic", 2, topicmap.KindTopic, func(vm *topicmap.Viewmodel) { vm.DeleteTopic(2) }, true},
		{"delete other topic", 1, topicmap.KindTopic, func(vm *topicmap.Viewmodel) { vm.DeleteTopic(3) }, false},
		{"hide selected association", 10, topicmap.KindAssociation, func(vm *topicmap.Viewmodel) { _ = vm.HideAssociation(ctx, 10) }, true},
		{"hide other association", 11, topicmap.KindAssociation, func(vm *topicmap.Viewmodel) { _ = vm.HideAssociation(ctx, 10) }, false},
		{"delete selected association", 11, topicmap.KindAssociation, func(vm *topicmap.Viewmodel) { vm.DeleteAssociation(11) }, true},
		{"cascade removes selected association", 10, topicmap.KindAssociation, func(vm *topicmap.Viewmodel) { _ = vm.HideTopic(ctx, 2) }, true},
		{"delete unknown", 1, topicmap.KindTopic, func(vm *topicmap.Viewmodel) { vm.DeleteTopic(99) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm, _ := newWritable(t, topicmaptest.Data(1, topics, assocs))
			if err := vm.SetSelection(tt.selectID, tt.kind); err != nil {
				t.Fatal(err)
			}
			tt.op(vm)
			if got := vm.Selection().IsNone(); got != tt.cleared {
				t.Errorf("selection cleared = %v, want %v (selection %+v)", got, tt.cleared, vm.Selection())
			}
		})
	}
}

func TestSetSelectionUnknown(t *testing.T) {
	vm, rec := newWritable(t, topicmaptest.Data(1, []model.Topic{topicmaptest.Topic(1, "a")}, nil))
	if err := vm.SetSelection(2, topicmap.KindTopic); !errors.Is(err, errors.ErrCodeNotMember) {
		t.Errorf("error = %v, want NOT_MEMBER", err)
	}
	if err := vm.SetSelection(1, topicmap.KindAssociation); !errors.Is(err, errors.ErrCodeNotMember) {
		t.Errorf("error = %v, want NOT_MEMBER", err)
	}
	if err := vm.SetSelection(1, topicmap.KindTopic); err != nil {
		t.Fatal(err)
	}
	vm.ResetSelection()
	if !vm.Selection().IsNone() {
		t.Error("ResetSelection should clear")
	}
	if rec.Count("") != 0 {
		t.Error("selection must never be persisted")
	}
}

func TestTranslation(t *testing.T) {
	vm, rec := newWritable(t, topicmaptest.Data(1, nil, nil))
	ctx := context.Background()

	vm.TranslateBy(10, 5)
	vm.TranslateBy(-2, 1)
	if vm.Translation() != (model.Point{X: 8, Y: 6}) {
		t.Errorf("Translation = %v", vm.Translation())
	}
	if rec.Count("") != 0 {
		t.Error("TranslateBy must not persist")
	}

	if err := vm.SetTranslation(ctx, 8, 6); err != nil {
		t.Fatal(err)
	}
	calls := rec.Calls()
	if len(calls) != 1 || calls[0].Op != topicmap.OpSetTranslation || calls[0].Point != (model.Point{X: 8, Y: 6}) {
		t.Errorf("calls = %+v", calls)
	}
}

func TestUnsyncedWrite(t *testing.T) {
	boom := stderrors.New("connection reset")
	rec := &topicmaptest.Recorder{Fail: map[string]error{topicmap.OpAddTopic: boom}}
	var reported []*topicmap.UnsyncedError
	vm, err := topicmap.New(topicmaptest.Data(3, nil, nil), rec, topicmap.Config{
		Writable:   true,
		OnUnsynced: func(e *topicmap.UnsyncedError) { reported = append(reported, e) },
	})
	if err != nil {
		t.Fatal(err)
	}

	err = vm.RevealTopic(context.Background(), topicmaptest.Topic(1, "a"), model.Point{}, false)
	if !errors.Is(err, errors.ErrCodeUnsynced) {
		t.Fatalf("error = %v, want UNSYNCED", err)
	}
	if !stderrors.Is(err, boom) {
		t.Error("unsynced error should wrap the store error")
	}
	var ue *topicmap.UnsyncedError
	if !stderrors.As(err, &ue) || ue.Op != topicmap.OpAddTopic || ue.TopicmapID != 3 || ue.ObjectID != 1 {
		t.Errorf("unsynced error = %+v", ue)
	}
	if !vm.HasTopic(1) {
		t.Error("local mutation must be kept after a failed write")
	}
	if len(reported) != 1 {
		t.Errorf("OnUnsynced called %d times, want 1", len(reported))
	}
}

func TestObserverEvents(t *testing.T) {
	var events []topicmap.Event
	rec := &topicmaptest.Recorder{}
	vm, err := topicmap.New(topicmaptest.Data(1, nil, nil), rec, topicmap.Config{
		Writable: true,
		Observer: func(e topicmap.Event) { events = append(events, e) },
	})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	_ = vm.RevealTopic(ctx, topicmaptest.Topic(1, "a"), model.Point{}, true)
	_ = vm.HideTopic(ctx, 1)

	want := []topicmap.Event{
		{Kind: topicmap.EventTopicAdded, ID: 1},
		{Kind: topicmap.EventSelectionChanged, ID: 1},
		{Kind: topicmap.EventTopicHidden, ID: 1},
		{Kind: topicmap.EventSelectionChanged, ID: model.NoID},
	}
	if len(events) != len(want) {
		t.Fatalf("events = %+v, want %+v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("event[%d] = %+v, want %+v", i, events[i], want[i])
		}
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	vm, _ := newWritable(t, topicmaptest.Data(1, []model.Topic{topicmaptest.Topic(1, "a")}, nil))
	vt, _ := vm.Topic(1)
	vt.Position = model.Point{X: 999}
	again, _ := vm.Topic(1)
	if again.Position == vt.Position {
		t.Error("Topic() should return a copy")
	}
}
