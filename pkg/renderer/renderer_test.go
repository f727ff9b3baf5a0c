package renderer_test

import (
	"context"
	"slices"
	"testing"

	"github.com/matzehuels/topicmaps/pkg/errors"
	"github.com/matzehuels/topicmaps/pkg/model"
	"github.com/matzehuels/topicmaps/pkg/renderer"
	"github.com/matzehuels/topicmaps/pkg/renderer/canvas"
	"github.com/matzehuels/topicmaps/pkg/renderer/geomap"
	"github.com/matzehuels/topicmaps/pkg/topicmap"
	"github.com/matzehuels/topicmaps/pkg/topicmap/topicmaptest"
)

type loaderFunc func(ctx context.Context, id model.ID) (model.TopicmapData, error)

func (f loaderFunc) FetchTopicmap(ctx context.Context, id model.ID) (model.TopicmapData, error) {
	return f(ctx, id)
}

func staticLoader(data model.TopicmapData) renderer.Loader {
	return loaderFunc(func(_ context.Context, id model.ID) (model.TopicmapData, error) {
		if id != data.Info.ID {
			return model.TopicmapData{}, errors.New(errors.ErrCodeNotFound, "topicmap %d not found", id)
		}
		return data, nil
	})
}

func TestRegistry(t *testing.T) {
	reg, err := renderer.NewRegistry(canvas.New(nil, nil), geomap.New(nil, nil))
	if err != nil {
		t.Fatal(err)
	}

	a, err := reg.Lookup(geomap.URI)
	if err != nil {
		t.Fatalf("Lookup(geomap) error: %v", err)
	}
	if a.Info().Name != "Geomap" {
		t.Errorf("Info = %+v", a.Info())
	}

	if _, err := reg.Lookup("dmx.unknown"); !errors.Is(err, errors.ErrCodeUnknownRenderer) {
		t.Errorf("Lookup(unknown) error = %v, want UNKNOWN_RENDERER", err)
	}

	infos := reg.Infos()
	if len(infos) != 2 || infos[0].URI != canvas.URI {
		t.Errorf("Infos = %+v", infos)
	}
	if !reg.Has(canvas.URI) || reg.Has("") {
		t.Error("Has misreports registration")
	}

	if err := reg.Register(canvas.New(nil, nil)); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("duplicate Register error = %v, want INVALID_CONFIG", err)
	}
}

func TestCanvasLoad(t *testing.T) {
	data := topicmaptest.Data(4,
		[]model.Topic{topicmaptest.Topic(1, "a"), topicmaptest.Topic(2, "b")},
		[]model.Association{topicmaptest.Assoc(10, 1, 2)})
	rec := &topicmaptest.Recorder{}
	a := canvas.New(staticLoader(data), rec)

	vm, err := a.LoadTopicmap(context.Background(), 4, renderer.Config{Writable: true})
	if err != nil {
		t.Fatal(err)
	}
	if vm.TopicCount() != 2 || vm.AssociationCount() != 1 || !vm.Writable() {
		t.Errorf("loaded %d topics, %d assocs, writable=%v", vm.TopicCount(), vm.AssociationCount(), vm.Writable())
	}
	if vm.Policy() != topicmap.ReconcileUpdate {
		t.Errorf("Policy = %v", vm.Policy())
	}

	if _, err := a.LoadTopicmap(context.Background(), 5, renderer.Config{}); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing map error = %v, want NOT_FOUND", err)
	}
}

func TestCanvasRejectsForeignMap(t *testing.T) {
	data := topicmaptest.Data(4, nil, nil)
	data.Info.RendererURI = geomap.URI
	_, err := canvas.New(staticLoader(data), nil).LoadTopicmap(context.Background(), 4, renderer.Config{})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func geoTopic(id model.ID, lon, lat any) model.Topic {
	return model.Topic{
		ID:      id,
		TypeURI: geomap.GeoCoordinateType,
		Children: map[string]any{
			geomap.LongitudeType: lon,
			geomap.LatitudeType:  lat,
		},
	}
}

func TestGeomapLoad(t *testing.T) {
	data := model.TopicmapData{
		Info: model.TopicmapInfo{ID: 8, RendererURI: geomap.URI},
		Topics: []model.ViewTopicData{
			{Topic: geoTopic(1, 13.4, 52.5), ViewProps: model.NewViewProps(model.Point{}, true)},
			{Topic: geoTopic(2, "2.35", map[string]any{"value": 48.85})},
			{Topic: topicmaptest.Topic(3, "note"), ViewProps: model.NewViewProps(model.Point{}, true)},
		},
		Associations: []model.Association{topicmaptest.Assoc(10, 1, 2)},
	}
	vm, err := geomap.New(staticLoader(data), nil).LoadTopicmap(context.Background(), 8, renderer.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if vm.TopicCount() != 2 || vm.AssociationCount() != 0 {
		t.Fatalf("loaded %d topics, %d assocs; want 2, 0", vm.TopicCount(), vm.AssociationCount())
	}
	if vt, _ := vm.Topic(2); vt.Position != (model.Point{X: 2.35, Y: 48.85}) {
		t.Errorf("topic 2 at %v", vt.Position)
	}

	// Update directives create accepted topics.
	if !vm.ApplyTopicUpdate(geoTopic(5, -74.0, 40.7)) {
		t.Fatal("geo coordinate should be upserted")
	}
	if vt, _ := vm.Topic(5); vt.Position != (model.Point{X: -74, Y: 40.7}) {
		t.Errorf("upserted topic at %v", vt.Position)
	}
	if vm.ApplyTopicUpdate(topicmaptest.Topic(6, "note")) {
		t.Error("non-geo topic must not be upserted")
	}
}

func loadGeomap(t *testing.T, rec *topicmaptest.Recorder, obs func(topicmap.Event), topics ...model.Topic) *topicmap.Viewmodel {
	t.Helper()
	data := model.TopicmapData{Info: model.TopicmapInfo{ID: 8, RendererURI: geomap.URI}}
	for _, tp := range topics {
		data.Topics = append(data.Topics, model.ViewTopicData{Topic: tp, ViewProps: model.NewViewProps(model.Point{}, true)})
	}
	cfg := renderer.Config{Writable: true, Observer: obs}
	vm, err := geomap.New(staticLoader(data), rec).LoadTopicmap(context.Background(), 8, cfg)
	if err != nil {
		t.Fatal(err)
	}
	return vm
}

func TestGeomapUpdateMovesMember(t *testing.T) {
	rec := &topicmaptest.Recorder{}
	var events []topicmap.Event
	vm := loadGeomap(t, rec, func(e topicmap.Event) { events = append(events, e) }, geoTopic(7, 10.0, 20.0))

	if !vm.ApplyTopicUpdate(geoTopic(7, 30.0, 40.0)) {
		t.Fatal("member geo coordinate should stay a member")
	}
	fresh, _ := loadGeomap(t, rec, nil, geoTopic(7, 30.0, 40.0)).Topic(7)
	if got, _ := vm.Topic(7); got.Position != fresh.Position || got.Position != (model.Point{X: 30, Y: 40}) {
		t.Errorf("updated position = %v, a fresh load gives %v", got.Position, fresh.Position)
	}
	want := []topicmap.Event{{Kind: topicmap.EventTopicUpdated, ID: 7}, {Kind: topicmap.EventTopicMoved, ID: 7}}
	if !slices.Equal(events, want) {
		t.Errorf("events = %v, want %v", events, want)
	}

	// Without readable coordinates the topic keeps its place.
	vm.ApplyTopicUpdate(geoTopic(7, "east", 40.0))
	if vt, _ := vm.Topic(7); vt.Position != (model.Point{X: 30, Y: 40}) {
		t.Errorf("position after unreadable update = %v", vt.Position)
	}
	if rec.Count("") != 0 {
		t.Errorf("directive updates issued %d writes", rec.Count(""))
	}
}

func TestGeomapRefusesAssociations(t *testing.T) {
	ctx := context.Background()
	rec := &topicmaptest.Recorder{}
	vm := loadGeomap(t, rec, nil, geoTopic(1, 13.4, 52.5), geoTopic(2, 2.35, 48.85))

	if err := vm.RevealAssociation(ctx, topicmaptest.Assoc(10, 1, 2), false); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("RevealAssociation error = %v, want UNSUPPORTED", err)
	}
	if vm.SyncAddAssociation(topicmaptest.Assoc(10, 1, 2)) {
		t.Error("SyncAddAssociation should ignore associations on a geomap")
	}

	rel := model.RelatedTopic{Topic: geoTopic(3, 0.0, 0.0), Association: topicmaptest.Assoc(11, 1, 3)}
	if err := vm.RevealRelatedTopic(ctx, rel, model.Point{}); err != nil {
		t.Fatalf("RevealRelatedTopic error: %v", err)
	}
	if !vm.HasTopic(3) || vm.AssociationCount() != 0 {
		t.Errorf("topics=%d assocs=%d, want topic 3 and no associations", vm.TopicCount(), vm.AssociationCount())
	}
	if rec.Count(topicmap.OpAddAssociation) != 0 {
		t.Error("no association write expected")
	}
}

func TestCoordinates(t *testing.T) {
	if _, ok := geomap.Coordinates(model.Topic{Children: map[string]any{geomap.LongitudeType: 1.0}}); ok {
		t.Error("missing latitude should fail")
	}
	if _, ok := geomap.Coordinates(geoTopic(1, "east", 2.0)); ok {
		t.Error("non-numeric longitude should fail")
	}
}
