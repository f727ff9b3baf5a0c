package export

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/topicmaps/pkg/model"
	"github.com/matzehuels/topicmaps/pkg/topicmap"
	"github.com/matzehuels/topicmaps/pkg/topicmap/topicmaptest"
)

func testViewmodel(t *testing.T) *topicmap.Viewmodel {
	t.Helper()
	data := topicmaptest.Data(1,
		[]model.Topic{topicmaptest.Topic(10, "Alpha"), topicmaptest.Topic(20, "Beta")},
		[]model.Association{topicmaptest.Assoc(30, 10, 20), topicmaptest.Assoc(40, 30, 10)},
	)
	data.Topics = append(data.Topics, model.ViewTopicData{
		Topic:     topicmaptest.Topic(50, "Gamma"),
		ViewProps: model.ViewProps{"x": 144.0, "y": 72.0, "visibility": false, "color": "red"},
	})
	data.Topics[0].ViewProps = model.NewViewProps(model.Point{X: 72, Y: 144}, true)
	vm, err := topicmap.New(data, nil, topicmap.Config{})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return vm
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(testViewmodel(t), Options{})

	for _, want := range []string{
		"graph G {",
		`t10 [label="Alpha", pos="1,-2!"]`,
		`t20 [label="Beta", pos="0,0!"]`,
		"t10 -- t20",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q in:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "t50") {
		t.Error("ToDOT() should skip hidden topics")
	}
	if strings.Contains(dot, "t30") {
		t.Error("ToDOT() should skip associations attached to associations")
	}
}

func TestToDOT_Hidden(t *testing.T) {
	dot := ToDOT(testViewmodel(t), Options{Hidden: true})

	if !strings.Contains(dot, "t50 [") || !strings.Contains(dot, "dashed") {
		t.Errorf("ToDOT() hidden output missing dashed topic:\n%s", dot)
	}
}

func TestToDOT_Layout(t *testing.T) {
	dot := ToDOT(testViewmodel(t), Options{Layout: true})

	if strings.Contains(dot, "pos=") {
		t.Error("ToDOT() with Layout should not pin positions")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(testViewmodel(t), Options{Detailed: true, Hidden: true})

	if !strings.Contains(dot, "dmx.notes.note") {
		t.Error("ToDOT() detailed output missing type uri")
	}
	if !strings.Contains(dot, "color: red") {
		t.Error("ToDOT() detailed output missing view props")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "no viewBox",
			svg:  `<svg width="10"></svg>`,
			want: `<svg width="10"></svg>`,
		},
		{
			name: "zero size",
			svg:  `<svg viewBox="0 0 0 0"></svg>`,
			want: `<svg viewBox="0 0 0 0"></svg>`,
		},
		{
			name: "rewritten",
			svg:  `<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00"></svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"></svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeViewBox([]byte(tt.svg))
			if string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", string(got), tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(testViewmodel(t), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}

	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	_, err := RenderSVG(context.Background(), `not valid DOT {{{`)
	if err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}
