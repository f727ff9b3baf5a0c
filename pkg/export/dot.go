package export

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/topicmaps/pkg/errors"
	"github.com/matzehuels/topicmaps/pkg/model"
	"github.com/matzehuels/topicmaps/pkg/topicmap"
)

// pointsPerInch converts canvas pixels to Graphviz points.
const pointsPerInch = 72.0

// Options configures DOT emission.
type Options struct {
	// Layout ignores stored positions and lets Graphviz place the nodes.
	Layout bool

	// Detailed adds the topic type and view props to node labels.
	Detailed bool

	// Hidden includes hidden topics, drawn dashed.
	Hidden bool
}

// ToDOT converts the view model to Graphviz DOT format.
// Canvas y grows downward, so y is negated for Graphviz.
func ToDOT(vm *topicmap.Viewmodel, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	fmt.Fprintf(&buf, "  label=%q;\n", vm.Name())
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	if !opts.Layout {
		buf.WriteString("  splines=true;\n")
	}
	buf.WriteString("\n")

	shown := make(map[model.ID]bool)
	for _, t := range vm.Topics() {
		if !t.Visible && !opts.Hidden {
			continue
		}
		shown[t.ID] = true
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(t, opts.Detailed))}
		if !opts.Layout {
			attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s!\"", fmtFloat(t.Position.X), fmtFloat(-t.Position.Y)))
		}
		if !t.Visible {
			attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
		}
		fmt.Fprintf(&buf, "  %s [%s];\n", nodeName(t.ID), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, a := range vm.Associations() {
		// Associations attached to associations have no node to connect.
		if !shown[a.Role1.PlayerID] || !shown[a.Role2.PlayerID] {
			continue
		}
		attrs := []string{fmt.Sprintf("tooltip=%q", a.TypeURI)}
		if a.Label != "" {
			attrs = append(attrs, fmt.Sprintf("label=%q", a.Label))
		}
		fmt.Fprintf(&buf, "  %s -- %s [%s];\n", nodeName(a.Role1.PlayerID), nodeName(a.Role2.PlayerID), strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeName(id model.ID) string { return "t" + id.String() }

func fmtLabel(t topicmap.ViewTopic, detailed bool) string {
	if !detailed {
		return t.Label
	}

	parts := []string{t.TypeURI}
	for _, k := range slices.Sorted(maps.Keys(t.Props)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, t.Props[k]))
	}
	return t.Label + "\n" + strings.Join(parts, "\n")
}

// fmtFloat renders a canvas coordinate in inches.
func fmtFloat(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v/pointsPerInch, 'f', -1, 64)
}

// RenderSVG renders DOT text to SVG using Graphviz.
// Pinned positions need the neato engine; dot would ignore them.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render SVG")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a
// pixel-sized one anchored at the origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
