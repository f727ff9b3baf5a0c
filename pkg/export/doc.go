// Package export renders a snapshot of a topicmap view model.
//
// [ToDOT] emits Graphviz DOT text for the visible part of a topicmap: one
// node per visible topic and one undirected edge per association whose
// players are both shown. [RenderSVG] lays the DOT text out with Graphviz
// and returns SVG bytes.
//
// By default topic positions are pinned so the exported picture matches the
// canvas the user arranged. Set [Options.Layout] to let Graphviz place the
// nodes instead.
package export
