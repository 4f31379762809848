package service

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/ludo-technologies/dddscan/domain"
	"github.com/ludo-technologies/dddscan/internal/version"
)

// DOTFormatterConfig configures the DOT formatter behavior
type DOTFormatterConfig struct {
	// ClusterNamespaces groups nodes of the same namespace in subgraphs
	ClusterNamespaces bool

	// ShowLegend includes a legend subgraph
	ShowLegend bool

	// ForbiddenOnly drops relations that satisfy the rules
	ForbiddenOnly bool

	// RankDir is the layout direction: TB, LR, BT, RL
	RankDir string
}

// DefaultDOTFormatterConfig returns a DOTFormatterConfig with sensible defaults
func DefaultDOTFormatterConfig() *DOTFormatterConfig {
	return &DOTFormatterConfig{
		ClusterNamespaces: true,
		ShowLegend:        true,
		RankDir:           "LR",
	}
}

// DOTFormatter formats the reduced graph as DOT for Graphviz
type DOTFormatter struct {
	config *DOTFormatterConfig
}

// NewDOTFormatter creates a new DOT formatter with the given configuration
func NewDOTFormatter(config *DOTFormatterConfig) *DOTFormatter {
	if config == nil {
		config = DefaultDOTFormatterConfig()
	}
	return &DOTFormatter{config: config}
}

// edgeStyles defines the visual style for each edge kind.
var edgeStyles = map[domain.Edge]struct {
	style string
	arrow string
}{
	domain.EdgeImplements: {style: "dashed", arrow: "empty"},
	domain.EdgeExtends:    {style: "solid", arrow: "empty"},
	domain.EdgeConsumes:   {style: "solid", arrow: "normal"},
	domain.EdgeThrows:     {style: "dotted", arrow: "tee"},
	domain.EdgeProduces:   {style: "bold", arrow: "diamond"},
}

const (
	nodeFill        = "#E8F0FE"
	nodeBorder      = "#4A6FA5"
	forbiddenColor  = "#DC143C"
	externalFill    = "#F5F5F5"
	externalBorder  = "#AAAAAA"
	globalNamespace = "(global)"
)

// validRankDirs contains the valid Graphviz rank directions
var validRankDirs = map[string]bool{
	"TB": true, // Top to Bottom
	"LR": true, // Left to Right
	"BT": true, // Bottom to Top
	"RL": true, // Right to Left
}

// FormatGraph formats the graph of resp as DOT and returns the string
func (f *DOTFormatter) FormatGraph(resp *domain.ArchitectureResponse) (string, error) {
	var sb strings.Builder
	if err := f.WriteGraph(resp, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// WriteGraph writes the graph of resp as DOT to the writer
func (f *DOTFormatter) WriteGraph(resp *domain.ArchitectureResponse, writer io.Writer) error {
	if resp == nil {
		return domain.NewOutputError("nil graph", nil)
	}
	if !validRankDirs[f.config.RankDir] {
		return domain.NewInvalidInputError(
			fmt.Sprintf("invalid rank direction %q: must be one of TB, LR, BT, RL", f.config.RankDir), nil)
	}

	relations := f.filterRelations(resp.Relations)

	// Nodes touched by a relation but absent from the node list are drawn
	// as external types.
	declared := make(map[domain.NodeID]bool, len(resp.Nodes))
	for _, n := range resp.Nodes {
		declared[n.ID] = true
	}
	external := make(map[domain.NodeID]bool)
	for _, rel := range relations {
		for _, id := range []domain.NodeID{rel.From, rel.To} {
			if !declared[id] {
				external[id] = true
			}
		}
	}

	fmt.Fprintf(writer, "/* dddscan Graph - Generated: %s */\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(writer, "/* Version: %s */\n", version.GetVersion())
	fmt.Fprintln(writer, "digraph architecture {")
	fmt.Fprintf(writer, "    rankdir=%s;\n", f.config.RankDir)
	fmt.Fprintln(writer, "    node [shape=box, style=filled, fontname=\"Helvetica\"];")
	fmt.Fprintln(writer, "    edge [fontname=\"Helvetica\", fontsize=10];")
	fmt.Fprintln(writer)

	if len(declared) == 0 && len(external) == 0 {
		fmt.Fprintln(writer, "    /* No classes in the graph */")
		fmt.Fprintln(writer, "}")
		return nil
	}

	ids := make([]domain.NodeID, 0, len(declared)+len(external))
	for id := range declared {
		ids = append(ids, id)
	}
	for id := range external {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	if f.config.ClusterNamespaces {
		f.writeClusters(writer, ids, external)
	} else {
		fmt.Fprintln(writer, "    // Nodes")
		for _, id := range ids {
			f.writeNode(writer, id, external[id], "    ")
		}
		fmt.Fprintln(writer)
	}

	fmt.Fprintln(writer, "    // Edges")
	f.writeEdges(writer, relations)
	fmt.Fprintln(writer)

	if f.config.ShowLegend {
		f.writeLegend(writer)
	}

	fmt.Fprintln(writer, "}")
	return nil
}

func (f *DOTFormatter) filterRelations(relations []domain.RelationView) []domain.RelationView {
	if !f.config.ForbiddenOnly {
		return relations
	}
	var kept []domain.RelationView
	for _, rel := range relations {
		if rel.Forbidden {
			kept = append(kept, rel)
		}
	}
	return kept
}

// writeClusters writes one subgraph per namespace; ids must be sorted
func (f *DOTFormatter) writeClusters(writer io.Writer, ids []domain.NodeID, external map[domain.NodeID]bool) {
	groups := make(map[string][]domain.NodeID)
	var namespaces []string
	for _, id := range ids {
		ns := namespaceOf(id)
		if _, ok := groups[ns]; !ok {
			namespaces = append(namespaces, ns)
		}
		groups[ns] = append(groups[ns], id)
	}
	sort.Strings(namespaces)

	for i, ns := range namespaces {
		fmt.Fprintf(writer, "    subgraph cluster_ns_%d {\n", i)
		fmt.Fprintf(writer, "        label=\"%s\";\n", escapeDOTLabel(ns))
		fmt.Fprintln(writer, "        style=rounded;")
		fmt.Fprintln(writer, "        color=\"#CCCCCC\";")
		for _, id := range groups[ns] {
			f.writeNode(writer, id, external[id], "        ")
		}
		fmt.Fprintln(writer, "    }")
		fmt.Fprintln(writer)
	}
}

// writeNode writes a single node in DOT format
func (f *DOTFormatter) writeNode(writer io.Writer, id domain.NodeID, isExternal bool, indent string) {
	fill, border := nodeFill, nodeBorder
	if isExternal {
		fill, border = externalFill, externalBorder
	}
	fmt.Fprintf(writer, "%s%s [label=\"%s\", tooltip=\"%s\", fillcolor=\"%s\", color=\"%s\"];\n",
		indent, escapeDOTID(id.String()), escapeDOTLabel(id.ShortName()), escapeDOTLabel(id.String()), fill, border)
}

// writeEdges writes all relations in DOT format, sorted for deterministic output
func (f *DOTFormatter) writeEdges(writer io.Writer, relations []domain.RelationView) {
	sorted := make([]domain.RelationView, len(relations))
	copy(sorted, relations)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.From != b.From {
			return a.From < b.From
		}
		if a.To != b.To {
			return a.To < b.To
		}
		return a.Edge < b.Edge
	})

	for _, rel := range sorted {
		style, ok := edgeStyles[rel.Edge]
		if !ok {
			style = edgeStyles[domain.EdgeConsumes]
		}
		fmt.Fprintf(writer, "    %s -> %s [style=%s, arrowhead=%s, label=\"%s\"",
			escapeDOTID(rel.From.String()), escapeDOTID(rel.To.String()), style.style, style.arrow, rel.Edge)
		if rel.Forbidden {
			fmt.Fprintf(writer, ", penwidth=2, color=\"%s\", fontcolor=\"%s\"", forbiddenColor, forbiddenColor)
		}
		fmt.Fprintln(writer, "];")
	}
}

// writeLegend writes the legend subgraph
func (f *DOTFormatter) writeLegend(writer io.Writer) {
	fmt.Fprintln(writer, "    // Legend")
	fmt.Fprintln(writer, "    subgraph cluster_legend {")
	fmt.Fprintln(writer, "        label=\"Legend\";")
	fmt.Fprintln(writer, "        style=filled;")
	fmt.Fprintln(writer, "        fillcolor=\"#F5F5F5\";")
	fmt.Fprintln(writer, "        color=\"#CCCCCC\";")
	fmt.Fprintln(writer, "        fontsize=10;")
	fmt.Fprintln(writer)
	for _, edge := range domain.AllEdges() {
		style := edgeStyles[edge]
		fmt.Fprintf(writer, "        legend_%s_a [label=\"\", style=invis, width=0, height=0];\n", edge)
		fmt.Fprintf(writer, "        legend_%s_b [label=\"%s\", style=invis, width=0, height=0];\n", edge, edge)
		fmt.Fprintf(writer, "        legend_%s_a -> legend_%s_b [style=%s, arrowhead=%s, label=\"%s\"];\n",
			edge, edge, style.style, style.arrow, edge)
	}
	fmt.Fprintln(writer)
	fmt.Fprintln(writer, "        legend_forbidden_a [label=\"\", style=invis, width=0, height=0];")
	fmt.Fprintln(writer, "        legend_forbidden_b [label=\"forbidden\", style=invis, width=0, height=0];")
	fmt.Fprintf(writer, "        legend_forbidden_a -> legend_forbidden_b [penwidth=2, color=\"%s\", label=\"forbidden\"];\n", forbiddenColor)
	fmt.Fprintln(writer, "    }")
}

// namespaceOf returns everything before the short name of id
func namespaceOf(id domain.NodeID) string {
	s := id.String()
	if i := strings.LastIndex(s, domain.NamespaceSeparator); i > 0 {
		return s[:i]
	}
	return globalNamespace
}

// escapeDOTID escapes a class name for use as a DOT node ID
func escapeDOTID(id string) string {
	replacer := strings.NewReplacer(
		`\`, "__",
		".", "_",
		"-", "_",
		" ", "_",
		":", "_",
		"(", "_",
		")", "_",
		"[", "_",
		"]", "_",
		"{", "_",
		"}", "_",
	)
	escaped := replacer.Replace(id)

	if len(escaped) > 0 && !isValidDOTIDStart(escaped[0]) {
		escaped = "_" + escaped
	}
	return escaped
}

// escapeDOTLabel escapes a string for use as a DOT label.
// Backslash goes first to avoid double-escaping.
func escapeDOTLabel(label string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\r", "",
		"\t", `\t`,
	)
	return replacer.Replace(label)
}

// isValidDOTIDStart checks if a character can start a DOT ID
func isValidDOTIDStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}
