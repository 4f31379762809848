package service

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/dddscan/domain"
)

// OutputFormatterImpl implements the OutputFormatter interface
type OutputFormatterImpl struct {
	showDetails bool
	dot         *DOTFormatter
}

// NewOutputFormatter creates a new output formatter
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{dot: NewDOTFormatter(nil)}
}

// WithDetails lists every relation in text output
func (f *OutputFormatterImpl) WithDetails(show bool) *OutputFormatterImpl {
	f.showDetails = show
	return f
}

// WithDOTConfig configures the Graphviz output
func (f *OutputFormatterImpl) WithDOTConfig(config *DOTFormatterConfig) *OutputFormatterImpl {
	f.dot = NewDOTFormatter(config)
	return f
}

// WriteJSON writes data as JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteYAML writes data as YAML to the writer
func WriteYAML(writer io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}

// textStyles are resolved against the destination writer, so output to a
// file or pipe carries no escape codes.
type textStyles struct {
	title   lipgloss.Style
	heading lipgloss.Style
	ok      lipgloss.Style
	fail    lipgloss.Style
	faint   lipgloss.Style
	tag     lipgloss.Style
}

func newTextStyles(w io.Writer) textStyles {
	r := lipgloss.NewRenderer(w)
	return textStyles{
		title:   r.NewStyle().Bold(true).Underline(true),
		heading: r.NewStyle().Bold(true),
		ok:      r.NewStyle().Foreground(lipgloss.Color("42")),
		fail:    r.NewStyle().Foreground(lipgloss.Color("196")),
		faint:   r.NewStyle().Faint(true),
		tag:     r.NewStyle().Foreground(lipgloss.Color("39")),
	}
}

func writeStructured(data interface{}, format domain.OutputFormat, writer io.Writer) (bool, error) {
	var err error
	switch format {
	case domain.OutputFormatJSON:
		err = WriteJSON(writer, data)
	case domain.OutputFormatYAML:
		err = WriteYAML(writer, data)
	default:
		return false, nil
	}
	if err != nil {
		return true, domain.NewOutputError(fmt.Sprintf("failed to write %s output", format), err)
	}
	return true, nil
}

// WriteCheck writes the check result in the specified format
func (f *OutputFormatterImpl) WriteCheck(result *domain.CheckResult, format domain.OutputFormat, writer io.Writer) error {
	if result == nil {
		return domain.NewOutputError("nil check result", nil)
	}
	if done, err := writeStructured(result, format, writer); done {
		return err
	}
	if format != domain.OutputFormatText {
		return domain.NewUnsupportedFormatError(string(format))
	}
	return f.writeCheckText(result, writer)
}

func (f *OutputFormatterImpl) writeCheckText(result *domain.CheckResult, w io.Writer) error {
	s := newTextStyles(w)

	fmt.Fprintln(w, s.title.Render("Architecture Check"))
	fmt.Fprintln(w)

	if len(result.Violations) == 0 {
		fmt.Fprintln(w, s.ok.Render("No violations found"))
	} else {
		fmt.Fprintln(w, s.heading.Render(fmt.Sprintf("Violations (%d):", len(result.Violations))))
		for _, v := range result.Violations {
			fmt.Fprintf(w, "  %s %s\n", s.fail.Render("x"), v.Message)
		}
	}
	fmt.Fprintln(w)

	sum := result.Summary
	fmt.Fprintln(w, s.heading.Render("Summary:"))
	fmt.Fprintf(w, "  Files analyzed:      %d\n", sum.FilesAnalyzed)
	fmt.Fprintf(w, "  Files without class: %d\n", sum.FilesSkipped)
	fmt.Fprintf(w, "  Classes:             %d\n", sum.ClassesAnalyzed)
	fmt.Fprintf(w, "  Nodes:               %d\n", sum.Nodes)
	fmt.Fprintf(w, "  Relations:           %d\n", sum.Relations)
	fmt.Fprintf(w, "  Missing tags:        %d\n", sum.MissingTags)
	fmt.Fprintf(w, "  Forbidden relations: %d\n", sum.ForbiddenRelations)
	if sum.CacheHits > 0 {
		fmt.Fprintf(w, "  Cache hits:          %d\n", sum.CacheHits)
	}
	fmt.Fprintln(w)

	if result.Folder != "" && !result.Passed {
		err := &domain.ViolationsError{Scope: domain.ViolationScopeFolder, Subject: result.Folder, Violations: result.Violations}
		fmt.Fprintln(w, s.fail.Render(err.Error()))
	}
	fmt.Fprintln(w, s.faint.Render(fmt.Sprintf("run %s, %dms, dddscan %s", result.RunID, result.Duration, result.Version)))
	return nil
}

// WriteReport writes the categorization report in the specified format
func (f *OutputFormatterImpl) WriteReport(report *domain.ArchitectureReport, format domain.OutputFormat, writer io.Writer) error {
	if report == nil {
		return domain.NewOutputError("nil report", nil)
	}
	if done, err := writeStructured(report, format, writer); done {
		return err
	}
	if format != domain.OutputFormatText {
		return domain.NewUnsupportedFormatError(string(format))
	}

	w := writer
	s := newTextStyles(w)

	fmt.Fprintln(w, s.title.Render("Architecture Report"))
	if report.Folder != "" {
		fmt.Fprintf(w, "Folder: %s\n", report.Folder)
	}
	fmt.Fprintln(w)

	width := 0
	for _, c := range report.Classes {
		if n := lipgloss.Width(string(c.Class)); n > width {
			width = n
		}
	}
	fmt.Fprintln(w, s.heading.Render(fmt.Sprintf("Classes (%d):", len(report.Classes))))
	for _, c := range report.Classes {
		pad := strings.Repeat(" ", width-lipgloss.Width(string(c.Class)))
		fmt.Fprintf(w, "  %s%s  %s\n", c.Class, pad, s.tag.Render(c.Tag))
	}
	fmt.Fprintln(w)

	cat := report.Categories
	fmt.Fprintln(w, s.heading.Render("Categories:"))
	for _, row := range []struct {
		label string
		ids   []domain.NodeID
	}{
		{"Aggregate roots", cat.AggregateRoots},
		{"Entities", cat.Entities},
		{"Value objects", cat.ValueObjects},
		{"Factories", cat.Factories},
		{"Repositories", cat.Repositories},
		{"Services", cat.Services},
		{"Interfaces", cat.Interfaces},
		{"Exceptions", cat.Exceptions},
		{"Uncategorized", cat.Uncategorized},
	} {
		fmt.Fprintf(w, "  %-16s %d\n", row.label+":", len(row.ids))
	}
	fmt.Fprintln(w)

	if len(report.Forbidden) == 0 {
		fmt.Fprintln(w, s.ok.Render("No forbidden relations"))
		return nil
	}
	fmt.Fprintln(w, s.heading.Render(fmt.Sprintf("Forbidden relations (%d):", len(report.Forbidden))))
	for _, d := range report.Forbidden {
		fmt.Fprintf(w, "  %s %s\n", s.fail.Render("x"), d)
	}
	return nil
}

// WriteGraph writes the reduced graph in the specified format
func (f *OutputFormatterImpl) WriteGraph(resp *domain.ArchitectureResponse, format domain.OutputFormat, writer io.Writer) error {
	if resp == nil {
		return domain.NewOutputError("nil graph", nil)
	}

	graph := struct {
		RunID     string                `json:"run_id" yaml:"run_id"`
		Nodes     []domain.Node         `json:"nodes" yaml:"nodes"`
		Relations []domain.RelationView `json:"relations" yaml:"relations"`
	}{resp.RunID, resp.Nodes, resp.Relations}

	if done, err := writeStructured(graph, format, writer); done {
		return err
	}

	switch format {
	case domain.OutputFormatDOT:
		return f.dot.WriteGraph(resp, writer)
	case domain.OutputFormatText:
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}

	w := writer
	s := newTextStyles(w)
	fmt.Fprintln(w, s.heading.Render(fmt.Sprintf("Nodes (%d):", len(resp.Nodes))))
	for _, n := range resp.Nodes {
		fmt.Fprintf(w, "  %s\n", n.ID)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, s.heading.Render(fmt.Sprintf("Relations (%d):", len(resp.Relations))))
	for _, rel := range resp.Relations {
		line := fmt.Sprintf("%s -[%s]-> %s", rel.From, rel.Edge, rel.To)
		if rel.Forbidden {
			line = s.fail.Render(line + " (forbidden)")
		} else if !f.showDetails {
			continue
		}
		fmt.Fprintf(w, "  %s\n", line)
	}
	return nil
}
