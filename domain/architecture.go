package domain

import (
	"context"
	"io"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatDOT  OutputFormat = "dot"
)

// ParseOutputFormat validates a format name
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(s); f {
	case OutputFormatText, OutputFormatJSON, OutputFormatYAML, OutputFormatDOT:
		return f, nil
	}
	return "", NewUnsupportedFormatError(s)
}

// IgnoreRules filter graph identities out of reductions
type IgnoreRules struct {
	Names      []string `json:"names" yaml:"names"`
	Prefixes   []string `json:"prefixes" yaml:"prefixes"`
	Substrings []string `json:"substrings" yaml:"substrings"`
}

// ArchitectureRequest describes one architecture analysis over a set of paths
type ArchitectureRequest struct {
	Paths []string

	// Files, when set, skips enumeration and analyzes exactly these files
	Files []string

	Recursive        bool
	IncludePatterns  []string
	ExcludePatterns  []string
	RespectGitignore bool

	// Graph rules used for the check
	StandardNames []string
	Edges         []Edge
	Ignore        IgnoreRules

	// Role sources
	AttributeClasses map[Role]string
	RoleMappings     map[string][]Role

	UseCache bool
}

// ArchitectureResponse carries the reduced graph and the violations found
type ArchitectureResponse struct {
	RunID         string         `json:"run_id" yaml:"run_id"`
	Folder        string         `json:"folder" yaml:"folder"`
	FilesAnalyzed int            `json:"files_analyzed" yaml:"files_analyzed"`
	SkippedFiles  []string       `json:"skipped_files,omitempty" yaml:"skipped_files,omitempty"`
	CacheHits     int            `json:"cache_hits" yaml:"cache_hits"`
	Items         []SourceItem   `json:"items" yaml:"items"`
	Nodes         []Node         `json:"nodes" yaml:"nodes"`
	Relations     []RelationView `json:"relations" yaml:"relations"`
	Violations    []Violation    `json:"violations" yaml:"violations"`
	Duration      int64          `json:"duration_ms" yaml:"duration_ms"`
	GeneratedAt   string         `json:"generated_at" yaml:"generated_at"`
	Version       string         `json:"version" yaml:"version"`
}

// ArchitectureService runs the extraction, graph and rule pipeline
type ArchitectureService interface {
	Analyze(ctx context.Context, req ArchitectureRequest) (*ArchitectureResponse, error)
	Report(ctx context.Context, req ArchitectureRequest) (*ArchitectureReport, error)
}

// Report category tags
const (
	TagInterface     = "interface"
	TagException     = "exception"
	TagUncategorized = "uncategorized"
	TagAmbiguous     = "ambiguous"
)

// ClassTag pairs a graph node with its report tag
type ClassTag struct {
	Class NodeID `json:"class" yaml:"class"`
	Tag   string `json:"tag" yaml:"tag"`
}

// ReportCategories groups classes by architectural category
type ReportCategories struct {
	AggregateRoots []NodeID `json:"aggregate_roots" yaml:"aggregate_roots"`
	Entities       []NodeID `json:"entities" yaml:"entities"`
	Factories      []NodeID `json:"factories" yaml:"factories"`
	Repositories   []NodeID `json:"repositories" yaml:"repositories"`
	Services       []NodeID `json:"services" yaml:"services"`
	ValueObjects   []NodeID `json:"value_objects" yaml:"value_objects"`
	Interfaces     []NodeID `json:"interfaces" yaml:"interfaces"`
	Exceptions     []NodeID `json:"exceptions" yaml:"exceptions"`
	Uncategorized  []NodeID `json:"uncategorized" yaml:"uncategorized"`
}

// ArchitectureReport is the categorization of every node of a folder
type ArchitectureReport struct {
	RunID       string           `json:"run_id" yaml:"run_id"`
	Folder      string           `json:"folder" yaml:"folder"`
	Classes     []ClassTag       `json:"classes" yaml:"classes"`
	Categories  ReportCategories `json:"categories" yaml:"categories"`
	Forbidden   []string         `json:"forbidden" yaml:"forbidden"`
	GeneratedAt string           `json:"generated_at" yaml:"generated_at"`
	Version     string           `json:"version" yaml:"version"`
}

// OutputFormatter renders results
type OutputFormatter interface {
	WriteCheck(result *CheckResult, format OutputFormat, writer io.Writer) error
	WriteReport(report *ArchitectureReport, format OutputFormat, writer io.Writer) error
	WriteGraph(resp *ArchitectureResponse, format OutputFormat, writer io.Writer) error
}

// ProgressManager manages progress reporting for long-running analyses
type ProgressManager interface {
	StartTask(description string, total int) TaskProgress
	IsInteractive() bool
	Close()
}

// TaskProgress reports progress of a single task
type TaskProgress interface {
	Increment(n int)
	Describe(description string)
	Complete()
}

// ExecutableTask is a unit of work for the parallel executor
type ExecutableTask interface {
	Name() string
	Execute(ctx context.Context) (interface{}, error)
	IsEnabled() bool
}

// ParallelExecutor runs tasks concurrently
type ParallelExecutor interface {
	Execute(ctx context.Context, tasks []ExecutableTask) error
}
