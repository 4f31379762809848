package domain

// CheckResult represents the result of an architecture check
type CheckResult struct {
	RunID       string       `json:"run_id" yaml:"run_id"`
	Folder      string       `json:"folder" yaml:"folder"`
	Passed      bool         `json:"passed" yaml:"passed"`
	ExitCode    int          `json:"exit_code" yaml:"exit_code"`
	Violations  []Violation  `json:"violations" yaml:"violations"`
	Summary     CheckSummary `json:"summary" yaml:"summary"`
	Duration    int64        `json:"duration_ms" yaml:"duration_ms"`
	GeneratedAt string       `json:"generated_at" yaml:"generated_at"`
	Version     string       `json:"version" yaml:"version"`
}

// CheckSummary provides aggregate statistics
type CheckSummary struct {
	FilesAnalyzed      int `json:"files_analyzed" yaml:"files_analyzed"`
	FilesSkipped       int `json:"files_skipped" yaml:"files_skipped"`
	ClassesAnalyzed    int `json:"classes_analyzed" yaml:"classes_analyzed"`
	Nodes              int `json:"nodes" yaml:"nodes"`
	Relations          int `json:"relations" yaml:"relations"`
	MissingTags        int `json:"missing_tags" yaml:"missing_tags"`
	ForbiddenRelations int `json:"forbidden_relations" yaml:"forbidden_relations"`
	TotalViolations    int `json:"total_violations" yaml:"total_violations"`
	CacheHits          int `json:"cache_hits" yaml:"cache_hits"`
}

// NewCheckResult summarizes an architecture response
func NewCheckResult(resp *ArchitectureResponse) *CheckResult {
	result := &CheckResult{
		RunID:       resp.RunID,
		Folder:      resp.Folder,
		Passed:      len(resp.Violations) == 0,
		Violations:  resp.Violations,
		Duration:    resp.Duration,
		GeneratedAt: resp.GeneratedAt,
		Version:     resp.Version,
		Summary: CheckSummary{
			FilesAnalyzed:   resp.FilesAnalyzed,
			FilesSkipped:    len(resp.SkippedFiles),
			ClassesAnalyzed: len(resp.Items),
			Nodes:           len(resp.Nodes),
			Relations:       len(resp.Relations),
			TotalViolations: len(resp.Violations),
			CacheHits:       resp.CacheHits,
		},
	}
	if result.Violations == nil {
		result.Violations = []Violation{}
	}
	for _, v := range resp.Violations {
		switch v.Kind {
		case ViolationMissingTag:
			result.Summary.MissingTags++
		case ViolationForbiddenRelation:
			result.Summary.ForbiddenRelations++
		}
	}
	if !result.Passed {
		result.ExitCode = 1
	}
	return result
}
