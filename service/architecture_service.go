package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ludo-technologies/dddscan/domain"
	"github.com/ludo-technologies/dddscan/internal/analyzer"
	"github.com/ludo-technologies/dddscan/internal/cache"
	"github.com/ludo-technologies/dddscan/internal/config"
	"github.com/ludo-technologies/dddscan/internal/telemetry"
	"github.com/ludo-technologies/dddscan/internal/version"
)

// ArchitectureServiceImpl implements domain.ArchitectureService
type ArchitectureServiceImpl struct {
	progress    domain.ProgressManager
	performance *config.PerformanceConfig
	cache       *cache.ItemCache
	logger      *slog.Logger
	metrics     *telemetry.Metrics
}

// NewArchitectureService creates the extraction, graph and rule pipeline.
// A nil progress manager disables progress output.
func NewArchitectureService(progress domain.ProgressManager, performance *config.PerformanceConfig) *ArchitectureServiceImpl {
	if progress == nil {
		progress = &NoOpProgressManager{}
	}
	return &ArchitectureServiceImpl{
		progress:    progress,
		performance: performance,
		logger:      slog.Default(),
		metrics:     telemetry.NewMetrics(),
	}
}

// WithCache serves unchanged files from c
func (s *ArchitectureServiceImpl) WithCache(c *cache.ItemCache) *ArchitectureServiceImpl {
	s.cache = c
	return s
}

// WithLogger replaces the default logger
func (s *ArchitectureServiceImpl) WithLogger(logger *slog.Logger) *ArchitectureServiceImpl {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithMetrics records run counters on m
func (s *ArchitectureServiceImpl) WithMetrics(m *telemetry.Metrics) *ArchitectureServiceImpl {
	if m != nil {
		s.metrics = m
	}
	return s
}

// Metrics returns the counters the service records on
func (s *ArchitectureServiceImpl) Metrics() *telemetry.Metrics {
	return s.metrics
}

// folderGraph is the reduced graph of one run with its classifier
type folderGraph struct {
	runID      string
	folder     string
	items      []*domain.SourceItem
	skipped    []string
	cacheHits  int
	classes    []domain.NodeID
	nodes      []domain.Node
	relations  []domain.Relation
	classifier *analyzer.Classifier
}

// Analyze extracts every requested file, builds and reduces the folder graph
// and checks it. An ambiguous role tag aborts the run with an error.
func (s *ArchitectureServiceImpl) Analyze(ctx context.Context, req domain.ArchitectureRequest) (resp *domain.ArchitectureResponse, err error) {
	start := time.Now()
	ctx, span := telemetry.StartSpan(ctx, "service.ArchitectureService.Analyze", attribute.Int("files", len(req.Files)))
	defer func() {
		telemetry.EndSpan(span, err)
		s.recordRun(resp, err, time.Since(start))
	}()

	graph, err := s.buildGraph(ctx, req)
	if err != nil {
		return nil, err
	}

	violations, err := graph.classifier.CheckFolder(graph.classes, graph.relations)
	if err != nil {
		return nil, err
	}
	if violations == nil {
		violations = []domain.Violation{}
	}

	views, err := graph.classifier.Evaluate(graph.relations)
	if err != nil {
		return nil, err
	}

	items := make([]domain.SourceItem, len(graph.items))
	for i, item := range graph.items {
		items[i] = *item
	}

	s.metrics.RecordViolations(violations)
	span.SetAttributes(attribute.Int("violations", len(violations)), attribute.String("run_id", graph.runID))
	s.logger.Info("architecture check finished",
		slog.String("run_id", graph.runID),
		slog.Int("classes", len(graph.items)),
		slog.Int("relations", len(graph.relations)),
		slog.Int("violations", len(violations)),
	)

	return &domain.ArchitectureResponse{
		RunID:         graph.runID,
		Folder:        graph.folder,
		FilesAnalyzed: len(req.Files),
		SkippedFiles:  graph.skipped,
		CacheHits:     graph.cacheHits,
		Items:         items,
		Nodes:         graph.nodes,
		Relations:     views,
		Violations:    violations,
		Duration:      time.Since(start).Milliseconds(),
		GeneratedAt:   time.Now().Format(time.RFC3339),
		Version:       version.GetVersion(),
	}, nil
}

// Report categorizes every node of the reduced graph and lists its
// forbidden relations. Ambiguous classes are reported, not rejected.
func (s *ArchitectureServiceImpl) Report(ctx context.Context, req domain.ArchitectureRequest) (report *domain.ArchitectureReport, err error) {
	ctx, span := telemetry.StartSpan(ctx, "service.ArchitectureService.Report", attribute.Int("files", len(req.Files)))
	defer func() { telemetry.EndSpan(span, err) }()

	graph, err := s.buildGraph(ctx, req)
	if err != nil {
		return nil, err
	}

	classes, categories := graph.classifier.Categorize(graph.nodes)
	forbidden, err := graph.classifier.ForbiddenDescriptions(graph.relations)
	if err != nil {
		return nil, err
	}

	return &domain.ArchitectureReport{
		RunID:       graph.runID,
		Folder:      graph.folder,
		Classes:     classes,
		Categories:  categories,
		Forbidden:   forbidden,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Version:     version.GetVersion(),
	}, nil
}

func (s *ArchitectureServiceImpl) buildGraph(ctx context.Context, req domain.ArchitectureRequest) (*folderGraph, error) {
	runID := uuid.NewString()
	logger := s.logger.With(slog.String("run_id", runID))

	items, skipped, hits, err := s.extractAll(ctx, req.Files, logger)
	if err != nil {
		return nil, err
	}

	_, span := telemetry.StartSpan(ctx, "service.ArchitectureService.reduce", attribute.Int("items", len(items)))
	defer span.End()

	resolver := analyzer.NewTypeResolver(req.StandardNames)
	builder := analyzer.NewGraphBuilder(resolver)
	nodes := analyzer.ReduceNodes(builder.AllNodes(items), req.Ignore)
	relations := analyzer.ReduceRelations(builder.AllRelations(items), req.Ignore, req.Edges)

	index := analyzer.NewAttributeRoleIndex(items, resolver, req.AttributeClasses)
	roles := analyzer.CompositeRoleReader{index, analyzer.NewStaticRoleReader(req.RoleMappings)}
	classifier := analyzer.NewClassifier(roles, index, nil)

	filter := analyzer.NewIgnoreFilter(req.Ignore)
	seen := make(map[domain.NodeID]string, len(items))
	var classes []domain.NodeID
	for _, item := range items {
		if first, dup := seen[item.FQN]; dup {
			logger.Warn("class declared in several files",
				slog.String("class", item.FQN.String()),
				slog.String("file", item.File),
				slog.String("first", first),
			)
			continue
		}
		seen[item.FQN] = item.File
		if !filter.IgnoredTarget(item.FQN) {
			classes = append(classes, item.FQN)
		}
	}

	logger.Debug("graph reduced", slog.Int("nodes", len(nodes)), slog.Int("relations", len(relations)))

	return &folderGraph{
		runID:      runID,
		folder:     strings.Join(req.Paths, ", "),
		items:      items,
		skipped:    skipped,
		cacheHits:  hits,
		classes:    classes,
		nodes:      nodes,
		relations:  relations,
		classifier: classifier,
	}, nil
}

// extractAll runs one extraction task per file and merges the results in
// file order, so the graph does not depend on scheduling.
func (s *ArchitectureServiceImpl) extractAll(ctx context.Context, files []string, logger *slog.Logger) ([]*domain.SourceItem, []string, int, error) {
	tasks := make([]domain.ExecutableTask, len(files))
	results := make([]extractionResult, len(files))
	for i, file := range files {
		tasks[i] = &extractionTask{
			file:    file,
			cache:   s.cache,
			logger:  logger,
			metrics: s.metrics,
			result:  &results[i],
		}
	}

	executor := NewParallelExecutorWithProgress(s.performance, s.progress)
	executor.SetDescription("Extracting")
	if err := executor.Execute(ctx, tasks); err != nil {
		return nil, nil, 0, err
	}

	var items []*domain.SourceItem
	var skipped []string
	hits := 0
	for i, r := range results {
		if r.cacheHit {
			hits++
		}
		if r.item == nil {
			skipped = append(skipped, files[i])
			continue
		}
		items = append(items, r.item)
	}
	return items, skipped, hits, nil
}

func (s *ArchitectureServiceImpl) recordRun(resp *domain.ArchitectureResponse, err error, elapsed time.Duration) {
	status := "passed"
	switch {
	case err != nil:
		status = "error"
	case len(resp.Violations) > 0:
		status = "failed"
	}
	s.metrics.RecordRun(status, elapsed.Seconds())
}
