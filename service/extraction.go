package service

import (
	"context"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/attribute"

	"github.com/ludo-technologies/dddscan/domain"
	"github.com/ludo-technologies/dddscan/internal/analyzer"
	"github.com/ludo-technologies/dddscan/internal/cache"
	"github.com/ludo-technologies/dddscan/internal/parser"
	"github.com/ludo-technologies/dddscan/internal/telemetry"
)

// extractionResult is what one file contributes to the folder graph
type extractionResult struct {
	item     *domain.SourceItem
	cacheHit bool
}

// extractionTask parses one file into a source item. Each task owns its
// parser and writes only its own result slot.
type extractionTask struct {
	file    string
	cache   *cache.ItemCache
	logger  *slog.Logger
	metrics *telemetry.Metrics
	result  *extractionResult
}

func (t *extractionTask) Name() string    { return t.file }
func (t *extractionTask) IsEnabled() bool { return true }

// Execute implements domain.ExecutableTask
func (t *extractionTask) Execute(ctx context.Context) (res interface{}, err error) {
	ctx, span := telemetry.StartSpan(ctx, "service.extractionTask.Execute", attribute.String("file", t.file))
	defer func() { telemetry.EndSpan(span, err) }()

	content, err := os.ReadFile(t.file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.NewFileNotFoundError(t.file, err)
		}
		return nil, domain.NewAnalysisError("failed to read "+t.file, err)
	}

	if t.cache != nil {
		entry, found, err := t.cache.Get(ctx, content)
		if err != nil {
			t.logger.Warn("cache lookup failed", slog.String("file", t.file), slog.String("error", err.Error()))
		} else if found {
			t.metrics.CacheHits.Inc()
			span.SetAttributes(attribute.Bool("cache_hit", true))
			t.store(restoreFile(entry.Item, t.file), true)
			return t.result, nil
		}
		t.metrics.CacheMisses.Inc()
	}

	item, err := extractFile(ctx, t.file, content)
	if err != nil {
		return nil, err
	}

	if t.cache != nil {
		if err := t.cache.Put(ctx, content, cache.Entry{Item: item}); err != nil {
			t.logger.Warn("cache write failed", slog.String("file", t.file), slog.String("error", err.Error()))
		}
	}

	t.store(item, false)
	return t.result, nil
}

func (t *extractionTask) store(item *domain.SourceItem, hit bool) {
	t.result.item = item
	t.result.cacheHit = hit
	if item == nil {
		t.metrics.FilesSkipped.Inc()
		t.logger.Debug("no class-like declaration", slog.String("file", t.file))
		return
	}
	t.metrics.FilesAnalyzed.Inc()
	t.logger.Debug("extracted", slog.String("file", t.file), slog.String("class", item.FQN.String()), slog.Bool("cache_hit", hit))
}

// extractFile parses content and builds its source item
func extractFile(ctx context.Context, file string, content []byte) (*domain.SourceItem, error) {
	p := parser.NewParser()
	defer p.Close()

	ast, err := p.ParseFileContext(ctx, file, content)
	if err != nil {
		return nil, domain.NewParseError(file, err)
	}
	return analyzer.ExtractSourceItem(ast, file)
}

// restoreFile points a cached item at the file it was found in this run;
// identical content may live under several paths.
func restoreFile(item *domain.SourceItem, file string) *domain.SourceItem {
	if item == nil || item.File == file {
		return item
	}
	copied := *item
	copied.File = file
	return &copied
}
