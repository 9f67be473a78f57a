package runner

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/goxmlint/internal/logging"
	"github.com/yaklabco/goxmlint/pkg/cache"
	"github.com/yaklabco/goxmlint/pkg/config"
	"github.com/yaklabco/goxmlint/pkg/fsutil"
	"github.com/yaklabco/goxmlint/pkg/lint"
)

// EngineFor selects the analysis engine for a file, or nil when no parser
// handles it.
type EngineFor func(path string) *lint.Engine

// Pipeline performs the per-file work of a run: read, cache lookup, parse
// and evaluate, cache store. One Pipeline is shared by all workers; the
// cache is the only mutable state and access to it is guarded here.
type Pipeline struct {
	engineFor EngineFor
	cfg       *config.Config
	logger    *log.Logger

	mu    sync.Mutex
	cache *cache.Cache
}

// NewPipeline creates a pipeline that dispatches files through engineFor.
func NewPipeline(engineFor EngineFor, cfg *config.Config) *Pipeline {
	return &Pipeline{
		engineFor: engineFor,
		cfg:       cfg,
		logger:    logging.Default(),
	}
}

// WithCache attaches a result cache. Cache hits skip parsing entirely; the
// stored diagnostics stand in for a fresh evaluation.
func (p *Pipeline) WithCache(c *cache.Cache) *Pipeline {
	p.cache = c
	return p
}

// WithLogger sets the logger used for per-file progress.
func (p *Pipeline) WithLogger(logger *log.Logger) *Pipeline {
	p.logger = logger
	return p
}

// ProcessFile analyzes a single file. Failures are recorded on the outcome,
// never returned: one bad file must not abort the batch.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) FileOutcome {
	outcome := FileOutcome{Path: path}

	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		outcome.Error = err
		return outcome
	}

	if p.cache != nil {
		p.mu.Lock()
		diags, hit := p.cache.Get(path, content)
		p.mu.Unlock()
		if hit {
			outcome.CacheHit = true
			outcome.Result = &lint.FileResult{Diagnostics: diags}
			return outcome
		}
	}

	engine := p.engineFor(path)
	if engine == nil {
		outcome.Skipped = true
		return outcome
	}

	result, err := engine.AnalyzeFile(ctx, path, content, p.cfg)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.Result = result

	if p.cache != nil {
		p.mu.Lock()
		p.cache.Put(path, content, result.Diagnostics)
		p.mu.Unlock()
	}

	p.logger.Debug("analyzed file",
		logging.FieldPath, path,
		logging.FieldDiagnosticsTotal, len(result.Diagnostics))

	return outcome
}
