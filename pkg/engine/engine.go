// Package engine wires the seven pipeline stages into the two operations
// named by the external interface: Analyze and SimulateRuleImpact. It holds
// no package-level mutable state; each Engine owns its own cache, metrics
// registry, and logger. Parsed files are kept in the Engine's per-root LRU
// cache, so calls against the same project root share one parsed set.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/google/uuid"

	"github.com/domainlens/domainlens/pkg/architecture"
	"github.com/domainlens/domainlens/pkg/domain"
	"github.com/domainlens/domainlens/pkg/enrich"
	"github.com/domainlens/domainlens/pkg/impact"
	"github.com/domainlens/domainlens/pkg/model"
	"github.com/domainlens/domainlens/pkg/report"
	"github.com/domainlens/domainlens/pkg/rules"
	"github.com/domainlens/domainlens/pkg/semantic"
	"github.com/domainlens/domainlens/pkg/source"
)

// defaultCacheSize bounds the number of distinct project roots whose parsed
// files are kept warm at once.
const defaultCacheSize = 16

// Engine runs the deterministic analysis pipeline against a project root.
type Engine struct {
	logger   *slog.Logger
	metrics  *Metrics
	provider source.RepoProvider
	cache    *lru.Cache[string, *source.SourceSet]
	enricher enrich.Provider
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithLogger overrides the default slog.Logger (slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithRepoProvider overrides the default local-path RepoProvider, letting an
// embedder hand the engine a URL or archive resolver.
func WithRepoProvider(p source.RepoProvider) Option {
	return func(e *Engine) { e.provider = p }
}

// WithCacheSize overrides the number of project roots cached at once.
func WithCacheSize(n int) Option {
	return func(e *Engine) {
		cache, _ := lru.New[string, *source.SourceSet](n)
		e.cache = cache
	}
}

// WithEnrichProvider attaches a remote type-guessing provider. When set, it
// runs as a best-effort fallback after the deterministic fuzzy resolver for
// Call nodes that still have no Type: a miss or a disabled provider never
// aborts the pipeline, it just leaves the field unset.
func WithEnrichProvider(p enrich.Provider) Option {
	return func(e *Engine) { e.enricher = p }
}

// New builds an Engine ready to serve Analyze and SimulateRuleImpact calls.
func New(opts ...Option) *Engine {
	cache, _ := lru.New[string, *source.SourceSet](defaultCacheSize)
	e := &Engine{
		logger:   slog.Default(),
		metrics:  newMetrics(),
		provider: source.LocalProvider{},
		cache:    cache,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Metrics exposes the Engine's Prometheus registry for an embedding HTTP
// transport's /metrics endpoint.
func (e *Engine) Metrics() *Metrics { return e.metrics }

// ProgressFunc receives one notification per pipeline stage as it completes.
// It is invoked synchronously on the calling goroutine between stages, so it
// must not block for long.
type ProgressFunc func(stage string, elapsed time.Duration)

type progressKey struct{}

// WithProgress attaches fn to ctx so that the Analyze or SimulateRuleImpact
// call carrying ctx reports per-stage completion to fn. An embedder with no
// use for progress events (the common case) simply never calls this.
func WithProgress(ctx context.Context, fn ProgressFunc) context.Context {
	return context.WithValue(ctx, progressKey{}, fn)
}

func progressFrom(ctx context.Context) ProgressFunc {
	fn, _ := ctx.Value(progressKey{}).(ProgressFunc)
	return fn
}

// pipelineResult carries every intermediate stage output one Analyze or
// SimulateRuleImpact call needs, so both operations can share one
// ingest-through-rules run.
type pipelineResult struct {
	sourceSet *source.SourceSet
	semantic  *semantic.Result
	domain    *domain.Model
	rules     []model.BusinessRule
}

// Analyze runs the full pipeline over projectPath and returns the assembled
// report. When at least one business rule was extracted, the report's
// Impact field is seeded with the blast radius of the first rule in
// deterministic (file path, span) order.
func (e *Engine) Analyze(ctx context.Context, projectPath string) (*model.TechnicalReport, error) {
	runID := uuid.NewString()
	logger := e.logger.With("run_id", runID, "op", "analyze", "project", projectPath)
	start := time.Now()
	logger.Info("analyze started")

	pr, err := e.runToRules(ctx, logger, projectPath)
	if err != nil {
		return nil, err
	}

	violations := stageRun(ctx, e, "architecture", func() []model.ArchitecturalViolation {
		return architecture.Analyze(pr.domain.Entities, pr.domain.Relations, pr.rules)
	})
	e.metrics.observeViolations(countByString(violationTypeStrings(violations)))

	var seeded *model.ImpactSimulationResult
	if len(pr.rules) > 0 {
		seeded, err = stageRunErr(ctx, e, "impact", func() (*model.ImpactSimulationResult, error) {
			return impact.Simulate(pr.rules[0].ID, pr.domain.Entities, pr.rules, pr.domain.Relations)
		})
		if err != nil {
			logger.Warn("seeded impact simulation failed", "error", err)
			seeded = nil
		}
	}

	rep := stageRun(ctx, e, "report", func() *model.TechnicalReport {
		return report.Generate(pr.domain.Entities, pr.domain.Relations, pr.rules, violations, seeded)
	})

	logger.Info("analyze finished", "duration", time.Since(start), "entities", len(rep.Entities), "rules", len(rep.Rules), "violations", len(rep.ArchitecturalViolations))
	return rep, nil
}

// SimulateRuleImpact runs the pipeline through the business rule engine and
// computes the blast radius for one named rule.
func (e *Engine) SimulateRuleImpact(ctx context.Context, projectPath, ruleID string) (*model.ImpactSimulationResult, error) {
	runID := uuid.NewString()
	logger := e.logger.With("run_id", runID, "op", "simulate_impact", "project", projectPath, "rule_id", ruleID)
	start := time.Now()
	logger.Info("impact simulation started")

	pr, err := e.runToRules(ctx, logger, projectPath)
	if err != nil {
		return nil, err
	}

	result, err := stageRunErr(ctx, e, "impact", func() (*model.ImpactSimulationResult, error) {
		return impact.Simulate(ruleID, pr.domain.Entities, pr.rules, pr.domain.Relations)
	})
	if err != nil {
		logger.Warn("impact simulation failed", "error", err)
		return nil, err
	}

	logger.Info("impact simulation finished", "duration", time.Since(start), "risk_score", result.RiskScore, "impacted", len(result.Impacted))
	return result, nil
}

// runToRules resolves the project root, parses it (reusing the per-root
// cache), and runs the semantic, domain, and rule stages.
func (e *Engine) runToRules(ctx context.Context, logger *slog.Logger, projectPath string) (*pipelineResult, error) {
	root, cleanup, err := e.provider.Resolve(projectPath)
	if err != nil {
		return nil, fmt.Errorf("resolving project path: %w", err)
	}
	defer cleanup()

	sourceSet, err := e.parseWithCache(ctx, logger, root)
	if err != nil {
		return nil, err
	}
	for _, skipped := range sourceSet.Skipped {
		logger.Warn("skipped unparseable file", "file", skipped.FilePath, "error", skipped.Err)
	}

	sem := stageRun(ctx, e, "semantic", func() *semantic.Result {
		res := semantic.Enrich(sourceSet.Files)
		semantic.ResolveSymbols(res)
		return res
	})
	logger.Debug("semantic enrichment complete", "nodes", len(sem.Nodes), "classes", len(sem.Classes))

	if e.enricher != nil {
		n := e.remoteEnrich(ctx, sem)
		logger.Debug("remote enrichment complete", "nodes_filled", n)
	}

	dom := stageRun(ctx, e, "domain", func() *domain.Model {
		return domain.Build(sem, sourceSet.Files)
	})

	extracted := stageRun(ctx, e, "rules", func() []model.BusinessRule {
		return rules.Extract(sem, sourceSet.Files, dom.Entities)
	})
	e.metrics.observeRules(countByString(ruleTypeStrings(extracted)))

	return &pipelineResult{sourceSet: sourceSet, semantic: sem, domain: dom, rules: extracted}, nil
}

// remoteEnrich asks e.enricher to guess the Type of every Call node the
// deterministic resolver left unset. It never returns an error: a provider
// failure or decline just leaves the node as it was.
func (e *Engine) remoteEnrich(ctx context.Context, sem *semantic.Result) int {
	filled := 0
	for i := range sem.Nodes {
		n := &sem.Nodes[i]
		if n.Kind != model.KindCall || n.Type != "" {
			continue
		}
		guess, ok := e.enricher.Enrich(ctx, *n)
		if !ok {
			continue
		}
		n.Type = guess
		filled++
	}
	return filled
}

func (e *Engine) parseWithCache(ctx context.Context, logger *slog.Logger, root string) (*source.SourceSet, error) {
	if cached, ok := e.cache.Get(root); ok {
		e.metrics.observeCache(true)
		logger.Debug("parse cache hit", "root", root)
		return cached, nil
	}
	e.metrics.observeCache(false)

	set, err := stageRunErr(ctx, e, "parse", func() (*source.SourceSet, error) {
		return source.Parse(root)
	})
	if err != nil {
		return nil, err
	}
	e.cache.Add(root, set)
	return set, nil
}

// stageRun runs fn, recording its wall-clock duration against the named
// stage and, when ctx carries a ProgressFunc, reporting completion to it.
func stageRun[T any](ctx context.Context, e *Engine, name string, fn func() T) T {
	start := time.Now()
	result := fn()
	elapsed := time.Since(start)
	e.metrics.observeStage(name, elapsed.Seconds())
	if progress := progressFrom(ctx); progress != nil {
		progress(name, elapsed)
	}
	return result
}

func stageRunErr[T any](ctx context.Context, e *Engine, name string, fn func() (T, error)) (T, error) {
	start := time.Now()
	result, err := fn()
	elapsed := time.Since(start)
	e.metrics.observeStage(name, elapsed.Seconds())
	if err == nil {
		if progress := progressFrom(ctx); progress != nil {
			progress(name, elapsed)
		}
	}
	return result, err
}
