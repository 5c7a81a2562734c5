package engine

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the Prometheus collectors scraped by the out-of-scope HTTP
// transport's /metrics endpoint. Every Engine owns its own Metrics instance,
// registered against its own Registry, so concurrent Engines in the same
// process never collide on collector registration.
type Metrics struct {
	Registry *prometheus.Registry

	stageDuration  *prometheus.HistogramVec
	rulesExtracted *prometheus.CounterVec
	violations     *prometheus.CounterVec
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
}

func newMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "domainlens",
			Name:      "stage_duration_seconds",
			Help:      "Wall-clock duration of one pipeline stage.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		rulesExtracted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "domainlens",
			Name:      "rules_extracted_total",
			Help:      "Business rules extracted, by rule type.",
		}, []string{"rule_type"}),
		violations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "domainlens",
			Name:      "architectural_violations_total",
			Help:      "Architectural violations detected, by violation type.",
		}, []string{"violation_type"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "domainlens",
			Name:      "parse_cache_hits_total",
			Help:      "Project-root parse cache hits.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "domainlens",
			Name:      "parse_cache_misses_total",
			Help:      "Project-root parse cache misses.",
		}),
	}

	reg.MustRegister(m.stageDuration, m.rulesExtracted, m.violations, m.cacheHits, m.cacheMisses)
	return m
}

func (m *Metrics) observeStage(stage string, seconds float64) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(seconds)
}

func (m *Metrics) observeRules(counts map[string]int) {
	if m == nil {
		return
	}
	for ruleType, n := range counts {
		m.rulesExtracted.WithLabelValues(ruleType).Add(float64(n))
	}
}

func (m *Metrics) observeViolations(counts map[string]int) {
	if m == nil {
		return
	}
	for violationType, n := range counts {
		m.violations.WithLabelValues(violationType).Add(float64(n))
	}
}

func (m *Metrics) observeCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
		return
	}
	m.cacheMisses.Inc()
}
