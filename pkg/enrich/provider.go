// Package enrich implements the optional LLM enrichment collaborator named
// in the external interface: a narrow Provider the engine may run after the
// semantic enricher to backfill a missing static type guess for one node. Enrichment
// is always additive — a miss is never an error and never blocks the
// deterministic core.
package enrich

import (
	"context"

	"github.com/domainlens/domainlens/pkg/model"
)

// Provider guesses a static type for a SemanticNode whose type could not be
// resolved statically. ok is false when the provider declines or fails;
// callers must treat that exactly like any other semantic lookup gap.
type Provider interface {
	Enrich(ctx context.Context, node model.SemanticNode) (typeGuess string, ok bool)
}
