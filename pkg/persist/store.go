// Package persist declares the narrow persistence collaborator named in the
// external interface. The deterministic core never imports this package;
// an embedder wires a Store implementation in front of Engine.Analyze's
// result when it wants the report to survive past one process.
package persist

import (
	"context"

	"github.com/domainlens/domainlens/pkg/model"
)

// Store saves and loads a TechnicalReport keyed by an embedder-chosen
// project identifier. Implementations live in pkg/persist/kv,
// pkg/persist/relstore, and pkg/persist/graphstore.
type Store interface {
	Save(ctx context.Context, projectID string, report model.TechnicalReport) error
	Load(ctx context.Context, projectID string) (model.TechnicalReport, error)
}
