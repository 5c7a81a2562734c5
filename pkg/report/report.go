// Package report implements the report generator stage: a pure projection
// of the earlier stages' outputs into the final TechnicalReport value plus a
// D3-compatible graph projection for visualization embedders.
package report

import "github.com/domainlens/domainlens/pkg/model"

// Generate assembles the final report. impact may be nil when no rule was
// available to seed a simulation.
func Generate(entities []model.DomainEntity, relations []model.DomainRelation, rules []model.BusinessRule, violations []model.ArchitecturalViolation, impact *model.ImpactSimulationResult) *model.TechnicalReport {
	return &model.TechnicalReport{
		Entities:                entities,
		Relations:               relations,
		Rules:                   rules,
		Impact:                  impact,
		ArchitecturalViolations: violations,
	}
}
