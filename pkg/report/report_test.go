package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domainlens/domainlens/pkg/model"
)

func TestGenerate_IsPlainAssembly(t *testing.T) {
	entities := []model.DomainEntity{{Name: "Order"}}
	relations := []model.DomainRelation{{Type: model.RelCalls, From: "Order.ship", To: "Order.validate"}}
	rules := []model.BusinessRule{{ID: "STATE_TRANSITION:order.ts:10", Type: model.RuleStateTransition, Entity: "Order"}}
	violations := []model.ArchitecturalViolation{{ID: "ANEMIC_ENTITY:Cart", Type: model.ViolationAnemicEntity}}
	impact := &model.ImpactSimulationResult{RiskScore: 0.9}

	rep := Generate(entities, relations, rules, violations, impact)

	assert.Equal(t, entities, rep.Entities)
	assert.Equal(t, relations, rep.Relations)
	assert.Equal(t, rules, rep.Rules)
	assert.Equal(t, violations, rep.ArchitecturalViolations)
	assert.Same(t, impact, rep.Impact)
}

func TestGenerate_NilImpactIsPreserved(t *testing.T) {
	rep := Generate(nil, nil, nil, nil, nil)
	assert.Nil(t, rep.Impact)
	assert.Empty(t, rep.Entities)
}

func TestToD3Graph_OneNodePerEntityAndRule(t *testing.T) {
	rep := &model.TechnicalReport{
		Entities: []model.DomainEntity{{Name: "Order", File: "order.ts"}},
		Rules: []model.BusinessRule{
			{ID: "STATE_TRANSITION:order.ts:10", Type: model.RuleStateTransition, Entity: "Order", Method: "ship", FilePath: "order.ts", Confidence: 0.9},
		},
		Relations: []model.DomainRelation{
			{Type: model.RelCalls, From: "Order.ship", To: "Order.validate"},
		},
	}

	g := ToD3Graph(rep)

	require.Len(t, g.Nodes, 2)
	require.Len(t, g.Links, 2)

	var entityNode, ruleNode *D3Node
	for i := range g.Nodes {
		switch g.Nodes[i].Kind {
		case "ENTITY":
			entityNode = &g.Nodes[i]
		case string(model.RuleStateTransition):
			ruleNode = &g.Nodes[i]
		}
	}
	require.NotNil(t, entityNode)
	require.NotNil(t, ruleNode)
	assert.Equal(t, "Order", entityNode.ID)
	assert.Equal(t, "Order.ship", ruleNode.Name)

	var governs, calls *D3Link
	for i := range g.Links {
		switch g.Links[i].Type {
		case "GOVERNS":
			governs = &g.Links[i]
		case string(model.RelCalls):
			calls = &g.Links[i]
		}
	}
	require.NotNil(t, governs)
	require.NotNil(t, calls)
	assert.Equal(t, "Order", governs.Target)
	assert.Equal(t, "Order.ship", calls.Source)
}

func TestToD3Graph_CarriesRiskFromImpact(t *testing.T) {
	rep := &model.TechnicalReport{
		Entities: []model.DomainEntity{{Name: "Order"}},
		Impact: &model.ImpactSimulationResult{
			Impacted: []model.ImpactNode{{ID: "Order", Kind: model.ImpactEntity, Risk: 0.75}},
		},
	}

	g := ToD3Graph(rep)

	require.Len(t, g.Nodes, 1)
	assert.Equal(t, 0.75, g.Nodes[0].Risk)
}

func TestToD3Graph_EmptyReportYieldsEmptyGraph(t *testing.T) {
	g := ToD3Graph(&model.TechnicalReport{})
	assert.Empty(t, g.Nodes)
	assert.Empty(t, g.Links)
}
