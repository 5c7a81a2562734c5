package architecture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domainlens/domainlens/pkg/model"
)

func TestAnalyze_ScatteredRuleAcrossThreeFiles(t *testing.T) {
	rules := []model.BusinessRule{
		{ID: "POLICY:a.ts:1", Type: model.RulePolicy, Entity: "Invoice", FilePath: "a.ts"},
		{ID: "POLICY:b.ts:1", Type: model.RulePolicy, Entity: "Invoice", FilePath: "b.ts"},
		{ID: "POLICY:c.ts:1", Type: model.RulePolicy, Entity: "Invoice", FilePath: "c.ts"},
	}

	violations := Analyze(nil, nil, rules)

	require.Len(t, violations, 1)
	assert.Equal(t, model.ViolationScatteredRule, violations[0].Type)
	assert.ElementsMatch(t, []string{"a.ts", "b.ts", "c.ts"}, violations[0].RelatedIDs)
}

func TestAnalyze_AnemicEntityWithoutModifier(t *testing.T) {
	entities := []model.DomainEntity{
		{Name: "Cart", StateFields: []string{"items"}, File: "cart.ts"},
	}

	violations := Analyze(entities, nil, nil)

	require.Len(t, violations, 1)
	assert.Equal(t, model.ViolationAnemicEntity, violations[0].Type)
	assert.Equal(t, "ANEMIC_ENTITY:Cart", violations[0].ID)
}

func TestAnalyze_AnemicEntitySuppressedByModifier(t *testing.T) {
	entities := []model.DomainEntity{
		{Name: "Order", StateFields: []string{"status"}, File: "order.ts"},
	}
	relations := []model.DomainRelation{
		{Type: model.RelModifies, From: "Order.ship", To: "Order.status"},
	}

	violations := Analyze(entities, relations, nil)

	for _, v := range violations {
		assert.NotEqual(t, model.ViolationAnemicEntity, v.Type)
	}
}

func TestAnalyze_FatServiceThreshold(t *testing.T) {
	methods := make([]string, 8)
	for i := range methods {
		methods[i] = "m"
	}
	entities := []model.DomainEntity{
		{Name: "PricingService", Methods: methods, File: "pricing_service.ts"},
	}

	violations := Analyze(entities, nil, nil)

	require.Len(t, violations, 1)
	assert.Equal(t, model.ViolationFatService, violations[0].Type)
}

func TestAnalyze_DomainCallingInfra(t *testing.T) {
	relations := []model.DomainRelation{
		{Type: model.RelCalls, From: "domain/Order.ship", To: "infra/PaymentGateway.charge"},
	}

	violations := Analyze(nil, relations, nil)

	require.Len(t, violations, 1)
	assert.Equal(t, model.ViolationDomainCallingInfra, violations[0].Type)
}

func TestAnalyze_LayerViolationOnDomainImportingInfra(t *testing.T) {
	relations := []model.DomainRelation{
		{Type: model.RelDependsOn, From: "src/domain/order.ts", To: "src/infra/db-client"},
	}

	violations := Analyze(nil, relations, nil)

	require.Len(t, violations, 1)
	assert.Equal(t, model.ViolationLayerViolation, violations[0].Type)
}
