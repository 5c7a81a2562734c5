package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tsgrammar "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/domainlens/domainlens/pkg/model"
	"github.com/domainlens/domainlens/pkg/semantic"
)

func parseTS(t *testing.T, path, src string) model.ParsedFile {
	t.Helper()
	p := sitter.NewParser()
	p.SetLanguage(sitter.NewLanguage(tsgrammar.LanguageTypescript()))
	tree := p.Parse([]byte(src), nil)
	require.NotNil(t, tree)
	require.NotNil(t, tree.RootNode())
	return model.ParsedFile{Path: path, Source: []byte(src), Tree: tree}
}

func TestBuild_AnemicClassIsNotAnEntity(t *testing.T) {
	src := `
class Cart {
	items: string[];
	describe() {
		return this.items.join(", ");
	}
}
`
	files := []model.ParsedFile{parseTS(t, "cart.ts", src)}
	res := semantic.Enrich(files)

	m := Build(res, files)

	assert.Empty(t, m.Entities)
}

func TestBuild_StateTransitionQualifiesEntity(t *testing.T) {
	src := `
enum OrderStatus { PENDING, SHIPPED, CANCELLED }

class Order {
	status: OrderStatus;
	ship() {
		this.status = OrderStatus.SHIPPED;
	}
}
`
	files := []model.ParsedFile{parseTS(t, "order.ts", src)}
	res := semantic.Enrich(files)

	m := Build(res, files)

	require.Len(t, m.Entities, 1)
	assert.Equal(t, "Order", m.Entities[0].Name)
	assert.Equal(t, []string{"status"}, m.Entities[0].StateFields)

	found := false
	for _, r := range m.Relations {
		if r.Type == model.RelModifies && r.From == "Order.ship" && r.To == "Order.status" {
			found = true
		}
	}
	assert.True(t, found, "expected a MODIFIES relation from Order.ship to Order.status")
}

func TestBuild_ConditionalAssignmentQualifiesEntity(t *testing.T) {
	src := `
class Order {
	status: string;
	cancel() {
		if (this.status === "SHIPPED") {
			throw new Error("cannot cancel a shipped order");
		}
		this.status = "CANCELLED";
	}
}
`
	files := []model.ParsedFile{parseTS(t, "order.ts", src)}
	res := semantic.Enrich(files)

	m := Build(res, files)

	require.Len(t, m.Entities, 1)
	assert.Equal(t, "Order", m.Entities[0].Name)
}

func TestHasTechnicalSuffix(t *testing.T) {
	assert.True(t, HasTechnicalSuffix("OrderController"))
	assert.True(t, HasTechnicalSuffix("PricingService"))
	assert.False(t, HasTechnicalSuffix("Order"))
}
