package enrich

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/domainlens/domainlens/pkg/model"
)

func TestEnrichPrompt_EmptySymbolDeclines(t *testing.T) {
	prompt := enrichPrompt(model.SemanticNode{})
	assert.Empty(t, prompt)
}

func TestEnrichPrompt_NamesSymbolAndEnclosing(t *testing.T) {
	node := model.SemanticNode{Symbol: "status", Enclosing: "Order.ship"}
	prompt := enrichPrompt(node)
	assert.Contains(t, prompt, "status")
	assert.Contains(t, prompt, "Order.ship")
}

func TestParseTypeGuess_RejectsMultiWordResponse(t *testing.T) {
	_, ok := parseTypeGuess("I think it is a string")
	assert.False(t, ok)
}

func TestParseTypeGuess_RejectsEmptyResponse(t *testing.T) {
	_, ok := parseTypeGuess("   \n  ")
	assert.False(t, ok)
}

func TestParseTypeGuess_AcceptsBareTypeName(t *testing.T) {
	guess, ok := parseTypeGuess("  `OrderStatus`\n")
	assert.True(t, ok)
	assert.Equal(t, "OrderStatus", guess)
}

// fakeProvider exercises the Provider interface contract independent of any
// network client.
type fakeProvider struct{ guess string }

func (f fakeProvider) Enrich(ctx context.Context, node model.SemanticNode) (string, bool) {
	if f.guess == "" {
		return "", false
	}
	return f.guess, true
}

func TestProvider_ContractAllowsDecline(t *testing.T) {
	var p Provider = fakeProvider{}
	guess, ok := p.Enrich(context.Background(), model.SemanticNode{})
	assert.False(t, ok)
	assert.Empty(t, guess)

	p = fakeProvider{guess: "number"}
	guess, ok = p.Enrich(context.Background(), model.SemanticNode{})
	assert.True(t, ok)
	assert.Equal(t, "number", guess)
}
