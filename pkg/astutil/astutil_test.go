package astutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tsgrammar "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

func parse(t *testing.T, src string) (*sitter.Node, []byte) {
	t.Helper()
	p := sitter.NewParser()
	p.SetLanguage(sitter.NewLanguage(tsgrammar.LanguageTypescript()))
	tree := p.Parse([]byte(src), nil)
	require.NotNil(t, tree)
	return tree.RootNode(), []byte(src)
}

func findKind(n *sitter.Node, kind string) *sitter.Node {
	if n.Kind() == kind {
		return n
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		if found := findKind(n.Child(i), kind); found != nil {
			return found
		}
	}
	return nil
}

func TestThisFieldAssignment_PlainAssign(t *testing.T) {
	root, source := parse(t, `class C { m() { this.status = "SHIPPED"; } }`)
	assign := findKind(root, "assignment_expression")
	require.NotNil(t, assign)

	field, op, ok := ThisFieldAssignment(assign, source)
	require.True(t, ok)
	assert.Equal(t, "status", field)
	assert.Equal(t, "=", op)
}

func TestThisFieldAssignment_CompoundAssign(t *testing.T) {
	root, source := parse(t, `class C { m() { this.balance += 5; } }`)
	assign := findKind(root, "augmented_assignment_expression")
	require.NotNil(t, assign)

	field, op, ok := ThisFieldAssignment(assign, source)
	require.True(t, ok)
	assert.Equal(t, "balance", field)
	assert.Equal(t, "+=", op)
}

func TestThisFieldAssignment_RejectsNonThisTarget(t *testing.T) {
	root, source := parse(t, `class C { m() { other.status = "X"; } }`)
	assign := findKind(root, "assignment_expression")
	require.NotNil(t, assign)

	_, _, ok := ThisFieldAssignment(assign, source)
	assert.False(t, ok)
}

func TestInsideConditional(t *testing.T) {
	root, _ := parse(t, `class C { m() { if (x) { this.a = 1; } } }`)
	assign := findKind(root, "assignment_expression")
	require.NotNil(t, assign)
	assert.True(t, InsideConditional(assign))
}

func TestInsideConditional_FalseOutsideIf(t *testing.T) {
	root, _ := parse(t, `class C { m() { this.a = 1; } }`)
	assign := findKind(root, "assignment_expression")
	require.NotNil(t, assign)
	assert.False(t, InsideConditional(assign))
}

func TestMentionsDateTime(t *testing.T) {
	root, source := parse(t, `class C { m() { if (Date.now() > 0) { return; } } }`)
	cond := findKind(root, "if_statement").ChildByFieldName("condition")
	assert.True(t, MentionsDateTime(cond, source))
}

func TestContainsNumericLiteral(t *testing.T) {
	root, _ := parse(t, `class C { m() { return this.a + 1; } }`)
	bin := findKind(root, "binary_expression")
	require.NotNil(t, bin)
	assert.True(t, ContainsNumericLiteral(bin))
}
