package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tsgrammar "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/domainlens/domainlens/pkg/model"
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

func nodesOfKind(res *Result, kind model.NodeKind) []model.SemanticNode {
	var out []model.SemanticNode
	for _, n := range res.Nodes {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

const orderSource = `
enum OrderStatus { PENDING, SHIPPED, CANCELLED }

class Order {
	private status: OrderStatus;
	readonly id: string;

	ship() {
		if (this.status === OrderStatus.CANCELLED) {
			throw new Error("cannot ship");
		}
		this.status = OrderStatus.SHIPPED;
	}

	cancel() {
		this.validate();
		this.status = OrderStatus.CANCELLED;
		return this.status;
	}

	validate() {
		new Validator();
	}
}
`

func TestEnrich_EmitsOneClassNode(t *testing.T) {
	res := Enrich([]model.ParsedFile{parseTS(t, "order.ts", orderSource)})

	classes := nodesOfKind(res, model.KindClass)
	require.Len(t, classes, 1)
	assert.Equal(t, "Order", classes[0].Symbol)
}

func TestEnrich_RecordsClassInfoWithMethodsAndProperties(t *testing.T) {
	res := Enrich([]model.ParsedFile{parseTS(t, "order.ts", orderSource)})

	info := res.Classes["Order"]
	require.NotNil(t, info)
	assert.ElementsMatch(t, []string{"ship", "cancel", "validate"}, info.Methods)
	require.Len(t, info.Properties, 2)
}

func TestEnrich_PrivateMethodVisibilityIsDetected(t *testing.T) {
	res := Enrich([]model.ParsedFile{parseTS(t, "order.ts", `
class Order {
	private helper() {}
	public ship() {}
}
`)})

	methods := nodesOfKind(res, model.KindMethod)
	byName := map[string]model.SemanticNode{}
	for _, m := range methods {
		byName[m.Symbol] = m
	}
	assert.Equal(t, "private", byName["helper"].Type)
	assert.Equal(t, "public", byName["ship"].Type)
}

func TestEnrich_EnumAnnotatedPropertyIsMarkedEnum(t *testing.T) {
	res := Enrich([]model.ParsedFile{parseTS(t, "order.ts", orderSource)})

	info := res.Classes["Order"]
	require.NotNil(t, info)
	var status *PropertyInfo
	for i := range info.Properties {
		if info.Properties[i].Name == "status" {
			status = &info.Properties[i]
		}
	}
	require.NotNil(t, status)
	assert.True(t, status.IsEnum)
	assert.True(t, res.EnumNames["OrderStatus"])
}

func TestEnrich_CallNodeResolvesEnclosingMethod(t *testing.T) {
	res := Enrich([]model.ParsedFile{parseTS(t, "order.ts", orderSource)})

	calls := nodesOfKind(res, model.KindCall)
	var validateCall *model.SemanticNode
	for i := range calls {
		if calls[i].Symbol == "this.validate" {
			validateCall = &calls[i]
		}
	}
	require.NotNil(t, validateCall)
	assert.Equal(t, "Order.cancel", validateCall.Enclosing)
}

func TestEnrich_AnonymousClosureInheritsMethodScope(t *testing.T) {
	res := Enrich([]model.ParsedFile{parseTS(t, "widget.ts", `
class Widget {
	render() {
		setTimeout(() => { this.update(); }, 0);
	}
}
`)})

	calls := nodesOfKind(res, model.KindCall)
	var updateCall *model.SemanticNode
	for i := range calls {
		if calls[i].Symbol == "this.update" {
			updateCall = &calls[i]
		}
	}
	require.NotNil(t, updateCall)
	assert.Equal(t, "Widget.render", updateCall.Enclosing)
}

func TestEnrich_CallGraphEdgesAreDeduplicated(t *testing.T) {
	res := Enrich([]model.ParsedFile{parseTS(t, "widget.ts", `
class Widget {
	render() {
		this.update();
		this.update();
	}
}
`)})

	count := 0
	for _, e := range res.CallGraph {
		if e.From == "Widget.render" && e.To == "this.update" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestEnrich_ThrowAndReturnNodesAreEmitted(t *testing.T) {
	res := Enrich([]model.ParsedFile{parseTS(t, "order.ts", orderSource)})

	assert.NotEmpty(t, nodesOfKind(res, model.KindThrow))
	assert.NotEmpty(t, nodesOfKind(res, model.KindReturn))
	assert.NotEmpty(t, nodesOfKind(res, model.KindIf))
	assert.NotEmpty(t, nodesOfKind(res, model.KindNew))
}

func TestEnrich_MultipleFilesProcessedInOrder(t *testing.T) {
	res := Enrich([]model.ParsedFile{
		parseTS(t, "a.ts", "class A {}"),
		parseTS(t, "b.ts", "class B {}"),
	})

	classes := nodesOfKind(res, model.KindClass)
	require.Len(t, classes, 2)
	assert.Equal(t, "a.ts", classes[0].FilePath)
	assert.Equal(t, "b.ts", classes[1].FilePath)
}
