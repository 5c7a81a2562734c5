// Package semantic implements the semantic enricher stage: a single-threaded,
// deterministic depth-first walk of each parsed file's tree that emits a
// flat, stably ordered list of tagged SemanticNodes plus a deduplicated
// file-level call graph.
package semantic

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/domainlens/domainlens/pkg/model"
)

// scope tracks the enclosing callable while walking one file. Only named
// method and function declarations push a new scope; arrow functions and
// anonymous function expressions inherit the current one. This implements
// the "method wins" resolution for Open Question (a): a call nested inside
// an anonymous closure inside a method still resolves to that method.
type scope struct {
	file   string
	class  string
	method string
}

func (s scope) enclosing() string {
	switch {
	case s.class != "" && s.method != "":
		return s.class + "." + s.method
	case s.method != "":
		return s.file + "#" + s.method
	default:
		return s.file + "#<anonymous>"
	}
}

type walker struct {
	result *Result
	edges  map[string]bool // dedup key: from+"\x00"+to
}

// Enrich runs the semantic enricher over every parsed file, in order.
func Enrich(files []model.ParsedFile) *Result {
	res := &Result{
		Classes:   make(map[string]*ClassInfo),
		EnumNames: make(map[string]bool),
	}

	for i := range files {
		collectEnumNames(files[i], res.EnumNames)
	}

	w := &walker{result: res, edges: make(map[string]bool)}
	for i := range files {
		w.walkFile(&files[i])
	}
	return res
}

func collectEnumNames(f model.ParsedFile, enums map[string]bool) {
	root := f.Tree.RootNode()
	if root == nil {
		return
	}
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Kind() == "enum_declaration" {
			if name := n.ChildByFieldName("name"); name != nil {
				enums[clean(name.Utf8Text(f.Source))] = true
			}
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
}

func (w *walker) walkFile(f *model.ParsedFile) {
	root := f.Tree.RootNode()
	if root == nil {
		return
	}
	sc := scope{file: f.Path}
	w.walk(root, f, sc)
}

func (w *walker) walk(n *sitter.Node, f *model.ParsedFile, sc scope) {
	nextScope := sc

	switch n.Kind() {
	case "class_declaration", "class":
		w.emitClass(n, f, sc)
		if name := classificationName(n, f); name != "" {
			nextScope.class = name
			nextScope.method = ""
		}

	case "method_definition":
		w.emitMethod(n, f, sc, &nextScope)

	case "public_field_definition", "field_definition", "property_signature":
		w.emitProperty(n, f, sc)

	case "function_declaration":
		if name := n.ChildByFieldName("name"); name != nil {
			nextScope.method = clean(name.Utf8Text(f.Source))
			nextScope.class = ""
		}

	case "import_statement":
		w.emitImport(n, f, sc)

	case "call_expression":
		w.emitCall(n, f, sc)

	case "binary_expression", "augmented_assignment_expression", "assignment_expression":
		w.emitBinary(n, f, sc)

	case "if_statement":
		w.emitIf(n, f, sc)

	case "throw_statement":
		w.emitThrow(n, f, sc)

	case "return_statement":
		w.emitReturn(n, f, sc)

	case "new_expression":
		w.emitNew(n, f, sc)
	}

	for i := uint(0); i < n.ChildCount(); i++ {
		w.walk(n.Child(i), f, nextScope)
	}
}

func classificationName(n *sitter.Node, f *model.ParsedFile) string {
	name := n.ChildByFieldName("name")
	if name == nil {
		return ""
	}
	return clean(name.Utf8Text(f.Source))
}

func (w *walker) addNode(sn model.SemanticNode) {
	w.result.Nodes = append(w.result.Nodes, sn)
}

func (w *walker) addEdge(from, to string) {
	key := from + "\x00" + to
	if w.edges[key] {
		return
	}
	w.edges[key] = true
	w.result.CallGraph = append(w.result.CallGraph, model.CallGraphEdge{From: from, To: to})
}

func span(n *sitter.Node) model.AstSpan {
	return model.AstSpan{Start: n.StartByte(), End: n.EndByte()}
}
