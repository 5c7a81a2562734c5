package semantic

import "github.com/domainlens/domainlens/pkg/model"

// ClassInfo accumulates what the enricher observed about one class
// declaration while walking: the domain model builder reads this
// directly rather than re-walking the AST.
type ClassInfo struct {
	Name       string
	File       string
	Span       model.AstSpan
	Properties []PropertyInfo
	Methods    []string
}

// PropertyInfo is one declared class property/field.
type PropertyInfo struct {
	Name     string
	Readonly bool
	Type     string
	IsEnum   bool // type annotation resolves to a locally declared enum
}

// Result is the semantic enricher's full output for one project.
type Result struct {
	Nodes     []model.SemanticNode
	CallGraph []model.CallGraphEdge
	Classes   map[string]*ClassInfo // keyed by class name
	EnumNames map[string]bool       // names declared via `enum X { ... }`
}
