// Package domain implements the domain model builder stage: it qualifies
// domain entities from the semantic node list and class table, computes
// each entity's state fields, and emits the CALLS/USES/MODIFIES/DEPENDS_ON
// relation graph.
package domain

import (
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/domainlens/domainlens/pkg/model"
	"github.com/domainlens/domainlens/pkg/semantic"
)

// technicalSuffixes excludes a class from entity candidacy by convention.
var technicalSuffixes = []string{"Controller", "Service", "Repository", "Adapter", "Gateway"}

// HasTechnicalSuffix reports whether name ends with one of the excluded
// technical suffixes.
func HasTechnicalSuffix(name string) bool {
	for _, suf := range technicalSuffixes {
		if strings.HasSuffix(name, suf) {
			return true
		}
	}
	return false
}

// Model is the domain model builder's output.
type Model struct {
	Entities  []model.DomainEntity
	Relations []model.DomainRelation
}

// assignment describes one `this.<field> = ...` (or compound) assignment
// found inside a method body.
type assignment struct {
	class  string
	method string
	field  string
	node   *sitter.Node
	inCond bool // sits inside a conditional branch
}

// Build runs the domain model builder over one project's semantic result.
// files supplies the source bytes each SemanticNode.Ref needs for AST-to-text
// extraction; it must be the same slice that produced res.
func Build(res *semantic.Result, files []model.ParsedFile) *Model {
	sources := make(map[string][]byte, len(files))
	for i := range files {
		sources[files[i].Path] = files[i].Source
	}

	mutableProps := mutablePropertiesByClass(res.Classes)
	assignments := collectAssignments(res, sources, mutableProps)

	stateFields := stateFieldsByClass(assignments)
	condByClass := conditionalSignal(res)
	mutatedInCond := mutatedInConditional(assignments)

	var entities []model.DomainEntity
	qualifies := make(map[string]bool)

	for name, info := range res.Classes {
		if !qualifyEntity(name, info, mutableProps[name], stateFields[name], condByClass[name], len(mutatedInCond[name]) > 0) {
			continue
		}
		qualifies[name] = true

		sf := sortedKeys(stateFields[name])
		entities = append(entities, model.DomainEntity{
			Name:        name,
			File:        info.File,
			Properties:  propertyNames(info),
			Methods:     append([]string(nil), info.Methods...),
			StateFields: sf,
		})
	}
	sort.Slice(entities, func(i, j int) bool { return entities[i].Name < entities[j].Name })

	relations := emitRelations(res, assignments, qualifies)

	return &Model{Entities: entities, Relations: relations}
}

func propertyNames(info *semantic.ClassInfo) []string {
	out := make([]string, 0, len(info.Properties))
	for _, p := range info.Properties {
		out = append(out, p.Name)
	}
	return out
}

// mutablePropertiesByClass returns, per class, the set of non-readonly
// declared properties.
func mutablePropertiesByClass(classes map[string]*semantic.ClassInfo) map[string]map[string]bool {
	out := make(map[string]map[string]bool, len(classes))
	for name, info := range classes {
		set := make(map[string]bool)
		for _, p := range info.Properties {
			if !p.Readonly {
				set[p.Name] = true
			}
		}
		out[name] = set
	}
	return out
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func qualifyEntity(name string, info *semantic.ClassInfo, mutable, stateFields map[string]bool, hasConditional, assignInCond bool) bool {
	if name == "" || HasTechnicalSuffix(name) {
		return false
	}
	if len(mutable) == 0 {
		return false
	}
	if len(stateFields) == 0 {
		return false
	}
	hasEnum := false
	for _, p := range info.Properties {
		if p.IsEnum {
			hasEnum = true
			break
		}
	}
	if !hasEnum && !hasConditional && !assignInCond {
		return false
	}
	return true
}
