// Package rules implements the business rule engine stage: it classifies
// conditional statements and state-mutating expressions into the five rule
// kinds and attaches a confidence score computed as a pure function of the
// rule's structural and lexical context.
package rules

import (
	"sort"

	"github.com/domainlens/domainlens/pkg/astutil"
	"github.com/domainlens/domainlens/pkg/model"
	"github.com/domainlens/domainlens/pkg/semantic"
)

// Extract walks the semantic-node list and produces the deduplicated rule
// set for one project. entities is the domain model builder's qualified
// entity list; files supplies source bytes for AST-to-text extraction.
func Extract(res *semantic.Result, files []model.ParsedFile, entities []model.DomainEntity) []model.BusinessRule {
	sources := sourceMap(files)

	entityByClass := make(map[string]*model.DomainEntity, len(entities))
	stateFields := make(map[string]map[string]bool, len(entities))
	for i := range entities {
		e := &entities[i]
		entityByClass[e.Name] = e
		set := make(map[string]bool, len(e.StateFields))
		for _, f := range e.StateFields {
			set[f] = true
		}
		stateFields[e.Name] = set
	}

	mutates := mutatesStateByMethod(res, sources, entityByClass, stateFields)
	public := publicByMethod(res)

	seen := make(map[string]bool)
	var out []model.BusinessRule
	add := func(rs []model.BusinessRule) {
		for _, r := range rs {
			if seen[r.ID] {
				continue
			}
			seen[r.ID] = true
			out = append(out, r)
		}
	}

	add(classifyConditionals(res, sources, entityByClass, mutates, public))
	add(classifyAssignments(res, sources, entityByClass, stateFields, mutates, public))

	sort.Slice(out, func(i, j int) bool {
		if out[i].FilePath != out[j].FilePath {
			return out[i].FilePath < out[j].FilePath
		}
		return out[i].Span.Start < out[j].Span.Start
	})
	return out
}

func sourceMap(files []model.ParsedFile) map[string][]byte {
	out := make(map[string][]byte, len(files))
	for i := range files {
		out[files[i].Path] = files[i].Source
	}
	return out
}

func methodIsPublic(n model.SemanticNode, public map[string]bool) bool {
	if v, ok := public[n.Enclosing]; ok {
		return v
	}
	return true // unscoped callable defaults to public
}

func publicByMethod(res *semantic.Result) map[string]bool {
	out := make(map[string]bool)
	for _, n := range res.Nodes {
		if n.Kind != model.KindMethod {
			continue
		}
		out[n.Enclosing] = n.Type == "public"
	}
	return out
}

// mutatesStateByMethod reports, per "Class.Method" key, whether that method
// contains at least one assignment to one of its owning entity's state
// fields — the "method mutates a state field" signal used both by the
// INVARIANT guard-clause rule and by confidence scoring.
func mutatesStateByMethod(res *semantic.Result, sources map[string][]byte, entities map[string]*model.DomainEntity, stateFields map[string]map[string]bool) map[string]bool {
	out := make(map[string]bool)
	for _, n := range res.Nodes {
		if n.Kind != model.KindBinary || n.Ref == nil || n.Class == "" || n.Method == "" {
			continue
		}
		if entities[n.Class] == nil {
			continue
		}
		field, op, ok := astutil.ThisFieldAssignment(n.Ref, sources[n.FilePath])
		if !ok || !astutil.CompoundAssignOps[op] {
			continue
		}
		if !stateFields[n.Class][field] {
			continue
		}
		out[n.Class+"."+n.Method] = true
	}
	return out
}
