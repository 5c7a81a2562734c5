package domain

import (
	"github.com/domainlens/domainlens/pkg/astutil"
	"github.com/domainlens/domainlens/pkg/model"
	"github.com/domainlens/domainlens/pkg/semantic"
)

// collectAssignments scans every Binary semantic node for a `this.<field> =`
// (or compound) assignment against a mutable property, using the node's own
// AST reference to check whether it sits inside a conditional branch.
func collectAssignments(res *semantic.Result, sources map[string][]byte, mutable map[string]map[string]bool) []assignment {
	var out []assignment
	for _, n := range res.Nodes {
		if n.Kind != model.KindBinary || n.Ref == nil || n.Class == "" || n.Method == "" {
			continue
		}
		source := sources[n.FilePath]
		field, op, ok := astutil.ThisFieldAssignment(n.Ref, source)
		if !ok || !astutil.CompoundAssignOps[op] {
			continue
		}
		if !mutable[n.Class][field] {
			continue
		}
		out = append(out, assignment{
			class:  n.Class,
			method: n.Method,
			field:  field,
			node:   n.Ref,
			inCond: astutil.InsideConditional(n.Ref),
		})
	}
	return out
}

func stateFieldsByClass(assignments []assignment) map[string]map[string]bool {
	out := make(map[string]map[string]bool)
	for _, a := range assignments {
		if out[a.class] == nil {
			out[a.class] = make(map[string]bool)
		}
		out[a.class][a.field] = true
	}
	return out
}

func mutatedInConditional(assignments []assignment) map[string]map[string]bool {
	out := make(map[string]map[string]bool)
	for _, a := range assignments {
		if !a.inCond {
			continue
		}
		if out[a.class] == nil {
			out[a.class] = make(map[string]bool)
		}
		out[a.class][a.field] = true
	}
	return out
}

// conditionalSignal reports, per class, whether any of its own methods
// contain an if statement.
func conditionalSignal(res *semantic.Result) map[string]bool {
	out := make(map[string]bool)
	for _, n := range res.Nodes {
		if n.Kind == model.KindIf && n.Class != "" {
			out[n.Class] = true
		}
	}
	return out
}

// emitRelations builds the CALLS/USES/MODIFIES/DEPENDS_ON edge set:
// MODIFIES from every state-field assignment inside a qualifying entity,
// CALLS+USES from every call expression's enclosing callable, DEPENDS_ON
// from every import.
func emitRelations(res *semantic.Result, assignments []assignment, qualifies map[string]bool) []model.DomainRelation {
	seen := make(map[string]bool)
	var out []model.DomainRelation

	add := func(r model.DomainRelation) {
		key := r.RelationKey()
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, r)
	}

	for _, a := range assignments {
		if !qualifies[a.class] {
			continue
		}
		add(model.DomainRelation{
			Type: model.RelModifies,
			From: a.class + "." + a.method,
			To:   a.class + "." + a.field,
		})
	}

	for _, n := range res.Nodes {
		switch n.Kind {
		case model.KindCall:
			if n.Symbol == "" {
				continue
			}
			add(model.DomainRelation{Type: model.RelCalls, From: n.Enclosing, To: n.Symbol})
			add(model.DomainRelation{Type: model.RelUses, From: n.Enclosing, To: n.Symbol})
		case model.KindImport:
			if n.Symbol == "" {
				continue
			}
			add(model.DomainRelation{Type: model.RelDependsOn, From: n.FilePath, To: n.Symbol})
		}
	}

	return out
}
