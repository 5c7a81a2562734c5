package rules

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/domainlens/domainlens/pkg/astutil"
	"github.com/domainlens/domainlens/pkg/model"
	"github.com/domainlens/domainlens/pkg/semantic"
)

// classifyAssignments walks every binary-shaped expression inside a method
// and emits STATE_TRANSITION for a qualifying `this.<field>` assignment,
// else CALCULATION for an arithmetic expression touching a numeric literal
// or the entity's own state.
func classifyAssignments(res *semantic.Result, sources map[string][]byte, entities map[string]*model.DomainEntity, stateFields map[string]map[string]bool, mutates map[string]bool, public map[string]bool) []model.BusinessRule {
	var out []model.BusinessRule

	for _, n := range res.Nodes {
		if n.Kind != model.KindBinary || n.Ref == nil || n.Method == "" {
			continue
		}
		source := sources[n.FilePath]
		ref := n.Ref

		var entity *model.DomainEntity
		if n.Class != "" {
			entity = entities[n.Class]
		}

		field, op, isAssign := astutil.ThisFieldAssignment(ref, source)
		if isAssign && astutil.CompoundAssignOps[op] && entity != nil && stateFields[n.Class][field] {
			out = append(out, stateTransitionRule(n, ref, field, source, entity, public, res))
			continue
		}

		binOp := astutil.BinaryOperator(ref, source)
		if !astutil.ArithmeticOps[binOp] {
			continue
		}
		if !astutil.ContainsNumericLiteral(ref) && !astutil.ContainsThisProperty(ref) {
			continue
		}
		out = append(out, calculationRule(n, ref, source, entity, mutates, public, res))
	}
	return out
}

func stateTransitionRule(n model.SemanticNode, ref *sitter.Node, field string, source []byte, entity *model.DomainEntity, public map[string]bool, res *semantic.Result) model.BusinessRule {
	conf := computeConfidence(confidenceInput{
		ruleType:      model.RuleStateTransition,
		insideEntity:  true,
		mutatesState:  true,
		publicMethod:  methodIsPublic(n, public),
		usesEnum:      usesEnumSymbol(ref, source, res),
		cleanPath:     !isInfraPath(n.FilePath),
		controllerHit: isControllerPath(n.FilePath),
		strongPattern: true,
	})
	return model.BusinessRule{
		ID:          ruleID(model.RuleStateTransition, n.FilePath, n.Span.Start),
		Type:        model.RuleStateTransition,
		Entity:      entity.Name,
		Method:      n.Method,
		FilePath:    n.FilePath,
		Condition:   field + " assignment",
		Consequence: astutil.Clean(ref.Utf8Text(source)),
		Span:        n.Span,
		Confidence:  conf,
	}
}

func calculationRule(n model.SemanticNode, ref *sitter.Node, source []byte, entity *model.DomainEntity, mutates map[string]bool, public map[string]bool, res *semantic.Result) model.BusinessRule {
	insideEntity := entity != nil
	mutatesState := insideEntity && mutates[n.Class+"."+n.Method]
	insideConditional := astutil.InsideConditional(ref)
	calcCapApplies := !mutatesState && !insideConditional

	conf := computeConfidence(confidenceInput{
		ruleType:      model.RuleCalculation,
		insideEntity:  insideEntity,
		mutatesState:  mutatesState,
		publicMethod:  methodIsPublic(n, public),
		usesEnum:      usesEnumSymbol(ref, source, res),
		cleanPath:     !isInfraPath(n.FilePath),
		controllerHit: isControllerPath(n.FilePath),
		strongPattern: true, // CALCULATION is a binary expression, always
		calcCapApplies: calcCapApplies,
	})

	entityName := ""
	if entity != nil {
		entityName = entity.Name
	}
	return model.BusinessRule{
		ID:          ruleID(model.RuleCalculation, n.FilePath, n.Span.Start),
		Type:        model.RuleCalculation,
		Entity:      entityName,
		Method:      n.Method,
		FilePath:    n.FilePath,
		Consequence: astutil.Clean(ref.Utf8Text(source)),
		Span:        n.Span,
		Confidence:  conf,
	}
}
