package rules

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/domainlens/domainlens/pkg/astutil"
	"github.com/domainlens/domainlens/pkg/model"
	"github.com/domainlens/domainlens/pkg/semantic"
)

// classifyConditionals attempts, for every `if` inside a method, the
// priority-ordered classification INVARIANT -> CONTEXT_RESTRICTION ->
// POLICY. The first match wins; no match emits no rule.
func classifyConditionals(res *semantic.Result, sources map[string][]byte, entities map[string]*model.DomainEntity, mutates map[string]bool, public map[string]bool) []model.BusinessRule {
	var out []model.BusinessRule

	for _, n := range res.Nodes {
		if n.Kind != model.KindIf || n.Ref == nil || n.Method == "" {
			continue
		}
		source := sources[n.FilePath]
		ref := n.Ref

		cond := ref.ChildByFieldName("condition")
		then := ref.ChildByFieldName("consequence")
		alt := ref.ChildByFieldName("alternative")

		var entity *model.DomainEntity
		if n.Class != "" {
			entity = entities[n.Class]
		}
		mutatesLater := entity != nil && mutates[n.Class+"."+n.Method]
		// A guard clause has no else: it exits early and lets the rest of the
		// method run. An if/else where both arms return is a branching
		// decision, not a guard — that falls through to POLICY below.
		thenGuards := alt == nil && (astutil.ContainsKind(then, "throw_statement") || astutil.ContainsKind(then, "return_statement"))

		var ruleType model.RuleType
		var strongPattern bool

		switch {
		case thenGuards || (entity != nil && mutatesLater):
			ruleType = model.RuleInvariant
			strongPattern = thenGuards
		case isContextRestriction(ref, cond, source):
			ruleType = model.RuleContextRestriction
			strongPattern = true
		case alt != nil:
			ruleType = model.RulePolicy
			strongPattern = true
		default:
			continue
		}

		hasThrow := astutil.ContainsKind(ref, "throw_statement")
		isPublic := methodIsPublic(n, public)
		usesEnum := usesEnumSymbol(ref, source, res)
		infra := isInfraPath(n.FilePath)
		controller := isControllerPath(n.FilePath)
		insideEntity := entity != nil

		conf := computeConfidence(confidenceInput{
			ruleType:      ruleType,
			insideEntity:  insideEntity,
			mutatesState:  mutatesLater,
			hasThrow:      hasThrow,
			publicMethod:  isPublic,
			usesEnum:      usesEnum,
			cleanPath:     !infra,
			controllerHit: controller,
			strongPattern: strongPattern,
		})

		entityName := ""
		if entity != nil {
			entityName = entity.Name
		}
		condText := ""
		if cond != nil {
			condText = astutil.Clean(cond.Utf8Text(source))
		}
		consequenceText := ""
		if then != nil {
			consequenceText = astutil.Clean(then.Utf8Text(source))
		}

		out = append(out, model.BusinessRule{
			ID:          ruleID(ruleType, n.FilePath, n.Span.Start),
			Type:        ruleType,
			Entity:      entityName,
			Method:      n.Method,
			FilePath:    n.FilePath,
			Condition:   condText,
			Consequence: consequenceText,
			Span:        n.Span,
			Confidence:  conf,
		})
	}
	return out
}

// isContextRestriction recognizes the four CONTEXT_RESTRICTION signals: a
// date/time read, a status-like or feature-flag-like identifier, and a
// reference to a method parameter that isn't backed by `this.<field>`.
func isContextRestriction(ifNode, cond *sitter.Node, source []byte) bool {
	if cond == nil {
		return false
	}
	if astutil.MentionsDateTime(cond, source) || astutil.MentionsProcessEnv(cond, source) {
		return true
	}
	for _, id := range astutil.Identifiers(cond, source) {
		lower := strings.ToLower(id)
		if strings.Contains(lower, "status") || strings.Contains(lower, "flag") || strings.Contains(lower, "feature") {
			return true
		}
	}

	// A bare parameter read drives the branch directly (`if (isPremium)`);
	// a property path rooted at a parameter (`customer.tier`) does not count
	// on its own — that's ordinary business logic, not external context.
	params := enclosingParams(ifNode, source)
	for _, id := range bareIdentifiers(cond, source) {
		if params[id] {
			return true
		}
	}
	return false
}

// bareIdentifiers collects identifier tokens that are not part of a member
// expression's property path, skipping entirely into any member_expression
// subtree it encounters.
func bareIdentifiers(n *sitter.Node, source []byte) []string {
	var out []string
	var walk func(*sitter.Node)
	walk = func(cur *sitter.Node) {
		if cur == nil {
			return
		}
		if cur.Kind() == "member_expression" {
			return
		}
		if cur.Kind() == "identifier" {
			out = append(out, astutil.Clean(cur.Utf8Text(source)))
		}
		for i := uint(0); i < cur.ChildCount(); i++ {
			walk(cur.Child(i))
		}
	}
	walk(n)
	return out
}

// enclosingParams collects the parameter names of the nearest enclosing
// method or function declaration, used to recognize a condition driven by
// caller-supplied context rather than the entity's own state.
func enclosingParams(n *sitter.Node, source []byte) map[string]bool {
	cur := n
	for cur != nil {
		if cur.Kind() == "method_definition" || cur.Kind() == "function_declaration" {
			out := make(map[string]bool)
			params := cur.ChildByFieldName("parameters")
			if params == nil {
				return out
			}
			for i := uint(0); i < params.ChildCount(); i++ {
				if name := paramName(params.Child(i), source); name != "" {
					out[name] = true
				}
			}
			return out
		}
		cur = cur.Parent()
	}
	return nil
}

func paramName(p *sitter.Node, source []byte) string {
	switch p.Kind() {
	case "identifier":
		return astutil.Clean(p.Utf8Text(source))
	case "required_parameter", "optional_parameter":
		if pat := p.ChildByFieldName("pattern"); pat != nil {
			return astutil.Clean(pat.Utf8Text(source))
		}
	}
	return ""
}

func usesEnumSymbol(region *sitter.Node, source []byte, res *semantic.Result) bool {
	if region == nil {
		return false
	}
	for _, id := range astutil.Identifiers(region, source) {
		if res.EnumNames[id] {
			return true
		}
	}
	return false
}

func isControllerPath(path string) bool {
	return strings.Contains(strings.ToLower(path), "controller")
}

func isInfraPath(path string) bool {
	lower := strings.ToLower(path)
	return strings.Contains(lower, "controller") || strings.Contains(lower, "infra") || strings.Contains(lower, "adapter")
}
