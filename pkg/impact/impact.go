// Package impact implements the impact simulation engine stage: given a
// business rule identifier it runs a breadth-first traversal over the
// derived relation graph and computes a normalized, weighted risk score.
package impact

import (
	"fmt"
	"sort"
	"strings"

	"github.com/domainlens/domainlens/pkg/errs"
	"github.com/domainlens/domainlens/pkg/model"
)

const maxTraversalDepth = 5

// traversableTypes is the set of relation kinds the BFS walks.
var traversableTypes = map[model.RelationType]bool{
	model.RelCalls:     true,
	model.RelDependsOn: true,
	model.RelModifies:  true,
}

// Simulate runs the impact simulation engine for ruleID against the
// entities, rules, and relations produced by earlier stages.
func Simulate(ruleID string, entities []model.DomainEntity, rules []model.BusinessRule, relations []model.DomainRelation) (*model.ImpactSimulationResult, error) {
	root, ruleFound := findRule(rules, ruleID)
	if !ruleFound {
		return nil, errs.NewFatalInputError(ruleID, fmt.Errorf("unknown rule identifier"))
	}

	entityNames := entityNameSet(entities)
	adjacency := buildAdjacency(relations)

	rootID := resolveRootNode(root)

	direct, indirect, depth, impacted := traverse(adjacency, rootID)

	if root.Entity != "" {
		impacted[root.Entity] = true
	}
	if root.Entity != "" && root.Method != "" {
		impacted[root.Entity+"."+root.Method] = true
	}

	maxFanOut, maxDepth := normalizationDenominators(adjacency)

	score := weightedRiskScore(root, direct, indirect, depth, maxFanOut, maxDepth, entities, rules)

	nodes := buildImpactNodes(impacted, rootID, entityNames, score)
	explanation := buildExplanation(impacted, direct, indirect, depth, entityNames)

	return &model.ImpactSimulationResult{
		Root:        root,
		Impacted:    nodes,
		RiskScore:   score,
		Explanation: explanation,
	}, nil
}

func findRule(rules []model.BusinessRule, ruleID string) (model.BusinessRule, bool) {
	for _, r := range rules {
		if r.ID == ruleID {
			return r, true
		}
	}
	return model.BusinessRule{}, false
}

func entityNameSet(entities []model.DomainEntity) map[string]bool {
	out := make(map[string]bool, len(entities))
	for _, e := range entities {
		out[e.Name] = true
	}
	return out
}

// resolveRootNode prefers <Entity>.<method>, then <filePath>#<method>, then
// <Entity>, then falls back to the rule identifier itself.
func resolveRootNode(rule model.BusinessRule) string {
	switch {
	case rule.Entity != "" && rule.Method != "":
		return rule.Entity + "." + rule.Method
	case rule.FilePath != "" && rule.Method != "":
		return rule.FilePath + "#" + rule.Method
	case rule.Entity != "":
		return rule.Entity
	default:
		return rule.ID
	}
}

func buildAdjacency(relations []model.DomainRelation) map[string][]string {
	out := make(map[string][]string)
	seen := make(map[string]bool)
	for _, r := range relations {
		if !traversableTypes[r.Type] {
			continue
		}
		key := r.From + "\x00" + r.To
		if seen[key] {
			continue
		}
		seen[key] = true
		out[r.From] = append(out[r.From], r.To)
	}
	for k := range out {
		sort.Strings(out[k])
	}
	return out
}

// traverse runs a depth-capped BFS from root and returns the direct
// (depth-1) count, indirect (depth>=2) count, max depth reached, and the
// full set of visited identifiers including root.
func traverse(adjacency map[string][]string, root string) (direct, indirect, maxDepth int, impacted map[string]bool) {
	impacted = map[string]bool{root: true}
	type frame struct {
		id    string
		depth int
	}
	queue := []frame{{id: root, depth: 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.depth >= maxTraversalDepth {
			continue
		}
		for _, next := range adjacency[cur.id] {
			if impacted[next] {
				continue
			}
			impacted[next] = true
			depth := cur.depth + 1
			if depth > maxDepth {
				maxDepth = depth
			}
			if depth == 1 {
				direct++
			} else {
				indirect++
			}
			queue = append(queue, frame{id: next, depth: depth})
		}
	}
	return direct, indirect, maxDepth, impacted
}

// normalizationDenominators computes, over every identifier that appears as
// either end of any relation, the maximum fan-out and the maximum reachable
// depth under the same bounded traversal used for a single rule.
func normalizationDenominators(adjacency map[string][]string) (maxFanOut, maxDepth int) {
	nodes := make(map[string]bool)
	for from, tos := range adjacency {
		nodes[from] = true
		for _, to := range tos {
			nodes[to] = true
		}
	}
	for n := range nodes {
		if len(adjacency[n]) > maxFanOut {
			maxFanOut = len(adjacency[n])
		}
		_, _, depth, _ := traverse(adjacency, n)
		if depth > maxDepth {
			maxDepth = depth
		}
	}
	return maxFanOut, maxDepth
}

func normalize(v, max int) float64 {
	if max <= 0 {
		return 0
	}
	return float64(v) / float64(max)
}

var mutationWeightByType = map[model.RuleType]float64{
	model.RuleStateTransition:    1.0,
	model.RuleInvariant:          0.9,
	model.RulePolicy:             0.7,
	model.RuleCalculation:        0.6,
	model.RuleContextRestriction: 0.5,
}

func weightedRiskScore(rule model.BusinessRule, direct, indirect, depth, maxFanOut, maxDepth int, entities []model.DomainEntity, rules []model.BusinessRule) float64 {
	fanOutWeight := normalize(direct+indirect, maxFanOut) * 0.25
	callDepthWeight := normalize(depth, maxDepth) * 0.15
	mutationWeight := mutationWeightByType[rule.Type] * 0.20

	layer := layerWeight(rule) * 0.20
	criticality := criticalityWeight(rule, entities, rules) * 0.20

	score := fanOutWeight + callDepthWeight + mutationWeight + layer + criticality

	if rule.Entity == "" {
		if score < 0.85 {
			score = 0.85
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return roundTo2(score)
}

func layerWeight(rule model.BusinessRule) float64 {
	lower := strings.ToLower(rule.FilePath)
	switch {
	case strings.Contains(lower, "controller"):
		return 1.0
	case strings.Contains(lower, "service"):
		return 0.7
	case rule.Entity != "":
		return 0.2
	default:
		return 1.0
	}
}

// criticalityWeight is the mean of normalized rules-per-entity and fan-in
// for the rule's owning entity, or 1.0 when the rule has no entity.
func criticalityWeight(rule model.BusinessRule, entities []model.DomainEntity, rules []model.BusinessRule) float64 {
	if rule.Entity == "" {
		return 1.0
	}

	rulesPerEntity := make(map[string]int)
	for _, r := range rules {
		if r.Entity != "" {
			rulesPerEntity[r.Entity]++
		}
	}
	maxRulesPerEntity := 0
	for _, c := range rulesPerEntity {
		if c > maxRulesPerEntity {
			maxRulesPerEntity = c
		}
	}

	fanIn := make(map[string]int)
	for _, e := range entities {
		fanIn[e.Name] = 0
	}
	for _, r := range rules {
		if r.Entity != "" {
			fanIn[r.Entity]++
		}
	}
	maxFanIn := 0
	for _, c := range fanIn {
		if c > maxFanIn {
			maxFanIn = c
		}
	}

	rpe := normalize(rulesPerEntity[rule.Entity], maxRulesPerEntity)
	fi := normalize(fanIn[rule.Entity], maxFanIn)
	return (rpe + fi) / 2
}

func roundTo2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

// isFileLike reports whether id looks like a path: it contains a path
// separator or ends in one of the analyzed source extensions.
func isFileLike(id string) bool {
	if strings.ContainsAny(id, "/\\") {
		return true
	}
	for _, ext := range []string{".ts", ".tsx", ".js", ".jsx"} {
		if strings.HasSuffix(id, ext) {
			return true
		}
	}
	return false
}

func isMethodLike(id string) bool {
	return strings.ContainsAny(id, ".#")
}

func classifyImpactNode(id string, entityNames map[string]bool) model.ImpactNodeKind {
	switch {
	case entityNames[id]:
		return model.ImpactEntity
	case isFileLike(id):
		return model.ImpactFile
	case isMethodLike(id):
		return model.ImpactMethod
	default:
		return model.ImpactMethod
	}
}

func buildImpactNodes(impacted map[string]bool, root string, entityNames map[string]bool, score float64) []model.ImpactNode {
	ids := make([]string, 0, len(impacted))
	for id := range impacted {
		if id == root {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]model.ImpactNode, 0, len(impacted))
	out = append(out, model.ImpactNode{ID: root, Kind: classifyImpactNode(root, entityNames), Risk: score})
	for _, id := range ids {
		out = append(out, model.ImpactNode{ID: id, Kind: classifyImpactNode(id, entityNames), Risk: score})
	}
	return out
}

func buildExplanation(impacted map[string]bool, direct, indirect, depth int, entityNames map[string]bool) model.ImpactExplanation {
	affectedFiles := 0
	affectedEntities := 0
	crossLayer := 0
	for id := range impacted {
		if isFileLike(id) {
			affectedFiles++
		}
		if entityNames[id] {
			affectedEntities++
		}
		lower := strings.ToLower(id)
		if strings.Contains(lower, "controller") || strings.Contains(lower, "infra") {
			crossLayer++
		}
	}
	return model.ImpactExplanation{
		FanOut:               direct + indirect,
		CallDepth:            depth,
		AffectedFiles:        affectedFiles,
		AffectedEntities:     affectedEntities,
		CrossLayerViolations: crossLayer,
	}
}
