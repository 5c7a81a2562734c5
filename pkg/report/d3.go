package report

import "github.com/domainlens/domainlens/pkg/model"

// D3Node is one node in the visualization graph: an entity, a method, or a
// business rule.
type D3Node struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Kind     string  `json:"kind,omitempty"`
	Group    string  `json:"group,omitempty"`
	FilePath string  `json:"filePath,omitempty"`
	Risk     float64 `json:"risk,omitempty"`
}

// D3Link is one edge in the visualization graph.
type D3Link struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Type   string  `json:"type"`
	Weight float64 `json:"weight,omitempty"`
}

// D3Graph is a force-layout-ready projection of a TechnicalReport.
type D3Graph struct {
	Nodes []D3Node `json:"nodes"`
	Links []D3Link `json:"links"`
}

var linkWeightByRelation = map[model.RelationType]float64{
	model.RelModifies:  1.0,
	model.RelCalls:     0.6,
	model.RelDependsOn: 0.4,
	model.RelUses:      0.3,
}

// ToD3Graph projects an already-assembled report into a D3-compatible graph.
// It performs no further analysis: every node and link is read directly off
// the report's entities, rules, and relations.
func ToD3Graph(rep *model.TechnicalReport) D3Graph {
	riskByID := make(map[string]float64)
	if rep.Impact != nil {
		for _, n := range rep.Impact.Impacted {
			riskByID[n.ID] = n.Risk
		}
	}

	g := D3Graph{
		Nodes: make([]D3Node, 0, len(rep.Entities)+len(rep.Rules)),
		Links: make([]D3Link, 0, len(rep.Relations)),
	}

	for _, e := range rep.Entities {
		g.Nodes = append(g.Nodes, D3Node{
			ID:       e.Name,
			Name:     e.Name,
			Kind:     "ENTITY",
			Group:    "domain",
			FilePath: e.File,
			Risk:     riskByID[e.Name],
		})
	}

	for _, r := range rep.Rules {
		id := r.ID
		g.Nodes = append(g.Nodes, D3Node{
			ID:       id,
			Name:     ruleDisplayName(r),
			Kind:     string(r.Type),
			Group:    "rule",
			FilePath: r.FilePath,
			Risk:     riskByID[id],
		})
		if r.Entity != "" {
			g.Links = append(g.Links, D3Link{
				Source: id,
				Target: r.Entity,
				Type:   "GOVERNS",
				Weight: r.Confidence,
			})
		}
	}

	for _, rel := range rep.Relations {
		g.Links = append(g.Links, D3Link{
			Source: rel.From,
			Target: rel.To,
			Type:   string(rel.Type),
			Weight: linkWeightByRelation[rel.Type],
		})
	}

	return g
}

func ruleDisplayName(r model.BusinessRule) string {
	if r.Entity != "" && r.Method != "" {
		return r.Entity + "." + r.Method
	}
	if r.Method != "" {
		return r.Method
	}
	return r.ID
}
