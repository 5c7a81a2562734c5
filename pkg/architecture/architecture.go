// Package architecture implements the architectural analyzer stage: it
// inspects the already-built domain model, rule list, and relation graph
// and emits the six canonical violation kinds. Every check is a structural
// inspection of AST-derived data; none of it re-parses source text.
package architecture

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/domainlens/domainlens/pkg/model"
)

const fatServiceMethodThreshold = 8
const scatteredRuleFileThreshold = 3

// Analyze inspects entities, relations, rules, and every import edge
// recorded on semantic nodes (surfaced here as DEPENDS_ON relations) and
// returns every detected violation, stably ordered by ID.
func Analyze(entities []model.DomainEntity, relations []model.DomainRelation, rules []model.BusinessRule) []model.ArchitecturalViolation {
	var out []model.ArchitecturalViolation

	out = append(out, domainCallingInfra(relations)...)
	out = append(out, ruleInController(rules)...)
	out = append(out, anemicEntity(entities, relations)...)
	out = append(out, fatService(entities)...)
	out = append(out, layerViolation(relations)...)
	out = append(out, scatteredRule(rules)...)

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func domainCallingInfra(relations []model.DomainRelation) []model.ArchitecturalViolation {
	var out []model.ArchitecturalViolation
	n := 0
	for _, r := range relations {
		if r.Type != model.RelCalls {
			continue
		}
		if strings.Contains(strings.ToLower(r.From), "domain") && strings.Contains(strings.ToLower(r.To), "infra") {
			out = append(out, model.ArchitecturalViolation{
				ID:      fmt.Sprintf("DOMAIN_CALLING_INFRA:%s:%s:%d", r.From, r.To, n),
				Type:    model.ViolationDomainCallingInfra,
				Message: fmt.Sprintf("%s (domain) calls %s (infrastructure)", r.From, r.To),
			})
			n++
		}
	}
	return out
}

func ruleInController(rules []model.BusinessRule) []model.ArchitecturalViolation {
	var out []model.ArchitecturalViolation
	for _, r := range rules {
		if strings.HasSuffix(r.Method, "Controller") || strings.Contains(strings.ToLower(r.FilePath), "controller") {
			out = append(out, model.ArchitecturalViolation{
				ID:         "RULE_IN_CONTROLLER:" + r.ID,
				Type:       model.ViolationRuleInController,
				Message:    fmt.Sprintf("business rule %s lives in a controller", r.ID),
				FilePath:   r.FilePath,
				RelatedIDs: []string{r.ID},
			})
		}
	}
	return out
}

func anemicEntity(entities []model.DomainEntity, relations []model.DomainRelation) []model.ArchitecturalViolation {
	modifiesFrom := make(map[string]bool)
	for _, r := range relations {
		if r.Type == model.RelModifies {
			modifiesFrom[entityFromMethodID(r.From)] = true
		}
	}

	var out []model.ArchitecturalViolation
	for _, e := range entities {
		if len(e.StateFields) == 0 {
			continue
		}
		if modifiesFrom[e.Name] {
			continue
		}
		out = append(out, model.ArchitecturalViolation{
			ID:       "ANEMIC_ENTITY:" + e.Name,
			Type:     model.ViolationAnemicEntity,
			Message:  fmt.Sprintf("%s declares state fields but no method modifies them", e.Name),
			FilePath: e.File,
		})
	}
	return out
}

func entityFromMethodID(id string) string {
	if idx := strings.Index(id, "."); idx >= 0 {
		return id[:idx]
	}
	return id
}

func fatService(entities []model.DomainEntity) []model.ArchitecturalViolation {
	var out []model.ArchitecturalViolation
	for _, e := range entities {
		if strings.HasSuffix(e.Name, "Service") && len(e.Methods) >= fatServiceMethodThreshold {
			out = append(out, model.ArchitecturalViolation{
				ID:       "FAT_SERVICE:" + e.Name,
				Type:     model.ViolationFatService,
				Message:  fmt.Sprintf("%s declares %d methods", e.Name, len(e.Methods)),
				FilePath: e.File,
			})
		}
	}
	return out
}

// layerViolation flags DEPENDS_ON edges from a file under a `domain` path
// segment whose module specifier contains `infra`.
func layerViolation(relations []model.DomainRelation) []model.ArchitecturalViolation {
	var out []model.ArchitecturalViolation
	n := 0
	for _, r := range relations {
		if r.Type != model.RelDependsOn {
			continue
		}
		if hasPathSegment(r.From, "domain") && strings.Contains(strings.ToLower(r.To), "infra") {
			out = append(out, model.ArchitecturalViolation{
				ID:       fmt.Sprintf("LAYER_VIOLATION:%s:%d", r.From, n),
				Type:     model.ViolationLayerViolation,
				Message:  fmt.Sprintf("%s (domain layer) imports %s", r.From, r.To),
				FilePath: r.From,
			})
			n++
		}
	}
	return out
}

func hasPathSegment(path, segment string) bool {
	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if strings.EqualFold(part, segment) {
			return true
		}
	}
	return false
}

// scatteredRule groups rules by (entity, type) and flags any group spanning
// three or more distinct files.
func scatteredRule(rules []model.BusinessRule) []model.ArchitecturalViolation {
	type key struct {
		entity string
		typ    model.RuleType
	}
	files := make(map[key]map[string]bool)
	for _, r := range rules {
		if r.Entity == "" {
			continue
		}
		k := key{entity: r.Entity, typ: r.Type}
		if files[k] == nil {
			files[k] = make(map[string]bool)
		}
		files[k][r.FilePath] = true
	}

	var keys []key
	for k := range files {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].entity != keys[j].entity {
			return keys[i].entity < keys[j].entity
		}
		return keys[i].typ < keys[j].typ
	})

	var out []model.ArchitecturalViolation
	for _, k := range keys {
		fileSet := files[k]
		if len(fileSet) < scatteredRuleFileThreshold {
			continue
		}
		var paths []string
		for f := range fileSet {
			paths = append(paths, f)
		}
		sort.Strings(paths)
		out = append(out, model.ArchitecturalViolation{
			ID:         "SCATTERED_RULE:" + k.entity + ":" + string(k.typ),
			Type:       model.ViolationScatteredRule,
			Message:    fmt.Sprintf("%s rules for %s appear in %s files", k.typ, k.entity, strconv.Itoa(len(paths))),
			RelatedIDs: paths,
		})
	}
	return out
}
