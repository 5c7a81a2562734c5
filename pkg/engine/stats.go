package engine

import "github.com/domainlens/domainlens/pkg/model"

func ruleTypeStrings(rules []model.BusinessRule) []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = string(r.Type)
	}
	return out
}

func violationTypeStrings(violations []model.ArchitecturalViolation) []string {
	out := make([]string, len(violations))
	for i, v := range violations {
		out[i] = string(v.Type)
	}
	return out
}

func countByString(values []string) map[string]int {
	out := make(map[string]int, len(values))
	for _, v := range values {
		out[v]++
	}
	return out
}
