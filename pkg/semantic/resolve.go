package semantic

import (
	"sort"
	"strings"

	"github.com/agext/levenshtein"

	"github.com/domainlens/domainlens/pkg/model"
)

// fuzzyThreshold bounds how close a name must be to a known symbol before
// ResolveSymbols accepts it as a soft resolution. Chosen empirically: large
// enough to catch a single typo or pluralization, small enough to avoid
// matching unrelated short identifiers.
const fuzzyThreshold = 2

// ResolveSymbols fills the optional Type field of Call nodes that resolved
// to nothing exact, using edit-distance against the project's known class
// and method names. This never touches Symbol (the verbatim callee text
// that CallGraphEdge.To is built from) — only the supplementary type hint.
// A miss leaves the field unset; it never aborts the pipeline.
func ResolveSymbols(res *Result) {
	known := knownIdentifiers(res.Classes)
	if len(known) == 0 {
		return
	}

	for i := range res.Nodes {
		n := &res.Nodes[i]
		if n.Kind != model.KindCall || n.Type != "" {
			continue
		}
		callee := lastSegment(n.Symbol)
		if callee == "" {
			continue
		}
		if match, ok := closest(callee, known); ok {
			n.Type = match
		}
	}
}

// knownIdentifiers returns every class and method name, sorted, so that
// closest's first-seen tie-break is independent of Go's randomized map
// iteration order: the same project must resolve the same fuzzy guess on
// every run.
func knownIdentifiers(classes map[string]*ClassInfo) []string {
	names := make([]string, 0, len(classes))
	for name := range classes {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []string
	for _, name := range names {
		out = append(out, name)
		methods := append([]string(nil), classes[name].Methods...)
		sort.Strings(methods)
		out = append(out, methods...)
	}
	return out
}

func lastSegment(callee string) string {
	if idx := strings.LastIndexAny(callee, ".("); idx >= 0 {
		callee = callee[:idx]
		if idx2 := strings.LastIndex(callee, "."); idx2 >= 0 {
			callee = callee[idx2+1:]
		}
	}
	return strings.TrimSpace(callee)
}

func closest(name string, known []string) (string, bool) {
	best := ""
	bestDist := fuzzyThreshold + 1
	for _, k := range known {
		if k == name {
			return k, true
		}
		d := levenshtein.Distance(name, k, nil)
		if d < bestDist {
			bestDist = d
			best = k
		}
	}
	if bestDist <= fuzzyThreshold {
		return best, true
	}
	return "", false
}
