package rules

import (
	"math"
	"strconv"

	"github.com/domainlens/domainlens/pkg/model"
)

// confidenceInput is the full context a rule's confidence score is a pure
// function of, kept as a plain struct so tests can pin expected values by
// constructing one directly rather than re-deriving it from an AST.
type confidenceInput struct {
	ruleType      model.RuleType
	insideEntity  bool
	mutatesState  bool
	hasThrow      bool
	publicMethod  bool
	usesEnum      bool
	cleanPath     bool // file is not under a controller/infra/adapter directory
	controllerHit bool // file path looks like a controller
	strongPattern bool
	calcCapApplies bool // CALCULATION-only: neither mutates state nor sits in a conditional
}

// computeConfidence accumulates the additive signals, applies the caps and
// penalties, clamps to [0,1], and rounds to two decimals.
func computeConfidence(in confidenceInput) float64 {
	c := 0.0
	if in.insideEntity {
		c += 0.25
	}
	if in.mutatesState {
		c += 0.25
	}
	if in.hasThrow {
		c += 0.15
	}
	if in.publicMethod {
		c += 0.10
	}
	if in.usesEnum {
		c += 0.10
	}
	if in.cleanPath {
		c += 0.10
	}
	if in.strongPattern {
		c += 0.05
	}

	if !in.insideEntity {
		c = math.Min(c, 0.60)
	}
	if in.controllerHit {
		c -= 0.20
	}
	if in.ruleType == model.RuleCalculation && in.calcCapApplies {
		c = math.Min(c, 0.70)
	}

	if c < 0 {
		c = 0
	}
	if c > 1 {
		c = 1
	}
	return math.Round(c*100) / 100
}

// ruleID builds the stable `<TYPE>:<filePath>:<astStart>` identifier.
func ruleID(rt model.RuleType, filePath string, start uint) string {
	return string(rt) + ":" + filePath + ":" + strconv.FormatUint(uint64(start), 10)
}
