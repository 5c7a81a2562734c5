// Package model holds the data types shared across every pipeline stage.
// Nothing in this package depends on any other domainlens package.
package model

import sitter "github.com/tree-sitter/go-tree-sitter"

// NodeKind is the closed set of semantic node kinds the enricher emits.
type NodeKind string

const (
	KindClass    NodeKind = "Class"
	KindMethod   NodeKind = "Method"
	KindProperty NodeKind = "Property"
	KindImport   NodeKind = "Import"
	KindCall     NodeKind = "Call"
	KindBinary   NodeKind = "Binary"
	KindIf       NodeKind = "If"
	KindThrow    NodeKind = "Throw"
	KindReturn   NodeKind = "Return"
	KindNew      NodeKind = "New"
)

// RuleType is the closed set of business rule classifications.
type RuleType string

const (
	RuleInvariant          RuleType = "INVARIANT"
	RulePolicy             RuleType = "POLICY"
	RuleCalculation        RuleType = "CALCULATION"
	RuleStateTransition    RuleType = "STATE_TRANSITION"
	RuleContextRestriction RuleType = "CONTEXT_RESTRICTION"
)

// RelationType is the closed set of domain relation labels.
type RelationType string

const (
	RelCalls     RelationType = "CALLS"
	RelDependsOn RelationType = "DEPENDS_ON"
	RelModifies  RelationType = "MODIFIES"
	RelUses      RelationType = "USES"
)

// ImpactNodeKind is the closed set of impact graph node kinds.
type ImpactNodeKind string

const (
	ImpactRule   ImpactNodeKind = "RULE"
	ImpactEntity ImpactNodeKind = "ENTITY"
	ImpactFile   ImpactNodeKind = "FILE"
	ImpactMethod ImpactNodeKind = "METHOD"
)

// ViolationType is the closed set of architectural violations.
type ViolationType string

const (
	ViolationDomainCallingInfra ViolationType = "DOMAIN_CALLING_INFRA"
	ViolationRuleInController   ViolationType = "RULE_IN_CONTROLLER"
	ViolationAnemicEntity       ViolationType = "ANEMIC_ENTITY"
	ViolationFatService         ViolationType = "FAT_SERVICE"
	ViolationScatteredRule      ViolationType = "SCATTERED_RULE"
	ViolationLayerViolation     ViolationType = "LAYER_VIOLATION"
)

// ParsedFile is a source file's path plus its AST handle. Immutable after parse.
type ParsedFile struct {
	Path    string
	Source  []byte
	Tree    *sitter.Tree
	Package string // module-relative package/namespace hint, optional
}

// AstSpan is a byte-offset span within a ParsedFile's source.
type AstSpan struct {
	Start uint `json:"start"`
	End   uint `json:"end"`
}

// SemanticNode is a tagged handle on a syntax node.
type SemanticNode struct {
	Kind     NodeKind
	FilePath string
	Symbol   string // optional resolved symbol name
	Type     string // optional resolved static type text; for Method nodes, the visibility ("public" or "private")
	Span     AstSpan
	Ref      *sitter.Node // back-reference; valid only for the lifetime of one pipeline run

	// Enclosing holds the call-graph identifier ("<file>#<callable>" or
	// "<Class>.<method>") of the callable this node sits inside, empty at
	// file scope.
	Enclosing string
	// Class names the enclosing class declaration, when any.
	Class string
	// Method names the enclosing method, when any (without the class prefix).
	Method string
}

// CallGraphEdge is a directed, deduplicated edge in the file-level call graph.
type CallGraphEdge struct {
	From string
	To   string
}

// DomainEntity is a qualifying non-technical class with mutable state.
type DomainEntity struct {
	Name        string   `json:"name"`
	File        string   `json:"file"`
	Properties  []string `json:"properties,omitempty"`
	Methods     []string `json:"methods,omitempty"`
	StateFields []string `json:"stateFields,omitempty"` // intersection of mutable properties and fields actually assigned
}

// DomainRelation is a deduplicated, directed, typed edge in the dependency graph.
type DomainRelation struct {
	Type RelationType `json:"type"`
	From string       `json:"from"`
	To   string       `json:"to"`
}

// RelationKey is the dedup key for a DomainRelation.
func (r DomainRelation) RelationKey() string {
	return string(r.Type) + "|" + r.From + "|" + r.To
}

// BusinessRule is a classified AST region with a confidence score.
type BusinessRule struct {
	ID          string   `json:"id"`
	Type        RuleType `json:"type"`
	Entity      string   `json:"entity,omitempty"` // optional owning entity name
	Method      string   `json:"method,omitempty"` // optional owning method name
	FilePath    string   `json:"filePath"`
	Condition   string   `json:"condition,omitempty"`
	Consequence string   `json:"consequence,omitempty"`
	Span        AstSpan  `json:"span"`
	Confidence  float64  `json:"confidence"`
}

// ImpactNode is one node in a computed impact simulation result.
type ImpactNode struct {
	ID   string         `json:"id"`
	Kind ImpactNodeKind `json:"kind"`
	Risk float64        `json:"risk"`
}

// ImpactExplanation is the human-facing breakdown behind a risk score.
type ImpactExplanation struct {
	FanOut               int `json:"fanOut"`
	CallDepth            int `json:"callDepth"`
	AffectedFiles        int `json:"affectedFiles"`
	AffectedEntities     int `json:"affectedEntities"`
	CrossLayerViolations int `json:"crossLayerViolations"`
}

// ImpactSimulationResult is the full output of the impact simulation engine.
type ImpactSimulationResult struct {
	Root        BusinessRule      `json:"root"`
	Impacted    []ImpactNode      `json:"impacted"`
	RiskScore   float64           `json:"riskScore"`
	Explanation ImpactExplanation `json:"explanation"`
}

// ArchitecturalViolation is one detected architectural smell.
type ArchitecturalViolation struct {
	ID         string        `json:"id"`
	Type       ViolationType `json:"type"`
	Message    string        `json:"message"`
	FilePath   string        `json:"filePath,omitempty"`
	RelatedIDs []string      `json:"relatedIds,omitempty"`
}

// TechnicalReport is the final aggregate output of the pipeline.
type TechnicalReport struct {
	Entities                []DomainEntity           `json:"entities"`
	Relations               []DomainRelation         `json:"relations"`
	Rules                   []BusinessRule           `json:"rules"`
	Impact                  *ImpactSimulationResult  `json:"impact,omitempty"`
	ArchitecturalViolations []ArchitecturalViolation `json:"architecturalViolations"`
}
