package model

// NodeID identifies a data node in the validated graph.
type NodeID = string

// ShapeID identifies a shape definition.
type ShapeID = string

// ViolationType is the closed enumeration of violation kinds.
type ViolationType string

const (
	Cardinality  ViolationType = "cardinality"
	ValueType    ViolationType = "value_type"
	ValueRange   ViolationType = "value_range"
	Pattern      ViolationType = "pattern"
	PropertyPair ViolationType = "property_pair"
	Logical      ViolationType = "logical"
	Other        ViolationType = "other"
)

// Valid reports whether t is one of the defined violation kinds.
func (t ViolationType) Valid() bool {
	switch t {
	case Cardinality, ValueType, ValueRange, Pattern, PropertyPair, Logical, Other:
		return true
	}
	return false
}

// ConstraintViolation is one concrete violation occurrence as reported by
// the validator. Instances are immutable once constructed; the cache never
// keys on them directly (the derived signature is the key), they are only
// embedded in explanations for audit purposes.
type ConstraintViolation struct {
	FocusNode     NodeID        `json:"focus_node"`
	ShapeID       ShapeID       `json:"shape_id"`
	ConstraintID  string        `json:"constraint_id"`
	ViolationType ViolationType `json:"violation_type"`
	PropertyPath  string        `json:"property_path,omitempty"`
	Value         string        `json:"value,omitempty"`
	Message       string        `json:"message,omitempty"`
	Severity      string        `json:"severity,omitempty"`
	Context       Object        `json:"context,omitempty"`
}

// JustificationNode is a node in a rooted, ordered justification tree.
// The type field is open in practice; the listed constants cover the
// kinds produced by the reasoning component.
type JustificationNode struct {
	Statement string               `json:"statement"`
	Type      string               `json:"type"`
	Evidence  string               `json:"evidence,omitempty"`
	Children  []*JustificationNode `json:"children,omitempty"`
}

// Common justification node types.
const (
	NodeConclusion  = "conclusion"
	NodePremise     = "premise"
	NodeObservation = "observation"
	NodeInference   = "inference"
	NodeError       = "error"
)

// AddChild appends a child node. Each node is owned exclusively by its
// parent, which structurally rules out cycles.
func (n *JustificationNode) AddChild(child *JustificationNode) {
	n.Children = append(n.Children, child)
}

// JustificationTree pairs a justification root with the violation it
// justifies. Both fields are required at construction.
type JustificationTree struct {
	Violation *ConstraintViolation `json:"violation"`
	Root      *JustificationNode   `json:"justification"`
}

// NewJustificationTree builds a tree from its two required parts.
func NewJustificationTree(root *JustificationNode, violation *ConstraintViolation) *JustificationTree {
	return &JustificationTree{Violation: violation, Root: root}
}

// DomainContext carries retrieved supporting evidence used to enrich an
// explanation. All fields default to empty sequences.
type DomainContext struct {
	OntologyFragments  []string `json:"ontology_fragments"`
	ShapeDocumentation []string `json:"shape_documentation"`
	SimilarCases       []Object `json:"similar_cases"`
	DomainRules        []string `json:"domain_rules"`
}

// ExplanationOutput is the cached payload: the natural-language
// explanation for a violation class together with its supporting
// structures.
type ExplanationOutput struct {
	NaturalLanguageExplanation string               `json:"natural_language_explanation"`
	CorrectionSuggestions      []string             `json:"correction_suggestions,omitempty"`
	Violation                  *ConstraintViolation `json:"violation,omitempty"`
	JustificationTree          *JustificationTree   `json:"justification_tree,omitempty"`
	RetrievedContext           *DomainContext       `json:"retrieved_context,omitempty"`
	ProvidedByModel            string               `json:"provided_by_model,omitempty"`
}
