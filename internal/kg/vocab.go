package kg

import "github.com/gcpdev/xshacl/internal/graph"

// Namespace is the base IRI for all xshacl vocabulary terms and for
// signature instance records.
const Namespace = "http://xpshacl.org/#"

// Record kind IRIs (TBox classes).
const (
	ClassViolationSignature graph.IRI = Namespace + "ViolationSignature"
	ClassExplanation        graph.IRI = Namespace + "Explanation"
)

// Predicate IRIs for a signature record.
const (
	PredConstraintComponent graph.IRI = Namespace + "constraintComponent"
	PredPropertyPath        graph.IRI = Namespace + "propertyPath"
	PredViolationType       graph.IRI = Namespace + "violationType"
	PredConstraintParams    graph.IRI = Namespace + "constraintParams"
)

// Predicate IRIs for an explanation record, linked from its signature
// via hasExplanation.
const (
	PredHasExplanation        graph.IRI = Namespace + "hasExplanation"
	PredNaturalLanguageText   graph.IRI = Namespace + "naturalLanguageText"
	PredCorrectionSuggestions graph.IRI = Namespace + "correctionSuggestions"
	PredProvidedByModel       graph.IRI = Namespace + "providedByModel"
	PredViolation             graph.IRI = Namespace + "violation"
	PredJustificationTree     graph.IRI = Namespace + "justificationTree"
	PredRetrievedContext      graph.IRI = Namespace + "retrievedContext"
)

// explanationSuffix derives the explanation record IRI from its
// signature IRI. The derivation is deterministic so re-inserting the
// same signature could never allocate a second explanation node.
const explanationSuffix = "_explanation"

// prefixes is the canonical prefix map used when serializing both the
// ontology and instance documents.
var prefixes = map[string]string{
	"rdf":  "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
	"rdfs": "http://www.w3.org/2000/01/rdf-schema#",
	"xsh":  Namespace,
}
