// Package testutil provides shared fixture builders for cache tests.
package testutil

import (
	"github.com/google/uuid"

	"github.com/gcpdev/xshacl/internal/model"
	"github.com/gcpdev/xshacl/internal/signature"
)

// NewFocusNode returns a unique focus node identifier. Signatures strip
// the focus node, so fixtures built on distinct nodes prove that
// instance details never influence the cache key.
//
// Uses UUIDv7 so generated nodes also sort by creation order in fixtures.
func NewFocusNode() string {
	return "ex:node-" + uuid.Must(uuid.NewV7()).String()
}

// MinCountSignature is the canonical test signature: a sh:minCount
// violation on ex:hasName.
func MinCountSignature() signature.Signature {
	return signature.Signature{
		ConstraintID: "sh:MinCountConstraintComponent",
		PropertyPath: "ex:hasName",
		Type:         model.Cardinality,
		Params:       model.Object{"minCount": model.String("1")},
	}
}

// MinCountViolation builds a concrete occurrence matching
// MinCountSignature for the given focus node.
func MinCountViolation(focusNode string) *model.ConstraintViolation {
	return &model.ConstraintViolation{
		FocusNode:     focusNode,
		ShapeID:       "ex:PersonShape",
		ConstraintID:  "sh:MinCountConstraintComponent",
		ViolationType: model.Cardinality,
		PropertyPath:  "ex:hasName",
		Message:       "Less than 1 value on ex:hasName",
		Severity:      "sh:Violation",
		Context: model.Object{
			"minCount": model.Int(1),
			"actual":   model.Int(0),
		},
	}
}

// DeepTree builds a justification tree of depth 3 with branching 2 at
// the root, enough structure to exercise nested round-trips.
func DeepTree(violation *model.ConstraintViolation) *model.JustificationTree {
	obs := &model.JustificationNode{
		Statement: "The focus node has no ex:hasName value.",
		Type:      model.NodeObservation,
		Evidence:  "zero matching triples",
	}
	obs.AddChild(&model.JustificationNode{
		Statement: "Counting triples with predicate ex:hasName returned 0.",
		Type:      model.NodeInference,
	})

	premise := &model.JustificationNode{
		Statement: "ex:PersonShape requires at least 1 ex:hasName value.",
		Type:      model.NodePremise,
		Evidence:  "sh:minCount 1",
	}
	premise.AddChild(&model.JustificationNode{
		Statement: "sh:minCount constrains the minimum cardinality of a property.",
		Type:      model.NodePremise,
	})

	root := &model.JustificationNode{
		Statement: "The node violates the minimum cardinality constraint.",
		Type:      model.NodeConclusion,
	}
	root.AddChild(premise)
	root.AddChild(obs)

	return model.NewJustificationTree(root, violation)
}

// FullContext builds a DomainContext with every field populated.
func FullContext() *model.DomainContext {
	return &model.DomainContext{
		OntologyFragments:  []string{"ex:Person rdfs:subClassOf ex:Agent .", "ex:hasName rdfs:domain ex:Person ."},
		ShapeDocumentation: []string{"Every person must have a name."},
		SimilarCases: []model.Object{
			{"focus_node": model.String("ex:alice"), "resolved": model.Bool(true)},
			{"focus_node": model.String("ex:bob"), "resolved": model.Bool(false)},
		},
		DomainRules: []string{"Names are mandatory for person records."},
	}
}

// Explanation builds a fully populated ExplanationOutput for focusNode.
func Explanation(focusNode string) *model.ExplanationOutput {
	violation := MinCountViolation(focusNode)
	return &model.ExplanationOutput{
		NaturalLanguageExplanation: "Node is missing a required name.",
		CorrectionSuggestions:      []string{"Add an ex:hasName value.", "Check upstream data ingestion."},
		Violation:                  violation,
		JustificationTree:          DeepTree(violation),
		RetrievedContext:           FullContext(),
		ProvidedByModel:            "model-v1",
	}
}
