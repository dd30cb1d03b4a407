package kg

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gcpdev/xshacl/internal/graph"
	"github.com/gcpdev/xshacl/internal/model"
	"github.com/gcpdev/xshacl/internal/signature"
)

// encodeEntry writes the signature and explanation records for token
// into g and returns the triples it added. All encoding happens before
// the first triple is added, so a marshal failure leaves g untouched.
func encodeEntry(g *graph.Graph, token string, sig signature.Signature, expl *model.ExplanationOutput) ([]graph.Triple, error) {
	sigNode := sigIRI(token)
	explNode := explIRI(token)

	var triples []graph.Triple
	add := func(s, p graph.IRI, o graph.Term) {
		triples = append(triples, graph.Triple{Subject: s, Predicate: p, Object: o})
	}

	add(sigNode, graph.RDFType, ClassViolationSignature)
	add(sigNode, PredConstraintComponent, graph.Literal(sig.ConstraintID))
	if sig.PropertyPath != "" {
		add(sigNode, PredPropertyPath, graph.Literal(sig.PropertyPath))
	}
	if sig.Type != "" {
		add(sigNode, PredViolationType, graph.Literal(sig.Type))
	}
	if len(sig.Params) > 0 {
		params, err := model.MarshalCanonical(sig.Params)
		if err != nil {
			return nil, &signature.ValidationError{Field: "constraint_params", Err: err}
		}
		add(sigNode, PredConstraintParams, graph.Literal(params))
	}

	add(explNode, graph.RDFType, ClassExplanation)
	add(sigNode, PredHasExplanation, explNode)

	if expl.NaturalLanguageExplanation != "" {
		add(explNode, PredNaturalLanguageText, graph.Literal(expl.NaturalLanguageExplanation))
	}
	if len(expl.CorrectionSuggestions) > 0 {
		// the joined storage form cannot represent embedded newlines
		for i, s := range expl.CorrectionSuggestions {
			if strings.Contains(s, "\n") {
				return nil, &signature.ValidationError{
					Field: "correction_suggestions",
					Err:   fmt.Errorf("suggestion %d contains a newline", i),
				}
			}
		}
		add(explNode, PredCorrectionSuggestions, graph.Literal(strings.Join(expl.CorrectionSuggestions, "\n")))
	}
	if expl.ProvidedByModel != "" {
		add(explNode, PredProvidedByModel, graph.Literal(expl.ProvidedByModel))
	}

	if expl.Violation != nil {
		blob, err := json.Marshal(expl.Violation)
		if err != nil {
			return nil, fmt.Errorf("encode violation: %w", err)
		}
		add(explNode, PredViolation, graph.Literal(blob))
	}
	if expl.JustificationTree != nil {
		blob, err := json.Marshal(expl.JustificationTree)
		if err != nil {
			return nil, fmt.Errorf("encode justification tree: %w", err)
		}
		add(explNode, PredJustificationTree, graph.Literal(blob))
	}
	if expl.RetrievedContext != nil {
		blob, err := json.Marshal(expl.RetrievedContext)
		if err != nil {
			return nil, fmt.Errorf("encode retrieved context: %w", err)
		}
		add(explNode, PredRetrievedContext, graph.Literal(blob))
	}

	for _, t := range triples {
		g.Add(t.Subject, t.Predicate, t.Object)
	}
	return triples, nil
}

// decodeExplanation reconstructs an ExplanationOutput from the
// explanation record at explNode. Fields not present in storage decode
// to their type's absent value; nested blobs that fail to decode surface
// as *EncodingError.
func decodeExplanation(g *graph.Graph, explNode graph.IRI, token string) (*model.ExplanationOutput, error) {
	out := &model.ExplanationOutput{
		NaturalLanguageExplanation: literalValue(g, explNode, PredNaturalLanguageText),
		ProvidedByModel:            literalValue(g, explNode, PredProvidedByModel),
	}

	if joined, ok := literal(g, explNode, PredCorrectionSuggestions); ok {
		// stored newline-joined; read back as the original sequence
		out.CorrectionSuggestions = strings.Split(joined, "\n")
	}

	if blob, ok := literal(g, explNode, PredViolation); ok {
		var v model.ConstraintViolation
		if err := json.Unmarshal([]byte(blob), &v); err != nil {
			return nil, &EncodingError{Token: token, Field: "violation", Err: err}
		}
		out.Violation = &v
	}
	if blob, ok := literal(g, explNode, PredJustificationTree); ok {
		var tree model.JustificationTree
		if err := json.Unmarshal([]byte(blob), &tree); err != nil {
			return nil, &EncodingError{Token: token, Field: "justificationTree", Err: err}
		}
		out.JustificationTree = &tree
	}
	if blob, ok := literal(g, explNode, PredRetrievedContext); ok {
		var ctx model.DomainContext
		if err := json.Unmarshal([]byte(blob), &ctx); err != nil {
			return nil, &EncodingError{Token: token, Field: "retrievedContext", Err: err}
		}
		out.RetrievedContext = &ctx
	}

	return out, nil
}

// literal returns the literal object of (subject, predicate) if present.
func literal(g *graph.Graph, subject, predicate graph.IRI) (string, bool) {
	term, ok := g.Value(subject, predicate)
	if !ok {
		return "", false
	}
	lit, ok := term.(graph.Literal)
	if !ok {
		return "", false
	}
	return string(lit), true
}

func literalValue(g *graph.Graph, subject, predicate graph.IRI) string {
	s, _ := literal(g, subject, predicate)
	return s
}
