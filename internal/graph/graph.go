package graph

import (
	"slices"
	"strings"
)

// Term is a sealed interface over the two term kinds that may appear in
// object position: IRI and Literal. Subjects and predicates are always
// IRIs.
type Term interface {
	term() // sealed
}

// IRI is an absolute IRI reference.
type IRI string

func (IRI) term() {}

// Literal is a plain string literal.
type Literal string

func (Literal) term() {}

// Triple is one subject-predicate-object fact.
type Triple struct {
	Subject   IRI
	Predicate IRI
	Object    Term
}

// Graph is a set of triples. The zero value is not usable; call New.
// Graph itself is not safe for concurrent mutation; callers own locking.
type Graph struct {
	triples map[Triple]struct{}
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{triples: make(map[Triple]struct{})}
}

// Add inserts a triple. Returns false if it was already present.
func (g *Graph) Add(s, p IRI, o Term) bool {
	t := Triple{Subject: s, Predicate: p, Object: o}
	if _, ok := g.triples[t]; ok {
		return false
	}
	g.triples[t] = struct{}{}
	return true
}

// Remove deletes a triple if present.
func (g *Graph) Remove(s, p IRI, o Term) {
	delete(g.triples, Triple{Subject: s, Predicate: p, Object: o})
}

// Has reports whether the exact triple is present.
func (g *Graph) Has(s, p IRI, o Term) bool {
	_, ok := g.triples[Triple{Subject: s, Predicate: p, Object: o}]
	return ok
}

// Value returns the object of the (s, p, ?) triple. When several objects
// exist for the pair, the smallest in sort order is returned so lookups
// stay deterministic. The second result is false if no triple matches.
func (g *Graph) Value(s, p IRI) (Term, bool) {
	var found []Term
	for t := range g.triples {
		if t.Subject == s && t.Predicate == p {
			found = append(found, t.Object)
		}
	}
	if len(found) == 0 {
		return nil, false
	}
	slices.SortFunc(found, compareTerms)
	return found[0], true
}

// SubjectsWithType returns all subjects carrying an rdf:type of typ,
// sorted for deterministic iteration.
func (g *Graph) SubjectsWithType(rdfType, typ IRI) []IRI {
	var subjects []IRI
	for t := range g.triples {
		if t.Predicate == rdfType && t.Object == Term(typ) {
			subjects = append(subjects, t.Subject)
		}
	}
	slices.SortFunc(subjects, func(a, b IRI) int { return strings.Compare(string(a), string(b)) })
	return subjects
}

// Len returns the number of triples.
func (g *Graph) Len() int {
	return len(g.triples)
}

// Triples returns all triples in canonical order: by subject, then
// predicate, then object.
func (g *Graph) Triples() []Triple {
	out := make([]Triple, 0, len(g.triples))
	for t := range g.triples {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b Triple) int {
		if c := strings.Compare(string(a.Subject), string(b.Subject)); c != 0 {
			return c
		}
		if c := strings.Compare(string(a.Predicate), string(b.Predicate)); c != 0 {
			return c
		}
		return compareTerms(a.Object, b.Object)
	})
	return out
}

// compareTerms orders IRIs before literals, then by text.
func compareTerms(a, b Term) int {
	ai, aIRI := a.(IRI)
	bi, bIRI := b.(IRI)
	switch {
	case aIRI && bIRI:
		return strings.Compare(string(ai), string(bi))
	case aIRI:
		return -1
	case bIRI:
		return 1
	}
	return strings.Compare(string(a.(Literal)), string(b.(Literal)))
}
