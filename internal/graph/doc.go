// Package graph provides a small in-memory subject-predicate-object
// triple graph with a deterministic Turtle serialization and a parser
// for the subset of Turtle the store persists.
//
// This is deliberately not a general graph database: there is no query
// language, no blank nodes, no datatyped or language-tagged literals.
// Identity lookup over IRIs and plain string literals is all the
// violation cache needs, and the serialized form is byte-stable for a
// given set of triples, which makes persisted documents diffable and
// golden-testable.
package graph
