// Package kg implements the persistent, content-addressed violation
// explanation cache as a schema + instance knowledge graph.
//
// The store keeps two graphs: the ontology (TBox), a fixed vocabulary
// loaded read-only at open, and the instance graph (ABox) holding the
// accumulated cached facts. Only the instance graph is ever written back
// to disk, as a deterministic Turtle document replaced atomically via
// temp file + rename.
//
// # Critical Properties
//
// Insert-if-absent: Put for an already-cached signature is a no-op. The
// first stored explanation for a signature is permanent; there is no
// update path, and only Clear discards instance data.
//
// Single-writer discipline: every write re-serializes the whole instance
// graph, so mutators (Put, Clear) hold an exclusive lock per store
// instance. Readers (Has, Get, Size) share a read lock and never observe
// a partially written document.
//
// Nested payloads (violation, justification tree, retrieved context) are
// stored as self-contained JSON literals, not decomposed into further
// graph edges. That trades query-ability for simplicity; it is a
// deliberate boundary of the format, not an omission.
//
// Correction suggestions are stored newline-joined in a single literal
// and split back into a sequence on read. A suggestion may therefore not
// itself contain a newline; Put rejects one that does.
package kg
