package graph

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
)

// EncodeTurtle serializes the graph as Turtle. Prefixes maps prefix
// names to namespace IRIs and controls which IRIs render as qualified
// names; IRIs outside every namespace render in <> form.
//
// The output is byte-stable for a given graph: prefixes, subjects, and
// predicates are sorted, rdf:type renders first as "a", and literals use
// a fixed escape set.
func EncodeTurtle(g *Graph, prefixes map[string]string) []byte {
	var buf bytes.Buffer

	names := make([]string, 0, len(prefixes))
	for name := range prefixes {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(&buf, "@prefix %s: <%s> .\n", name, prefixes[name])
	}

	triples := g.Triples()
	var subject IRI
	open := false
	for _, t := range triples {
		if t.Subject != subject {
			if open {
				buf.WriteString(" .\n")
			}
			buf.WriteString("\n")
			buf.WriteString(renderIRI(t.Subject, prefixes))
			subject = t.Subject
			open = true
		} else {
			buf.WriteString(" ;\n   ")
		}
		buf.WriteByte(' ')
		buf.WriteString(renderPredicate(t.Predicate, prefixes))
		buf.WriteByte(' ')
		buf.WriteString(renderTerm(t.Object, prefixes))
	}
	if open {
		buf.WriteString(" .\n")
	}
	return buf.Bytes()
}

// RDFType is the rdf:type predicate, rendered as the "a" keyword.
const RDFType IRI = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

func renderPredicate(p IRI, prefixes map[string]string) string {
	if p == RDFType {
		return "a"
	}
	return renderIRI(p, prefixes)
}

func renderTerm(t Term, prefixes map[string]string) string {
	switch v := t.(type) {
	case IRI:
		return renderIRI(v, prefixes)
	case Literal:
		return renderLiteral(string(v))
	}
	return ""
}

func renderIRI(iri IRI, prefixes map[string]string) string {
	s := string(iri)
	best := ""
	bestNS := ""
	for name, ns := range prefixes {
		if strings.HasPrefix(s, ns) && len(ns) > len(bestNS) {
			local := s[len(ns):]
			if validLocalName(local) {
				best = name + ":" + local
				bestNS = ns
			}
		}
	}
	if best != "" {
		return best
	}
	return "<" + s + ">"
}

// validLocalName limits qualified-name locals to a conservative subset;
// anything fancier falls back to <> form rather than risking unparsable
// output.
func validLocalName(local string) bool {
	if local == "" {
		return false
	}
	for i, r := range local {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		case (r == '-' || r == '.') && i > 0 && i < len(local)-1:
		default:
			return false
		}
	}
	return true
}

func renderLiteral(s string) string {
	var buf strings.Builder
	buf.WriteByte('"')
	for _, b := range []byte(s) {
		switch b {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			buf.WriteByte(b)
		}
	}
	buf.WriteByte('"')
	return buf.String()
}
