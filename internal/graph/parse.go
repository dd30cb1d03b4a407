package graph

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ParseError reports a malformed Turtle document.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("turtle: line %d: %s", e.Line, e.Msg)
}

// ParseTurtle parses the Turtle subset emitted by EncodeTurtle: @prefix
// directives, IRI references, qualified names, the "a" keyword, plain
// quoted literals with backslash escapes, predicate lists (;), object
// lists (,), and # comments. Blank nodes, datatypes, language tags, and
// multi-line literals are not part of the persisted format and are
// rejected.
func ParseTurtle(data []byte) (*Graph, error) {
	p := &parser{input: string(data), line: 1}
	g := New()
	for {
		p.skipSpace()
		if p.done() {
			return g, nil
		}
		if p.peek() == '@' {
			if err := p.parsePrefix(); err != nil {
				return nil, err
			}
			continue
		}
		if err := p.parseStatement(g); err != nil {
			return nil, err
		}
	}
}

type parser struct {
	input    string
	pos      int
	line     int
	prefixes map[string]string
}

func (p *parser) done() bool { return p.pos >= len(p.input) }

func (p *parser) peek() byte { return p.input[p.pos] }

func (p *parser) errf(format string, args ...any) error {
	return &ParseError{Line: p.line, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) skipSpace() {
	for !p.done() {
		c := p.peek()
		switch {
		case c == '\n':
			p.line++
			p.pos++
		case c == ' ' || c == '\t' || c == '\r':
			p.pos++
		case c == '#':
			for !p.done() && p.peek() != '\n' {
				p.pos++
			}
		default:
			return
		}
	}
}

// parsePrefix consumes "@prefix name: <iri> ."
func (p *parser) parsePrefix() error {
	if !strings.HasPrefix(p.input[p.pos:], "@prefix") {
		return p.errf("unknown directive")
	}
	p.pos += len("@prefix")
	p.skipSpace()

	start := p.pos
	for !p.done() && p.peek() != ':' {
		p.pos++
	}
	if p.done() {
		return p.errf("unterminated prefix name")
	}
	name := strings.TrimSpace(p.input[start:p.pos])
	p.pos++ // ':'

	p.skipSpace()
	ns, err := p.parseIRIRef()
	if err != nil {
		return err
	}
	p.skipSpace()
	if p.done() || p.peek() != '.' {
		return p.errf("expected '.' after @prefix")
	}
	p.pos++

	if p.prefixes == nil {
		p.prefixes = make(map[string]string)
	}
	p.prefixes[name] = string(ns)
	return nil
}

// parseStatement consumes "subject pred obj (, obj)* (; pred obj ...)* ."
func (p *parser) parseStatement(g *Graph) error {
	subjTerm, err := p.parseTerm()
	if err != nil {
		return err
	}
	subject, ok := subjTerm.(IRI)
	if !ok {
		return p.errf("subject must be an IRI")
	}

	for {
		p.skipSpace()
		predTerm, err := p.parseTerm()
		if err != nil {
			return err
		}
		predicate, ok := predTerm.(IRI)
		if !ok {
			return p.errf("predicate must be an IRI")
		}

		for {
			p.skipSpace()
			object, err := p.parseTerm()
			if err != nil {
				return err
			}
			g.Add(subject, predicate, object)

			p.skipSpace()
			if p.done() {
				return p.errf("unterminated statement")
			}
			if p.peek() == ',' {
				p.pos++
				continue
			}
			break
		}

		switch p.peek() {
		case ';':
			p.pos++
			p.skipSpace()
			// tolerate a trailing ';' before '.'
			if !p.done() && p.peek() == '.' {
				p.pos++
				return nil
			}
			continue
		case '.':
			p.pos++
			return nil
		default:
			return p.errf("expected ';' or '.' after object, got %q", p.peek())
		}
	}
}

func (p *parser) parseTerm() (Term, error) {
	if p.done() {
		return nil, p.errf("unexpected end of input")
	}
	switch c := p.peek(); {
	case c == '<':
		return p.parseIRIRef()
	case c == '"':
		return p.parseLiteral()
	default:
		return p.parsePName()
	}
}

func (p *parser) parseIRIRef() (IRI, error) {
	p.pos++ // '<'
	start := p.pos
	for !p.done() && p.peek() != '>' {
		if p.peek() == '\n' {
			return "", p.errf("newline inside IRI reference")
		}
		p.pos++
	}
	if p.done() {
		return "", p.errf("unterminated IRI reference")
	}
	iri := p.input[start:p.pos]
	p.pos++ // '>'
	return IRI(iri), nil
}

func (p *parser) parseLiteral() (Literal, error) {
	p.pos++ // opening '"'
	var buf strings.Builder
	for {
		if p.done() {
			return "", p.errf("unterminated string literal")
		}
		c := p.peek()
		switch c {
		case '"':
			p.pos++
			// datatype/language suffixes are outside the subset
			if !p.done() && (p.peek() == '^' || p.peek() == '@') {
				return "", p.errf("datatyped and language-tagged literals are not supported")
			}
			return Literal(buf.String()), nil
		case '\n':
			return "", p.errf("unescaped newline in string literal")
		case '\\':
			p.pos++
			if p.done() {
				return "", p.errf("unterminated escape sequence")
			}
			esc := p.peek()
			p.pos++
			switch esc {
			case '"':
				buf.WriteByte('"')
			case '\\':
				buf.WriteByte('\\')
			case 'n':
				buf.WriteByte('\n')
			case 'r':
				buf.WriteByte('\r')
			case 't':
				buf.WriteByte('\t')
			case 'u':
				if p.pos+4 > len(p.input) {
					return "", p.errf("truncated \\u escape")
				}
				code, err := strconv.ParseUint(p.input[p.pos:p.pos+4], 16, 32)
				if err != nil {
					return "", p.errf("invalid \\u escape: %v", err)
				}
				p.pos += 4
				buf.WriteRune(rune(code))
			default:
				return "", p.errf("unknown escape sequence \\%c", esc)
			}
		default:
			r, size := utf8.DecodeRuneInString(p.input[p.pos:])
			buf.WriteRune(r)
			p.pos += size
		}
	}
}

// parsePName consumes a qualified name (prefix:local) or the "a"
// keyword and resolves it against declared prefixes.
func (p *parser) parsePName() (Term, error) {
	start := p.pos
	for !p.done() {
		c := p.peek()
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == ';' || c == ',' || c == '#' {
			break
		}
		// a final '.' is the statement terminator, not part of the name
		if c == '.' && (p.pos+1 >= len(p.input) || isTermBoundary(p.input[p.pos+1])) {
			break
		}
		p.pos++
	}
	name := p.input[start:p.pos]
	if name == "" {
		return nil, p.errf("expected term")
	}
	if name == "a" {
		return RDFType, nil
	}
	colon := strings.IndexByte(name, ':')
	if colon < 0 {
		return nil, p.errf("expected qualified name, got %q", name)
	}
	prefix, local := name[:colon], name[colon+1:]
	ns, ok := p.prefixes[prefix]
	if !ok {
		return nil, p.errf("undeclared prefix %q", prefix)
	}
	return IRI(ns + local), nil
}

func isTermBoundary(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '#'
}
