package parser

import (
	"fmt"
	"strconv"

	"github.com/tonel-lang/tonel/ast"
)

// stonParser is a lightweight, syntax-only parser for STON metadata maps.
// It validates shape and balanced delimiters; it never normalizes or
// interprets values, per the STON map parser contract. Delimiters are
// balanced by its own recursive descent (strings and comments are skipped
// as it goes), not by scanBalanced.
type stonParser struct {
	data []byte
	pos  int
	info *ast.FileInfo
}

func newStonParser(data []byte, pos int, info *ast.FileInfo) *stonParser {
	return &stonParser{data: data, pos: pos, info: info}
}

func (p *stonParser) posAt(offset int) ast.SourcePos { return p.info.SourcePos(offset) }

func (p *stonParser) errorf(offset int, kind, format string, args ...interface{}) error {
	return &SyntaxError{Kind: kind, Reason: fmt.Sprintf(format, args...), Pos: p.posAt(offset)}
}

func (p *stonParser) skipSpace() {
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		switch {
		case c == '\n':
			p.pos++
			p.info.AddLine(p.pos)
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			p.pos++
		case c == '"':
			start := p.pos
			p.pos++
			for p.pos < len(p.data) {
				if p.data[p.pos] == '"' {
					if p.pos+1 < len(p.data) && p.data[p.pos+1] == '"' {
						p.pos += 2
						continue
					}
					p.pos++
					break
				}
				if p.data[p.pos] == '\n' {
					p.pos++
					p.info.AddLine(p.pos)
					continue
				}
				p.pos++
			}
			_ = start
		default:
			return
		}
	}
}

func (p *stonParser) peek() (byte, bool) {
	if p.pos >= len(p.data) {
		return 0, false
	}
	return p.data[p.pos], true
}

// parseMap parses `{ entry (, entry)* ,? }`.
func (p *stonParser) parseMap() (*ast.StonMap, error) {
	start := p.pos
	if c, ok := p.peek(); !ok || c != '{' {
		return nil, p.errorf(p.pos, "ExpectedToken", "expected '{' to begin a STON map")
	}
	p.pos++
	m := &ast.StonMap{Pos: p.posAt(start)}

	p.skipSpace()
	for {
		if c, ok := p.peek(); ok && c == '}' {
			p.pos++
			return m, nil
		}
		if _, ok := p.peek(); !ok {
			return nil, p.errorf(start, "UnterminatedMetadata", "unterminated STON map")
		}
		key, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if _, ok := p.peek(); !ok {
			return nil, p.errorf(start, "UnterminatedMetadata", "unterminated STON map")
		}
		if c, _ := p.peek(); c != ':' {
			return nil, p.errorf(p.pos, "ExpectedToken", "expected ':' after STON map key")
		}
		p.pos++
		p.skipSpace()
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		m.Entries = append(m.Entries, ast.StonEntry{Key: key, Value: value})
		p.skipSpace()
		if c, ok := p.peek(); ok && c == ',' {
			p.pos++
			p.skipSpace()
			continue
		}
		if c, ok := p.peek(); ok && c == '}' {
			p.pos++
			return m, nil
		}
		if _, ok := p.peek(); !ok {
			return nil, p.errorf(start, "UnterminatedMetadata", "unterminated STON map")
		}
		return nil, p.errorf(p.pos, "ExpectedToken", "expected ',' or '}' in STON map")
	}
}

// parseValue parses: primitive | object | list | association | map | reference.
func (p *stonParser) parseValue() (ast.StonValue, error) {
	p.skipSpace()
	start := p.pos
	c, ok := p.peek()
	if !ok {
		return ast.StonValue{}, p.errorf(p.pos, "UnexpectedEOF", "expected a STON value")
	}

	switch {
	case c == '{':
		m, err := p.parseMap()
		if err != nil {
			return ast.StonValue{}, err
		}
		return ast.StonValue{Pos: p.posAt(start), Kind: ast.StonMapKind, Map: m}, nil
	case c == '[':
		return p.parseList(start)
	case c == '\'':
		s, err := p.parseStonString()
		if err != nil {
			return ast.StonValue{}, err
		}
		return ast.StonValue{Pos: p.posAt(start), Kind: ast.StonString, Scalar: s}, nil
	case c == '#':
		return p.parseSymbolOrObject(start)
	case c == '@':
		p.pos++
		digStart := p.pos
		for p.pos < len(p.data) && isDigit(p.data[p.pos]) {
			p.pos++
		}
		if p.pos == digStart {
			return ast.StonValue{}, p.errorf(start, "UnexpectedToken", "expected digits after '@' reference")
		}
		n, _ := strconv.ParseInt(string(p.data[digStart:p.pos]), 10, 64)
		return ast.StonValue{Pos: p.posAt(start), Kind: ast.StonReference, Scalar: n}, nil
	case isDigit(c) || c == '-':
		return p.parseStonNumber(start)
	case isIdentifierStart(c):
		word := p.parseWord()
		switch word {
		case "true":
			return ast.StonValue{Pos: p.posAt(start), Kind: ast.StonBool, Scalar: true}, nil
		case "false":
			return ast.StonValue{Pos: p.posAt(start), Kind: ast.StonBool, Scalar: false}, nil
		case "nil":
			return ast.StonValue{Pos: p.posAt(start), Kind: ast.StonNil}, nil
		default:
			// A bare class tag introduces an object whose body is a list or map.
			p.skipSpace()
			if c, ok := p.peek(); ok && (c == '{' || c == '[') {
				body, err := p.parseValue()
				if err != nil {
					return ast.StonValue{}, err
				}
				return ast.StonValue{Pos: p.posAt(start), Kind: ast.StonObject, ObjectTag: word, ObjectBody: &body}, nil
			}
			return ast.StonValue{}, p.errorf(start, "UnexpectedToken", "unexpected bareword %q in STON value", word)
		}
	default:
		return ast.StonValue{}, p.errorf(start, "UnexpectedToken", "unexpected character %q in STON value", c)
	}
}

func (p *stonParser) parseWord() string {
	start := p.pos
	for p.pos < len(p.data) && isIdentifierPart(p.data[p.pos]) {
		p.pos++
	}
	return string(p.data[start:p.pos])
}

func (p *stonParser) parseList(start int) (ast.StonValue, error) {
	p.pos++ // consume '['
	var list []ast.StonValue
	p.skipSpace()
	for {
		if c, ok := p.peek(); ok && c == ']' {
			p.pos++
			return ast.StonValue{Pos: p.posAt(start), Kind: ast.StonList, List: list}, nil
		}
		if _, ok := p.peek(); !ok {
			return ast.StonValue{}, p.errorf(start, "UnterminatedMetadata", "unterminated STON list")
		}
		v, err := p.parseValue()
		if err != nil {
			return ast.StonValue{}, err
		}
		p.skipSpace()
		// A list element may itself be a `key : value` association.
		if c, ok := p.peek(); ok && c == ':' {
			assocStart := v.Pos
			p.pos++
			p.skipSpace()
			val, err := p.parseValue()
			if err != nil {
				return ast.StonValue{}, err
			}
			entry := ast.StonEntry{Key: v, Value: val}
			v = ast.StonValue{Pos: assocStart, Kind: ast.StonAssociation, Association: &entry}
			p.skipSpace()
		}
		list = append(list, v)
		if c, ok := p.peek(); ok && c == ',' {
			p.pos++
			p.skipSpace()
			continue
		}
		if c, ok := p.peek(); ok && c == ']' {
			p.pos++
			return ast.StonValue{Pos: p.posAt(start), Kind: ast.StonList, List: list}, nil
		}
		if _, ok := p.peek(); !ok {
			return ast.StonValue{}, p.errorf(start, "UnterminatedMetadata", "unterminated STON list")
		}
		return ast.StonValue{}, p.errorf(p.pos, "ExpectedToken", "expected ',' or ']' in STON list")
	}
}

func (p *stonParser) parseStonString() (string, error) {
	start := p.pos
	p.pos++ // consume opening '
	var out []byte
	for {
		if p.pos >= len(p.data) {
			return "", p.errorf(start, "UnterminatedString", "unterminated STON string")
		}
		c := p.data[p.pos]
		if c == '\n' {
			p.pos++
			p.info.AddLine(p.pos)
			out = append(out, c)
			continue
		}
		if c == '\'' {
			if p.pos+1 < len(p.data) && p.data[p.pos+1] == '\'' {
				out = append(out, '\'')
				p.pos += 2
				continue
			}
			p.pos++
			return string(out), nil
		}
		out = append(out, c)
		p.pos++
	}
}

// parseSymbolOrObject handles '#' introducing a symbol/string key, or
// '#ClassTag' introducing an object whose body is a list or map.
func (p *stonParser) parseSymbolOrObject(start int) (ast.StonValue, error) {
	p.pos++ // consume '#'
	if c, ok := p.peek(); ok && c == '\'' {
		s, err := p.parseStonString()
		if err != nil {
			return ast.StonValue{}, err
		}
		return ast.StonValue{Pos: p.posAt(start), Kind: ast.StonSymbol, Scalar: s}, nil
	}
	if c, ok := p.peek(); !ok || !isIdentifierStart(c) {
		return ast.StonValue{}, p.errorf(start, "UnexpectedToken", "expected identifier after '#'")
	}
	tag := p.parseWord()
	// Keyword-shaped symbol: #category: style tags are string keys.
	for {
		if c, ok := p.peek(); ok && c == ':' {
			p.pos++
			tag += ":"
			tag += p.parseWord()
			continue
		}
		break
	}
	p.skipSpace()
	if c, ok := p.peek(); ok && (c == '{' || c == '[') {
		body, err := p.parseValue()
		if err != nil {
			return ast.StonValue{}, err
		}
		return ast.StonValue{Pos: p.posAt(start), Kind: ast.StonObject, ObjectTag: tag, ObjectBody: &body}, nil
	}
	return ast.StonValue{Pos: p.posAt(start), Kind: ast.StonSymbol, Scalar: tag}, nil
}

func (p *stonParser) parseStonNumber(start int) (ast.StonValue, error) {
	if c, ok := p.peek(); ok && c == '-' {
		p.pos++
	}
	digitsStart := p.pos
	for p.pos < len(p.data) && isDigit(p.data[p.pos]) {
		p.pos++
	}
	if p.pos == digitsStart {
		return ast.StonValue{}, p.errorf(start, "UnexpectedToken", "invalid number literal")
	}
	isFloat := false
	if c, ok := p.peek(); ok && c == '.' {
		if next := p.pos + 1; next < len(p.data) && isDigit(p.data[next]) {
			isFloat = true
			p.pos++
			for p.pos < len(p.data) && isDigit(p.data[p.pos]) {
				p.pos++
			}
		}
	}
	text := string(p.data[start:p.pos])
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return ast.StonValue{}, p.errorf(start, "UnexpectedToken", "invalid float literal %q", text)
		}
		return ast.StonValue{Pos: p.posAt(start), Kind: ast.StonNumber, Scalar: f}, nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return ast.StonValue{}, p.errorf(start, "UnexpectedToken", "invalid integer literal %q", text)
	}
	return ast.StonValue{Pos: p.posAt(start), Kind: ast.StonNumber, Scalar: n}, nil
}

// parseStonMap parses a STON map `{ ... }` starting at pos and returns it
// along with the offset immediately after the closing '}'.
func parseStonMap(data []byte, pos int, info *ast.FileInfo) (*ast.StonMap, int, error) {
	p := newStonParser(data, pos, info)
	m, err := p.parseMap()
	if err != nil {
		return nil, 0, err
	}
	return m, p.pos, nil
}
