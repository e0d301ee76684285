package parser

import (
	"fmt"

	"github.com/tonel-lang/tonel/ast"
	"github.com/tonel-lang/tonel/reporter"
)

// tonelParser extracts a Tonel file's structural regions: the optional
// header comment, the class head, and each method's metadata, reference,
// and raw body text — without interpreting method bodies as Smalltalk.
type tonelParser struct {
	data []byte
	pos  int
	info *ast.FileInfo
}

// ParseTonel parses the structural regions of a Tonel file. It does not
// validate method bodies as Smalltalk; use ParseTonelFull for that.
func ParseTonel(filename string, data []byte) (*ast.TonelFile, *ast.FileInfo, error) {
	p := &tonelParser{data: data, info: ast.NewFileInfo(filename, data)}
	file, err := p.parseFile()
	if err != nil {
		h := reporter.NewHandler()
		return nil, p.info, h.HandleError(err)
	}
	return file, p.info, nil
}

func (p *tonelParser) posAt(offset int) ast.SourcePos { return p.info.SourcePos(offset) }

func (p *tonelParser) errorf(offset int, kind, format string, args ...interface{}) error {
	return &SyntaxError{Kind: kind, Reason: fmt.Sprintf(format, args...), Pos: p.posAt(offset)}
}

func (p *tonelParser) peek() (byte, bool) {
	if p.pos >= len(p.data) {
		return 0, false
	}
	return p.data[p.pos], true
}

// skipWhitespace advances over runs of whitespace only, recording newlines.
// Unlike Smalltalk source, the Tonel structural skeleton (outside method
// bodies and STON values) carries no comments of its own.
func (p *tonelParser) skipWhitespace() {
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		switch c {
		case '\n':
			p.pos++
			p.info.AddLine(p.pos)
		case ' ', '\t', '\r', '\f', '\v':
			p.pos++
		default:
			return
		}
	}
}

func (p *tonelParser) parseFile() (*ast.TonelFile, error) {
	file := &ast.TonelFile{}

	p.skipWhitespace()
	if c, ok := p.peek(); ok && c == '"' {
		comment, err := p.parseHeaderComment()
		if err != nil {
			return nil, err
		}
		file.Comment = &comment
	}

	p.skipWhitespace()
	classDef, err := p.parseClassHead()
	if err != nil {
		return nil, err
	}
	file.ClassDefinition = classDef

	for {
		p.skipWhitespace()
		if p.pos >= len(p.data) {
			break
		}
		// A method starts with its metadata map or its class name; anything
		// else is trailing content.
		if c := p.data[p.pos]; c != '{' && (c < 'A' || c > 'Z') {
			break
		}
		method, err := p.parseMethod()
		if err != nil {
			return nil, err
		}
		file.Methods = append(file.Methods, method)
	}

	p.skipWhitespace()
	if p.pos < len(p.data) {
		return nil, p.errorf(p.pos, "UnexpectedTrailingContent", "unexpected content after last method")
	}

	return file, nil
}

// parseHeaderComment consumes a leading "..." comment, honoring doubled ""
// as an escaped quote, and returns its inner text with the escape collapsed.
func (p *tonelParser) parseHeaderComment() (string, error) {
	start := p.pos
	p.pos++ // consume opening '"'
	var out []byte
	for {
		if p.pos >= len(p.data) {
			return "", p.errorf(start, "UnterminatedComment", "unterminated header comment")
		}
		c := p.data[p.pos]
		if c == '\n' {
			p.pos++
			p.info.AddLine(p.pos)
			out = append(out, c)
			continue
		}
		if c == '"' {
			if p.pos+1 < len(p.data) && p.data[p.pos+1] == '"' {
				out = append(out, '"')
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

// parseClassHead expects one of Class|Trait|Extension|Package, whitespace,
// then a STON metadata map.
func (p *tonelParser) parseClassHead() (ast.ClassDefinition, error) {
	start := p.pos
	word := p.parseWord()
	kind, ok := ast.ParseClassKind(word)
	if !ok {
		return ast.ClassDefinition{}, p.errorf(start, "UnexpectedToken", "expected Class, Trait, Extension, or Package, found %q", word)
	}
	p.skipWhitespace()
	if c, ok := p.peek(); !ok || c != '{' {
		return ast.ClassDefinition{}, p.errorf(p.pos, "ExpectedToken", "expected '{' to begin class metadata")
	}
	metadata, next, err := parseStonMap(p.data, p.pos, p.info)
	if err != nil {
		return ast.ClassDefinition{}, err
	}
	p.pos = next
	return ast.ClassDefinition{Pos: p.posAt(start), Kind: kind, Metadata: metadata}, nil
}

func (p *tonelParser) parseWord() string {
	start := p.pos
	for p.pos < len(p.data) && isIdentifierPart(p.data[p.pos]) {
		p.pos++
	}
	return string(p.data[start:p.pos])
}

// parseMethod parses one method definition: optional metadata, a method
// reference, and a bracket-delimited body.
func (p *tonelParser) parseMethod() (ast.MethodDefinition, error) {
	start := p.pos
	var metadata *ast.StonMap
	if c, ok := p.peek(); ok && c == '{' {
		m, next, err := parseStonMap(p.data, p.pos, p.info)
		if err != nil {
			return ast.MethodDefinition{}, err
		}
		metadata = m
		p.pos = next
		p.skipWhitespace()
	}

	className, isClassMethod, selector, selKind, err := p.parseMethodReference()
	if err != nil {
		return ast.MethodDefinition{}, err
	}

	p.skipWhitespace()
	if c, ok := p.peek(); !ok || c != '[' {
		return ast.MethodDefinition{}, p.errorf(p.pos, "ExpectedToken", "expected '[' to begin method body")
	}
	bracketPos := p.pos
	end, err := findMethodBodyEnd(p.data, bracketPos)
	if err != nil {
		return ast.MethodDefinition{}, p.errorf(bracketPos, "UnbalancedBrackets", "unmatched '[' with no closing ']'")
	}
	body := string(p.data[bracketPos+1 : end])
	bodyStart := p.posAt(bracketPos + 1)

	// Register any newlines inside the body so subsequent structural
	// scanning continues to report correct line numbers.
	for i := bracketPos + 1; i < end; i++ {
		if p.data[i] == '\n' {
			p.info.AddLine(i + 1)
		}
	}
	p.pos = end + 1

	return ast.MethodDefinition{
		Pos:             p.posAt(start),
		Metadata:        metadata,
		ClassName:       className,
		IsClassMethod:   isClassMethod,
		Selector:        selector,
		SelectorKind:    selKind,
		Body:            body,
		BodyStartLine:   bodyStart.Line,
		BodyStartColumn: bodyStart.Col,
	}, nil
}

// parseMethodReference parses `ClassName (" class")? " >> " selector`. The
// separator is literally " >> " (space-greater-greater-space), with
// tolerance for runs of spaces or tabs on either side; at least one is
// required on each side.
func (p *tonelParser) parseMethodReference() (className string, isClassMethod bool, selector string, kind ast.SelectorKind, err error) {
	start := p.pos
	if c, ok := p.peek(); !ok || c < 'A' || c > 'Z' {
		return "", false, "", 0, p.errorf(start, "UnexpectedToken", "expected a class name starting with an uppercase letter")
	}
	className = p.parseWord()

	p.skipSpacesOnly()
	if p.matchWord("class") {
		isClassMethod = true
		p.skipSpacesOnly()
	}

	if c := p.data[p.pos-1]; (c != ' ' && c != '\t') || !p.consumeLiteral(">>") {
		return "", false, "", 0, p.errorf(p.pos, "ExpectedToken", "expected ' >> ' in method reference")
	}
	sepEnd := p.pos
	p.skipSpacesOnly()
	if p.pos == sepEnd {
		return "", false, "", 0, p.errorf(p.pos, "ExpectedToken", "expected whitespace after '>>' in method reference")
	}

	selector, kind, err = p.parseSelector()
	if err != nil {
		return "", false, "", 0, err
	}
	return className, isClassMethod, selector, kind, nil
}

// skipSpacesOnly advances over runs of horizontal whitespace (no newlines),
// since the method-reference line is a single logical line.
func (p *tonelParser) skipSpacesOnly() {
	for p.pos < len(p.data) && (p.data[p.pos] == ' ' || p.data[p.pos] == '\t') {
		p.pos++
	}
}

func (p *tonelParser) matchWord(word string) bool {
	end := p.pos + len(word)
	if end > len(p.data) || string(p.data[p.pos:end]) != word {
		return false
	}
	if end < len(p.data) && isIdentifierPart(p.data[end]) {
		return false
	}
	p.pos = end
	return true
}

func (p *tonelParser) consumeLiteral(lit string) bool {
	end := p.pos + len(lit)
	if end > len(p.data) || string(p.data[p.pos:end]) != lit {
		return false
	}
	p.pos = end
	return true
}

// parseSelector matches an identifier (unary), a keyword-selector (one or
// more "ident:" segments, each optionally followed by a discarded argument
// placeholder name), or a binary-selector (optionally followed by a
// discarded argument placeholder name).
func (p *tonelParser) parseSelector() (string, ast.SelectorKind, error) {
	start := p.pos
	if c, ok := p.peek(); ok && isIdentifierStart(c) {
		first := p.parseWord()
		if c, ok := p.peek(); ok && c == ':' {
			selector := ""
			for {
				p.pos++ // consume ':'
				selector += first + ":"
				p.skipSpacesOnly()
				next, hasNext := p.tryKeywordHead()
				if !hasNext {
					break
				}
				first = next
			}
			return selector, ast.SelectorKeyword, nil
		}
		if first == "" {
			return "", 0, p.errorf(start, "UnexpectedToken", "expected a selector")
		}
		return first, ast.SelectorUnary, nil
	}
	if c, ok := p.peek(); ok && isBinarySelectorChar(c) {
		selStart := p.pos
		for p.pos < len(p.data) && isBinarySelectorChar(p.data[p.pos]) {
			p.pos++
		}
		selector := string(p.data[selStart:p.pos])
		p.skipSpacesOnly()
		if c, ok := p.peek(); ok && isIdentifierStart(c) {
			p.parseWord() // discard the argument placeholder name
		}
		return selector, ast.SelectorBinary, nil
	}
	return "", 0, p.errorf(start, "UnexpectedToken", "expected a unary, keyword, or binary selector")
}

// tryKeywordHead looks for the next keyword segment's head identifier,
// consuming and discarding a single argument-placeholder identifier in
// between if one is present.
func (p *tonelParser) tryKeywordHead() (string, bool) {
	if c, ok := p.peek(); !ok || !isIdentifierStart(c) {
		return "", false
	}
	word := p.parseWord()
	p.skipSpacesOnly()
	if c, ok := p.peek(); ok && c == ':' {
		return word, true
	}
	// word was an argument placeholder for the previous keyword; consume
	// it and look for the next keyword segment's head identifier.
	if c, ok := p.peek(); ok && isIdentifierStart(c) {
		word2 := p.parseWord()
		p.skipSpacesOnly()
		if c, ok := p.peek(); ok && c == ':' {
			return word2, true
		}
	}
	return "", false
}
