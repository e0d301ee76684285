package parser

import (
	"errors"
	"fmt"

	"github.com/tonel-lang/tonel/ast"
	"github.com/tonel-lang/tonel/reporter"
)

// SyntaxError is the single first syntax error a Smalltalk or Tonel parse
// reports. No recovery is attempted once one is found.
type SyntaxError struct {
	Kind   string
	Reason string
	Pos    ast.SourcePos
	// Text is carried along unchanged by translateMethodError but is not
	// filled in by any parser in this package; a Diagnostic's ErrorText is
	// derived from the owning FileInfo instead.
	Text string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Pos, e.Kind, e.Reason)
}

// GetPosition and Unwrap satisfy reporter.ErrorWithPos, so a SyntaxError can
// pass through a reporter.Handler like any other positioned parse error.
func (e *SyntaxError) GetPosition() ast.SourcePos { return e.Pos }
func (e *SyntaxError) Unwrap() error              { return errors.New(e.Kind + ": " + e.Reason) }

// smalltalkParser is a recursive-descent parser over a Smalltalk token
// stream, following the precedence chain unary > binary > keyword.
type smalltalkParser struct {
	tokens []Token
	pos    int
	info   *ast.FileInfo
}

// ParseSmalltalk parses a single Smalltalk method or block body and returns
// its sequence of temporaries and statements.
func ParseSmalltalk(filename string, body []byte) (*ast.SmalltalkSequence, *ast.FileInfo, error) {
	h := reporter.NewHandler()

	lexer := NewLexer(filename, body)
	tokens, err := lexer.Tokenize()
	if err != nil {
		if le, ok := err.(*LexError); ok {
			err = &SyntaxError{Kind: "LexicalError", Reason: le.Reason, Pos: le.Pos}
		}
		return nil, lexer.FileInfo(), h.HandleError(err)
	}
	p := &smalltalkParser{tokens: tokens, info: lexer.FileInfo()}
	seq, err := p.parseSequence()
	if err != nil {
		return nil, p.info, h.HandleError(err)
	}
	if !p.atEOF() {
		err := p.errorf("UnexpectedTrailingContent", "unexpected %s after end of body", p.peek().Kind)
		return nil, p.info, h.HandleError(err)
	}
	return seq, p.info, nil
}

func (p *smalltalkParser) peek() Token { return p.tokens[p.pos] }
func (p *smalltalkParser) atEOF() bool { return p.peek().Kind == EOF }
func (p *smalltalkParser) advance() Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *smalltalkParser) check(k TokenKind) bool { return p.peek().Kind == k }

func (p *smalltalkParser) errorf(kind, format string, args ...interface{}) error {
	pos := p.peek().Pos
	return &SyntaxError{Kind: kind, Reason: fmt.Sprintf(format, args...), Pos: pos}
}

func (p *smalltalkParser) expect(k TokenKind, kind string) (Token, error) {
	if !p.check(k) {
		return Token{}, p.errorf(kind, "expected %s, found %s %q", k, p.peek().Kind, p.peek().Text)
	}
	return p.advance(), nil
}

// parseSequence := temporaries? statement (PERIOD statement)* PERIOD?
func (p *smalltalkParser) parseSequence() (*ast.SmalltalkSequence, error) {
	pos := p.peek().Pos
	var temps *ast.TemporaryVariables
	if p.check(PIPE) {
		t, err := p.parseTemporaries()
		if err != nil {
			return nil, err
		}
		temps = t
	}

	var statements []ast.Node
	for !p.atEOF() && !p.check(RBRACKET) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
		if p.check(PERIOD) {
			p.advance()
			continue
		}
		// A pragma is not terminated by a period.
		if _, isPragma := stmt.(*ast.Pragma); isPragma {
			continue
		}
		break
	}
	return ast.NewSmalltalkSequence(pos, temps, statements), nil
}

// parseTemporaries := PIPE IDENTIFIER* PIPE
func (p *smalltalkParser) parseTemporaries() (*ast.TemporaryVariables, error) {
	pos := p.peek().Pos
	p.advance() // consume opening PIPE
	var names []string
	for p.check(IDENTIFIER) {
		tok := p.advance()
		if !ast.IsBindable(tok.Text) {
			return nil, &SyntaxError{Kind: "ReservedIdentifier", Reason: fmt.Sprintf("%q is a pseudo-variable and cannot be a temporary", tok.Text), Pos: tok.Pos}
		}
		names = append(names, tok.Text)
	}
	if _, err := p.expect(PIPE, "ExpectedToken"); err != nil {
		return nil, err
	}
	return ast.NewTemporaryVariables(pos, names), nil
}

// parseStatement := return | expression
func (p *smalltalkParser) parseStatement() (ast.Node, error) {
	if p.check(RETURN) {
		pos := p.advance().Pos
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return ast.NewReturn(pos, expr), nil
	}
	return p.parseExpression()
}

// parseExpression := assignment | cascade-or-send
func (p *smalltalkParser) parseExpression() (ast.Node, error) {
	if p.check(IDENTIFIER) {
		// Disambiguate assignment from a send whose receiver is a bare
		// identifier by looking one token ahead.
		save := p.pos
		ident := p.advance()
		if p.check(ASSIGN) {
			if !ast.IsBindable(ident.Text) {
				return nil, &SyntaxError{Kind: "ReservedIdentifier", Reason: fmt.Sprintf("%q is a pseudo-variable and cannot be assigned", ident.Text), Pos: ident.Pos}
			}
			p.advance()
			value, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			return ast.NewAssignment(ident.Pos, ident.Text, value), nil
		}
		p.pos = save
	}
	return p.parseCascadeOrSend()
}

// parseCascadeOrSend := keyword-send (SEMICOLON message)*
func (p *smalltalkParser) parseCascadeOrSend() (ast.Node, error) {
	pos := p.peek().Pos
	first, err := p.parseKeywordSend()
	if err != nil {
		return nil, err
	}
	if !p.check(SEMICOLON) {
		return first, nil
	}

	send, ok := first.(*ast.MessageSend)
	if !ok {
		return nil, p.errorf("InvalidCascade", "cascade receiver must be a message send")
	}
	messages := []ast.CascadeMessage{{Selector: send.Selector, Arguments: send.Arguments}}
	for p.check(SEMICOLON) {
		p.advance()
		msg, err := p.parseCascadeMessage()
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return ast.NewCascade(pos, send.Receiver, messages), nil
}

func (p *smalltalkParser) parseCascadeMessage() (ast.CascadeMessage, error) {
	if p.check(KEYWORD) {
		var selector string
		var args []ast.Node
		for p.check(KEYWORD) {
			kw := p.advance()
			selector += kw.Text
			arg, err := p.parseBinarySend()
			if err != nil {
				return ast.CascadeMessage{}, err
			}
			args = append(args, arg)
		}
		return ast.CascadeMessage{Selector: selector, Arguments: args}, nil
	}
	if sel, ok := p.tryBinarySelectorToken(); ok {
		p.advance()
		arg, err := p.parseUnarySend()
		if err != nil {
			return ast.CascadeMessage{}, err
		}
		return ast.CascadeMessage{Selector: sel, Arguments: []ast.Node{arg}}, nil
	}
	if p.check(IDENTIFIER) {
		id := p.advance()
		return ast.CascadeMessage{Selector: id.Text}, nil
	}
	return ast.CascadeMessage{}, p.errorf("ExpectedMessage", "expected a message after ';', found %s", p.peek().Kind)
}

// parseKeywordSend := binary-send (KEYWORD binary-send)+ otherwise binary-send.
func (p *smalltalkParser) parseKeywordSend() (ast.Node, error) {
	pos := p.peek().Pos
	receiver, err := p.parseBinarySend()
	if err != nil {
		return nil, err
	}
	if !p.check(KEYWORD) {
		return receiver, nil
	}
	var selector string
	var args []ast.Node
	for p.check(KEYWORD) {
		kw := p.advance()
		selector += kw.Text
		arg, err := p.parseBinarySend()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return ast.NewMessageSend(pos, receiver, selector, args), nil
}

// tryBinarySelectorToken reports whether the current token can serve as a
// binary selector (BINARY_SELECTOR, or the contextual LT/GT/COMMA tokens),
// returning its selector text.
func (p *smalltalkParser) tryBinarySelectorToken() (string, bool) {
	switch p.peek().Kind {
	case BINARY_SELECTOR, LT, GT, COMMA:
		return p.peek().Text, true
	default:
		return "", false
	}
}

// parseBinarySend := unary-send (BINARY_SELECTOR unary-send)*
func (p *smalltalkParser) parseBinarySend() (ast.Node, error) {
	pos := p.peek().Pos
	receiver, err := p.parseUnarySend()
	if err != nil {
		return nil, err
	}
	for {
		sel, ok := p.tryBinarySelectorToken()
		if !ok {
			return receiver, nil
		}
		p.advance()
		arg, err := p.parseUnarySend()
		if err != nil {
			return nil, err
		}
		receiver = ast.NewMessageSend(pos, receiver, sel, []ast.Node{arg})
	}
}

// parseUnarySend := operand IDENTIFIER*
func (p *smalltalkParser) parseUnarySend() (ast.Node, error) {
	pos := p.peek().Pos
	receiver, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	for p.check(IDENTIFIER) {
		sel := p.advance()
		receiver = ast.NewMessageSend(pos, receiver, sel.Text, nil)
	}
	return receiver, nil
}

// parseOperand := literal | reference | LPAREN expression RPAREN | block |
// dynamic-array | pragma
func (p *smalltalkParser) parseOperand() (ast.Node, error) {
	tok := p.peek()
	switch tok.Kind {
	case IDENTIFIER:
		switch tok.Text {
		case "nil":
			p.advance()
			return ast.NewLiteral(tok.Pos, ast.LiteralNil, nil), nil
		case "true":
			p.advance()
			return ast.NewLiteral(tok.Pos, ast.LiteralBool, true), nil
		case "false":
			p.advance()
			return ast.NewLiteral(tok.Pos, ast.LiteralBool, false), nil
		}
		p.advance()
		return ast.NewVariable(tok.Pos, tok.Text), nil
	case INTEGER, RADIX_INTEGER:
		p.advance()
		return ast.NewLiteral(tok.Pos, ast.LiteralInteger, tok.Value), nil
	case FLOAT:
		p.advance()
		return ast.NewLiteral(tok.Pos, ast.LiteralFloat, tok.Value), nil
	case SCALED_DECIMAL:
		p.advance()
		return ast.NewLiteral(tok.Pos, ast.LiteralScaledDecimal, tok.Value), nil
	case STRING:
		p.advance()
		return ast.NewLiteral(tok.Pos, ast.LiteralString, tok.Value), nil
	case SYMBOL:
		p.advance()
		return ast.NewLiteral(tok.Pos, ast.LiteralSymbol, tok.Value), nil
	case CHAR:
		p.advance()
		return ast.NewLiteral(tok.Pos, ast.LiteralCharacter, tok.Value), nil
	case LPAREN:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN, "ExpectedToken"); err != nil {
			return nil, err
		}
		return expr, nil
	case LBRACKET:
		return p.parseBlock()
	case LBRACE:
		return p.parseDynamicArray()
	case HASH_LPAREN:
		return p.parseLiteralArray()
	case HASH_LBRACKET:
		return p.parseByteArray()
	case LT:
		return p.parsePragma()
	default:
		return nil, p.errorf("UnexpectedToken", "unexpected %s %q while parsing an operand", tok.Kind, tok.Text)
	}
}

// parseBlock := LBRACKET block-params? temporaries? sequence? RBRACKET
// block-params := COLON_PARAM+ PIPE
func (p *smalltalkParser) parseBlock() (ast.Node, error) {
	pos := p.advance().Pos // consume '['
	var params []string
	if p.check(COLON_PARAM) {
		for p.check(COLON_PARAM) {
			tok := p.advance()
			name := tok.Text[1:] // strip leading ':'
			if !ast.IsBindable(name) {
				return nil, &SyntaxError{Kind: "ReservedIdentifier", Reason: fmt.Sprintf("%q is a pseudo-variable and cannot be a block parameter", name), Pos: tok.Pos}
			}
			params = append(params, name)
		}
		if _, err := p.expect(PIPE, "ExpectedToken"); err != nil {
			return nil, err
		}
	}
	body, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RBRACKET, "UnbalancedBrackets"); err != nil {
		return nil, err
	}
	return ast.NewBlock(pos, params, body.Temporaries.NamesOrNil(), body), nil
}

// parseDynamicArray := LBRACE (expression (PERIOD expression)*)? RBRACE
func (p *smalltalkParser) parseDynamicArray() (ast.Node, error) {
	pos := p.advance().Pos // consume '{'
	var exprs []ast.Node
	for !p.check(RBRACE) {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
		if p.check(PERIOD) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(RBRACE, "ExpectedToken"); err != nil {
		return nil, err
	}
	return ast.NewDynamicArray(pos, exprs), nil
}

// parseLiteralArray := HASH_LPAREN literal-array-item* RPAREN
func (p *smalltalkParser) parseLiteralArray() (ast.Node, error) {
	pos := p.advance().Pos // consume '#('
	items, err := p.parseLiteralArrayItems(RPAREN)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN, "ExpectedToken"); err != nil {
		return nil, err
	}
	return ast.NewLiteralArray(pos, items), nil
}

func (p *smalltalkParser) parseLiteralArrayItems(closing TokenKind) ([]ast.ArrayItem, error) {
	var items []ast.ArrayItem
	for !p.check(closing) && !p.atEOF() {
		item, err := p.parseLiteralArrayItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// parseLiteralArrayItem parses one element of a literal array: a nested
// literal array, a bare parenthesized group (itself a nested array), a
// scalar literal, or an identifier/selector/semicolon/comma interned as a
// symbol.
func (p *smalltalkParser) parseLiteralArrayItem() (ast.ArrayItem, error) {
	tok := p.peek()
	switch tok.Kind {
	case HASH_LPAREN:
		arr, err := p.parseLiteralArray()
		if err != nil {
			return nil, err
		}
		return arr.(*ast.LiteralArray), nil
	case LPAREN:
		pos := p.advance().Pos
		items, err := p.parseLiteralArrayItems(RPAREN)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN, "ExpectedToken"); err != nil {
			return nil, err
		}
		return ast.NewLiteralArray(pos, items), nil
	case HASH_LBRACKET:
		arr, err := p.parseByteArray()
		if err != nil {
			return nil, err
		}
		return arr.(*ast.ByteArray), nil
	case INTEGER, RADIX_INTEGER:
		p.advance()
		return tok.Value, nil
	case FLOAT:
		p.advance()
		return tok.Value, nil
	case SCALED_DECIMAL:
		p.advance()
		return tok.Value, nil
	case STRING:
		p.advance()
		return tok.Value, nil
	case SYMBOL:
		p.advance()
		return ast.Symbol(tok.Value.(string)), nil
	case CHAR:
		p.advance()
		return tok.Value, nil
	case IDENTIFIER:
		p.advance()
		switch tok.Text {
		case "nil":
			return nil, nil
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return ast.Symbol(tok.Text), nil
	case KEYWORD:
		// A run of adjacent keywords is interned as a single keyword symbol.
		var sel string
		for p.check(KEYWORD) {
			sel += p.advance().Text
		}
		return ast.Symbol(sel), nil
	case SEMICOLON:
		p.advance()
		return ast.Symbol(";"), nil
	case COMMA:
		p.advance()
		return ast.Symbol(","), nil
	case BINARY_SELECTOR, LT, GT:
		p.advance()
		return ast.Symbol(tok.Text), nil
	default:
		return nil, p.errorf("UnexpectedToken", "unexpected %s %q inside literal array", tok.Kind, tok.Text)
	}
}

// parseByteArray := HASH_LBRACKET INTEGER* RBRACKET
func (p *smalltalkParser) parseByteArray() (ast.Node, error) {
	pos := p.advance().Pos // consume '#['
	var bytes []byte
	for !p.check(RBRACKET) {
		tok, err := p.expect(INTEGER, "ExpectedToken")
		if err != nil {
			return nil, err
		}
		v := tok.Value.(int64)
		if v < 0 || v > 255 {
			return nil, &SyntaxError{Kind: "ByteOutOfRange", Reason: fmt.Sprintf("%d is out of range 0..255", v), Pos: tok.Pos}
		}
		bytes = append(bytes, byte(v))
	}
	if _, err := p.expect(RBRACKET, "ExpectedToken"); err != nil {
		return nil, err
	}
	return ast.NewByteArray(pos, bytes), nil
}

// parsePragma := LT (KEYWORD operand)+ GT | LT IDENTIFIER GT
// A primitive-call pragma (LT KEYWORD INTEGER GT) is just a KEYWORD pragma
// whose single argument happens to be an integer literal.
func (p *smalltalkParser) parsePragma() (ast.Node, error) {
	pos := p.advance().Pos // consume '<'
	if p.check(IDENTIFIER) {
		id := p.advance()
		if _, err := p.expectGT(); err != nil {
			return nil, err
		}
		return ast.NewPragma(pos, id.Text, nil), nil
	}
	if !p.check(KEYWORD) {
		return nil, p.errorf("ExpectedToken", "expected a pragma selector, found %s %q", p.peek().Kind, p.peek().Text)
	}
	var selector string
	var args []ast.Node
	for p.check(KEYWORD) {
		kw := p.advance()
		selector += kw.Text
		arg, err := p.parsePragmaArgument()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	if _, err := p.expectGT(); err != nil {
		return nil, err
	}
	return ast.NewPragma(pos, selector, args), nil
}

func (p *smalltalkParser) expectGT() (Token, error) {
	if !p.check(GT) {
		return Token{}, p.errorf("ExpectedToken", "expected '>' to close pragma, found %s %q", p.peek().Kind, p.peek().Text)
	}
	return p.advance(), nil
}

// parsePragmaArgument accepts literals, identifiers, binary selectors (as
// symbols), strings, or integers.
func (p *smalltalkParser) parsePragmaArgument() (ast.Node, error) {
	tok := p.peek()
	switch tok.Kind {
	case IDENTIFIER:
		p.advance()
		return ast.NewVariable(tok.Pos, tok.Text), nil
	case INTEGER, RADIX_INTEGER:
		p.advance()
		return ast.NewLiteral(tok.Pos, ast.LiteralInteger, tok.Value), nil
	case FLOAT:
		p.advance()
		return ast.NewLiteral(tok.Pos, ast.LiteralFloat, tok.Value), nil
	case STRING:
		p.advance()
		return ast.NewLiteral(tok.Pos, ast.LiteralString, tok.Value), nil
	case SYMBOL:
		p.advance()
		return ast.NewLiteral(tok.Pos, ast.LiteralSymbol, tok.Value), nil
	case BINARY_SELECTOR, LT, GT:
		p.advance()
		return ast.NewLiteral(tok.Pos, ast.LiteralSymbol, tok.Text), nil
	default:
		return nil, p.errorf("UnexpectedToken", "unexpected %s %q inside pragma", tok.Kind, tok.Text)
	}
}
