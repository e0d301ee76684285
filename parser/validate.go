package parser

import "github.com/tonel-lang/tonel/ast"

// TonelFullFile is the result of a full Tonel validation: the structural
// file plus the parsed Smalltalk body of every method, in file order.
type TonelFullFile struct {
	File   *ast.TonelFile
	Bodies []*ast.SmalltalkSequence
}

// ParseTonelFull parses a Tonel file's structure and validates every
// method body as Smalltalk. It stops at the first failure, structural or
// per-method, translating a method body's locally-scoped error position
// into absolute file coordinates.
func ParseTonelFull(filename string, data []byte) (*TonelFullFile, *ast.FileInfo, error) {
	file, info, err := ParseTonel(filename, data)
	if err != nil {
		return nil, info, err
	}

	bodies := make([]*ast.SmalltalkSequence, len(file.Methods))
	for i, m := range file.Methods {
		seq, _, err := ParseSmalltalk(filename, []byte(m.Body))
		if err != nil {
			se, ok := err.(*SyntaxError)
			if !ok {
				return nil, info, err
			}
			return nil, info, translateMethodError(se, m)
		}
		bodies[i] = seq
	}

	return &TonelFullFile{File: file, Bodies: bodies}, info, nil
}

// translateMethodError rewrites a SyntaxError's position from coordinates
// local to a method body's own text into absolute coordinates within the
// enclosing Tonel file. The body's first line continues the column offset
// of the line the body starts on; every later line is absolute already,
// shifted only by the line the body starts on.
func translateMethodError(err *SyntaxError, m ast.MethodDefinition) *SyntaxError {
	pos := err.Pos
	if pos.Line <= 1 {
		pos.Col += m.BodyStartColumn - 1
	}
	pos.Line += m.BodyStartLine - 1
	pos.Filename = m.Pos.Filename
	return &SyntaxError{Kind: err.Kind, Reason: err.Reason, Pos: pos, Text: err.Text}
}
