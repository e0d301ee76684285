package parser

import (
	"bytes"
	"os"

	"github.com/tonel-lang/tonel/ast"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// readSource reads path, stripping a leading UTF-8 byte order mark and
// normalizing CRLF line endings to LF, exactly as parse_from_file requires.
func readSource(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return normalizeSource(data), nil
}

func normalizeSource(data []byte) []byte {
	data = bytes.TrimPrefix(data, utf8BOM)
	if bytes.IndexByte(data, '\r') == -1 {
		return data
	}
	return bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
}

// TonelParser parses only the structural regions of a Tonel file, without
// validating method bodies as Smalltalk.
type TonelParser struct{}

// Parse parses source text into a TonelFile, or returns a structured error.
func (TonelParser) Parse(filename string, text []byte) (*ast.TonelFile, error) {
	file, _, err := ParseTonel(filename, normalizeSource(text))
	return file, err
}

// ParseFile reads path and parses it.
func (p TonelParser) ParseFile(path string) (*ast.TonelFile, error) {
	data, err := readSource(path)
	if err != nil {
		return nil, err
	}
	return p.Parse(path, data)
}

// Validate reports whether text is a structurally valid Tonel file.
func (p TonelParser) Validate(filename string, text []byte) (bool, *Diagnostic) {
	_, info, err := ParseTonel(filename, normalizeSource(text))
	return diagnosticResult(err, info)
}

// ValidateFile reads path and validates it.
func (p TonelParser) ValidateFile(path string) (bool, *Diagnostic) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, &Diagnostic{Kind: "FileNotFound", Reason: "FileNotFound: " + err.Error()}
	}
	return p.Validate(path, data)
}

// SmalltalkParser parses a single Smalltalk method or block body.
type SmalltalkParser struct{}

// Parse parses body text into a SmalltalkSequence, or returns a structured
// error.
func (SmalltalkParser) Parse(filename string, body []byte) (*ast.SmalltalkSequence, error) {
	seq, _, err := ParseSmalltalk(filename, normalizeSource(body))
	return seq, err
}

// ParseFile reads path and parses its full contents as a single Smalltalk
// body.
func (p SmalltalkParser) ParseFile(path string) (*ast.SmalltalkSequence, error) {
	data, err := readSource(path)
	if err != nil {
		return nil, err
	}
	return p.Parse(path, data)
}

// Validate reports whether body is a syntactically valid Smalltalk body.
func (p SmalltalkParser) Validate(filename string, body []byte) (bool, *Diagnostic) {
	_, info, err := ParseSmalltalk(filename, normalizeSource(body))
	return diagnosticResult(err, info)
}

// ValidateFile reads path and validates it.
func (p SmalltalkParser) ValidateFile(path string) (bool, *Diagnostic) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, &Diagnostic{Kind: "FileNotFound", Reason: "FileNotFound: " + err.Error()}
	}
	return p.Validate(path, data)
}

// TonelFullParser parses a Tonel file's structure and validates every
// method body as Smalltalk.
type TonelFullParser struct{}

// Parse parses text into a TonelFullFile, or returns a structured error
// naming the first structural or method-body failure.
func (TonelFullParser) Parse(filename string, text []byte) (*TonelFullFile, error) {
	full, _, err := ParseTonelFull(filename, normalizeSource(text))
	return full, err
}

// ParseFile reads path and parses it.
func (p TonelFullParser) ParseFile(path string) (*TonelFullFile, error) {
	data, err := readSource(path)
	if err != nil {
		return nil, err
	}
	return p.Parse(path, data)
}

// Validate reports whether text is a fully valid Tonel file: structurally
// sound, with every method body a valid Smalltalk sequence.
func (p TonelFullParser) Validate(filename string, text []byte) (bool, *Diagnostic) {
	_, info, err := ParseTonelFull(filename, normalizeSource(text))
	return diagnosticResult(err, info)
}

// ValidateFile reads path and validates it.
func (p TonelFullParser) ValidateFile(path string) (bool, *Diagnostic) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, &Diagnostic{Kind: "FileNotFound", Reason: "FileNotFound: " + err.Error()}
	}
	return p.Validate(path, data)
}

func diagnosticResult(err error, info *ast.FileInfo) (bool, *Diagnostic) {
	if err == nil {
		return true, nil
	}
	se, ok := err.(*SyntaxError)
	if !ok {
		d := &Diagnostic{Kind: "ReadError", Reason: "ReadError: " + err.Error()}
		return false, d
	}
	d := diagnosticFor(se, info)
	return false, &d
}
