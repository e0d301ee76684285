package reporter

import "github.com/tonel-lang/tonel/ast"

// ErrorWithPos is an error about a source file that includes information
// about the location that caused it.
//
// The value of Error() contains both the SourcePos and the underlying
// error. The value of Unwrap() is only the underlying error.
type ErrorWithPos interface {
	error
	GetPosition() ast.SourcePos
	Unwrap() error
}
