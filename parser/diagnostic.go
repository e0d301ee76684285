package parser

import (
	"github.com/rivo/uniseg"

	"github.com/tonel-lang/tonel/ast"
)

// Diagnostic is the uniform failure shape every validate* operation
// returns: a human-readable reason, the absolute 1-based line it occurred
// on, and a display-width-bounded snippet of the offending source line.
type Diagnostic struct {
	Kind      string
	Reason    string
	Line      int
	ErrorText string
}

const maxErrorTextWidth = 80

// diagnosticFor builds a Diagnostic from a SyntaxError, pulling the
// offending line's text from info and truncating it to at most 80
// display columns — measured in grapheme clusters via uniseg, not bytes,
// so multi-byte identifiers are not cut mid-character.
func diagnosticFor(err *SyntaxError, info *ast.FileInfo) Diagnostic {
	line := ""
	if info != nil {
		line = info.LineText(err.Pos.Line)
	}
	return Diagnostic{
		Kind:      err.Kind,
		Reason:    err.Kind + ": " + err.Reason,
		Line:      err.Pos.Line,
		ErrorText: truncateToWidth(line, maxErrorTextWidth),
	}
}

// truncateToWidth returns the longest prefix of s whose display width (in
// terminal columns, via uniseg grapheme-cluster segmentation) is at most
// width.
func truncateToWidth(s string, width int) string {
	if uniseg.StringWidth(s) <= width {
		return s
	}
	var out []rune
	total := 0
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		cluster := gr.Runes()
		w := uniseg.StringWidth(string(cluster))
		if total+w > width {
			break
		}
		out = append(out, cluster...)
		total += w
	}
	return string(out)
}
