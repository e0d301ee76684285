package main

import (
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/stretchr/testify/require"
)

const validSource = "Class { #name : #C }\nC >> a [ ^ 1 ]\n"
const invalidSource = "Class { #name : #C }\nC >> bad [ | self | self := 1 ]\n"

func TestBuildDiagnosticsValidSourceIsEmpty(t *testing.T) {
	require.Empty(t, buildDiagnostics("file:///t.tonel", validSource))
}

func TestBuildDiagnosticsInvalidSourceReportsOne(t *testing.T) {
	diags := buildDiagnostics("file:///t.tonel", invalidSource)
	require.Len(t, diags, 1)
	require.Equal(t, protocol.UInteger(1), diags[0].Range.Start.Line)
	require.Contains(t, diags[0].Message, "ReservedIdentifier")
}

// Editing an invalid document back to valid must clear its diagnostics —
// the same behavior textDocumentDidClose produces by always publishing an
// empty diagnostics list.
func TestBuildDiagnosticsClearsOnFix(t *testing.T) {
	require.NotEmpty(t, buildDiagnostics("file:///t.tonel", invalidSource))
	require.Empty(t, buildDiagnostics("file:///t.tonel", validSource))
}

func TestDocTrackingSetAndClear(t *testing.T) {
	s := newLspServer()
	uri := protocol.DocumentUri("file:///t.tonel")

	s.setDoc(uri, validSource)
	s.mu.Lock()
	_, ok := s.docs[uri]
	s.mu.Unlock()
	require.True(t, ok)

	s.clearDoc(uri)
	s.mu.Lock()
	_, ok = s.docs[uri]
	s.mu.Unlock()
	require.False(t, ok)
}
