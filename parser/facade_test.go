package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const sampleSource = `"a counter"
Class { #name : #Counter, #superclass : #Object }

Counter >> value [ ^ value ]
Counter >> increment [ value := value + 1 ]
`

// Reparsing the same bytes through a fresh, stateless facade value must
// produce a structurally identical result every time.
func TestTonelParserIsReentrant(t *testing.T) {
	a, err := (TonelParser{}).Parse("t", []byte(sampleSource))
	require.NoError(t, err)
	b, err := (TonelParser{}).Parse("t", []byte(sampleSource))
	require.NoError(t, err)

	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("parsing the same source twice produced different results (-first +second):\n%s", diff)
	}
}

func TestTonelFullParserValidate(t *testing.T) {
	ok, diag := (TonelFullParser{}).Validate("t", []byte(sampleSource))
	require.True(t, ok)
	require.Nil(t, diag)
}

func TestTonelFullParserValidateCatchesBadBody(t *testing.T) {
	src := `Class { #name : #C }
C >> bad [ | self | self := 1 ]
`
	ok, diag := (TonelFullParser{}).Validate("t", []byte(src))
	require.False(t, ok)
	require.NotNil(t, diag)
	require.Equal(t, "ReservedIdentifier", diag.Kind)
	require.Equal(t, 2, diag.Line)
}

func TestTonelParserValidateFileMissing(t *testing.T) {
	ok, diag := (TonelParser{}).ValidateFile("/no/such/file.tonel")
	require.False(t, ok)
	require.NotNil(t, diag)
	require.Equal(t, "FileNotFound", diag.Kind)
}

// CRLF line endings and a leading BOM must normalize to the same parse as
// plain LF source.
func TestNormalizeSourceCRLFAndBOM(t *testing.T) {
	lf := []byte("Class { #name : #C }\nC >> a [ ^ 1 ]\n")
	crlf := []byte("Class { #name : #C }\r\nC >> a [ ^ 1 ]\r\n")
	withBOM := append([]byte{0xEF, 0xBB, 0xBF}, lf...)

	a, err := (TonelParser{}).Parse("t", lf)
	require.NoError(t, err)
	b, err := (TonelParser{}).Parse("t", crlf)
	require.NoError(t, err)
	c, err := (TonelParser{}).Parse("t", withBOM)
	require.NoError(t, err)

	require.Empty(t, cmp.Diff(a, b))
	require.Empty(t, cmp.Diff(a, c))
}
