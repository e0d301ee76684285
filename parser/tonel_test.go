package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tonel-lang/tonel/ast"
)

// Scenario 1.
func TestTonelScenarioHeaderCommentAndInstanceMethod(t *testing.T) {
	src := `"doc"
Class { #name : #Counter, #superclass : #Object, #instVars : [ 'value' ] }

{ #category : #accessing }
Counter >> value [ ^ value ]
`
	file, _, err := ParseTonel("t", []byte(src))
	require.NoError(t, err)
	require.NotNil(t, file.Comment)
	require.Equal(t, "doc", *file.Comment)
	require.Equal(t, ast.KindClass, file.ClassDefinition.Kind)
	require.Len(t, file.Methods, 1)
	require.Equal(t, "value", file.Methods[0].Selector)
	require.False(t, file.Methods[0].IsClassMethod)
	require.Equal(t, " ^ value ", file.Methods[0].Body)
}

// Scenario 2.
func TestTonelScenarioClassMethod(t *testing.T) {
	src := `Class { #name : #C }
Counter class >> new [ ^ super new initialize ]
`
	file, _, err := ParseTonel("t", []byte(src))
	require.NoError(t, err)
	require.Len(t, file.Methods, 1)
	require.True(t, file.Methods[0].IsClassMethod)
	require.Equal(t, "new", file.Methods[0].Selector)
}

// Scenario 3.
func TestTonelScenarioBitwiseOrInsideBlock(t *testing.T) {
	src := `Class { #name : #C }
C >> test [ | r | r := (a | b). ^ r ]
`
	full, _, err := ParseTonelFull("t", []byte(src))
	require.NoError(t, err)
	require.Len(t, full.Bodies, 1)
}

// Scenario 4.
func TestTonelScenarioBracketInStringAndCharLiteral(t *testing.T) {
	src := "Class { #name : #C }\nC >> test [ ^ 'x ] y' , (String with: $]) ]\n"
	file, _, err := ParseTonel("t", []byte(src))
	require.NoError(t, err)
	require.Equal(t, " ^ 'x ] y' , (String with: $]) ", file.Methods[0].Body)
}

// Scenario 5.
func TestTonelScenarioReservedIdentifier(t *testing.T) {
	src := `Class { #name : #C }
C >> bad [ | self | self := 1 ]
`
	_, _, err := ParseTonelFull("t", []byte(src))
	require.Error(t, err)
	se, ok := err.(*SyntaxError)
	require.True(t, ok)
	require.Equal(t, "ReservedIdentifier", se.Kind)
	require.Equal(t, 2, se.Pos.Line)
}

// Scenario 6.
func TestTonelScenarioLiteralArrayWithSemicolons(t *testing.T) {
	src := `Class { #name : #C }
C >> a [ ^ #(uint64 internal; uint64 internalHigh;) ]
`
	full, _, err := ParseTonelFull("t", []byte(src))
	require.NoError(t, err)
	require.Len(t, full.Bodies, 1)
}

func TestTonelTrailingContent(t *testing.T) {
	src := `Class { #name : #C }
C >> a [ ^ 1 ]
garbage`
	_, _, err := ParseTonel("t", []byte(src))
	require.Error(t, err)
	se, ok := err.(*SyntaxError)
	require.True(t, ok)
	require.Equal(t, "UnexpectedTrailingContent", se.Kind)
}

func TestTonelTraitBinarySelector(t *testing.T) {
	src := `Trait { #name : #TComparable }
TComparable >> < other [ ^ self < other ]
`
	file, _, err := ParseTonel("t", []byte(src))
	require.NoError(t, err)
	require.Equal(t, ast.KindTrait, file.ClassDefinition.Kind)
	require.Equal(t, ast.SelectorBinary, file.Methods[0].SelectorKind)
	require.Equal(t, "<", file.Methods[0].Selector)
}

func TestTonelMethodMetadata(t *testing.T) {
	src := `Class { #name : #C }
{ #category : #accessing }
C >> value [ ^ 1 ]
`
	file, _, err := ParseTonel("t", []byte(src))
	require.NoError(t, err)
	require.NotNil(t, file.Methods[0].Metadata)
	cat, ok := file.Methods[0].Metadata.Get("category")
	require.True(t, ok)
	require.Equal(t, "accessing", cat.Scalar)
}
