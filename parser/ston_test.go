package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tonel-lang/tonel/ast"
)

func TestStonMapBasic(t *testing.T) {
	src := `{ #name : #Counter, #superclass : #Object, #instVars : [ 'value' ] }`
	m, next, err := parseStonMap([]byte(src), 0, ast.NewFileInfo("t", []byte(src)))
	require.NoError(t, err)
	require.Equal(t, len(src), next)
	require.Len(t, m.Entries, 3)

	name, ok := m.Get("name")
	require.True(t, ok)
	require.Equal(t, "Counter", name.Scalar)

	instVars, ok := m.Get("instVars")
	require.True(t, ok)
	require.Equal(t, ast.StonList, instVars.Kind)
	require.Len(t, instVars.List, 1)
	require.Equal(t, "value", instVars.List[0].Scalar)
}

func TestStonNestedMapAndReference(t *testing.T) {
	src := `{ #a : { #b : 1 }, #c : @1 }`
	m, _, err := parseStonMap([]byte(src), 0, ast.NewFileInfo("t", []byte(src)))
	require.NoError(t, err)
	a, _ := m.Get("a")
	require.Equal(t, ast.StonMapKind, a.Kind)
	require.Len(t, a.Map.Entries, 1)

	c, _ := m.Get("c")
	require.Equal(t, ast.StonReference, c.Kind)
	require.Equal(t, int64(1), c.Scalar)
}

func TestStonObjectTag(t *testing.T) {
	src := `{ #when : #DateTime [ 2020, 1, 1 ] }`
	m, _, err := parseStonMap([]byte(src), 0, ast.NewFileInfo("t", []byte(src)))
	require.NoError(t, err)
	when, ok := m.Get("when")
	require.True(t, ok)
	require.Equal(t, ast.StonObject, when.Kind)
	require.Equal(t, "DateTime", when.ObjectTag)
	require.Equal(t, ast.StonList, when.ObjectBody.Kind)
}

func TestStonUnbalancedMap(t *testing.T) {
	src := `{ #a : 1 `
	_, _, err := parseStonMap([]byte(src), 0, ast.NewFileInfo("t", []byte(src)))
	require.Error(t, err)
	se, ok := err.(*SyntaxError)
	require.True(t, ok)
	require.Equal(t, "UnterminatedMetadata", se.Kind)
}
