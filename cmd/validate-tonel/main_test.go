package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsGlobPattern(t *testing.T) {
	tests := []struct {
		arg  string
		want bool
	}{
		{"foo.tonel", false},
		{"dir/foo.tonel", false},
		{"*.tonel", true},
		{"dir/**/foo.tonel", true},
		{"foo?.tonel", true},
		{"[Ff]oo.tonel", true},
		{"{a,b}.tonel", true},
		{`escaped\*.tonel`, false},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, isGlobPattern(tc.arg), tc.arg)
	}
}

// A glob pattern that matches zero files is a usage error, not a silently
// dropped or missing-file failure.
func TestExpandPathsPatternWithNoMatchesIsError(t *testing.T) {
	dir := t.TempDir()
	_, err := expandPaths([]string{filepath.Join(dir, "*.tonel")})
	require.Error(t, err)
}

// A literal path with no glob metacharacters passes through unchanged even
// when it does not exist, so ValidateFile reports it as a missing file.
func TestExpandPathsLiteralMissingFilePassesThrough(t *testing.T) {
	files, err := expandPaths([]string{"/no/such/file.tonel"})
	require.NoError(t, err)
	require.Equal(t, []string{"/no/such/file.tonel"}, files)
}

func TestExpandPathsGlobMatchesFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.tonel")
	require.NoError(t, os.WriteFile(path, []byte("Class { #name : #C }\nC >> a [ ^ 1 ]\n"), 0o644))

	files, err := expandPaths([]string{filepath.Join(dir, "*.tonel")})
	require.NoError(t, err)
	require.Equal(t, []string{path}, files)
}

func TestRunHelpExitsZero(t *testing.T) {
	require.Equal(t, 0, run([]string{"--help"}))
}

func TestRunVersionExitsZero(t *testing.T) {
	require.Equal(t, 0, run([]string{"--version"}))
}

func TestRunNoPathsIsUsageError(t *testing.T) {
	require.Equal(t, 2, run(nil))
}

func TestRunUnmatchedGlobIsUsageError(t *testing.T) {
	dir := t.TempDir()
	require.Equal(t, 2, run([]string{filepath.Join(dir, "*.tonel")}))
}

func TestRunValidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.tonel")
	require.NoError(t, os.WriteFile(path, []byte("Class { #name : #C }\nC >> a [ ^ 1 ]\n"), 0o644))
	require.Equal(t, 0, run([]string{path}))
}

func TestRunInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.tonel")
	require.NoError(t, os.WriteFile(path, []byte("Class { #name : #C }\nC >> bad [ | self | self := 1 ]\n"), 0o644))
	require.Equal(t, 1, run([]string{path}))
}
