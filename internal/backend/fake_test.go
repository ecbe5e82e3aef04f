package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeListFilesSorted(t *testing.T) {
	f := NewFake().WithFile("b.go", "package b").WithFile("a.go", "package a")
	paths, err := f.ListFiles(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go", "b.go"}, paths)
}

func TestFakeSearchFindsKeyword(t *testing.T) {
	f := NewFake().WithFile("auth.go", "func Authenticate() {}\nfunc other() {}")
	matches, err := f.Search(context.Background(), []string{"authenticate"}, SearchOptions{ContextLines: 1})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "auth.go", matches[0].Path)
	assert.Equal(t, 1, matches[0].Line)
}

func TestFakeGetStructureExtractsGoFunctions(t *testing.T) {
	f := NewFake().WithFile("main.go", "package main\n\nfunc Run() {}\n")
	result, err := f.GetStructure(context.Background(), []string{"main.go"}, StructureOptions{})
	require.NoError(t, err)
	require.Len(t, result.Codemaps, 1)
	assert.Contains(t, result.Codemaps[0].Functions, "Run")
}

func TestFakeGetTreeDefaultsToFileListing(t *testing.T) {
	f := NewFake().WithFile("a.go", "x").WithFile("b.go", "y")
	tree, err := f.GetTree(context.Background(), "", TreeOptions{})
	require.NoError(t, err)
	assert.Equal(t, "a.go\nb.go", tree.Content)
	assert.Greater(t, tree.Tokens, 0)
}
