package backend

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v failed: %s", args, string(out))
}

func gitInit(t *testing.T, dir string) {
	t.Helper()
	runGit(t, dir, "init")
	runGit(t, dir, "config", "user.email", "test@test.com")
	runGit(t, dir, "config", "user.name", "Test")
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
}

func TestFSBackendListFilesSkipsIgnoredAndBinary(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.go", "package main\n")
	writeFile(t, dir, ".gitignore", "ignored.txt\n")
	writeFile(t, dir, "ignored.txt", "skip me\n")
	writeFile(t, dir, "binary.bin", "a\x00b\x00c")

	b, err := NewFSBackend(dir)
	require.NoError(t, err)

	files, err := b.ListFiles(context.Background(), dir)
	require.NoError(t, err)

	assert.Contains(t, files, "main.go")
	assert.NotContains(t, files, "ignored.txt")
	assert.NotContains(t, files, "binary.bin")
}

func TestFSBackendReadFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "foo.go", "package foo\n")

	b, err := NewFSBackend(dir)
	require.NoError(t, err)

	content, err := b.ReadFile(context.Background(), "foo.go")
	require.NoError(t, err)
	assert.Equal(t, "package foo\n", content)
}

func TestFSBackendSearchFindsKeywordWithContext(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "foo.go", "line1\nline2\nneedle here\nline4\nline5\n")

	b, err := NewFSBackend(dir)
	require.NoError(t, err)

	matches, err := b.Search(context.Background(), []string{"needle"}, SearchOptions{ContextLines: 1})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "foo.go", matches[0].Path)
	assert.Equal(t, 3, matches[0].Line)
	assert.Equal(t, "line2\nneedle here\nline4", matches[0].Snippet)
}

func TestFSBackendGetStructureCachesIdenticalContentByFingerprint(t *testing.T) {
	dir := t.TempDir()
	shared := "package foo\n\nfunc Bar() {}\n"
	writeFile(t, dir, "a.go", shared)
	writeFile(t, dir, "b.go", shared)

	b, err := NewFSBackend(dir)
	require.NoError(t, err)

	result, err := b.GetStructure(context.Background(), []string{"a.go", "b.go"}, StructureOptions{})
	require.NoError(t, err)
	require.Len(t, result.Codemaps, 2)

	byPath := make(map[string]CodemapEntry)
	for _, c := range result.Codemaps {
		byPath[c.Path] = c
	}
	require.Contains(t, byPath, "a.go")
	require.Contains(t, byPath, "b.go")
	assert.Equal(t, byPath["a.go"].Functions, byPath["b.go"].Functions)
	assert.Equal(t, "a.go", byPath["a.go"].Path)
	assert.Equal(t, "b.go", byPath["b.go"].Path)
}

func TestFSBackendGetStructureHonorsScope(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pkg/a.go", "package pkg\n")
	writeFile(t, dir, "other/b.go", "package other\n")

	b, err := NewFSBackend(dir)
	require.NoError(t, err)

	result, err := b.GetStructure(context.Background(), []string{"pkg/a.go", "other/b.go"}, StructureOptions{Scope: []string{"pkg"}})
	require.NoError(t, err)
	require.Len(t, result.Codemaps, 1)
	assert.Equal(t, "pkg/a.go", result.Codemaps[0].Path)
}

func TestFSBackendGetTreeRendersIndentedPaths(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.go", "package main\n")
	writeFile(t, dir, "sub/b.go", "package sub\n")

	b, err := NewFSBackend(dir)
	require.NoError(t, err)

	tree, err := b.GetTree(context.Background(), dir, TreeOptions{})
	require.NoError(t, err)
	assert.Contains(t, tree.Content, "a.go")
	assert.Contains(t, tree.Content, "  b.go")
	assert.Greater(t, tree.Tokens, 0)
}

func TestFSBackendListFilesGatesOnGitTrackedFiles(t *testing.T) {
	dir := t.TempDir()
	gitInit(t, dir)

	writeFile(t, dir, "tracked.go", "package main\n")
	runGit(t, dir, "add", "tracked.go")
	runGit(t, dir, "commit", "-m", "initial")

	writeFile(t, dir, "untracked.go", "package main\n")

	b, err := NewFSBackend(dir)
	require.NoError(t, err)
	require.True(t, b.gitAware, "a git working tree should enable tracked-file gating")

	files, err := b.ListFiles(context.Background(), dir)
	require.NoError(t, err)

	assert.Contains(t, files, "tracked.go")
	assert.NotContains(t, files, "untracked.go")
}

func TestFSBackendListFilesNotGitAwareOutsideRepo(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "plain.go", "package main\n")

	b, err := NewFSBackend(dir)
	require.NoError(t, err)
	assert.False(t, b.gitAware)

	files, err := b.ListFiles(context.Background(), dir)
	require.NoError(t, err)
	assert.Contains(t, files, "plain.go")
}

func TestNewFSBackendRejectsNonDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "file.txt", "x")

	_, err := NewFSBackend(filepath.Join(dir, "file.txt"))
	assert.Error(t, err)
}
