package bundle

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/htmlweld/htmlweld/internal/errors"
	"github.com/htmlweld/htmlweld/internal/logging"
)

func newTestOrchestrator(t *testing.T, dir string) *Orchestrator {
	t.Helper()
	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.LevelError,
		Output: os.Stderr,
	})
	return NewOrchestrator(dir, ".html", NewWriter(), logger)
}

func writeComponent(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestScanMissingDirectoryIsEmptyInput(t *testing.T) {
	o := newTestOrchestrator(t, filepath.Join(t.TempDir(), "does-not-exist"))

	components, err := o.Scan()
	require.NoError(t, err)
	assert.Empty(t, components)
}

func TestScanPicksUpOnlyMatchingExtension(t *testing.T) {
	dir := t.TempDir()
	writeComponent(t, dir, "card.html", "<template><b>x</b></template>")
	writeComponent(t, dir, "notes.txt", "not a component")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.html"), 0o755))

	o := newTestOrchestrator(t, dir)
	components, err := o.Scan()
	require.NoError(t, err)

	require.Len(t, components, 1)
	assert.Equal(t, "card", components[0].Name)
	assert.True(t, components[0].Sections.HasTemplate)
}

func TestScanRejectsInvalidComponentName(t *testing.T) {
	dir := t.TempDir()
	writeComponent(t, dir, "my-card.html", "<template><b>x</b></template>")

	o := newTestOrchestrator(t, dir)
	_, err := o.Scan()
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindExtract))
	assert.Contains(t, err.Error(), "my-card.html")
}

func TestRebuildWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "dist")
	writeComponent(t, dir, "card.html",
		"<template><div>{{title}}</div></template><script>card.textContent='x'</script><style>p{color:red}</style>")

	o := newTestOrchestrator(t, dir)
	require.NoError(t, o.Rebuild(context.Background(), outDir, false))

	script, err := os.ReadFile(filepath.Join(outDir, ScriptArtifact))
	require.NoError(t, err)
	assert.Contains(t, string(script), `document.querySelectorAll("card")`)
	assert.Contains(t, string(script), "card.textContent='x'")

	style, err := os.ReadFile(filepath.Join(outDir, StyleArtifact))
	require.NoError(t, err)
	assert.Contains(t, string(style), "color:red")
}

func TestRebuildIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "dist")
	writeComponent(t, dir, "card.html", "<template><b>x</b></template>")
	writeComponent(t, dir, "nav.html", "<script>nav.focus()</script>")

	o := newTestOrchestrator(t, dir)
	require.NoError(t, o.Rebuild(context.Background(), outDir, true))
	first, err := os.ReadFile(filepath.Join(outDir, ScriptArtifact))
	require.NoError(t, err)

	require.NoError(t, o.Rebuild(context.Background(), outDir, true))
	second, err := os.ReadFile(filepath.Join(outDir, ScriptArtifact))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRebuildDropsDeletedComponent(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "dist")
	writeComponent(t, dir, "card.html", "<template><b>x</b></template>")
	writeComponent(t, dir, "nav.html", "<script>nav.focus()</script><style>nav{display:block}</style>")

	o := newTestOrchestrator(t, dir)
	require.NoError(t, o.Rebuild(context.Background(), outDir, false))

	require.NoError(t, os.Remove(filepath.Join(dir, "nav.html")))
	require.NoError(t, o.Rebuild(context.Background(), outDir, false))

	script, err := os.ReadFile(filepath.Join(outDir, ScriptArtifact))
	require.NoError(t, err)
	assert.NotContains(t, string(script), "nav.focus()")
	assert.Contains(t, string(script), `document.querySelectorAll("card")`)
}

func TestRebuildEmptyDirectoryWritesSpaceScript(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "dist")

	o := newTestOrchestrator(t, dir)
	require.NoError(t, o.Rebuild(context.Background(), outDir, false))

	script, err := os.ReadFile(filepath.Join(outDir, ScriptArtifact))
	require.NoError(t, err)
	assert.Equal(t, " ", string(script))

	_, err = os.Stat(filepath.Join(outDir, StyleArtifact))
	assert.True(t, os.IsNotExist(err))
}

func TestRebuildFailureLeavesPreviousArtifacts(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "dist")
	writeComponent(t, dir, "card.html", "<template><b>x</b></template>")

	o := newTestOrchestrator(t, dir)
	require.NoError(t, o.Rebuild(context.Background(), outDir, false))
	before, err := os.ReadFile(filepath.Join(outDir, ScriptArtifact))
	require.NoError(t, err)

	// An invalidly named component aborts the whole rebuild.
	writeComponent(t, dir, "Bad-Name.html", "<template><b>y</b></template>")
	err = o.Rebuild(context.Background(), outDir, false)
	require.Error(t, err)

	after, readErr := os.ReadFile(filepath.Join(outDir, ScriptArtifact))
	require.NoError(t, readErr)
	assert.Equal(t, before, after)
}
