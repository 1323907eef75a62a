package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}

func TestSampleThenGenerate(t *testing.T) {
	dir := t.TempDir()
	noConfig := filepath.Join(dir, "missing.yaml")

	require.NoError(t, execute(t, "sample", "--config", noConfig, "--output", dir))
	for _, name := range []string{"template.xlsx", "roster.xlsx", "roster.csv", "template.docx", "config.yaml"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	out := filepath.Join(dir, "lists")
	require.NoError(t, execute(t, "generate",
		"--config", noConfig,
		"--output", out,
		"--roster", filepath.Join(dir, "roster.csv"),
		"--template", filepath.Join(dir, "template.xlsx"),
		"--format", "xlsx,html,docx",
		"--workers", "2",
		"--no-progress",
	))

	for _, name := range []string{
		"school_1042.xlsx", "school_1042.html", "school_1042.docx",
		"school_2077.xlsx", "school_2077.html", "school_2077.docx",
		"groups.csv", "attendgen.log",
	} {
		assert.FileExists(t, filepath.Join(out, name))
	}
}

func TestGenerateProgressOutput(t *testing.T) {
	dir := t.TempDir()
	noConfig := filepath.Join(dir, "missing.yaml")
	require.NoError(t, execute(t, "sample", "--config", noConfig, "--output", dir))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	t.Cleanup(func() { rootCmd.SetOut(nil) })

	lists := filepath.Join(dir, "lists")
	require.NoError(t, execute(t, "generate",
		"--config", noConfig,
		"--output", lists,
		"--roster", filepath.Join(dir, "roster.xlsx"),
		"--template", filepath.Join(dir, "template.xlsx"),
		"--format", "xlsx",
		"--workers", "1",
		"--no-progress=false",
	))
	assert.Contains(t, out.String(), "2 groups rendered, 3 files written to "+lists)

	out.Reset()
	require.NoError(t, execute(t, "generate",
		"--config", noConfig,
		"--output", lists,
		"--roster", filepath.Join(dir, "roster.xlsx"),
		"--template", filepath.Join(dir, "template.xlsx"),
		"--format", "xlsx",
		"--no-progress",
	))
	assert.NotContains(t, out.String(), "groups rendered")
}

func TestGenerateUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	noConfig := filepath.Join(dir, "missing.yaml")
	require.NoError(t, execute(t, "sample", "--config", noConfig, "--output", dir))

	err := execute(t, "generate",
		"--config", noConfig,
		"--output", filepath.Join(dir, "lists"),
		"--roster", filepath.Join(dir, "roster.xlsx"),
		"--template", filepath.Join(dir, "template.xlsx"),
		"--format", "rtf",
		"--no-progress",
	)
	assert.ErrorContains(t, err, "unknown output format")

	_, statErr := os.Stat(filepath.Join(dir, "lists", "school_1042.rtf"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestGroupsWritesManifest(t *testing.T) {
	dir := t.TempDir()
	noConfig := filepath.Join(dir, "missing.yaml")
	require.NoError(t, execute(t, "sample", "--config", noConfig, "--output", dir))

	out := filepath.Join(dir, "plan")
	require.NoError(t, execute(t, "groups", "--config", noConfig, "--output", out, "--roster", filepath.Join(dir, "roster.xlsx")))

	data, err := os.ReadFile(filepath.Join(out, "groups.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "school_code")
	assert.Contains(t, string(data), "2077")
}

func TestInspectGenerated(t *testing.T) {
	dir := t.TempDir()
	noConfig := filepath.Join(dir, "missing.yaml")
	require.NoError(t, execute(t, "sample", "--config", noConfig, "--output", dir))

	out := filepath.Join(dir, "lists")
	require.NoError(t, execute(t, "generate",
		"--config", noConfig,
		"--output", out,
		"--roster", filepath.Join(dir, "roster.xlsx"),
		"--template", filepath.Join(dir, "template.xlsx"),
		"--format", "xlsx",
		"--no-progress",
	))

	require.NoError(t, execute(t, "inspect", "--config", noConfig, "--output", out, filepath.Join(out, "school_2077.xlsx")))
}
