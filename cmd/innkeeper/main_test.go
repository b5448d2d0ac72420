package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("INNKEEPER_CONFIG", filepath.Join(dir, "missing.toml"))
	t.Setenv("INNKEEPER_DATABASE_PATH", filepath.Join(dir, "data", "innkeeper.db"))
	t.Setenv("INNKEEPER_LOG_FILE", filepath.Join(dir, "innkeeper.log"))
	t.Setenv("INNKEEPER_EXPORT_DIR", filepath.Join(dir, "exports"))
	color.NoColor = true
	t.Cleanup(func() {
		exportFormat, exportPreset, seedReset = "csv", "", false
	})
	return dir
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func TestSeedListAndExport(t *testing.T) {
	setupEnv(t)

	execute(t, "seed")

	list := execute(t, "properties")
	require.Contains(t, list, "PROPERTY")
	require.Contains(t, list, "Seaside Resort")
	require.Contains(t, list, "$750,000.00")

	path := strings.TrimSpace(execute(t, "export", "--format", "csv", "--preset", "online properties"))
	require.Equal(t, ".csv", filepath.Ext(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 4, strings.Count(string(data), "\n"), "header plus three online hotels")
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	setupEnv(t)
	rootCmd.SetArgs([]string{"export", "--format", "docx"})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	require.ErrorContains(t, rootCmd.Execute(), "unknown export format")
}

func TestPresetByName(t *testing.T) {
	p, err := presetByName("")
	require.NoError(t, err)
	require.Equal(t, "All Properties", p.Label)

	p, err = presetByName("occupancy > 85%")
	require.NoError(t, err)
	require.Equal(t, "Occupancy > 85%", p.Label)

	_, err = presetByName("beachfront")
	require.ErrorContains(t, err, `"Online Properties"`)
}
