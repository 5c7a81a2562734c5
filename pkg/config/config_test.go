package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_NoConfigFileReturnsZeroValue(t *testing.T) {
	dir := t.TempDir()

	proj, err := Load(dir)
	require.NoError(t, err)
	assert.Empty(t, proj.Include)
	assert.Empty(t, proj.Exclude)
}

func TestLoad_ReadsDomainlensYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "domainlens.yaml"), []byte("include:\n  - order.ts\nexclude:\n  - fixtures\n"), 0o644))

	proj, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"order.ts"}, proj.Include)
	assert.Equal(t, []string{"fixtures"}, proj.Exclude)
}

func TestLoad_FallsBackToDotfileWhenPrimaryMissing(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".domainlensrc.yaml"), []byte("include:\n  - invoice.ts\n"), 0o644))

	proj, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"invoice.ts"}, proj.Include)
}

func TestLoad_InvalidYAMLErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "domainlens.yaml"), []byte("include: [unterminated"), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestExcludes_MergesDefaultsAndProjectLevel(t *testing.T) {
	proj := Project{Exclude: []string{"fixtures"}}
	excludes := proj.Excludes()

	assert.True(t, excludes["node_modules"])
	assert.True(t, excludes["fixtures"])
	assert.False(t, excludes["src"])
}
