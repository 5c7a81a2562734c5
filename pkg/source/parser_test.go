package source

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const classSource = `
class Order {
	status: string;
}
`

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		full := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return dir
}

func TestParse_ParsesSupportedExtensionsOnly(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"order.ts":     classSource,
		"README.md":    "not source",
		"vendor/x.txt": "ignored",
	})

	set, err := Parse(dir)
	require.NoError(t, err)
	require.Len(t, set.Files, 1)
	assert.Equal(t, "order.ts", set.Files[0].Path)
	assert.Empty(t, set.Skipped)
}

func TestParse_ExcludesDefaultDirectories(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"order.ts":              classSource,
		"node_modules/lib.ts":   classSource,
		".git/hooks/pre.ts":     classSource,
		"dist/bundle.ts":        classSource,
	})

	set, err := Parse(dir)
	require.NoError(t, err)
	require.Len(t, set.Files, 1)
	assert.Equal(t, "order.ts", set.Files[0].Path)
}

func TestParse_ExplicitIncludeListOverridesGlob(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"order.ts":    classSource,
		"invoice.ts":  classSource,
		"domainlens.yaml": "include:\n  - order.ts\n",
	})

	set, err := Parse(dir)
	require.NoError(t, err)
	require.Len(t, set.Files, 1)
	assert.Equal(t, "order.ts", set.Files[0].Path)
}

func TestParse_FilesAreStablySortedByPath(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"b.ts": classSource,
		"a.ts": classSource,
		"c.ts": classSource,
	})

	set, err := Parse(dir)
	require.NoError(t, err)
	require.Len(t, set.Files, 3)
	assert.Equal(t, []string{"a.ts", "b.ts", "c.ts"}, []string{set.Files[0].Path, set.Files[1].Path, set.Files[2].Path})
}

func TestParse_NonexistentRootIsFatal(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestParse_RootIsFileNotDirectoryIsFatal(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "notadir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := Parse(file)
	assert.Error(t, err)
}

func TestLocalProvider_ResolvesToSamePath(t *testing.T) {
	root, cleanup, err := LocalProvider{}.Resolve("/some/project")
	require.NoError(t, err)
	assert.Equal(t, "/some/project", root)
	cleanup() // no-op, must not panic
}

func TestUnzipProvider_NonZipPathFallsBackToLocal(t *testing.T) {
	root, cleanup, err := UnzipProvider{}.Resolve("/some/project")
	require.NoError(t, err)
	assert.Equal(t, "/some/project", root)
	cleanup()
}

func TestUnzipProvider_ExtractsZipToTempDir(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "project.zip")
	writeZip(t, zipPath, map[string]string{"order.ts": classSource})

	root, cleanup, err := UnzipProvider{}.Resolve(zipPath)
	require.NoError(t, err)
	defer cleanup()

	content, err := os.ReadFile(filepath.Join(root, "order.ts"))
	require.NoError(t, err)
	assert.Equal(t, classSource, string(content))
}

func TestUnzipProvider_CleanupRemovesExtractedFiles(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "project.zip")
	writeZip(t, zipPath, map[string]string{"order.ts": classSource})

	root, cleanup, err := UnzipProvider{}.Resolve(zipPath)
	require.NoError(t, err)
	cleanup()

	_, err = os.Stat(root)
	assert.True(t, os.IsNotExist(err))
}

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range files {
		ww, err := w.Create(name)
		require.NoError(t, err)
		_, err = ww.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
}
