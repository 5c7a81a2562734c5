package source

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// UnzipProvider is a convenience RepoProvider for the common case of an
// embedder handing the core a zip archive instead of a directory. No
// ecosystem archive library appears anywhere in the retrieved corpus for
// this purpose, so this uses the standard library directly rather than
// reach for one with no precedent (see DESIGN.md).
type UnzipProvider struct {
	// WorkDir is the parent directory extraction happens under. Defaults
	// to os.TempDir() when empty.
	WorkDir string
}

func (u UnzipProvider) Resolve(projectPath string) (string, func(), error) {
	if !strings.HasSuffix(strings.ToLower(projectPath), ".zip") {
		return LocalProvider{}.Resolve(projectPath)
	}

	workDir := u.WorkDir
	if workDir == "" {
		workDir = os.TempDir()
	}
	dest, err := os.MkdirTemp(workDir, "domainlens-src-*")
	if err != nil {
		return "", nil, fmt.Errorf("unzip: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(dest) }

	r, err := zip.OpenReader(projectPath)
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("unzip: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		target := filepath.Join(dest, f.Name)
		if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
			continue // zip-slip guard
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				cleanup()
				return "", nil, err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			cleanup()
			return "", nil, err
		}
		if err := extractFile(f, target); err != nil {
			cleanup()
			return "", nil, err
		}
	}

	return dest, cleanup, nil
}

func extractFile(f *zip.File, target string) error {
	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}
