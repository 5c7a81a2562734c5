// Package source implements the parser stage: it enumerates a project root,
// honoring an explicit build-configuration file or the default exclusion
// glob, and parses every matched file into a ParsedFile with tree-sitter.
package source

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	jsgrammar "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tsgrammar "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/domainlens/domainlens/pkg/config"
	"github.com/domainlens/domainlens/pkg/errs"
	"github.com/domainlens/domainlens/pkg/model"
)

// MaxWorkers bounds the parser's file-level worker pool, matching the
// corpus's own ingestion pass cap.
const MaxWorkers = 8

// SourceSet is the parser stage's output: every successfully parsed file,
// stably ordered by path, plus the files that failed to parse.
type SourceSet struct {
	Files   []model.ParsedFile
	Skipped []*errs.ParseError
}

// RepoProvider resolves a project path (which may be a URL, an archive, or
// an already-local directory) to a local filesystem root. The core only
// ever consumes the returned path; cloning or unzipping is an out-of-scope
// embedder concern.
type RepoProvider interface {
	Resolve(projectPath string) (root string, cleanup func(), err error)
}

// LocalProvider is the default RepoProvider: the project path is already a
// local directory.
type LocalProvider struct{}

func (LocalProvider) Resolve(projectPath string) (string, func(), error) {
	return projectPath, func() {}, nil
}

// Parse runs the parser stage over root: it loads config.Project (if a
// build-configuration file exists), enumerates matching files, and parses
// each with the tree-sitter grammar selected by extension.
func Parse(root string) (*SourceSet, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errs.NewFatalInputError(root, err)
	}
	if !info.IsDir() {
		return nil, errs.NewFatalInputError(root, fmt.Errorf("not a directory"))
	}

	proj, err := config.Load(root)
	if err != nil {
		return nil, errs.NewFatalInputError(root, fmt.Errorf("loading build config: %w", err))
	}

	paths, err := collectPaths(root, proj)
	if err != nil {
		return nil, errs.NewFatalInputError(root, err)
	}

	return parsePaths(root, paths), nil
}

func collectPaths(root string, proj config.Project) ([]string, error) {
	if len(proj.Include) > 0 {
		out := make([]string, len(proj.Include))
		for i, rel := range proj.Include {
			out[i] = filepath.Join(root, rel)
		}
		sort.Strings(out)
		return out, nil
	}

	exclude := proj.Excludes()
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && exclude[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if isSupportedExtension(path) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

func isSupportedExtension(path string) bool {
	for _, ext := range config.DefaultExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// newParser returns a tree-sitter parser configured with the grammar that
// matches path's extension.
func newParser(path string) (*sitter.Parser, error) {
	p := sitter.NewParser()
	switch {
	case strings.HasSuffix(path, ".tsx"):
		p.SetLanguage(sitter.NewLanguage(tsgrammar.LanguageTSX()))
	case strings.HasSuffix(path, ".ts"):
		p.SetLanguage(sitter.NewLanguage(tsgrammar.LanguageTypescript()))
	case strings.HasSuffix(path, ".js"), strings.HasSuffix(path, ".jsx"):
		p.SetLanguage(sitter.NewLanguage(jsgrammar.Language()))
	default:
		return nil, fmt.Errorf("unsupported extension: %s", path)
	}
	return p, nil
}

type parseJob struct {
	path string
}

type parseResult struct {
	file *model.ParsedFile
	err  *errs.ParseError
}

// parsePaths parses every path concurrently (bounded worker pool, mirroring
// the corpus's own ingestion pass), then re-sorts by path so later stages
// never observe worker interleaving.
func parsePaths(root string, paths []string) *SourceSet {
	jobs := make(chan parseJob, len(paths))
	results := make(chan parseResult, len(paths))

	workers := runtime.NumCPU()
	if workers > MaxWorkers {
		workers = MaxWorkers
	}
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				results <- parseOne(root, job.path)
			}
		}()
	}

	for _, p := range paths {
		jobs <- parseJob{path: p}
	}
	close(jobs)

	wg.Wait()
	close(results)

	set := &SourceSet{}
	for r := range results {
		if r.err != nil {
			set.Skipped = append(set.Skipped, r.err)
			continue
		}
		set.Files = append(set.Files, *r.file)
	}

	sort.Slice(set.Files, func(i, j int) bool { return set.Files[i].Path < set.Files[j].Path })
	sort.Slice(set.Skipped, func(i, j int) bool { return set.Skipped[i].FilePath < set.Skipped[j].FilePath })
	return set
}

func parseOne(root, path string) parseResult {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return parseResult{err: &errs.ParseError{FilePath: rel, Err: err}}
	}

	parser, err := newParser(path)
	if err != nil {
		return parseResult{err: &errs.ParseError{FilePath: rel, Err: err}}
	}

	tree := parser.Parse(content, nil)
	if tree == nil || tree.RootNode() == nil {
		return parseResult{err: &errs.ParseError{FilePath: rel, Err: fmt.Errorf("empty parse tree")}}
	}

	return parseResult{file: &model.ParsedFile{
		Path:   rel,
		Source: content,
		Tree:   tree,
	}}
}
