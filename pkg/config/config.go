// Package config loads the project-level configuration consumed by the
// parser stage: an explicit source set, or an exclusion list for the
// default recursive glob.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileNames are the build-configuration files the parser looks for at a
// project root, tried in order.
var FileNames = []string{"domainlens.yaml", ".domainlensrc.yaml"}

// DefaultExclude is the directory-segment exclusion set applied whenever the
// parser globs the project root (no explicit include list), whether or not a
// build-configuration file is present.
var DefaultExclude = []string{"node_modules", "dist", "build", ".next", ".git", "coverage"}

// DefaultExtensions are the file extensions scanned when no explicit
// include list is given.
var DefaultExtensions = []string{".ts", ".tsx", ".js", ".jsx"}

// Project is the declared source set and exclusions for one project root.
type Project struct {
	// Include, when non-empty, names the exact files to parse (relative to
	// the project root). When empty, the parser globs DefaultExtensions.
	Include []string `yaml:"include"`
	// Exclude names additional path segments to skip, appended to
	// DefaultExclude.
	Exclude []string `yaml:"exclude"`
}

// Load reads the first build-configuration file found at root. It returns a
// zero-value Project (meaning: glob everything, default excludes) if none
// exists.
func Load(root string) (Project, error) {
	for _, name := range FileNames {
		path := filepath.Join(root, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return Project{}, err
		}
		var p Project
		if err := yaml.Unmarshal(data, &p); err != nil {
			return Project{}, err
		}
		return p, nil
	}
	return Project{}, nil
}

// Excludes returns the effective exclusion set: defaults plus project-level
// additions.
func (p Project) Excludes() map[string]bool {
	out := make(map[string]bool, len(DefaultExclude)+len(p.Exclude))
	for _, d := range DefaultExclude {
		out[d] = true
	}
	for _, e := range p.Exclude {
		out[e] = true
	}
	return out
}
