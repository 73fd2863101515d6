// Package driver wires the evaluator to the host: manifest loading, a
// filesystem Loader, environment-variable and trace collaborators, and a
// git-backed fetcher for std_root. It is the seam between pkg/eval's pure
// evaluation model and the outside world.
package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestName is the file ucg looks for in the run root and its ancestor
// directories before falling back to direct-file execution.
const ManifestName = "ucg.yml"

// Manifest is the optional project-level configuration read from ucg.yml:
// where the standard library lives, extra directories to search when
// resolving imports, and the default strictness for env.* lookups. StdRoot
// is always the local path the resolver reads from; StdRemote, when set,
// names a git remote to vendor into StdRoot before resolving anything (see
// FetchStdlib), with StdRev pinning a tag or revision within it.
type Manifest struct {
	StdRoot     string   `yaml:"std_root"`
	StdRemote   string   `yaml:"std_remote"`
	StdRev      string   `yaml:"std_rev"`
	SearchPaths []string `yaml:"search_paths"`
	Nostrict    bool     `yaml:"nostrict"`

	// Path is the manifest file's own location, used to resolve StdRoot and
	// SearchPaths relative to the manifest rather than the working directory.
	Path string `yaml:"-"`
}

// ValidationError aggregates every issue found while validating a Manifest:
// a manifest can be wrong in more than one field at once, and reporting
// only the first is unhelpful.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid manifest: %s", strings.Join(e.Issues, "; "))
}

func (e *ValidationError) add(format string, args ...any) {
	e.Issues = append(e.Issues, fmt.Sprintf(format, args...))
}

// ErrManifestNotFound is returned by FindManifest when no ucg.yml exists
// between start and the filesystem root.
var ErrManifestNotFound = fmt.Errorf("no %s found", ManifestName)

// FindManifest walks upward from start looking for ucg.yml.
func FindManifest(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrManifestNotFound
		}
		dir = parent
	}
}

// LoadManifest reads and validates the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	m.Path = path

	if err := m.validate(); err != nil {
		return nil, err
	}
	m.resolvePaths()
	return &m, nil
}

func (m *Manifest) validate() error {
	ve := &ValidationError{}
	if m.StdRoot == "" {
		ve.add("std_root must not be empty when a manifest is present")
	}
	if m.StdRev != "" && m.StdRemote == "" {
		ve.add("std_rev requires std_remote to be set")
	}
	for i, p := range m.SearchPaths {
		if strings.TrimSpace(p) == "" {
			ve.add("search_paths[%d] must not be empty", i)
		}
	}
	if len(ve.Issues) > 0 {
		return ve
	}
	return nil
}

// resolvePaths rewrites StdRoot and every SearchPaths entry to be relative
// to the manifest's own directory, so ucg.yml is portable across working
// directories the same way a package.yml is.
func (m *Manifest) resolvePaths() {
	base := filepath.Dir(m.Path)
	if m.StdRoot != "" && !filepath.IsAbs(m.StdRoot) {
		m.StdRoot = filepath.Join(base, m.StdRoot)
	}
	for i, p := range m.SearchPaths {
		if !filepath.IsAbs(p) {
			m.SearchPaths[i] = filepath.Join(base, p)
		}
	}
}
