// Package importer implements UCG's import resolver and cache: canonical
// path resolution relative to the importing file, memoized per-process
// results, and the cycle sentinel that lets a module's originating file
// import itself.
package importer

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/jfranklin9000/ucg/pkg/ast"
	"github.com/jfranklin9000/ucg/pkg/diag"
	"github.com/jfranklin9000/ucg/pkg/value"
)

// Loader provides source bytes for a canonical path; it is the one
// filesystem capability the core depends on.
type Loader interface {
	Load(canonicalPath string) (string, error)
}

// Resolver turns an import literal into a canonical path relative to the
// file that requested it. "std/..." literals resolve against StdRoot.
type Resolver struct {
	StdRoot string
}

// Resolve computes the canonical path for literal as imported from
// importerPath. Relative literals are relative to importerPath's directory.
func (r *Resolver) Resolve(importerPath, literal string) string {
	if strings.HasPrefix(literal, "std/") {
		rest := strings.TrimPrefix(literal, "std/")
		return filepath.Clean(filepath.Join(r.StdRoot, rest))
	}
	dir := filepath.Dir(importerPath)
	return filepath.Clean(filepath.Join(dir, literal))
}

// accumulator is the mutable, append-only field list built while a file's
// top-level statements are evaluated. It backs both the final cached Tuple
// and any Placeholder observed by a reentrant self-import during the load.
type accumulator struct {
	mu     sync.Mutex
	fields []value.TupleField
	index  map[string]int
}

func newAccumulator() *accumulator {
	return &accumulator{index: make(map[string]int)}
}

func (a *accumulator) append(name string, v value.Value) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if i, ok := a.index[name]; ok {
		a.fields[i].Value = v
		return
	}
	a.index[name] = len(a.fields)
	a.fields = append(a.fields, value.TupleField{Name: name, Value: v})
}

func (a *accumulator) get(name string) (value.Value, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if i, ok := a.index[name]; ok {
		return a.fields[i].Value, true
	}
	return nil, false
}

func (a *accumulator) snapshot() *value.Tuple {
	a.mu.Lock()
	defer a.mu.Unlock()
	fields := append([]value.TupleField(nil), a.fields...)
	return value.NewTuple(fields)
}

// Placeholder is observed by a second, reentrant import of a canonical path
// that is still being loaded — the cycle sentinel a self-importing module requires.
// Field access succeeds for names already bound at the time of access and
// fails with CyclicImportUse otherwise; it is never returned once loading
// completes.
type Placeholder struct {
	path string
	acc  *accumulator
}

func (*Placeholder) Kind() value.Kind { return value.KindTuple }

// Field looks up name among bindings completed so far.
func (p *Placeholder) Field(name string) (value.Value, bool) {
	return p.acc.get(name)
}

// Path is the canonical path still loading.
func (p *Placeholder) Path() string { return p.path }

type entry struct {
	acc      *accumulator
	done     bool
	value    *value.Tuple
	err      error
	inflight bool
}

// Cache memoizes load(canonical_path) -> Value for the process lifetime and
// implements the self-import cycle sentinel.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// NewCache builds an empty import cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*entry)}
}

// RunFunc evaluates the file at canonicalPath, calling onBind once per
// top-level `let` binding in declaration order as it is produced. It is
// supplied by the evaluator, which alone knows how to parse and evaluate a
// file's statements; the cache only owns memoization and the sentinel.
type RunFunc func(canonicalPath string, onBind func(name string, v value.Value)) error

// Load returns the memoized tuple for canonicalPath, running run to produce
// it on first request. A reentrant request for a path already loading
// (the self-import case) returns a *Placeholder instead of blocking, since
// evaluation is single-threaded and cooperative.
func (c *Cache) Load(canonicalPath string, run RunFunc) (value.Value, error) {
	c.mu.Lock()
	if e, ok := c.entries[canonicalPath]; ok {
		if e.done {
			c.mu.Unlock()
			if e.err != nil {
				return nil, e.err
			}
			return e.value, nil
		}
		// in-progress: this is a self-import from within the file's own load.
		ph := &Placeholder{path: canonicalPath, acc: e.acc}
		c.mu.Unlock()
		return ph, nil
	}
	e := &entry{acc: newAccumulator(), inflight: true}
	c.entries[canonicalPath] = e
	c.mu.Unlock()

	err := run(canonicalPath, e.acc.append)

	c.mu.Lock()
	e.inflight = false
	e.done = true
	if err != nil {
		e.err = err
	} else {
		e.value = e.acc.snapshot()
	}
	c.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return e.value, nil
}

// CyclicImportUseError builds the diagnostic raised when a selector targets
// an unbound field of a Placeholder.
func CyclicImportUseError(span ast.Span, path, field string) error {
	return diag.New(diag.KindCyclicImportUse, span,
		"field %q of %q is not yet bound; import is still in progress (cyclic self-import)", field, path)
}
