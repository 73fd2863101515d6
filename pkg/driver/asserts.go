package driver

import (
	"github.com/google/uuid"

	"github.com/jfranklin9000/ucg/pkg/ast"
)

// AssertResult is one recorded `assert` statement outcome.
type AssertResult struct {
	OK   bool
	Desc string
	Span ast.Span
}

// AssertCollector accumulates every assert result across a run, satisfying
// eval.AssertCollector. An assert never terminates evaluation on ok = false,
// so a file with ten assertions always reports all ten before a pass/fail
// verdict is computed.
type AssertCollector struct {
	RunID   string
	Results []AssertResult
}

// NewAssertCollector builds a collector tagged with a fresh run id, used to
// correlate a `ucg test` invocation's results in aggregated CI output.
func NewAssertCollector() *AssertCollector {
	return &AssertCollector{RunID: uuid.NewString()}
}

func (c *AssertCollector) Record(ok bool, desc string, span ast.Span) {
	c.Results = append(c.Results, AssertResult{OK: ok, Desc: desc, Span: span})
}

// Failures returns every recorded result with OK false.
func (c *AssertCollector) Failures() []AssertResult {
	var out []AssertResult
	for _, r := range c.Results {
		if !r.OK {
			out = append(out, r)
		}
	}
	return out
}

// Passed reports whether every recorded assertion succeeded.
func (c *AssertCollector) Passed() bool {
	return len(c.Failures()) == 0
}
