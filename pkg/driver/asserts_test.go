package driver

import (
	"testing"

	"github.com/jfranklin9000/ucg/pkg/ast"
)

func TestAssertCollectorRecordsAllAndReportsFailures(t *testing.T) {
	c := NewAssertCollector()
	if c.RunID == "" {
		t.Fatal("expected a non-empty run id")
	}
	c.Record(true, "first", ast.Span{})
	c.Record(false, "second", ast.Span{})
	c.Record(false, "third", ast.Span{})

	if len(c.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(c.Results))
	}
	if c.Passed() {
		t.Fatal("expected Passed() false with failures present")
	}
	failures := c.Failures()
	if len(failures) != 2 || failures[0].Desc != "second" || failures[1].Desc != "third" {
		t.Fatalf("unexpected failures: %+v", failures)
	}
}

func TestAssertCollectorPassesWithNoFailures(t *testing.T) {
	c := NewAssertCollector()
	c.Record(true, "ok", ast.Span{})
	if !c.Passed() {
		t.Fatal("expected Passed() true")
	}
}
