package softassert

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tHelper interface {
	Helper()
}

// ReportTo calls [Collector.Report], and passes the report to t.Errorf if any checks failed.
// Returns true if there were no failures.
//
// This is usually deferred, or registered with t.Cleanup, at the start of a test.
func (c *Collector) ReportTo(t assert.TestingT) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if err := c.Report(); err != nil {
		t.Errorf("%s", err.Error())
		return false
	}
	return true
}

// RequireAll is like [Collector.ReportTo], but also calls t.FailNow if any checks failed.
func (c *Collector) RequireAll(t require.TestingT) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if !c.ReportTo(t) {
		t.FailNow()
	}
}
