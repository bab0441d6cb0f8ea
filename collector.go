package softassert

import (
	"fmt"
	"runtime"
	"strings"
)

// Collector records failed checks instead of stopping at the first one, and reports all of them together with [Collector.Report].
// Checks never fail on their own, they only add a [Failure] to the Collector's buffer.
//
// Each test session should use its own Collector, created with [New].
// Note that a Collector is not concurrency safe.
type Collector struct {
	s        *session
	location string
}

type session struct {
	failures []Failure
	opts     options
}

// New creates a [Collector] with an empty failure buffer.
func New(opts ...Option) *Collector {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return &Collector{s: &session{opts: o}}
}

// At returns a view of this [Collector] that records location for each failed check, instead of the calling file and line.
// This is useful when checks are declared somewhere other than Go code, like a YAML file.
// The view shares the same failure buffer, and location is only recorded when caller details are enabled with [WithCallerDetails].
func (c *Collector) At(location string) *Collector {
	return &Collector{s: c.s, location: location}
}

func getCallerDetails() string {
	_, file, line, ok := runtime.Caller(3)
	if !ok {
		return "unknown"
	}
	return fmt.Sprintf("'%s#%d'", file, line)
}

// record must only be called directly from a check method, so the caller depth is stable.
func (c *Collector) record(f Failure) {
	if c.s.opts.caller {
		if len(c.location) > 0 {
			f.caller = c.location
		} else {
			f.caller = getCallerDetails()
		}
	}
	c.s.failures = append(c.s.failures, f)
}

func kindSuffixes(actual, expected Value) (string, string) {
	if actual.kind == expected.kind {
		return actual.String(), expected.String()
	}
	return fmt.Sprintf("%s (%s)", actual, actual.kind), fmt.Sprintf("%s (%s)", expected, expected.kind)
}

// Equal checks that actual and expected are strictly equal, as defined by [Value.Equal].
func (c *Collector) Equal(actual, expected Value, msg string) {
	if c.s.opts.disabled || actual.Equal(expected) {
		return
	}
	a, e := kindSuffixes(actual, expected)
	c.record(Failure{
		check:       CheckEqual,
		context:     msg,
		actual:      actual,
		expected:    expected,
		hasExpected: true,
		message:     fmt.Sprintf("%s\nActual: %s\nExpected: %s", msg, a, e),
	})
}

// NotEqual checks that actual and expected are not strictly equal, as defined by [Value.Equal].
func (c *Collector) NotEqual(actual, expected Value, msg string) {
	if c.s.opts.disabled || !actual.Equal(expected) {
		return
	}
	c.record(Failure{
		check:       CheckNotEqual,
		context:     msg,
		actual:      actual,
		expected:    expected,
		hasExpected: true,
		message:     fmt.Sprintf("%s\nValues were not supposed to be the same. Got: %s", msg, actual),
	})
}

// Contains checks that the textual form of actual contains the textual form of expected.
// Only text and number values are supported, any other kind is recorded as a failure.
func (c *Collector) Contains(actual, expected Value, msg string) {
	if c.s.opts.disabled {
		return
	}
	f := Failure{
		check:       CheckContains,
		context:     msg,
		actual:      actual,
		expected:    expected,
		hasExpected: true,
	}
	if !containable(actual) || !containable(expected) {
		f.message = fmt.Sprintf("%s\nContains only supports text and number values, got %s and %s", msg, actual.kind, expected.kind)
		c.record(f)
		return
	}
	if strings.Contains(actual.String(), expected.String()) {
		return
	}
	f.message = fmt.Sprintf("%s\nActual: \"%s\" does not contain \"%s\"", msg, actual.String(), expected.String())
	c.record(f)
}

func containable(v Value) bool {
	return v.kind == KindText || v.kind == KindNumber
}

// True checks that value is true.
func (c *Collector) True(value bool, msg string) {
	if c.s.opts.disabled || value {
		return
	}
	c.record(Failure{
		check:   CheckTrue,
		context: msg,
		actual:  Bool(value),
		message: fmt.Sprintf("%s\nExpected: true, but got: %t", msg, value),
	})
}

// False checks that value is false.
func (c *Collector) False(value bool, msg string) {
	if c.s.opts.disabled || !value {
		return
	}
	c.record(Failure{
		check:   CheckFalse,
		context: msg,
		actual:  Bool(value),
		message: fmt.Sprintf("%s\nExpected: false, but got: %t", msg, value),
	})
}

// GreaterThan checks that actual is greater than expected.
// The check fails only if actual <= expected, so a NaN operand passes.
func (c *Collector) GreaterThan(actual, expected float64, msg string) {
	if c.s.opts.disabled || !(actual <= expected) {
		return
	}
	c.record(Failure{
		check:       CheckGreaterThan,
		context:     msg,
		actual:      Number(actual),
		expected:    Number(expected),
		hasExpected: true,
		message:     fmt.Sprintf("%s\n%s is not greater than %s", msg, formatNumber(actual), formatNumber(expected)),
	})
}

// LessThan checks that actual is less than expected.
// The check fails only if actual >= expected, so a NaN operand passes.
func (c *Collector) LessThan(actual, expected float64, msg string) {
	if c.s.opts.disabled || !(actual >= expected) {
		return
	}
	c.record(Failure{
		check:       CheckLessThan,
		context:     msg,
		actual:      Number(actual),
		expected:    Number(expected),
		hasExpected: true,
		message:     fmt.Sprintf("%s\n%s is not less than %s", msg, formatNumber(actual), formatNumber(expected)),
	})
}

// NotNull checks that value is not Null.
// Zero values of other kinds, like Number(0) or Text(""), are not Null.
func (c *Collector) NotNull(value Value, msg string) {
	if c.s.opts.disabled || !value.IsNull() {
		return
	}
	c.record(Failure{
		check:   CheckNotNull,
		context: msg,
		actual:  value,
		message: fmt.Sprintf("%s\nReceived value is: %s. It should not be null", msg, value),
	})
}

// Len returns the number of failures waiting to be reported.
func (c *Collector) Len() int {
	return len(c.s.failures)
}

// Failures returns a copy of the failures waiting to be reported, without clearing them.
func (c *Collector) Failures() []Failure {
	failures := make([]Failure, len(c.s.failures))
	copy(failures, c.s.failures)
	return failures
}

// Report returns nil if no checks have failed since the last Report.
// Otherwise, an [*AggregateError] with every recorded [Failure] is returned.
//
// The failure buffer is always cleared, so the next session starts clean whether or not the error is handled.
func (c *Collector) Report() error {
	if len(c.s.failures) == 0 {
		return nil
	}
	failures := c.s.failures
	c.s.failures = nil
	if c.s.opts.log != nil {
		c.s.opts.log.Debug("Reporting soft assertion failures", "count", len(failures))
	}
	return &AggregateError{
		failures:  failures,
		header:    c.s.opts.header,
		separator: c.s.opts.separator,
	}
}
