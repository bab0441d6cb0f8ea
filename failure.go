package softassert

import (
	"fmt"
	"strings"
)

// Check names the [Collector] method that produced a [Failure].
type Check string

const (
	CheckEqual       Check = "Equal"
	CheckNotEqual    Check = "NotEqual"
	CheckContains    Check = "Contains"
	CheckTrue        Check = "True"
	CheckFalse       Check = "False"
	CheckGreaterThan Check = "GreaterThan"
	CheckLessThan    Check = "LessThan"
	CheckNotNull     Check = "NotNull"
)

// Failure is a single failed check recorded by a [Collector].
// A Failure is immutable, and satisfies the error interface with its formatted message.
type Failure struct {
	check       Check
	context     string
	actual      Value
	expected    Value
	hasExpected bool
	caller      string
	message     string
}

// Check returns the name of the check that failed.
func (f Failure) Check() Check {
	return f.check
}

// Context returns the caller-supplied message given to the check.
func (f Failure) Context() string {
	return f.context
}

// Actual returns the value that was checked.
func (f Failure) Actual() Value {
	return f.actual
}

// Expected returns the value that actual was compared against.
// The second return value is false for checks that don't compare against anything, like True or NotNull.
func (f Failure) Expected() (Value, bool) {
	return f.expected, f.hasExpected
}

// Caller returns the location of the check call, or an empty string if caller details were disabled.
func (f Failure) Caller() string {
	return f.caller
}

// Message returns the formatted failure message.
func (f Failure) Message() string {
	return f.message
}

// Error satisfies the error interface.
func (f Failure) Error() string {
	return f.message
}

// Is reports whether target is a [Failure] with the same fields.
// Unlike ==, a NaN value matches another NaN, so a Failure holding NaN can still be found with [errors.Is].
func (f Failure) Is(target error) bool {
	other, ok := target.(Failure)
	if !ok {
		return false
	}
	return f.check == other.check &&
		f.context == other.context &&
		f.hasExpected == other.hasExpected &&
		f.caller == other.caller &&
		f.message == other.message &&
		f.actual.same(other.actual) &&
		f.expected.same(other.expected)
}

const (
	DefaultHeader    = "Assertion errors:" // DefaultHeader is the first line of an [AggregateError] report.
	DefaultSeparator = "\n"                // DefaultSeparator is written between entries of an [AggregateError] report.
)

// AggregateError is returned by [Collector.Report] when at least one check failed.
// It holds every [Failure] in the order the checks were called.
//
// An AggregateError can be inspected with [errors.As] to find an individual [Failure].
type AggregateError struct {
	failures  []Failure
	header    string
	separator string
}

// Len returns the number of failures in the report.
func (e *AggregateError) Len() int {
	return len(e.failures)
}

// Failures returns a copy of the recorded failures.
func (e *AggregateError) Failures() []Failure {
	failures := make([]Failure, len(e.failures))
	copy(failures, e.failures)
	return failures
}

// Error satisfies the error interface.
// Each failure is numbered starting at 1.
func (e *AggregateError) Error() string {
	var buf strings.Builder
	if len(e.header) > 0 {
		buf.WriteString(e.header)
		buf.WriteString("\n")
	}
	for i, f := range e.failures {
		if i > 0 {
			buf.WriteString(e.separator)
		}
		buf.WriteString(formatEntry(i+1, f))
	}
	return buf.String()
}

// Unwrap allows using [errors.Is] and [errors.As] to identify any [Failure] in the report.
// Matching with [errors.Is] uses [Failure.Is].
func (e *AggregateError) Unwrap() []error {
	errs := make([]error, len(e.failures))
	for i, f := range e.failures {
		errs[i] = f
	}
	return errs
}

func formatEntry(num int, f Failure) string {
	if len(f.caller) > 0 {
		return fmt.Sprintf("[Assertion %d]: at %s\n%s\n", num, f.caller, f.message)
	}
	return fmt.Sprintf("[Assertion %d]: \n%s\n", num, f.message)
}
