package softassert_test

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/saylorsolutions/softassert"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireReport(t *testing.T, c *softassert.Collector) *softassert.AggregateError {
	t.Helper()
	err := c.Report()
	require.Error(t, err)
	var agg *softassert.AggregateError
	require.ErrorAs(t, err, &agg)
	return agg
}

func TestCollector_Report_Empty(t *testing.T) {
	c := softassert.New()
	assert.NoError(t, c.Report())
	assert.Equal(t, 0, c.Len())
	assert.NoError(t, c.Report(), "Reporting an idle collector should stay a no-op")
}

func TestCollector_Report_Clears(t *testing.T) {
	c := softassert.New()
	c.True(false, "first")
	c.True(false, "second")
	agg := requireReport(t, c)
	assert.Equal(t, 2, agg.Len())
	assert.Equal(t, 0, c.Len())

	c.False(true, "third")
	agg = requireReport(t, c)
	require.Equal(t, 1, agg.Len())
	assert.Equal(t, "third", agg.Failures()[0].Context())
	assert.NotContains(t, agg.Error(), "first")
	assert.NotContains(t, agg.Error(), "[Assertion 2]")
}

func TestCollector_Equal(t *testing.T) {
	tests := map[string]struct {
		actual, expected softassert.Value
		fails            bool
	}{
		"Same number":        {softassert.Number(5), softassert.Number(5), false},
		"Number and text":    {softassert.Number(5), softassert.Text("5"), true},
		"Different numbers":  {softassert.Number(1), softassert.Number(2), true},
		"Int and float":      {softassert.Number(2), softassert.Number(2.0), false},
		"Same text":          {softassert.Text("a"), softassert.Text("a"), false},
		"Bool and text":      {softassert.Bool(true), softassert.Text("true"), true},
		"Both null":          {softassert.Null(), softassert.Null(), false},
		"Null and zero":      {softassert.Null(), softassert.Number(0), true},
		"NaN is not NaN":     {softassert.Number(math.NaN()), softassert.Number(math.NaN()), true},
		"Empty text and nil": {softassert.Text(""), softassert.Null(), true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			c := softassert.New()
			c.Equal(tc.actual, tc.expected, name)
			if tc.fails {
				assert.Equal(t, 1, c.Len())
			} else {
				assert.Equal(t, 0, c.Len())
			}
		})
	}
}

func TestCollector_Equal_Message(t *testing.T) {
	c := softassert.New()
	c.Equal(softassert.Number(1), softassert.Number(2), "B")
	c.Equal(softassert.Number(5), softassert.Text("5"), "mixed")
	failures := c.Failures()
	require.Len(t, failures, 2)
	assert.Equal(t, "B\nActual: 1\nExpected: 2", failures[0].Message())
	assert.Equal(t, "mixed\nActual: 5 (number)\nExpected: 5 (text)", failures[1].Message())

	f := failures[0]
	assert.Equal(t, softassert.CheckEqual, f.Check())
	assert.Equal(t, softassert.Number(1), f.Actual())
	expected, ok := f.Expected()
	assert.True(t, ok)
	assert.Equal(t, softassert.Number(2), expected)
	assert.Empty(t, f.Caller())
}

func TestCollector_NotEqual(t *testing.T) {
	c := softassert.New()
	c.NotEqual(softassert.Text("a"), softassert.Text("b"), "differs")
	c.NotEqual(softassert.Number(5), softassert.Text("5"), "differs by kind")
	assert.Equal(t, 0, c.Len())

	c.NotEqual(softassert.Text("a"), softassert.Text("a"), "same")
	failures := c.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "same\nValues were not supposed to be the same. Got: a", failures[0].Message())
}

func TestCollector_Contains(t *testing.T) {
	c := softassert.New()
	c.Contains(softassert.Text("hello world"), softassert.Text("world"), "passes")
	c.Contains(softassert.Number(12345), softassert.Number(234), "numbers use their text form")
	c.Contains(softassert.Text("v1.5"), softassert.Number(1.5), "mixed text and number")
	assert.Equal(t, 0, c.Len())

	c.Contains(softassert.Text("hello"), softassert.Text("world"), "greeting")
	failures := c.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, softassert.CheckContains, failures[0].Check())
	assert.Contains(t, failures[0].Message(), `"hello" does not contain "world"`)
}

func TestCollector_Contains_UnsupportedKind(t *testing.T) {
	c := softassert.New()
	c.Contains(softassert.Bool(true), softassert.Text("true"), "bool")
	c.Contains(softassert.Text("null"), softassert.Null(), "null")
	failures := c.Failures()
	require.Len(t, failures, 2)
	assert.Contains(t, failures[0].Message(), "got bool and text")
	assert.Contains(t, failures[1].Message(), "got text and null")
}

func TestCollector_TrueFalse(t *testing.T) {
	c := softassert.New()
	c.True(true, "true")
	c.False(false, "false")
	assert.Equal(t, 0, c.Len())

	c.True(false, "A")
	c.False(true, "B")
	failures := c.Failures()
	require.Len(t, failures, 2)
	assert.Equal(t, "A\nExpected: true, but got: false", failures[0].Message())
	assert.Equal(t, "B\nExpected: false, but got: true", failures[1].Message())
	_, ok := failures[0].Expected()
	assert.False(t, ok)
}

func TestCollector_Ordering(t *testing.T) {
	c := softassert.New()
	c.GreaterThan(5, 3, "greater")
	c.LessThan(3, 5, "less")
	c.GreaterThan(math.NaN(), 3, "NaN is not <= 3")
	assert.Equal(t, 0, c.Len())

	c.GreaterThan(3, 5, "not greater")
	c.GreaterThan(5, 5, "equal is not greater")
	c.LessThan(5, 3, "not less")
	c.LessThan(2.5, 2.5, "equal is not less")
	failures := c.Failures()
	require.Len(t, failures, 4)
	assert.Equal(t, "not greater\n3 is not greater than 5", failures[0].Message())
	assert.Equal(t, "equal is not greater\n5 is not greater than 5", failures[1].Message())
	assert.Equal(t, "not less\n5 is not less than 3", failures[2].Message())
	assert.Equal(t, "equal is not less\n2.5 is not less than 2.5", failures[3].Message())
}

func TestCollector_NotNull(t *testing.T) {
	var (
		missing *string
		present = "here"
		zero    = 0
	)
	c := softassert.New()
	c.NotNull(softassert.Number(0), "zero is not null")
	c.NotNull(softassert.Text(""), "empty text is not null")
	c.NotNull(softassert.Bool(false), "false is not null")
	c.NotNull(softassert.Optional(&present), "present pointer")
	c.NotNull(softassert.Optional(&zero), "pointer to zero")
	assert.Equal(t, 0, c.Len())

	c.NotNull(softassert.Null(), "null")
	c.NotNull(softassert.Optional(missing), "nil pointer")
	failures := c.Failures()
	require.Len(t, failures, 2)
	assert.Equal(t, "null\nReceived value is: null. It should not be null", failures[0].Message())
	assert.Equal(t, softassert.CheckNotNull, failures[1].Check())
}

func TestCollector_Scenario(t *testing.T) {
	c := softassert.New()
	c.True(false, "A")
	c.Equal(softassert.Number(1), softassert.Number(2), "B")
	c.NotNull(softassert.Null(), "C")

	agg := requireReport(t, c)
	msg := agg.Error()
	assert.True(t, strings.HasPrefix(msg, softassert.DefaultHeader+"\n"))
	var last int
	for i, label := range []string{"A", "B", "C"} {
		block := fmt.Sprintf("[Assertion %d]: \n%s\n", i+1, label)
		idx := strings.Index(msg, block)
		require.GreaterOrEqual(t, idx, 0, "Missing block %d", i+1)
		assert.Greater(t, idx+1, last, "Blocks should be in call order")
		last = idx + 1
	}
	assert.NotContains(t, msg, "[Assertion 4]")

	failures := agg.Failures()
	require.Len(t, failures, 3)
	assert.Equal(t, softassert.CheckTrue, failures[0].Check())
	assert.Equal(t, softassert.CheckEqual, failures[1].Check())
	assert.Equal(t, softassert.CheckNotNull, failures[2].Check())
}

func TestAggregateError_Unwrap(t *testing.T) {
	c := softassert.New()
	c.True(false, "A")
	c.Equal(softassert.Text("x"), softassert.Text("y"), "B")
	failures := c.Failures()
	err := c.Report()
	require.Error(t, err)

	assert.ErrorIs(t, err, failures[0])
	assert.ErrorIs(t, err, failures[1])
	var f softassert.Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, "A", f.Context())
}

func TestAggregateError_Failures_Copy(t *testing.T) {
	c := softassert.New()
	c.True(false, "A")
	agg := requireReport(t, c)
	failures := agg.Failures()
	failures[0] = softassert.Failure{}
	assert.Equal(t, "A", agg.Failures()[0].Context())
}

func TestCollector_Options(t *testing.T) {
	c := softassert.New(softassert.WithHeader("Soft failures"), softassert.WithSeparator("---\n"))
	c.True(false, "A")
	c.True(false, "B")
	agg := requireReport(t, c)
	expected := "Soft failures\n" +
		"[Assertion 1]: \nA\nExpected: true, but got: false\n" +
		"---\n" +
		"[Assertion 2]: \nB\nExpected: true, but got: false\n"
	assert.Equal(t, expected, agg.Error())
}

func TestCollector_Disabled(t *testing.T) {
	c := softassert.New(softassert.WithDisabled(true))
	c.True(false, "A")
	c.Equal(softassert.Number(1), softassert.Number(2), "B")
	c.Contains(softassert.Bool(true), softassert.Null(), "C")
	c.NotNull(softassert.Null(), "D")
	assert.Equal(t, 0, c.Len())
	assert.NoError(t, c.Report())
}

func TestCollector_CallerDetails(t *testing.T) {
	c := softassert.New(softassert.WithCallerDetails(true))
	c.True(false, "A")
	c.Contains(softassert.Text("a"), softassert.Text("b"), "B")
	failures := c.Failures()
	require.Len(t, failures, 2)
	for _, f := range failures {
		assert.Contains(t, f.Caller(), "collector_test.go#")
	}
	agg := requireReport(t, c)
	assert.Contains(t, agg.Error(), "[Assertion 1]: at '")
}

func TestCollector_Independent(t *testing.T) {
	a, b := softassert.New(), softassert.New()
	a.True(false, "only in a")
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 0, b.Len())
	assert.NoError(t, b.Report())
	assert.Error(t, a.Report())
}

func TestCollector_Failures_Copy(t *testing.T) {
	c := softassert.New()
	c.True(false, "A")
	failures := c.Failures()
	failures[0] = softassert.Failure{}
	assert.Equal(t, "A", c.Failures()[0].Context())
}

func TestAggregateError_Unwrap_NaN(t *testing.T) {
	c := softassert.New()
	c.Equal(softassert.Number(math.NaN()), softassert.Number(1), "NaN")
	c.NotNull(softassert.Null(), "null")
	failures := c.Failures()
	err := c.Report()
	require.Error(t, err)

	assert.ErrorIs(t, err, failures[0], "A failure holding NaN should still match itself")
	assert.ErrorIs(t, err, failures[1])
	assert.False(t, failures[0].Is(failures[1]))
	assert.False(t, failures[0].Is(errors.New("NaN")))
}

func TestCollector_EmptyHeader(t *testing.T) {
	c := softassert.New(softassert.WithHeader(""))
	c.True(false, "A")
	agg := requireReport(t, c)
	assert.Equal(t, "[Assertion 1]: \nA\nExpected: true, but got: false\n", agg.Error())
}

func TestCollector_At(t *testing.T) {
	c := softassert.New(softassert.WithCallerDetails(true))
	c.At("'checks.yaml#4'").True(false, "A")
	c.True(false, "B")
	require.Equal(t, 2, c.Len(), "Views should share the failure buffer")
	failures := c.Failures()
	assert.Equal(t, "'checks.yaml#4'", failures[0].Caller())
	assert.Contains(t, failures[1].Caller(), "collector_test.go#")

	agg := requireReport(t, c.At("elsewhere"))
	assert.Equal(t, 2, agg.Len())
	assert.Equal(t, 0, c.Len())

	plain := softassert.New()
	plain.At("'checks.yaml#4'").True(false, "A")
	assert.Empty(t, plain.Failures()[0].Caller(), "Locations are only recorded with caller details enabled")
}
