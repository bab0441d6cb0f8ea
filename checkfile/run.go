package checkfile

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/saylorsolutions/softassert"
	"gopkg.in/yaml.v3"
)

// scalarValue maps a YAML scalar to a [softassert.Value] by its resolved tag, so quoted "5" is text and 5 is a number.
// A missing node is Null.
func scalarValue(node *yaml.Node) (softassert.Value, error) {
	if node.Kind == 0 {
		return softassert.Null(), nil
	}
	if node.Kind != yaml.ScalarNode {
		return softassert.Null(), fmt.Errorf("%w: line %d: only scalar values are supported", ErrInvalidValue, node.Line)
	}
	switch node.ShortTag() {
	case "!!null":
		return softassert.Null(), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return softassert.Null(), fmt.Errorf("%w: line %d: %v", ErrInvalidValue, node.Line, err)
		}
		return softassert.Bool(b), nil
	case "!!int", "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return softassert.Null(), fmt.Errorf("%w: line %d: %v", ErrInvalidValue, node.Line, err)
		}
		return softassert.Number(f), nil
	default:
		return softassert.Text(node.Value), nil
	}
}

func convert(v softassert.Value, as Conversion) (softassert.Value, error) {
	if as == AsIs || v.IsNull() {
		return v, nil
	}
	switch as {
	case AsText:
		return softassert.Text(v.String()), nil
	case AsNumber:
		if v.Kind() == softassert.KindNumber {
			return v, nil
		}
		if s, ok := v.TextValue(); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return softassert.Null(), fmt.Errorf("%w: '%s' is not a number", ErrInvalidValue, s)
			}
			return softassert.Number(f), nil
		}
	case AsBool:
		if v.Kind() == softassert.KindBool {
			return v, nil
		}
		if s, ok := v.TextValue(); ok {
			b, err := strconv.ParseBool(strings.TrimSpace(s))
			if err != nil {
				return softassert.Null(), fmt.Errorf("%w: '%s' is not a bool", ErrInvalidValue, s)
			}
			return softassert.Bool(b), nil
		}
	}
	return softassert.Null(), fmt.Errorf("%w: can't convert %s to %s", ErrInvalidValue, v.Kind(), as)
}

// Run applies every check in the [File] to c, in order.
// Failed checks are recorded in c, and must be reported with [softassert.Collector.Report].
// If caller details are enabled in c, then each failure records the check's location in the file.
//
// The returned error is only for actual values that couldn't be resolved or converted, and the offending checks are skipped.
// If lookup is nil, then actual_env values are always Null.
func (f *File) Run(c *softassert.Collector, lookup LookupFunc) error {
	var errs []error
	for i := range f.Checks {
		if err := f.Checks[i].run(c.At(f.location(i)), lookup); err != nil {
			errs = append(errs, fmt.Errorf("check %d: %w", i+1, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		if len(f.Path) > 0 {
			return fmt.Errorf("%s: %w", f.Path, err)
		}
		return err
	}
	return nil
}

// location identifies a check by its file and line, in the same form as Go caller details.
// It's never empty, so the Go caller is never recorded for a check from a file.
func (f *File) location(idx int) string {
	line := f.Checks[idx].line
	switch {
	case line == 0 && len(f.Path) == 0:
		return fmt.Sprintf("'check %d'", idx+1)
	case line == 0:
		return fmt.Sprintf("'%s' check %d", f.Path, idx+1)
	case len(f.Path) == 0:
		return fmt.Sprintf("'line %d'", line)
	default:
		return fmt.Sprintf("'%s#%d'", f.Path, line)
	}
}

func (c *Check) resolveActual(lookup LookupFunc) (softassert.Value, error) {
	if len(c.ActualEnv) == 0 {
		return c.actual, nil
	}
	if lookup == nil {
		return softassert.Null(), nil
	}
	val, ok := lookup(c.ActualEnv)
	if !ok {
		return softassert.Null(), nil
	}
	return convert(softassert.Text(val), c.As)
}

func (c *Check) run(col *softassert.Collector, lookup LookupFunc) error {
	actual, err := c.resolveActual(lookup)
	if err != nil {
		return fmt.Errorf("actual_env '%s': %w", c.ActualEnv, err)
	}
	switch c.Name {
	case Equal:
		col.Equal(actual, c.expected, c.Message)
	case NotEqual:
		col.NotEqual(actual, c.expected, c.Message)
	case Contains:
		col.Contains(actual, c.expected, c.Message)
	case True:
		if b, ok := actual.BoolValue(); ok {
			col.True(b, c.Message)
		} else {
			col.Equal(actual, softassert.Bool(true), c.Message)
		}
	case False:
		if b, ok := actual.BoolValue(); ok {
			col.False(b, c.Message)
		} else {
			col.Equal(actual, softassert.Bool(false), c.Message)
		}
	case GreaterThan, LessThan:
		if actual.IsNull() {
			col.NotNull(actual, c.Message)
			return nil
		}
		a, ok := actual.NumberValue()
		if !ok {
			return fmt.Errorf("%w: '%s' requires a number, got %s", ErrInvalidValue, c.Name, actual.Kind())
		}
		e, _ := c.expected.NumberValue()
		if c.Name == GreaterThan {
			col.GreaterThan(a, e, c.Message)
		} else {
			col.LessThan(a, e, c.Message)
		}
	case NotNull:
		col.NotNull(actual, c.Message)
	default:
		return fmt.Errorf("%w '%s'", ErrUnknownCheck, c.Name)
	}
	return nil
}
