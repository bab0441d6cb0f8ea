package checkfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/saylorsolutions/softassert"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownCheck = errors.New("unknown check")
	ErrInvalidValue = errors.New("invalid value")
	ErrInvalidCheck = errors.New("invalid check definition")
	ErrNoChecks     = errors.New("no checks defined")
)

// CheckName identifies which [softassert.Collector] check is applied.
type CheckName string

const (
	Equal       CheckName = "equal"
	NotEqual    CheckName = "not_equal"
	Contains    CheckName = "contains"
	True        CheckName = "true"
	False       CheckName = "false"
	GreaterThan CheckName = "greater_than"
	LessThan    CheckName = "less_than"
	NotNull     CheckName = "not_null"
)

func (n CheckName) known() bool {
	switch n {
	case Equal, NotEqual, Contains, True, False, GreaterThan, LessThan, NotNull:
		return true
	default:
		return false
	}
}

func (n CheckName) hasExpected() bool {
	switch n {
	case True, False, NotNull:
		return false
	default:
		return true
	}
}

// Conversion names the kind that an actual value is converted to before it's checked.
type Conversion string

const (
	AsIs     Conversion = ""
	AsText   Conversion = "text"
	AsNumber Conversion = "number"
	AsBool   Conversion = "bool"
)

// Check is a single check declared in a [File].
type Check struct {
	Name      CheckName  `yaml:"check"`
	Message   string     `yaml:"message"`
	Actual    yaml.Node  `yaml:"actual"`
	ActualEnv string     `yaml:"actual_env"`
	As        Conversion `yaml:"as"`
	Expected  yaml.Node  `yaml:"expected"`

	line     int
	actual   softassert.Value
	expected softassert.Value
}

// Line returns the line in the source YAML where this check is declared, or 0 if it's unknown.
func (c *Check) Line() int {
	return c.line
}

// File is a set of checks loaded from YAML.
type File struct {
	Path   string  `yaml:"-"`
	Checks []Check `yaml:"checks"`
}

// LookupFunc resolves the value of an environment variable referenced by actual_env.
// [os.LookupEnv] satisfies this type.
type LookupFunc = func(key string) (string, bool)

// LoadFile opens and loads the check file at path.
func LoadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open check file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	file, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load check file '%s': %w", path, err)
	}
	file.Path = path
	return file, nil
}

// Load reads a check file from r, and validates every check.
// All validation errors are returned together.
func Load(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read checks: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var file File
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoChecks
		}
		return nil, fmt.Errorf("failed to decode checks: %w", err)
	}
	if len(file.Checks) == 0 {
		return nil, ErrNoChecks
	}
	var positions struct {
		Checks []yaml.Node `yaml:"checks"`
	}
	if err := yaml.Unmarshal(data, &positions); err == nil && len(positions.Checks) == len(file.Checks) {
		for i := range positions.Checks {
			file.Checks[i].line = positions.Checks[i].Line
		}
	}
	var errs []error
	for i := range file.Checks {
		if err := file.Checks[i].prepare(i); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &file, nil
}

func (c *Check) prepare(idx int) error {
	if !c.Name.known() {
		return fmt.Errorf("check %d: %w '%s'", idx+1, ErrUnknownCheck, c.Name)
	}
	if len(c.Message) == 0 {
		c.Message = fmt.Sprintf("check %d (%s)", idx+1, c.Name)
	}
	switch c.As {
	case AsIs, AsText, AsNumber, AsBool:
	default:
		return fmt.Errorf("check %d: %w: unknown conversion '%s'", idx+1, ErrInvalidCheck, c.As)
	}
	if c.Actual.Kind != 0 && len(c.ActualEnv) > 0 {
		return fmt.Errorf("check %d: %w: actual and actual_env are mutually exclusive", idx+1, ErrInvalidCheck)
	}
	if !c.Name.hasExpected() && c.Expected.Kind != 0 {
		return fmt.Errorf("check %d: %w: '%s' does not accept an expected value", idx+1, ErrInvalidCheck, c.Name)
	}

	var err error
	if c.actual, err = scalarValue(&c.Actual); err != nil {
		return fmt.Errorf("check %d: actual: %w", idx+1, err)
	}
	if c.expected, err = scalarValue(&c.Expected); err != nil {
		return fmt.Errorf("check %d: expected: %w", idx+1, err)
	}
	if len(c.ActualEnv) > 0 {
		// Resolved when the check runs.
		return c.validateExpected(idx)
	}
	if c.actual, err = convert(c.actual, c.As); err != nil {
		return fmt.Errorf("check %d: actual: %w", idx+1, err)
	}
	if err := c.validateExpected(idx); err != nil {
		return err
	}
	return c.validateActual(idx, c.actual)
}

func (c *Check) validateExpected(idx int) error {
	switch c.Name {
	case GreaterThan, LessThan:
		if c.expected.Kind() != softassert.KindNumber {
			return fmt.Errorf("check %d: expected: %w: '%s' requires a number, got %s", idx+1, ErrInvalidValue, c.Name, c.expected.Kind())
		}
	case Contains:
		if !containable(c.expected) {
			return fmt.Errorf("check %d: expected: %w: '%s' requires text or a number, got %s", idx+1, ErrInvalidValue, c.Name, c.expected.Kind())
		}
	}
	return nil
}

func (c *Check) validateActual(idx int, actual softassert.Value) error {
	switch c.Name {
	case GreaterThan, LessThan:
		if actual.Kind() != softassert.KindNumber {
			return fmt.Errorf("check %d: actual: %w: '%s' requires a number, got %s", idx+1, ErrInvalidValue, c.Name, actual.Kind())
		}
	case True, False:
		if actual.Kind() != softassert.KindBool {
			return fmt.Errorf("check %d: actual: %w: '%s' requires a bool, got %s", idx+1, ErrInvalidValue, c.Name, actual.Kind())
		}
	case Contains:
		if !containable(actual) {
			return fmt.Errorf("check %d: actual: %w: '%s' requires text or a number, got %s", idx+1, ErrInvalidValue, c.Name, actual.Kind())
		}
	}
	return nil
}

func containable(v softassert.Value) bool {
	return v.Kind() == softassert.KindText || v.Kind() == softassert.KindNumber
}
