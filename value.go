package softassert

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

var (
	ErrUnsupportedValue = errors.New("unsupported value type")
)

// Kind identifies the variant held by a [Value].
type Kind int

const (
	KindNull   Kind = iota // KindNull is the absent value, and the zero value of [Value].
	KindText               // KindText holds a string.
	KindNumber             // KindNumber holds a float64.
	KindBool               // KindBool holds a bool.
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

type numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

type scalar interface {
	~string | ~bool | numeric
}

// Value is a comparable value used by the [Collector] checks.
// It's one of a small, closed set of variants, and values of different kinds are never equal.
// There is no coercion between kinds, so Number(5) and Text("5") are different values.
//
// The zero value is Null.
type Value struct {
	kind Kind
	text string
	num  float64
	b    bool
}

// Text creates a text [Value].
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Number creates a numeric [Value].
// All numbers are held as float64, so very large integers may lose precision.
func Number[N numeric](n N) Value {
	return Value{kind: KindNumber, num: float64(n)}
}

// Bool creates a boolean [Value].
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Null returns the absent [Value].
func Null() Value {
	return Value{}
}

// Optional boxes a pointer as a [Value].
// A nil pointer is Null, otherwise the pointee is converted to its matching kind.
func Optional[T scalar](ptr *T) Value {
	if ptr == nil {
		return Null()
	}
	return fromReflect(reflect.ValueOf(*ptr))
}

// Of converts a dynamic value to a [Value].
// Strings, bools, and numbers (including named types based on them) are supported, as well as pointers and interfaces to them.
// Nil, and nil pointers are Null.
// Anything else returns an error wrapping [ErrUnsupportedValue].
func Of(val any) (Value, error) {
	if val == nil {
		return Null(), nil
	}
	if v, ok := val.(Value); ok {
		return v, nil
	}
	rv := reflect.ValueOf(val)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return Null(), nil
		}
		rv = rv.Elem()
	}
	v := fromReflect(rv)
	if v.kind == KindNull {
		return Null(), fmt.Errorf("%w: %T", ErrUnsupportedValue, val)
	}
	return v, nil
}

// MustOf is like [Of], but panics if the value can't be converted.
func MustOf(val any) Value {
	v, err := Of(val)
	if err != nil {
		panic(err)
	}
	return v
}

func fromReflect(rv reflect.Value) Value {
	switch rv.Kind() {
	case reflect.String:
		return Text(rv.String())
	case reflect.Bool:
		return Bool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Number(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return Number(rv.Float())
	default:
		return Null()
	}
}

// Kind returns the variant held by this [Value].
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull returns true if this is the absent [Value].
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// TextValue returns the string held by a text [Value].
func (v Value) TextValue() (string, bool) {
	return v.text, v.kind == KindText
}

// NumberValue returns the number held by a numeric [Value].
func (v Value) NumberValue() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// BoolValue returns the bool held by a boolean [Value].
func (v Value) BoolValue() (bool, bool) {
	return v.b, v.kind == KindBool
}

// Equal is strict equality.
// Both values must be the same kind, and hold the same payload.
// NaN is not equal to anything, including itself.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindText:
		return v.text == other.text
	case KindNumber:
		return v.num == other.num
	case KindBool:
		return v.b == other.b
	default:
		return false
	}
}

// same is like Equal, but NaN is the same as NaN.
func (v Value) same(other Value) bool {
	if v.kind == KindNumber && other.kind == KindNumber && math.IsNaN(v.num) && math.IsNaN(other.num) {
		return true
	}
	return v.Equal(other)
}

// String returns the textual form of the [Value] as it appears in failure messages.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return formatNumber(v.num)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return "null"
	}
}

// formatNumber uses plain decimal notation between 1e-6 and 1e21, and exponent notation like 1e-7 or 1e+21 outside that range.
func formatNumber(f float64) string {
	abs := math.Abs(f)
	if math.IsNaN(f) || math.IsInf(f, 0) || f == 0 || (abs >= 1e-6 && abs < 1e21) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	mantissa, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	return mantissa + "e" + sign + digits
}
