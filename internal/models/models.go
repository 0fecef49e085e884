package models

import (
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	NullKind Kind = iota
	BoolKind
	IntKind
	FloatKind
	StringKind
	ArrayKind
	ObjectKind
)

func (k Kind) String() string {
	switch k {
	case NullKind:
		return "null"
	case BoolKind:
		return "bool"
	case IntKind:
		return "int"
	case FloatKind:
		return "float"
	case StringKind:
		return "string"
	case ArrayKind:
		return "array"
	case ObjectKind:
		return "object"
	}
	return "unknown"
}

// Value is a merged document node. Exactly the field matching Kind is
// meaningful; Object keys are unique and iterate in sorted order through Keys.
type Value struct {
	Kind   Kind
	Bool   bool
	Int    *big.Int
	Float  decimal.Decimal
	Str    string
	Array  []*Value
	Object map[string]*Value
}

// Null returns a new null value.
func Null() *Value {
	return &Value{Kind: NullKind}
}

// FromBool returns a boolean value.
func FromBool(b bool) *Value {
	return &Value{Kind: BoolKind, Bool: b}
}

// FromInt returns an integer value. The value takes ownership of i.
func FromInt(i *big.Int) *Value {
	return &Value{Kind: IntKind, Int: i}
}

// FromInt64 is a shorthand for FromInt(big.NewInt(i)).
func FromInt64(i int64) *Value {
	return FromInt(big.NewInt(i))
}

// FromFloat returns a decimal value.
func FromFloat(d decimal.Decimal) *Value {
	return &Value{Kind: FloatKind, Float: d}
}

// FromString returns a string value.
func FromString(s string) *Value {
	return &Value{Kind: StringKind, Str: s}
}

// NewArray returns an array holding vs in order.
func NewArray(vs ...*Value) *Value {
	if vs == nil {
		vs = []*Value{}
	}
	return &Value{Kind: ArrayKind, Array: vs}
}

// NewObject returns an empty object.
func NewObject() *Value {
	return &Value{Kind: ObjectKind, Object: map[string]*Value{}}
}

// Set stores v under key, replacing any previous entry. It is a no-op unless
// the receiver is an object.
func (v *Value) Set(key string, child *Value) *Value {
	if v.Kind == ObjectKind {
		v.Object[key] = child
	}
	return v
}

// IsContainer reports whether v is an array or object.
func (v *Value) IsContainer() bool {
	return v.Kind == ArrayKind || v.Kind == ObjectKind
}

// Keys returns the object keys of v in sorted order.
func (v *Value) Keys() []string {
	keys := make([]string, 0, len(v.Object))
	for k := range v.Object {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal reports whether v and o are the same tree. Numbers compare by value
// within their own kind, so an Int never equals a Float.
func (v *Value) Equal(o *Value) bool {
	if v == nil || o == nil {
		return v == o
	}
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case NullKind:
		return true
	case BoolKind:
		return v.Bool == o.Bool
	case IntKind:
		return v.Int.Cmp(o.Int) == 0
	case FloatKind:
		return floatEqual(v.Float, o.Float)
	case StringKind:
		return v.Str == o.Str
	case ArrayKind:
		if len(v.Array) != len(o.Array) {
			return false
		}
		for i := range v.Array {
			if !v.Array[i].Equal(o.Array[i]) {
				return false
			}
		}
		return true
	case ObjectKind:
		if len(v.Object) != len(o.Object) {
			return false
		}
		for k, child := range v.Object {
			other, ok := o.Object[k]
			if !ok || !child.Equal(other) {
				return false
			}
		}
		return true
	}
	return false
}

// String renders v in the canonical single-line text form: sorted object
// keys, unescaped strings, and a forced ".0" on whole-valued floats.
func (v *Value) String() string {
	var sb strings.Builder
	v.write(&sb)
	return sb.String()
}

func (v *Value) write(sb *strings.Builder) {
	if v == nil {
		sb.WriteString("null")
		return
	}
	switch v.Kind {
	case NullKind:
		sb.WriteString("null")
	case BoolKind:
		if v.Bool {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case IntKind:
		sb.WriteString(v.Int.String())
	case FloatKind:
		sb.WriteString(FormatFloat(v.Float))
	case StringKind:
		sb.WriteByte('"')
		sb.WriteString(v.Str)
		sb.WriteByte('"')
	case ArrayKind:
		sb.WriteByte('[')
		for i, child := range v.Array {
			if i > 0 {
				sb.WriteByte(',')
			}
			child.write(sb)
		}
		sb.WriteByte(']')
	case ObjectKind:
		sb.WriteByte('{')
		for i, k := range v.Keys() {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteByte('"')
			sb.WriteString(k)
			sb.WriteString(`":`)
			v.Object[k].write(sb)
		}
		sb.WriteByte('}')
	}
}

// Floats whose leading digit sits at a decimal exponent outside
// [minPlainExponent, maxPlainExponent) are written in exponent notation.
const (
	minPlainExponent = -7
	maxPlainExponent = 21
)

// FormatFloat renders d in plain decimal notation, appending ".0" when no
// fractional digits remain so the text never reads as an integer. Very large
// or very small magnitudes use <mantissa>e<exp>, with the mantissa following
// the same ".0" rule.
func FormatFloat(d decimal.Decimal) string {
	neg, digits, exp := normalize(d)
	lead := exp + int64(len(digits)) - 1
	if digits == "0" || (lead >= minPlainExponent && lead < maxPlainExponent) {
		s := d.String()
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}

	var sb strings.Builder
	if neg {
		sb.WriteByte('-')
	}
	sb.WriteString(digits[:1])
	sb.WriteByte('.')
	if len(digits) > 1 {
		sb.WriteString(digits[1:])
	} else {
		sb.WriteByte('0')
	}
	sb.WriteByte('e')
	sb.WriteString(strconv.FormatInt(lead, 10))
	return sb.String()
}

// normalize splits d into sign, coefficient digits without trailing zeros,
// and the matching exponent, so that d == ±digits * 10^exp. Zero is reported
// as ("0", 0). The cost is linear in the coefficient, never in the exponent.
func normalize(d decimal.Decimal) (neg bool, digits string, exp int64) {
	coef := d.Coefficient()
	if coef.Sign() == 0 {
		return false, "0", 0
	}
	neg = coef.Sign() < 0
	full := coef.Abs(coef).String()
	digits = strings.TrimRight(full, "0")
	return neg, digits, int64(d.Exponent()) + int64(len(full)-len(digits))
}

// floatEqual compares two decimals by value without rescaling either one.
func floatEqual(a, b decimal.Decimal) bool {
	an, ad, ae := normalize(a)
	bn, bd, be := normalize(b)
	return an == bn && ad == bd && ae == be
}
