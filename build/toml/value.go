package toml

// toml 包以追加方式构建 TOML v0.1.0 文本，并在写入时检查键、表和数组表的命名规则。
//
// 范围：
// - 值键 / 表 / 数组表 三类命名空间
// - 字符串、整数、浮点、布尔、日期时间、同类型数组
// - 失败的调用不产生任何输出
//
// 非目标：
// - 内联表、混合类型数组
// - 表头中的引号键
// - 并发写入同一个 Builder

import (
	"reflect"
	"time"
)

// =========================
// Value Definitions
// =========================

type ValueKind string

var tomlValueKinds = struct {
	ValueString   ValueKind
	ValueInt      ValueKind
	ValueFloat    ValueKind
	ValueBool     ValueKind
	ValueDatetime ValueKind
	ValueArray    ValueKind
}{
	ValueString:   "string",
	ValueInt:      "int",
	ValueFloat:    "float",
	ValueBool:     "bool",
	ValueDatetime: "datetime",
	ValueArray:    "array",
}

// Value is a TOML value. The set of implementations is closed.
type Value interface {
	Kind() ValueKind
	tomlValue()
}

// String is emitted as a basic string with escapes applied.
type String string

// Literal is emitted verbatim between single quotes.
type Literal string

// Escaped is a basic string whose backslash escapes were written by the
// caller, e.g. `caf\u00e9`. Backslashes pass through and must be valid.
type Escaped string

type Integer int64

type Float float64

type Bool bool

// Datetime is emitted in UTC with second precision.
type Datetime time.Time

type Array []Value

func (String) Kind() ValueKind   { return tomlValueKinds.ValueString }
func (Literal) Kind() ValueKind  { return tomlValueKinds.ValueString }
func (Escaped) Kind() ValueKind  { return tomlValueKinds.ValueString }
func (Integer) Kind() ValueKind  { return tomlValueKinds.ValueInt }
func (Float) Kind() ValueKind    { return tomlValueKinds.ValueFloat }
func (Bool) Kind() ValueKind     { return tomlValueKinds.ValueBool }
func (Datetime) Kind() ValueKind { return tomlValueKinds.ValueDatetime }
func (Array) Kind() ValueKind    { return tomlValueKinds.ValueArray }

func (String) tomlValue()   {}
func (Literal) tomlValue()  {}
func (Escaped) tomlValue()  {}
func (Integer) tomlValue()  {}
func (Float) tomlValue()    {}
func (Bool) tomlValue()     {}
func (Datetime) tomlValue() {}
func (Array) tomlValue()    {}

// =========================
// Native Conversion
// =========================

// ValueOf converts a native Go value. Strings become basic strings; use
// Literal or Escaped directly for the other string forms.
func ValueOf(v any) (Value, error) {
	switch x := v.(type) {
	case Value:
		return x, nil
	case string:
		return String(x), nil
	case bool:
		return Bool(x), nil
	case int:
		return Integer(x), nil
	case int8:
		return Integer(x), nil
	case int16:
		return Integer(x), nil
	case int32:
		return Integer(x), nil
	case int64:
		return Integer(x), nil
	case uint8:
		return Integer(x), nil
	case uint16:
		return Integer(x), nil
	case uint32:
		return Integer(x), nil
	case float32:
		return Float(x), nil
	case float64:
		return Float(x), nil
	case time.Time:
		return Datetime(x), nil
	case []any:
		arr := make(Array, 0, len(x))
		for _, e := range x {
			ev, err := ValueOf(e)
			if err != nil {
				return nil, err
			}
			arr = append(arr, ev)
		}
		return arr, nil
	}

	// Named types and the unsigned widths that may overflow int64.
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Integer(rv.Int()), nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > 1<<63-1 {
			return nil, newError("encode", "", ErrInvalidValue, "%d overflows a TOML integer", u)
		}
		return Integer(int64(u)), nil
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 && rv.Kind() == reflect.Slice {
			break
		}
		arr := make(Array, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			ev, err := ValueOf(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			arr = append(arr, ev)
		}
		return arr, nil
	}
	return nil, newError("encode", "", ErrUnsupportedType, "%T", v)
}

// Compatible reports whether a and b may sit in the same array.
func Compatible(a, b Value) bool {
	_, ok := unify(shapeOf(a), shapeOf(b))
	return ok
}

// shape is the type of a value as far as array homogeneity is concerned.
// An array shape with a nil elem is an empty array whose element type is
// not known yet.
type shape struct {
	kind ValueKind
	elem *shape
}

func shapeOf(v Value) *shape {
	arr, ok := v.(Array)
	if !ok {
		return &shape{kind: v.Kind()}
	}
	s := &shape{kind: tomlValueKinds.ValueArray}
	for _, e := range arr {
		if e == nil {
			continue
		}
		es := shapeOf(e)
		if s.elem == nil {
			s.elem = es
			continue
		}
		// a conflict here is reported when the inner array is encoded
		if merged, ok := unify(s.elem, es); ok {
			s.elem = merged
		}
	}
	return s
}

// unify merges two shapes, filling unknown element types from either side.
func unify(a, b *shape) (*shape, bool) {
	if a.kind != b.kind {
		return nil, false
	}
	if a.kind != tomlValueKinds.ValueArray || b.elem == nil {
		return a, true
	}
	if a.elem == nil {
		return b, true
	}
	elem, ok := unify(a.elem, b.elem)
	if !ok {
		return nil, false
	}
	return &shape{kind: a.kind, elem: elem}, true
}

func (s *shape) String() string {
	if s.kind != tomlValueKinds.ValueArray {
		return string(s.kind)
	}
	if s.elem == nil {
		return "empty array"
	}
	return "array of " + s.elem.String()
}
