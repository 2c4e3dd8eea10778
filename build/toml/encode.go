package toml

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const datetimeLayout = "2006-01-02T15:04:05Z"

// Encode renders v as a TOML literal. It has no side effects.
func Encode(v Value) (string, error) {
	switch x := v.(type) {
	case String:
		return encodeBasicString(string(x), false)
	case Escaped:
		return encodeBasicString(string(x), true)
	case Literal:
		return encodeLiteralString(string(x))
	case Integer:
		return strconv.FormatInt(int64(x), 10), nil
	case Float:
		return encodeFloat(float64(x))
	case Bool:
		return strconv.FormatBool(bool(x)), nil
	case Datetime:
		return time.Time(x).UTC().Format(datetimeLayout), nil
	case Array:
		return encodeArray(x)
	case nil:
		return "", newError("encode", "", ErrUnsupportedType, "nil")
	}
	return "", newError("encode", "", ErrUnsupportedType, "%T", v)
}

func encodeFloat(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", newError("encode", "", ErrInvalidValue, "%v", f)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s, nil
}

func encodeArray(arr Array) (string, error) {
	var b strings.Builder
	var want *shape
	b.WriteByte('[')
	for i, e := range arr {
		if e == nil {
			return "", newError("encode", "", ErrUnsupportedType, "nil array element")
		}
		got := shapeOf(e)
		if i == 0 {
			want = got
		} else {
			merged, ok := unify(want, got)
			if !ok {
				return "", newError("encode", "", ErrMixedArray, "element %d is %s, want %s", i, got, want)
			}
			want = merged
			b.WriteString(", ")
		}
		s, err := Encode(e)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	b.WriteByte(']')
	return b.String(), nil
}

func encodeLiteralString(s string) (string, error) {
	if strings.ContainsAny(s, "'\n\r") {
		return "", newError("encode", "", ErrInvalidValue, "literal string cannot hold a quote or line break")
	}
	return "'" + s + "'", nil
}

// encodeBasicString escapes s into a double-quoted string. With preEscaped
// set, backslashes are kept as written and the result is checked.
func encodeBasicString(s string, preEscaped bool) (string, error) {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	inEscape := false
	for _, r := range s {
		if inEscape {
			// the character after a caller-written backslash is kept as is
			b.WriteRune(r)
			inEscape = false
			continue
		}
		switch r {
		case '\\':
			if preEscaped {
				b.WriteByte('\\')
				inEscape = true
			} else {
				b.WriteString(`\\`)
			}
		case '\b':
			b.WriteString(`\b`)
		case '\t':
			b.WriteString(`\t`)
		case '\n':
			b.WriteString(`\n`)
		case '\f':
			b.WriteString(`\f`)
		case '\r':
			b.WriteString(`\r`)
		case '"':
			b.WriteString(`\"`)
		default:
			if r < 0x20 || r == 0x7f {
				b.WriteString(`\u`)
				b.WriteString(hex4(r))
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	out := b.String()
	if err := checkEscapes(out[1 : len(out)-1]); err != nil {
		return "", err
	}
	return out, nil
}

func hex4(r rune) string {
	h := strconv.FormatInt(int64(r), 16)
	return strings.Repeat("0", 4-len(h)) + strings.ToUpper(h)
}

// checkEscapes rejects any backslash that does not start a TOML escape.
func checkEscapes(s string) error {
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			continue
		}
		if i+1 >= len(s) {
			return newError("encode", "", ErrInvalidEscape, "trailing backslash")
		}
		i++
		switch s[i] {
		case 'b', 't', 'n', 'f', 'r', '"', '\\':
		case 'u':
			if !isHex(s, i+1, 4) {
				return newError("encode", "", ErrInvalidEscape, `\u needs 4 hex digits`)
			}
			i += 4
		case 'U':
			if !isHex(s, i+1, 8) {
				return newError("encode", "", ErrInvalidEscape, `\U needs 8 hex digits`)
			}
			i += 8
		default:
			return newError("encode", "", ErrInvalidEscape, `\%c`, s[i])
		}
	}
	return nil
}

func isHex(s string, from, n int) bool {
	if from+n > len(s) {
		return false
	}
	for _, c := range s[from : from+n] {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
