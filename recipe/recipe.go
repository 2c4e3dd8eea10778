package recipe

// recipe 包把 YAML（或 JSON）描述的步骤列表依次回放到 toml.Builder 上。

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/capyflow/aq/build/toml"
	"gopkg.in/yaml.v3"
)

// Step is one build action. Exactly one of Table, ArrayTable or Key is set,
// or none of them and Comment, which then becomes a comment line. A Comment
// next to Key trails the value; next to a header it is an error.
type Step struct {
	Comment    *string `yaml:"comment"`
	Table      string  `yaml:"table"`
	ArrayTable string  `yaml:"array_table"`
	Key        string  `yaml:"key"`
	Value      any     `yaml:"value"`
	Literal    bool    `yaml:"literal"`  // strings become literal strings
	Escaped    bool    `yaml:"escaped"`  // strings are already TOML-escaped
	Datetime   bool    `yaml:"datetime"` // strings are RFC 3339 datetimes
}

// Decode reads a recipe. Empty input is an empty recipe.
func Decode(r io.Reader) ([]Step, error) {
	var steps []Step
	if err := yaml.NewDecoder(r).Decode(&steps); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("recipe: %w", err)
	}
	return steps, nil
}

// Apply replays steps on b and stops at the first failing step.
func Apply(b *toml.Builder, steps []Step) error {
	for i, s := range steps {
		if err := apply(b, s); err != nil {
			return fmt.Errorf("recipe: step %d: %w", i+1, err)
		}
	}
	return nil
}

// Build decodes a recipe from r and returns the resulting document.
func Build(r io.Reader, opts ...toml.Option) (string, error) {
	steps, err := Decode(r)
	if err != nil {
		return "", err
	}
	b := toml.New(opts...)
	if err := Apply(b, steps); err != nil {
		return "", err
	}
	return b.Document(), nil
}

func apply(b *toml.Builder, s Step) error {
	actions := 0
	for _, set := range []bool{s.Table != "", s.ArrayTable != "", s.Key != ""} {
		if set {
			actions++
		}
	}
	switch {
	case actions > 1:
		return errors.New("more than one of table, array_table and key")
	case s.Comment != nil && s.Key == "" && actions == 1:
		return errors.New("comment cannot share a step with table or array_table")
	case s.Table != "":
		b.AddTable(s.Table)
	case s.ArrayTable != "":
		b.AddArrayOfTable(s.ArrayTable)
	case s.Key != "":
		v, err := s.value()
		if err != nil {
			return fmt.Errorf("key %q: %w", s.Key, err)
		}
		if s.Comment != nil {
			b.AddValue(s.Key, v, *s.Comment)
		} else {
			b.AddValue(s.Key, v)
		}
	case s.Comment != nil:
		b.AddComment(*s.Comment)
	default:
		return errors.New("empty step")
	}
	return b.Err()
}

func (s Step) value() (toml.Value, error) {
	switch {
	case s.Literal && s.Escaped, s.Literal && s.Datetime, s.Escaped && s.Datetime:
		return nil, errors.New("literal, escaped and datetime are exclusive")
	case s.Literal:
		return mapStrings(s.Value, func(str string) (toml.Value, error) { return toml.Literal(str), nil })
	case s.Escaped:
		return mapStrings(s.Value, func(str string) (toml.Value, error) { return toml.Escaped(str), nil })
	case s.Datetime:
		return mapStrings(s.Value, func(str string) (toml.Value, error) {
			t, err := time.Parse(time.RFC3339, str)
			if err != nil {
				return nil, err
			}
			return toml.Datetime(t), nil
		})
	}
	return toml.ValueOf(s.Value)
}

// mapStrings applies fn to a string or to every string of a (nested) list.
func mapStrings(v any, fn func(string) (toml.Value, error)) (toml.Value, error) {
	switch x := v.(type) {
	case string:
		return fn(x)
	case []any:
		arr := make(toml.Array, 0, len(x))
		for _, e := range x {
			ev, err := mapStrings(e, fn)
			if err != nil {
				return nil, err
			}
			arr = append(arr, ev)
		}
		return arr, nil
	}
	return nil, fmt.Errorf("want a string or a list of strings, got %T", v)
}
