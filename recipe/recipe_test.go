package recipe

import (
	"errors"
	"strings"
	"testing"

	"github.com/capyflow/aq/build/toml"
	"github.com/smartystreets/goconvey/convey"
)

func TestBuild(t *testing.T) {
	convey.Convey("recipe to document", t, func() {
		src := `
- comment: Toml file
- table: data.bool
- key: t
  value: true
- key: f
  value: false
`
		doc, err := Build(strings.NewReader(src))
		convey.So(err, convey.ShouldBeNil)
		convey.So(doc, convey.ShouldEqual, "#Toml file\n\n[data.bool]\nt = true\nf = false\n")
	})

	convey.Convey("value kinds", t, func() {
		src := `
- key: name
  value: Tom
  comment: " owner"
- key: dob
  value: "1979-05-27T00:32:00-07:00"
  datetime: true
- key: path
  value: 'C:\Users'
  literal: true
- key: uni
  value: 'caf\u00e9'
  escaped: true
- key: ports
  value: [8001, 8002]
- key: ratio
  value: 0.25
- array_table: products
- key: tags
  value: [a, b]
  literal: true
`
		doc, err := Build(strings.NewReader(src))
		convey.So(err, convey.ShouldBeNil)
		convey.So(doc, convey.ShouldEqual, strings.Join([]string{
			`name = "Tom" # owner`,
			`dob = 1979-05-27T07:32:00Z`,
			`path = 'C:\Users'`,
			`uni = "caf\u00e9"`,
			`ports = [8001, 8002]`,
			`ratio = 0.25`,
			``,
			`[[products]]`,
			`tags = ['a', 'b']`,
		}, "\n")+"\n")
	})

	convey.Convey("json is accepted", t, func() {
		doc, err := Build(strings.NewReader(`[{"table": "srv"}, {"key": "port", "value": 80}]`))
		convey.So(err, convey.ShouldBeNil)
		convey.So(doc, convey.ShouldEqual, "[srv]\nport = 80\n")
	})

	convey.Convey("empty input", t, func() {
		doc, err := Build(strings.NewReader(""))
		convey.So(err, convey.ShouldBeNil)
		convey.So(doc, convey.ShouldEqual, "")
	})

	convey.Convey("indent option reaches the builder", t, func() {
		b := toml.New(toml.WithIndent(2))
		convey.So(Apply(b, []Step{{Table: "a"}}), convey.ShouldBeNil)
		convey.So(b.Indent(), convey.ShouldEqual, "  ")
	})
}

func TestApplyErrors(t *testing.T) {
	convey.Convey("builder errors carry the step number", t, func() {
		b := toml.New()
		err := Apply(b, []Step{
			{Key: "a", Value: 1},
			{Key: "a", Value: 2},
		})
		convey.So(errors.Is(err, toml.ErrDuplicateKey), convey.ShouldBeTrue)
		convey.So(err.Error(), convey.ShouldStartWith, "recipe: step 2: ")
		convey.So(b.Document(), convey.ShouldEqual, "a = 1\n")
	})

	convey.Convey("malformed steps", t, func() {
		cases := []Step{
			{},
			{Table: "a", Key: "b"},
			{Key: "k", Value: "x", Literal: true, Escaped: true},
			{Key: "k", Value: 3, Literal: true},
			{Key: "k", Value: "yesterday", Datetime: true},
		}
		for _, s := range cases {
			convey.So(Apply(toml.New(), []Step{s}), convey.ShouldNotBeNil)
		}
	})

	convey.Convey("comments on header steps", t, func() {
		b := toml.New()
		err := Apply(b, []Step{{Key: "k", Value: 1}, {Table: "x", Comment: ptr("lost")}})
		convey.So(err, convey.ShouldNotBeNil)
		convey.So(err.Error(), convey.ShouldStartWith, "recipe: step 2: ")
		convey.So(b.Document(), convey.ShouldEqual, "k = 1\n")

		_, err = Build(strings.NewReader("- array_table: x\n  comment: lost\n"))
		convey.So(err, convey.ShouldNotBeNil)
	})

	convey.Convey("mixed arrays", t, func() {
		err := Apply(toml.New(), []Step{{Key: "m", Value: []any{1, "x"}}})
		convey.So(errors.Is(err, toml.ErrMixedArray), convey.ShouldBeTrue)
	})

	convey.Convey("invalid yaml", t, func() {
		_, err := Build(strings.NewReader("key: [unclosed"))
		convey.So(err, convey.ShouldNotBeNil)
	})
}

func ptr(s string) *string { return &s }
