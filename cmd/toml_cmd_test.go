package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

const sampleRecipe = `
- comment: Toml file
- table: data.bool
- key: t
  value: true
- key: f
  value: false
`

func runAq(args ...string) (string, error) {
	*params = TomlParams{Indent: 4}
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeRecipe(dir, body string) string {
	path := filepath.Join(dir, "recipe.yaml")
	convey.So(os.WriteFile(path, []byte(body), 0o644), convey.ShouldBeNil)
	return path
}

func TestTomlCommand(t *testing.T) {
	convey.Convey("aq toml", t, func() {
		dir := t.TempDir()
		in := writeRecipe(dir, sampleRecipe)

		convey.Convey("prints the document", func() {
			out, err := runAq("toml", "-i", in, "--check")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldEqual, "#Toml file\n\n[data.bool]\nt = true\nf = false\n")
		})

		convey.Convey("writes the output file", func() {
			target := filepath.Join(dir, "out", "data.toml")
			out, err := runAq("toml", "-i", in, "-o", target)
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "wrote "+target)
			got, err := os.ReadFile(target)
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(got), convey.ShouldStartWith, "#Toml file\n")
		})

		convey.Convey("finds a key", func() {
			out, err := runAq("toml", "-i", in, "-f", "data.bool.f")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldEqual, "false\n")

			_, err = runAq("toml", "-i", in, "-f", "data.nope")
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("finds a key and still writes the output file", func() {
			target := filepath.Join(dir, "found.toml")
			out, err := runAq("toml", "-i", in, "-o", target, "-f", "data.bool.t")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldEqual, "wrote "+target+"\ntrue\n")
			got, err := os.ReadFile(target)
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(got), convey.ShouldContainSubstring, "[data.bool]\n")
		})

		convey.Convey("finds keys inside arrays of tables", func() {
			products := writeRecipe(dir, `
- array_table: products
- key: name
  value: Hammer
- array_table: products
- key: name
  value: Nails
- key: count
  value: 100
`)
			out, err := runAq("toml", "-i", products, "-f", "products.1.name")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldEqual, "Nails\n")

			out, err = runAq("toml", "-i", products, "-f", "products.name")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldEqual, "[Hammer Nails]\n")

			out, err = runAq("toml", "-i", products, "-f", "products.count")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldEqual, "[100]\n")

			_, err = runAq("toml", "-i", products, "-f", "products.2.name")
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("reports recipe errors", func() {
			bad := writeRecipe(dir, "- table: x\n- array_table: x\n")
			_, err := runAq("toml", "-i", bad)
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "step 2")
		})

		convey.Convey("needs an existing input", func() {
			_, err := runAq("toml")
			convey.So(err, convey.ShouldNotBeNil)
			_, err = runAq("toml", "-i", filepath.Join(dir, "missing.yaml"))
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestVersionCommand(t *testing.T) {
	convey.Convey("aq version", t, func() {
		out, err := runAq("version")
		convey.So(err, convey.ShouldBeNil)
		convey.So(out, convey.ShouldEqual, "Aq "+version+" -- HEAD\n")
	})
}
