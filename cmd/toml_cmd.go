package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	tomlb "github.com/capyflow/aq/build/toml"
	"github.com/capyflow/aq/pkg"
	"github.com/capyflow/aq/recipe"
	"github.com/spf13/cobra"
)

type TomlParams struct {
	Find   string `json:"find"`   // 生成后查找的key，点分路径
	Input  string `json:"input"`  // 输入的recipe文件路径（yaml/json）
	Output string `json:"output"` // 输出文件地址，为空时打印到标准输出
	Indent int    `json:"indent"` // 缩进宽度
	Check  bool   `json:"check"`  // 生成后用解析器校验
}

var params *TomlParams

var tomlCmd = &cobra.Command{
	Use:   "toml",
	Short: "build a toml file from a recipe",
	Long: `Build a TOML v0.1.0 document from a YAML or JSON recipe.

The recipe is a list of steps:

  - comment: Toml file
  - table: data.bool
  - key: t
    value: true`,
	RunE:         tomlRun,
	SilenceUsage: true,
}

func init() {
	params = &TomlParams{}
	tomlCmd.Flags().StringVarP(&params.Find, "find", "f", "", "print the value at a dotted key of the result")
	tomlCmd.Flags().StringVarP(&params.Input, "input", "i", "", "input recipe path")
	tomlCmd.Flags().StringVarP(&params.Output, "output", "o", "", "output path")
	tomlCmd.Flags().IntVar(&params.Indent, "indent", 4, "indentation width, 0 disables")
	tomlCmd.Flags().BoolVar(&params.Check, "check", false, "parse the result before writing it")
}

func tomlRun(cmd *cobra.Command, args []string) error {
	if len(params.Input) == 0 {
		return errors.New("no input file path")
	}
	exist, err := pkg.CheckFileExist(params.Input)
	if err != nil {
		return fmt.Errorf("check file exist error: %w", err)
	}
	if !exist {
		return fmt.Errorf("input file not exist: %s", params.Input)
	}

	f, err := os.Open(params.Input)
	if err != nil {
		return err
	}
	defer f.Close()

	doc, err := recipe.Build(f, tomlb.WithIndent(params.Indent))
	if err != nil {
		return err
	}

	var found any
	if params.Check || params.Find != "" {
		var data map[string]any
		if _, err := toml.Decode(doc, &data); err != nil {
			return fmt.Errorf("generated document does not parse: %w", err)
		}
		if params.Find != "" {
			v, ok := find(data, params.Find)
			if !ok {
				return fmt.Errorf("key %q not found", params.Find)
			}
			found = v
		}
	}

	// --find without --output prints only the value
	out := cmd.OutOrStdout()
	switch {
	case params.Output != "":
		if err := pkg.WriteFile(params.Output, []byte(doc)); err != nil {
			return err
		}
		fmt.Fprintln(out, "wrote", params.Output)
	case params.Find == "":
		fmt.Fprint(out, doc)
	}
	if params.Find != "" {
		fmt.Fprintln(out, found)
	}
	return nil
}

// find walks a dotted path through the decoded document. A numeric segment
// picks one instance of an array of tables; any other segment applied to an
// array collects that key from every instance that has it.
func find(data map[string]any, dotted string) (any, bool) {
	var cur any = data
	for _, p := range strings.Split(dotted, ".") {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[p]
			if !ok {
				return nil, false
			}
			cur = v
		case []map[string]any:
			if i, err := strconv.Atoi(p); err == nil {
				if i < 0 || i >= len(node) {
					return nil, false
				}
				cur = node[i]
				continue
			}
			var vals []any
			for _, m := range node {
				if v, ok := m[p]; ok {
					vals = append(vals, v)
				}
			}
			if len(vals) == 0 {
				return nil, false
			}
			cur = vals
		default:
			return nil, false
		}
	}
	return cur, true
}
