package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/axiomates/cil2cpp/internal/ilname"
)

var (
	mangleAsPointer bool
	mangleField     bool
)

var mangleCmd = &cobra.Command{
	Use:   "mangle [file]",
	Short: "Project IL names to native identifiers, one per line",
	Long: `mangle reads IL names, one per line, from a file or stdin and prints each
one's projected native identifier. It is a single-stage debug tool for the
Name Mapper in isolation, the way "lex" debugs the teacher's tokenizer.

Examples:
  # Project a list of IL type names
  echo 'System.Collections.Generic.List` + "`" + `1<System.Int32>' | cil2cpp mangle

  # Project field names instead of type names
  cil2cpp mangle --field fields.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMangle,
}

func init() {
	rootCmd.AddCommand(mangleCmd)
	mangleCmd.Flags().BoolVar(&mangleAsPointer, "as-pointer", false, "omit the pointer suffix that reference primitives (string, object) otherwise receive")
	mangleCmd.Flags().BoolVar(&mangleField, "field", false, "treat each line as a field name (project_field) instead of an IL type name (project_type)")
}

func runMangle(_ *cobra.Command, args []string) error {
	var in *os.File
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer f.Close()
		in = f
	} else {
		in = os.Stdin
	}

	mapper := ilname.NewMapper()
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if mangleField {
			fmt.Println(mapper.ProjectField(line))
		} else {
			fmt.Println(mapper.ProjectType(line, mangleAsPointer))
		}
	}
	return scanner.Err()
}
