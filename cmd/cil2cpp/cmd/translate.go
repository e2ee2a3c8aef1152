package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/axiomates/cil2cpp/internal/config"
	"github.com/axiomates/cil2cpp/internal/loader"
	"github.com/axiomates/cil2cpp/internal/translator"
)

var (
	translateConfigPath string
)

var translateCmd = &cobra.Command{
	Use:   "translate [il-fixture.json]",
	Short: "Run the full translation pipeline and print a summary",
	Long: `Translate loads an assembly set from a JSON IL fixture, runs reachability
analysis, lifts every reachable method body, and prints a one-line summary
of the resulting module.

Examples:
  # Translate with auto seeding
  cil2cpp translate game.il.json

  # Translate with an explicit run configuration
  cil2cpp translate game.il.json --config cil2cpp.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)
	translateCmd.Flags().StringVar(&translateConfigPath, "config", "", "path to a cil2cpp run configuration (YAML)")
}

func loadSource(filename string) (*loader.Memory, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	mem, err := loader.ParseJSON(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse IL fixture %s: %w", filename, err)
	}
	return mem, nil
}

func loadRunConfig() (config.Config, error) {
	if translateConfigPath == "" {
		return config.Default(), nil
	}
	return config.Load(translateConfigPath)
}

func runTranslate(cmd *cobra.Command, args []string) error {
	mem, err := loadSource(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		fmt.Fprintf(os.Stderr, "Translating %s (seeding: %s)...\n", args[0], cfg.Seeding)
	}

	res, err := translator.Translate(mem, translator.Options{
		Mode:               cfg.ReachMode(),
		RegisterValueTypes: cfg.RegisterValueTypes,
	})
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}

	typeCount := len(res.Module.Types)
	methodCount := 0
	for _, t := range res.Module.Types {
		methodCount += len(t.Methods)
	}

	fmt.Printf("Translated %s: %d type(s), %d method(s)\n", args[0], typeCount, methodCount)
	if cfg.EmitWhyTrace {
		fmt.Printf("Reachable methods: %d\n", len(res.Reach.MethodOrder))
	}

	return nil
}
