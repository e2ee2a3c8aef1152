package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "cil2cpp",
	Short: "Ahead-of-time IL-to-native-source IR builder",
	Long: `cil2cpp turns a stack-based managed bytecode module into a strongly-typed
IR tree suitable for a native source emitter: it computes the reachable
type/method closure from an entry point (or public surface), lifts each
reachable method body by simulating the evaluation stack, and inlines a
fixed set of built-in runtime types (spans, multi-dimensional arrays,
threads, cancellation, task completion sources, equality comparers) rather
than attempting to lift their bodies.

This command operates on the IR-building front half only; the native
source-text writer, the runtime support library, and the original metadata
reader are external collaborators.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}
