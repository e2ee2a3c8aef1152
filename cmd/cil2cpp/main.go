package main

import (
	"fmt"
	"os"

	"github.com/axiomates/cil2cpp/cmd/cil2cpp/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
