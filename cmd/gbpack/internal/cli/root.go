// Package cli wires the gbpack command line: manifest parsing, the alias
// planner, the assembler, and the container/header writers, behind a
// cobra command tree.
package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Execute runs the gbpack root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gbpack",
		Short:         "Build binary asset packs from a manifest",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newPackCmd())

	return root
}

func defaultWorkers() int {
	n := runtime.NumCPU()
	if n > 8 {
		return 8
	}
	if n < 1 {
		return 1
	}
	return n
}

// packOptions holds the flags of the pack subcommand before they are
// turned into a build.Options.
type packOptions struct {
	manifestPath string
	sourceRoot   string
	outPack      string
	outHeader    string
	workers      int
	maxInflight  int
	quiet        bool
}

func (o packOptions) validate() error {
	if o.manifestPath == "" {
		return fmt.Errorf("--manifest is required")
	}
	if o.sourceRoot == "" {
		return fmt.Errorf("--source-root is required")
	}
	if o.outPack == "" {
		return fmt.Errorf("--out-pack is required")
	}
	if o.outHeader == "" {
		return fmt.Errorf("--out-header is required")
	}
	return nil
}
