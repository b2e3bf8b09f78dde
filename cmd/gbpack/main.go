// Command gbpack builds a binary asset pack and its companion C++
// descriptor header from a tab-separated manifest.
package main

import (
	"fmt"
	"os"

	"github.com/greatbadbeyond/gbpack/cmd/gbpack/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
