package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/greatbadbeyond/gbpack/build"
	"github.com/greatbadbeyond/gbpack/header"
	"github.com/greatbadbeyond/gbpack/manifest"
	"github.com/greatbadbeyond/gbpack/packfile"
)

func newPackCmd() *cobra.Command {
	opts := packOptions{}

	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Build a pack container and its C++ descriptor header from a manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPack(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.manifestPath, "manifest", "", "path to the tab-separated asset manifest")
	flags.StringVar(&opts.sourceRoot, "source-root", "", "directory the manifest's relative paths are resolved against")
	flags.StringVar(&opts.outPack, "out-pack", "", "output path for the binary pack container")
	flags.StringVar(&opts.outHeader, "out-header", "", "output path for the generated C++ header")
	flags.IntVar(&opts.workers, "workers", defaultWorkers(), "number of rows converted concurrently")
	flags.IntVar(&opts.maxInflight, "max-inflight", 0, "cap on submitted-but-unfinalized conversions (default 2x workers)")
	flags.BoolVar(&opts.quiet, "quiet", false, "suppress progress output")

	return cmd
}

func runPack(cmd *cobra.Command, opts packOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}

	manifestFile, err := os.Open(opts.manifestPath)
	if err != nil {
		return fmt.Errorf("open manifest: %w", err)
	}
	defer manifestFile.Close()

	rows, err := manifest.Read(manifestFile)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}

	var progress func(done, total int)
	if !opts.quiet {
		progress = func(done, total int) {
			fmt.Fprintf(cmd.ErrOrStderr(), "\rpacking %d/%d", done, total)
			if done == total {
				fmt.Fprintln(cmd.ErrOrStderr())
			}
		}
	}

	out, err := build.Build(context.Background(), rows, build.Options{
		SourceRoot:  opts.sourceRoot,
		Workers:     opts.workers,
		MaxInflight: opts.maxInflight,
		Progress:    progress,
	})
	if err != nil {
		return fmt.Errorf("build pack: %w", err)
	}

	if err := packfile.WriteFile(opts.outPack, out.Strings, out.Records, out.Payload); err != nil {
		return fmt.Errorf("write pack: %w", err)
	}

	headerFile, err := os.Create(opts.outHeader)
	if err != nil {
		return fmt.Errorf("create header output: %w", err)
	}
	defer headerFile.Close()

	rowInfos := make([]header.RowInfo, len(rows))
	for i, r := range rows {
		rowInfos[i] = header.RowInfo{RelativePath: r.RelativePath, Index: i}
	}

	if err := header.Generate(headerFile, rowInfos, out.Records); err != nil {
		return fmt.Errorf("generate header: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d assets to %s (%s)\n", len(out.Records), opts.outPack, opts.outHeader)

	return nil
}
