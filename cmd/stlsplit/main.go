package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/philipparndt/stlsplit/pkg/split"
	"github.com/philipparndt/stlsplit/pkg/stl"
	"github.com/philipparndt/stlsplit/version"
	"github.com/spf13/cobra"
)

var (
	outputFolder string
	asciiOutput  bool
	quiet        bool
	watchInput   bool
)

var rootCmd = &cobra.Command{
	Use:   "stlsplit <file>",
	Short: "Split an STL file into one file per disconnected solid",
	Long: `stlsplit detects the separate solids stored in a single STL file and writes
each of them to its own file named <name>_0000.stl, <name>_0001.stl, ...

Triangles belong to the same solid when they are linked through vertices with
exactly equal coordinates. Both ASCII and binary STL input are supported, as are
OpenSCAD (.scad) sources when openscad is installed.`,
	Version:       version.GetFullVersion(),
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSplit,
}

func init() {
	rootCmd.Flags().StringVarP(&outputFolder, "output-folder", "o", "", "Folder for the output files (default: folder of the input file)")
	rootCmd.Flags().BoolVar(&asciiOutput, "ascii", false, "Write ASCII instead of binary STL files")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print progress messages")
	rootCmd.Flags().BoolVarP(&watchInput, "watch", "w", false, "Split again whenever the input file changes")
}

func runSplit(cmd *cobra.Command, args []string) error {
	opts := split.Options{
		Input:     args[0],
		OutputDir: outputFolder,
		Format:    stl.Binary,
		Log:       cmd.OutOrStdout(),
	}
	if asciiOutput {
		opts.Format = stl.ASCII
	}
	if quiet {
		opts.Log = io.Discard
	}

	if watchInput {
		return split.Watch(cmd.Context(), opts, split.DefaultDebounce)
	}

	_, err := split.Run(cmd.Context(), opts)
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
