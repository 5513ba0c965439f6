// Package split loads a mesh, partitions it into solids and writes one STL file per solid.
package split

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/philipparndt/stlsplit/pkg/geometry"
	"github.com/philipparndt/stlsplit/pkg/openscad"
	"github.com/philipparndt/stlsplit/pkg/partition"
	"github.com/philipparndt/stlsplit/pkg/stl"
)

// Options configures a split run
type Options struct {
	// Input is the STL or OpenSCAD file to split
	Input string
	// OutputDir receives the output files; defaults to the directory of Input
	OutputDir string
	// Format is the encoding of the output files
	Format stl.Format
	// Log receives progress messages; nil discards them
	Log io.Writer
}

// Result describes the files written by a split run
type Result struct {
	OutputDir string
	Files     []string
	Solids    [][]geometry.Triangle
	Model     *stl.Model
}

// Run splits opts.Input into one file per connected solid.
// Loading errors abort before anything is written; the first write error aborts the remaining writes.
func Run(ctx context.Context, opts Options) (*Result, error) {
	logger := opts.logger()

	fmt.Fprintf(logger, "Loading %s...\n", opts.Input)
	model, err := Load(ctx, opts.Input)
	if err != nil {
		return nil, err
	}

	solids := partition.Partition(model.Triangles)

	dir := OutputDir(opts.Input, opts.OutputDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output folder: %w", err)
	}

	fmt.Fprintf(logger, "Found %d separate solids in stl file. Creating new files...\n", len(solids))

	result := &Result{
		OutputDir: dir,
		Files:     make([]string, 0, len(solids)),
		Solids:    solids,
		Model:     model,
	}
	stem := Stem(opts.Input)
	for i, triangles := range solids {
		path := OutputPath(dir, stem, i)
		fmt.Fprintf(logger, "Writing new stl file to %s\n", path)

		if err := stl.Save(path, model.WithTriangles(triangles), opts.Format); err != nil {
			return result, fmt.Errorf("failed to write solid %d: %w", i, err)
		}
		result.Files = append(result.Files, path)
	}

	return result, nil
}

// Load reads an STL file, rendering OpenSCAD sources to a temporary STL first
func Load(ctx context.Context, input string) (*stl.Model, error) {
	if !openscad.IsSCAD(input) {
		model, err := stl.Parse(input)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", input, err)
		}
		return model, nil
	}

	renderer := openscad.NewRenderer(filepath.Dir(input))
	tempFile, err := renderer.RenderToTemp(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to render OpenSCAD file: %w", err)
	}
	defer os.Remove(tempFile)

	model, err := stl.Parse(tempFile)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rendered STL: %w", err)
	}
	return model, nil
}

// OutputDir returns the folder output files are written to
func OutputDir(input, outputDir string) string {
	if outputDir != "" {
		return outputDir
	}
	return filepath.Dir(input)
}

// Stem returns the input file name without directory and extension
func Stem(input string) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// OutputPath returns the path of the file holding solid i
func OutputPath(dir, stem string, i int) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%04d.stl", stem, i))
}

func (o Options) logger() io.Writer {
	if o.Log == nil {
		return io.Discard
	}
	return o.Log
}
