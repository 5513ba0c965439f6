package main

import (
	"fmt"

	"github.com/philipparndt/stlsplit/pkg/analysis"
	"github.com/philipparndt/stlsplit/pkg/partition"
	"github.com/philipparndt/stlsplit/pkg/split"
	"github.com/spf13/cobra"
)

var solidsCmd = &cobra.Command{
	Use:   "solids [file]",
	Short: "List the separate solids of an STL file without writing them",
	Long:  "Show triangle count, bounding box and surface area of every solid found in the file.",
	Args:  cobra.ExactArgs(1),
	RunE:  runSolids,
}

func init() {
	rootCmd.AddCommand(solidsCmd)
}

func runSolids(cmd *cobra.Command, args []string) error {
	filename := args[0]

	model, err := split.Load(cmd.Context(), filename)
	if err != nil {
		return err
	}

	result := analysis.AnalyzeSolids(model, partition.Partition(model.Triangles))
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "STL Solids")
	fmt.Fprintln(out, "==========")
	if model.Name != "" {
		fmt.Fprintf(out, "Name: %s\n", model.Name)
	}
	fmt.Fprintf(out, "File: %s\n", filename)
	fmt.Fprintf(out, "Triangles: %d\n", result.TriangleCount)
	fmt.Fprintf(out, "Surface Area: %.6f square units\n", result.SurfaceArea)
	if !result.BoundingBox.IsEmpty() {
		fmt.Fprintf(out, "Bounding Box: %s - %s\n",
			analysis.FormatVector(result.BoundingBox.Min),
			analysis.FormatVector(result.BoundingBox.Max))
	}
	fmt.Fprintf(out, "Solids: %d\n\n", len(result.Solids))

	stem := split.Stem(filename)
	for _, solid := range result.Solids {
		fmt.Fprintf(out, "Solid #%d (%s_%04d.stl):\n", solid.Index, stem, solid.Index)
		fmt.Fprintf(out, "  Triangles: %d\n", solid.TriangleCount)
		fmt.Fprintf(out, "  Min: %s\n", analysis.FormatVector(solid.BoundingBox.Min))
		fmt.Fprintf(out, "  Max: %s\n", analysis.FormatVector(solid.BoundingBox.Max))
		fmt.Fprintf(out, "  Size: %s\n", analysis.FormatVector(solid.Dimensions))
		fmt.Fprintf(out, "  Surface Area: %.6f square units\n\n", solid.SurfaceArea)
	}

	return nil
}
