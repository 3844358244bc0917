// Command puzzleexport renders a saved layout to a composite image
// without starting the GUI.
package main

import (
	"flag"
	"fmt"
	"os"

	"puzzle-maker/internal/export"
	"puzzle-maker/internal/state"
	"puzzle-maker/pkg/geometry"
)

func main() {
	layoutPath := flag.String("layout", "", "Path to a saved layout (.json)")
	outPath := flag.String("out", "puzzle.png", "Output image path (format by extension)")
	cellWidth := flag.Int("cell-width", geometry.ExportTier.CellWidth, "Output cell width in pixels")
	drawGrid := flag.Bool("grid", false, "Draw cell boundaries")
	drawIndices := flag.Bool("indices", false, "Label tiles with grid coordinates")
	flag.Parse()

	if *layoutPath == "" {
		fmt.Println("Usage: puzzleexport -layout <path> [-out puzzle.png] [-cell-width 1920] [-grid] [-indices]")
		os.Exit(1)
	}

	doc, err := state.Load(*layoutPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load layout: %v\n", err)
		os.Exit(1)
	}

	model, _, report, err := state.Apply(doc, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to apply layout: %v\n", err)
		os.Exit(1)
	}
	for _, missing := range report.MissingImages {
		fmt.Fprintf(os.Stderr, "Warning: skipping missing image %s\n", missing)
	}

	tier := geometry.Tier{
		CellWidth:  *cellWidth,
		CellHeight: int(geometry.LandscapeHeight(float64(*cellWidth))),
	}

	layout, err := export.Compute(model, tier, doc.Spacing)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Layout failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Grid %dx%d, %d tile(s), canvas %dx%d px, gap %d px\n",
		doc.Rows, doc.Cols, len(layout.Tiles), layout.Width, layout.Height, layout.Gap)

	opts := export.DefaultRenderOptions()
	opts.DrawGrid = *drawGrid
	opts.DrawIndices = *drawIndices

	if err := export.RenderToFile(layout, *outPath, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Render failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", *outPath)
}
