package export

import (
	"fmt"
	"image"
	"image/color"
	"log"

	"gocv.io/x/gocv"
)

// RenderOptions controls the optional overlays drawn on top of the
// composite.
type RenderOptions struct {
	// DrawGrid outlines every cell boundary inside the rendered area.
	DrawGrid bool
	// DrawIndices labels each tile with its grid coordinates.
	DrawIndices bool
	// Background fills the canvas and the gaps between tiles.
	Background color.RGBA
}

// DefaultRenderOptions renders on a white canvas with no overlays.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{Background: color.RGBA{255, 255, 255, 255}}
}

var (
	gridColor  = color.RGBA{180, 180, 180, 255}
	labelColor = color.RGBA{60, 60, 60, 255}
)

// Render rasterizes a layout into a BGR Mat. Each tile's source file is
// read, fitted into its rectangle preserving aspect ratio, and centered;
// unreadable files leave their tile blank rather than failing the whole
// composite. The caller owns the returned Mat.
func Render(l *Layout, opts RenderOptions) (gocv.Mat, error) {
	if l.Width < 1 || l.Height < 1 {
		return gocv.Mat{}, fmt.Errorf("degenerate canvas %dx%d", l.Width, l.Height)
	}
	bg := gocv.NewScalar(float64(opts.Background.B), float64(opts.Background.G), float64(opts.Background.R), 0)
	canvas := gocv.NewMatWithSizeFromScalar(bg, l.Height, l.Width, gocv.MatTypeCV8UC3)

	for _, tile := range l.Tiles {
		if err := blitTile(&canvas, tile); err != nil {
			log.Printf("export: skipping %s: %v", tile.Image.Path, err)
		}
	}

	if opts.DrawGrid {
		drawGrid(&canvas, l)
	}
	if opts.DrawIndices {
		drawIndices(&canvas, l)
	}
	return canvas, nil
}

// blitTile reads, scales, and centers one source image into its tile.
func blitTile(canvas *gocv.Mat, tile Tile) error {
	src := gocv.IMRead(tile.Image.Path, gocv.IMReadColor)
	if src.Empty() {
		src.Close()
		return fmt.Errorf("could not read image")
	}
	defer src.Close()

	w, h := src.Cols(), src.Rows()
	scaleX := float64(tile.Rect.Width) / float64(w)
	scaleY := float64(tile.Rect.Height) / float64(h)
	scale := scaleX
	if scaleY < scale {
		scale = scaleY
	}
	fitW := int(float64(w) * scale)
	fitH := int(float64(h) * scale)
	if fitW < 1 || fitH < 1 {
		return fmt.Errorf("image too small to fit %dx%d tile", tile.Rect.Width, tile.Rect.Height)
	}

	scaled := gocv.NewMat()
	defer scaled.Close()
	gocv.Resize(src, &scaled, image.Point{X: fitW, Y: fitH}, 0, 0, gocv.InterpolationArea)

	// Center within the tile; the aspect fit leaves at most one slack axis.
	x := tile.Rect.X + (tile.Rect.Width-fitW)/2
	y := tile.Rect.Y + (tile.Rect.Height-fitH)/2
	roi := canvas.Region(image.Rect(x, y, x+fitW, y+fitH))
	defer roi.Close()
	scaled.CopyTo(&roi)
	return nil
}

func drawGrid(canvas *gocv.Mat, l *Layout) {
	pitchX := l.Tier.CellWidth + l.Gap
	pitchY := l.Tier.CellHeight + l.Gap
	for x := 0; x <= l.Width; x += pitchX {
		gocv.Line(canvas, image.Point{X: x, Y: 0}, image.Point{X: x, Y: l.Height - 1}, gridColor, 1)
	}
	for y := 0; y <= l.Height; y += pitchY {
		gocv.Line(canvas, image.Point{X: 0, Y: y}, image.Point{X: l.Width - 1, Y: y}, gridColor, 1)
	}
}

func drawIndices(canvas *gocv.Mat, l *Layout) {
	for _, tile := range l.Tiles {
		label := fmt.Sprintf("(%d,%d)", tile.Row, tile.Col)
		center := tile.Rect.Center()
		pos := image.Point{X: center.X - 8*len(label), Y: center.Y}
		gocv.PutText(canvas, label, pos, gocv.FontHersheySimplex, 0.8, labelColor, 2)
	}
}

// RenderToFile rasterizes the layout and writes it to path. The output
// format follows the file extension.
func RenderToFile(l *Layout, path string, opts RenderOptions) error {
	mat, err := Render(l, opts)
	if err != nil {
		return err
	}
	defer mat.Close()
	if ok := gocv.IMWrite(path, mat); !ok {
		return fmt.Errorf("writing %s failed", path)
	}
	return nil
}

// RenderImage rasterizes the layout and returns it as an image.Image,
// suitable for an on-screen preview.
func RenderImage(l *Layout, opts RenderOptions) (image.Image, error) {
	mat, err := Render(l, opts)
	if err != nil {
		return nil, err
	}
	defer mat.Close()
	img, err := mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("converting composite: %w", err)
	}
	return img, nil
}
