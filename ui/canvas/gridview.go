// Package canvas provides the interactive grid view.
package canvas

import (
	"image/color"
	"path/filepath"

	"puzzle-maker/internal/app"
	"puzzle-maker/internal/catalog"
	"puzzle-maker/internal/puzzle"
	"puzzle-maker/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Display cell geometry. Cells keep a rough 16:9 shape on screen; the
// real aspect only matters at render time.
const (
	cellWidth  float32 = 64
	cellHeight float32 = 36
	cellPad    float32 = 3
)

var (
	colorEmpty     = color.NRGBA{R: 0xE8, G: 0xE8, B: 0xE8, A: 0xFF}
	colorLandscape = color.NRGBA{R: 0x5B, G: 0x8D, B: 0xC9, A: 0xFF}
	colorPortrait  = color.NRGBA{R: 0x4C, G: 0xAF, B: 0x7D, A: 0xFF}
	colorSelection = color.NRGBA{R: 0xFF, G: 0xB3, B: 0x00, A: 0x60}
	colorGridLine  = color.NRGBA{R: 0xB0, G: 0xB0, B: 0xB0, A: 0xFF}
)

// GridView displays the puzzle grid and routes cell taps to the
// application.
type GridView struct {
	widget.BaseWidget

	state *app.State

	// OnCellTapped receives primary taps on a cell.
	OnCellTapped func(row, col int)
	// OnCellSecondaryTapped receives secondary (context) taps.
	OnCellSecondaryTapped func(row, col int)

	content *fyne.Container
	scroll  *container.Scroll
}

// NewGridView creates a grid view bound to the application state. The
// view redraws itself on layout and selection events.
func NewGridView(state *app.State) *GridView {
	g := &GridView{
		state:   state,
		content: container.NewWithoutLayout(),
	}
	g.ExtendBaseWidget(g)
	g.scroll = container.NewScroll(g.content)

	state.On(app.EventLayoutChanged, func(interface{}) { g.Rebuild() })
	state.On(app.EventGridResized, func(interface{}) { g.Rebuild() })
	state.On(app.EventSelectionChanged, func(interface{}) { g.Rebuild() })
	state.On(app.EventLayoutLoaded, func(interface{}) { g.Rebuild() })
	state.On(app.EventFolderLoaded, func(interface{}) { g.Rebuild() })

	g.Rebuild()
	return g
}

func (g *GridView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(g.scroll)
}

func (g *GridView) MinSize() fyne.Size {
	return fyne.NewSize(cellWidth*6, cellHeight*6)
}

// cellAt maps a position inside the content to grid coordinates.
func (g *GridView) cellAt(pos fyne.Position) (row, col int, ok bool) {
	// Account for the scroll offset to get content coordinates.
	pos = pos.Add(g.scroll.Offset)
	col = int(pos.X / (cellWidth + cellPad))
	row = int(pos.Y / (cellHeight + cellPad))
	rows, cols := g.state.GridSize()
	if !geometry.NewRectInt(0, 0, cols, rows).Contains(geometry.PointInt{X: col, Y: row}) {
		return 0, 0, false
	}
	return row, col, true
}

// Tapped selects or activates the tapped cell.
func (g *GridView) Tapped(ev *fyne.PointEvent) {
	row, col, ok := g.cellAt(ev.Position)
	if !ok {
		return
	}
	if g.OnCellTapped != nil {
		g.OnCellTapped(row, col)
	}
}

// TappedSecondary forwards a context tap on a cell.
func (g *GridView) TappedSecondary(ev *fyne.PointEvent) {
	row, col, ok := g.cellAt(ev.Position)
	if !ok {
		return
	}
	if g.OnCellSecondaryTapped != nil {
		g.OnCellSecondaryTapped(row, col)
	}
}

// Rebuild regenerates the cell objects from the current model.
func (g *GridView) Rebuild() {
	rows, cols := g.state.GridSize()
	sel := g.state.Selection()

	objects := make([]fyne.CanvasObject, 0, rows*cols+8)

	// Background behind the whole grid doubles as the grid line color.
	totalW := float32(cols)*(cellWidth+cellPad) + cellPad
	totalH := float32(rows)*(cellHeight+cellPad) + cellPad
	bg := fynecanvas.NewRectangle(colorGridLine)
	bg.Resize(fyne.NewSize(totalW, totalH))
	bg.Move(fyne.NewPos(0, 0))
	objects = append(objects, bg)

	// One rectangle per placement so spanned cells read as one tile.
	for _, p := range g.state.Placements() {
		rect := fynecanvas.NewRectangle(placementColor(p))
		x := cellPad + float32(p.Col)*(cellWidth+cellPad)
		y := cellPad + float32(p.Row)*(cellHeight+cellPad)
		h := float32(p.RowSpan)*cellHeight + float32(p.RowSpan-1)*cellPad
		rect.Move(fyne.NewPos(x, y))
		rect.Resize(fyne.NewSize(cellWidth, h))
		objects = append(objects, rect)

		label := fynecanvas.NewText(truncateName(p.Image), color.White)
		label.TextSize = 10
		label.Move(fyne.NewPos(x+2, y+2))
		objects = append(objects, label)
	}

	// Empty cells on top of the background.
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if info, err := g.state.QueryCell(r, c); err == nil && info.State == puzzle.CellEmpty {
				rect := fynecanvas.NewRectangle(colorEmpty)
				rect.Move(fyne.NewPos(
					cellPad+float32(c)*(cellWidth+cellPad),
					cellPad+float32(r)*(cellHeight+cellPad)))
				rect.Resize(fyne.NewSize(cellWidth, cellHeight))
				objects = append(objects, rect)
			}
		}
	}

	// Selection overlay last so it tints whatever is underneath.
	if !sel.Empty() {
		overlay := fynecanvas.NewRectangle(colorSelection)
		x := cellPad + float32(sel.Col)*(cellWidth+cellPad)
		y := cellPad + float32(sel.Row)*(cellHeight+cellPad)
		w := float32(sel.ColSpan)*cellWidth + float32(sel.ColSpan-1)*cellPad
		h := float32(sel.RowSpan)*cellHeight + float32(sel.RowSpan-1)*cellPad
		overlay.Move(fyne.NewPos(x, y))
		overlay.Resize(fyne.NewSize(w, h))
		objects = append(objects, overlay)
	}

	g.content.Objects = objects
	g.content.Resize(fyne.NewSize(totalW, totalH))
	g.content.Refresh()
	g.scroll.Refresh()
}

func placementColor(p *puzzle.Placement) color.Color {
	if p.Image.Orientation == catalog.Portrait {
		return colorPortrait
	}
	return colorLandscape
}

// truncateName shortens long filenames so labels stay inside their tile.
func truncateName(img *catalog.ImageInfo) string {
	name := filepath.Base(img.Path)
	const max = 9
	if len(name) > max {
		return name[:max-1] + "…"
	}
	return name
}
