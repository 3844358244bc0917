package panels

import (
	"errors"
	"fmt"
	"strconv"

	"puzzle-maker/internal/app"
	"puzzle-maker/internal/puzzle"
	"puzzle-maker/pkg/geometry"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// RegionPanel edits the cell selection: bounds, presets, the direction
// pad for block moves, and the clear action.
type RegionPanel struct {
	state  *app.State
	window fyne.Window

	rowEntry     *widget.Entry
	colEntry     *widget.Entry
	rowSpanEntry *widget.Entry
	colSpanEntry *widget.Entry

	statsLabel  *widget.Label
	statusLabel *widget.Label

	root fyne.CanvasObject
}

// NewRegionPanel creates the region editor bound to the state.
func NewRegionPanel(state *app.State, window fyne.Window) *RegionPanel {
	p := &RegionPanel{
		state:       state,
		window:      window,
		rowEntry:    newIntEntry(),
		colEntry:    newIntEntry(),
		rowSpanEntry: newIntEntry(),
		colSpanEntry: newIntEntry(),
		statsLabel:  widget.NewLabel(""),
		statusLabel: widget.NewLabel(""),
	}
	p.statusLabel.Wrapping = fyne.TextWrapWord

	applyBtn := widget.NewButton("Apply Bounds", p.onApplyBounds)

	presets := container.NewHBox(
		widget.NewButton("All", func() {
			p.state.SelectAll()
		}),
		widget.NewButton("Row", func() {
			if row, err := intValue(p.rowEntry); err == nil {
				_, cols := p.state.GridSize()
				p.state.SetSelection(puzzle.Region{Row: row, Col: 0, RowSpan: 1, ColSpan: cols})
				p.syncFromState()
			}
		}),
		widget.NewButton("Column", func() {
			if col, err := intValue(p.colEntry); err == nil {
				rows, _ := p.state.GridSize()
				p.state.SetSelection(puzzle.Region{Row: 0, Col: col, RowSpan: rows, ColSpan: 1})
				p.syncFromState()
			}
		}),
	)

	expandBtn := widget.NewButton("Expand to Whole Images", p.onExpand)
	clearBtn := widget.NewButton("Clear Region...", p.onClear)

	bounds := container.New(layoutForm(),
		widget.NewLabel("Row"), p.rowEntry,
		widget.NewLabel("Col"), p.colEntry,
		widget.NewLabel("Rows"), p.rowSpanEntry,
		widget.NewLabel("Cols"), p.colSpanEntry,
	)

	p.root = container.NewVBox(
		widget.NewLabelWithStyle("Selection", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		bounds,
		applyBtn,
		presets,
		expandBtn,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Move", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		p.buildDirectionPad(),
		widget.NewSeparator(),
		clearBtn,
		p.statsLabel,
		p.statusLabel,
	)

	state.On(app.EventSelectionChanged, func(data interface{}) {
		p.syncFromState()
	})
	state.On(app.EventLayoutChanged, func(interface{}) {
		p.updateStats()
	})

	p.syncFromState()
	return p
}

// Container returns the panel's root object.
func (p *RegionPanel) Container() fyne.CanvasObject {
	return container.NewVScroll(p.root)
}

// layoutForm lays the bounds entries out two per row.
func layoutForm() fyne.Layout {
	return fynelayoutGrid{}
}

// fynelayoutGrid is a small 2-column grid layout for label/entry pairs.
type fynelayoutGrid struct{}

func (fynelayoutGrid) MinSize(objects []fyne.CanvasObject) fyne.Size {
	var w, h float32
	for i := 0; i < len(objects); i += 2 {
		rowH := objects[i].MinSize().Height
		rowW := objects[i].MinSize().Width
		if i+1 < len(objects) {
			if s := objects[i+1].MinSize(); s.Height > rowH {
				rowH = s.Height
			}
			rowW += objects[i+1].MinSize().Width
		}
		if rowW > w {
			w = rowW
		}
		h += rowH
	}
	return fyne.NewSize(w, h)
}

func (fynelayoutGrid) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	labelW := size.Width * 0.3
	var y float32
	for i := 0; i < len(objects); i += 2 {
		rowH := objects[i].MinSize().Height
		if i+1 < len(objects) && objects[i+1].MinSize().Height > rowH {
			rowH = objects[i+1].MinSize().Height
		}
		objects[i].Move(fyne.NewPos(0, y))
		objects[i].Resize(fyne.NewSize(labelW, rowH))
		if i+1 < len(objects) {
			objects[i+1].Move(fyne.NewPos(labelW, y))
			objects[i+1].Resize(fyne.NewSize(size.Width-labelW, rowH))
		}
		y += rowH
	}
}

// buildDirectionPad lays the eight direction buttons around a center
// spot in a 3x3 grid.
func (p *RegionPanel) buildDirectionPad() fyne.CanvasObject {
	move := func(dir puzzle.Direction) func() {
		return func() { p.onMove(dir) }
	}
	return container.NewGridWithColumns(3,
		widget.NewButton("↖", move(puzzle.DirNorthWest)),
		widget.NewButton("↑", move(puzzle.DirNorth)),
		widget.NewButton("↗", move(puzzle.DirNorthEast)),
		widget.NewButton("←", move(puzzle.DirWest)),
		widget.NewLabel(""),
		widget.NewButton("→", move(puzzle.DirEast)),
		widget.NewButton("↙", move(puzzle.DirSouthWest)),
		widget.NewButton("↓", move(puzzle.DirSouth)),
		widget.NewButton("↘", move(puzzle.DirSouthEast)),
	)
}

func (p *RegionPanel) onApplyBounds() {
	region, err := p.regionFromEntries()
	if err != nil {
		p.setStatus(err.Error())
		return
	}
	p.state.SetSelection(region)
	p.syncFromState()
	p.setStatus("")
}

func (p *RegionPanel) onExpand() {
	expanded, err := p.state.ExpandSelection()
	if errors.Is(err, puzzle.ErrTruncatedExpansion) {
		p.setStatus(fmt.Sprintf("Selection clipped to the grid edge: %s", expanded))
		return
	}
	p.setStatus(fmt.Sprintf("Selection: %s", expanded))
}

func (p *RegionPanel) onMove(dir puzzle.Direction) {
	if err := p.state.MoveSelection(dir); err != nil {
		switch {
		case errors.Is(err, puzzle.ErrOutOfBounds):
			p.setStatus("Cannot move: the block would leave the grid")
		case errors.Is(err, puzzle.ErrDestinationOccupied):
			p.setStatus("Cannot move: destination cells are occupied")
		default:
			p.setStatus(err.Error())
		}
		return
	}
	p.setStatus("Moved " + dir.String())
}

func (p *RegionPanel) onClear() {
	stats := p.state.SelectionStats()
	if stats.Occupied == 0 {
		p.setStatus("Nothing to clear in the selection")
		return
	}
	msg := fmt.Sprintf("Remove %d landscape and %d portrait image(s) from the selection?",
		len(stats.Landscape), len(stats.Portrait))
	dialog.ShowConfirm("Clear Region", msg, func(ok bool) {
		if !ok {
			return
		}
		freed := p.state.ClearSelection()
		p.setStatus(fmt.Sprintf("Returned %d image(s) to the pool", freed))
	}, p.window)
}

func (p *RegionPanel) regionFromEntries() (puzzle.Region, error) {
	row, err := intValue(p.rowEntry)
	if err != nil {
		return puzzle.Region{}, fmt.Errorf("row: %w", err)
	}
	col, err := intValue(p.colEntry)
	if err != nil {
		return puzzle.Region{}, fmt.Errorf("col: %w", err)
	}
	rowSpan, err := intValue(p.rowSpanEntry)
	if err != nil {
		return puzzle.Region{}, fmt.Errorf("rows: %w", err)
	}
	colSpan, err := intValue(p.colSpanEntry)
	if err != nil {
		return puzzle.Region{}, fmt.Errorf("cols: %w", err)
	}
	return puzzle.Region{Row: row, Col: col, RowSpan: rowSpan, ColSpan: colSpan}, nil
}

func (p *RegionPanel) syncFromState() {
	sel := p.state.Selection()
	p.rowEntry.SetText(strconv.Itoa(sel.Row))
	p.colEntry.SetText(strconv.Itoa(sel.Col))
	p.rowSpanEntry.SetText(strconv.Itoa(sel.RowSpan))
	p.colSpanEntry.SetText(strconv.Itoa(sel.ColSpan))
	p.updateStats()
}

func (p *RegionPanel) updateStats() {
	stats := p.state.SelectionStats()
	p.statsLabel.SetText(fmt.Sprintf("%d cells, %d occupied (%dL / %dP)",
		stats.Cells, stats.Occupied, len(stats.Landscape), len(stats.Portrait)))
}

func (p *RegionPanel) setStatus(text string) {
	p.statusLabel.SetText(text)
}

func newIntEntry() *widget.Entry {
	e := widget.NewEntry()
	e.SetText("0")
	return e
}

func intValue(e *widget.Entry) (int, error) {
	n, err := strconv.Atoi(e.Text)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", e.Text)
	}
	if n < 0 {
		return 0, fmt.Errorf("must be non-negative")
	}
	return n, nil
}

// SpacingPanel edits the gap configuration.
type SpacingPanel struct {
	state *app.State

	modeRadio  *widget.RadioGroup
	valueEntry *widget.Entry
	gapLabel   *widget.Label

	root fyne.CanvasObject
}

// NewSpacingPanel creates the spacing editor bound to the state.
func NewSpacingPanel(state *app.State) *SpacingPanel {
	p := &SpacingPanel{
		state:      state,
		valueEntry: newIntEntry(),
		gapLabel:   widget.NewLabel(""),
	}

	p.modeRadio = widget.NewRadioGroup([]string{"Auto (16:9 derived)", "Manual"}, func(string) {
		p.apply()
	})
	p.valueEntry.OnSubmitted = func(string) { p.apply() }

	p.root = container.NewVBox(
		widget.NewLabelWithStyle("Spacing", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		p.modeRadio,
		container.NewBorder(nil, nil, widget.NewLabel("Gap px"), nil, p.valueEntry),
		p.gapLabel,
	)

	state.On(app.EventSpacingChanged, func(interface{}) { p.syncFromState() })
	p.syncFromState()
	return p
}

// Container returns the panel's root object.
func (p *SpacingPanel) Container() fyne.CanvasObject {
	return p.root
}

func (p *SpacingPanel) apply() {
	var sp geometry.Spacing
	if p.modeRadio.Selected == "Manual" {
		v, err := intValue(p.valueEntry)
		if err != nil {
			p.gapLabel.SetText(err.Error())
			return
		}
		sp = geometry.ManualSpacing(v)
	} else {
		sp = geometry.AutoSpacing()
	}
	if err := p.state.SetSpacing(sp); err != nil {
		p.gapLabel.SetText(err.Error())
	}
}

func (p *SpacingPanel) syncFromState() {
	sp := p.state.Spacing()
	if sp.Mode == geometry.SpacingManual {
		p.modeRadio.Selected = "Manual"
		p.valueEntry.SetText(strconv.Itoa(sp.Value))
	} else {
		p.modeRadio.Selected = "Auto (16:9 derived)"
	}
	p.modeRadio.Refresh()
	p.gapLabel.SetText(fmt.Sprintf("Export gap: %d px, preview gap: %d px",
		sp.Gap(geometry.ExportTier.CellHeight), sp.Gap(geometry.PreviewTier.CellHeight)))
}
