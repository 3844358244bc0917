// Package preview shows the rendered composite in its own window.
package preview

import (
	"fmt"

	"puzzle-maker/internal/app"
	"puzzle-maker/internal/export"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// Window is a preview of the composite at screen resolution, with
// toggles for the grid and index overlays.
type Window struct {
	fyne.Window
	state *app.State
	opts  export.RenderOptions
	image *fynecanvas.Image
}

// Show opens a preview window for the current layout. It returns an
// error instead of opening when the grid has no placements.
func Show(fyneApp fyne.App, state *app.State) (*Window, error) {
	w := &Window{
		state: state,
		opts:  export.DefaultRenderOptions(),
	}

	img, err := state.PreviewImage(w.opts)
	if err != nil {
		return nil, err
	}

	w.Window = fyneApp.NewWindow("Preview")
	w.image = fynecanvas.NewImageFromImage(img)
	w.image.FillMode = fynecanvas.ImageFillContain

	gridCheck := widget.NewCheck("Grid lines", func(on bool) {
		w.opts.DrawGrid = on
		w.redraw()
	})
	indexCheck := widget.NewCheck("Cell indices", func(on bool) {
		w.opts.DrawIndices = on
		w.redraw()
	})
	refreshBtn := widget.NewButton("Refresh", w.redraw)

	bar := container.NewHBox(gridCheck, indexCheck, refreshBtn)
	w.SetContent(container.NewBorder(bar, nil, nil, nil, w.image))
	w.Resize(fyne.NewSize(960, 540))
	w.Show()

	state.On(app.EventLayoutChanged, func(interface{}) { w.redraw() })
	return w, nil
}

func (w *Window) redraw() {
	img, err := w.state.PreviewImage(w.opts)
	if err != nil {
		dialog.ShowError(fmt.Errorf("preview: %w", err), w.Window)
		return
	}
	w.image.Image = img
	w.image.Refresh()
}
