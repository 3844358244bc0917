// Package dialogs provides modal editors for grid settings.
package dialogs

import (
	"fmt"
	"strconv"

	"puzzle-maker/internal/app"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// ShowGridSize opens the grid dimensions editor. A shrink that would
// evict placements reports the eviction count in the status callback.
func ShowGridSize(parent fyne.Window, state *app.State, status func(string)) {
	rows, cols := state.GridSize()

	rowsEntry := widget.NewEntry()
	rowsEntry.SetText(strconv.Itoa(rows))
	colsEntry := widget.NewEntry()
	colsEntry.SetText(strconv.Itoa(cols))

	items := []*widget.FormItem{
		widget.NewFormItem("Rows", rowsEntry),
		widget.NewFormItem("Columns", colsEntry),
	}

	dialog.ShowForm("Grid Size", "Apply", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		newRows, err := strconv.Atoi(rowsEntry.Text)
		if err != nil || newRows < 1 {
			dialog.ShowError(fmt.Errorf("rows must be a positive number"), parent)
			return
		}
		newCols, err := strconv.Atoi(colsEntry.Text)
		if err != nil || newCols < 1 {
			dialog.ShowError(fmt.Errorf("columns must be a positive number"), parent)
			return
		}
		evicted, err := state.ResizeGrid(newRows, newCols)
		if err != nil {
			dialog.ShowError(err, parent)
			return
		}
		if evicted > 0 {
			status(fmt.Sprintf("Grid resized to %dx%d, %d image(s) returned to the pool",
				newRows, newCols, evicted))
		} else {
			status(fmt.Sprintf("Grid resized to %dx%d", newRows, newCols))
		}
	}, parent)
}
