// Package panels provides the side panel widgets.
package panels

import (
	"fmt"
	"path/filepath"

	"puzzle-maker/internal/app"
	"puzzle-maker/internal/catalog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// ImageListPanel shows the available and used image pools side by side
// in tabs. Selecting an available image arms it for placement.
type ImageListPanel struct {
	state *app.State

	available []*catalog.ImageInfo
	used      []*catalog.ImageInfo

	availableList *widget.List
	usedList      *widget.List
	header        *widget.Label
	tabs          *container.AppTabs

	// selectedPath is the armed image, empty when nothing is selected.
	selectedPath string

	// OnSelectionChanged fires when the armed image changes.
	OnSelectionChanged func(path string)
}

// NewImageListPanel creates the image pool panel bound to the state.
func NewImageListPanel(state *app.State) *ImageListPanel {
	p := &ImageListPanel{state: state}

	p.availableList = widget.NewList(
		func() int { return len(p.available) },
		func() fyne.CanvasObject { return widget.NewLabel("filename") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i < len(p.available) {
				o.(*widget.Label).SetText(itemText(p.available[i]))
			}
		},
	)
	p.availableList.OnSelected = func(i widget.ListItemID) {
		if i < len(p.available) {
			p.selectedPath = p.available[i].Path
			if p.OnSelectionChanged != nil {
				p.OnSelectionChanged(p.selectedPath)
			}
		}
	}
	p.availableList.OnUnselected = func(widget.ListItemID) {
		p.selectedPath = ""
		if p.OnSelectionChanged != nil {
			p.OnSelectionChanged("")
		}
	}

	p.usedList = widget.NewList(
		func() int { return len(p.used) },
		func() fyne.CanvasObject { return widget.NewLabel("filename") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i < len(p.used) {
				o.(*widget.Label).SetText(itemText(p.used[i]))
			}
		},
	)

	p.header = widget.NewLabel("No folder loaded")
	p.tabs = container.NewAppTabs(
		container.NewTabItem("Available", p.availableList),
		container.NewTabItem("Used", p.usedList),
	)

	refresh := func(interface{}) { p.Refresh() }
	state.On(app.EventFolderLoaded, refresh)
	state.On(app.EventLayoutChanged, refresh)
	state.On(app.EventLayoutLoaded, refresh)

	p.Refresh()
	return p
}

// Container returns the panel's root object.
func (p *ImageListPanel) Container() fyne.CanvasObject {
	return container.NewBorder(p.header, nil, nil, nil, p.tabs)
}

// SelectedPath returns the armed image path, or "".
func (p *ImageListPanel) SelectedPath() string {
	return p.selectedPath
}

// ClearSelection disarms the current image.
func (p *ImageListPanel) ClearSelection() {
	p.selectedPath = ""
	p.availableList.UnselectAll()
}

// Refresh reloads both pools from the state.
func (p *ImageListPanel) Refresh() {
	p.available = p.state.AvailableImages()
	p.used = p.state.UsedImages()

	if p.selectedPath != "" {
		found := false
		for _, img := range p.available {
			if img.Path == p.selectedPath {
				found = true
				break
			}
		}
		if !found {
			p.ClearSelection()
		}
	}

	p.header.SetText(fmt.Sprintf("%d available, %d used", len(p.available), len(p.used)))
	p.availableList.Refresh()
	p.usedList.Refresh()
}

func itemText(img *catalog.ImageInfo) string {
	tag := "L"
	if img.Orientation == catalog.Portrait {
		tag = "P"
	}
	return fmt.Sprintf("[%s] %s", tag, filepath.Base(img.Path))
}
