// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"path/filepath"

	"puzzle-maker/internal/app"
	"puzzle-maker/internal/export"
	"puzzle-maker/internal/puzzle"
	"puzzle-maker/internal/version"
	"puzzle-maker/pkg/geometry"
	"puzzle-maker/ui/canvas"
	"puzzle-maker/ui/dialogs"
	"puzzle-maker/ui/panels"
	"puzzle-maker/ui/prefs"
	"puzzle-maker/ui/preview"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const (
	prefKeyLastDir    = "last_directory"
	prefKeyLastFolder = "last_folder"
	prefKeyLastLayout = "last_layout"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app   fyne.App
	state *app.State
	prefs *prefs.Prefs

	grid      *canvas.GridView
	images    *panels.ImageListPanel
	region    *panels.RegionPanel
	spacing   *panels.SpacingPanel
	statusBar *widget.Label
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Puzzle Maker")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  p,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.restoreSession()

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.grid = canvas.NewGridView(mw.state)
	mw.images = panels.NewImageListPanel(mw.state)
	mw.region = panels.NewRegionPanel(mw.state, mw.Window)
	mw.spacing = panels.NewSpacingPanel(mw.state)
	mw.statusBar = widget.NewLabel("Ready")

	// Tapping a cell places the armed image, or selects the cell when
	// nothing is armed. A secondary tap removes the placement under it.
	mw.grid.OnCellTapped = func(row, col int) {
		if path := mw.images.SelectedPath(); path != "" {
			if err := mw.state.PlaceImage(path, row, col); err != nil {
				mw.updateStatus(err.Error())
				return
			}
			mw.images.ClearSelection()
			mw.updateStatus(fmt.Sprintf("Placed at (%d, %d)", row, col))
			return
		}
		mw.state.SetSelection(mw.singleCell(row, col))
	}
	mw.grid.OnCellSecondaryTapped = func(row, col int) {
		if err := mw.state.RemoveImage(row, col); err != nil {
			mw.updateStatus(err.Error())
			return
		}
		mw.updateStatus(fmt.Sprintf("Removed image at (%d, %d)", row, col))
	}

	side := container.NewAppTabs(
		container.NewTabItem("Images", mw.images.Container()),
		container.NewTabItem("Region", mw.region.Container()),
		container.NewTabItem("Spacing", mw.spacing.Container()),
	)

	split := container.NewHSplit(side, mw.grid)
	split.SetOffset(0.28)

	content := container.NewBorder(
		nil,                               // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		split,                             // center
	)

	mw.SetContent(content)
	mw.Resize(fyne.NewSize(1100, 700))
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image Folder...", mw.onOpenFolder),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Open Layout...", mw.onOpenLayout),
		fyne.NewMenuItem("Save Layout", mw.onSaveLayout),
		fyne.NewMenuItem("Save Layout As...", mw.onSaveLayoutAs),
		fyne.NewMenuItem("Save Snapshot", mw.onSaveSnapshot),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Composite...", mw.onExport),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Select All", func() { mw.state.SelectAll() }),
		fyne.NewMenuItem("Expand Selection", mw.onExpandSelection),
		fyne.NewMenuItem("Clear Grid...", mw.onClearGrid),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Grid Size...", mw.onGridSize),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Preview Composite", mw.onPreview),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mainMenu := fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu)
	mw.SetMainMenu(mainMenu)
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventFolderLoaded, func(data interface{}) {
		if dir, ok := data.(string); ok {
			mw.SetTitle("Puzzle Maker - " + filepath.Base(dir))
			mw.updateStatus("Folder loaded: " + dir)
		}
	})

	mw.state.On(app.EventLayoutLoaded, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle("Puzzle Maker - " + filepath.Base(path))
			mw.updateStatus("Layout loaded: " + path)
		}
	})

	mw.state.On(app.EventLayoutSaved, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.updateStatus("Layout saved: " + path)
		}
	})

	mw.state.On(app.EventModified, func(data interface{}) {
		if modified, ok := data.(bool); ok && modified {
			title := mw.Title()
			if len(title) > 0 && title[len(title)-1] != '*' {
				mw.SetTitle(title + " *")
			}
		}
	})
}

func (mw *MainWindow) singleCell(row, col int) puzzle.Region {
	return puzzle.Region{Row: row, Col: col, RowSpan: 1, ColSpan: 1}
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefKeyLastDir)
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefKeyLastDir, filepath.Dir(filePath))
	if err := mw.prefs.Save(); err != nil {
		mw.updateStatus("Could not save preferences: " + err.Error())
	}
}

// restoreSession reloads the previous folder and layout, if any.
func (mw *MainWindow) restoreSession() {
	if layout := mw.prefs.String(prefKeyLastLayout); layout != "" {
		if report, err := mw.state.LoadLayout(layout); err == nil {
			if len(report.MissingImages) > 0 {
				mw.updateStatus(fmt.Sprintf("Layout restored, %d image(s) missing", len(report.MissingImages)))
			}
			return
		}
	}
	if folder := mw.prefs.String(prefKeyLastFolder); folder != "" {
		if _, err := mw.state.LoadFolder(folder); err != nil {
			mw.updateStatus("Could not restore folder: " + err.Error())
		}
	}
}

// Menu action handlers

func (mw *MainWindow) onOpenFolder() {
	fd := dialog.NewFolderOpen(func(list fyne.ListableURI, err error) {
		if err != nil || list == nil {
			return
		}
		dir := list.Path()
		count, err := mw.state.LoadFolder(dir)
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.prefs.SetString(prefKeyLastFolder, dir)
		mw.prefs.SetString(prefKeyLastLayout, "")
		_ = mw.prefs.Save()
		mw.updateStatus(fmt.Sprintf("Scanned %d image(s) from %s", count, dir))
	}, mw.Window)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onOpenLayout() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		report, err := mw.state.LoadLayout(path)
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.prefs.SetString(prefKeyLastLayout, path)
		_ = mw.prefs.Save()
		if len(report.MissingImages) > 0 {
			dialog.ShowInformation("Missing Images",
				fmt.Sprintf("%d image file(s) referenced by the layout could not be read and were skipped.",
					len(report.MissingImages)), mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSaveLayout() {
	if mw.state.LayoutPath == "" {
		mw.onSaveLayoutAs()
		return
	}
	if err := mw.state.SaveLayout(mw.state.LayoutPath); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSaveLayoutAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != ".json" {
			path += ".json"
		}
		mw.saveLastDir(path)
		if err := mw.state.SaveLayout(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.prefs.SetString(prefKeyLastLayout, path)
		_ = mw.prefs.Save()
	}, mw.Window)
	fd.SetFileName("layout.json")
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSaveSnapshot() {
	path, err := mw.state.SaveSnapshot()
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.updateStatus("Snapshot saved: " + path)
}

func (mw *MainWindow) onExport() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) == "" {
			path += ".png"
		}
		mw.saveLastDir(path)
		opts := export.DefaultRenderOptions()
		if err := mw.state.ExportToFile(path, geometry.ExportTier, opts); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Exported: " + path)
	}, mw.Window)
	fd.SetFileName("puzzle.png")
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onExpandSelection() {
	if _, err := mw.state.ExpandSelection(); err != nil {
		mw.updateStatus("Selection clipped to the grid edge")
	}
}

func (mw *MainWindow) onClearGrid() {
	dialog.ShowConfirm("Clear Grid",
		"Remove every placed image and return them to the pool?",
		func(ok bool) {
			if !ok {
				return
			}
			mw.state.SelectAll()
			freed := mw.state.ClearSelection()
			mw.updateStatus(fmt.Sprintf("Cleared %d image(s)", freed))
		}, mw.Window)
}

func (mw *MainWindow) onGridSize() {
	dialogs.ShowGridSize(mw.Window, mw.state, mw.updateStatus)
}

func (mw *MainWindow) onPreview() {
	if _, err := preview.Show(mw.app, mw.state); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Puzzle Maker",
		fmt.Sprintf("Puzzle Maker v%s\n\n"+
			"Arrange 16:9 images on a puzzle grid and export the composite.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
