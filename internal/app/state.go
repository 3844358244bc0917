// Package app provides application lifecycle management, shared state,
// and events.
package app

import (
	"fmt"
	goimage "image"
	"sync"

	"puzzle-maker/internal/catalog"
	"puzzle-maker/internal/export"
	"puzzle-maker/internal/puzzle"
	"puzzle-maker/internal/state"
	"puzzle-maker/pkg/geometry"
)

// State holds the application state: the grid model, the image catalog,
// spacing, the active selection, and the snapshot manager. All access
// goes through State's methods; the model and catalog underneath carry
// no locking of their own.
type State struct {
	mu sync.RWMutex

	model     *puzzle.Model
	catalog   *catalog.Catalog
	spacing   geometry.Spacing
	selection puzzle.Region

	snapshots *state.Manager

	LayoutPath string
	Modified   bool

	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventFolderLoaded EventType = iota
	EventLayoutChanged
	EventGridResized
	EventSelectionChanged
	EventSpacingChanged
	EventLayoutSaved
	EventLayoutLoaded
	EventModified
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates a new application state with the default grid.
func NewState() *State {
	cat := catalog.New()
	m, _ := puzzle.New(puzzle.DefaultRows, puzzle.DefaultCols, cat)
	return &State{
		model:     m,
		catalog:   cat,
		spacing:   geometry.AutoSpacing(),
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified marks the layout as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	s.Modified = modified
	s.mu.Unlock()
	s.Emit(EventModified, modified)
}

// SetSnapshotDir points the state at a snapshot directory, creating it
// if needed.
func (s *State) SetSnapshotDir(dir string) error {
	mgr, err := state.NewManager(dir)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.snapshots = mgr
	s.mu.Unlock()
	return nil
}

// Snapshots returns the snapshot manager, or nil when none is
// configured.
func (s *State) Snapshots() *state.Manager {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshots
}

// LoadFolder scans a directory for images and replaces the catalog.
// Placements on the grid are cleared: they referenced the old catalog.
func (s *State) LoadFolder(dir string) (int, error) {
	cat := catalog.New()
	count, err := cat.ScanDirectory(dir)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	rows, cols := s.model.Rows(), s.model.Cols()
	s.catalog = cat
	s.model, _ = puzzle.New(rows, cols, cat)
	s.selection = puzzle.Region{}
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventFolderLoaded, dir)
	s.Emit(EventLayoutChanged, nil)
	return count, nil
}

// Folder returns the directory the current catalog was scanned from.
func (s *State) Folder() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.Dir()
}

// GridSize returns the current grid dimensions.
func (s *State) GridSize() (rows, cols int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model.Rows(), s.model.Cols()
}

// QueryCell reports the occupancy of one cell.
func (s *State) QueryCell(row, col int) (puzzle.CellInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model.QueryCell(row, col)
}

// Placements returns every placement in row-major order.
func (s *State) Placements() []*puzzle.Placement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model.Placements()
}

// AvailableImages returns the unplaced images in catalog order.
func (s *State) AvailableImages() []*catalog.ImageInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.Available()
}

// UsedImages returns the placed images in catalog order.
func (s *State) UsedImages() []*catalog.ImageInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.Used()
}

// PlaceImage places an available image at the given anchor cell.
func (s *State) PlaceImage(path string, row, col int) error {
	s.mu.Lock()
	img := s.catalog.Lookup(path)
	if img == nil {
		s.mu.Unlock()
		return fmt.Errorf("unknown image %q", path)
	}
	if err := s.model.PlaceImage(img, row, col); err != nil {
		s.mu.Unlock()
		return err
	}
	s.Modified = true
	s.mu.Unlock()

	s.Emit(EventLayoutChanged, nil)
	s.Emit(EventModified, true)
	return nil
}

// RemoveImage removes the placement covering the given cell and returns
// the freed image to the available pool.
func (s *State) RemoveImage(row, col int) error {
	s.mu.Lock()
	_, err := s.model.RemoveImage(row, col)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.Modified = true
	s.mu.Unlock()

	s.Emit(EventLayoutChanged, nil)
	s.Emit(EventModified, true)
	return nil
}

// Selection returns the active cell region, possibly empty.
func (s *State) Selection() puzzle.Region {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection
}

// SetSelection replaces the active selection, clipped to the grid.
func (s *State) SetSelection(r puzzle.Region) {
	s.mu.Lock()
	s.selection = s.model.Clip(r)
	sel := s.selection
	s.mu.Unlock()
	s.Emit(EventSelectionChanged, sel)
}

// SelectAll selects the whole grid.
func (s *State) SelectAll() {
	s.mu.Lock()
	s.selection = s.model.SelectAll()
	sel := s.selection
	s.mu.Unlock()
	s.Emit(EventSelectionChanged, sel)
}

// ExpandSelection grows the active selection until it contains every
// placement it touches in full. The truncation error from clipping an
// oversized selection is informational and returned alongside.
func (s *State) ExpandSelection() (puzzle.Region, error) {
	s.mu.Lock()
	expanded, err := s.model.ExpandToIntegrity(s.selection)
	s.selection = expanded
	s.mu.Unlock()

	s.Emit(EventSelectionChanged, expanded)
	return expanded, err
}

// MoveSelection shifts the expanded selection one step in the given
// direction. On success the selection follows the moved cells.
func (s *State) MoveSelection(dir puzzle.Direction) error {
	s.mu.Lock()
	expanded, _ := s.model.ExpandToIntegrity(s.selection)
	moved, err := s.model.MoveRegion(expanded, dir)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.selection = moved
	s.Modified = true
	s.mu.Unlock()

	s.Emit(EventLayoutChanged, nil)
	s.Emit(EventSelectionChanged, moved)
	s.Emit(EventModified, true)
	return nil
}

// ClearSelection removes every placement anchored inside the expanded
// selection and returns the freed images to the available pool.
func (s *State) ClearSelection() int {
	s.mu.Lock()
	expanded, _ := s.model.ExpandToIntegrity(s.selection)
	freed := s.model.ClearRegion(expanded)
	s.selection = expanded
	if len(freed) > 0 {
		s.Modified = true
	}
	s.mu.Unlock()

	s.Emit(EventSelectionChanged, expanded)
	if len(freed) > 0 {
		s.Emit(EventLayoutChanged, nil)
		s.Emit(EventModified, true)
	}
	return len(freed)
}

// SelectionStats summarizes the active selection after integrity
// expansion.
func (s *State) SelectionStats() puzzle.RegionStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	expanded, _ := s.model.ExpandToIntegrity(s.selection)
	return s.model.StatsFor(expanded)
}

// ResizeGrid changes the grid dimensions. Placements that no longer fit
// are evicted and their images returned to the available pool; the
// number of evictions is returned.
func (s *State) ResizeGrid(rows, cols int) (int, error) {
	s.mu.Lock()
	evicted, err := s.model.Resize(rows, cols)
	if err != nil {
		s.mu.Unlock()
		return 0, err
	}
	s.selection = s.model.Clip(s.selection)
	s.Modified = true
	s.mu.Unlock()

	s.Emit(EventGridResized, [2]int{rows, cols})
	s.Emit(EventLayoutChanged, nil)
	s.Emit(EventModified, true)
	return len(evicted), nil
}

// Spacing returns the active spacing configuration.
func (s *State) Spacing() geometry.Spacing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.spacing
}

// SetSpacing replaces the spacing configuration.
func (s *State) SetSpacing(sp geometry.Spacing) error {
	if err := sp.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.spacing = sp
	s.Modified = true
	s.mu.Unlock()

	s.Emit(EventSpacingChanged, sp)
	s.Emit(EventModified, true)
	return nil
}

// SaveLayout writes the current layout to the specified path.
func (s *State) SaveLayout(path string) error {
	s.mu.RLock()
	doc := state.Snapshot(s.model, s.catalog, s.spacing)
	s.mu.RUnlock()

	if err := doc.Save(path); err != nil {
		return err
	}

	s.mu.Lock()
	s.LayoutPath = path
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventLayoutSaved, path)
	s.Emit(EventModified, false)
	return nil
}

// SaveSnapshot writes the current layout into the snapshot directory
// and returns the file path.
func (s *State) SaveSnapshot() (string, error) {
	s.mu.RLock()
	mgr := s.snapshots
	doc := state.Snapshot(s.model, s.catalog, s.spacing)
	s.mu.RUnlock()

	if mgr == nil {
		return "", fmt.Errorf("no snapshot directory configured")
	}
	path, err := mgr.Save(doc)
	if err != nil {
		return "", err
	}
	s.Emit(EventLayoutSaved, path)
	return path, nil
}

// LoadLayout replaces the model, catalog, and spacing from a saved
// layout file. Images whose files have gone missing are skipped and
// reported; a malformed document leaves the current state untouched.
func (s *State) LoadLayout(path string) (*state.LoadReport, error) {
	doc, err := state.Load(path)
	if err != nil {
		return nil, err
	}
	m, cat, report, err := state.Apply(doc, nil)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.model = m
	s.catalog = cat
	s.spacing = doc.Spacing
	s.selection = puzzle.Region{}
	s.LayoutPath = path
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventLayoutLoaded, path)
	s.Emit(EventLayoutChanged, nil)
	s.Emit(EventSpacingChanged, doc.Spacing)
	s.Emit(EventModified, false)
	return report, nil
}

// PreviewImage renders the current layout at preview resolution.
func (s *State) PreviewImage(opts export.RenderOptions) (goimage.Image, error) {
	s.mu.RLock()
	layout, err := export.Compute(s.model, geometry.PreviewTier, s.spacing)
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	return export.RenderImage(layout, opts)
}

// ExportToFile renders the current layout at the given tier and writes
// it to path.
func (s *State) ExportToFile(path string, tier geometry.Tier, opts export.RenderOptions) error {
	s.mu.RLock()
	layout, err := export.Compute(s.model, tier, s.spacing)
	s.mu.RUnlock()
	if err != nil {
		return err
	}
	return export.RenderToFile(layout, path, opts)
}
