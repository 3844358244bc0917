// Package puzzle implements the grid layout model: cell occupancy,
// orientation-aware multi-cell placement, and region editing.
package puzzle

import (
	"fmt"
	"sort"

	"puzzle-maker/internal/catalog"
	"puzzle-maker/pkg/geometry"
)

// DefaultRows and DefaultCols are the grid dimensions used when no saved
// state or user override exists.
const (
	DefaultRows = 13
	DefaultCols = 10
)

// Tracker is the catalog collaborator notified when images enter or leave
// the grid. catalog.Catalog satisfies it.
type Tracker interface {
	MarkUsed(path string)
	MarkAvailable(path string)
}

// Placement is one image occupying a maximal set of contiguous cells.
// Landscape images span one cell; portrait images span PortraitSpan
// vertically stacked cells in the same column. The anchor is the topmost
// cell.
type Placement struct {
	ID      int
	Row     int
	Col     int
	RowSpan int
	Image   *catalog.ImageInfo
}

// Cells returns the cells the placement occupies, anchor first.
func (p *Placement) Cells() [][2]int {
	cells := make([][2]int, p.RowSpan)
	for i := 0; i < p.RowSpan; i++ {
		cells[i] = [2]int{p.Row + i, p.Col}
	}
	return cells
}

// CellState describes what QueryCell found at a coordinate.
type CellState int

const (
	CellEmpty CellState = iota
	CellAnchor
	CellSpanned
)

func (s CellState) String() string {
	switch s {
	case CellEmpty:
		return "empty"
	case CellAnchor:
		return "anchor"
	case CellSpanned:
		return "spanned"
	default:
		return "unknown"
	}
}

// CellInfo is the non-mutating view of one cell.
type CellInfo struct {
	State     CellState
	Image     *catalog.ImageInfo
	AnchorRow int
	AnchorCol int
}

// Model owns the occupancy table. Cells map to placement ids; placement
// records carry the anchor, span, and image, so anchor lookup from any
// occupied cell is O(1).
type Model struct {
	rows, cols int
	cells      [][]int // placement id per cell, 0 = empty
	placements map[int]*Placement
	nextID     int
	tracker    Tracker
}

// New creates an empty grid of the given dimensions. The tracker may be
// nil when no catalog mirroring is wanted (tests, reconstruction).
func New(rows, cols int, tracker Tracker) (*Model, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("grid dimensions must be at least 1x1, got %dx%d", rows, cols)
	}
	return &Model{
		rows:       rows,
		cols:       cols,
		cells:      newCellTable(rows, cols),
		placements: make(map[int]*Placement),
		nextID:     1,
		tracker:    tracker,
	}, nil
}

func newCellTable(rows, cols int) [][]int {
	cells := make([][]int, rows)
	for r := range cells {
		cells[r] = make([]int, cols)
	}
	return cells
}

// Rows returns the grid row count.
func (m *Model) Rows() int { return m.rows }

// Cols returns the grid column count.
func (m *Model) Cols() int { return m.cols }

// InBounds reports whether (row, col) addresses a cell of the grid.
func (m *Model) InBounds(row, col int) bool {
	return row >= 0 && row < m.rows && col >= 0 && col < m.cols
}

// span returns the number of stacked cells an image of the given
// orientation occupies.
func span(o catalog.Orientation) int {
	if o == catalog.Portrait {
		return geometry.PortraitSpan
	}
	return 1
}

// CanPlace reports whether the image would fit at (row, col) without
// mutating anything.
func (m *Model) CanPlace(img *catalog.ImageInfo, row, col int) error {
	n := span(img.Orientation)
	for i := 0; i < n; i++ {
		if !m.InBounds(row+i, col) {
			return fmt.Errorf("%w: cell (%d, %d) in %dx%d grid", ErrOutOfBounds, row+i, col, m.rows, m.cols)
		}
	}
	for i := 0; i < n; i++ {
		if m.cells[row+i][col] != 0 {
			return fmt.Errorf("%w: cell (%d, %d)", ErrCellOccupied, row+i, col)
		}
	}
	return nil
}

// PlaceImage places the image with its anchor at (row, col). A landscape
// image writes one cell; a portrait image writes PortraitSpan vertically
// contiguous cells. All target cells are validated before any write, so a
// failure leaves the grid unchanged. On success the image is marked used
// in the tracker.
func (m *Model) PlaceImage(img *catalog.ImageInfo, row, col int) error {
	if err := m.CanPlace(img, row, col); err != nil {
		return err
	}

	p := &Placement{
		ID:      m.nextID,
		Row:     row,
		Col:     col,
		RowSpan: span(img.Orientation),
		Image:   img,
	}
	m.nextID++
	m.placements[p.ID] = p
	for i := 0; i < p.RowSpan; i++ {
		m.cells[row+i][col] = p.ID
	}

	if m.tracker != nil {
		m.tracker.MarkUsed(img.Path)
	}
	return nil
}

// RemoveImage removes the placement owning the cell at (row, col),
// clearing every cell it occupies, and marks its image available again.
// Returns the removed image.
func (m *Model) RemoveImage(row, col int) (*catalog.ImageInfo, error) {
	if !m.InBounds(row, col) {
		return nil, fmt.Errorf("%w: cell (%d, %d) in %dx%d grid", ErrOutOfBounds, row, col, m.rows, m.cols)
	}
	p := m.placementAt(row, col)
	if p == nil {
		return nil, fmt.Errorf("%w: cell (%d, %d)", ErrEmptyCell, row, col)
	}

	m.deletePlacement(p)
	if m.tracker != nil {
		m.tracker.MarkAvailable(p.Image.Path)
	}
	return p.Image, nil
}

func (m *Model) deletePlacement(p *Placement) {
	for i := 0; i < p.RowSpan; i++ {
		m.cells[p.Row+i][p.Col] = 0
	}
	delete(m.placements, p.ID)
}

// placementAt returns the placement occupying (row, col), or nil. Bounds
// must already be checked.
func (m *Model) placementAt(row, col int) *Placement {
	id := m.cells[row][col]
	if id == 0 {
		return nil
	}
	return m.placements[id]
}

// PlacementAt returns the placement occupying (row, col), or nil for an
// empty or out-of-bounds cell.
func (m *Model) PlacementAt(row, col int) *Placement {
	if !m.InBounds(row, col) {
		return nil
	}
	return m.placementAt(row, col)
}

// QueryCell returns the state of one cell without mutation.
func (m *Model) QueryCell(row, col int) (CellInfo, error) {
	if !m.InBounds(row, col) {
		return CellInfo{}, fmt.Errorf("%w: cell (%d, %d) in %dx%d grid", ErrOutOfBounds, row, col, m.rows, m.cols)
	}
	p := m.placementAt(row, col)
	if p == nil {
		return CellInfo{State: CellEmpty}, nil
	}
	info := CellInfo{
		State:     CellSpanned,
		Image:     p.Image,
		AnchorRow: p.Row,
		AnchorCol: p.Col,
	}
	if p.Row == row && p.Col == col {
		info.State = CellAnchor
	}
	return info, nil
}

// Placements returns every placement sorted by anchor position
// (row-major) for deterministic iteration.
func (m *Model) Placements() []*Placement {
	out := make([]*Placement, 0, len(m.placements))
	for _, p := range m.placements {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

// Resize changes the grid dimensions. Placements that no longer fit are
// evicted and their images returned to the tracker as available; growth
// only adds empty cells. The operation is atomic: invalid dimensions are
// rejected outright and nothing changes.
func (m *Model) Resize(rows, cols int) ([]*catalog.ImageInfo, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("grid dimensions must be at least 1x1, got %dx%d", rows, cols)
	}

	var evicted []*Placement
	for _, p := range m.Placements() {
		if p.Row+p.RowSpan > rows || p.Col >= cols {
			evicted = append(evicted, p)
		}
	}

	cells := newCellTable(rows, cols)
	for _, p := range m.Placements() {
		if containsPlacement(evicted, p) {
			continue
		}
		for i := 0; i < p.RowSpan; i++ {
			cells[p.Row+i][p.Col] = p.ID
		}
	}

	m.rows = rows
	m.cols = cols
	m.cells = cells

	images := make([]*catalog.ImageInfo, 0, len(evicted))
	for _, p := range evicted {
		delete(m.placements, p.ID)
		images = append(images, p.Image)
		if m.tracker != nil {
			m.tracker.MarkAvailable(p.Image.Path)
		}
	}
	return images, nil
}

// Clear removes every placement, returning all images to the tracker.
func (m *Model) Clear() []*catalog.ImageInfo {
	placements := m.Placements()
	images := make([]*catalog.ImageInfo, 0, len(placements))
	for _, p := range placements {
		m.deletePlacement(p)
		images = append(images, p.Image)
		if m.tracker != nil {
			m.tracker.MarkAvailable(p.Image.Path)
		}
	}
	return images
}

func containsPlacement(list []*Placement, p *Placement) bool {
	for _, x := range list {
		if x == p {
			return true
		}
	}
	return false
}
