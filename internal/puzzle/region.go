package puzzle

import (
	"fmt"

	"puzzle-maker/internal/catalog"
)

// Region is a transient rectangular selection of cells. Regions are
// normalized by clipping to grid bounds; they are never persisted.
type Region struct {
	Row     int
	Col     int
	RowSpan int
	ColSpan int
}

// Empty reports whether the region covers no cells.
func (r Region) Empty() bool {
	return r.RowSpan <= 0 || r.ColSpan <= 0
}

// Contains reports whether the cell lies inside the region.
func (r Region) Contains(row, col int) bool {
	return row >= r.Row && row < r.Row+r.RowSpan &&
		col >= r.Col && col < r.Col+r.ColSpan
}

func (r Region) String() string {
	return fmt.Sprintf("(%d,%d)+%dx%d", r.Row, r.Col, r.RowSpan, r.ColSpan)
}

// clip returns the portion of the region inside an rows x cols grid.
func (r Region) clip(rows, cols int) Region {
	top := maxOf(r.Row, 0)
	left := maxOf(r.Col, 0)
	bottom := minOf(r.Row+r.RowSpan, rows)
	right := minOf(r.Col+r.ColSpan, cols)
	if bottom <= top || right <= left {
		return Region{Row: top, Col: left}
	}
	return Region{Row: top, Col: left, RowSpan: bottom - top, ColSpan: right - left}
}

// Clip normalizes the region against the model's bounds.
func (m *Model) Clip(r Region) Region {
	return r.clip(m.rows, m.cols)
}

// SelectAll returns a region covering the whole grid.
func (m *Model) SelectAll() Region {
	return Region{RowSpan: m.rows, ColSpan: m.cols}
}

// SelectRow returns a region covering one full row, clipped to bounds.
func (m *Model) SelectRow(row int) Region {
	return Region{Row: row, ColSpan: m.cols, RowSpan: 1}.clip(m.rows, m.cols)
}

// SelectColumn returns a region covering one full column, clipped to
// bounds.
func (m *Model) SelectColumn(col int) Region {
	return Region{Col: col, RowSpan: m.rows, ColSpan: 1}.clip(m.rows, m.cols)
}

// Direction is one of the eight compass directions plus DirNone, each a
// single grid-step. Repeated invocation moves further.
type Direction int

const (
	DirNone Direction = iota
	DirNorth
	DirNorthEast
	DirEast
	DirSouthEast
	DirSouth
	DirSouthWest
	DirWest
	DirNorthWest
)

var directionDeltas = map[Direction][2]int{
	DirNone:      {0, 0},
	DirNorth:     {-1, 0},
	DirNorthEast: {-1, 1},
	DirEast:      {0, 1},
	DirSouthEast: {1, 1},
	DirSouth:     {1, 0},
	DirSouthWest: {1, -1},
	DirWest:      {0, -1},
	DirNorthWest: {-1, -1},
}

// Delta returns the (row, col) step for the direction.
func (d Direction) Delta() (dRow, dCol int) {
	delta := directionDeltas[d]
	return delta[0], delta[1]
}

func (d Direction) String() string {
	switch d {
	case DirNone:
		return "none"
	case DirNorth:
		return "north"
	case DirNorthEast:
		return "northeast"
	case DirEast:
		return "east"
	case DirSouthEast:
		return "southeast"
	case DirSouth:
		return "south"
	case DirSouthWest:
		return "southwest"
	case DirWest:
		return "west"
	case DirNorthWest:
		return "northwest"
	default:
		return "unknown"
	}
}

// placementsAnchoredIn returns the placements whose anchor lies inside
// the region, in deterministic order.
func (m *Model) placementsAnchoredIn(r Region) []*Placement {
	var out []*Placement
	for _, p := range m.Placements() {
		if r.Contains(p.Row, p.Col) {
			out = append(out, p)
		}
	}
	return out
}

// placementsTouching returns every placement occupying at least one cell
// of the region.
func (m *Model) placementsTouching(r Region) []*Placement {
	seen := make(map[int]bool)
	var out []*Placement
	for row := r.Row; row < r.Row+r.RowSpan; row++ {
		for col := r.Col; col < r.Col+r.ColSpan; col++ {
			p := m.placementAt(row, col)
			if p == nil || seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			out = append(out, p)
		}
	}
	return out
}

// ExpandToIntegrity grows the region's row span until no boundary cell
// cuts a multi-cell placement in half, so every touched placement is
// fully inside. The loop repeats until stable rather than assuming
// vertical-only spans. If the required expansion would exceed grid
// bounds, the result is clipped and ErrTruncatedExpansion is returned
// alongside the clipped region.
func (m *Model) ExpandToIntegrity(r Region) (Region, error) {
	truncated := !r.Empty() && m.Clip(r) != r
	cur := m.Clip(r)
	if cur.Empty() {
		return cur, nil
	}

	for {
		top, left := cur.Row, cur.Col
		bottom := cur.Row + cur.RowSpan
		right := cur.Col + cur.ColSpan

		for _, p := range m.placementsTouching(cur) {
			top = minOf(top, p.Row)
			left = minOf(left, p.Col)
			bottom = maxOf(bottom, p.Row+p.RowSpan)
			right = maxOf(right, p.Col+1)
		}

		next := Region{Row: top, Col: left, RowSpan: bottom - top, ColSpan: right - left}
		clipped := next.clip(m.rows, m.cols)
		if clipped != next {
			truncated = true
		}
		if clipped == cur {
			break
		}
		cur = clipped
	}

	if truncated {
		return cur, ErrTruncatedExpansion
	}
	return cur, nil
}

// MoveRegion shifts every placement anchored inside the region by one
// grid-step in the given direction. The full effect set is collected and
// validated before anything mutates: either all contained placements move
// or none do. Destination cells already occupied by a moved placement
// count as free.
func (m *Model) MoveRegion(r Region, dir Direction) (Region, error) {
	cur := m.Clip(r)
	if cur.Empty() {
		return cur, fmt.Errorf("%w: empty region %s", ErrOutOfBounds, r)
	}

	dRow, dCol := dir.Delta()
	if dRow == 0 && dCol == 0 {
		return cur, nil
	}

	dest := Region{Row: cur.Row + dRow, Col: cur.Col + dCol, RowSpan: cur.RowSpan, ColSpan: cur.ColSpan}
	if dest.clip(m.rows, m.cols) != dest {
		return cur, fmt.Errorf("%w: destination %s", ErrOutOfBounds, dest)
	}

	moving := m.placementsAnchoredIn(cur)
	movingIDs := make(map[int]bool, len(moving))
	for _, p := range moving {
		movingIDs[p.ID] = true
	}

	// Validate every destination cell before touching the table.
	for _, p := range moving {
		for _, c := range p.Cells() {
			row, col := c[0]+dRow, c[1]+dCol
			if !m.InBounds(row, col) {
				return cur, fmt.Errorf("%w: cell (%d, %d)", ErrOutOfBounds, row, col)
			}
			if id := m.cells[row][col]; id != 0 && !movingIDs[id] {
				return cur, fmt.Errorf("%w: cell (%d, %d)", ErrDestinationOccupied, row, col)
			}
		}
	}

	// Apply as one transaction: clear all old cells, then write all new.
	for _, p := range moving {
		for _, c := range p.Cells() {
			m.cells[c[0]][c[1]] = 0
		}
	}
	for _, p := range moving {
		p.Row += dRow
		p.Col += dCol
		for _, c := range p.Cells() {
			m.cells[c[0]][c[1]] = p.ID
		}
	}

	return dest, nil
}

// ClearRegion removes every placement whose anchor lies inside the
// region and returns the freed images. Placements only partially
// overlapping are left untouched: callers wanting whole-placement
// semantics must ExpandToIntegrity first.
func (m *Model) ClearRegion(r Region) []*catalog.ImageInfo {
	cur := m.Clip(r)
	placements := m.placementsAnchoredIn(cur)
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

// RegionStats summarizes a region for status display.
type RegionStats struct {
	Cells     int
	Occupied  int
	Landscape []*Placement
	Portrait  []*Placement
}

// StatsFor counts occupied cells and collects the placements touching the
// region, split by orientation.
func (m *Model) StatsFor(r Region) RegionStats {
	cur := m.Clip(r)
	stats := RegionStats{Cells: cur.RowSpan * cur.ColSpan}
	for row := cur.Row; row < cur.Row+cur.RowSpan; row++ {
		for col := cur.Col; col < cur.Col+cur.ColSpan; col++ {
			if m.cells[row][col] != 0 {
				stats.Occupied++
			}
		}
	}
	for _, p := range m.placementsTouching(cur) {
		if p.Image.Orientation == catalog.Portrait {
			stats.Portrait = append(stats.Portrait, p)
		} else {
			stats.Landscape = append(stats.Landscape, p)
		}
	}
	return stats
}

func minOf(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxOf(a, b int) int {
	if a > b {
		return a
	}
	return b
}
