// Package export turns a placed grid into pixel layouts and rendered
// composite images.
package export

import (
	"errors"

	"puzzle-maker/internal/catalog"
	"puzzle-maker/internal/puzzle"
	"puzzle-maker/pkg/geometry"
)

// ErrEmptyGrid is returned when a layout is requested for a grid with no
// placements.
var ErrEmptyGrid = errors.New("grid has no placed images")

// Tile is one image positioned in output pixel space.
type Tile struct {
	Rect  geometry.RectInt
	Image *catalog.ImageInfo
	Row   int // grid anchor, kept for overlay labels
	Col   int
}

// Layout is the pixel-space arrangement of all placed images at a given
// tier. Coordinates are relative to the valid area, not the full grid,
// so surrounding empty rows and columns are cropped away.
type Layout struct {
	Width  int
	Height int
	Gap    int
	Tier   geometry.Tier
	Tiles  []Tile
}

// ValidArea returns the tightest cell region containing every placement,
// spanned portrait cells included.
func ValidArea(m *puzzle.Model) (puzzle.Region, error) {
	placements := m.Placements()
	if len(placements) == 0 {
		return puzzle.Region{}, ErrEmptyGrid
	}
	minRow, minCol := m.Rows(), m.Cols()
	maxRow, maxCol := 0, 0
	for _, p := range placements {
		if p.Row < minRow {
			minRow = p.Row
		}
		if p.Col < minCol {
			minCol = p.Col
		}
		if bottom := p.Row + p.RowSpan - 1; bottom > maxRow {
			maxRow = bottom
		}
		if p.Col > maxCol {
			maxCol = p.Col
		}
	}
	return puzzle.Region{
		Row:     minRow,
		Col:     minCol,
		RowSpan: maxRow - minRow + 1,
		ColSpan: maxCol - minCol + 1,
	}, nil
}

// Compute lays out every placement at the given tier. Tiles are
// positioned on the cell pitch (cell plus gap) relative to the valid
// area's top-left corner; portrait tiles absorb the gaps they span.
func Compute(m *puzzle.Model, tier geometry.Tier, spacing geometry.Spacing) (*Layout, error) {
	area, err := ValidArea(m)
	if err != nil {
		return nil, err
	}
	gap := spacing.Gap(tier.CellHeight)

	l := &Layout{
		Width:  area.ColSpan*tier.CellWidth + (area.ColSpan-1)*gap,
		Height: area.RowSpan*tier.CellHeight + (area.RowSpan-1)*gap,
		Gap:    gap,
		Tier:   tier,
	}
	for _, p := range m.Placements() {
		relRow := p.Row - area.Row
		relCol := p.Col - area.Col
		h := tier.CellHeight
		if p.RowSpan == geometry.PortraitSpan {
			h = tier.PortraitCellHeight(gap)
		}
		l.Tiles = append(l.Tiles, Tile{
			Rect: geometry.RectInt{
				X:      relCol * (tier.CellWidth + gap),
				Y:      relRow * (tier.CellHeight + gap),
				Width:  tier.CellWidth,
				Height: h,
			},
			Image: p.Image,
			Row:   p.Row,
			Col:   p.Col,
		})
	}
	return l, nil
}
