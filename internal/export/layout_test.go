package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"puzzle-maker/internal/catalog"
	"puzzle-maker/internal/puzzle"
	"puzzle-maker/pkg/geometry"
)

func buildModel(t *testing.T) (*puzzle.Model, *catalog.Catalog) {
	t.Helper()
	cat := catalog.New()
	cat.Add("a.jpg", 1600, 900)
	cat.Add("b.jpg", 900, 1600)
	cat.Add("c.jpg", 1600, 900)
	m, err := puzzle.New(13, 10, cat)
	require.NoError(t, err)
	return m, cat
}

func TestValidAreaCropsEmptyBorder(t *testing.T) {
	m, cat := buildModel(t)
	require.NoError(t, m.PlaceImage(cat.Lookup("a.jpg"), 1, 1))
	require.NoError(t, m.PlaceImage(cat.Lookup("b.jpg"), 1, 2))
	require.NoError(t, m.PlaceImage(cat.Lookup("c.jpg"), 3, 3))

	area, err := ValidArea(m)
	require.NoError(t, err)
	// The portrait at (1, 2) reaches row 3, so the area is 3x3 anchored
	// at (1, 1).
	assert.Equal(t, puzzle.Region{Row: 1, Col: 1, RowSpan: 3, ColSpan: 3}, area)
}

func TestValidAreaEmptyGrid(t *testing.T) {
	m, _ := buildModel(t)
	_, err := ValidArea(m)
	assert.ErrorIs(t, err, ErrEmptyGrid)
}

func TestComputeExportTier(t *testing.T) {
	m, cat := buildModel(t)
	require.NoError(t, m.PlaceImage(cat.Lookup("a.jpg"), 1, 1))
	require.NoError(t, m.PlaceImage(cat.Lookup("b.jpg"), 1, 2))
	require.NoError(t, m.PlaceImage(cat.Lookup("c.jpg"), 3, 3))

	l, err := Compute(m, geometry.ExportTier, geometry.AutoSpacing())
	require.NoError(t, err)

	assert.Equal(t, 87, l.Gap)
	assert.Equal(t, 3*1920+2*87, l.Width)
	assert.Equal(t, 3*1080+2*87, l.Height)
	require.Len(t, l.Tiles, 3)

	// Placements come back row major, so the order is a, b, c.
	a, b, c := l.Tiles[0], l.Tiles[1], l.Tiles[2]
	assert.Equal(t, geometry.RectInt{X: 0, Y: 0, Width: 1920, Height: 1080}, a.Rect)
	assert.Equal(t, geometry.RectInt{X: 2007, Y: 0, Width: 1920, Height: 3*1080 + 2*87}, b.Rect)
	assert.Equal(t, geometry.RectInt{X: 2 * 2007, Y: 2 * 1167, Width: 1920, Height: 1080}, c.Rect)
}

func TestComputeTilesDisjoint(t *testing.T) {
	m, cat := buildModel(t)
	require.NoError(t, m.PlaceImage(cat.Lookup("a.jpg"), 1, 1))
	require.NoError(t, m.PlaceImage(cat.Lookup("b.jpg"), 1, 2))
	require.NoError(t, m.PlaceImage(cat.Lookup("c.jpg"), 3, 3))

	l, err := Compute(m, geometry.ExportTier, geometry.AutoSpacing())
	require.NoError(t, err)

	for i := range l.Tiles {
		for j := i + 1; j < len(l.Tiles); j++ {
			assert.False(t, l.Tiles[i].Rect.Intersects(l.Tiles[j].Rect),
				"tiles %d and %d overlap", i, j)
		}
	}
}

func TestComputeManualSpacing(t *testing.T) {
	m, cat := buildModel(t)
	require.NoError(t, m.PlaceImage(cat.Lookup("a.jpg"), 0, 0))
	require.NoError(t, m.PlaceImage(cat.Lookup("c.jpg"), 0, 1))

	l, err := Compute(m, geometry.PreviewTier, geometry.ManualSpacing(10))
	require.NoError(t, err)
	assert.Equal(t, 10, l.Gap)
	assert.Equal(t, 2*640+10, l.Width)
	assert.Equal(t, 310, l.Height)
	assert.Equal(t, 650, l.Tiles[1].Rect.X)
}

func TestComputeZeroManualGapTilesAbut(t *testing.T) {
	m, cat := buildModel(t)
	require.NoError(t, m.PlaceImage(cat.Lookup("a.jpg"), 0, 0))
	require.NoError(t, m.PlaceImage(cat.Lookup("b.jpg"), 0, 1))

	l, err := Compute(m, geometry.ExportTier, geometry.ManualSpacing(0))
	require.NoError(t, err)
	assert.Equal(t, 2*1920, l.Width)
	assert.Equal(t, 3*1080, l.Height)
	assert.Equal(t, 3*1080, l.Tiles[1].Rect.Height)
}
