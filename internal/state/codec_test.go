package state

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"puzzle-maker/internal/catalog"
	"puzzle-maker/internal/puzzle"
	"puzzle-maker/pkg/geometry"
)

// fakeProbe resolves dimensions from a fixed table; unknown paths fail
// like a missing file would.
func fakeProbe(dims map[string][2]int) ProbeFunc {
	return func(path string) (int, int, error) {
		d, ok := dims[path]
		if !ok {
			return 0, 0, fmt.Errorf("open %s: no such file", path)
		}
		return d[0], d[1], nil
	}
}

func buildLayout(t *testing.T) (*Document, map[string][2]int) {
	t.Helper()
	dims := map[string][2]int{
		"a.jpg": {1600, 900},
		"b.jpg": {900, 1600},
		"c.jpg": {800, 600},
	}
	cat := catalog.New()
	for path, d := range dims {
		cat.Add(path, d[0], d[1])
	}
	m, err := puzzle.New(13, 10, cat)
	require.NoError(t, err)
	require.NoError(t, m.PlaceImage(cat.Lookup("a.jpg"), 0, 0))
	require.NoError(t, m.PlaceImage(cat.Lookup("b.jpg"), 2, 4))
	doc := Snapshot(m, cat, geometry.AutoSpacing())
	return doc, dims
}

func TestSnapshotRoundTrip(t *testing.T) {
	doc, dims := buildLayout(t)
	path := filepath.Join(t.TempDir(), "layout.json")
	require.NoError(t, doc.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 13, loaded.Rows)
	assert.Equal(t, 10, loaded.Cols)
	assert.Equal(t, geometry.SpacingAuto, loaded.Spacing.Mode)

	m, cat, report, err := Apply(loaded, fakeProbe(dims))
	require.NoError(t, err)
	assert.Empty(t, report.MissingImages)

	// The grid comes back cell for cell.
	p := m.PlacementAt(0, 0)
	require.NotNil(t, p)
	assert.Equal(t, "a.jpg", p.Image.Path)
	assert.Equal(t, 1, p.RowSpan)

	p = m.PlacementAt(4, 4) // spanned cell of the portrait anchored at (2, 4)
	require.NotNil(t, p)
	assert.Equal(t, "b.jpg", p.Image.Path)
	assert.Equal(t, 2, p.Row)
	assert.Equal(t, geometry.PortraitSpan, p.RowSpan)

	// The catalog partition survives.
	assert.Len(t, cat.Used(), 2)
	require.Len(t, cat.Available(), 1)
	assert.Equal(t, "c.jpg", cat.Available()[0].Path)
}

func TestRestoredOrientationIsAuthoritative(t *testing.T) {
	doc := &Document{
		Version: DocumentVersion,
		Rows:    13, Cols: 10,
		Placements: []PlacementRecord{
			{AnchorRow: 1, AnchorCol: 1, Orientation: "portrait", ImageIdentity: "b.jpg"},
		},
		UsedImages: []string{"b.jpg"},
		Spacing:    geometry.AutoSpacing(),
	}
	// The file on disk now reports landscape dimensions; the recorded
	// orientation still determines the span so the saved cells stay valid.
	m, _, report, err := Apply(doc, fakeProbe(map[string][2]int{"b.jpg": {1600, 900}}))
	require.NoError(t, err)
	assert.Empty(t, report.MissingImages)
	p := m.PlacementAt(1, 1)
	require.NotNil(t, p)
	assert.Equal(t, geometry.PortraitSpan, p.RowSpan)
	assert.Equal(t, catalog.Portrait, p.Image.Orientation)
}

func TestMissingImageSkippedAndReported(t *testing.T) {
	doc, dims := buildLayout(t)
	delete(dims, "b.jpg")

	m, cat, report, err := Apply(doc, fakeProbe(dims))
	require.NoError(t, err)
	assert.Equal(t, []string{"b.jpg"}, report.MissingImages)
	assert.Nil(t, m.PlacementAt(2, 4))
	assert.Nil(t, cat.Lookup("b.jpg"))
	assert.NotNil(t, m.PlacementAt(0, 0))
}

func TestValidateRejectsMalformed(t *testing.T) {
	base := func() *Document {
		doc, _ := buildLayout(t)
		return doc
	}

	cases := []struct {
		name   string
		mutate func(*Document)
	}{
		{"zero rows", func(d *Document) { d.Rows = 0 }},
		{"negative cols", func(d *Document) { d.Cols = -1 }},
		{"placement out of bounds", func(d *Document) {
			d.Placements[0].AnchorCol = d.Cols
		}},
		{"portrait exceeds bottom edge", func(d *Document) {
			d.Placements[1].AnchorRow = d.Rows - 1
		}},
		{"overlapping placements", func(d *Document) {
			d.Placements[0].AnchorRow = 3
			d.Placements[0].AnchorCol = 4
		}},
		{"unknown orientation", func(d *Document) {
			d.Placements[0].Orientation = "diagonal"
		}},
		{"image placed twice", func(d *Document) {
			d.Placements[1].ImageIdentity = d.Placements[0].ImageIdentity
		}},
		{"placed image absent from both partitions", func(d *Document) {
			d.UsedImages = []string{d.Placements[1].ImageIdentity}
		}},
		{"placed image listed as available", func(d *Document) {
			d.UsedImages = []string{d.Placements[1].ImageIdentity}
			d.AvailableImages = append(d.AvailableImages, d.Placements[0].ImageIdentity)
		}},
		{"image both available and used", func(d *Document) {
			d.AvailableImages = append(d.AvailableImages, d.UsedImages[0])
		}},
		{"negative manual spacing", func(d *Document) {
			d.Spacing = geometry.ManualSpacing(-4)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := base()
			tc.mutate(doc)
			err := doc.Validate()
			assert.ErrorIs(t, err, ErrMalformedDocument)
		})
	}
}

func TestApplyRejectsOrphanPlacement(t *testing.T) {
	doc, dims := buildLayout(t)
	// a.jpg stays placed at (0, 0) but vanishes from the used partition.
	doc.UsedImages = []string{"b.jpg"}

	_, _, _, err := Apply(doc, fakeProbe(dims))
	assert.ErrorIs(t, err, ErrMalformedDocument)
}

func TestLoadRejectsBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrMalformedDocument)
}

func TestManagerSaveAndList(t *testing.T) {
	dir := t.TempDir()
	mgr, err := NewManager(filepath.Join(dir, "data"))
	require.NoError(t, err)

	older, _ := buildLayout(t)
	older.SavedAt = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	newer, _ := buildLayout(t)
	newer.SavedAt = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	_, err = mgr.Save(older)
	require.NoError(t, err)
	newest, err := mgr.Save(newer)
	require.NoError(t, err)

	// Stray files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(mgr.Dir(), "notes.txt"), []byte("x"), 0o644))

	list, err := mgr.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, filepath.Base(newest), list[0].Filename)
	assert.Equal(t, 2, list[0].Placed)
	assert.Equal(t, 1, list[0].Available)

	latest, err := mgr.Latest()
	require.NoError(t, err)
	assert.Equal(t, list[0].Filename, latest.Filename)

	require.NoError(t, mgr.Delete(latest.Filename))
	list, err = mgr.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
}
