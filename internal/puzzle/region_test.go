package puzzle

import (
	"errors"
	"testing"
)

func TestSelectionConstructors(t *testing.T) {
	m, _ := newTestModel(t, 13, 10)

	if got := m.SelectAll(); got != (Region{RowSpan: 13, ColSpan: 10}) {
		t.Errorf("SelectAll = %s", got)
	}
	if got := m.SelectRow(4); got != (Region{Row: 4, RowSpan: 1, ColSpan: 10}) {
		t.Errorf("SelectRow(4) = %s", got)
	}
	if got := m.SelectColumn(7); got != (Region{Col: 7, RowSpan: 13, ColSpan: 1}) {
		t.Errorf("SelectColumn(7) = %s", got)
	}
	// Constructors clip, never fail.
	if got := m.SelectRow(99); !got.Empty() {
		t.Errorf("SelectRow(99) = %s, want empty", got)
	}
}

func TestClip(t *testing.T) {
	m, _ := newTestModel(t, 13, 10)
	got := m.Clip(Region{Row: -2, Col: 8, RowSpan: 5, ColSpan: 5})
	want := Region{Row: 0, Col: 8, RowSpan: 3, ColSpan: 2}
	if got != want {
		t.Errorf("Clip = %s, want %s", got, want)
	}
}

func TestExpandToIntegrity(t *testing.T) {
	m, cat := newTestModel(t, 13, 10)
	if err := m.PlaceImage(portrait(cat, "p.jpg"), 0, 0); err != nil {
		t.Fatal(err)
	}

	// Rows 0-1 of column 0 cut the portrait placement; expansion pulls in
	// row 2.
	got, err := m.ExpandToIntegrity(Region{Row: 0, Col: 0, RowSpan: 2, ColSpan: 1})
	if err != nil {
		t.Fatalf("ExpandToIntegrity: %v", err)
	}
	want := Region{Row: 0, Col: 0, RowSpan: 3, ColSpan: 1}
	if got != want {
		t.Errorf("expanded to %s, want %s", got, want)
	}
}

func TestExpandToIntegrityUpward(t *testing.T) {
	m, cat := newTestModel(t, 13, 10)
	if err := m.PlaceImage(portrait(cat, "p.jpg"), 3, 2); err != nil { // rows 3..5
		t.Fatal(err)
	}

	got, err := m.ExpandToIntegrity(Region{Row: 5, Col: 2, RowSpan: 1, ColSpan: 1})
	if err != nil {
		t.Fatal(err)
	}
	want := Region{Row: 3, Col: 2, RowSpan: 3, ColSpan: 1}
	if got != want {
		t.Errorf("expanded to %s, want %s", got, want)
	}
}

func TestExpandToIntegrityIdempotent(t *testing.T) {
	m, cat := newTestModel(t, 13, 10)
	if err := m.PlaceImage(portrait(cat, "p.jpg"), 1, 1); err != nil {
		t.Fatal(err)
	}
	once, err := m.ExpandToIntegrity(Region{Row: 2, Col: 0, RowSpan: 1, ColSpan: 4})
	if err != nil {
		t.Fatal(err)
	}
	twice, err := m.ExpandToIntegrity(once)
	if err != nil {
		t.Fatal(err)
	}
	if once != twice {
		t.Errorf("not idempotent: %s then %s", once, twice)
	}
}

func TestExpandToIntegrityNoPortrait(t *testing.T) {
	m, cat := newTestModel(t, 13, 10)
	if err := m.PlaceImage(landscape(cat, "l.jpg"), 2, 2); err != nil {
		t.Fatal(err)
	}
	r := Region{Row: 2, Col: 2, RowSpan: 1, ColSpan: 1}
	got, err := m.ExpandToIntegrity(r)
	if err != nil {
		t.Fatal(err)
	}
	if got != r {
		t.Errorf("single landscape cell expanded to %s", got)
	}
}

func TestExpandToIntegrityTruncation(t *testing.T) {
	m, _ := newTestModel(t, 13, 10)
	got, err := m.ExpandToIntegrity(Region{Row: 10, Col: 0, RowSpan: 6, ColSpan: 1})
	if !errors.Is(err, ErrTruncatedExpansion) {
		t.Fatalf("err = %v, want ErrTruncatedExpansion", err)
	}
	want := Region{Row: 10, Col: 0, RowSpan: 3, ColSpan: 1}
	if got != want {
		t.Errorf("clipped region = %s, want %s", got, want)
	}
}

func TestMoveRegionRoundTrip(t *testing.T) {
	m, cat := newTestModel(t, 13, 10)
	p := portrait(cat, "p.jpg")
	l := landscape(cat, "l.jpg")
	if err := m.PlaceImage(p, 0, 0); err != nil {
		t.Fatal(err)
	}
	if err := m.PlaceImage(l, 1, 1); err != nil {
		t.Fatal(err)
	}

	before := snapshotCells(t, m)
	r := Region{Row: 0, Col: 0, RowSpan: 3, ColSpan: 2}

	moved, err := m.MoveRegion(r, DirSouthEast)
	if err != nil {
		t.Fatalf("MoveRegion southeast: %v", err)
	}
	info, _ := m.QueryCell(1, 1)
	if info.Image != p || info.State != CellAnchor {
		t.Error("portrait anchor did not move to (1,1)")
	}

	back, err := m.MoveRegion(moved, DirNorthWest)
	if err != nil {
		t.Fatalf("MoveRegion northwest: %v", err)
	}
	if back != r {
		t.Errorf("return region %s, want %s", back, r)
	}
	if snapshotCells(t, m) != before {
		t.Error("move + inverse move did not restore occupancy")
	}
}

func TestMoveRegionNoOp(t *testing.T) {
	m, cat := newTestModel(t, 13, 10)
	if err := m.PlaceImage(landscape(cat, "l.jpg"), 0, 0); err != nil {
		t.Fatal(err)
	}
	r := Region{Row: 0, Col: 0, RowSpan: 1, ColSpan: 1}
	got, err := m.MoveRegion(r, DirNone)
	if err != nil || got != r {
		t.Errorf("no-op move: %s, %v", got, err)
	}
}

func TestMoveRegionOutOfBounds(t *testing.T) {
	m, cat := newTestModel(t, 13, 10)
	if err := m.PlaceImage(landscape(cat, "l.jpg"), 0, 0); err != nil {
		t.Fatal(err)
	}
	before := snapshotCells(t, m)

	_, err := m.MoveRegion(Region{Row: 0, Col: 0, RowSpan: 1, ColSpan: 1}, DirNorth)
	if !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("move north from row 0: %v, want ErrOutOfBounds", err)
	}
	if snapshotCells(t, m) != before {
		t.Error("failed move changed the grid")
	}
}

func TestMoveRegionCollision(t *testing.T) {
	m, cat := newTestModel(t, 13, 10)
	if err := m.PlaceImage(landscape(cat, "a.jpg"), 0, 0); err != nil {
		t.Fatal(err)
	}
	if err := m.PlaceImage(landscape(cat, "b.jpg"), 0, 1); err != nil {
		t.Fatal(err)
	}
	before := snapshotCells(t, m)

	// Moving only a.jpg east collides with b.jpg.
	_, err := m.MoveRegion(Region{Row: 0, Col: 0, RowSpan: 1, ColSpan: 1}, DirEast)
	if !errors.Is(err, ErrDestinationOccupied) {
		t.Fatalf("colliding move: %v, want ErrDestinationOccupied", err)
	}
	if snapshotCells(t, m) != before {
		t.Error("failed move changed the grid")
	}

	// Moving both together is fine: b.jpg's old cell is part of the move.
	if _, err := m.MoveRegion(Region{Row: 0, Col: 0, RowSpan: 1, ColSpan: 2}, DirEast); err != nil {
		t.Fatalf("group move: %v", err)
	}
	info, _ := m.QueryCell(0, 1)
	if info.Image == nil || info.Image.Path != "a.jpg" {
		t.Error("a.jpg should now occupy (0,1)")
	}
}

func TestMoveRegionAtomicOnPartialFailure(t *testing.T) {
	m, cat := newTestModel(t, 13, 10)
	// Two placements in the region; the second one's destination is
	// blocked, so neither may move.
	if err := m.PlaceImage(landscape(cat, "a.jpg"), 0, 0); err != nil {
		t.Fatal(err)
	}
	if err := m.PlaceImage(landscape(cat, "b.jpg"), 2, 0); err != nil {
		t.Fatal(err)
	}
	if err := m.PlaceImage(landscape(cat, "block.jpg"), 3, 0); err != nil {
		t.Fatal(err)
	}
	before := snapshotCells(t, m)

	_, err := m.MoveRegion(Region{Row: 0, Col: 0, RowSpan: 3, ColSpan: 1}, DirSouth)
	if !errors.Is(err, ErrDestinationOccupied) {
		t.Fatalf("blocked group move: %v, want ErrDestinationOccupied", err)
	}
	if snapshotCells(t, m) != before {
		t.Error("partially-blocked move mutated the grid")
	}
}

func TestMoveRegionCarriesOverhangingPortrait(t *testing.T) {
	m, cat := newTestModel(t, 13, 10)
	// Anchor inside the region, cells extending below it: the whole
	// placement moves.
	if err := m.PlaceImage(portrait(cat, "p.jpg"), 0, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := m.MoveRegion(Region{Row: 0, Col: 0, RowSpan: 1, ColSpan: 1}, DirEast); err != nil {
		t.Fatalf("MoveRegion: %v", err)
	}
	for row := 0; row < 3; row++ {
		info, _ := m.QueryCell(row, 1)
		if info.State == CellEmpty {
			t.Errorf("cell (%d,1) should hold the moved portrait", row)
		}
		old, _ := m.QueryCell(row, 0)
		if old.State != CellEmpty {
			t.Errorf("cell (%d,0) should be vacated", row)
		}
	}
}

func TestClearRegionRemovesAnchoredOnly(t *testing.T) {
	m, cat := newTestModel(t, 13, 10)
	inside := landscape(cat, "inside.jpg")
	straddler := portrait(cat, "straddler.jpg")
	if err := m.PlaceImage(inside, 0, 1); err != nil {
		t.Fatal(err)
	}
	if err := m.PlaceImage(straddler, 1, 0); err != nil { // rows 1..3, anchor outside region
		t.Fatal(err)
	}

	images := m.ClearRegion(Region{Row: 0, Col: 0, RowSpan: 1, ColSpan: 10})
	if len(images) != 1 || images[0] != inside {
		t.Fatalf("cleared %d images, want only inside.jpg", len(images))
	}
	info, _ := m.QueryCell(2, 0)
	if info.Image != straddler {
		t.Error("partially overlapping placement must survive ClearRegion")
	}
}

func TestClearRegionAfterExpansion(t *testing.T) {
	m, cat := newTestModel(t, 13, 10)
	if err := m.PlaceImage(portrait(cat, "p.jpg"), 1, 0); err != nil {
		t.Fatal(err)
	}
	region, err := m.ExpandToIntegrity(Region{Row: 2, Col: 0, RowSpan: 1, ColSpan: 1})
	if err != nil {
		t.Fatal(err)
	}
	images := m.ClearRegion(region)
	if len(images) != 1 {
		t.Fatalf("cleared %d images after expansion, want 1", len(images))
	}
	if len(cat.Used()) != 0 {
		t.Error("cleared image should be available again")
	}
}

func TestStatsFor(t *testing.T) {
	m, cat := newTestModel(t, 13, 10)
	if err := m.PlaceImage(portrait(cat, "p.jpg"), 0, 0); err != nil {
		t.Fatal(err)
	}
	if err := m.PlaceImage(landscape(cat, "l.jpg"), 0, 1); err != nil {
		t.Fatal(err)
	}

	stats := m.StatsFor(Region{Row: 0, Col: 0, RowSpan: 2, ColSpan: 2})
	if stats.Cells != 4 {
		t.Errorf("Cells = %d, want 4", stats.Cells)
	}
	if stats.Occupied != 3 { // two portrait cells + one landscape cell
		t.Errorf("Occupied = %d, want 3", stats.Occupied)
	}
	if len(stats.Portrait) != 1 || len(stats.Landscape) != 1 {
		t.Errorf("portrait=%d landscape=%d, want 1 and 1", len(stats.Portrait), len(stats.Landscape))
	}
}

func TestDirectionDeltas(t *testing.T) {
	all := []Direction{DirNone, DirNorth, DirNorthEast, DirEast, DirSouthEast, DirSouth, DirSouthWest, DirWest, DirNorthWest}
	if len(all) != 9 {
		t.Fatal("expected nine-direction control")
	}
	for _, d := range all {
		dr, dc := d.Delta()
		if dr < -1 || dr > 1 || dc < -1 || dc > 1 {
			t.Errorf("%s delta (%d,%d) exceeds one grid-step", d, dr, dc)
		}
		if d != DirNone && dr == 0 && dc == 0 {
			t.Errorf("%s should move", d)
		}
	}
}

// snapshotCells encodes the occupancy table by image path for comparison.
func snapshotCells(t *testing.T, m *Model) string {
	t.Helper()
	out := ""
	for row := 0; row < m.Rows(); row++ {
		for col := 0; col < m.Cols(); col++ {
			info, err := m.QueryCell(row, col)
			if err != nil {
				t.Fatal(err)
			}
			if info.State == CellEmpty {
				out += "."
			} else {
				out += info.Image.Path + ";"
			}
		}
		out += "\n"
	}
	return out
}
