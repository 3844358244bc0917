package geometry

import (
	"math"
	"testing"
)

func TestAutoGapMatchesDerivation(t *testing.T) {
	// gap = (W*9/16) * 13/162 for a cell of width W, within 1px of rounding.
	cases := []struct {
		width int
		want  int
	}{
		{640, 29},   // H = 360, gap = 28.89
		{1920, 87},  // H = 1080, gap = 86.67
		{160, 7},    // H = 90, gap = 7.22
	}
	for _, tc := range cases {
		h := LandscapeHeight(float64(tc.width))
		got := AutoGap(int(h))
		if got != tc.want {
			t.Errorf("AutoGap(H(%d)) = %d, want %d", tc.width, got, tc.want)
		}
		exact := h * 13.0 / 162.0
		if math.Abs(float64(got)-exact) > 1 {
			t.Errorf("AutoGap(H(%d)) = %d deviates more than 1px from %f", tc.width, got, exact)
		}
	}
}

func TestAutoGapPreservesPortraitHeight(t *testing.T) {
	// 3 cells + 2 gaps should approximate the true portrait height W*16/9.
	for _, w := range []int{160, 640, 1920} {
		h := int(LandscapeHeight(float64(w)))
		gap := AutoGap(h)
		stacked := 3*h + 2*gap
		want := PortraitHeight(float64(w))
		if math.Abs(float64(stacked)-want) > 3 {
			t.Errorf("width %d: stacked height %d, portrait height %f", w, stacked, want)
		}
	}
}

func TestAutoGapRoundsHalfUp(t *testing.T) {
	// 81 * 13/162 = 6.5 exactly; half-up rounding gives 7.
	if got := AutoGap(81); got != 7 {
		t.Errorf("AutoGap(81) = %d, want 7", got)
	}
}

func TestTierGaps(t *testing.T) {
	if got := ExportTier.Gap(); got != 87 {
		t.Errorf("export tier gap = %d, want 87", got)
	}
	if PreviewTier.Gap() <= 0 {
		t.Errorf("preview tier gap = %d, want positive", PreviewTier.Gap())
	}
}

func TestTierPortraitCellHeight(t *testing.T) {
	gap := ExportTier.Gap()
	want := 3*1080 + 2*gap
	if got := ExportTier.PortraitCellHeight(gap); got != want {
		t.Errorf("portrait cell height = %d, want %d", got, want)
	}
}

func TestSpacingValidate(t *testing.T) {
	if err := AutoSpacing().Validate(); err != nil {
		t.Errorf("auto spacing should validate: %v", err)
	}
	if err := ManualSpacing(0).Validate(); err != nil {
		t.Errorf("zero manual spacing should validate: %v", err)
	}
	if err := ManualSpacing(-1).Validate(); err == nil {
		t.Error("negative manual spacing should fail validation")
	}
	if err := (Spacing{Mode: "stretchy"}).Validate(); err == nil {
		t.Error("unknown mode should fail validation")
	}
}

func TestSpacingGap(t *testing.T) {
	if got := ManualSpacing(5).Gap(1080); got != 5 {
		t.Errorf("manual gap = %d, want 5 verbatim", got)
	}
	if got := AutoSpacing().Gap(1080); got != 87 {
		t.Errorf("auto gap = %d, want 87", got)
	}
}

func TestRectIntUnionAndContains(t *testing.T) {
	a := NewRectInt(0, 0, 10, 10)
	b := NewRectInt(5, 5, 10, 10)
	u := a.Union(b)
	if u != (RectInt{X: 0, Y: 0, Width: 15, Height: 15}) {
		t.Errorf("union = %+v", u)
	}
	if !a.Intersects(b) {
		t.Error("a should intersect b")
	}
	if !u.Contains(PointInt{X: 14, Y: 14}) || u.Contains(PointInt{X: 15, Y: 15}) {
		t.Error("contains should be half-open")
	}
}
