package geometry

import (
	"fmt"
	"math"
)

// PortraitSpan is the number of vertically stacked cells a portrait image
// occupies.
const PortraitSpan = 3

// LandscapeHeight returns the height of a 16:9 landscape image of width w.
func LandscapeHeight(w float64) float64 {
	return w * 9.0 / 16.0
}

// PortraitHeight returns the height of a 9:16 portrait image of width w.
func PortraitHeight(w float64) float64 {
	return w * 16.0 / 9.0
}

// AutoGap returns the inter-cell gap for the given landscape cell height.
//
// A portrait image spans PortraitSpan stacked cells plus the gaps between
// them. With a shared width W, the landscape height is H = W*9/16 and the
// portrait height is V = W*16/9, so V/H = 256/81. Solving
// V = 3H + 2*gap gives gap = H*(256/81-3)/2 = H*13/162.
// The result is rounded half-up to the nearest pixel.
func AutoGap(cellHeight int) int {
	gap := float64(cellHeight) * 13.0 / 162.0
	return int(math.Floor(gap + 0.5))
}

// Tier is a resolution context at which cell sizes and gaps are evaluated.
type Tier struct {
	CellWidth  int `json:"cell_width"`
	CellHeight int `json:"cell_height"`
}

// PreviewTier is the on-screen preview resolution per cell.
var PreviewTier = Tier{CellWidth: 640, CellHeight: 310}

// ExportTier is the default per-cell output resolution for final export.
var ExportTier = Tier{CellWidth: 1920, CellHeight: 1080}

// Gap returns the derived inter-cell gap at this tier.
func (t Tier) Gap() int {
	return AutoGap(t.CellHeight)
}

// PortraitCellHeight returns the pixel height of a portrait tile at this
// tier given the gap in effect: PortraitSpan cells plus the internal gaps.
func (t Tier) PortraitCellHeight(gap int) int {
	return t.CellHeight*PortraitSpan + gap*(PortraitSpan-1)
}

// SpacingMode selects between derived and user-specified gaps.
type SpacingMode string

const (
	SpacingAuto   SpacingMode = "auto"
	SpacingManual SpacingMode = "manual"
)

// Spacing is the gap configuration applied uniformly to row and column
// gaps at a given tier.
type Spacing struct {
	Mode  SpacingMode `json:"mode"`
	Value int         `json:"value,omitempty"`
}

// AutoSpacing returns the default derived spacing configuration.
func AutoSpacing() Spacing {
	return Spacing{Mode: SpacingAuto}
}

// ManualSpacing returns a spacing configuration with a fixed pixel gap.
func ManualSpacing(value int) Spacing {
	return Spacing{Mode: SpacingManual, Value: value}
}

// Validate checks the spacing configuration. A manual value is accepted
// verbatim apart from non-negativity.
func (s Spacing) Validate() error {
	switch s.Mode {
	case SpacingAuto:
		return nil
	case SpacingManual:
		if s.Value < 0 {
			return fmt.Errorf("manual spacing must be non-negative, got %d", s.Value)
		}
		return nil
	default:
		return fmt.Errorf("unknown spacing mode %q", s.Mode)
	}
}

// Gap resolves the spacing configuration to a pixel gap for the given
// landscape cell height.
func (s Spacing) Gap(cellHeight int) int {
	if s.Mode == SpacingManual {
		return s.Value
	}
	return AutoGap(cellHeight)
}
