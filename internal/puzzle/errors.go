package puzzle

import "errors"

// Error kinds reported by grid and region operations. Mutating operations
// are local-fail: on any of these the model is left unchanged.
var (
	// ErrOutOfBounds is returned when a coordinate or destination falls
	// outside the grid.
	ErrOutOfBounds = errors.New("coordinates outside grid")

	// ErrCellOccupied is returned when a placement target cell is not empty.
	ErrCellOccupied = errors.New("cell already occupied")

	// ErrDestinationOccupied is returned when a region move target cell is
	// not empty.
	ErrDestinationOccupied = errors.New("destination cell occupied")

	// ErrEmptyCell is returned when removing from a cell with no placement.
	ErrEmptyCell = errors.New("cell has no placement")

	// ErrTruncatedExpansion reports that a region expansion hit the grid
	// edge and was clipped. Informational: the clipped region is still
	// returned and usable.
	ErrTruncatedExpansion = errors.New("region expansion truncated at grid edge")
)
