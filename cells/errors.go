package cells

import (
	"fmt"

	"github.com/notargets/oilspill/types"
)

// ValidationError reports a cell built from inconsistent input, like a coordinate
// count that doesn't match the cell type or a point id outside of the mesh.
type ValidationError struct {
	Type   types.CellType
	Idx    int
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s cell %d: %s", e.Type, e.Idx, e.Reason)
}

// UnknownCellTypeError is returned by a Registry asked for a tag it doesn't hold
type UnknownCellTypeError struct {
	Tag string
}

func (e *UnknownCellTypeError) Error() string {
	return fmt.Sprintf("unknown cell type: %q", e.Tag)
}

// DegenerateGeometryError is raised when flux geometry between two cells is undefined.
// Neighbor is -1 when the problem is with the cell itself, like a zero area triangle.
type DegenerateGeometryError struct {
	Cell, Neighbor int
	Shared         int // Number of shared point ids, -1 if not relevant
	Reason         string
}

func (e *DegenerateGeometryError) Error() string {
	if e.Neighbor < 0 {
		return fmt.Sprintf("degenerate geometry in cell %d: %s", e.Cell, e.Reason)
	}
	return fmt.Sprintf("degenerate geometry between cells %d and %d: %s", e.Cell, e.Neighbor, e.Reason)
}
