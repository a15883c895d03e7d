package OilSpill2D

import (
	"fmt"
	"strings"
)

type UpdateOrdering uint

const (
	// All fluxes of a step are computed from the field as it was before the step
	SnapshotSweep UpdateOrdering = iota
	// Each triangle is updated in place as it is visited, later triangles in the sweep
	// see the already updated values of earlier neighbors
	InPlaceSweep
)

var (
	UpdateOrderingNames = map[string]UpdateOrdering{
		"snapshot": SnapshotSweep,
		"inplace":  InPlaceSweep,
		"in-place": InPlaceSweep,
	}
	UpdateOrderingPrintNames = []string{"Snapshot Sweep", "In Place Sweep"}
)

func (uo UpdateOrdering) Print() (txt string) {
	if int(uo) >= len(UpdateOrderingPrintNames) {
		return fmt.Sprintf("UpdateOrdering(%d)", uo)
	}
	txt = UpdateOrderingPrintNames[uo]
	return
}

// NewUpdateOrdering parses an ordering label, the empty label is the snapshot sweep
func NewUpdateOrdering(label string) (uo UpdateOrdering, err error) {
	var (
		ok bool
	)
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return SnapshotSweep, nil
	}
	if uo, ok = UpdateOrderingNames[label]; !ok {
		err = fmt.Errorf("unable to use update ordering named %s", label)
	}
	return
}
