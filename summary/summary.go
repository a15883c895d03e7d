package summary

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/oilspill/mesh"
	"github.com/notargets/oilspill/model_problems/OilSpill2D"
)

// Rect is an axis aligned region, bounds are inclusive
type Rect struct {
	XMin, XMax, YMin, YMax float64
}

// NewRect builds a Rect from the [min,max] ranges of each axis
func NewRect(xRange, yRange [2]float64) (r Rect, err error) {
	if xRange[0] > xRange[1] || yRange[0] > yRange[1] {
		err = fmt.Errorf("invalid rectangle x %v y %v, min must not exceed max", xRange, yRange)
		return
	}
	r = Rect{XMin: xRange[0], XMax: xRange[1], YMin: yRange[0], YMax: yRange[1]}
	return
}

func (r Rect) Contains(x, y float64) bool {
	return r.XMin <= x && x <= r.XMax && r.YMin <= y && y <= r.YMax
}

func (r Rect) String() string {
	return fmt.Sprintf("[%g,%g]x[%g,%g]", r.XMin, r.XMax, r.YMin, r.YMax)
}

// CellsInRect returns the indices of the cells with at least one point in r, each listed once
func CellsInRect(m *mesh.Mesh, r Rect) (idx []int) {
	for _, c := range m.Cells() {
		for _, pid := range c.PointIDs {
			p := m.Point(pid)
			if r.Contains(p[0], p[1]) {
				idx = append(idx, c.Idx)
				break
			}
		}
	}
	return
}

// OilInRect sums the field over the given cells for every step of the history
func OilInRect(history []OilSpill2D.ScalarField, idx []int) (totals []float64) {
	var (
		vals = make([]float64, len(idx))
	)
	totals = make([]float64, len(history))
	for step, field := range history {
		for i, k := range idx {
			if k < len(field) {
				vals[i] = field[k]
			} else {
				vals[i] = 0
			}
		}
		totals[step] = floats.Sum(vals)
	}
	return
}

// LogSummary logs the oil in the region for each step of the history
func LogSummary(logger logrus.FieldLogger, m *mesh.Mesh, r Rect, history []OilSpill2D.ScalarField) (totals []float64) {
	idx := CellsInRect(m, r)
	totals = OilInRect(history, idx)
	logger.WithFields(logrus.Fields{
		"region": r.String(),
		"cells":  len(idx),
	}).Info("Oil Distribution in Fishing Grounds Over Time:")
	for step, total := range totals {
		logger.WithField("step", step).Infof("Time step %d: Oil in Fishing Ground = %v", step, total)
	}
	return
}
