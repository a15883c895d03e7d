package solutionio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/notargets/oilspill/model_problems/OilSpill2D"
)

const indent = "    "

// StoreSolution writes the history as a JSON list with one object per step, mapping each cell
// index to its value. Keys are written in ascending cell index order.
func StoreSolution(history []OilSpill2D.ScalarField, filename string) (err error) {
	var (
		file *os.File
	)
	if file, err = os.Create(filename); err != nil {
		return
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	w := bufio.NewWriter(file)
	if err = WriteSolution(w, history); err != nil {
		return fmt.Errorf("writing %s: %w", filename, err)
	}
	return w.Flush()
}

func WriteSolution(w io.Writer, history []OilSpill2D.ScalarField) (err error) {
	var (
		val []byte
	)
	if len(history) == 0 {
		_, err = io.WriteString(w, "[]")
		return
	}
	if _, err = io.WriteString(w, "["); err != nil {
		return
	}
	for step, field := range history {
		if step != 0 {
			if _, err = io.WriteString(w, ","); err != nil {
				return
			}
		}
		if _, err = fmt.Fprintf(w, "\n%s{", indent); err != nil {
			return
		}
		for idx, v := range field {
			if val, err = json.Marshal(v); err != nil {
				return fmt.Errorf("step %d cell %d: %w", step, idx, err)
			}
			sep := ","
			if idx == len(field)-1 {
				sep = ""
			}
			if _, err = fmt.Fprintf(w, "\n%s%s\"%d\": %s%s", indent, indent, idx, val, sep); err != nil {
				return
			}
		}
		if len(field) != 0 {
			if _, err = fmt.Fprintf(w, "\n%s", indent); err != nil {
				return
			}
		}
		if _, err = io.WriteString(w, "}"); err != nil {
			return
		}
	}
	_, err = io.WriteString(w, "\n]")
	return
}

// LoadSolution reads a history written by StoreSolution
func LoadSolution(filename string) (history []OilSpill2D.ScalarField, err error) {
	var (
		file *os.File
	)
	if file, err = os.Open(filename); err != nil {
		return
	}
	defer file.Close()
	if history, err = ReadSolution(file); err != nil {
		err = fmt.Errorf("reading %s: %w", filename, err)
	}
	return
}

// ReadSolution decodes a history, every step must hold the cell indices 0..N-1 with the same N
func ReadSolution(r io.Reader) (history []OilSpill2D.ScalarField, err error) {
	var (
		raw []map[string]float64
	)
	if err = json.NewDecoder(r).Decode(&raw); err != nil {
		return
	}
	history = make([]OilSpill2D.ScalarField, len(raw))
	for step, obj := range raw {
		if step != 0 && len(obj) != len(raw[0]) {
			return nil, fmt.Errorf("step %d has %d cells, step 0 has %d", step, len(obj), len(raw[0]))
		}
		field := make(OilSpill2D.ScalarField, len(obj))
		for key, v := range obj {
			var idx int
			if idx, err = strconv.Atoi(key); err != nil {
				return nil, fmt.Errorf("step %d: invalid cell index %q", step, key)
			}
			if idx < 0 || idx >= len(field) {
				return nil, fmt.Errorf("step %d: cell index %d out of range [0,%d)", step, idx, len(field))
			}
			field[idx] = v
		}
		history[step] = field
	}
	return
}

// StoredSteps lists the steps available in a history
func StoredSteps(history []OilSpill2D.ScalarField) (steps []int) {
	steps = make([]int, len(history))
	for i := range history {
		steps[i] = i
	}
	return
}

// NearestStep returns the step closest to requested. When two steps are equally close the
// smaller one is used.
func NearestStep(steps []int, requested int) (step int, err error) {
	if len(steps) == 0 {
		return 0, fmt.Errorf("no stored steps to restart from")
	}
	sorted := append([]int(nil), steps...)
	sort.Ints(sorted)
	step = sorted[0]
	for _, s := range sorted[1:] {
		if abs(s-requested) < abs(step-requested) {
			step = s
		}
	}
	return
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
