package cells

import (
	"sort"
	"strings"

	"github.com/notargets/oilspill/types"
)

// Registry maps the cell block tags found in mesh files to cell constructors
type Registry struct {
	constructors map[string]Constructor
}

// NewRegistry returns a Registry holding the line and triangle constructors
func NewRegistry() (r *Registry) {
	r = &Registry{
		constructors: make(map[string]Constructor),
	}
	r.Register(types.CT_Line.Tag(), NewLine)
	r.Register(types.CT_Triangle.Tag(), NewTriangle)
	return
}

func normalizeTag(tag string) string { return strings.ToLower(strings.TrimSpace(tag)) }

func (r *Registry) Register(tag string, ctor Constructor) {
	r.constructors[normalizeTag(tag)] = ctor
}

func (r *Registry) Has(tag string) (ok bool) {
	_, ok = r.constructors[normalizeTag(tag)]
	return
}

// Tags are the registered tags in sorted order
func (r *Registry) Tags() (tags []string) {
	for tag := range r.constructors {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return
}

func (r *Registry) New(tag string, pointIDs []int, idx int, coord [][]float64, f Fields) (c *Cell, err error) {
	var (
		ctor Constructor
		ok   bool
	)
	if ctor, ok = r.constructors[normalizeTag(tag)]; !ok {
		err = &UnknownCellTypeError{Tag: tag}
		return
	}
	return ctor(pointIDs, idx, coord, f)
}
