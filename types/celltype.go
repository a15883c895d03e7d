package types

import "strings"

// CellType is the closed set of cell variants the mesh supports
type CellType uint8

const (
	CT_None CellType = iota
	CT_Line
	CT_Triangle
)

// Tags as they appear in mesh file cell blocks
var CellTypeNameMap = map[string]CellType{
	"line":     CT_Line,
	"triangle": CT_Triangle,
}

func NewCellType(tag string) (ct CellType) {
	var (
		ok bool
	)
	if ct, ok = CellTypeNameMap[strings.ToLower(strings.TrimSpace(tag))]; !ok {
		ct = CT_None
	}
	return
}

func (ct CellType) String() string {
	return [...]string{"None", "Line", "Triangle"}[ct]
}

// Tag is the lower case mesh file name of the cell type
func (ct CellType) Tag() string {
	return strings.ToLower(ct.String())
}

// Arity is the number of points a cell of this type is built from
func (ct CellType) Arity() int {
	switch ct {
	case CT_Line:
		return 2
	case CT_Triangle:
		return 3
	}
	return 0
}
