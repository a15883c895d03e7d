package visualization

import (
	"fmt"
	"image/color"
	"io"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/notargets/oilspill/mesh"
	"github.com/notargets/oilspill/model_problems/OilSpill2D"
)

var (
	DefaultWidth  = 8 * vg.Inch
	DefaultHeight = 6 * vg.Inch
	colorBarWidth = 1.2 * vg.Inch
	MeshLineColor = color.RGBA{R: 0x8a, G: 0x2b, B: 0xe2, A: 0x80}
)

// TriangleField colors each triangle of a mesh by the field value of its cell.
// It implements plot.Plotter and plot.DataRanger.
type TriangleField struct {
	Vertices  [][3][2]float64
	Values    []float64
	ColorMap  palette.ColorMap
	LineStyle draw.LineStyle // Mesh edges, a zero width draws no edges
}

func NewTriangleField(m *mesh.Mesh, field OilSpill2D.ScalarField) (tf *TriangleField, err error) {
	if len(field) != m.NumCells() {
		return nil, fmt.Errorf("field has %d values, mesh has %d cells", len(field), m.NumCells())
	}
	tris, idx := m.Triangles()
	tf = &TriangleField{
		Vertices: make([][3][2]float64, len(tris)),
		Values:   make([]float64, len(tris)),
		LineStyle: draw.LineStyle{
			Color: MeshLineColor,
			Width: vg.Points(0.5),
		},
	}
	for k, tri := range tris {
		for i, pid := range tri {
			p := m.Point(pid)
			tf.Vertices[k][i] = [2]float64{p[0], p[1]}
		}
		tf.Values[k] = field[idx[k]]
	}
	tf.ColorMap = moreland.Kindlmann()
	min, max := tf.ValueRange()
	tf.ColorMap.SetMax(max)
	tf.ColorMap.SetMin(min)
	return
}

// ValueRange is the min and max of the values, widened when all values are equal so that
// a color map can be scaled to it
func (tf *TriangleField) ValueRange() (min, max float64) {
	for i, v := range tf.Values {
		if i == 0 || v < min {
			min = v
		}
		if i == 0 || v > max {
			max = v
		}
	}
	if max <= min {
		max = min + 1
	}
	return
}

func (tf *TriangleField) Plot(c draw.Canvas, plt *plot.Plot) {
	var (
		trX, trY = plt.Transforms(&c)
		pts      = make([]vg.Point, 3)
	)
	for k, tri := range tf.Vertices {
		for i, p := range tri {
			pts[i] = vg.Point{X: trX(p[0]), Y: trY(p[1])}
		}
		clr, err := tf.ColorMap.At(tf.Values[k])
		if err != nil {
			// Only values outside of the map range fail
			clr = color.Black
		}
		c.FillPolygon(clr, c.ClipPolygonXY(pts))
	}
	if tf.LineStyle.Width == 0 {
		return
	}
	for _, tri := range tf.Vertices {
		line := make([]vg.Point, 4)
		for i := 0; i < 4; i++ {
			p := tri[i%3]
			line[i] = vg.Point{X: trX(p[0]), Y: trY(p[1])}
		}
		c.StrokeLines(tf.LineStyle, c.ClipLinesXY(line)...)
	}
}

func (tf *TriangleField) DataRange() (xmin, xmax, ymin, ymax float64) {
	for k, tri := range tf.Vertices {
		for i, p := range tri {
			if (k == 0 && i == 0) || p[0] < xmin {
				xmin = p[0]
			}
			if (k == 0 && i == 0) || p[0] > xmax {
				xmax = p[0]
			}
			if (k == 0 && i == 0) || p[1] < ymin {
				ymin = p[1]
			}
			if (k == 0 && i == 0) || p[1] > ymax {
				ymax = p[1]
			}
		}
	}
	return
}

// RenderField draws the field and a color bar to c
func RenderField(c draw.Canvas, m *mesh.Mesh, field OilSpill2D.ScalarField, time float64, title string) (err error) {
	var (
		tf *TriangleField
	)
	if tf, err = NewTriangleField(m, field); err != nil {
		return
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s\n at t = %.2f", title, time)
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Add(tf)

	bar := plot.New()
	bar.Add(&plotter.ColorBar{ColorMap: tf.ColorMap, Vertical: true})
	bar.HideX()
	bar.Y.Padding = 0
	bar.Y.Label.Text = "Amount of oil"
	// Keep the bar level with the field plot under its title
	bar.Title.Text = p.Title.Text
	bar.Title.TextStyle.Color = color.Transparent

	width := c.Max.X - c.Min.X
	p.Draw(draw.Crop(c, 0, -colorBarWidth, 0, 0))
	bar.Draw(draw.Crop(c, width-colorBarWidth, 0, 0, 0))
	return
}

// PlotField writes a PNG image of the field on the mesh triangles
func PlotField(m *mesh.Mesh, field OilSpill2D.ScalarField, time float64, title, fileName string) (err error) {
	var (
		file *os.File
	)
	img := vgimg.New(DefaultWidth, DefaultHeight)
	if err = RenderField(draw.New(img), m, field, time, title); err != nil {
		return
	}
	if file, err = os.Create(fileName); err != nil {
		return
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	err = writePNG(file, img)
	return
}

func writePNG(w io.Writer, img *vgimg.Canvas) (err error) {
	_, err = vgimg.PngCanvas{Canvas: img}.WriteTo(w)
	return
}
