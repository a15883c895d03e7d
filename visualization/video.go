package visualization

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/icza/mjpeg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/notargets/oilspill/mesh"
	"github.com/notargets/oilspill/model_problems/OilSpill2D"
)

const (
	DefaultFrameEvery = 10
	FrameWidth        = 800
	FrameHeight       = 600
)

type VideoOptions struct {
	FPS         int                    // Frames per second in the stream
	Every       int                    // One frame per Every steps, DefaultFrameEvery if zero
	StepTime    func(step int) float64 // Time shown in the frame title, the step number if nil
	Title       string
	JPEGQuality int
}

// Video writes an MJPEG AVI with one frame per opts.Every steps of the history, returning the
// number of frames written
func Video(m *mesh.Mesh, history []OilSpill2D.ScalarField, fileName string, opts VideoOptions) (nFrames int, err error) {
	var (
		aw  mjpeg.AviWriter
		buf bytes.Buffer
	)
	if len(history) == 0 {
		return 0, fmt.Errorf("no history to render")
	}
	if opts.FPS <= 0 {
		return 0, fmt.Errorf("frame rate must be positive, have %d", opts.FPS)
	}
	if opts.Every <= 0 {
		opts.Every = DefaultFrameEvery
	}
	if opts.Title == "" {
		opts.Title = "Oil Distribution"
	}
	if opts.JPEGQuality == 0 {
		opts.JPEGQuality = 90
	}
	if aw, err = mjpeg.New(fileName, FrameWidth, FrameHeight, int32(opts.FPS)); err != nil {
		return
	}
	defer func() {
		if cerr := aw.Close(); err == nil {
			err = cerr
		}
	}()
	for step, field := range history {
		if step%opts.Every != 0 {
			continue
		}
		t := float64(step)
		if opts.StepTime != nil {
			t = opts.StepTime(step)
		}
		buf.Reset()
		if err = renderFrame(&buf, m, field, t, opts); err != nil {
			return nFrames, fmt.Errorf("frame for step %d: %w", step, err)
		}
		if err = aw.AddFrame(buf.Bytes()); err != nil {
			return
		}
		nFrames++
	}
	return
}

func renderFrame(buf *bytes.Buffer, m *mesh.Mesh, field OilSpill2D.ScalarField, t float64, opts VideoOptions) (err error) {
	img := vgimg.NewWith(vgimg.UseImage(image.NewRGBA(image.Rect(0, 0, FrameWidth, FrameHeight))))
	if err = RenderField(draw.New(img), m, field, t, opts.Title); err != nil {
		return
	}
	err = jpeg.Encode(buf, img.Image(), &jpeg.Options{Quality: opts.JPEGQuality})
	return
}
