package render

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	types "github.com/yungbote/blueprints-backend/internal/domain"
)

const (
	DefaultSize    = 512
	MinSize        = 64
	MaxSize        = 2048
	defaultPadding = 24.0
)

// Renderer draws a blueprint as a polyline through its points in order.
type Renderer struct {
	Size       int
	Padding    float64
	Background color.Color
	Stroke     color.Color
	Vertex     color.Color
	LineWidth  float64
}

func NewRenderer(size int) *Renderer {
	return &Renderer{
		Size:       ClampSize(size),
		Padding:    defaultPadding,
		Background: color.White,
		Stroke:     color.RGBA{R: 0x1f, G: 0x4e, B: 0x9c, A: 0xff},
		Vertex:     color.RGBA{R: 0xd9, G: 0x3f, B: 0x3f, A: 0xff},
		LineWidth:  2,
	}
}

func ClampSize(size int) int {
	switch {
	case size <= 0:
		return DefaultSize
	case size < MinSize:
		return MinSize
	case size > MaxSize:
		return MaxSize
	default:
		return size
	}
}

// PNG renders bp into a square PNG. Coordinates are scaled uniformly to fit
// the canvas and the y axis points up.
func (r *Renderer) PNG(bp *types.Blueprint) ([]byte, error) {
	if bp == nil {
		return nil, fmt.Errorf("render: nil blueprint")
	}
	size := ClampSize(r.Size)
	dc := gg.NewContext(size, size)
	dc.SetColor(r.Background)
	dc.Clear()

	pts := bp.PointValues()
	if len(pts) > 0 {
		project := fit(pts, float64(size), r.Padding)

		dc.SetColor(r.Stroke)
		dc.SetLineWidth(r.LineWidth)
		for i, p := range pts {
			x, y := project(p)
			if i == 0 {
				dc.MoveTo(x, y)
				continue
			}
			dc.LineTo(x, y)
		}
		dc.Stroke()

		dc.SetColor(r.Vertex)
		for _, p := range pts {
			x, y := project(p)
			dc.DrawCircle(x, y, r.LineWidth+1.5)
			dc.Fill()
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("render: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func fit(pts []types.Point, size, padding float64) func(types.Point) (float64, float64) {
	minX, minY := math.MaxFloat64, math.MaxFloat64
	maxX, maxY := -math.MaxFloat64, -math.MaxFloat64
	for _, p := range pts {
		minX = math.Min(minX, float64(p.X))
		minY = math.Min(minY, float64(p.Y))
		maxX = math.Max(maxX, float64(p.X))
		maxY = math.Max(maxY, float64(p.Y))
	}
	if padding*2 >= size {
		padding = 0
	}
	avail := size - 2*padding
	span := math.Max(maxX-minX, maxY-minY)
	scale := 1.0
	if span > 0 {
		scale = avail / span
	}
	// Center the drawing on the axis with the smaller extent.
	offX := padding + (avail-(maxX-minX)*scale)/2
	offY := padding + (avail-(maxY-minY)*scale)/2
	return func(p types.Point) (float64, float64) {
		x := offX + (float64(p.X)-minX)*scale
		y := size - (offY + (float64(p.Y)-minY)*scale)
		return x, y
	}
}
