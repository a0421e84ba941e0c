package playground

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"github.com/ahmedtd/playground/dataset"
	"github.com/ahmedtd/playground/toolbox"
	"github.com/sbinet/npyio/npz"
	"gonum.org/v1/gonum/mat"
)

// DecisionSurface samples net over a resolution x resolution grid covering
// [-1, 1]^2.  Cell (i, j) of the result is the prediction at
// (i/resolution*2-1, j/resolution*2-1).
func DecisionSurface(net *toolbox.Network, resolution int) (*toolbox.AF32, error) {
	if resolution <= 0 {
		return nil, fmt.Errorf("resolution must be positive, got %d", resolution)
	}

	surface := toolbox.MakeAF32(resolution, resolution)
	x := make([]float32, 2)
	for i := 0; i < resolution; i++ {
		x[0] = float32(i)/float32(resolution)*2 - 1
		for j := 0; j < resolution; j++ {
			x[1] = float32(j)/float32(resolution)*2 - 1
			p, err := net.Predict(x)
			if err != nil {
				return nil, fmt.Errorf("while sampling cell (%d, %d): %w", i, j, err)
			}
			surface.Set2(i, j, p)
		}
	}
	return surface, nil
}

var (
	backgroundColor = color.RGBA{R: 15, G: 23, B: 42, A: 255}
	class1Tint      = color.RGBA{R: 255, G: 165, B: 0, A: 255}
	class0Tint      = color.RGBA{R: 65, G: 105, B: 225, A: 255}
	class1Point     = color.RGBA{R: 0xFF, G: 0x8C, B: 0x00, A: 255}
	class0Point     = color.RGBA{R: 0x41, G: 0x69, B: 0xE1, A: 255}
	outlineColor    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

const (
	surfaceAlpha = 0.3
	pointRadius  = 4
)

// cellColor blends the class tint for probability p over the background.
func cellColor(p float32) color.RGBA {
	tint, alpha := class0Tint, surfaceAlpha*(1-p)
	if p > 0.5 {
		tint, alpha = class1Tint, surfaceAlpha*p
	}
	mix := func(bg, fg uint8) uint8 {
		return uint8(float32(bg)*(1-alpha) + float32(fg)*alpha + 0.5)
	}
	return color.RGBA{
		R: mix(backgroundColor.R, tint.R),
		G: mix(backgroundColor.G, tint.G),
		B: mix(backgroundColor.B, tint.B),
		A: 255,
	}
}

// RenderSurface paints surface and points onto a size x size image.  The
// x axis runs left to right and the y axis bottom to top.
func RenderSurface(surface *toolbox.AF32, points []dataset.Point, size int) (*image.RGBA, error) {
	if len(surface.Shape) != 2 || surface.Shape[0] != surface.Shape[1] {
		return nil, fmt.Errorf("surface must be square, got shape %v", surface.Shape)
	}
	if size <= 0 {
		return nil, fmt.Errorf("image size must be positive, got %d", size)
	}
	res := surface.Shape[0]

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for py := 0; py < size; py++ {
		j := (size - 1 - py) * res / size
		for px := 0; px < size; px++ {
			i := px * res / size
			img.SetRGBA(px, py, cellColor(surface.At2(i, j)))
		}
	}

	for _, p := range points {
		cx := int((p.X + 1) / 2 * float32(size))
		cy := int((1 - p.Y) / 2 * float32(size))
		fill := class0Point
		if p.Label == 1 {
			fill = class1Point
		}
		drawDisc(img, cx, cy, pointRadius+1, outlineColor)
		drawDisc(img, cx, cy, pointRadius, fill)
	}

	return img, nil
}

func drawDisc(img *image.RGBA, cx, cy, radius int, c color.RGBA) {
	bounds := img.Bounds()
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			pt := image.Pt(cx+dx, cy+dy)
			if pt.In(bounds) {
				img.SetRGBA(pt.X, pt.Y, c)
			}
		}
	}
}

// RenderPNG writes the rendering of surface and points to w as a PNG.
func RenderPNG(w io.Writer, surface *toolbox.AF32, points []dataset.Point, size int) error {
	img, err := RenderSurface(surface, points, size)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("while encoding png: %w", err)
	}
	return nil
}

// WriteSurfaceNPZ stores surface as a (resolution, resolution) float64
// array named surface.npy.
func WriteSurfaceNPZ(path string, surface *toolbox.AF32) error {
	if len(surface.Shape) != 2 {
		return fmt.Errorf("surface must be 2D, got shape %v", surface.Shape)
	}

	m := mat.NewDense(surface.Shape[0], surface.Shape[1], nil)
	for i := 0; i < surface.Shape[0]; i++ {
		for j := 0; j < surface.Shape[1]; j++ {
			m.Set(i, j, float64(surface.At2(i, j)))
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("while creating surface file: %w", err)
	}
	defer f.Close()

	w := npz.NewWriter(f)
	if err := w.Write("surface.npy", m); err != nil {
		return fmt.Errorf("while writing surface.npy: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("while finishing npz archive: %w", err)
	}

	return f.Close()
}
