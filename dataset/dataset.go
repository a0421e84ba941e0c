// Package dataset generates the labeled 2D point sets the playground trains
// on.
package dataset

import (
	"fmt"
	"math/rand"

	"github.com/chewxy/math32"
)

type Kind int

const (
	Circle Kind = iota
	XOR
	Spiral
	Gaussian
)

var kindNames = []string{
	Circle:   "circle",
	XOR:      "xor",
	Spiral:   "spiral",
	Gaussian: "gaussian",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown dataset %q", name)
}

// Point is a labeled point with coordinates nominally in [-1, 1].
type Point struct {
	X, Y  float32
	Label int // 0 or 1
}

func (p Point) Input() []float32 {
	return []float32{p.X, p.Y}
}

func (p Point) Target() []float32 {
	return []float32{float32(p.Label)}
}

// Gaussian clusters are centered at (-gaussianOffset, 0) and
// (gaussianOffset, 0).
const (
	gaussianOffset = 0.3
	gaussianStdDev = 0.1
)

// Generate samples n points of the given kind using r.  Spiral and Gaussian
// produce points in class pairs, so an odd n is rounded up.
func Generate(kind Kind, n int, r *rand.Rand) ([]Point, error) {
	if n <= 0 {
		return nil, fmt.Errorf("need a positive number of points, got %d", n)
	}
	if r == nil {
		return nil, fmt.Errorf("no random source")
	}

	points := make([]Point, 0, n+1)

	switch kind {
	case Circle:
		for i := 0; i < n; i++ {
			radius := r.Float32()
			theta := r.Float32() * 2 * math32.Pi
			label := 1
			if radius < 0.5 {
				label = 0
			}
			points = append(points, Point{
				X:     radius * math32.Cos(theta),
				Y:     radius * math32.Sin(theta),
				Label: label,
			})
		}

	case XOR:
		for i := 0; i < n; i++ {
			x := r.Float32()*2 - 1
			y := r.Float32()*2 - 1
			label := 0
			if x*y > 0 {
				label = 1
			}
			points = append(points, Point{X: x, Y: y, Label: label})
		}

	case Spiral:
		pairs := (n + 1) / 2
		span := float32(n) / 2
		for i := 0; i < pairs; i++ {
			radius := float32(i) / span * 0.9
			theta := float32(i) / span * 4 * math32.Pi
			points = append(points,
				Point{X: radius * math32.Cos(theta), Y: radius * math32.Sin(theta), Label: 0},
				Point{X: radius * math32.Cos(theta+math32.Pi), Y: radius * math32.Sin(theta+math32.Pi), Label: 1},
			)
		}

	case Gaussian:
		pairs := (n + 1) / 2
		for i := 0; i < pairs; i++ {
			points = append(points,
				Point{
					X:     clamp(-gaussianOffset + float32(r.NormFloat64())*gaussianStdDev),
					Y:     clamp(float32(r.NormFloat64()) * gaussianStdDev),
					Label: 0,
				},
				Point{
					X:     clamp(gaussianOffset + float32(r.NormFloat64())*gaussianStdDev),
					Y:     clamp(float32(r.NormFloat64()) * gaussianStdDev),
					Label: 1,
				},
			)
		}

	default:
		return nil, fmt.Errorf("unknown dataset kind %v", kind)
	}

	return points, nil
}

func clamp(v float32) float32 {
	return math32.Max(-1, math32.Min(1, v))
}

// Inputs and Targets collect the network-ready vectors of points.
func Inputs(points []Point) [][]float32 {
	out := make([][]float32, len(points))
	for i, p := range points {
		out[i] = p.Input()
	}
	return out
}

func Targets(points []Point) [][]float32 {
	out := make([][]float32, len(points))
	for i, p := range points {
		out[i] = p.Target()
	}
	return out
}
