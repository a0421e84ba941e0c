package dataset

import (
	"fmt"
	"os"

	"github.com/sbinet/npyio/npz"
)

// The .npz layout: x.npy holds the coordinates as float32 in row-major
// (n, 2) order, y.npy holds the labels as float32.

// WriteNPZ writes points to path as a NumPy .npz archive.
func WriteNPZ(path string, points []Point) error {
	x := make([]float32, 0, 2*len(points))
	y := make([]float32, 0, len(points))
	for _, p := range points {
		x = append(x, p.X, p.Y)
		y = append(y, float32(p.Label))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("while creating dataset file: %w", err)
	}
	defer f.Close()

	w := npz.NewWriter(f)
	if err := w.Write("x.npy", x); err != nil {
		return fmt.Errorf("while writing x.npy: %w", err)
	}
	if err := w.Write("y.npy", y); err != nil {
		return fmt.Errorf("while writing y.npy: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("while finishing npz archive: %w", err)
	}

	return f.Close()
}

// ReadNPZ reads points written by WriteNPZ.
func ReadNPZ(path string) ([]Point, error) {
	r, err := npz.Open(path)
	if err != nil {
		return nil, fmt.Errorf("while opening dataset file: %w", err)
	}
	defer r.Close()

	var x []float32
	if err := r.Read("x.npy", &x); err != nil {
		return nil, fmt.Errorf("while reading x.npy: %w", err)
	}
	var y []float32
	if err := r.Read("y.npy", &y); err != nil {
		return nil, fmt.Errorf("while reading y.npy: %w", err)
	}

	if len(x) != 2*len(y) {
		return nil, fmt.Errorf("x.npy has %d values, want %d for %d labels", len(x), 2*len(y), len(y))
	}

	points := make([]Point, len(y))
	for k := range y {
		switch y[k] {
		case 0, 1:
		default:
			return nil, fmt.Errorf("label %d is %v, want 0 or 1", k, y[k])
		}
		points[k] = Point{X: x[2*k], Y: x[2*k+1], Label: int(y[k])}
	}

	return points, nil
}
