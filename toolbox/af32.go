package toolbox

import (
	"fmt"
)

// AF32 is a densely packed, row-major float32 array.
type AF32 struct {
	V     []float32
	Shape []int
}

func MakeAF32(shape ...int) *AF32 {
	for _, s := range shape {
		if s <= 0 {
			panic(fmt.Sprintf("invalid shape: %v", shape))
		}
	}
	size := 1
	for _, s := range shape {
		size *= s
	}

	return &AF32{
		V:     make([]float32, size),
		Shape: shape,
	}
}

// AF32Clone returns a copy of in that shares no storage with it.
func AF32Clone(in *AF32) *AF32 {
	shapeCopy := make([]int, len(in.Shape))
	copy(shapeCopy, in.Shape)
	valCopy := make([]float32, len(in.V))
	copy(valCopy, in.V)
	return &AF32{
		V:     valCopy,
		Shape: shapeCopy,
	}
}

func (a *AF32) At1(idx int) float32 {
	return a.V[idx]
}

func (a *AF32) At2(idx0, idx1 int) float32 {
	if len(a.Shape) != 2 {
		panic("At2() invalid for len(shape) != 2")
	}
	return a.V[idx0*a.Shape[1]+idx1]
}

func (a *AF32) Set1(idx int, v float32) {
	a.V[idx] = v
}

func (a *AF32) Set2(idx0, idx1 int, v float32) {
	if len(a.Shape) != 2 {
		panic("Set2() invalid for len(shape) != 2")
	}
	a.V[idx0*a.Shape[1]+idx1] = v
}

// Row returns the storage of row idx0 of a 2D array.  The returned slice
// aliases a.V.
func (a *AF32) Row(idx0 int) []float32 {
	if len(a.Shape) != 2 {
		panic("Row() invalid for len(shape) != 2")
	}
	cols := a.Shape[1]
	return a.V[idx0*cols : idx0*cols+cols]
}
