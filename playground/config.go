package playground

import (
	"fmt"
	"slices"

	"github.com/ahmedtd/playground/dataset"
	"github.com/ahmedtd/playground/toolbox"
	"github.com/chewxy/math32"
)

// Limits on the hidden layers that the editing helpers enforce.
const (
	MaxHiddenLayers    = 3
	MinHiddenLayers    = 1
	MinHiddenWidth     = 1
	MaxHiddenWidth     = 8
	DefaultHiddenWidth = 4
)

// Config holds everything needed to build a session.
type Config struct {
	Dataset dataset.Kind
	Points  int

	// Hidden holds the width of each hidden layer.  The input (2) and output
	// (1) layers are implied.
	Hidden       []int
	Activation   toolbox.ActivationType
	LearningRate float32

	MaxEpochs int

	// Accuracy is recomputed on every epoch whose index is a multiple of
	// AccuracyEvery.
	AccuracyEvery int

	Seed int64
}

func DefaultConfig(seed int64) Config {
	return Config{
		Dataset:       dataset.XOR,
		Points:        200,
		Hidden:        []int{DefaultHiddenWidth},
		Activation:    toolbox.Tanh,
		LearningRate:  0.03,
		MaxEpochs:     1000,
		AccuracyEvery: 5,
		Seed:          seed,
	}
}

// LayerSizes returns the full width list handed to toolbox.MakeNetwork.
func (c Config) LayerSizes() []int {
	sizes := make([]int, 0, len(c.Hidden)+2)
	sizes = append(sizes, 2)
	sizes = append(sizes, c.Hidden...)
	sizes = append(sizes, 1)
	return sizes
}

// Validate checks the fields that the network constructor does not.
func (c Config) Validate() error {
	if c.Points <= 0 {
		return fmt.Errorf("points must be positive, got %d", c.Points)
	}
	if c.MaxEpochs <= 0 {
		return fmt.Errorf("max epochs must be positive, got %d", c.MaxEpochs)
	}
	if c.AccuracyEvery <= 0 {
		return fmt.Errorf("accuracy interval must be positive, got %d", c.AccuracyEvery)
	}
	if !(c.LearningRate > 0) || math32.IsInf(c.LearningRate, 1) {
		return fmt.Errorf("learning rate must be positive and finite, got %v", c.LearningRate)
	}
	for i, w := range c.Hidden {
		if w <= 0 {
			return fmt.Errorf("hidden layer %d has width %d", i, w)
		}
	}
	return nil
}

func (c Config) clone() Config {
	c.Hidden = slices.Clone(c.Hidden)
	return c
}

// AddHiddenLayer appends a hidden layer of DefaultHiddenWidth, unless there
// are already MaxHiddenLayers.
func (c Config) AddHiddenLayer() Config {
	c = c.clone()
	if len(c.Hidden) < MaxHiddenLayers {
		c.Hidden = append(c.Hidden, DefaultHiddenWidth)
	}
	return c
}

// RemoveHiddenLayer drops the last hidden layer, keeping at least
// MinHiddenLayers.
func (c Config) RemoveHiddenLayer() Config {
	c = c.clone()
	if len(c.Hidden) > MinHiddenLayers {
		c.Hidden = c.Hidden[:len(c.Hidden)-1]
	}
	return c
}

// ResizeHiddenLayer adds delta neurons to hidden layer i, clamped to
// [MinHiddenWidth, MaxHiddenWidth].  An out of range i is ignored.
func (c Config) ResizeHiddenLayer(i, delta int) Config {
	c = c.clone()
	if i < 0 || i >= len(c.Hidden) {
		return c
	}
	c.Hidden[i] = max(MinHiddenWidth, min(MaxHiddenWidth, c.Hidden[i]+delta))
	return c
}

// sameData reports whether a and b generate the same points.
func sameData(a, b Config) bool {
	return a.Dataset == b.Dataset && a.Points == b.Points && a.Seed == b.Seed
}
