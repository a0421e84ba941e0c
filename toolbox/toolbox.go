// Package toolbox is a small dense feed-forward network engine for binary
// classification, trained online (one sample per update) by backpropagation.
package toolbox

import (
	"fmt"
	"math/rand"
	"slices"

	"github.com/chewxy/math32"
)

// GradientRule selects the error signal computed at the output layer.
type GradientRule int

const (
	// CrossEntropyGradient uses delta = a - y, the gradient of the
	// cross-entropy loss through the sigmoid output.  This is the default.
	CrossEntropyGradient GradientRule = iota

	// MeanSquaredErrorGradient uses delta = (a - y) * a * (1 - a), the
	// gradient of the squared-error loss through the sigmoid output.
	MeanSquaredErrorGradient
)

// SquaredErrorLoss returns 0.5 * sum((a[k] - y[k])^2).
//
// y is the ground truth output.  Shape (outputSize)
// a is the network's forward output.  Shape (outputSize)
func SquaredErrorLoss(y, a []float32) float32 {
	if len(y) != len(a) {
		panic("y and a must have same length")
	}

	loss := float32(0)
	for k := range a {
		diff := a[k] - y[k]
		loss += diff * diff
	}
	return loss / 2
}

// Network is a dense feed-forward binary classifier.  Build it with
// MakeNetwork; the fields are exported for inspection and are read-only
// afterwards.  Only Train modifies the layer parameters, and setting
// LearningRate, Gradient or Layers directly bypasses MakeNetwork's
// validation.
type Network struct {
	// Sizes is the architecture [n0, n1, ..., nL].
	Sizes []int

	// Layers[i] is the transition from Sizes[i] to Sizes[i+1].  The last
	// layer always uses the Sigmoid activation.
	Layers []*Layer

	// Activation is the hidden-layer activation the network was built with.
	Activation ActivationType

	LearningRate float32

	Gradient GradientRule

	saturations uint64
}

// MakeNetwork constructs a network with freshly initialized parameters drawn
// from r.  The hidden transitions use activation; the output transition always
// uses Sigmoid.
func MakeNetwork(sizes []int, activation ActivationType, learningRate float32, r *rand.Rand) (*Network, error) {
	if len(sizes) < 2 {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("need at least 2 layers, got %d", len(sizes))}
	}
	for i, s := range sizes {
		if s <= 0 {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("layer %d has non-positive width %d", i, s)}
		}
	}
	if !(learningRate > 0) || math32.IsInf(learningRate, 1) {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("learning rate must be positive and finite, got %v", learningRate)}
	}
	if !activation.valid() {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("unknown activation %v", activation)}
	}
	if r == nil {
		return nil, &ConfigurationError{Reason: "no random source"}
	}

	net := &Network{
		Sizes:        slices.Clone(sizes),
		Layers:       make([]*Layer, len(sizes)-1),
		Activation:   activation,
		LearningRate: learningRate,
	}
	for l := range net.Layers {
		act := activation
		if l == len(net.Layers)-1 {
			act = Sigmoid
		}
		net.Layers[l] = MakeDense(act, sizes[l], sizes[l+1], r)
	}

	return net, nil
}

func (net *Network) InputSize() int {
	return net.Sizes[0]
}

func (net *Network) OutputSize() int {
	return net.Sizes[len(net.Sizes)-1]
}

// Saturations returns how many sigmoid pre-activations have been clipped to
// [-20, 20] during Train calls.
func (net *Network) Saturations() uint64 {
	return net.saturations
}

// Clone returns a deep copy of the network.  The copy can be handed to readers
// (for example to sample a decision surface) while the original keeps
// training.
func (net *Network) Clone() *Network {
	out := &Network{
		Sizes:        slices.Clone(net.Sizes),
		Layers:       make([]*Layer, len(net.Layers)),
		Activation:   net.Activation,
		LearningRate: net.LearningRate,
		Gradient:     net.Gradient,
		saturations:  net.saturations,
	}
	for l, lay := range net.Layers {
		out.Layers[l] = &Layer{
			Activation: lay.Activation,
			W:          AF32Clone(lay.W),
			B:          AF32Clone(lay.B),
			InputSize:  lay.InputSize,
			OutputSize: lay.OutputSize,
		}
	}
	return out
}

// forwardTrace holds the intermediate values of one forward pass.
//
// a[0] is the input, a[l+1] is the output of layer l.
// z[l] is the pre-activation of layer l.
type forwardTrace struct {
	a [][]float32
	z [][]float32
}

func (tr *forwardTrace) output() []float32 {
	return tr.a[len(tr.a)-1]
}

func (net *Network) forward(x []float32) (tr *forwardTrace, saturated int) {
	tr = &forwardTrace{
		a: make([][]float32, len(net.Layers)+1),
		z: make([][]float32, len(net.Layers)),
	}
	tr.a[0] = x

	for l, lay := range net.Layers {
		tr.z[l] = make([]float32, lay.OutputSize)
		tr.a[l+1] = make([]float32, lay.OutputSize)
		saturated += lay.Apply(tr.a[l], tr.z[l], tr.a[l+1])
	}

	return tr, saturated
}

func (net *Network) checkInput(x []float32) error {
	if len(x) != net.InputSize() {
		return &DimensionMismatchError{Operand: "input", Got: len(x), Want: net.InputSize()}
	}
	return nil
}

// Predict returns the network's output for x, the probability that x belongs
// to class 1, in [0, 1].  The output is closed at 1: a sigmoid input at the
// upper clip limit rounds to exactly 1 in float32.  Predict does not modify
// the network.
func (net *Network) Predict(x []float32) (float32, error) {
	if err := net.checkInput(x); err != nil {
		return 0, err
	}
	tr, _ := net.forward(x)
	return tr.output()[0], nil
}

// Train runs one step of online gradient descent on the sample (x, y) and
// returns the sample's squared-error loss, measured before the update.
//
// If x or y does not match the architecture, Train returns a
// *DimensionMismatchError and leaves the network untouched.
func (net *Network) Train(x, y []float32) (float32, error) {
	if err := net.checkInput(x); err != nil {
		return 0, err
	}
	if len(y) != net.OutputSize() {
		return 0, &DimensionMismatchError{Operand: "target", Got: len(y), Want: net.OutputSize()}
	}

	tr, saturated := net.forward(x)
	net.saturations += uint64(saturated)

	net.backward(tr, y)

	return SquaredErrorLoss(y, tr.output()), nil
}

// backward computes the error signal of every layer from the trace, then
// updates all parameters.
func (net *Network) backward(tr *forwardTrace, y []float32) {
	last := len(net.Layers) - 1
	deltas := make([][]float32, len(net.Layers))

	out := tr.output()
	deltas[last] = make([]float32, len(out))
	for k := range out {
		switch net.Gradient {
		case CrossEntropyGradient:
			deltas[last][k] = out[k] - y[k]
		case MeanSquaredErrorGradient:
			deltas[last][k] = (out[k] - y[k]) * out[k] * (1 - out[k])
		default:
			panic("unimplemented gradient rule")
		}
	}

	// Propagate backward through the transpose of the next layer's weights.
	// All deltas use the weights from before this step's update.
	for l := last - 1; l >= 0; l-- {
		deltas[l] = make([]float32, net.Layers[l].OutputSize)
		net.Layers[l+1].BackpropDelta(deltas[l+1], tr.z[l], net.Layers[l].Activation, deltas[l])
	}

	for l, lay := range net.Layers {
		lay.Update(tr.a[l], deltas[l], net.LearningRate)
	}
}

type Layer struct {
	Activation ActivationType

	W *AF32 // Shape (InputSize, OutputSize)
	B *AF32 // Shape (OutputSize)

	InputSize  int
	OutputSize int
}

// MakeDense returns a layer whose weights are drawn uniformly from
// [-s, s), s = sqrt(2/inputSize), and whose biases are zero.
func MakeDense(activation ActivationType, inputSize, outputSize int, r *rand.Rand) *Layer {
	l := &Layer{
		Activation: activation,
		InputSize:  inputSize,
		OutputSize: outputSize,
		W:          MakeAF32(inputSize, outputSize),
		B:          MakeAF32(outputSize),
	}

	scale := math32.Sqrt(2 / float32(inputSize))
	for j := 0; j < inputSize; j++ {
		for i := 0; i < outputSize; i++ {
			l.W.Set2(j, i, (r.Float32()-0.5)*2*scale)
		}
	}

	return l
}

// Apply the layer in the forward direction to a single sample, returning the
// number of sigmoid inputs that had to be clipped.
//
// x (input) is the layer input.  Shape (lay.InputSize)
// z (output) is the pre-activation linear output.  Shape (lay.OutputSize)
// a (output) is the activated output.  Shape (lay.OutputSize)
func (lay *Layer) Apply(x, z, a []float32) (saturated int) {
	if len(x) != lay.InputSize {
		panic("dimension mismatch")
	}
	if len(z) != lay.OutputSize || len(a) != lay.OutputSize {
		panic("dimension mismatch")
	}
	if !slices.Equal(lay.W.Shape, []int{lay.InputSize, lay.OutputSize}) {
		panic(fmt.Sprintf("lay.W.Shape %v != {%d, %d}", lay.W.Shape, lay.InputSize, lay.OutputSize))
	}

	// z = x . W + b, accumulated row by row so W is read contiguously.
	copy(z, lay.B.V)
	for j := 0; j < lay.InputSize; j++ {
		xj := x[j]
		row := lay.W.Row(j)
		for i := range row {
			z[i] += xj * row[i]
		}
	}

	for i := range z {
		if lay.Activation == Sigmoid && sigmoidSaturated(z[i]) {
			saturated++
		}
		a[i] = lay.Activation.Activate(z[i])
	}

	return saturated
}

// BackpropDelta computes the error signal of the layer feeding this one.
//
// delta (input) is this layer's error signal.  Shape (lay.OutputSize)
// zPrev (input) is the previous layer's pre-activation.  Shape (lay.InputSize)
// prevActivation is the previous layer's activation function.
// deltaPrev (output) is the previous layer's error signal.  Shape (lay.InputSize)
func (lay *Layer) BackpropDelta(delta, zPrev []float32, prevActivation ActivationType, deltaPrev []float32) {
	if len(delta) != lay.OutputSize {
		panic("dimension mismatch")
	}
	if len(zPrev) != lay.InputSize || len(deltaPrev) != lay.InputSize {
		panic("dimension mismatch")
	}

	for j := 0; j < lay.InputSize; j++ {
		deltaPrev[j] = denseDot2(lay.W.Row(j), delta) * prevActivation.Gradient(zPrev[j])
	}
}

// Update applies one gradient-descent step to the layer's parameters.
//
// x (input) is the layer input seen by the forward pass.  Shape (lay.InputSize)
// delta (input) is this layer's error signal.  Shape (lay.OutputSize)
func (lay *Layer) Update(x, delta []float32, learningRate float32) {
	if len(x) != lay.InputSize || len(delta) != lay.OutputSize {
		panic("dimension mismatch")
	}

	for j := 0; j < lay.InputSize; j++ {
		row := lay.W.Row(j)
		step := learningRate * x[j]
		for k := range row {
			row[k] -= step * delta[k]
		}
	}
	for k := 0; k < lay.OutputSize; k++ {
		lay.B.V[k] -= learningRate * delta[k]
	}
}
