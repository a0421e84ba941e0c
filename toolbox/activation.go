package toolbox

import (
	"fmt"

	"github.com/chewxy/math32"
)

type ActivationType int

const (
	Linear ActivationType = iota
	Tanh
	ReLU
	Sigmoid
	GELU
)

var activationNames = []string{
	Linear:  "linear",
	Tanh:    "tanh",
	ReLU:    "relu",
	Sigmoid: "sigmoid",
	GELU:    "gelu",
}

func (t ActivationType) String() string {
	if !t.valid() {
		return fmt.Sprintf("ActivationType(%d)", int(t))
	}
	return activationNames[t]
}

func (t ActivationType) valid() bool {
	return t >= 0 && int(t) < len(activationNames)
}

// ParseActivationType maps a name such as "tanh" to its ActivationType.
func ParseActivationType(name string) (ActivationType, error) {
	for t, n := range activationNames {
		if n == name {
			return ActivationType(t), nil
		}
	}
	return 0, &ConfigurationError{Reason: fmt.Sprintf("unknown activation %q", name)}
}

// Sigmoid inputs are clipped to [-sigmoidClip, sigmoidClip] before
// exponentiation.
const sigmoidClip = 20

// Constants of the tanh approximation of GELU.
const (
	geluC     = 0.7978845608 // sqrt(2/pi)
	geluCubic = 0.044715
)

// Activate evaluates the activation function at the pre-activation z.
func (t ActivationType) Activate(z float32) float32 {
	switch t {
	case Linear:
		return z
	case Tanh:
		return math32.Tanh(z)
	case ReLU:
		return math32.Max(0, z)
	case Sigmoid:
		return sigmoid(z)
	case GELU:
		inner := geluC * (z + geluCubic*z*z*z)
		return 0.5 * z * (1 + math32.Tanh(inner))
	default:
		panic("unhandled activation function")
	}
}

// Gradient evaluates the derivative of the activation function at the
// pre-activation z.
func (t ActivationType) Gradient(z float32) float32 {
	switch t {
	case Linear:
		return 1
	case Tanh:
		th := math32.Tanh(z)
		return 1 - th*th
	case ReLU:
		if z > 0 {
			return 1
		}
		return 0
	case Sigmoid:
		s := sigmoid(z)
		return s * (1 - s)
	case GELU:
		inner := geluC * (z + geluCubic*z*z*z)
		th := math32.Tanh(inner)
		return 0.5*(1+th) + 0.5*z*(1-th*th)*geluC*(1+3*geluCubic*z*z)
	default:
		panic("unhandled activation function")
	}
}

func sigmoid(z float32) float32 {
	z = math32.Max(-sigmoidClip, math32.Min(sigmoidClip, z))
	return 1 / (1 + math32.Exp(-z))
}

func sigmoidSaturated(z float32) bool {
	return z < -sigmoidClip || z > sigmoidClip
}
