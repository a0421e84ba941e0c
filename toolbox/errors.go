package toolbox

import "fmt"

// ConfigurationError reports a network that cannot be constructed.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid network configuration: " + e.Reason
}

// DimensionMismatchError reports an input or target vector whose length does
// not match the network's architecture.  The failed call has not modified the
// network.
type DimensionMismatchError struct {
	Operand   string // "input" or "target"
	Got, Want int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch: %s has length %d, want %d", e.Operand, e.Got, e.Want)
}
