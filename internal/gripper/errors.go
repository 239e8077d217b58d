package gripper

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is.
var (
	// ErrConnection means the transport could not be opened.
	ErrConnection = errors.New("gripper: connection failed")

	// ErrInvalidParameter means a command was rejected before any IO.
	ErrInvalidParameter = errors.New("gripper: invalid parameter")

	// ErrTransport means a read or write failed on the wire or was
	// answered with a device exception.
	ErrTransport = errors.New("gripper: transport fault")

	// ErrNotConnected means an operation was attempted while disconnected.
	ErrNotConnected = errors.New("gripper: not connected")
)

// ConnectionError is returned by Connect.
type ConnectionError struct {
	Endpoint string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("gripper: failed to connect to %s: %v", e.Endpoint, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

func (e *ConnectionError) Is(target error) bool { return target == ErrConnection }

// ParameterError describes a value outside its accepted range.
type ParameterError struct {
	Field string
	Value float64
	Min   float64
	Max   float64
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("gripper: %s %g out of range [%g, %g]", e.Field, e.Value, e.Min, e.Max)
}

func (e *ParameterError) Is(target error) bool { return target == ErrInvalidParameter }
