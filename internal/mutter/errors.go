package mutter

import (
	"fmt"
	"strings"
)

// ProtocolShapeError reports a DisplayConfig reply whose structure does not
// match the expected signature.
type ProtocolShapeError struct {
	Path string
	Err  error
}

func (e *ProtocolShapeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Path == "" {
		return fmt.Sprintf("malformed display state: %v", e.Err)
	}
	return fmt.Sprintf("malformed display state at %s: %v", e.Path, e.Err)
}

func (e *ProtocolShapeError) Unwrap() error { return e.Err }

func shapeErrorf(path string, format string, args ...any) error {
	return &ProtocolShapeError{Path: path, Err: fmt.Errorf(format, args...)}
}

// TransportError reports a failed or timed out D-Bus call.
type TransportError struct {
	Method string
	Err    error
}

func (e *TransportError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s.%s: %v", Interface, e.Method, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UnresolvedConnector is a connector that could not be mapped to a current
// mode while encoding an apply request.
type UnresolvedConnector struct {
	LogicalMonitor int    `json:"logical_monitor" yaml:"logical_monitor"`
	Connector      string `json:"connector" yaml:"connector"`
	Reason         string `json:"reason" yaml:"reason"`
}

func (u UnresolvedConnector) String() string {
	return fmt.Sprintf("%s (logical monitor %d): %s", u.Connector, u.LogicalMonitor, u.Reason)
}

// UnresolvedConnectorError is returned by strict applies when at least one
// connector has no monitor or no current mode in the stored state.
type UnresolvedConnectorError struct {
	Connectors []UnresolvedConnector
}

func (e *UnresolvedConnectorError) Error() string {
	parts := make([]string, 0, len(e.Connectors))
	for _, c := range e.Connectors {
		parts = append(parts, c.String())
	}
	return "cannot resolve current mode for " + strings.Join(parts, ", ")
}
