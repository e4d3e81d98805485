package statusapi

import "fmt"

// TransportError means the request could not be completed at all
// (DNS failure, timeout, connection reset).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "status request failed: " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError means the request completed but the server answered with a
// non-success status code.
type ProtocolError struct {
	StatusCode int
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("status endpoint returned HTTP %d", e.StatusCode)
}

// SchemaError means the response body does not match the documented shape.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string { return "unexpected response shape: " + e.Reason }
