package model

import "fmt"

// TransportError is a failure of the transport itself, before any HTTP
// response was received.
type TransportError struct {
	Code    string
	Message string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// TransportResult is the outcome of fetching a metadata URL. Either Err is
// set, or StatusCode and Body are.
type TransportResult struct {
	StatusCode int
	Body       []byte
	Err        *TransportError
}

// NewTransportSuccess returns a result for a received HTTP response.
func NewTransportSuccess(statusCode int, body []byte) *TransportResult {
	return &TransportResult{StatusCode: statusCode, Body: body}
}

// NewTransportFailure returns a result for a transport error.
func NewTransportFailure(code, message string) *TransportResult {
	return &TransportResult{Err: &TransportError{Code: code, Message: message}}
}

// Failed reports whether the transport itself failed.
func (r *TransportResult) Failed() bool {
	return r.Err != nil
}
