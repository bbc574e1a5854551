package upstream

import "fmt"

// ErrorClass represents a classification of upstream failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx responses from the upstream API.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx responses from the upstream API.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents connection and timeout failures.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassDecode represents unparseable response bodies.
	ErrorClassDecode ErrorClass = "decode"
)

// Error represents a failed upstream call with its classification and
// whatever diagnostic detail the upstream returned. It is never cached;
// handlers map it to a server-error response carrying the details.
type Error struct {
	// StatusCode is the upstream HTTP status, 0 for network failures.
	StatusCode int
	Class      ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream %s error (status %d): %s: %v",
			e.Class, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("upstream %s error (status %d): %s",
		e.Class, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}
