// Package common contains shared constants, sentinel errors and small helpers
// used by the readkeeper client packages.
package common

// Header names understood by the read-later API.
const (
	// AcceptHeaderName asks the API to answer with JSON instead of form encoding.
	AcceptHeaderName = "X-Accept"

	// CorrelationHeaderName carries a per-request id for log correlation.
	CorrelationHeaderName = "X-Correlation-Id"

	// ErrorHeaderName and ErrorCodeHeaderName carry the API failure reason.
	ErrorHeaderName     = "X-Error"
	ErrorCodeHeaderName = "X-Error-Code"
)
