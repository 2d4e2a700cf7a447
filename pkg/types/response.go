// Package types holds the JSON envelopes shared by every cart and checkout
// endpoint.
package types

// SuccessEnvelope wraps handler payloads (cart state, submitted orders).
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the wire form of a coded error. Details carries per-field
// validation messages when the order form is incomplete.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
