package types

// SuccessEnvelope mirrors the backend's success payload wrapper.
type SuccessEnvelope[T any] struct {
	Data T `json:"data"`
}

// ErrorEnvelope mirrors the backend's error payload wrapper.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// APIError is the backend's wire-level error shape.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}
