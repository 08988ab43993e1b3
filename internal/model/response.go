package model

// ErrorDetail describes a single field-level validation problem
type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ErrorResponse is the standard error envelope returned by every handler
type ErrorResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

// MessageResponse is a simple confirmation payload
type MessageResponse struct {
	Message string `json:"message"`
}
