package dto

// ErrorResponse is the wire shape for every failure: the message
// carries the human-readable cause, the status code carries the kind.
type ErrorResponse struct {
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}
