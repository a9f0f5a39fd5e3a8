package handlers

// ErrorResponse is the standard JSON error envelope
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Details map[string]interface{} `json:"details,omitempty"`
}
