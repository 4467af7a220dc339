package api

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ErrorCode represents error codes used in API responses.
type ErrorCode string

const (
	// ErrorCodeInvalidRequest represents invalid request parameters.
	ErrorCodeInvalidRequest ErrorCode = "INVALID_REQUEST"

	// ErrorCodeEmptyIncident represents a submission with blank subject and body.
	// User-correctable; no run is started.
	ErrorCodeEmptyIncident ErrorCode = "EMPTY_INCIDENT"

	// ErrorCodeNotFound represents a not found error.
	ErrorCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrorCodeMethodNotAllowed represents an unsupported HTTP method.
	ErrorCodeMethodNotAllowed ErrorCode = "METHOD_NOT_ALLOWED"

	// ErrorCodeRunInProgress represents a run submitted while another is active.
	ErrorCodeRunInProgress ErrorCode = "RUN_IN_PROGRESS"

	// ErrorCodeInternalError represents an internal server error.
	ErrorCodeInternalError ErrorCode = "INTERNAL_ERROR"
)
