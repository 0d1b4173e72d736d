package objects

import "net/http"

// ErrorResponse is the body of every API error.
type ErrorResponse struct {
	Error Error `json:"error"`
}

type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewErrorResponse names the error after its HTTP status.
func NewErrorResponse(status int, err error) ErrorResponse {
	return ErrorResponse{
		Error: Error{
			Type:    http.StatusText(status),
			Message: err.Error(),
		},
	}
}
