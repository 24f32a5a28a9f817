package model

// Response is a generic struct for API responses
type Response struct {
	Data    interface{} `json:"data,omitempty"`
	Error   *string     `json:"error,omitempty"`
	Message string      `json:"message"`
}

// NewErrorResponse builds the envelope used for failed requests.
func NewErrorResponse(msg string) Response {
	return Response{Error: &msg, Message: "Error"}
}

// NewSuccessResponse wraps data in the envelope used for successful requests.
func NewSuccessResponse(data interface{}) Response {
	return Response{Data: data, Message: "Success"}
}
