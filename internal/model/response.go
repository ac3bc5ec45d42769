package model

type SendStatus string

const (
	StatusSuccess SendStatus = "success"
	StatusError   SendStatus = "error"
)

// SendResponse is the body returned by POST /send-events.
type SendResponse struct {
	Status  SendStatus `json:"status"`
	Message string     `json:"message,omitempty"`
}

func Success() SendResponse { return SendResponse{Status: StatusSuccess} }

func Failure(msg string) SendResponse {
	return SendResponse{Status: StatusError, Message: msg}
}
