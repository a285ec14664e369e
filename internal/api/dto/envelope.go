package dto

import (
	"net/http"
	"time"
)

// SuccessEnvelope is the uniform body for successful responses.
type SuccessEnvelope struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// ErrorEnvelope is the uniform body for failure responses.
type ErrorEnvelope struct {
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// NewSuccess builds a success envelope.
func NewSuccess(status int, code, message string, data any) SuccessEnvelope {
	return SuccessEnvelope{Status: status, Code: code, Message: message, Data: data}
}

// NewError builds an error envelope stamped with the current time.
func NewError(status int, code, message string) ErrorEnvelope {
	return ErrorEnvelope{
		Status:    status,
		Error:     http.StatusText(status),
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}
