// internal/api/types/response.go
package types

// Envelope is the JSON shape of every API response.
// Data is set on success; Error (and optionally Message) on failure.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// OK wraps data in a successful envelope.
func OK[T any](data T) Envelope[T] {
	return Envelope[T]{Success: true, Data: data}
}

// Fail builds an error envelope.
func Fail(errMsg, message string) Envelope[any] {
	return Envelope[any]{Error: errMsg, Message: message}
}

// TriggerRequest is the body of POST /api/trigger-withdrawal.
type TriggerRequest struct {
	Frequency string `json:"frequency"` // Defaults to monthly
}
