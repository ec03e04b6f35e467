package api

// Envelope is the uniform response shape of every backend endpoint.
// Data is nil when the backend sent none, which is a valid outcome for
// side-effect-only calls such as login and register.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    *T     `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

// Text returns the backend message, falling back to the error field.
func (e *Envelope[T]) Text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// Err converts an unsuccessful envelope into an *Error. It returns nil when
// Success is true.
func (e *Envelope[T]) Err() error {
	if e == nil {
		return &Error{Kind: KindRejected}
	}
	if e.Success {
		return nil
	}
	msg := e.Text()
	kind := classify(0, e.Code, msg)
	if kind == KindUnknown {
		kind = KindRejected
	}
	return &Error{Kind: kind, Code: e.Code, Message: msg}
}
