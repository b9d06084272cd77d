package transport

import "encoding/json"

// Pagination reports the total filtered count alongside the requested page.
type Pagination struct {
	Total   int `json:"total"`
	Page    int `json:"page"`
	PerPage int `json:"perPage"`
}

// Envelope is the standard API response wrapper used for both success and error payloads.
type Envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// NewSuccess returns a success envelope.
func NewSuccess(message string, data interface{}) Envelope {
	if message == "" {
		message = "Success"
	}
	return Envelope{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// NewPaginated returns a success envelope carrying page metadata.
func NewPaginated(message string, data interface{}, pagination Pagination) Envelope {
	env := NewSuccess(message, data)
	env.Pagination = &pagination
	return env
}

// NewError returns an error envelope.
func NewError(message string) Envelope {
	return Envelope{
		Success: false,
		Message: message,
	}
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}
