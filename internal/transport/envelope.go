package transport

import "github.com/Skotchmaster/med_clinic/internal/util"

// Envelope is the shape of every JSON response.
type Envelope struct {
	Success    bool       `json:"success"`
	Data       any        `json:"data,omitempty"`
	Error      string     `json:"error,omitempty"`
	Message    string     `json:"message,omitempty"`
	Pagination *util.Meta `json:"pagination,omitempty"`
}

func OK(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

func Paged(data any, meta util.Meta) Envelope {
	return Envelope{Success: true, Data: data, Pagination: &meta}
}

func Fail(msg string) Envelope {
	return Envelope{Success: false, Error: msg}
}

func Done(msg string) Envelope {
	return Envelope{Success: true, Message: msg}
}
