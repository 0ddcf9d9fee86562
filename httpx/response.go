package httpx

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the envelope for every failed request.
// Errors carries field-keyed validation messages when the input was structurally invalid.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Errors map[string]string `json:"errors,omitempty"`
}

// MessageResponse is the envelope for successful writes.
type MessageResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	var body []byte
	var err error
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			// best-effort error response; avoid writing partial JSON
			http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
			return
		}
	} else {
		body = []byte("null")
	}
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		// nothing we can do at this point
		_ = err
	}
}

func JSONError(w http.ResponseWriter, status int, msg string, errs map[string]string) {
	JSON(w, status, ErrorResponse{Error: msg, Errors: errs})
}

// Message writes a {message, data} envelope.
func Message(w http.ResponseWriter, status int, msg string, data any) {
	JSON(w, status, MessageResponse{Message: msg, Data: data})
}
