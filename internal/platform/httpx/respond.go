// Package httpx provides HTTP response utilities.
package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// MessageBody is the JSON body returned on every error path.
type MessageBody struct {
	Message string `json:"message"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Message sends a {message} response.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, MessageBody{Message: msg})
}

// PDF writes an inline PDF document.
func PDF(w http.ResponseWriter, filename string, pdf []byte) error {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	_, err := w.Write(pdf)
	return err
}

// DecodeJSON decodes JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	if r.Body == nil {
		return Errorf(ErrValidation, "request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return Errorf(ErrValidation, "invalid JSON body")
	}
	return nil
}
