// Package httpx provides the JSON response envelope used by every endpoint.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/schooladmin/schooladmin/internal/shared"
)

// Envelope statuses.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Envelope is the uniform response body.
type Envelope struct {
	Status     string             `json:"status"`
	Message    string             `json:"message"`
	Data       any                `json:"data,omitempty"`
	Pagination *shared.Pagination `json:"pagination,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Success writes a success envelope.
func Success(w http.ResponseWriter, status int, message string, data any) {
	JSON(w, status, Envelope{Status: StatusSuccess, Message: message, Data: data})
}

// Page writes a success envelope with pagination metadata.
func Page(w http.ResponseWriter, message string, data any, p shared.Pagination) {
	JSON(w, http.StatusOK, Envelope{Status: StatusSuccess, Message: message, Data: data, Pagination: &p})
}

// Failure writes a failure envelope.
func Failure(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{Status: StatusFailure, Message: message})
}

// DecodeJSON decodes JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	if r.Body == nil {
		return shared.Validation("Request body is required.")
	}
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return shared.Validation("Request body is required.")
		}
		return &shared.Error{Kind: shared.ErrValidation, Message: fmt.Sprintf("Malformed JSON body: %v", err)}
	}
	return nil
}
