// Package response writes the JSON envelopes every endpoint answers with.
package response

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/dtroode/vidtube-server/internal/logger"
	"github.com/dtroode/vidtube-server/internal/model"
)

// Envelope wraps every successful response.
type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// ErrorEnvelope wraps every failed response.
type ErrorEnvelope struct {
	StatusCode int               `json:"statusCode"`
	Message    string            `json:"message"`
	Success    bool              `json:"success"`
	Errors     map[string]string `json:"errors,omitempty"`
}

const genericErrorMessage = "Something went wrong"

var bufferPool = sync.Pool{
	New: func() any { return new(bytes.Buffer) },
}

// JSON sends payload with the given status code.
func JSON(w http.ResponseWriter, log *logger.Logger, status int, payload any) {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufferPool.Put(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		log.Error("Failed to encode JSON response", "error", err.Error())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"statusCode":500,"message":"Something went wrong","success":false}` + "\n"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Error("Failed to write response buffer", "error", err.Error())
	}
}

// Success sends data inside the success envelope.
func Success(w http.ResponseWriter, log *logger.Logger, status int, data any, message string) {
	JSON(w, log, status, Envelope{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < http.StatusBadRequest,
	})
}

// Error converts err into the error envelope. Errors that are not an
// APIError are logged and reported as a generic 500.
func Error(w http.ResponseWriter, log *logger.Logger, err error) {
	status, body := Describe(err)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", "status", status, "error", err.Error())
	}
	JSON(w, log, status, body)
}

// Describe maps err onto a status code and error envelope.
func Describe(err error) (int, ErrorEnvelope) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode, ErrorEnvelope{
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
			Errors:     apiErr.Details,
		}
	}

	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return http.StatusRequestEntityTooLarge, ErrorEnvelope{
			StatusCode: http.StatusRequestEntityTooLarge,
			Message:    "Request body is too large",
		}
	}

	return http.StatusInternalServerError, ErrorEnvelope{
		StatusCode: http.StatusInternalServerError,
		Message:    genericErrorMessage,
	}
}
