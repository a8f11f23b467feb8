// shared/api/response.go
package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gripclub/registration-service/shared/apperrors"
)

// JSONErrorResponse is the error envelope every endpoint returns.
type JSONErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a JSON error response with the given status code and message.
func WriteError(w http.ResponseWriter, status int, message string) {
	// Attempt to write JSON, fall back to plain text if JSON encoding fails
	if err := WriteJSON(w, status, JSONErrorResponse{Error: message}); err != nil {
		log.Printf("ERROR: Failed to write JSON error response: %v. Falling back to plain text.", err)
		http.Error(w, message, status) // Fallback
	}
}

// WriteDomainError maps a service-layer error to its HTTP status. Backend
// failures are logged server-side and reported to the client with a generic
// message so no datastore detail leaks out.
func WriteDomainError(w http.ResponseWriter, err error) {
	code := apperrors.CodeOf(err)
	if code == apperrors.CodeBackend {
		log.Printf("ERROR: backend failure: %v", err)
		WriteError(w, code.HTTPStatus(), "Internal server error")
		return
	}
	WriteError(w, code.HTTPStatus(), err.Error())
}

// WriteMethodNotAllowed reports an unsupported method on a known route.
func WriteMethodNotAllowed(w http.ResponseWriter) {
	WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
}
