// Package respond writes JSON bodies and the error envelope shared by every
// HTTP surface of the service.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

// Error kinds carried in the envelope's "error" field.
const (
	KindValidation     = "ValidationError"
	KindCalculation    = "CalculationError"
	KindInternal       = "InternalServerError"
	KindNotFound       = "ScoreNotFound"
	KindAuthentication = "AuthenticationError"
	KindAuthorization  = "AuthorizationError"
)

// ErrorBody is the uniform error envelope.
type ErrorBody struct {
	Error   string         `json:"error"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

// JSON writes data with the given status.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logrus.WithError(err).Error("encode response")
	}
}

// Error writes the error envelope. A nil details map is sent as {}.
func Error(w http.ResponseWriter, status int, kind, message string, details map[string]any) {
	if details == nil {
		details = map[string]any{}
	}
	JSON(w, status, ErrorBody{Error: kind, Message: message, Details: details})
}
