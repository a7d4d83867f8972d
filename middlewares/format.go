package middlewares

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"posts-api/apperrors"
)

// RespondJSON writes a success payload with the given status.
func RespondJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("Error encoding response: %v", err)
		}
	}
}

type errorDetail struct {
	Message    string              `json:"message"`
	StatusCode int                 `json:"statusCode"`
	Timestamp  string              `json:"timestamp"`
	Path       string              `json:"path"`
	Details    map[string][]string `json:"details,omitempty"`
}

type errorEnvelope struct {
	Success bool        `json:"success"`
	Error   errorDetail `json:"error"`
}

// WriteError is the single point that turns any failure into the
// client-visible error envelope. Wrapped causes are logged here and
// never serialized.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperrors.KindOf(err)
	status := kind.StatusCode()
	message := "Internal server error"

	var details map[string][]string
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		message = appErr.Message
		if len(appErr.Fields) > 0 {
			details = make(map[string][]string, len(appErr.Fields))
			for _, field := range appErr.Fields {
				details[field.Field] = append(details[field.Field], field.Message)
			}
		}
	}

	log.Printf("HTTP %d - %s %s: %+v", status, r.Method, r.URL.Path, err)

	RespondJSON(w, errorEnvelope{
		Success: false,
		Error: errorDetail{
			Message:    message,
			StatusCode: status,
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
			Path:       r.URL.Path,
			Details:    details,
		},
	}, status)
}

// NotFoundHandler answers requests that matched no route.
func NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		RespondJSON(w, map[string]interface{}{
			"success": false,
			"message": "Route not found",
			"path":    r.URL.Path,
		}, http.StatusNotFound)
	})
}
