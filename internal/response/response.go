// internal/response/response.go
//
// Uniform HTTP responses.
//
// Context
// -------
// Controllers terminate requests through these helpers so the error
// taxonomy stays consistent: 404 for anything absent or filtered out, 403
// for missing admin capability, 405 for CSRF/method rejections, 500 for
// storage failures.  Messages are generic on purpose — detail goes to the
// log, never to the client.
//
// JSON endpoints use the two-key envelope {message?, csrf_token?}.

package response

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Envelope is the JSON body shape shared by the AJAX endpoints.
type Envelope struct {
	Message   string `json:"message,omitempty"`
	CSRFToken string `json:"csrf_token,omitempty"`
}

// NotFound sends a generic 404.
func NotFound(w http.ResponseWriter) {
	http.Error(w, "Item not found.", http.StatusNotFound)
}

// Forbidden sends a generic 403.
func Forbidden(w http.ResponseWriter) {
	http.Error(w, "Access denied.", http.StatusForbidden)
}

// ServerError sends a 500 with a caller-chosen, client-safe message.
func ServerError(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "Internal server error."
	}
	http.Error(w, msg, http.StatusInternalServerError)
}

// Redirect issues a 302 to url.
func Redirect(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusFound)
}

// JSON writes the envelope with the given status code.
func JSON(w http.ResponseWriter, code int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.S().Errorw("json encode failed", "err", err)
	}
}
