package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/bowmanhq/bowman/pkg/errors"
)

type errorBody struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code"`
	// RequiresInitialization tells the client to offer repository setup.
	RequiresInitialization bool `json:"requiresInitialization,omitempty"`
}

type successBody struct {
	Success bool `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps error codes to HTTP statuses.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidPath, errors.ErrCodeInvalidAimID,
		errors.ErrCodeInvalidStatus, errors.ErrCodeInvalidType, errors.ErrCodeRepoNotSelected,
		errors.ErrCodeAlreadyInitialized:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeAimNotFound, errors.ErrCodeMetaNotFound,
		errors.ErrCodeRepoNotInitialized:
		return http.StatusNotFound
	case errors.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

// writeError writes err as an error body. Errors without a code are
// internal: they are logged and reported with fallback as the message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	code := errors.GetCode(err)
	msg := errors.UserMessage(err)
	if code == "" || code == errors.ErrCodeInternal {
		s.logger.Error(fallback, "method", r.Method, "path", r.URL.Path, "err", err)
		code, msg = errors.ErrCodeInternal, fallback
	}
	writeJSON(w, statusFor(code), errorBody{Error: msg, Code: code})
}

// decodeBody decodes a JSON request body into v. An empty body leaves v
// untouched.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && err != io.EOF {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid JSON body")
	}
	return nil
}
