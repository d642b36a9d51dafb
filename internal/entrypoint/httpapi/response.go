package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"coderhack/internal/domain"
)

const (
	msgUserIDNotExist  = "Provided userId does not exist."
	msgMalformedBody   = "Malformed request body"
	msgScoreRequired   = "Required request parameter 'score' is not present"
	msgScoreNotInteger = "Request parameter 'score' must be an integer"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeMessage sends a bare JSON string body.
func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, msg)
}

// statusFor is the fixed error kind -> status table.
func statusFor(err error) int {
	var vErr *domain.ErrValidation
	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders a usecase error for the user identified by userID.
func writeError(w http.ResponseWriter, r *http.Request, err error, userID string) {
	status := statusFor(err)

	var vErr *domain.ErrValidation
	switch {
	case errors.As(err, &vErr):
		if len(vErr.Fields) > 0 {
			writeJSON(w, status, vErr.Fields)
			return
		}
		writeMessage(w, status, vErr.Cause)
	case errors.Is(err, domain.ErrNotFound):
		writeMessage(w, status, fmt.Sprintf("User with ID %s does not exist", userID))
	case errors.Is(err, domain.ErrAlreadyExists):
		writeMessage(w, status, fmt.Sprintf("User with ID %s already exists", userID))
	default:
		requestLogger(r).WithError(err).WithField("user_id", userID).Error("store failure")
		writeMessage(w, status, http.StatusText(status))
	}
}

func requestLogger(r *http.Request) logrus.FieldLogger {
	if log, ok := r.Context().Value(ctxKeyLog{}).(logrus.FieldLogger); ok {
		return log
	}
	return logrus.StandardLogger()
}
