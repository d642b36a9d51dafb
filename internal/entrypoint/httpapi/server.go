package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"coderhack/internal/domain"
	"coderhack/internal/usecase"
)

type Server struct {
	UC       *usecase.Usecase
	router   *mux.Router
	handler  http.Handler
	validate *validator.Validate
}

// New builds the router. A nil log falls back to the logrus standard logger.
func New(uc *usecase.Usecase, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Server{UC: uc, router: mux.NewRouter(), validate: newValidator()}
	s.routes()

	requests, err := otel.Meter("coderhack/httpapi").Int64Counter("http.server.requests")
	if err != nil {
		log.WithError(err).Warn("request counter unavailable")
		requests = nil
	}
	s.handler = withAccessLog(log, requests, s.router)
	return s
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (s *Server) routes() {
	s.router.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)
	s.router.HandleFunc("/users", s.listUsers).Methods(http.MethodGet)
	s.router.HandleFunc("/users", s.registerUser).Methods(http.MethodPost)
	s.router.HandleFunc("/users/{userId}", s.getUser).Methods(http.MethodGet)
	s.router.HandleFunc("/users/{userId}", s.updateScore).Methods(http.MethodPut)
	s.router.HandleFunc("/users/{userId}", s.deleteUser).Methods(http.MethodDelete)

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, messageOnly{Message: "ok"})
}

// GET /users
func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.UC.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, toUserResponses(users))
}

// GET /users/{userId}
func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	u, err := s.UC.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, msgUserIDNotExist)
			return
		}
		writeError(w, r, err, userID)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// POST /users
func (s *Server) registerUser(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MiB
	defer r.Body.Close()

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgMalformedBody)
		return
	}
	if fields := s.validateRegister(req); len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, fields)
		return
	}

	u, err := s.UC.RegisterUser(r.Context(), req.UserID, req.Username)
	if err != nil {
		writeError(w, r, err, req.UserID)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(u))
}

// validateRegister returns per-field messages, empty when the request is valid.
func (s *Server) validateRegister(req registerRequest) map[string]string {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	fields := map[string]string{}
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		fields["request"] = err.Error()
		return fields
	}
	for _, fe := range vErrs {
		msg, ok := registerFieldMessages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fe.Error()
		}
		fields[fe.Field()] = msg
	}
	return fields
}

// PUT /users/{userId}?score=<int>
func (s *Server) updateScore(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	raw := r.URL.Query().Get("score")
	if raw == "" {
		writeMessage(w, http.StatusBadRequest, msgScoreRequired)
		return
	}
	score, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, msgScoreNotInteger)
		return
	}
	if err := domain.ValidateScore(score); err != nil {
		writeError(w, r, err, userID)
		return
	}

	u, err := s.UC.UpdateScore(r.Context(), userID, score)
	if err != nil {
		writeError(w, r, err, userID)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// DELETE /users/{userId}
func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if err := s.UC.DeleteUser(r.Context(), userID); err != nil {
		writeError(w, r, err, userID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
