// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package devserver is an in-memory stand-in for the Legal Toolkit web portal
// API. It serves the endpoints the bridge talks to (login, profile, health)
// plus registration, with the same status codes and detail texts, and is used
// by the package tests and by `authbridge devserver` for local development.
package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"legaltoolkit/authbridge/internal/backend"
	"legaltoolkit/authbridge/internal/logging"
)

// Detail texts returned in {"detail": ...} bodies.
const (
	DetailEmailTaken     = "Email already registered"
	DetailBadCredentials = "Incorrect email or password"
	DetailInactive       = "Inactive user"
	DetailInvalidToken   = "Invalid authentication credentials"
	DetailUserNotFound   = "User not found"
)

// Server wires a user repository and a token issuer to HTTP handlers.
type Server struct {
	users  *Users
	tokens *Issuer
	log    logrus.FieldLogger
	now    func() time.Time
}

// New creates a Server. log may be nil.
func New(users *Users, tokens *Issuer, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logging.Discard()
	}
	return &Server{users: users, tokens: tokens, log: log.WithField("component", "devserver"), now: time.Now}
}

// Users exposes the repository, e.g. for seeding.
func (s *Server) Users() *Users { return s.users }

// Router returns the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc(backend.PathLogin, s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc(backend.PathProfile, s.handleProfile).Methods(http.MethodGet)
	r.Use(s.logRequests)
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := s.now()
		next.ServeHTTP(w, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": s.now().Sub(start).String(),
		}).Debug("request")
	})
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": s.now().UTC().Format(time.RFC3339Nano),
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if missing := missingFields(map[string]string{"email": req.Email, "password": req.Password}); len(missing) > 0 {
		writeValidation(w, missing)
		return
	}

	u, err := s.users.Register(req.Email, req.Password, req.FullName)
	switch {
	case errors.Is(err, ErrEmailTaken):
		writeDetail(w, http.StatusBadRequest, DetailEmailTaken)
		return
	case err != nil:
		s.log.WithError(err).Error("register failed")
		writeDetail(w, http.StatusInternalServerError, "Registration failed")
		return
	}
	writeJSON(w, http.StatusOK, u.Profile())
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req backend.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if missing := missingFields(map[string]string{"email": req.Email, "password": req.Password}); len(missing) > 0 {
		writeValidation(w, missing)
		return
	}

	u, err := s.users.Authenticate(req.Email, req.Password)
	switch {
	case errors.Is(err, ErrBadCredentials):
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeDetail(w, http.StatusUnauthorized, DetailBadCredentials)
		return
	case errors.Is(err, ErrInactive):
		writeDetail(w, http.StatusBadRequest, DetailInactive)
		return
	case err != nil:
		writeDetail(w, http.StatusInternalServerError, "Login failed")
		return
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		s.log.WithError(err).Error("sign token")
		writeDetail(w, http.StatusInternalServerError, "Login failed")
		return
	}
	writeJSON(w, http.StatusOK, backend.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		unauthorized(w, DetailInvalidToken)
		return
	}
	id, err := s.tokens.Verify(token)
	if err != nil {
		unauthorized(w, DetailInvalidToken)
		return
	}
	u, err := s.users.Get(id)
	if err != nil {
		unauthorized(w, DetailUserNotFound)
		return
	}
	writeJSON(w, http.StatusOK, u.Profile())
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeDetail(w, http.StatusUnauthorized, detail)
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(out); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]any{{"loc": []string{"body"}, "msg": "invalid JSON body", "type": "value_error.jsondecode"}},
		})
		return false
	}
	return true
}

func missingFields(fields map[string]string) []string {
	var missing []string
	for _, name := range []string{"email", "password"} {
		if v, ok := fields[name]; ok && strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

func writeValidation(w http.ResponseWriter, missing []string) {
	detail := make([]map[string]any, 0, len(missing))
	for _, name := range missing {
		detail = append(detail, map[string]any{
			"loc":  []string{"body", name},
			"msg":  "field required",
			"type": "value_error.missing",
		})
	}
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": detail})
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
