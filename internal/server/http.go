// Package server exposes the auth service over HTTP. Handlers only decode
// requests, call the service, and map its sentinel errors to status codes;
// no authentication logic lives here.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"auth-service/internal/auth/service"
	twofadomain "auth-service/internal/twofa/domain"
	userdomain "auth-service/internal/user/domain"
)

// sessionCookieName carries the session token between requests.
const sessionCookieName = "jwt"

// Server holds the HTTP handlers for the auth endpoints.
type Server struct {
	auth *service.AuthService
}

// New returns a Server backed by auth.
func New(auth *service.AuthService) *Server {
	return &Server{auth: auth}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /signup", s.handleSignup)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("POST /verify-2fa", s.handleVerifyTwoFA)
	mux.HandleFunc("POST /logout", s.handleLogout)
	mux.HandleFunc("POST /verify-token", s.handleVerifyToken)
	return mux
}

type signupRequest struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	RequiresTwoFA bool   `json:"requires2FA"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyTwoFARequest struct {
	Email          string `json:"email"`
	LoginAttemptID string `json:"loginAttemptId"`
	TwoFACode      string `json:"2FACode"`
}

type verifyTokenRequest struct {
	Token string `json:"token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type twoFAResponse struct {
	Message        string `json:"message"`
	LoginAttemptID string `json:"loginAttemptId"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	em, err := userdomain.ParseEmail(req.Email)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	password, err := userdomain.ParsePassword(req.Password)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.auth.Signup(r.Context(), em, password, req.RequiresTwoFA); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, messageResponse{Message: "User created successfully"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	em, err := userdomain.ParseEmail(req.Email)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	password, err := userdomain.ParsePassword(req.Password)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := s.auth.Login(r.Context(), em, password)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if res.TwoFARequired {
		writeJSON(w, http.StatusPartialContent, twoFAResponse{
			Message:        "2FA required",
			LoginAttemptID: res.LoginAttemptID.String(),
		})
		return
	}
	setSessionCookie(w, res.Token, res.ExpiresAt)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Login successful"})
}

func (s *Server) handleVerifyTwoFA(w http.ResponseWriter, r *http.Request) {
	var req verifyTwoFARequest
	if !decodeJSON(w, r, &req) {
		return
	}
	em, err := userdomain.ParseEmail(req.Email)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	attemptID, err := twofadomain.ParseLoginAttemptID(req.LoginAttemptID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	code, err := twofadomain.ParseTwoFACode(req.TwoFACode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := s.auth.VerifyTwoFA(r.Context(), em, attemptID, code)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	setSessionCookie(w, res.Token, res.ExpiresAt)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Login successful"})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		writeError(w, http.StatusBadRequest, service.ErrMissingToken)
		return
	}

	if err := s.auth.Logout(r.Context(), cookie.Value); err != nil {
		s.writeServiceError(w, err)
		return
	}
	clearSessionCookie(w)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Logout successful"})
}

func (s *Server) handleVerifyToken(w http.ResponseWriter, r *http.Request) {
	var req verifyTokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if _, err := s.auth.VerifyToken(r.Context(), req.Token); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Token is valid"})
}

// writeServiceError maps auth service sentinels to status codes. Anything
// outside the taxonomy is an internal failure and stays opaque to the caller.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUserAlreadyExists):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, service.ErrIncorrectCredentials):
		writeError(w, http.StatusUnauthorized, err)
	case errors.Is(err, service.ErrMissingToken):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, service.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, err)
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "unexpected error"})
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "malformed request body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func setSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
