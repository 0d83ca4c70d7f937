package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/jonathan/voicereview/internal/db"
	"github.com/jonathan/voicereview/internal/review"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &review.ValidationError{Violations: []review.FieldViolation{
			{Field: "body", Message: "invalid JSON"},
		}})
		return
	}

	var violations []review.FieldViolation
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		violations = append(violations, review.FieldViolation{Field: "email", Message: "valid email required"})
	}
	if len(req.Password) < 8 {
		violations = append(violations, review.FieldViolation{Field: "password", Message: "must be at least 8 characters"})
	}
	if len(violations) > 0 {
		writeError(w, &review.ValidationError{Violations: violations})
		return
	}

	existing, err := s.database.GetUserByEmail(r.Context(), req.Email)
	var notFound *db.NotFoundError
	if err != nil && !errors.As(err, &notFound) {
		writeError(w, err)
		return
	}
	if existing != nil {
		writeJSON(w, http.StatusConflict, errorResponse{Error: "email already registered"})
		return
	}

	hash, err := s.passwords.HashPassword(req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := s.database.CreateUser(r.Context(), req.Email, hash)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{Token: token, Email: user.Email})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &review.ValidationError{Violations: []review.FieldViolation{
			{Field: "body", Message: "invalid JSON"},
		}})
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	user, err := s.database.GetUserByEmail(r.Context(), req.Email)
	var notFound *db.NotFoundError
	if err != nil && !errors.As(err, &notFound) {
		writeError(w, err)
		return
	}
	// Same response for unknown email and wrong password.
	if user == nil || !s.passwords.VerifyPassword(user.PasswordHash, req.Password) {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
		return
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token, Email: user.Email})
}
