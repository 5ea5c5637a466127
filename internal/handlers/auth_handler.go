package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"vocadrill/internal/models"
	"vocadrill/internal/security"
	"vocadrill/internal/service"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService  *service.AuthService
	emailService *service.EmailService

	googleClientID     string
	googleClientSecret string
	redirectBase       string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, emailService *service.EmailService, googleClientID, googleClientSecret, redirectBase string) *AuthHandler {
	return &AuthHandler{
		authService:        authService,
		emailService:       emailService,
		googleClientID:     googleClientID,
		googleClientSecret: googleClientSecret,
		redirectBase:       redirectBase,
	}
}

func userView(user *models.User) map[string]interface{} {
	return map[string]interface{}{
		"id":    user.ID,
		"email": user.Email,
		"name":  user.Name,
	}
}

// Register handles account creation
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.authService.Register(req.Email, req.Password, req.Name)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := h.emailService.SendWelcomeEmail(ctx, user.Email, user.Name); err != nil {
			log.Printf("Failed to send welcome email to %s: %v", user.Email, err)
		}
	}()

	respondJSON(w, http.StatusCreated, userView(user))
}

// Login authenticates and sets a session cookie
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	session, user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	h.setSessionCookie(w, r, session)
	respondJSON(w, http.StatusOK, userView(user))
}

// Logout clears the session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("session_id"); err == nil {
		if err := h.authService.Logout(cookie.Value); err != nil {
			log.Printf("Failed to delete session: %v", err)
		}
	}

	http.SetCookie(w, security.CreateDeleteCookie(r, "session_id"))
	respondJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

// Me returns the authenticated user
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	respondJSON(w, http.StatusOK, userView(user))
}

// Token issues a bearer token for API clients
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	token, err := h.authService.IssueAPIToken(user.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Token issuing not available", "Failed to issue token", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"token": token})
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, r *http.Request, session *models.Session) {
	http.SetCookie(w, security.CreateSessionCookie(r, "session_id", session.ID, session.ExpiresAt))
}
