package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"vocadrill/internal/security"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type oauthUserInfo struct {
	Subject string
	Email   string
	Name    string
}

func (h *AuthHandler) googleConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.googleClientID,
		ClientSecret: h.googleClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  h.redirectBase + "/auth/google/callback",
		Scopes:       []string{"openid", "email", "profile"},
	}
}

// StartGoogleOAuth initiates the Google sign-in flow
func (h *AuthHandler) StartGoogleOAuth(w http.ResponseWriter, r *http.Request) {
	if h.googleClientID == "" || h.googleClientSecret == "" {
		respondWithError(w, http.StatusBadRequest, "Google sign-in not configured", "", nil)
		return
	}

	state := security.GenerateSessionID()
	h.setTempCookie(w, "oauth_state", state, 10*time.Minute)

	authURL := h.googleConfig().AuthCodeURL(state, oauth2.AccessTypeOnline)
	http.Redirect(w, r, authURL, http.StatusFound)
}

// GoogleOAuthCallback handles the redirect back from Google
func (h *AuthHandler) GoogleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	if h.googleClientID == "" || h.googleClientSecret == "" {
		respondWithError(w, http.StatusBadRequest, "Google sign-in not configured", "", nil)
		return
	}

	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")
	if code == "" {
		respondWithError(w, http.StatusBadRequest, "Missing authorization code", "", nil)
		return
	}

	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" || stateCookie.Value != state {
		respondWithError(w, http.StatusBadRequest, "Invalid OAuth state", "", nil)
		return
	}
	h.clearTempCookie(w, "oauth_state")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	token, err := h.googleConfig().Exchange(ctx, code)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Failed to exchange OAuth code", "", err)
		return
	}

	userInfo, err := fetchGoogleUser(ctx, token)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Failed to fetch Google user info", "", err)
		return
	}

	session, _, err := h.authService.LoginOAuth("google", userInfo.Subject, userInfo.Email, userInfo.Name)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	h.setSessionCookie(w, r, session)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func fetchGoogleUser(ctx context.Context, token *oauth2.Token) (oauthUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return oauthUserInfo{}, fmt.Errorf("userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return oauthUserInfo{}, fmt.Errorf("userinfo request returned %d", resp.StatusCode)
	}

	var payload struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return oauthUserInfo{}, fmt.Errorf("failed to parse userinfo: %w", err)
	}

	return oauthUserInfo{Subject: payload.ID, Email: payload.Email, Name: payload.Name}, nil
}

func (h *AuthHandler) setTempCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearTempCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
