package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/rs/xid"
	"github.com/sakif/jobtrack/internal/apperror"
	"github.com/sakif/jobtrack/internal/auth"
	"github.com/sakif/jobtrack/internal/service"
)

// AuthHandler exposes registration, login, and the current-user lookup.
//
// HANDLER RESPONSIBILITIES:
//   - HandleRegister → POST /api/auth/register, 201 {token, user}
//   - HandleLogin    → POST /api/auth/login, 200 {token, user}
//   - HandleMe       → GET /api/auth/me (behind RequireAuth)
//
// Handlers only parse HTTP and delegate — every rule (email normalization,
// uniform credential failures, validation) lives in AuthService.
type AuthHandler struct {
	authService *service.AuthService
	logger      *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authService *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// registerRequest is the expected body for POST /api/auth/register.
// A dedicated request struct (rather than decoding into model.User) means
// clients can never smuggle in fields like id or passwordHash.
type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates an account and signs the caller in.
//
// HTTP: POST /api/auth/register
// BODY: {"name": "...", "email": "...", "password": "..."}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	result, err := h.authService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// HandleLogin verifies credentials and issues a token.
//
// HTTP: POST /api/auth/login
// BODY: {"email": "...", "password": "..."}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleMe returns the authenticated caller's profile.
//
// HTTP: GET /api/auth/me
// Auth: Required (RequireAuth sets the identity in context)
//
// Useful for the SPA to restore session state on page load: it has a stored
// token but no user object yet.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		// Should never happen behind RequireAuth, but be safe.
		writeError(w, apperror.Unauthorized("Invalid or expired token"))
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// OAuthHandler runs the optional GitHub sign-in flow. It is only registered
// when GITHUB_CLIENT_ID is configured.
type OAuthHandler struct {
	github       *auth.GitHubProvider
	authService  *service.AuthService
	clientOrigin string
	logger       *slog.Logger
}

// NewOAuthHandler creates an OAuthHandler. clientOrigin is where the SPA
// lives — the callback redirects there with the issued token.
func NewOAuthHandler(github *auth.GitHubProvider, authService *service.AuthService, clientOrigin string, logger *slog.Logger) *OAuthHandler {
	return &OAuthHandler{
		github:       github,
		authService:  authService,
		clientOrigin: clientOrigin,
		logger:       logger,
	}
}

// HandleGitHubLogin redirects the browser to GitHub's authorization page.
//
// HTTP: GET /auth/github/login
//
// CSRF PROTECTION VIA STATE:
// We generate a random state string and store it in a short-lived HttpOnly
// cookie. The callback verifies the state GitHub echoes back matches the
// cookie, proving the flow started here and not on an attacker's page.
func (h *OAuthHandler) HandleGitHubLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   600, // 10 minutes — long enough to approve, short enough to limit risk
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.github.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGitHubCallback completes the sign-in flow.
//
// HTTP: GET /auth/github/callback?code=xxx&state=yyy
//
// FLOW:
//  1. Validate the state parameter (CSRF check)
//  2. Exchange the code for a GitHub user profile
//  3. Upsert the account and issue a bearer token
//  4. Redirect to the SPA with the token in the URL fragment
//
// WHY THE FRAGMENT (#token=...)?
// The API is token-in-header, not cookie-based, so the browser needs a way
// to hand the token to the SPA. Fragments are never sent to servers or
// logged in access logs, which makes them the least-bad vehicle here.
func (h *OAuthHandler) HandleGitHubCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" || r.URL.Query().Get("state") != stateCookie.Value {
		h.logger.Warn("github callback: state mismatch")
		writeError(w, apperror.ValidationFailed("state", "invalid OAuth state"))
		return
	}

	// Clear the state cookie — it's single-use
	http.SetCookie(w, &http.Cookie{
		Name:   "oauth_state",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	// User denied authorization on GitHub
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		http.Redirect(w, r, h.clientOrigin+"/?auth=denied", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, apperror.ValidationFailed("code", "missing OAuth code"))
		return
	}

	ghUser, err := h.github.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("github callback: exchange failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	result, err := h.authService.LoginOrRegisterGitHub(r.Context(), ghUser)
	if err != nil {
		h.logger.Error("github callback: sign-in failed",
			slog.Int64("githubID", ghUser.ID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	http.Redirect(w, r,
		h.clientOrigin+"/#token="+url.QueryEscape(result.Token),
		http.StatusSeeOther,
	)
}
