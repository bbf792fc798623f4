// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes the record store
//
// Services accept primitives and return domain errors — they have ZERO
// knowledge of HTTP. The handler translates apperror values into status
// codes; the service never sees a status code or an *http.Request.
//
// DEPENDENCY INJECTION:
// Every service takes its repository as an interface, not a concrete type.
// main.go decides whether that's the sqlite store or the jsonfile store;
// tests pass an in-memory fake. The service code is identical in all cases.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/sakif/jobtrack/internal/apperror"
	"github.com/sakif/jobtrack/internal/auth"
	"github.com/sakif/jobtrack/internal/model"
	"github.com/sakif/jobtrack/internal/repository"
)

// Credential validation limits. The minimums follow the original signup form;
// the password maximum is bcrypt's hard input limit.
const (
	MinNameLength     = 2
	MinPasswordLength = 6
	MaxPasswordLength = 72
)

// AuthService handles registration, login, and token verification.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
// Call this in server.go when wiring the dependency graph.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the issued token with the public user view, which is
// exactly the JSON body register and login respond with.
type AuthResult struct {
	Token string           `json:"token"`
	User  model.PublicUser `json:"user"`
}

// Register creates a new account and signs the user straight in.
//
// RULES:
//   - name at least 2 characters, email well-formed, password 6–72 characters
//   - email is lowercased before storage and uniqueness checking, so
//     "Ada@Example.com" and "ada@example.com" are the same account
//   - the password is stored only as a bcrypt hash
//   - a duplicate email fails with Conflict (the repository's UNIQUE check
//     is authoritative — no racy pre-check here)
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if fields := validateCredentials(name, email, password, true); len(fields) > 0 {
		return nil, apperror.ValidationFields(fields)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		// Conflict comes through here — let it propagate untouched so the
		// handler maps it to 409.
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	return s.issueToken(user)
}

// Login verifies credentials and issues a token.
//
// UNIFORM FAILURE:
// Unknown email and wrong password return the IDENTICAL error. If the two
// cases were distinguishable, an attacker could probe which emails have
// accounts. The bcrypt comparison also runs in constant time per attempt.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if fields := validateCredentials("", email, password, false); len(fields) > 0 {
		return nil, apperror.ValidationFields(fields)
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return s.issueToken(user)
}

// Verify validates a bearer token string and returns the caller identity.
// Every failure mode (missing, malformed, tampered, expired) collapses into
// one Unauthorized error.
func (s *AuthService) Verify(tokenStr string) (auth.Identity, error) {
	id, err := s.tokens.Validate(tokenStr)
	if err != nil {
		return auth.Identity{}, apperror.Unauthorized("Invalid or expired token")
	}
	return id, nil
}

// GetUserByID returns the public view of a user, for GET /api/auth/me.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.PublicUser, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	pub := user.Public()
	return &pub, nil
}

// LoginOrRegisterGitHub completes a GitHub sign-in: upsert the account keyed
// by the stable GitHub user ID, then issue the same bearer token a password
// login would.
//
// GitHub accounts have no password hash; the display name falls back to the
// GitHub login when the profile has no name set.
func (s *AuthService) LoginOrRegisterGitHub(ctx context.Context, ghUser *auth.GitHubUser) (*AuthResult, error) {
	if ghUser == nil {
		return nil, fmt.Errorf("service/auth: GitHub user must not be nil")
	}

	name := ghUser.Name
	if name == "" {
		name = ghUser.Login
	}

	user := &model.User{
		Name:     name,
		Email:    strings.ToLower(ghUser.Email),
		GitHubID: ghUser.ID,
	}

	if err := s.users.UpsertGitHub(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: upserting user (githubID=%d): %w", ghUser.ID, err)
	}

	s.logger.Info("user authenticated via GitHub",
		slog.String("userID", user.ID),
		slog.Int64("githubID", ghUser.ID),
	)

	return s.issueToken(user)
}

// issueToken generates the JWT for a user and packages the auth response.
func (s *AuthService) issueToken(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(auth.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	return &AuthResult{
		Token: token,
		User:  user.Public(),
	}, nil
}

// validateCredentials collects every field error at once so a form can show
// all problems in one round trip. withName distinguishes register (name
// required) from login (no name field).
func validateCredentials(name, email, password string, withName bool) map[string]string {
	fields := make(map[string]string)

	if withName && len(name) < MinNameLength {
		fields["name"] = fmt.Sprintf("name must be at least %d characters", MinNameLength)
	}

	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		fields["email"] = "invalid email address"
	}

	if len(password) < MinPasswordLength {
		fields["password"] = fmt.Sprintf("password must be at least %d characters", MinPasswordLength)
	} else if len(password) > MaxPasswordLength {
		fields["password"] = fmt.Sprintf("password must be %d characters or fewer", MaxPasswordLength)
	}

	return fields
}
