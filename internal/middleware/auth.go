// Package middleware provides Echo middleware for authentication, logging,
// recovery, CORS, and rate limiting.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mkravets/eventhub/internal/domain/uuid"
)

// Context keys for authentication data.
type contextKey string

const (
	// ContextKeyUserID is the context key for the internal user ID.
	ContextKeyUserID contextKey = "user_id"

	// ContextKeyExternalUserID is the context key for the auth provider's subject id.
	ContextKeyExternalUserID contextKey = "external_user_id"

	// ContextKeyUsername is the context key for username.
	ContextKeyUsername contextKey = "username"

	// ContextKeyEmail is the context key for user email.
	ContextKeyEmail contextKey = "email"
)

// Auth errors.
var (
	ErrMissingAuthHeader = errors.New("missing authorization header")
	ErrInvalidAuthHeader = errors.New("invalid authorization header format")
	ErrInvalidToken      = errors.New("invalid token")
	ErrTokenExpired      = errors.New("token expired")
	ErrUserNotFound      = errors.New("user not found")
)

// TokenClaims represents the claims extracted from a JWT token.
type TokenClaims struct {
	// UserID is the internal user ID, filled in by the UserResolver.
	UserID uuid.UUID

	// ExternalUserID is the subject id from the external auth provider.
	ExternalUserID string

	// Username is the user's preferred username.
	Username string

	// Email is the user's email address.
	Email string

	// FirstName and LastName come from the token's profile claims.
	FirstName string
	LastName  string

	// ExpiresAt is the token expiration time.
	ExpiresAt time.Time
}

// TokenValidator defines the interface for validating JWT tokens.
type TokenValidator interface {
	// ValidateToken validates a JWT token and returns the claims.
	ValidateToken(ctx context.Context, token string) (*TokenClaims, error)
}

// UserResolver resolves a local user from the token's identity. The first
// authenticated request from a subject creates their record.
type UserResolver interface {
	// ResolveUser finds or creates the user and returns their internal ID.
	ResolveUser(ctx context.Context, claims *TokenClaims) (uuid.UUID, error)
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	// Logger is the structured logger for auth events.
	Logger *slog.Logger

	// TokenValidator validates JWT tokens.
	TokenValidator TokenValidator

	// UserResolver resolves users from token claims.
	// Optional - if nil, only ExternalUserID is set in the context.
	UserResolver UserResolver

	// SkipPaths are paths that don't require authentication.
	SkipPaths []string
}

// DefaultAuthConfig returns an AuthConfig with sensible defaults.
func DefaultAuthConfig() AuthConfig {
	return AuthConfig{
		Logger:    slog.Default(),
		SkipPaths: []string{"/health", "/ready"},
	}
}

// Auth returns an authentication middleware with the given configuration.
func Auth(config AuthConfig) echo.MiddlewareFunc {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	skipPaths := make(map[string]struct{}, len(config.SkipPaths))
	for _, path := range config.SkipPaths {
		skipPaths[path] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path

			if _, ok := skipPaths[path]; ok {
				return next(c)
			}

			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			token, tokenErr := extractBearerToken(authHeader)
			if tokenErr != nil {
				return respondAuthError(c, tokenErr)
			}

			if config.TokenValidator == nil {
				config.Logger.Error("token validator not configured")
				return respondAuthError(c, ErrInvalidToken)
			}

			claims, validateErr := config.TokenValidator.ValidateToken(c.Request().Context(), token)
			if validateErr != nil {
				config.Logger.Warn("token validation failed",
					slog.String("error", validateErr.Error()),
					slog.String("path", path),
					slog.String("remote_ip", c.RealIP()),
				)
				return respondAuthError(c, validateErr)
			}

			// On first contact from a subject this creates their record.
			if config.UserResolver != nil && claims.UserID.IsZero() {
				userID, resolveErr := config.UserResolver.ResolveUser(c.Request().Context(), claims)
				if resolveErr != nil {
					config.Logger.Error("failed to resolve user",
						slog.String("error", resolveErr.Error()),
						slog.String("external_id", claims.ExternalUserID),
					)
					return respondAuthError(c, ErrUserNotFound)
				}
				claims.UserID = userID
			}

			enrichContext(c, claims)

			config.Logger.Debug("user authenticated",
				slog.String("user_id", claims.UserID.String()),
				slog.String("username", claims.Username),
				slog.String("path", path),
			)

			return next(c)
		}
	}
}

// extractBearerToken extracts the token from a Bearer authorization header.
func extractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingAuthHeader
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", ErrInvalidAuthHeader
	}

	token := strings.TrimPrefix(authHeader, bearerPrefix)
	if token == "" {
		return "", ErrInvalidAuthHeader
	}

	return token, nil
}

// enrichContext adds user information to the echo context.
func enrichContext(c echo.Context, claims *TokenClaims) {
	c.Set(string(ContextKeyUserID), claims.UserID)
	c.Set(string(ContextKeyExternalUserID), claims.ExternalUserID)
	c.Set(string(ContextKeyUsername), claims.Username)
	c.Set(string(ContextKeyEmail), claims.Email)
}

// respondAuthError sends an authentication error response.
func respondAuthError(c echo.Context, err error) error {
	code := "UNAUTHORIZED"
	message := "Authentication required"

	switch {
	case errors.Is(err, ErrMissingAuthHeader):
		message = "Missing authorization header"
	case errors.Is(err, ErrInvalidAuthHeader):
		message = "Invalid authorization header format"
	case errors.Is(err, ErrTokenExpired):
		message = "Token has expired"
		code = "TOKEN_EXPIRED"
	case errors.Is(err, ErrInvalidToken):
		message = "Invalid token"
	case errors.Is(err, ErrUserNotFound):
		message = "User not found"
		code = "USER_NOT_FOUND"
	}

	return c.JSON(http.StatusUnauthorized, map[string]any{
		"success": false,
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

// GetUserID extracts the internal user ID from the echo context.
func GetUserID(c echo.Context) uuid.UUID {
	if id, ok := c.Get(string(ContextKeyUserID)).(uuid.UUID); ok {
		return id
	}
	return uuid.UUID("")
}

// GetExternalUserID extracts the external user ID from the echo context.
func GetExternalUserID(c echo.Context) string {
	if id, ok := c.Get(string(ContextKeyExternalUserID)).(string); ok {
		return id
	}
	return ""
}

// GetUsername extracts the username from the echo context.
func GetUsername(c echo.Context) string {
	if username, ok := c.Get(string(ContextKeyUsername)).(string); ok {
		return username
	}
	return ""
}

// GetEmail extracts the email from the echo context.
func GetEmail(c echo.Context) string {
	if email, ok := c.Get(string(ContextKeyEmail)).(string); ok {
		return email
	}
	return ""
}

// StaticTokenValidator is a simple token validator for development and
// testing. It accepts tokens of the form "dev-token-<subject>".
// DO NOT USE IN PRODUCTION - use the Keycloak validator instead.
type StaticTokenValidator struct{}

// NewStaticTokenValidator creates a new static token validator.
func NewStaticTokenValidator() *StaticTokenValidator {
	return &StaticTokenValidator{}
}

const (
	devTokenPrefix          = "dev-token-"
	devTokenExpirationHours = 24
)

// ValidateToken accepts development tokens and derives the claims from the
// embedded subject.
func (v *StaticTokenValidator) ValidateToken(_ context.Context, token string) (*TokenClaims, error) {
	subject, ok := strings.CutPrefix(token, devTokenPrefix)
	if !ok || subject == "" {
		return nil, ErrInvalidToken
	}

	return &TokenClaims{
		ExternalUserID: subject,
		Username:       "dev-user-" + subject,
		Email:          "dev-" + subject + "@example.com",
		FirstName:      "Dev",
		LastName:       subject,
		ExpiresAt:      time.Now().Add(devTokenExpirationHours * time.Hour),
	}, nil
}
