package middleware

import (
	"context"
	"errors"

	"github.com/mkravets/eventhub/internal/infrastructure/keycloak"
)

// KeycloakValidatorAdapter adapts keycloak.JWTValidator to the
// middleware.TokenValidator interface.
type KeycloakValidatorAdapter struct {
	validator keycloak.JWTValidator
}

// NewKeycloakValidatorAdapter creates a new adapter that bridges
// keycloak.JWTValidator to the middleware.TokenValidator interface.
//
// Usage:
//
//	jwtValidator, _ := keycloak.NewJWTValidator(config)
//	adapter := middleware.NewKeycloakValidatorAdapter(jwtValidator)
//	authConfig := middleware.AuthConfig{
//	    TokenValidator: adapter,
//	}
func NewKeycloakValidatorAdapter(validator keycloak.JWTValidator) *KeycloakValidatorAdapter {
	if validator == nil {
		panic("keycloak validator is required")
	}
	return &KeycloakValidatorAdapter{validator: validator}
}

// ValidateToken validates a JWT token and returns middleware.TokenClaims.
func (a *KeycloakValidatorAdapter) ValidateToken(ctx context.Context, token string) (*TokenClaims, error) {
	keycloakClaims, err := a.validator.Validate(ctx, token)
	if err != nil {
		return nil, a.mapError(err)
	}

	return &TokenClaims{
		// The token subject becomes the external user id.
		ExternalUserID: keycloakClaims.Subject,
		Username:       keycloakClaims.Username,
		Email:          keycloakClaims.Email,
		FirstName:      keycloakClaims.GivenName,
		LastName:       keycloakClaims.FamilyName,
		ExpiresAt:      keycloakClaims.ExpiresAt,
	}, nil
}

// mapError maps keycloak errors to middleware errors.
func (a *KeycloakValidatorAdapter) mapError(err error) error {
	switch {
	case errors.Is(err, keycloak.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, keycloak.ErrInvalidToken),
		errors.Is(err, keycloak.ErrInvalidClaims),
		errors.Is(err, keycloak.ErrMissingSubject),
		errors.Is(err, keycloak.ErrInvalidIssuer),
		errors.Is(err, keycloak.ErrInvalidAudience):
		return ErrInvalidToken
	default:
		return errors.Join(ErrInvalidToken, err)
	}
}

// Close closes the underlying keycloak validator.
func (a *KeycloakValidatorAdapter) Close() error {
	return a.validator.Close()
}
