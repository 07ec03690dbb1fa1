package keycloak_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkravets/eventhub/internal/infrastructure/keycloak"
)

const testKeyID = "test-key-id"

type testKeys struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
}

func generateTestKeys(t *testing.T) *testKeys {
	t.Helper()
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return &testKeys{
		privateKey: privateKey,
		publicKey:  &privateKey.PublicKey,
	}
}

func jwksResponse(t *testing.T, keys *testKeys) []byte {
	t.Helper()
	n := base64.RawURLEncoding.EncodeToString(keys.publicKey.N.Bytes())
	e := base64.RawURLEncoding.EncodeToString(big.NewInt(int64(keys.publicKey.E)).Bytes())

	response := map[string]any{
		"keys": []map[string]any{
			{
				"kty": "RSA",
				"alg": "RS256",
				"use": "sig",
				"kid": testKeyID,
				"n":   n,
				"e":   e,
			},
		},
	}

	data, err := json.Marshal(response)
	require.NoError(t, err)
	return data
}

func setupMockKeycloak(t *testing.T, keys *testKeys) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/realms/test-realm/protocol/openid-connect/certs", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(jwksResponse(t, keys))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func createTestToken(t *testing.T, keys *testKeys, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = testKeyID

	tokenString, err := token.SignedString(keys.privateKey)
	require.NoError(t, err)
	return tokenString
}

func setupValidator(t *testing.T, keys *testKeys) (keycloak.JWTValidator, string) {
	t.Helper()

	server := setupMockKeycloak(t, keys)
	validator, err := keycloak.NewJWTValidator(keycloak.JWTValidatorConfig{
		KeycloakURL: server.URL,
		Realm:       "test-realm",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = validator.Close() })

	issuer := server.URL + "/realms/test-realm"
	return validator, issuer
}

func TestNewJWTValidator_ConfigErrors(t *testing.T) {
	t.Run("requires keycloak URL", func(t *testing.T) {
		_, err := keycloak.NewJWTValidator(keycloak.JWTValidatorConfig{Realm: "r"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "KeycloakURL is required")
	})

	t.Run("requires realm", func(t *testing.T) {
		_, err := keycloak.NewJWTValidator(keycloak.JWTValidatorConfig{KeycloakURL: "http://localhost"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Realm is required")
	})
}

func TestJWTValidator_Validate(t *testing.T) {
	keys := generateTestKeys(t)
	validator, issuer := setupValidator(t, keys)
	ctx := context.Background()

	t.Run("accepts valid token and extracts identity", func(t *testing.T) {
		token := createTestToken(t, keys, jwt.MapClaims{
			"sub":                "external-subject-1",
			"iss":                issuer,
			"iat":                time.Now().Unix(),
			"exp":                time.Now().Add(time.Hour).Unix(),
			"email":              "jane@example.com",
			"preferred_username": "jane",
			"given_name":         "Jane",
			"family_name":        "Doe",
		})

		claims, err := validator.Validate(ctx, token)

		require.NoError(t, err)
		assert.Equal(t, "external-subject-1", claims.Subject)
		assert.Equal(t, "jane@example.com", claims.Email)
		assert.Equal(t, "jane", claims.Username)
		assert.Equal(t, "Jane", claims.GivenName)
		assert.Equal(t, "Doe", claims.FamilyName)
		assert.False(t, claims.ExpiresAt.IsZero())
	})

	t.Run("rejects empty token", func(t *testing.T) {
		_, err := validator.Validate(ctx, "")
		require.ErrorIs(t, err, keycloak.ErrInvalidToken)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		token := createTestToken(t, keys, jwt.MapClaims{
			"sub": "external-subject-1",
			"iss": issuer,
			"iat": time.Now().Add(-2 * time.Hour).Unix(),
			"exp": time.Now().Add(-time.Hour).Unix(),
		})

		_, err := validator.Validate(ctx, token)
		require.ErrorIs(t, err, keycloak.ErrTokenExpired)
	})

	t.Run("rejects wrong issuer", func(t *testing.T) {
		token := createTestToken(t, keys, jwt.MapClaims{
			"sub": "external-subject-1",
			"iss": "https://evil.example.com/realms/test-realm",
			"iat": time.Now().Unix(),
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		_, err := validator.Validate(ctx, token)
		require.ErrorIs(t, err, keycloak.ErrInvalidIssuer)
	})

	t.Run("rejects token without subject", func(t *testing.T) {
		token := createTestToken(t, keys, jwt.MapClaims{
			"iss": issuer,
			"iat": time.Now().Unix(),
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		_, err := validator.Validate(ctx, token)
		require.ErrorIs(t, err, keycloak.ErrMissingSubject)
	})

	t.Run("rejects token signed with unknown key", func(t *testing.T) {
		otherKeys := generateTestKeys(t)
		token := createTestToken(t, otherKeys, jwt.MapClaims{
			"sub": "external-subject-1",
			"iss": issuer,
			"iat": time.Now().Unix(),
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		_, err := validator.Validate(ctx, token)
		require.Error(t, err)
	})
}
