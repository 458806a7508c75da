package utils

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/lestrrat-go/jwx/v2/jwk"
)

func TestNewJwtAuthenticator(t *testing.T) {
	jwksUri := "https://example.com/.well-known/jwks.json"
	auth := NewJwtAuthenticator(jwksUri)

	if auth.JwksUri != jwksUri {
		t.Errorf("Expected JwksUri to be %s, got %s", jwksUri, auth.JwksUri)
	}

	if auth.cacheTTL.Minutes() != 5 {
		t.Errorf("Expected cacheTTL to be 5 minutes, got %v", auth.cacheTTL)
	}
}

func TestValidateTokenWithoutJwksUri(t *testing.T) {
	auth := NewJwtAuthenticator("")

	_, err := auth.ValidateToken("dummy.jwt.token")
	if err == nil {
		t.Error("Expected error when JWKS URI is not configured")
	}

	expectedError := "JWKS URI not configured"
	if err.Error() != expectedError {
		t.Errorf("Expected error message '%s', got '%s'", expectedError, err.Error())
	}
}

func TestNewSimpleJwtAuthenticatorRequiresSecret(t *testing.T) {
	_, err := NewSimpleJwtAuthenticator("")
	if err == nil {
		t.Error("Expected error when secret is empty")
	}
}

func TestMapClaimsToUser(t *testing.T) {
	auth := NewJwtAuthenticator("https://example.com/.well-known/jwks.json")

	claims := map[string]interface{}{
		"sub":       "user123",
		"iss":       "https://auth.example.com",
		"client_id": "client123",
		"email":     "user@example.com",
		"name":      "Test User",
		"exp":       1234567890.0,
		"iat":       1234567800.0,
		"aud":       []interface{}{"audience1", "audience2"},
		"roles":     []interface{}{"admin", "user"},
		"scopes":    []interface{}{"read", "write"},
	}

	user, err := auth.mapClaimsToUser(claims)
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	if user.Sub != "user123" {
		t.Errorf("Expected Sub to be 'user123', got '%s'", user.Sub)
	}

	if user.Email != "user@example.com" {
		t.Errorf("Expected Email to be 'user@example.com', got '%s'", user.Email)
	}

	if user.Name != "Test User" {
		t.Errorf("Expected Name to be 'Test User', got '%s'", user.Name)
	}

	if user.ClientId != "client123" {
		t.Errorf("Expected ClientId to be 'client123', got '%s'", user.ClientId)
	}

	if user.Exp != 1234567890 {
		t.Errorf("Expected Exp to be 1234567890, got %d", user.Exp)
	}

	if len(user.Aud) != 2 || user.Aud[0] != "audience1" || user.Aud[1] != "audience2" {
		t.Errorf("Expected Aud to be ['audience1', 'audience2'], got %v", user.Aud)
	}

	if len(user.Roles) != 2 || user.Roles[0] != "admin" || user.Roles[1] != "user" {
		t.Errorf("Expected Roles to be ['admin', 'user'], got %v", user.Roles)
	}

	if len(user.Scopes) != 2 || user.Scopes[0] != "read" || user.Scopes[1] != "write" {
		t.Errorf("Expected Scopes to be ['read', 'write'], got %v", user.Scopes)
	}
}

func TestMapClaimsToUserWithSingleAudience(t *testing.T) {
	auth := NewJwtAuthenticator("https://example.com/.well-known/jwks.json")

	claims := map[string]interface{}{
		"aud": "single-audience",
	}

	user, err := auth.mapClaimsToUser(claims)
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	if len(user.Aud) != 1 || user.Aud[0] != "single-audience" {
		t.Errorf("Expected Aud to be ['single-audience'], got %v", user.Aud)
	}
}

func TestValidateTokenWithRealSignature(t *testing.T) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("Failed to generate RSA key pair: %v", err)
	}

	publicKey := &privateKey.PublicKey

	keyID := "test-key-1"
	jwkKey, err := jwk.FromRaw(publicKey)
	if err != nil {
		t.Fatalf("Failed to create JWK from RSA public key: %v", err)
	}

	if err := jwkKey.Set(jwk.KeyIDKey, keyID); err != nil {
		t.Fatalf("Failed to set key ID: %v", err)
	}
	if err := jwkKey.Set(jwk.AlgorithmKey, "RS256"); err != nil {
		t.Fatalf("Failed to set algorithm: %v", err)
	}
	if err := jwkKey.Set(jwk.KeyUsageKey, "sig"); err != nil {
		t.Fatalf("Failed to set key usage: %v", err)
	}

	set := jwk.NewSet()
	set.AddKey(jwkKey)

	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		jwksJSON, err := json.Marshal(set)
		if err != nil {
			http.Error(w, "Failed to marshal JWKS", http.StatusInternalServerError)
			return
		}

		w.Write(jwksJSON)
	}))
	defer mockServer.Close()

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":       "user123",
		"iss":       "https://test-auth.example.com",
		"aud":       []string{"test-audience"},
		"exp":       now.Add(time.Hour).Unix(),
		"iat":       now.Unix(),
		"nbf":       now.Unix(),
		"jti":       "test-jwt-id",
		"client_id": "test-client",
		"email":     "user123@example.com",
		"name":      "User One Two Three",
		"roles":     []string{"admin", "user"},
		"scopes":    []string{"read", "write"},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = keyID

	tokenString, err := token.SignedString(privateKey)
	if err != nil {
		t.Fatalf("Failed to sign JWT token: %v", err)
	}

	auth := NewJwtAuthenticator(mockServer.URL)

	user, err := auth.ValidateToken(tokenString)
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}

	if user.Sub != "user123" {
		t.Errorf("Expected Sub to be 'user123', got '%s'", user.Sub)
	}

	if user.Email != "user123@example.com" {
		t.Errorf("Expected Email to be 'user123@example.com', got '%s'", user.Email)
	}

	if user.Iss != "https://test-auth.example.com" {
		t.Errorf("Expected Iss to be 'https://test-auth.example.com', got '%s'", user.Iss)
	}

	if len(user.Aud) != 1 || user.Aud[0] != "test-audience" {
		t.Errorf("Expected Aud to be ['test-audience'], got %v", user.Aud)
	}

	if len(user.Roles) != 2 || user.Roles[0] != "admin" || user.Roles[1] != "user" {
		t.Errorf("Expected Roles to be ['admin', 'user'], got %v", user.Roles)
	}
}

func TestValidateTokenWithInvalidSignature(t *testing.T) {
	privateKey1, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("Failed to generate first RSA key pair: %v", err)
	}

	privateKey2, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("Failed to generate second RSA key pair: %v", err)
	}

	// Publish the second key; sign with the first.
	keyID := "test-key-1"
	jwkKey, err := jwk.FromRaw(&privateKey2.PublicKey)
	if err != nil {
		t.Fatalf("Failed to create JWK from RSA public key: %v", err)
	}

	if err := jwkKey.Set(jwk.KeyIDKey, keyID); err != nil {
		t.Fatalf("Failed to set key ID: %v", err)
	}
	if err := jwkKey.Set(jwk.AlgorithmKey, "RS256"); err != nil {
		t.Fatalf("Failed to set algorithm: %v", err)
	}

	set := jwk.NewSet()
	set.AddKey(jwkKey)

	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		jwksJSON, _ := json.Marshal(set)
		w.Write(jwksJSON)
	}))
	defer mockServer.Close()

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"sub": "user123",
		"exp": now.Add(time.Hour).Unix(),
		"iat": now.Unix(),
	})
	token.Header["kid"] = keyID

	tokenString, err := token.SignedString(privateKey1)
	if err != nil {
		t.Fatalf("Failed to sign JWT token: %v", err)
	}

	auth := NewJwtAuthenticator(mockServer.URL)

	if _, err := auth.ValidateToken(tokenString); err == nil {
		t.Error("Expected validation to fail for mismatched signature")
	}
}

func TestSimpleJwtAuthenticatorRoundTrip(t *testing.T) {
	auth, err := NewSimpleJwtAuthenticator("test-secret")
	if err != nil {
		t.Fatalf("Failed to create authenticator: %v", err)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "user123",
		"email": "user@example.com",
		"name":  "Test User",
		"exp":   now.Add(time.Hour).Unix(),
		"iat":   now.Unix(),
	})

	tokenString, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("Failed to sign JWT token: %v", err)
	}

	user, err := auth.ValidateToken(tokenString)
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}

	if user.Email != "user@example.com" {
		t.Errorf("Expected Email to be 'user@example.com', got '%s'", user.Email)
	}

	// Wrong secret must not validate.
	badString, err := token.SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("Failed to sign JWT token: %v", err)
	}
	if _, err := auth.ValidateToken(badString); err == nil {
		t.Error("Expected validation to fail for wrong secret")
	}

	// RS256 tokens are rejected in HMAC mode.
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("Failed to generate RSA key pair: %v", err)
	}
	rsToken := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"sub": "user123",
		"exp": now.Add(time.Hour).Unix(),
	})
	rsString, err := rsToken.SignedString(rsaKey)
	if err != nil {
		t.Fatalf("Failed to sign JWT token: %v", err)
	}
	if _, err := auth.ValidateToken(rsString); err == nil {
		t.Error("Expected validation to fail for non-HMAC signing method")
	}
}
