package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/lestrrat-go/jwx/v2/jwk"
)

// AuthenticatedUser holds the identity claims extracted from a
// validated bearer token.
type AuthenticatedUser struct {
	Sub      string
	Iss      string
	ClientId string
	Email    string
	Name     string
	Exp      int64
	Iat      int64
	Aud      []string
	Roles    []string
	Scopes   []string
}

// JwtAuthenticator validates bearer tokens either against a remote JWKS
// endpoint (RS256, key set cached) or a shared HMAC secret.
type JwtAuthenticator struct {
	JwksUri  string
	cache    *jwk.Cache
	cacheTTL time.Duration
	secret   []byte
}

// NewJwtAuthenticator creates an authenticator that resolves signing
// keys from the given JWKS endpoint. The key set is cached and
// refreshed at most every five minutes.
func NewJwtAuthenticator(jwksUri string) *JwtAuthenticator {
	a := &JwtAuthenticator{
		JwksUri:  jwksUri,
		cacheTTL: 5 * time.Minute,
	}
	if jwksUri != "" {
		cache := jwk.NewCache(context.Background())
		if err := cache.Register(jwksUri, jwk.WithMinRefreshInterval(a.cacheTTL)); err == nil {
			a.cache = cache
		}
	}
	return a
}

// NewSimpleJwtAuthenticator creates an authenticator that validates
// HS256 tokens with a shared secret. Used for locally issued session
// tokens and in tests.
func NewSimpleJwtAuthenticator(secret string) (*JwtAuthenticator, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &JwtAuthenticator{
		secret:   []byte(secret),
		cacheTTL: 5 * time.Minute,
	}, nil
}

// ValidateToken parses and verifies the token, returning the mapped
// identity claims.
func (a *JwtAuthenticator) ValidateToken(tokenString string) (*AuthenticatedUser, error) {
	if a.secret == nil && a.JwksUri == "" {
		return nil, errors.New("JWKS URI not configured")
	}

	token, err := jwt.Parse(tokenString, a.keyFunc)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	return a.mapClaimsToUser(claims)
}

func (a *JwtAuthenticator) keyFunc(token *jwt.Token) (interface{}, error) {
	if a.secret != nil {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	}

	kid, _ := token.Header["kid"].(string)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return a.fetchKey(ctx, kid)
}

// fetchKey resolves the raw public key for kid from the cached JWKS.
func (a *JwtAuthenticator) fetchKey(ctx context.Context, kid string) (interface{}, error) {
	if a.cache == nil {
		return nil, errors.New("JWKS URI not configured")
	}

	set, err := a.cache.Get(ctx, a.JwksUri)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JWKS: %w", err)
	}

	key, ok := set.LookupKeyID(kid)
	if !ok {
		if set.Len() == 1 {
			key, _ = set.Key(0)
		} else {
			return nil, fmt.Errorf("key %q not found in JWKS", kid)
		}
	}

	var raw interface{}
	if err := key.Raw(&raw); err != nil {
		return nil, fmt.Errorf("failed to extract raw key: %w", err)
	}
	return raw, nil
}

func (a *JwtAuthenticator) mapClaimsToUser(claims map[string]interface{}) (*AuthenticatedUser, error) {
	user := &AuthenticatedUser{}

	if sub, ok := claims["sub"].(string); ok {
		user.Sub = sub
	}
	if iss, ok := claims["iss"].(string); ok {
		user.Iss = iss
	}
	if clientId, ok := claims["client_id"].(string); ok {
		user.ClientId = clientId
	}
	if email, ok := claims["email"].(string); ok {
		user.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		user.Name = name
	}
	if exp, ok := claims["exp"].(float64); ok {
		user.Exp = int64(exp)
	}
	if iat, ok := claims["iat"].(float64); ok {
		user.Iat = int64(iat)
	}

	switch aud := claims["aud"].(type) {
	case string:
		user.Aud = []string{aud}
	case []interface{}:
		user.Aud = toStringSlice(aud)
	case []string:
		user.Aud = aud
	}

	if roles, ok := claims["roles"].([]interface{}); ok {
		user.Roles = toStringSlice(roles)
	}
	if scopes, ok := claims["scopes"].([]interface{}); ok {
		user.Scopes = toStringSlice(scopes)
	}

	return user, nil
}

func toStringSlice(values []interface{}) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			result = append(result, s)
		}
	}
	return result
}
