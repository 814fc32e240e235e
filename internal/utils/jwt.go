package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/fixit-helpdesk/fixit/models"
	"github.com/golang-jwt/jwt/v5"
)

// fixitClaims is the claim set embedded in every token issued by the FixIT
// server: the RFC 7519 registered claims plus the account role, which the
// transport layer uses for authorization without a database round trip.
type fixitClaims struct {
	jwt.RegisteredClaims
	Role models.Role `json:"role"`
}

// GenerateJWTToken creates a signed HMAC-SHA256 JWT token with the given parameters.
//
// The token includes the following claims:
//   - Issuer    (iss): identifies the service that issued the token
//   - Subject   (sub): the account ID
//   - IssuedAt  (iat): the current time
//   - ExpiresAt (exp): the current time plus tokenDuration
//   - role:            the account role, a FixIT-specific claim
//
// All parameters are required. Returns an error if any of them are empty or zero.
func GenerateJWTToken(issuer, userID string, role models.Role, tokenDuration time.Duration, signKey string) (models.Token, error) {
	if issuer == "" || userID == "" || tokenDuration == 0 || signKey == "" {
		return models.Token{}, errors.New("invalid params for generating JWT Token")
	}

	now := time.Now()
	claims := &fixitClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Role: role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred during signing JWT token: %w", err)
	}

	return models.Token{
		Token:            token,
		RegisteredClaims: claims.RegisteredClaims,
		SignedString:     tokenString,
		UserID:           userID,
		Role:             role,
	}, nil
}

// ValidateAndParseJWTToken validates the given JWT token string and extracts its claims.
//
// Validation includes:
//   - Signature verification using the provided sign key
//   - Issuer (iss) claim check against the provided tokenIssuer
//   - Expiration (exp) claim check
//   - Subject (sub) claim presence
//
// On success the returned [models.Token] carries the cached UserID and Role.
// [jwt.ErrTokenExpired] is returned unwrapped so callers can match it with
// [errors.Is].
func ValidateAndParseJWTToken(tokenString, tokenIssuer, signKey string) (models.Token, error) {
	if tokenString == "" || tokenIssuer == "" || signKey == "" {
		return models.Token{}, errors.New("invalid params for validating JWT Token")
	}

	claims := &fixitClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(signKey), nil
		},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return models.Token{}, fmt.Errorf("error parsing JWT token: %w", err)
	}
	if !token.Valid {
		return models.Token{}, errors.New("JWT token is not valid")
	}

	userID := claims.Subject
	if userID == "" {
		return models.Token{}, errors.New("JWT token has empty subject claim")
	}

	return models.Token{
		Token:            token,
		RegisteredClaims: claims.RegisteredClaims,
		SignedString:     tokenString,
		UserID:           userID,
		Role:             claims.Role,
	}, nil
}
