package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	claimKeySubject      = "sub"
	claimKeyRole         = "role"
	claimKeyRestaurantID = "restaurant_id"
	claimKeyExpiry       = "exp"

	errorMessageMissingTokenSecret   = "auth: missing token secret"
	errorMessageUnexpectedSignMethod = "auth: unexpected signing method"
	errorMessageInvalidToken         = "auth: invalid token"

	// DefaultTokenTTL matches the original thirty-minute access token lifetime.
	DefaultTokenTTL = 30 * time.Minute
)

var (
	// ErrMissingTokenSecret indicates the signing secret configuration was omitted.
	ErrMissingTokenSecret = errors.New(errorMessageMissingTokenSecret)
	// ErrInvalidToken indicates the bearer token failed parsing or verification.
	ErrInvalidToken = errors.New(errorMessageInvalidToken)
)

// Claims carries the identity encoded in an access token.
type Claims struct {
	Email        string
	Role         string
	RestaurantID *uint
}

// IssueToken signs an HMAC access token for the given identity.
func IssueToken(secret string, claims Claims, timeToLive time.Duration) (string, error) {
	if secret == "" {
		return "", ErrMissingTokenSecret
	}
	if timeToLive == 0 {
		timeToLive = DefaultTokenTTL
	}

	mapClaims := jwt.MapClaims{
		claimKeySubject: claims.Email,
		claimKeyRole:    claims.Role,
		claimKeyExpiry:  time.Now().Add(timeToLive).Unix(),
	}
	if claims.RestaurantID != nil {
		mapClaims[claimKeyRestaurantID] = *claims.RestaurantID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies an access token and returns the identity it encodes.
func ParseToken(secret string, tokenString string) (Claims, error) {
	if secret == "" {
		return Claims{}, ErrMissingTokenSecret
	}

	parsedToken, parseErr := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, isHMAC := token.Method.(*jwt.SigningMethodHMAC); !isHMAC {
			return nil, errors.New(errorMessageUnexpectedSignMethod)
		}
		return []byte(secret), nil
	})
	if parseErr != nil || !parsedToken.Valid {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, parseErr)
	}

	mapClaims, claimsOk := parsedToken.Claims.(jwt.MapClaims)
	if !claimsOk {
		return Claims{}, ErrInvalidToken
	}

	claims := Claims{}
	if subject, subjectOk := mapClaims[claimKeySubject].(string); subjectOk {
		claims.Email = subject
	}
	if role, roleOk := mapClaims[claimKeyRole].(string); roleOk {
		claims.Role = role
	}
	if rawRestaurantID, restaurantOk := mapClaims[claimKeyRestaurantID].(float64); restaurantOk {
		restaurantID := uint(rawRestaurantID)
		claims.RestaurantID = &restaurantID
	}

	if claims.Email == "" {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}
