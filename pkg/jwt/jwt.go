package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "cottage-admin-console"

// SessionClaims represents the console session cookie claims
type SessionClaims struct {
	SessionID uuid.UUID `json:"sid"`
	AdminID   string    `json:"admin_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	jwt.RegisteredClaims
}

// Service signs and validates console session tokens
type Service struct {
	secret string
	expiry time.Duration
}

// NewService creates a new session token service
func NewService(secret string, expiry time.Duration) *Service {
	return &Service{
		secret: secret,
		expiry: expiry,
	}
}

// Expiry returns the lifetime of issued tokens
func (s *Service) Expiry() time.Duration {
	return s.expiry
}

// GenerateSessionToken issues a token binding a console session to the logged-in admin
func (s *Service) GenerateSessionToken(sessionID uuid.UUID, adminID, email, role string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		SessionID: sessionID,
		AdminID:   adminID,
		Email:     email,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   adminID,
			ID:        sessionID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, nil
}

// ValidateSessionToken validates and parses a session token
func (s *Service) ValidateSessionToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	}, jwt.WithIssuer(issuer))

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	if claims.SessionID == uuid.Nil {
		return nil, fmt.Errorf("token has no session id")
	}

	return claims, nil
}

// BearerInfo describes a bearer token handed to the console by configuration.
// The console cannot verify its signature, it only reads the expiry.
type BearerInfo struct {
	IsJWT     bool
	Subject   string
	ExpiresAt *time.Time
}

// Expired reports whether the token is known to be expired at now.
// Opaque tokens and JWTs without exp are never reported expired.
func (b BearerInfo) Expired(now time.Time) bool {
	return b.ExpiresAt != nil && !b.ExpiresAt.After(now)
}

var ErrEmptyToken = errors.New("token is empty")

// InspectBearer extracts claims from a token without validation
func InspectBearer(tokenString string) (BearerInfo, error) {
	tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))
	if tokenString == "" {
		return BearerInfo{}, ErrEmptyToken
	}
	if strings.Count(tokenString, ".") != 2 {
		return BearerInfo{}, nil
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return BearerInfo{}, fmt.Errorf("failed to parse token: %w", err)
	}

	info := BearerInfo{IsJWT: true, Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		exp := claims.ExpiresAt.Time
		info.ExpiresAt = &exp
	}
	return info, nil
}

// IsTokenExpired checks if a bearer token is expired. Unparseable JWTs count as expired.
func IsTokenExpired(tokenString string) bool {
	info, err := InspectBearer(tokenString)
	if err != nil {
		return true
	}
	return info.Expired(time.Now())
}

// IsExpiredError reports whether a validation error was caused by an expired token
func IsExpiredError(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}
