package auth

import (
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"

	"github.com/georgemunganga/townkart-backend/internal/modules/user"
	"github.com/georgemunganga/townkart-backend/internal/platform/apperr"
)

// Claims is the signed token payload.
type Claims struct {
	Email string    `json:"email"`
	Role  user.Role `json:"role"`
	jwt.StandardClaims
}

// SubjectID returns the user id carried in the token.
func (c *Claims) SubjectID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// Tokens issues and verifies HS256 access tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for u that expires after the configured TTL.
func (t *Tokens) Issue(u *user.User) (string, error) {
	now := t.now()
	claims := &Claims{
		Email: u.Email,
		Role:  u.Role,
		StandardClaims: jwt.StandardClaims{
			Subject:   u.ID.String(),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(t.ttl).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tokenString, nil
}

// Verify checks the signature, algorithm and expiry of tokenString. It does
// not check that the subject still exists.
func (t *Tokens) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.Wrap(apperr.CodeUnauthenticated, "Invalid or expired token", err)
	}
	if _, err := claims.SubjectID(); err != nil {
		return nil, apperr.Wrap(apperr.CodeUnauthenticated, "Invalid or expired token", err)
	}
	return claims, nil
}
