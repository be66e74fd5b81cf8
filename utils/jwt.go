package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/HarshitSharma-h8/messmate/models"
)

// Claims is the JWT payload. Besides the subject (user id) it carries
// everything the request path needs so handlers never re-read the user
// document: role, owning mess and, for students, degree and semester.
type Claims struct {
	Role     string `json:"role"`
	MessID   string `json:"mess_id"`
	Degree   string `json:"degree,omitempty"`
	Semester int    `json:"semester,omitempty"`
	jwt.RegisteredClaims
}

// JWTManager signs and verifies access tokens with an injected secret.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// NewJWTManager creates a manager. The secret must be non-empty.
func NewJWTManager(secret string, ttl time.Duration) (*JWTManager, error) {
	if secret == "" {
		return nil, errors.New("jwt secret not configured")
	}
	return &JWTManager{secret: []byte(secret), ttl: ttl, issuer: "messmate"}, nil
}

// Generate signs a token for the given user.
func (m *JWTManager) Generate(u *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Role:     u.Role,
		MessID:   u.MessID.Hex(),
		Degree:   u.Degree(),
		Semester: u.Semester(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.Hex(),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token string and returns its claims.
func (m *JWTManager) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
