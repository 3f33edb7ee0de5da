package auth

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/blogcast/blogcast/domain"
)

// Claims represents the claims carried by an API token.
type Claims struct {
	ClientID string `json:"client_id"`
	Role     string `json:"role"` // "publisher" for episode creation
	jwt.RegisteredClaims
}

const tokenTTL = 24 * time.Hour

// Issuer signs and validates API tokens with a shared HMAC secret.
type Issuer struct {
	secret []byte
}

// NewIssuer builds an Issuer from the given secret.
func NewIssuer(secret []byte) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: JWT secret is required", domain.ErrConfiguration)
	}
	return &Issuer{secret: secret}, nil
}

// NewIssuerFromEnv reads the signing secret from JWT_SECRET.
func NewIssuerFromEnv() (*Issuer, error) {
	return NewIssuer([]byte(os.Getenv("JWT_SECRET")))
}

// GeneratePublisherToken generates a token granting episode creation.
func (i *Issuer) GeneratePublisherToken(clientID string) (string, error) {
	claims := &Claims{
		ClientID: clientID,
		Role:     "publisher",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// ValidateToken validates a token and returns its claims.
func (i *Issuer) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrTokenInvalidClaims
}
