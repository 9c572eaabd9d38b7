package firebase

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// DevTokenGenerator issues locally signed bearer tokens so the API can be
// exercised without a Firebase frontend. Only honored when the server runs
// in the development environment.
type DevTokenGenerator struct {
	secret []byte
	expiry time.Duration
}

func NewDevTokenGenerator(secret string, expirySeconds int64) *DevTokenGenerator {
	return &DevTokenGenerator{
		secret: []byte(secret),
		expiry: time.Duration(expirySeconds) * time.Second,
	}
}

func (g *DevTokenGenerator) Generate(uid string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   uid,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(g.expiry)),
		Issuer:    "promostore-dev",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign dev token: %w", err)
	}

	return tokenString, nil
}

func (g *DevTokenGenerator) Validate(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return g.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse dev token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Issuer != "promostore-dev" {
		return "", fmt.Errorf("invalid dev token")
	}

	return claims.Subject, nil
}
