package util

import (
	"errors"
	"quizmaster_backend/internal/model"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	SessionID string         `json:"sid"`
	Role      model.UserRole `json:"role"`
	Email     string         `json:"email"`
	jwt.RegisteredClaims
}

func GenerateJWT(sessionID string, role model.UserRole, email, secret string, expiresAt time.Time) (string, error) {
	claims := &Claims{
		SessionID: sessionID,
		Role:      role,
		Email:     email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseJWT(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
