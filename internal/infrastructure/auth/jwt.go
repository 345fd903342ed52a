// Package auth issues and verifies the bearer tokens guarding the API.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pixamint/pixamint/internal/shared/biztime"
	"github.com/pixamint/pixamint/internal/shared/config"
)

type Claims struct {
	UserID  uint   `json:"user_id"`
	UserSID string `json:"user_sid"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

type JWTService struct {
	secret           []byte
	accessExpMinutes int
}

func NewJWTService(cfg *config.JWTConfig) *JWTService {
	expMinutes := cfg.AccessExpMinutes
	if expMinutes <= 0 {
		expMinutes = 60
	}
	return &JWTService{
		secret:           []byte(cfg.Secret),
		accessExpMinutes: expMinutes,
	}
}

func (s *JWTService) Generate(userID uint, userSID, role string) (string, error) {
	now := biztime.NowUTC()
	claims := &Claims{
		UserID:  userID,
		UserSID: userSID,
		Role:    role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.accessExpMinutes) * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}
