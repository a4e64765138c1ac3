package utils

import (
	"fmt"
	"time"

	"github.com/puviyarasu12/Stream-backend/internal/config"

	"github.com/golang-jwt/jwt/v4"
)

// UserClaims represents JWT claims for authenticated users
type UserClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username,omitempty"`
	jwt.StandardClaims
}

// GenerateUserJWT generates a JWT token for a user
func GenerateUserJWT(userID, username string) (string, error) {
	cfg := config.Load()

	claims := UserClaims{
		UserID:   userID,
		Username: username,
		StandardClaims: jwt.StandardClaims{
			Issuer:    "stream-backend",
			Subject:   userID,
			ExpiresAt: time.Now().Add(time.Hour * time.Duration(cfg.Security.JWT.ExpiryHour)).Unix(),
			NotBefore: time.Now().Unix(),
			IssuedAt:  time.Now().Unix(),
			Audience:  "stream-app",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Security.JWT.Secret))
}

// ValidateUserJWT validates a user JWT token
func ValidateUserJWT(tokenString string) (*UserClaims, error) {
	cfg := config.Load()

	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(cfg.Security.JWT.Secret), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
