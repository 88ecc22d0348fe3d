package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"outreachly/config"
	"outreachly/models"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

type Claims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

func signToken(userID uint, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.EncryptionKey))
}

// GenerateJWTToken issues a short-lived access token and a long-lived
// refresh token for the user.
func GenerateJWTToken(user *models.User) (string, string, error) {
	accessToken, err := signToken(user.ID, accessTokenTTL)
	if err != nil {
		return "", "", err
	}

	refreshToken, err := signToken(user.ID, refreshTokenTTL)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// ParseJWTToken verifies the signature and expiry and returns the claims.
func ParseJWTToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(config.AppConfig.EncryptionKey), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// RefreshTokens exchanges a valid refresh token for a fresh token pair.
// The user must still exist and be active.
func RefreshTokens(refreshToken string) (string, string, error) {
	claims, err := ParseJWTToken(refreshToken)
	if err != nil {
		return "", "", err
	}

	var user models.User
	if err := config.DB.First(&user, claims.UserID).Error; err != nil {
		return "", "", errors.New("user not found")
	}
	if !user.IsActive {
		return "", "", errors.New("user is deactivated")
	}

	return GenerateJWTToken(&user)
}
