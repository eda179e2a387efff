package auth

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/anoixa/image-share/utils"
	"github.com/golang-jwt/jwt/v5"
)

// JWTService JWT Token 服务
type JWTService struct {
	secret    []byte
	expiresIn time.Duration
}

// NewJWTService 创建新的 JWT 服务
// An empty secret gets a random one; tokens then do not survive restarts.
func NewJWTService(secret string, expiresIn time.Duration) (*JWTService, error) {
	if secret == "" {
		random, err := utils.GenerateRandomToken(32)
		if err != nil {
			return nil, fmt.Errorf("failed to generate jwt secret: %w", err)
		}
		secret = random
		log.Println("[Warning] No JWT secret configured, generated an ephemeral one")
	}

	if expiresIn <= 0 {
		expiresIn = 30 * time.Minute
	}

	return &JWTService{
		secret:    []byte(secret),
		expiresIn: expiresIn,
	}, nil
}

// GenerateAccessToken 生成访问令牌
func (s *JWTService) GenerateAccessToken(username string, userID uint) (string, time.Time, error) {
	expiry := time.Now().Add(s.expiresIn)
	claims := jwt.MapClaims{
		"username": username,
		"user_id":  userID,
		"type":     "access",
		"exp":      expiry.Unix(),
		"iat":      time.Now().Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return token, expiry, nil
}

// ParseToken 解析并校验访问令牌
func (s *JWTService) ParseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
