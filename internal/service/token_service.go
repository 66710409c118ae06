package service

import (
	"errors"
	"strings"
	"time"

	"github.com/souq-next/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

// CallerClaims 调用方令牌声明
type CallerClaims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenService 调用方令牌服务
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenService 创建令牌服务
func NewTokenService(cfg config.JWTConfig) *TokenService {
	hours := cfg.ExpireHours
	if hours <= 0 {
		hours = 24
	}
	return &TokenService{
		secret: []byte(cfg.SecretKey),
		issuer: strings.TrimSpace(cfg.Issuer),
		ttl:    time.Duration(hours) * time.Hour,
	}
}

// Configured 是否已配置密钥
func (s *TokenService) Configured() bool {
	return s != nil && len(s.secret) > 0
}

// Issue 签发令牌
func (s *TokenService) Issue(userID uint) (string, time.Time, error) {
	if userID == 0 {
		return "", time.Time{}, errors.New("user id is required")
	}
	now := time.Now()
	expiresAt := now.Add(s.ttl)
	claims := CallerClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Parse 校验并解析令牌
func (s *TokenService) Parse(tokenString string) (*CallerClaims, error) {
	options := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.issuer != "" {
		options = append(options, jwt.WithIssuer(s.issuer))
	}
	parser := jwt.NewParser(options...)
	token, err := parser.ParseWithClaims(tokenString, &CallerClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*CallerClaims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
