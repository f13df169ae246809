package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/flagbridge-backend/internal/apierr"
	"github.com/yungbote/flagbridge-backend/internal/logger"
)

const tokenLifetime = 12 * time.Hour

// AuthService issues and verifies admin API tokens. There is a single
// bootstrap admin user configured from the environment; external
// identity providers are out of scope.
type AuthService interface {
	Login(username, password string) (string, error)
	VerifyToken(token string) (string, error)
}

type authService struct {
	log          *logger.Logger
	secret       []byte
	adminUser    string
	passwordHash []byte
}

func NewAuthService(baseLog *logger.Logger, secret, adminUser, adminPassword string) (AuthService, error) {
	if secret == "" {
		return nil, errors.New("auth: JWT secret is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash bootstrap password: %w", err)
	}
	return &authService{
		log:          baseLog.With("service", "AuthService"),
		secret:       []byte(secret),
		adminUser:    adminUser,
		passwordHash: hash,
	}, nil
}

func (s *authService) Login(username, password string) (string, error) {
	if username != s.adminUser {
		// Hash comparison runs anyway so both failure modes take
		// comparable time.
		_ = bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
		return "", apierr.Forbidden("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", apierr.Forbidden("invalid credentials")
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return token, nil
}

func (s *authService) VerifyToken(raw string) (string, error) {
	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", apierr.Forbidden("invalid or expired token")
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", apierr.Forbidden("invalid token claims")
	}
	return claims.Subject, nil
}
