// Package auth はパスワード認証とJWTトークンの発行・検証を提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/mealplan/internal/model"
	"github.com/hitoshi/mealplan/internal/repository"
)

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	config   ServiceConfig
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, config ServiceConfig) *Service {
	return &Service{
		userRepo: userRepo,
		config:   config,
	}
}

// Login はユーザー名とパスワードを検証し、署名付きJWTを発行する。
// ユーザーが存在しない場合もパスワード不一致の場合も同じ認証失敗エラーを返し、
// ユーザー名の存在有無を漏らさない。
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("failed to find user for login: %w", err)
	}
	if user == nil {
		return "", model.NewAuthFailedError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", model.NewAuthFailedError()
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return "", err
	}

	slog.Info("user logged in", slog.Int64("user_id", user.ID))
	return token, nil
}

// VerifyToken はJWTの署名と有効期限を検証し、subjectのユーザーIDを返す。
func (s *Service) VerifyToken(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, model.NewAuthFailedError()
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		return 0, model.NewAuthFailedError()
	}

	userID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return 0, model.NewAuthFailedError()
	}

	return userID, nil
}

// issueToken はHS256署名のJWTを生成する。
// subjectにユーザーID、jtiにランダムUUIDを設定する。
func (s *Service) issueToken(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TokenTTL)),
		ID:        uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}
