// Package user はユーザー登録とプロフィール管理のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/mealplan/internal/model"
	"github.com/hitoshi/mealplan/internal/repository"
)

// RegisterInput はユーザー登録の入力。
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Name     string
	Surname  string
}

// UpdateInput はプロフィール更新の入力。
// NewPasswordを指定する場合はOldPasswordによる本人確認が必要。
type UpdateInput struct {
	Name        string
	Surname     string
	Email       string
	OldPassword string
	NewPassword string
}

// Service はユーザー管理のサービス層。
type Service struct {
	userRepo   repository.UserRepository
	bcryptCost int
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(userRepo repository.UserRepository, bcryptCost int) *Service {
	return &Service{
		userRepo:   userRepo,
		bcryptCost: bcryptCost,
	}
}

// Register は新規ユーザーを登録する。
// ユーザー名とメールアドレスは大文字小文字を無視して一意。
// パスワードはbcryptでハッシュ化して保存する。
func (s *Service) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, fmt.Errorf("ユーザー名の重複確認に失敗しました: %w", err)
	}
	if exists {
		return nil, model.NewDuplicateNameError("ユーザー名", input.Username)
	}

	exists, err = s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("メールアドレスの重複確認に失敗しました: %w", err)
	}
	if exists {
		return nil, model.NewDuplicateNameError("メールアドレス", input.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("パスワードのハッシュ化に失敗しました: %w", err)
	}

	user := &model.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		Name:         input.Name,
		Surname:      input.Surname,
		Role:         model.RoleUser,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("user registered", slog.Int64("user_id", user.ID))
	return user, nil
}

// GetByID は指定IDのユーザーを取得する。
func (s *Service) GetByID(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(userID)
	}
	return user, nil
}

// Update はユーザーのプロフィールを更新する。
// パスワード変更時は旧パスワードの照合に成功しなければならない。
func (s *Service) Update(ctx context.Context, userID int64, input UpdateInput) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(userID)
	}

	if input.NewPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.OldPassword)); err != nil {
			return nil, model.NewAuthFailedError()
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("パスワードのハッシュ化に失敗しました: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Surname != "" {
		user.Surname = input.Surname
	}
	if input.Email != "" && input.Email != user.Email {
		exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
		if err != nil {
			return nil, fmt.Errorf("メールアドレスの重複確認に失敗しました: %w", err)
		}
		if exists {
			return nil, model.NewDuplicateNameError("メールアドレス", input.Email)
		}
		user.Email = input.Email
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("user profile updated", slog.Int64("user_id", user.ID))
	return user, nil
}
