// Package ingredient は食材カタログ管理のドメインロジックを提供する。
package ingredient

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/mealplan/internal/model"
	"github.com/hitoshi/mealplan/internal/repository"
)

// UpdateInput は食材更新の入力。
// RecipeIDsがnilでない場合、食材が属するレシピ集合をその内容で置き換える。
type UpdateInput struct {
	Name      string
	Category  model.IngredientCategory
	RecipeIDs []int64
}

// Service は食材カタログのサービス層。
type Service struct {
	ingredientRepo repository.IngredientRepository
	recipeRepo     repository.RecipeRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(ingredientRepo repository.IngredientRepository, recipeRepo repository.RecipeRepository) *Service {
	return &Service{
		ingredientRepo: ingredientRepo,
		recipeRepo:     recipeRepo,
	}
}

// Create は新しい食材を登録する。名前は大文字小文字を無視して一意。
func (s *Service) Create(ctx context.Context, name string, category model.IngredientCategory) (*model.Ingredient, error) {
	exists, err := s.ingredientRepo.ExistsByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("食材名の重複確認に失敗しました: %w", err)
	}
	if exists {
		return nil, model.NewDuplicateNameError("食材", name)
	}

	ingredient := &model.Ingredient{
		Name:     name,
		Category: category,
	}
	if err := s.ingredientRepo.Create(ctx, ingredient); err != nil {
		return nil, err
	}

	slog.Info("ingredient created", slog.Int64("ingredient_id", ingredient.ID), slog.String("name", ingredient.Name))
	return ingredient, nil
}

// GetByID は指定IDの食材を取得する。
func (s *Service) GetByID(ctx context.Context, ingredientID int64) (*model.Ingredient, error) {
	ingredient, err := s.ingredientRepo.FindByID(ctx, ingredientID)
	if err != nil {
		return nil, fmt.Errorf("食材の取得に失敗しました: %w", err)
	}
	if ingredient == nil {
		return nil, model.NewIngredientNotFoundError(ingredientID)
	}
	return ingredient, nil
}

// ListAll は全食材を名前順で返す。
func (s *Service) ListAll(ctx context.Context) ([]model.Ingredient, error) {
	ingredients, err := s.ingredientRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("食材一覧の取得に失敗しました: %w", err)
	}
	return ingredients, nil
}

// ListByCategory は指定カテゴリの食材を名前順で返す。
func (s *Service) ListByCategory(ctx context.Context, category model.IngredientCategory) ([]model.Ingredient, error) {
	ingredients, err := s.ingredientRepo.ListByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("カテゴリ別食材一覧の取得に失敗しました: %w", err)
	}
	return ingredients, nil
}

// ListRecipes は指定食材を使う全レシピを返す。
func (s *Service) ListRecipes(ctx context.Context, ingredientID int64) ([]model.Recipe, error) {
	exists, err := s.ingredientRepo.ExistsByID(ctx, ingredientID)
	if err != nil {
		return nil, fmt.Errorf("食材の存在確認に失敗しました: %w", err)
	}
	if !exists {
		return nil, model.NewIngredientNotFoundError(ingredientID)
	}

	recipes, err := s.recipeRepo.ListByIngredientID(ctx, ingredientID)
	if err != nil {
		return nil, fmt.Errorf("食材を使うレシピ一覧の取得に失敗しました: %w", err)
	}
	return recipes, nil
}

// Update は食材の名前・カテゴリを更新する。
// RecipeIDsが指定された場合は所属レシピ集合も置き換える。置換で外れた
// レシピからもこの食材は見えなくなり、両方向の関連が常に一致する。
// 入力の検証はすべて行更新より前に行い、検証エラー時は何も書き込まれない。
func (s *Service) Update(ctx context.Context, ingredientID int64, input UpdateInput) (*model.Ingredient, error) {
	ingredient, err := s.ingredientRepo.FindByID(ctx, ingredientID)
	if err != nil {
		return nil, fmt.Errorf("食材の取得に失敗しました: %w", err)
	}
	if ingredient == nil {
		return nil, model.NewIngredientNotFoundError(ingredientID)
	}

	if input.Name != "" && input.Name != ingredient.Name {
		exists, err := s.ingredientRepo.ExistsByName(ctx, input.Name)
		if err != nil {
			return nil, fmt.Errorf("食材名の重複確認に失敗しました: %w", err)
		}
		if exists {
			return nil, model.NewDuplicateNameError("食材", input.Name)
		}
		ingredient.Name = input.Name
	}
	if input.Category != "" {
		ingredient.Category = input.Category
	}

	if input.RecipeIDs != nil {
		for _, recipeID := range input.RecipeIDs {
			exists, err := s.recipeRepo.ExistsByID(ctx, recipeID)
			if err != nil {
				return nil, fmt.Errorf("レシピの存在確認に失敗しました: %w", err)
			}
			if !exists {
				return nil, model.NewRecipeNotFoundError(recipeID)
			}
		}
	}

	if err := s.ingredientRepo.Update(ctx, ingredient); err != nil {
		return nil, err
	}

	if input.RecipeIDs != nil {
		if err := s.ingredientRepo.ReplaceRecipes(ctx, ingredientID, input.RecipeIDs); err != nil {
			return nil, fmt.Errorf("所属レシピの置換に失敗しました: %w", err)
		}
	}

	slog.Info("ingredient updated", slog.Int64("ingredient_id", ingredient.ID))
	return ingredient, nil
}

// Delete は食材を削除する。レシピ・買い物リストとの関連もあわせて消える。
func (s *Service) Delete(ctx context.Context, ingredientID int64) error {
	exists, err := s.ingredientRepo.ExistsByID(ctx, ingredientID)
	if err != nil {
		return fmt.Errorf("食材の存在確認に失敗しました: %w", err)
	}
	if !exists {
		return model.NewIngredientNotFoundError(ingredientID)
	}

	if err := s.ingredientRepo.DeleteByID(ctx, ingredientID); err != nil {
		return err
	}

	slog.Info("ingredient deleted", slog.Int64("ingredient_id", ingredientID))
	return nil
}
