// Package recipe はレシピカタログ管理のドメインロジックを提供する。
package recipe

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/mealplan/internal/model"
	"github.com/hitoshi/mealplan/internal/repository"
)

// Service はレシピカタログのサービス層。
type Service struct {
	recipeRepo     repository.RecipeRepository
	ingredientRepo repository.IngredientRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(recipeRepo repository.RecipeRepository, ingredientRepo repository.IngredientRepository) *Service {
	return &Service{
		recipeRepo:     recipeRepo,
		ingredientRepo: ingredientRepo,
	}
}

// Create は新しいレシピを食材参照の解決込みで登録する。
// 名前は大文字小文字を無視して一意。解決後の食材は集合として扱い、
// 同じ食材が2回指定されても1回だけ関連付ける。
func (s *Service) Create(ctx context.Context, name string, refs []model.IngredientRef) (*model.Recipe, error) {
	exists, err := s.recipeRepo.ExistsByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("レシピ名の重複確認に失敗しました: %w", err)
	}
	if exists {
		return nil, model.NewDuplicateNameError("レシピ", name)
	}

	ingredientIDs, err := s.resolveIngredients(ctx, refs)
	if err != nil {
		return nil, err
	}

	recipe := &model.Recipe{Name: name}
	if err := s.recipeRepo.CreateWithIngredients(ctx, recipe, ingredientIDs); err != nil {
		return nil, err
	}

	created, err := s.recipeRepo.FindByID(ctx, recipe.ID)
	if err != nil {
		return nil, fmt.Errorf("作成したレシピの取得に失敗しました: %w", err)
	}

	slog.Info("recipe created",
		slog.Int64("recipe_id", recipe.ID),
		slog.String("name", name),
		slog.Int("ingredient_count", len(ingredientIDs)),
	)
	return created, nil
}

// GetByID は指定IDのレシピを食材込みで取得する。
func (s *Service) GetByID(ctx context.Context, recipeID int64) (*model.Recipe, error) {
	recipe, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("レシピの取得に失敗しました: %w", err)
	}
	if recipe == nil {
		return nil, model.NewRecipeNotFoundError(recipeID)
	}
	return recipe, nil
}

// ListAll は全レシピを名前順で返す。
func (s *Service) ListAll(ctx context.Context) ([]model.Recipe, error) {
	recipes, err := s.recipeRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("レシピ一覧の取得に失敗しました: %w", err)
	}
	return recipes, nil
}

// Search は名前に部分一致するレシピを返す（大文字小文字を無視）。
func (s *Service) Search(ctx context.Context, fragment string) ([]model.Recipe, error) {
	recipes, err := s.recipeRepo.SearchByName(ctx, fragment)
	if err != nil {
		return nil, fmt.Errorf("レシピの検索に失敗しました: %w", err)
	}
	return recipes, nil
}

// AddIngredient はレシピに食材参照を解決して追加する。
// 既に関連済みの食材なら何もしない。
func (s *Service) AddIngredient(ctx context.Context, recipeID int64, ref model.IngredientRef) (*model.Recipe, error) {
	exists, err := s.recipeRepo.ExistsByID(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("レシピの存在確認に失敗しました: %w", err)
	}
	if !exists {
		return nil, model.NewRecipeNotFoundError(recipeID)
	}

	ingredientIDs, err := s.resolveIngredients(ctx, []model.IngredientRef{ref})
	if err != nil {
		return nil, err
	}

	if err := s.recipeRepo.AddIngredient(ctx, recipeID, ingredientIDs[0]); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, recipeID)
}

// ReplaceIngredients はレシピの食材集合を解決済み参照の内容で置き換える。
// 置換で外れた食材からもこのレシピは見えなくなる。
func (s *Service) ReplaceIngredients(ctx context.Context, recipeID int64, refs []model.IngredientRef) (*model.Recipe, error) {
	exists, err := s.recipeRepo.ExistsByID(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("レシピの存在確認に失敗しました: %w", err)
	}
	if !exists {
		return nil, model.NewRecipeNotFoundError(recipeID)
	}

	ingredientIDs, err := s.resolveIngredients(ctx, refs)
	if err != nil {
		return nil, err
	}

	if err := s.recipeRepo.ReplaceIngredients(ctx, recipeID, ingredientIDs); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, recipeID)
}

// Delete はレシピを削除する。メニュースロットとの関連もあわせて消える。
func (s *Service) Delete(ctx context.Context, recipeID int64) error {
	exists, err := s.recipeRepo.ExistsByID(ctx, recipeID)
	if err != nil {
		return fmt.Errorf("レシピの存在確認に失敗しました: %w", err)
	}
	if !exists {
		return model.NewRecipeNotFoundError(recipeID)
	}

	if err := s.recipeRepo.DeleteByID(ctx, recipeID); err != nil {
		return err
	}

	slog.Info("recipe deleted", slog.Int64("recipe_id", recipeID))
	return nil
}

// resolveIngredients は食材参照を3段階で食材IDに解決する。
//  1. IDが指定されていればIDで検索（存在しなければエラー）
//  2. 名前で検索（大文字小文字を無視）
//  3. どちらでも見つからなければ新規食材として登録
//
// 解決結果は入力順を保った重複なしのID列。
func (s *Service) resolveIngredients(ctx context.Context, refs []model.IngredientRef) ([]int64, error) {
	ids := make([]int64, 0, len(refs))
	seen := make(map[int64]bool)

	for _, ref := range refs {
		var id int64

		switch {
		case ref.ID != nil:
			ingredient, err := s.ingredientRepo.FindByID(ctx, *ref.ID)
			if err != nil {
				return nil, fmt.Errorf("食材の取得に失敗しました: %w", err)
			}
			if ingredient == nil {
				return nil, model.NewIngredientNotFoundError(*ref.ID)
			}
			id = ingredient.ID
		default:
			ingredient, err := s.ingredientRepo.FindByName(ctx, ref.Name)
			if err != nil {
				return nil, fmt.Errorf("食材の名前検索に失敗しました: %w", err)
			}
			if ingredient != nil {
				id = ingredient.ID
			} else {
				category := ref.Category
				if category == "" {
					category = model.IngredientCategoryOther
				}
				newIngredient := &model.Ingredient{Name: ref.Name, Category: category}
				if err := s.ingredientRepo.Create(ctx, newIngredient); err != nil {
					return nil, err
				}
				slog.Info("ingredient auto-created during recipe resolution",
					slog.Int64("ingredient_id", newIngredient.ID),
					slog.String("name", newIngredient.Name),
				)
				id = newIngredient.ID
			}
		}

		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	return ids, nil
}
