// Package shoppinglist は買い物リスト生成と管理のドメインロジックを提供する。
package shoppinglist

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/mealplan/internal/metrics"
	"github.com/hitoshi/mealplan/internal/model"
	"github.com/hitoshi/mealplan/internal/repository"
)

// Service は買い物リストのサービス層。
type Service struct {
	listRepo       repository.ShoppingListRepository
	menuRepo       repository.MenuRepository
	ingredientRepo repository.IngredientRepository
	collector      metrics.MetricsCollector
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	listRepo repository.ShoppingListRepository,
	menuRepo repository.MenuRepository,
	ingredientRepo repository.IngredientRepository,
	collector metrics.MetricsCollector,
) *Service {
	return &Service{
		listRepo:       listRepo,
		menuRepo:       menuRepo,
		ingredientRepo: ingredientRepo,
		collector:      collector,
	}
}

// GenerateFromMenu はメニューの全スロットの全レシピから食材を集約して
// 買い物リストを生成する。同じ食材が複数レシピに現れても1回だけ入る。
// 生成されたリストはメニューのスナップショットで、以後のメニュー変更に
// 追従しない。同じメニューから何度でも生成でき、毎回新しいリストになる。
func (s *Service) GenerateFromMenu(ctx context.Context, userID, menuID int64) (*model.ShoppingList, error) {
	menu, err := s.menuRepo.FindByID(ctx, menuID)
	if err != nil {
		return nil, fmt.Errorf("メニューの取得に失敗しました: %w", err)
	}
	if menu == nil {
		return nil, model.NewMenuNotFoundError(menuID)
	}
	if menu.UserID != userID {
		return nil, model.NewPermissionDeniedError("メニュー")
	}

	seen := make(map[int64]bool)
	items := []model.Ingredient{}
	duplicates := 0
	for _, slot := range menu.Slots {
		for _, recipe := range slot.Recipes {
			for _, ingredient := range recipe.Ingredients {
				if seen[ingredient.ID] {
					duplicates++
					continue
				}
				seen[ingredient.ID] = true
				items = append(items, ingredient)
			}
		}
	}

	list := &model.ShoppingList{
		UserID:    userID,
		Items:     items,
		CreatedAt: time.Now(),
	}
	if err := s.listRepo.CreateWithItems(ctx, list); err != nil {
		return nil, fmt.Errorf("買い物リストの作成に失敗しました: %w", err)
	}

	if s.collector != nil {
		s.collector.RecordListGenerated()
		s.collector.RecordItemsAggregated(len(items))
		s.collector.RecordDuplicatesSkipped(duplicates)
	}
	slog.Info("shopping list generated",
		slog.Int64("list_id", list.ID),
		slog.Int64("menu_id", menuID),
		slog.Int64("user_id", userID),
		slog.Int("item_count", len(items)),
		slog.Int("duplicates_skipped", duplicates),
	)
	return list, nil
}

// Get は指定IDのリストを取得する。所有者以外には権限エラーを返す。
func (s *Service) Get(ctx context.Context, userID, listID int64) (*model.ShoppingList, error) {
	return s.getOwned(ctx, userID, listID)
}

// ListByUser はユーザーの全リストを新しい順で返す。
func (s *Service) ListByUser(ctx context.Context, userID int64) ([]model.ShoppingList, error) {
	lists, err := s.listRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("買い物リスト一覧の取得に失敗しました: %w", err)
	}
	return lists, nil
}

// AddItems は指定食材をリストに追加する。存在しない食材IDは黙って
// 無視され、既にリストに入っている食材は二重追加されない。
func (s *Service) AddItems(ctx context.Context, userID, listID int64, ingredientIDs []int64) (*model.ShoppingList, error) {
	if _, err := s.getOwned(ctx, userID, listID); err != nil {
		return nil, err
	}

	// 実在する食材だけに絞り込む
	found, err := s.ingredientRepo.FindAllByIDs(ctx, ingredientIDs)
	if err != nil {
		return nil, fmt.Errorf("食材の取得に失敗しました: %w", err)
	}

	ids := make([]int64, len(found))
	for i, ingredient := range found {
		ids[i] = ingredient.ID
	}

	if err := s.listRepo.AddItems(ctx, listID, ids); err != nil {
		return nil, fmt.Errorf("リストへの食材追加に失敗しました: %w", err)
	}

	return s.getOwned(ctx, userID, listID)
}

// RemoveItems は指定食材をリストから外す。リストに入っていない食材の
// 指定は黙って無視される。
func (s *Service) RemoveItems(ctx context.Context, userID, listID int64, ingredientIDs []int64) (*model.ShoppingList, error) {
	if _, err := s.getOwned(ctx, userID, listID); err != nil {
		return nil, err
	}

	if err := s.listRepo.RemoveItems(ctx, listID, ingredientIDs); err != nil {
		return nil, fmt.Errorf("リストからの食材削除に失敗しました: %w", err)
	}

	return s.getOwned(ctx, userID, listID)
}

// Delete はリストを削除する。
func (s *Service) Delete(ctx context.Context, userID, listID int64) error {
	if _, err := s.getOwned(ctx, userID, listID); err != nil {
		return err
	}

	if err := s.listRepo.DeleteByID(ctx, listID); err != nil {
		return fmt.Errorf("買い物リストの削除に失敗しました: %w", err)
	}

	slog.Info("shopping list deleted", slog.Int64("list_id", listID), slog.Int64("user_id", userID))
	return nil
}

// getOwned はリストを取得し所有者を確認する。
// リストが存在しない場合はLIST_NOT_FOUND、他ユーザー所有の場合は
// PERMISSION_DENIEDと、失敗の種類を区別する。
func (s *Service) getOwned(ctx context.Context, userID, listID int64) (*model.ShoppingList, error) {
	list, err := s.listRepo.FindByID(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("買い物リストの取得に失敗しました: %w", err)
	}
	if list == nil {
		return nil, model.NewListNotFoundError(listID)
	}
	if list.UserID != userID {
		return nil, model.NewPermissionDeniedError("買い物リスト")
	}
	return list, nil
}
