// Package menu は週間メニュー管理のドメインロジックを提供する。
package menu

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/mealplan/internal/metrics"
	"github.com/hitoshi/mealplan/internal/model"
	"github.com/hitoshi/mealplan/internal/repository"
)

// Service は週間メニューのサービス層。
type Service struct {
	menuRepo   repository.MenuRepository
	recipeRepo repository.RecipeRepository
	userRepo   repository.UserRepository
	collector  metrics.MetricsCollector
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(menuRepo repository.MenuRepository, recipeRepo repository.RecipeRepository, userRepo repository.UserRepository, collector metrics.MetricsCollector) *Service {
	return &Service{
		menuRepo:   menuRepo,
		recipeRepo: recipeRepo,
		userRepo:   userRepo,
		collector:  collector,
	}
}

// Create は選択された食事区分から週間メニューを作成する。
// 区分が未指定の場合は全区分が選択されたものとして扱う。
// 7曜日×選択区分数の空スロットをメニュー本体と同一トランザクションで
// 生成し、スロットが欠けたメニューは決して残らない。
// 同じ区分が2回指定されても1回だけ数える。
func (s *Service) Create(ctx context.Context, userID int64, categories []model.MealCategory) (*model.WeeklyMenu, error) {
	owner, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if owner == nil {
		return nil, model.NewUserNotFoundError(userID)
	}

	unique := dedupeCategories(categories)
	if len(unique) == 0 {
		unique = model.MealCategories()
	}

	menu := &model.WeeklyMenu{
		UserID:    userID,
		CreatedAt: time.Now(),
	}

	for _, day := range model.Weekdays() {
		for _, category := range unique {
			menu.Slots = append(menu.Slots, model.MenuSlot{
				Day:      day,
				Category: category,
			})
		}
	}

	if err := s.menuRepo.CreateWithSlots(ctx, menu); err != nil {
		return nil, fmt.Errorf("メニューの作成に失敗しました: %w", err)
	}

	if s.collector != nil {
		s.collector.RecordMenuCreated()
	}
	slog.Info("weekly menu created",
		slog.Int64("menu_id", menu.ID),
		slog.Int64("user_id", userID),
		slog.Int("slot_count", len(menu.Slots)),
	)
	return menu, nil
}

// Get は指定IDのメニューを取得する。
// 他ユーザー所有のメニューは存在しない場合と同じエラーになり、
// メニューIDの存在有無を漏らさない。
func (s *Service) Get(ctx context.Context, userID, menuID int64) (*model.WeeklyMenu, error) {
	menu, err := s.menuRepo.FindByIDAndUserID(ctx, menuID, userID)
	if err != nil {
		return nil, fmt.Errorf("メニューの取得に失敗しました: %w", err)
	}
	if menu == nil {
		return nil, model.NewMenuNotFoundError(menuID)
	}
	return menu, nil
}

// ListByUser はユーザーの全メニューを新しい順で返す。
func (s *Service) ListByUser(ctx context.Context, userID int64) ([]model.WeeklyMenu, error) {
	menus, err := s.menuRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("メニュー一覧の取得に失敗しました: %w", err)
	}
	return menus, nil
}

// AddRecipe は指定スロットにレシピを1件追加する。
// 同じレシピが既に入っている場合は何もせず成功として扱う。
func (s *Service) AddRecipe(ctx context.Context, userID, menuID int64, day model.Weekday, category model.MealCategory, recipeID int64) (*model.WeeklyMenu, error) {
	menu, err := s.Get(ctx, userID, menuID)
	if err != nil {
		return nil, err
	}

	var slot *model.MenuSlot
	for i := range menu.Slots {
		if menu.Slots[i].Day == day && menu.Slots[i].Category == category {
			slot = &menu.Slots[i]
			break
		}
	}
	if slot == nil {
		return nil, model.NewSlotNotFoundError(day, category)
	}

	exists, err := s.recipeRepo.ExistsByID(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("レシピの存在確認に失敗しました: %w", err)
	}
	if !exists {
		return nil, model.NewRecipeNotFoundError(recipeID)
	}

	if err := s.menuRepo.AddRecipeToSlot(ctx, slot.ID, recipeID); err != nil {
		return nil, fmt.Errorf("スロットへのレシピ追加に失敗しました: %w", err)
	}

	return s.Get(ctx, userID, menuID)
}

// ReplaceRecipes はメニューの全スロット構成を入力の内容で置き換える。
// 削除と再作成を同一トランザクションで行うため、失敗しても元の構成が残る。
// 入力に同じ（曜日、食事区分）が2回現れた場合はDBの一意制約で弾かれる。
func (s *Service) ReplaceRecipes(ctx context.Context, userID, menuID int64, assignments []model.SlotAssignment) (*model.WeeklyMenu, error) {
	if _, err := s.Get(ctx, userID, menuID); err != nil {
		return nil, err
	}

	slots := make([]model.MenuSlot, 0, len(assignments))
	for _, assignment := range assignments {
		slot := model.MenuSlot{
			Day:      assignment.Day,
			Category: assignment.Category,
		}
		for _, recipeID := range assignment.RecipeIDs {
			recipe, err := s.recipeRepo.FindByID(ctx, recipeID)
			if err != nil {
				return nil, fmt.Errorf("レシピの取得に失敗しました: %w", err)
			}
			if recipe == nil {
				return nil, model.NewRecipeNotFoundError(recipeID)
			}
			slot.Recipes = append(slot.Recipes, *recipe)
		}
		slots = append(slots, slot)
	}

	if err := s.menuRepo.ReplaceSlots(ctx, menuID, slots); err != nil {
		return nil, model.NewPersistenceError("メニュースロットの置換")
	}

	slog.Info("menu slots replaced",
		slog.Int64("menu_id", menuID),
		slog.Int("slot_count", len(slots)),
	)
	return s.Get(ctx, userID, menuID)
}

// Delete はメニューを削除する。スロットとレシピ関連もあわせて消える。
func (s *Service) Delete(ctx context.Context, userID, menuID int64) error {
	if _, err := s.Get(ctx, userID, menuID); err != nil {
		return err
	}

	if err := s.menuRepo.DeleteByID(ctx, menuID); err != nil {
		return fmt.Errorf("メニューの削除に失敗しました: %w", err)
	}

	slog.Info("weekly menu deleted", slog.Int64("menu_id", menuID), slog.Int64("user_id", userID))
	return nil
}

// dedupeCategories は食事区分の重複を入力順を保って除去する。
func dedupeCategories(categories []model.MealCategory) []model.MealCategory {
	seen := make(map[model.MealCategory]bool)
	unique := make([]model.MealCategory, 0, len(categories))
	for _, category := range categories {
		if !seen[category] {
			seen[category] = true
			unique = append(unique, category)
		}
	}
	return unique
}
