package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/mealplan/internal/model"
)

// PostgresMenuRepo はPostgreSQLを使用した週間メニューリポジトリ。
type PostgresMenuRepo struct {
	db *sql.DB
}

// NewPostgresMenuRepo はPostgresMenuRepoを生成する。
func NewPostgresMenuRepo(db *sql.DB) *PostgresMenuRepo {
	return &PostgresMenuRepo{db: db}
}

// CreateWithSlots はメニュー本体と全スロットを1トランザクションで作成する。
// 途中で失敗した場合、スロットのないメニューは残らない。
func (r *PostgresMenuRepo) CreateWithSlots(ctx context.Context, menu *model.WeeklyMenu) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO weekly_menus (user_id, created_at) VALUES ($1, $2) RETURNING id`,
		menu.UserID, menu.CreatedAt,
	).Scan(&menu.ID)
	if err != nil {
		return fmt.Errorf("failed to insert menu: %w", err)
	}

	for i := range menu.Slots {
		slot := &menu.Slots[i]
		slot.MenuID = menu.ID
		err = tx.QueryRowContext(ctx,
			`INSERT INTO menu_slots (menu_id, day, category) VALUES ($1, $2, $3) RETURNING id`,
			menu.ID, slot.Day, slot.Category,
		).Scan(&slot.ID)
		if err != nil {
			return fmt.Errorf("failed to insert menu slot: %w", err)
		}

		for _, recipe := range slot.Recipes {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO menu_slot_recipes (menu_slot_id, recipe_id)
				 VALUES ($1, $2)
				 ON CONFLICT DO NOTHING`,
				slot.ID, recipe.ID,
			)
			if err != nil {
				return fmt.Errorf("failed to insert slot recipe: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// FindByID は指定IDのメニューをスロット・レシピ込みで取得する。
// 見つからない場合はnilを返す。
func (r *PostgresMenuRepo) FindByID(ctx context.Context, id int64) (*model.WeeklyMenu, error) {
	menu := &model.WeeklyMenu{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, created_at FROM weekly_menus WHERE id = $1`,
		id,
	).Scan(&menu.ID, &menu.UserID, &menu.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find menu by ID: %w", err)
	}

	menu.Slots, err = r.findSlots(ctx, menu.ID)
	if err != nil {
		return nil, err
	}

	return menu, nil
}

// FindByIDAndUserID は指定IDかつ指定ユーザー所有のメニューを取得する。
// 存在しない場合も他ユーザー所有の場合もnilを返す。
func (r *PostgresMenuRepo) FindByIDAndUserID(ctx context.Context, id, userID int64) (*model.WeeklyMenu, error) {
	menu := &model.WeeklyMenu{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, created_at FROM weekly_menus WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&menu.ID, &menu.UserID, &menu.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find menu by ID and user: %w", err)
	}

	menu.Slots, err = r.findSlots(ctx, menu.ID)
	if err != nil {
		return nil, err
	}

	return menu, nil
}

// ListByUserID はユーザーの全メニューをスロット込みで新しい順に返す。
func (r *PostgresMenuRepo) ListByUserID(ctx context.Context, userID int64) ([]model.WeeklyMenu, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, created_at FROM weekly_menus WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list menus: %w", err)
	}
	defer rows.Close()

	menus := []model.WeeklyMenu{}
	for rows.Next() {
		var menu model.WeeklyMenu
		if err := rows.Scan(&menu.ID, &menu.UserID, &menu.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan menu: %w", err)
		}
		menus = append(menus, menu)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate menus: %w", err)
	}

	for i := range menus {
		slots, err := r.findSlots(ctx, menus[i].ID)
		if err != nil {
			return nil, err
		}
		menus[i].Slots = slots
	}

	return menus, nil
}

// AddRecipeToSlot はスロットにレシピを追加する。既に入っている場合は何もしない。
func (r *PostgresMenuRepo) AddRecipeToSlot(ctx context.Context, slotID, recipeID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO menu_slot_recipes (menu_slot_id, recipe_id)
		 VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`,
		slotID, recipeID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert slot recipe: %w", err)
	}
	return nil
}

// ReplaceSlots はメニューの全スロットを削除して作り直す。
// menu_slot_recipesの旧行はCASCADE削除され、削除と再作成を
// 1トランザクションで行うため途中失敗で空のメニューは残らない。
func (r *PostgresMenuRepo) ReplaceSlots(ctx context.Context, menuID int64, slots []model.MenuSlot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM menu_slots WHERE menu_id = $1`,
		menuID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete menu slots: %w", err)
	}

	for i := range slots {
		slot := &slots[i]
		slot.MenuID = menuID
		err = tx.QueryRowContext(ctx,
			`INSERT INTO menu_slots (menu_id, day, category) VALUES ($1, $2, $3) RETURNING id`,
			menuID, slot.Day, slot.Category,
		).Scan(&slot.ID)
		if err != nil {
			return fmt.Errorf("failed to insert menu slot: %w", err)
		}

		for _, recipe := range slot.Recipes {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO menu_slot_recipes (menu_slot_id, recipe_id)
				 VALUES ($1, $2)
				 ON CONFLICT DO NOTHING`,
				slot.ID, recipe.ID,
			)
			if err != nil {
				return fmt.Errorf("failed to insert slot recipe: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteByID は指定IDのメニューを削除する。
// menu_slotsとmenu_slot_recipesの行はCASCADE削除される。
func (r *PostgresMenuRepo) DeleteByID(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM weekly_menus WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete menu: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewMenuNotFoundError(id)
	}
	return nil
}

// findSlots はメニューの全スロットをレシピ込みで取得する。
// 曜日と食事区分の宣言順に並べて返す。
func (r *PostgresMenuRepo) findSlots(ctx context.Context, menuID int64) ([]model.MenuSlot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, menu_id, day, category FROM menu_slots WHERE menu_id = $1 ORDER BY id`,
		menuID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find menu slots: %w", err)
	}
	defer rows.Close()

	slots := []model.MenuSlot{}
	for rows.Next() {
		var slot model.MenuSlot
		if err := rows.Scan(&slot.ID, &slot.MenuID, &slot.Day, &slot.Category); err != nil {
			return nil, fmt.Errorf("failed to scan menu slot: %w", err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate menu slots: %w", err)
	}

	for i := range slots {
		recipes, err := r.findSlotRecipes(ctx, slots[i].ID)
		if err != nil {
			return nil, err
		}
		slots[i].Recipes = recipes
	}

	return slots, nil
}

// findSlotRecipes はスロットに入っているレシピを食材込みで取得する。
func (r *PostgresMenuRepo) findSlotRecipes(ctx context.Context, slotID int64) ([]model.Recipe, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT r.id, r.name
		 FROM recipes r
		 JOIN menu_slot_recipes msr ON msr.recipe_id = r.id
		 WHERE msr.menu_slot_id = $1
		 ORDER BY r.name`,
		slotID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find slot recipes: %w", err)
	}
	defer rows.Close()

	recipes := []model.Recipe{}
	for rows.Next() {
		var recipe model.Recipe
		if err := rows.Scan(&recipe.ID, &recipe.Name); err != nil {
			return nil, fmt.Errorf("failed to scan slot recipe: %w", err)
		}
		recipes = append(recipes, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate slot recipes: %w", err)
	}

	for i := range recipes {
		ingredients, err := r.findRecipeIngredients(ctx, recipes[i].ID)
		if err != nil {
			return nil, err
		}
		recipes[i].Ingredients = ingredients
	}

	return recipes, nil
}

// findRecipeIngredients はレシピの食材を名前順で取得する。
func (r *PostgresMenuRepo) findRecipeIngredients(ctx context.Context, recipeID int64) ([]model.Ingredient, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT i.id, i.name, i.category
		 FROM ingredients i
		 JOIN recipe_ingredients ri ON ri.ingredient_id = i.id
		 WHERE ri.recipe_id = $1
		 ORDER BY i.name`,
		recipeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find recipe ingredients: %w", err)
	}
	defer rows.Close()

	return scanIngredients(rows)
}

// compile-time interface check
var _ MenuRepository = (*PostgresMenuRepo)(nil)
