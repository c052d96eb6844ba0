package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/mealplan/internal/model"
)

// PostgresRecipeRepo はPostgreSQLを使用したレシピリポジトリ。
// レシピ↔食材の関連はrecipe_ingredientsテーブル1つに保存する。
type PostgresRecipeRepo struct {
	db *sql.DB
}

// NewPostgresRecipeRepo はPostgresRecipeRepoを生成する。
func NewPostgresRecipeRepo(db *sql.DB) *PostgresRecipeRepo {
	return &PostgresRecipeRepo{db: db}
}

// CreateWithIngredients はレシピ本体と食材関連を1トランザクションで作成する。
func (r *PostgresRecipeRepo) CreateWithIngredients(ctx context.Context, recipe *model.Recipe, ingredientIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO recipes (name) VALUES ($1) RETURNING id`,
		recipe.Name,
	).Scan(&recipe.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return model.NewDuplicateNameError("レシピ", recipe.Name)
		}
		return fmt.Errorf("failed to insert recipe: %w", err)
	}

	for _, ingredientID := range ingredientIDs {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO recipe_ingredients (recipe_id, ingredient_id)
			 VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			recipe.ID, ingredientID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert ingredient link: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// FindByID は指定IDのレシピを食材込みで取得する。見つからない場合はnilを返す。
func (r *PostgresRecipeRepo) FindByID(ctx context.Context, id int64) (*model.Recipe, error) {
	recipe := &model.Recipe{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name FROM recipes WHERE id = $1`,
		id,
	).Scan(&recipe.ID, &recipe.Name)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find recipe by ID: %w", err)
	}

	recipe.Ingredients, err = r.findIngredients(ctx, recipe.ID)
	if err != nil {
		return nil, err
	}

	return recipe, nil
}

// ExistsByID は指定IDのレシピが存在するか返す。
func (r *PostgresRecipeRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM recipes WHERE id = $1)`,
		id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check recipe existence: %w", err)
	}
	return exists, nil
}

// ExistsByName は指定名のレシピが存在するか返す（大文字小文字を無視）。
func (r *PostgresRecipeRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM recipes WHERE LOWER(name) = LOWER($1))`,
		name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check recipe name existence: %w", err)
	}
	return exists, nil
}

// SearchByName は名前に部分一致するレシピを食材込みで返す。
func (r *PostgresRecipeRepo) SearchByName(ctx context.Context, fragment string) ([]model.Recipe, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name FROM recipes WHERE name ILIKE '%' || $1 || '%' ORDER BY name`,
		fragment,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search recipes: %w", err)
	}
	defer rows.Close()

	return r.scanRecipesWithIngredients(ctx, rows)
}

// ListAll は全レシピを食材込みで名前順に返す。
func (r *PostgresRecipeRepo) ListAll(ctx context.Context) ([]model.Recipe, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name FROM recipes ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	return r.scanRecipesWithIngredients(ctx, rows)
}

// ListByIngredientID は指定食材を使う全レシピを返す。
// recipe_ingredientsを食材側から読むため、レシピ→食材方向と必ず一致する。
func (r *PostgresRecipeRepo) ListByIngredientID(ctx context.Context, ingredientID int64) ([]model.Recipe, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT r.id, r.name
		 FROM recipes r
		 JOIN recipe_ingredients ri ON ri.recipe_id = r.id
		 WHERE ri.ingredient_id = $1
		 ORDER BY r.name`,
		ingredientID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes by ingredient: %w", err)
	}
	defer rows.Close()

	return r.scanRecipesWithIngredients(ctx, rows)
}

// AddIngredient はレシピに食材を関連付ける。既に関連済みの場合は何もしない。
func (r *PostgresRecipeRepo) AddIngredient(ctx context.Context, recipeID, ingredientID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO recipe_ingredients (recipe_id, ingredient_id)
		 VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`,
		recipeID, ingredientID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert ingredient link: %w", err)
	}
	return nil
}

// ReplaceIngredients はレシピの食材集合を置き換える。
// 旧行削除と新行挿入を1トランザクションで行い、途中失敗で
// 食材が消えたままのレシピが残ることはない。
func (r *PostgresRecipeRepo) ReplaceIngredients(ctx context.Context, recipeID int64, ingredientIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM recipe_ingredients WHERE recipe_id = $1`,
		recipeID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete ingredient links: %w", err)
	}

	for _, ingredientID := range ingredientIDs {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO recipe_ingredients (recipe_id, ingredient_id)
			 VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			recipeID, ingredientID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert ingredient link: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteByID は指定IDのレシピを削除する。
// recipe_ingredientsとmenu_slot_recipesの行はCASCADE削除される。
func (r *PostgresRecipeRepo) DeleteByID(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM recipes WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewRecipeNotFoundError(id)
	}
	return nil
}

// findIngredients はレシピに属する食材を名前順で取得する。
func (r *PostgresRecipeRepo) findIngredients(ctx context.Context, recipeID int64) ([]model.Ingredient, error) {
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

// scanRecipesWithIngredients はレシピ行を走査し、各レシピの食材を補完する。
func (r *PostgresRecipeRepo) scanRecipesWithIngredients(ctx context.Context, rows *sql.Rows) ([]model.Recipe, error) {
	recipes := []model.Recipe{}
	for rows.Next() {
		var recipe model.Recipe
		if err := rows.Scan(&recipe.ID, &recipe.Name); err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recipes: %w", err)
	}

	for i := range recipes {
		ingredients, err := r.findIngredients(ctx, recipes[i].ID)
		if err != nil {
			return nil, err
		}
		recipes[i].Ingredients = ingredients
	}

	return recipes, nil
}

// compile-time interface check
var _ RecipeRepository = (*PostgresRecipeRepo)(nil)
