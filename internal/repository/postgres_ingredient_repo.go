package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/mealplan/internal/model"
)

// PostgresIngredientRepo はPostgreSQLを使用した食材リポジトリ。
type PostgresIngredientRepo struct {
	db *sql.DB
}

// NewPostgresIngredientRepo はPostgresIngredientRepoを生成する。
func NewPostgresIngredientRepo(db *sql.DB) *PostgresIngredientRepo {
	return &PostgresIngredientRepo{db: db}
}

// Create は食材を作成し、採番されたIDをingredient.IDに設定する。
func (r *PostgresIngredientRepo) Create(ctx context.Context, ingredient *model.Ingredient) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO ingredients (name, category) VALUES ($1, $2) RETURNING id`,
		ingredient.Name, ingredient.Category,
	).Scan(&ingredient.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return model.NewDuplicateNameError("食材", ingredient.Name)
		}
		return fmt.Errorf("failed to insert ingredient: %w", err)
	}
	return nil
}

// FindByID は指定IDの食材を取得する。見つからない場合はnilを返す。
func (r *PostgresIngredientRepo) FindByID(ctx context.Context, id int64) (*model.Ingredient, error) {
	ingredient := &model.Ingredient{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, category FROM ingredients WHERE id = $1`,
		id,
	).Scan(&ingredient.ID, &ingredient.Name, &ingredient.Category)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find ingredient by ID: %w", err)
	}

	return ingredient, nil
}

// FindByName は名前で食材を検索する（大文字小文字を無視した完全一致）。
// 見つからない場合はnilを返す。
func (r *PostgresIngredientRepo) FindByName(ctx context.Context, name string) (*model.Ingredient, error) {
	ingredient := &model.Ingredient{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, category FROM ingredients WHERE LOWER(name) = LOWER($1)`,
		name,
	).Scan(&ingredient.ID, &ingredient.Name, &ingredient.Category)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find ingredient by name: %w", err)
	}

	return ingredient, nil
}

// ExistsByID は指定IDの食材が存在するか返す。
func (r *PostgresIngredientRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM ingredients WHERE id = $1)`,
		id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check ingredient existence: %w", err)
	}
	return exists, nil
}

// ExistsByName は指定名の食材が存在するか返す（大文字小文字を無視）。
func (r *PostgresIngredientRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM ingredients WHERE LOWER(name) = LOWER($1))`,
		name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check ingredient name existence: %w", err)
	}
	return exists, nil
}

// FindAllByIDs は指定ID群のうち存在する食材のみを返す。
// 存在しないIDはエラーにせず黙って除外する。
func (r *PostgresIngredientRepo) FindAllByIDs(ctx context.Context, ids []int64) ([]model.Ingredient, error) {
	if len(ids) == 0 {
		return []model.Ingredient{}, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, category FROM ingredients WHERE id = ANY($1) ORDER BY name`,
		pq.Array(ids),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find ingredients by IDs: %w", err)
	}
	defer rows.Close()

	return scanIngredients(rows)
}

// ListAll は全食材を名前順で返す。
func (r *PostgresIngredientRepo) ListAll(ctx context.Context) ([]model.Ingredient, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, category FROM ingredients ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	defer rows.Close()

	return scanIngredients(rows)
}

// ListByCategory は指定カテゴリの食材を名前順で返す。
func (r *PostgresIngredientRepo) ListByCategory(ctx context.Context, category model.IngredientCategory) ([]model.Ingredient, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, category FROM ingredients WHERE category = $1 ORDER BY name`,
		category,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients by category: %w", err)
	}
	defer rows.Close()

	return scanIngredients(rows)
}

// Update は食材の名前とカテゴリを更新する。
func (r *PostgresIngredientRepo) Update(ctx context.Context, ingredient *model.Ingredient) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE ingredients SET name = $1, category = $2 WHERE id = $3`,
		ingredient.Name, ingredient.Category, ingredient.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.NewDuplicateNameError("食材", ingredient.Name)
		}
		return fmt.Errorf("failed to update ingredient: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewIngredientNotFoundError(ingredient.ID)
	}
	return nil
}

// ReplaceRecipes は食材が属するレシピ集合を置き換える。
// 旧行削除と新行挿入を1トランザクションで行う。
func (r *PostgresIngredientRepo) ReplaceRecipes(ctx context.Context, ingredientID int64, recipeIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM recipe_ingredients WHERE ingredient_id = $1`,
		ingredientID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete recipe links: %w", err)
	}

	for _, recipeID := range recipeIDs {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO recipe_ingredients (recipe_id, ingredient_id)
			 VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			recipeID, ingredientID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert recipe link: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteByID は指定IDの食材を削除する。
// recipe_ingredientsとshopping_list_itemsの行はCASCADE削除される。
func (r *PostgresIngredientRepo) DeleteByID(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM ingredients WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete ingredient: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewIngredientNotFoundError(id)
	}
	return nil
}

// scanIngredients は食材行を走査してスライスに詰める。
func scanIngredients(rows *sql.Rows) ([]model.Ingredient, error) {
	ingredients := []model.Ingredient{}
	for rows.Next() {
		var ingredient model.Ingredient
		if err := rows.Scan(&ingredient.ID, &ingredient.Name, &ingredient.Category); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ingredients = append(ingredients, ingredient)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ingredients: %w", err)
	}
	return ingredients, nil
}

// compile-time interface check
var _ IngredientRepository = (*PostgresIngredientRepo)(nil)
