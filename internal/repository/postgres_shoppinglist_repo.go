package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/mealplan/internal/model"
)

// PostgresShoppingListRepo はPostgreSQLを使用した買い物リストリポジトリ。
type PostgresShoppingListRepo struct {
	db *sql.DB
}

// NewPostgresShoppingListRepo はPostgresShoppingListRepoを生成する。
func NewPostgresShoppingListRepo(db *sql.DB) *PostgresShoppingListRepo {
	return &PostgresShoppingListRepo{db: db}
}

// CreateWithItems はリスト本体と項目を1トランザクションで作成する。
func (r *PostgresShoppingListRepo) CreateWithItems(ctx context.Context, list *model.ShoppingList) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO shopping_lists (user_id, created_at) VALUES ($1, $2) RETURNING id`,
		list.UserID, list.CreatedAt,
	).Scan(&list.ID)
	if err != nil {
		return fmt.Errorf("failed to insert shopping list: %w", err)
	}

	for _, item := range list.Items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO shopping_list_items (shopping_list_id, ingredient_id)
			 VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			list.ID, item.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert shopping list item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// FindByID は指定IDのリストを項目込みで取得する。見つからない場合はnilを返す。
func (r *PostgresShoppingListRepo) FindByID(ctx context.Context, id int64) (*model.ShoppingList, error) {
	list := &model.ShoppingList{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, created_at FROM shopping_lists WHERE id = $1`,
		id,
	).Scan(&list.ID, &list.UserID, &list.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find shopping list by ID: %w", err)
	}

	list.Items, err = r.findItems(ctx, list.ID)
	if err != nil {
		return nil, err
	}

	return list, nil
}

// ListByUserID はユーザーの全リストを項目込みで新しい順に返す。
func (r *PostgresShoppingListRepo) ListByUserID(ctx context.Context, userID int64) ([]model.ShoppingList, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, created_at FROM shopping_lists WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping lists: %w", err)
	}
	defer rows.Close()

	lists := []model.ShoppingList{}
	for rows.Next() {
		var list model.ShoppingList
		if err := rows.Scan(&list.ID, &list.UserID, &list.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan shopping list: %w", err)
		}
		lists = append(lists, list)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shopping lists: %w", err)
	}

	for i := range lists {
		items, err := r.findItems(ctx, lists[i].ID)
		if err != nil {
			return nil, err
		}
		lists[i].Items = items
	}

	return lists, nil
}

// AddItems は指定食材をリストに追加する。既に入っている食材は何もしない。
func (r *PostgresShoppingListRepo) AddItems(ctx context.Context, listID int64, ingredientIDs []int64) error {
	for _, ingredientID := range ingredientIDs {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO shopping_list_items (shopping_list_id, ingredient_id)
			 VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			listID, ingredientID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert shopping list item: %w", err)
		}
	}
	return nil
}

// RemoveItems は指定食材をリストから削除する。入っていない食材は無視する。
func (r *PostgresShoppingListRepo) RemoveItems(ctx context.Context, listID int64, ingredientIDs []int64) error {
	if len(ingredientIDs) == 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM shopping_list_items
		 WHERE shopping_list_id = $1 AND ingredient_id = ANY($2)`,
		listID, pq.Array(ingredientIDs),
	)
	if err != nil {
		return fmt.Errorf("failed to delete shopping list items: %w", err)
	}
	return nil
}

// DeleteByID は指定IDのリストを削除する。項目はCASCADE削除される。
func (r *PostgresShoppingListRepo) DeleteByID(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM shopping_lists WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete shopping list: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewListNotFoundError(id)
	}
	return nil
}

// findItems はリストの項目を名前順で取得する。
func (r *PostgresShoppingListRepo) findItems(ctx context.Context, listID int64) ([]model.Ingredient, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT i.id, i.name, i.category
		 FROM ingredients i
		 JOIN shopping_list_items sli ON sli.ingredient_id = i.id
		 WHERE sli.shopping_list_id = $1
		 ORDER BY i.name`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find shopping list items: %w", err)
	}
	defer rows.Close()

	return scanIngredients(rows)
}

// compile-time interface check
var _ ShoppingListRepository = (*PostgresShoppingListRepo)(nil)
