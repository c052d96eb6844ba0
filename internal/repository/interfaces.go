// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/mealplan/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成し、採番されたIDをuser.IDに設定する。
	Create(ctx context.Context, user *model.User) error

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.User, error)

	// FindByUsername はユーザー名でユーザーを検索する（大文字小文字を無視）。
	// 見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// ExistsByEmail は指定メールアドレスのユーザーが存在するか返す（大文字小文字を無視）。
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// ExistsByUsername は指定ユーザー名のユーザーが存在するか返す（大文字小文字を無視）。
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// Update はユーザーの基本情報とパスワードハッシュを更新する。
	Update(ctx context.Context, user *model.User) error
}

// IngredientRepository は食材カタログの永続化インターフェース。
type IngredientRepository interface {
	// Create は食材を作成し、採番されたIDをingredient.IDに設定する。
	Create(ctx context.Context, ingredient *model.Ingredient) error

	// FindByID は指定IDの食材を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Ingredient, error)

	// FindByName は名前で食材を検索する（大文字小文字を無視した完全一致）。
	// 見つからない場合はnilを返す。
	FindByName(ctx context.Context, name string) (*model.Ingredient, error)

	// ExistsByID は指定IDの食材が存在するか返す。
	ExistsByID(ctx context.Context, id int64) (bool, error)

	// ExistsByName は指定名の食材が存在するか返す（大文字小文字を無視）。
	ExistsByName(ctx context.Context, name string) (bool, error)

	// FindAllByIDs は指定ID群のうち存在する食材のみを返す。
	// 存在しないIDはエラーにせず黙って除外する（findAllByIdセマンティクス）。
	FindAllByIDs(ctx context.Context, ids []int64) ([]model.Ingredient, error)

	// ListAll は全食材を名前順で返す。
	ListAll(ctx context.Context) ([]model.Ingredient, error)

	// ListByCategory は指定カテゴリの食材を名前順で返す。
	ListByCategory(ctx context.Context, category model.IngredientCategory) ([]model.Ingredient, error)

	// Update は食材の名前とカテゴリを更新する。
	Update(ctx context.Context, ingredient *model.Ingredient) error

	// ReplaceRecipes は食材が属するレシピ集合を置き換える。
	// 関連テーブルの旧行削除と新行挿入を1トランザクションで行い、
	// レシピ→食材方向の読み取りと常に一致する。
	ReplaceRecipes(ctx context.Context, ingredientID int64, recipeIDs []int64) error

	// DeleteByID は指定IDの食材を削除する。関連テーブルの行はCASCADE削除される。
	DeleteByID(ctx context.Context, id int64) error
}

// RecipeRepository はレシピカタログの永続化インターフェース。
// レシピ↔食材の多対多関連はrecipe_ingredientsテーブル1つに保存され、
// 両方向の読み取りが機械的に一致する。
type RecipeRepository interface {
	// CreateWithIngredients はレシピ本体と食材関連を1トランザクションで作成する。
	// 採番されたIDをrecipe.IDに設定する。
	CreateWithIngredients(ctx context.Context, recipe *model.Recipe, ingredientIDs []int64) error

	// FindByID は指定IDのレシピを食材込みで取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Recipe, error)

	// ExistsByID は指定IDのレシピが存在するか返す。
	ExistsByID(ctx context.Context, id int64) (bool, error)

	// ExistsByName は指定名のレシピが存在するか返す（大文字小文字を無視）。
	ExistsByName(ctx context.Context, name string) (bool, error)

	// SearchByName は名前に部分一致するレシピを食材込みで返す（大文字小文字を無視）。
	SearchByName(ctx context.Context, fragment string) ([]model.Recipe, error)

	// ListAll は全レシピを食材込みで名前順に返す。
	ListAll(ctx context.Context) ([]model.Recipe, error)

	// ListByIngredientID は指定食材を使う全レシピを返す（関連の逆方向読み取り）。
	ListByIngredientID(ctx context.Context, ingredientID int64) ([]model.Recipe, error)

	// AddIngredient はレシピに食材を関連付ける。既に関連済みの場合は何もしない。
	AddIngredient(ctx context.Context, recipeID, ingredientID int64) error

	// ReplaceIngredients はレシピの食材集合を置き換える。
	// 旧行削除と新行挿入を1トランザクションで行う。
	ReplaceIngredients(ctx context.Context, recipeID int64, ingredientIDs []int64) error

	// DeleteByID は指定IDのレシピを削除する。関連テーブルの行はCASCADE削除される。
	DeleteByID(ctx context.Context, id int64) error
}

// MenuRepository は週間メニューの永続化インターフェース。
type MenuRepository interface {
	// CreateWithSlots はメニュー本体と全スロットを1トランザクションで作成する。
	// 採番されたIDをmenu.IDおよび各スロットのIDに設定する。
	// 途中で失敗した場合、スロットのないメニューは残らない。
	CreateWithSlots(ctx context.Context, menu *model.WeeklyMenu) error

	// FindByID は指定IDのメニューをスロット・レシピ込みで取得する。
	// 見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.WeeklyMenu, error)

	// FindByIDAndUserID は指定IDかつ指定ユーザー所有のメニューを取得する。
	// 存在チェックと所有チェックを1クエリで行い、見つからない場合はnilを返す。
	FindByIDAndUserID(ctx context.Context, id, userID int64) (*model.WeeklyMenu, error)

	// ListByUserID はユーザーの全メニューをスロット込みで返す。
	ListByUserID(ctx context.Context, userID int64) ([]model.WeeklyMenu, error)

	// AddRecipeToSlot はスロットにレシピを追加する。既に入っている場合は何もしない。
	AddRecipeToSlot(ctx context.Context, slotID, recipeID int64) error

	// ReplaceSlots はメニューの全スロットを削除して作り直す。
	// 削除と再作成を1トランザクションで行い、途中失敗でスロットが消えたままにならない。
	ReplaceSlots(ctx context.Context, menuID int64, slots []model.MenuSlot) error

	// DeleteByID は指定IDのメニューを削除する。スロットはCASCADE削除される。
	DeleteByID(ctx context.Context, id int64) error
}

// ShoppingListRepository は買い物リストの永続化インターフェース。
type ShoppingListRepository interface {
	// CreateWithItems はリスト本体と項目を1トランザクションで作成する。
	// 採番されたIDをlist.IDに設定する。
	CreateWithItems(ctx context.Context, list *model.ShoppingList) error

	// FindByID は指定IDのリストを項目込みで取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.ShoppingList, error)

	// ListByUserID はユーザーの全リストを項目込みで返す。
	ListByUserID(ctx context.Context, userID int64) ([]model.ShoppingList, error)

	// AddItems は指定食材をリストに追加する。既に入っている食材は何もしない。
	AddItems(ctx context.Context, listID int64, ingredientIDs []int64) error

	// RemoveItems は指定食材をリストから削除する。入っていない食材は無視する。
	RemoveItems(ctx context.Context, listID int64, ingredientIDs []int64) error

	// DeleteByID は指定IDのリストを削除する。項目はCASCADE削除される。
	DeleteByID(ctx context.Context, id int64) error
}
