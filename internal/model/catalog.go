// Package model はドメインモデルを定義する。
package model

// Ingredient は食材カタログの1項目を表す。
// 食材は全ユーザーで共有され、名前は大文字小文字を無視して一意。
type Ingredient struct {
	ID       int64
	Name     string
	Category IngredientCategory
}

// Recipe はレシピを表す。
// Ingredientsはrecipe_ingredients関連テーブルから読み込んだ食材集合。
// 関連は1つのテーブルに保存されるため、レシピ→食材と食材→レシピの
// 両方向の読み取りは常に同じ行を参照する。
type Recipe struct {
	ID          int64
	Name        string
	Ingredients []Ingredient
}

// IngredientRef はレシピ作成・更新時の食材参照を表す。
// 解決は3段階のフォールバックで行う:
//  1. IDが指定されていればIDで検索
//  2. 見つからなければ名前で検索（大文字小文字を無視）
//  3. それでも見つからなければ新規作成（Categoryが必須）
type IngredientRef struct {
	ID       *int64
	Name     string
	Category IngredientCategory
}
