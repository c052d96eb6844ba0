// Package model はドメインモデルを定義する。
package model

import "time"

// ShoppingList はユーザーの買い物リストを表す。
// 週間メニューのスナップショットから生成され、生成後はメニューの
// 変更から独立する。Itemsは食材IDで重複のない集合。
type ShoppingList struct {
	ID        int64
	UserID    int64
	Items     []Ingredient
	CreatedAt time.Time
}
