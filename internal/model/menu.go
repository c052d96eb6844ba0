// Package model はドメインモデルを定義する。
package model

import "time"

// WeeklyMenu はユーザーの週間メニューを表す。
// 作成時に（曜日×食事区分）ごとに1つのスロットが生成される。
type WeeklyMenu struct {
	ID        int64
	UserID    int64
	Slots     []MenuSlot
	CreatedAt time.Time
}

// MenuSlot は週間メニュー内の（曜日、食事区分）セルを表す。
// 1つのメニュー内で同じ（曜日、食事区分）の組は1つしか存在しない。
// Recipesは集合として扱い、同じレシピは2回入らない。
type MenuSlot struct {
	ID       int64
	MenuID   int64
	Day      Weekday
	Category MealCategory
	Recipes  []Recipe
}

// SlotAssignment はメニューのレシピ全置換の入力となる
// （曜日、食事区分、レシピID列）の組を表す。
type SlotAssignment struct {
	Day       Weekday
	Category  MealCategory
	RecipeIDs []int64
}
