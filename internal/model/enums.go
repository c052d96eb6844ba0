// Package model はドメインモデルを定義する。
package model

import "strings"

// Weekday は週の曜日を表す。
type Weekday string

const (
	WeekdayMonday    Weekday = "MONDAY"
	WeekdayTuesday   Weekday = "TUESDAY"
	WeekdayWednesday Weekday = "WEDNESDAY"
	WeekdayThursday  Weekday = "THURSDAY"
	WeekdayFriday    Weekday = "FRIDAY"
	WeekdaySaturday  Weekday = "SATURDAY"
	WeekdaySunday    Weekday = "SUNDAY"
)

// Weekdays は週の全曜日を月曜始まりの順で返す。
func Weekdays() []Weekday {
	return []Weekday{
		WeekdayMonday, WeekdayTuesday, WeekdayWednesday, WeekdayThursday,
		WeekdayFriday, WeekdaySaturday, WeekdaySunday,
	}
}

// ParseWeekday は文字列を曜日に変換する。大文字小文字は区別しない。
// 一致する曜日がない場合はINVALID_ENUM_VALUEエラーを返す。
func ParseWeekday(value string) (Weekday, error) {
	for _, d := range Weekdays() {
		if strings.EqualFold(string(d), value) {
			return d, nil
		}
	}
	return "", NewInvalidEnumValueError("weekday", value)
}

// MealCategory は1日の食事区分（朝食、昼食など）を表す。
type MealCategory string

const (
	MealCategoryBreakfast MealCategory = "BREAKFAST"
	MealCategoryBrunch    MealCategory = "BRUNCH"
	MealCategoryLunch     MealCategory = "LUNCH"
	MealCategorySnack     MealCategory = "SNACK"
	MealCategoryDinner    MealCategory = "DINNER"
)

// MealCategories は全食事区分を1日の時系列順で返す。
func MealCategories() []MealCategory {
	return []MealCategory{
		MealCategoryBreakfast, MealCategoryBrunch, MealCategoryLunch,
		MealCategorySnack, MealCategoryDinner,
	}
}

// ParseMealCategory は文字列を食事区分に変換する。大文字小文字は区別しない。
// 一致する区分がない場合はINVALID_ENUM_VALUEエラーを返す。
func ParseMealCategory(value string) (MealCategory, error) {
	for _, c := range MealCategories() {
		if strings.EqualFold(string(c), value) {
			return c, nil
		}
	}
	return "", NewInvalidEnumValueError("meal category", value)
}

// IngredientCategory は食材の分類を表す。
type IngredientCategory string

const (
	IngredientCategoryVegetables IngredientCategory = "VEGETABLES"
	IngredientCategoryFruits     IngredientCategory = "FRUITS"
	IngredientCategoryMeat       IngredientCategory = "MEAT"
	IngredientCategoryFish       IngredientCategory = "FISH"
	IngredientCategoryLegumes    IngredientCategory = "LEGUMES"
	IngredientCategoryDairy      IngredientCategory = "DAIRY"
	IngredientCategoryCereals    IngredientCategory = "CEREALS"
	IngredientCategoryNuts       IngredientCategory = "NUTS"
	IngredientCategoryFatsOils   IngredientCategory = "FATS_OILS"
	IngredientCategorySpices     IngredientCategory = "SPICES"
	IngredientCategoryCanned     IngredientCategory = "CANNED"
	IngredientCategoryFrozen     IngredientCategory = "FROZEN"
	IngredientCategoryOther      IngredientCategory = "OTHER"
)

// IngredientCategories は全13種の食材カテゴリを返す。
func IngredientCategories() []IngredientCategory {
	return []IngredientCategory{
		IngredientCategoryVegetables, IngredientCategoryFruits,
		IngredientCategoryMeat, IngredientCategoryFish,
		IngredientCategoryLegumes, IngredientCategoryDairy,
		IngredientCategoryCereals, IngredientCategoryNuts,
		IngredientCategoryFatsOils, IngredientCategorySpices,
		IngredientCategoryCanned, IngredientCategoryFrozen,
		IngredientCategoryOther,
	}
}

// ParseIngredientCategory は文字列を食材カテゴリに変換する。大文字小文字は区別しない。
// 一致するカテゴリがない場合はINVALID_ENUM_VALUEエラーを返す。
func ParseIngredientCategory(value string) (IngredientCategory, error) {
	for _, c := range IngredientCategories() {
		if strings.EqualFold(string(c), value) {
			return c, nil
		}
	}
	return "", NewInvalidEnumValueError("ingredient category", value)
}

// Role はユーザーの権限ロールを表す。
type Role string

const (
	// RoleAdmin は管理者ロール。
	RoleAdmin Role = "ADMIN"
	// RoleUser は一般ユーザーロール。
	RoleUser Role = "USER"
)

// ParseRole は文字列をロールに変換する。大文字小文字は区別しない。
func ParseRole(value string) (Role, error) {
	for _, r := range []Role{RoleAdmin, RoleUser} {
		if strings.EqualFold(string(r), value) {
			return r, nil
		}
	}
	return "", NewInvalidEnumValueError("role", value)
}
