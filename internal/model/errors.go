// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, domain, permission, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeIngredientNotFound = "INGREDIENT_NOT_FOUND"
	ErrCodeRecipeNotFound     = "RECIPE_NOT_FOUND"
	ErrCodeMenuNotFound       = "MENU_NOT_FOUND"
	ErrCodeSlotNotFound       = "SLOT_NOT_FOUND"
	ErrCodeListNotFound       = "LIST_NOT_FOUND"
	ErrCodeDuplicateName      = "DUPLICATE_NAME"
	ErrCodePermissionDenied   = "PERMISSION_DENIED"
	ErrCodeInvalidEnumValue   = "INVALID_ENUM_VALUE"
	ErrCodeAuthFailed         = "AUTH_FAILED"
	ErrCodePersistence        = "PERSISTENCE_ERROR"
)

// NewUserNotFoundError はユーザー未検出エラーを生成する。
func NewUserNotFoundError(userID int64) *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  fmt.Sprintf("指定されたユーザーが見つかりません: %d", userID),
		Category: "domain",
		Action:   "ユーザーIDを確認してください。",
	}
}

// NewIngredientNotFoundError は食材未検出エラーを生成する。
func NewIngredientNotFoundError(ingredientID int64) *APIError {
	return &APIError{
		Code:     ErrCodeIngredientNotFound,
		Message:  fmt.Sprintf("指定された食材が見つかりません: %d", ingredientID),
		Category: "domain",
		Action:   "食材IDを確認してください。",
	}
}

// NewRecipeNotFoundError はレシピ未検出エラーを生成する。
func NewRecipeNotFoundError(recipeID int64) *APIError {
	return &APIError{
		Code:     ErrCodeRecipeNotFound,
		Message:  fmt.Sprintf("指定されたレシピが見つかりません: %d", recipeID),
		Category: "domain",
		Action:   "レシピIDを確認してください。",
	}
}

// NewMenuNotFoundError はメニュー未検出エラーを生成する。
// 他ユーザーのメニューに対する操作も同じエラーを返し、存在の有無を漏らさない。
func NewMenuNotFoundError(menuID int64) *APIError {
	return &APIError{
		Code:     ErrCodeMenuNotFound,
		Message:  fmt.Sprintf("指定されたメニューが見つからないか、閲覧する権限がありません: %d", menuID),
		Category: "domain",
		Action:   "メニューIDを確認してください。",
	}
}

// NewSlotNotFoundError は（曜日、食事区分）スロット未検出エラーを生成する。
func NewSlotNotFoundError(day Weekday, category MealCategory) *APIError {
	return &APIError{
		Code:     ErrCodeSlotNotFound,
		Message:  fmt.Sprintf("指定された曜日と食事区分のスロットが見つかりません: %s %s", day, category),
		Category: "domain",
		Action:   "メニュー作成時に選択した食事区分を確認してください。",
	}
}

// NewListNotFoundError は買い物リスト未検出エラーを生成する。
func NewListNotFoundError(listID int64) *APIError {
	return &APIError{
		Code:     ErrCodeListNotFound,
		Message:  fmt.Sprintf("指定された買い物リストが見つかりません: %d", listID),
		Category: "domain",
		Action:   "リストIDを確認してください。",
	}
}

// NewDuplicateNameError は一意名制約違反エラーを生成する。
func NewDuplicateNameError(kind, name string) *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateName,
		Message:  fmt.Sprintf("同じ名前の%sが既に登録されています: %s", kind, name),
		Category: "validation",
		Action:   "別の名前を指定してください。",
	}
}

// NewPermissionDeniedError は所有者以外による操作のエラーを生成する。
func NewPermissionDeniedError(resource string) *APIError {
	return &APIError{
		Code:     ErrCodePermissionDenied,
		Message:  fmt.Sprintf("この%sを操作する権限がありません。", resource),
		Category: "permission",
		Action:   "自分が作成したリソースのみ操作できます。",
	}
}

// NewInvalidEnumValueError は固定列挙値への変換失敗エラーを生成する。
func NewInvalidEnumValueError(kind, value string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidEnumValue,
		Message:  fmt.Sprintf("無効な%sです: %s", kind, value),
		Category: "validation",
		Action:   "定義済みの値のいずれかを指定してください。",
	}
}

// NewAuthFailedError は認証失敗エラーを生成する。
// ユーザーの存在有無を漏らさないため、原因によらず同じメッセージを返す。
func NewAuthFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeAuthFailed,
		Message:  "ユーザー名またはパスワードが正しくありません。",
		Category: "auth",
		Action:   "認証情報を確認して再度お試しください。",
	}
}

// NewPersistenceError は永続化層の基盤エラーを生成する。
// コミット時の制約違反などインフラ起因の失敗を表す。
func NewPersistenceError(operation string) *APIError {
	return &APIError{
		Code:     ErrCodePersistence,
		Message:  fmt.Sprintf("データベース操作に失敗しました: %s", operation),
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
