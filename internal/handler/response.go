// Package handler はHTTP APIのハンドラー層を提供する。
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/mealplan/internal/middleware"
	"github.com/hitoshi/mealplan/internal/model"
)

// apiErrorResponse は統一エラーフォーマットのレスポンス。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// ingredientResponse は食材情報のAPIレスポンス。
type ingredientResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// recipeResponse はレシピ情報のAPIレスポンス。
type recipeResponse struct {
	ID          int64                `json:"id"`
	Name        string               `json:"name"`
	Ingredients []ingredientResponse `json:"ingredients"`
}

// menuSlotResponse はメニュースロットのAPIレスポンス。
type menuSlotResponse struct {
	ID           int64            `json:"id"`
	Day          string           `json:"day"`
	MealCategory string           `json:"meal_category"`
	Recipes      []recipeResponse `json:"recipes"`
}

// menuResponse は週間メニューのAPIレスポンス。
type menuResponse struct {
	ID        int64              `json:"id"`
	Slots     []menuSlotResponse `json:"slots"`
	CreatedAt time.Time          `json:"created_at"`
}

// shoppingListResponse は買い物リストのAPIレスポンス。
type shoppingListResponse struct {
	ID        int64                `json:"id"`
	Items     []ingredientResponse `json:"items"`
	CreatedAt time.Time            `json:"created_at"`
}

// userResponse はユーザー情報のAPIレスポンス。パスワードハッシュは含めない。
type userResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// --- ヘルパー関数 ---

func toIngredientResponse(ing model.Ingredient) ingredientResponse {
	return ingredientResponse{
		ID:       ing.ID,
		Name:     ing.Name,
		Category: string(ing.Category),
	}
}

func toIngredientResponses(ings []model.Ingredient) []ingredientResponse {
	results := make([]ingredientResponse, len(ings))
	for i, ing := range ings {
		results[i] = toIngredientResponse(ing)
	}
	return results
}

func toRecipeResponse(recipe *model.Recipe) recipeResponse {
	return recipeResponse{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Ingredients: toIngredientResponses(recipe.Ingredients),
	}
}

func toMenuResponse(menu *model.WeeklyMenu) menuResponse {
	slots := make([]menuSlotResponse, len(menu.Slots))
	for i, slot := range menu.Slots {
		recipes := make([]recipeResponse, len(slot.Recipes))
		for j := range slot.Recipes {
			recipes[j] = toRecipeResponse(&slot.Recipes[j])
		}
		slots[i] = menuSlotResponse{
			ID:           slot.ID,
			Day:          string(slot.Day),
			MealCategory: string(slot.Category),
			Recipes:      recipes,
		}
	}
	return menuResponse{
		ID:        menu.ID,
		Slots:     slots,
		CreatedAt: menu.CreatedAt,
	}
}

func toShoppingListResponse(list *model.ShoppingList) shoppingListResponse {
	return shoppingListResponse{
		ID:        list.ID,
		Items:     toIngredientResponses(list.Items),
		CreatedAt: list.CreatedAt,
	}
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Name:      u.Name,
		Surname:   u.Surname,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// writeJSONResponse はJSONレスポンスを書き込む。
func writeJSONResponse(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	writeJSONResponse(w, statusCode, apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// writeInvalidRequest はリクエスト形式不正のエラーレスポンスを書き込む。
func writeInvalidRequest(w http.ResponseWriter, message string) {
	writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
		Code:     "INVALID_REQUEST",
		Message:  message,
		Category: "validation",
		Action:   "リクエスト内容を確認してください。",
	})
}

// requireUserID はリクエストコンテキストから認証済みユーザーIDを取得する。
// 取得できない場合は401レスポンスを書き込みfalseを返す。
func requireUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, &model.APIError{
			Code:     "UNAUTHORIZED",
			Message:  "認証が必要です。",
			Category: "auth",
			Action:   "ログインしてください。",
		})
		return 0, false
	}
	return userID, true
}

// parseIDParam はURLパスパラメータをint64のIDとして解析する。
func parseIDParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeAPIErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeUserNotFound, model.ErrCodeIngredientNotFound,
		model.ErrCodeRecipeNotFound, model.ErrCodeMenuNotFound,
		model.ErrCodeSlotNotFound, model.ErrCodeListNotFound:
		return http.StatusNotFound
	case model.ErrCodeDuplicateName:
		return http.StatusConflict
	case model.ErrCodePermissionDenied:
		return http.StatusForbidden
	case model.ErrCodeInvalidEnumValue:
		return http.StatusBadRequest
	case model.ErrCodeAuthFailed:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
