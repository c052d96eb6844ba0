package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/mealplan/internal/model"
)

// MenuServiceInterface はメニューハンドラーが必要とするサービスインターフェース。
type MenuServiceInterface interface {
	// Create は全曜日×指定食事区分のスロットを持つ週間メニューを作成する。
	Create(ctx context.Context, userID int64, categories []model.MealCategory) (*model.WeeklyMenu, error)
	// Get は所有者のメニューを取得する。
	Get(ctx context.Context, userID, menuID int64) (*model.WeeklyMenu, error)
	// ListByUser はユーザーの全メニューを返す。
	ListByUser(ctx context.Context, userID int64) ([]model.WeeklyMenu, error)
	// AddRecipe は指定スロットにレシピを追加する。
	AddRecipe(ctx context.Context, userID, menuID int64, day model.Weekday, category model.MealCategory, recipeID int64) (*model.WeeklyMenu, error)
	// ReplaceRecipes はメニューの全スロット割り当てを置換する。
	ReplaceRecipes(ctx context.Context, userID, menuID int64, assignments []model.SlotAssignment) (*model.WeeklyMenu, error)
	// Delete はメニューを削除する。
	Delete(ctx context.Context, userID, menuID int64) error
}

// MenuHandler は週間メニュー管理のHTTPハンドラー。
type MenuHandler struct {
	service MenuServiceInterface
}

// NewMenuHandler はMenuHandlerを生成する。
func NewMenuHandler(service MenuServiceInterface) *MenuHandler {
	return &MenuHandler{
		service: service,
	}
}

// createMenuRequest はメニュー作成リクエストのボディ。
// meal_categoriesを省略すると全食事区分のメニューが作られる。
type createMenuRequest struct {
	MealCategories []string `json:"meal_categories"`
}

// addMenuRecipeRequest はスロットへのレシピ追加リクエストのボディ。
type addMenuRecipeRequest struct {
	Day          string `json:"day"`
	MealCategory string `json:"meal_category"`
	RecipeID     int64  `json:"recipe_id"`
}

// slotAssignmentRequest はスロット割り当て置換の1要素。
type slotAssignmentRequest struct {
	Day          string  `json:"day"`
	MealCategory string  `json:"meal_category"`
	RecipeIDs    []int64 `json:"recipe_ids"`
}

// replaceMenuRecipesRequest はメニュー全置換リクエストのボディ。
type replaceMenuRecipesRequest struct {
	Slots []slotAssignmentRequest `json:"slots"`
}

// Create は週間メニューの作成を処理する。
// POST /api/menus
func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req createMenuRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w, "リクエストボディの解析に失敗しました。")
		return
	}

	categories := make([]model.MealCategory, len(req.MealCategories))
	for i, raw := range req.MealCategories {
		category, err := model.ParseMealCategory(raw)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		categories[i] = category
	}

	menu, err := h.service.Create(r.Context(), userID, categories)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, toMenuResponse(menu))
}

// List は認証済みユーザーの全メニューを返す。
// GET /api/menus
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	menus, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]menuResponse, len(menus))
	for i := range menus {
		results[i] = toMenuResponse(&menus[i])
	}
	writeJSONResponse(w, http.StatusOK, results)
}

// Get はメニュー詳細を取得する。
// GET /api/menus/:id
func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	menuID, err := parseIDParam(r, "id")
	if err != nil {
		writeInvalidRequest(w, "メニューIDが不正です。")
		return
	}

	menu, err := h.service.Get(r.Context(), userID, menuID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toMenuResponse(menu))
}

// AddRecipe は指定スロットへのレシピ追加を処理する。
// POST /api/menus/:id/recipes
func (h *MenuHandler) AddRecipe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	menuID, err := parseIDParam(r, "id")
	if err != nil {
		writeInvalidRequest(w, "メニューIDが不正です。")
		return
	}

	var req addMenuRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w, "リクエストボディの解析に失敗しました。")
		return
	}

	day, err := model.ParseWeekday(req.Day)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	category, err := model.ParseMealCategory(req.MealCategory)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	menu, err := h.service.AddRecipe(r.Context(), userID, menuID, day, category, req.RecipeID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toMenuResponse(menu))
}

// ReplaceRecipes はメニュー全スロットの割り当て置換を処理する。
// PUT /api/menus/:id/recipes
func (h *MenuHandler) ReplaceRecipes(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	menuID, err := parseIDParam(r, "id")
	if err != nil {
		writeInvalidRequest(w, "メニューIDが不正です。")
		return
	}

	var req replaceMenuRecipesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w, "リクエストボディの解析に失敗しました。")
		return
	}

	assignments := make([]model.SlotAssignment, len(req.Slots))
	for i, slot := range req.Slots {
		day, err := model.ParseWeekday(slot.Day)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		category, err := model.ParseMealCategory(slot.MealCategory)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		assignments[i] = model.SlotAssignment{
			Day:       day,
			Category:  category,
			RecipeIDs: slot.RecipeIDs,
		}
	}

	menu, err := h.service.ReplaceRecipes(r.Context(), userID, menuID, assignments)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toMenuResponse(menu))
}

// Delete はメニューを削除する。
// DELETE /api/menus/:id
func (h *MenuHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	menuID, err := parseIDParam(r, "id")
	if err != nil {
		writeInvalidRequest(w, "メニューIDが不正です。")
		return
	}

	if err := h.service.Delete(r.Context(), userID, menuID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
