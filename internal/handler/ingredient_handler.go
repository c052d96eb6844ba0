package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/mealplan/internal/ingredient"
	"github.com/hitoshi/mealplan/internal/model"
)

// IngredientServiceInterface は食材ハンドラーが必要とするサービスインターフェース。
type IngredientServiceInterface interface {
	// Create は食材カタログに新しい食材を登録する。
	Create(ctx context.Context, name string, category model.IngredientCategory) (*model.Ingredient, error)
	// GetByID は食材を取得する。
	GetByID(ctx context.Context, ingredientID int64) (*model.Ingredient, error)
	// ListAll は全食材を返す。
	ListAll(ctx context.Context) ([]model.Ingredient, error)
	// ListByCategory はカテゴリで絞り込んだ食材一覧を返す。
	ListByCategory(ctx context.Context, category model.IngredientCategory) ([]model.Ingredient, error)
	// ListRecipes は指定食材を使う全レシピを返す。
	ListRecipes(ctx context.Context, ingredientID int64) ([]model.Recipe, error)
	// Update は食材の名前・カテゴリ・所属レシピ集合を更新する。
	Update(ctx context.Context, ingredientID int64, input ingredient.UpdateInput) (*model.Ingredient, error)
	// Delete は食材をカタログから削除する。
	Delete(ctx context.Context, ingredientID int64) error
}

// IngredientHandler は食材カタログのHTTPハンドラー。
type IngredientHandler struct {
	service IngredientServiceInterface
}

// NewIngredientHandler はIngredientHandlerを生成する。
func NewIngredientHandler(service IngredientServiceInterface) *IngredientHandler {
	return &IngredientHandler{
		service: service,
	}
}

// createIngredientRequest は食材登録リクエストのボディ。
type createIngredientRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// updateIngredientRequest は食材更新リクエストのボディ。
// recipe_idsを省略した場合、レシピとの関連は変更しない。
type updateIngredientRequest struct {
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	RecipeIDs []int64 `json:"recipe_ids"`
}

// Create は食材登録を処理する。
// POST /api/ingredients
func (h *IngredientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createIngredientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w, "リクエストボディの解析に失敗しました。")
		return
	}

	if req.Name == "" {
		writeInvalidRequest(w, "食材名は必須です。")
		return
	}

	category := model.IngredientCategoryOther
	if req.Category != "" {
		parsed, err := model.ParseIngredientCategory(req.Category)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		category = parsed
	}

	created, err := h.service.Create(r.Context(), req.Name, category)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, toIngredientResponse(*created))
}

// List は全食材の一覧を返す。
// GET /api/ingredients
func (h *IngredientHandler) List(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.service.ListAll(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toIngredientResponses(ingredients))
}

// ListByCategory はカテゴリで絞り込んだ食材一覧を返す。
// GET /api/ingredients/category/:category
func (h *IngredientHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	category, err := model.ParseIngredientCategory(chi.URLParam(r, "category"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	ingredients, err := h.service.ListByCategory(r.Context(), category)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toIngredientResponses(ingredients))
}

// Get は食材詳細を取得する。
// GET /api/ingredients/:id
func (h *IngredientHandler) Get(w http.ResponseWriter, r *http.Request) {
	ingredientID, err := parseIDParam(r, "id")
	if err != nil {
		writeInvalidRequest(w, "食材IDが不正です。")
		return
	}

	found, err := h.service.GetByID(r.Context(), ingredientID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toIngredientResponse(*found))
}

// ListRecipes は指定食材を使う全レシピを返す。
// GET /api/ingredients/:id/recipes
func (h *IngredientHandler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	ingredientID, err := parseIDParam(r, "id")
	if err != nil {
		writeInvalidRequest(w, "食材IDが不正です。")
		return
	}

	recipes, err := h.service.ListRecipes(r.Context(), ingredientID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toRecipeResponses(recipes))
}

// Update は食材の名前・カテゴリ・所属レシピ集合を更新する。
// PUT /api/ingredients/:id
func (h *IngredientHandler) Update(w http.ResponseWriter, r *http.Request) {
	ingredientID, err := parseIDParam(r, "id")
	if err != nil {
		writeInvalidRequest(w, "食材IDが不正です。")
		return
	}

	var req updateIngredientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w, "リクエストボディの解析に失敗しました。")
		return
	}

	input := ingredient.UpdateInput{
		Name:      req.Name,
		RecipeIDs: req.RecipeIDs,
	}
	if req.Category != "" {
		parsed, err := model.ParseIngredientCategory(req.Category)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		input.Category = parsed
	}

	updated, err := h.service.Update(r.Context(), ingredientID, input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toIngredientResponse(*updated))
}

// Delete は食材をカタログから削除する。
// DELETE /api/ingredients/:id
func (h *IngredientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ingredientID, err := parseIDParam(r, "id")
	if err != nil {
		writeInvalidRequest(w, "食材IDが不正です。")
		return
	}

	if err := h.service.Delete(r.Context(), ingredientID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListCategories は定義済みの全食材カテゴリを返す。
// GET /api/ingredient-categories
func (h *IngredientHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories := model.IngredientCategories()
	results := make([]string, len(categories))
	for i, c := range categories {
		results[i] = string(c)
	}
	writeJSONResponse(w, http.StatusOK, results)
}
