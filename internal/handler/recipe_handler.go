package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/mealplan/internal/model"
)

// RecipeServiceInterface はレシピハンドラーが必要とするサービスインターフェース。
type RecipeServiceInterface interface {
	// Create はレシピを食材参照の解決込みで登録する。
	Create(ctx context.Context, name string, refs []model.IngredientRef) (*model.Recipe, error)
	// GetByID はレシピを食材込みで取得する。
	GetByID(ctx context.Context, recipeID int64) (*model.Recipe, error)
	// ListAll は全レシピを返す。
	ListAll(ctx context.Context) ([]model.Recipe, error)
	// Search は名前の部分一致でレシピを検索する。
	Search(ctx context.Context, fragment string) ([]model.Recipe, error)
	// AddIngredient はレシピに食材を1つ追加する。
	AddIngredient(ctx context.Context, recipeID int64, ref model.IngredientRef) (*model.Recipe, error)
	// ReplaceIngredients はレシピの食材集合を全置換する。
	ReplaceIngredients(ctx context.Context, recipeID int64, refs []model.IngredientRef) (*model.Recipe, error)
	// Delete はレシピを削除する。
	Delete(ctx context.Context, recipeID int64) error
}

// RecipeHandler はレシピ管理のHTTPハンドラー。
type RecipeHandler struct {
	service RecipeServiceInterface
}

// NewRecipeHandler はRecipeHandlerを生成する。
func NewRecipeHandler(service RecipeServiceInterface) *RecipeHandler {
	return &RecipeHandler{
		service: service,
	}
}

// ingredientRefRequest はレシピ内の食材参照。
// idを指定すると既存食材の参照、省略すると名前での検索
// （見つからなければcategoryで新規作成）になる。
type ingredientRefRequest struct {
	ID       *int64 `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// createRecipeRequest はレシピ登録リクエストのボディ。
type createRecipeRequest struct {
	Name        string                 `json:"name"`
	Ingredients []ingredientRefRequest `json:"ingredients"`
}

// replaceIngredientsRequest はレシピ食材の全置換リクエストのボディ。
type replaceIngredientsRequest struct {
	Ingredients []ingredientRefRequest `json:"ingredients"`
}

// toIngredientRef はリクエストの食材参照をドメインモデルに変換する。
func toIngredientRef(req ingredientRefRequest) (model.IngredientRef, error) {
	ref := model.IngredientRef{
		ID:   req.ID,
		Name: req.Name,
	}
	if req.Category != "" {
		category, err := model.ParseIngredientCategory(req.Category)
		if err != nil {
			return model.IngredientRef{}, err
		}
		ref.Category = category
	}
	return ref, nil
}

// toIngredientRefs はリクエストの食材参照リストをドメインモデルに変換する。
func toIngredientRefs(reqs []ingredientRefRequest) ([]model.IngredientRef, error) {
	refs := make([]model.IngredientRef, len(reqs))
	for i, req := range reqs {
		ref, err := toIngredientRef(req)
		if err != nil {
			return nil, err
		}
		refs[i] = ref
	}
	return refs, nil
}

// Create はレシピ登録を処理する。
// POST /api/recipes
func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w, "リクエストボディの解析に失敗しました。")
		return
	}

	if req.Name == "" {
		writeInvalidRequest(w, "レシピ名は必須です。")
		return
	}

	refs, err := toIngredientRefs(req.Ingredients)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	created, err := h.service.Create(r.Context(), req.Name, refs)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, toRecipeResponse(created))
}

// List は全レシピの一覧を返す。
// GET /api/recipes
func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.service.ListAll(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toRecipeResponses(recipes))
}

// Search は名前の部分一致でレシピを検索する。
// GET /api/recipes/search?name=...
func (h *RecipeHandler) Search(w http.ResponseWriter, r *http.Request) {
	fragment := r.URL.Query().Get("name")

	recipes, err := h.service.Search(r.Context(), fragment)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toRecipeResponses(recipes))
}

// Get はレシピ詳細を食材込みで取得する。
// GET /api/recipes/:id
func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	recipeID, err := parseIDParam(r, "id")
	if err != nil {
		writeInvalidRequest(w, "レシピIDが不正です。")
		return
	}

	recipe, err := h.service.GetByID(r.Context(), recipeID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toRecipeResponse(recipe))
}

// AddIngredient はレシピに食材を1つ追加する。
// POST /api/recipes/:id/ingredients
func (h *RecipeHandler) AddIngredient(w http.ResponseWriter, r *http.Request) {
	recipeID, err := parseIDParam(r, "id")
	if err != nil {
		writeInvalidRequest(w, "レシピIDが不正です。")
		return
	}

	var req ingredientRefRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w, "リクエストボディの解析に失敗しました。")
		return
	}

	if req.ID == nil && req.Name == "" {
		writeInvalidRequest(w, "食材のIDまたは名前を指定してください。")
		return
	}

	ref, err := toIngredientRef(req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	updated, err := h.service.AddIngredient(r.Context(), recipeID, ref)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toRecipeResponse(updated))
}

// ReplaceIngredients はレシピの食材集合を全置換する。
// PUT /api/recipes/:id/ingredients
func (h *RecipeHandler) ReplaceIngredients(w http.ResponseWriter, r *http.Request) {
	recipeID, err := parseIDParam(r, "id")
	if err != nil {
		writeInvalidRequest(w, "レシピIDが不正です。")
		return
	}

	var req replaceIngredientsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w, "リクエストボディの解析に失敗しました。")
		return
	}

	refs, err := toIngredientRefs(req.Ingredients)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	updated, err := h.service.ReplaceIngredients(r.Context(), recipeID, refs)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toRecipeResponse(updated))
}

// Delete はレシピを削除する。
// DELETE /api/recipes/:id
func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	recipeID, err := parseIDParam(r, "id")
	if err != nil {
		writeInvalidRequest(w, "レシピIDが不正です。")
		return
	}

	if err := h.service.Delete(r.Context(), recipeID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toRecipeResponses はレシピのスライスをAPIレスポンスに変換する。
func toRecipeResponses(recipes []model.Recipe) []recipeResponse {
	results := make([]recipeResponse, len(recipes))
	for i := range recipes {
		results[i] = toRecipeResponse(&recipes[i])
	}
	return results
}
