package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/mealplan/internal/model"
)

// ShoppingListServiceInterface は買い物リストハンドラーが必要とするサービスインターフェース。
type ShoppingListServiceInterface interface {
	// GenerateFromMenu はメニューの全レシピの食材を重複なく集約したリストを生成する。
	GenerateFromMenu(ctx context.Context, userID, menuID int64) (*model.ShoppingList, error)
	// Get は所有者の買い物リストを取得する。
	Get(ctx context.Context, userID, listID int64) (*model.ShoppingList, error)
	// ListByUser はユーザーの全買い物リストを返す。
	ListByUser(ctx context.Context, userID int64) ([]model.ShoppingList, error)
	// AddItems はリストに食材を追加する。
	AddItems(ctx context.Context, userID, listID int64, ingredientIDs []int64) (*model.ShoppingList, error)
	// RemoveItems はリストから食材を取り除く。
	RemoveItems(ctx context.Context, userID, listID int64, ingredientIDs []int64) (*model.ShoppingList, error)
	// Delete は買い物リストを削除する。
	Delete(ctx context.Context, userID, listID int64) error
}

// ShoppingListHandler は買い物リスト管理のHTTPハンドラー。
type ShoppingListHandler struct {
	service ShoppingListServiceInterface
}

// NewShoppingListHandler はShoppingListHandlerを生成する。
func NewShoppingListHandler(service ShoppingListServiceInterface) *ShoppingListHandler {
	return &ShoppingListHandler{
		service: service,
	}
}

// generateListRequest はリスト生成リクエストのボディ。
type generateListRequest struct {
	MenuID int64 `json:"menu_id"`
}

// listItemsRequest はリスト項目の追加・削除リクエストのボディ。
type listItemsRequest struct {
	IngredientIDs []int64 `json:"ingredient_ids"`
}

// Generate は週間メニューからの買い物リスト生成を処理する。
// POST /api/shopping-lists/generate
func (h *ShoppingListHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req generateListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w, "リクエストボディの解析に失敗しました。")
		return
	}

	if req.MenuID == 0 {
		writeInvalidRequest(w, "メニューIDは必須です。")
		return
	}

	list, err := h.service.GenerateFromMenu(r.Context(), userID, req.MenuID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, toShoppingListResponse(list))
}

// List は認証済みユーザーの全買い物リストを返す。
// GET /api/shopping-lists
func (h *ShoppingListHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	lists, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]shoppingListResponse, len(lists))
	for i := range lists {
		results[i] = toShoppingListResponse(&lists[i])
	}
	writeJSONResponse(w, http.StatusOK, results)
}

// Get は買い物リスト詳細を取得する。
// GET /api/shopping-lists/:id
func (h *ShoppingListHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	listID, err := parseIDParam(r, "id")
	if err != nil {
		writeInvalidRequest(w, "リストIDが不正です。")
		return
	}

	list, err := h.service.Get(r.Context(), userID, listID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toShoppingListResponse(list))
}

// AddItems はリストへの食材追加を処理する。
// POST /api/shopping-lists/:id/items
func (h *ShoppingListHandler) AddItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	listID, err := parseIDParam(r, "id")
	if err != nil {
		writeInvalidRequest(w, "リストIDが不正です。")
		return
	}

	var req listItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w, "リクエストボディの解析に失敗しました。")
		return
	}

	list, err := h.service.AddItems(r.Context(), userID, listID, req.IngredientIDs)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toShoppingListResponse(list))
}

// RemoveItems はリストからの食材削除を処理する。
// POST /api/shopping-lists/:id/items/remove
func (h *ShoppingListHandler) RemoveItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	listID, err := parseIDParam(r, "id")
	if err != nil {
		writeInvalidRequest(w, "リストIDが不正です。")
		return
	}

	var req listItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w, "リクエストボディの解析に失敗しました。")
		return
	}

	list, err := h.service.RemoveItems(r.Context(), userID, listID, req.IngredientIDs)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toShoppingListResponse(list))
}

// Delete は買い物リストを削除する。
// DELETE /api/shopping-lists/:id
func (h *ShoppingListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	listID, err := parseIDParam(r, "id")
	if err != nil {
		writeInvalidRequest(w, "リストIDが不正です。")
		return
	}

	if err := h.service.Delete(r.Context(), userID, listID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
