package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/mealplan/internal/ingredient"
	"github.com/hitoshi/mealplan/internal/model"
)

// mockIngredientService はIngredientServiceInterfaceのモック実装。
type mockIngredientService struct {
	createFn         func(ctx context.Context, name string, category model.IngredientCategory) (*model.Ingredient, error)
	getByIDFn        func(ctx context.Context, ingredientID int64) (*model.Ingredient, error)
	listAllFn        func(ctx context.Context) ([]model.Ingredient, error)
	listByCategoryFn func(ctx context.Context, category model.IngredientCategory) ([]model.Ingredient, error)
	listRecipesFn    func(ctx context.Context, ingredientID int64) ([]model.Recipe, error)
	updateFn         func(ctx context.Context, ingredientID int64, input ingredient.UpdateInput) (*model.Ingredient, error)
	deleteFn         func(ctx context.Context, ingredientID int64) error
}

func (m *mockIngredientService) Create(ctx context.Context, name string, category model.IngredientCategory) (*model.Ingredient, error) {
	return m.createFn(ctx, name, category)
}

func (m *mockIngredientService) GetByID(ctx context.Context, ingredientID int64) (*model.Ingredient, error) {
	return m.getByIDFn(ctx, ingredientID)
}

func (m *mockIngredientService) ListAll(ctx context.Context) ([]model.Ingredient, error) {
	return m.listAllFn(ctx)
}

func (m *mockIngredientService) ListByCategory(ctx context.Context, category model.IngredientCategory) ([]model.Ingredient, error) {
	return m.listByCategoryFn(ctx, category)
}

func (m *mockIngredientService) ListRecipes(ctx context.Context, ingredientID int64) ([]model.Recipe, error) {
	return m.listRecipesFn(ctx, ingredientID)
}

func (m *mockIngredientService) Update(ctx context.Context, ingredientID int64, input ingredient.UpdateInput) (*model.Ingredient, error) {
	return m.updateFn(ctx, ingredientID, input)
}

func (m *mockIngredientService) Delete(ctx context.Context, ingredientID int64) error {
	return m.deleteFn(ctx, ingredientID)
}

func TestIngredientHandler_Create_Success(t *testing.T) {
	svc := &mockIngredientService{
		createFn: func(ctx context.Context, name string, category model.IngredientCategory) (*model.Ingredient, error) {
			if name != "Tomato" {
				t.Errorf("name = %q, want %q", name, "Tomato")
			}
			if category != model.IngredientCategoryVegetables {
				t.Errorf("category = %q, want %q", category, model.IngredientCategoryVegetables)
			}
			return &model.Ingredient{ID: 1, Name: name, Category: category}, nil
		},
	}

	h := NewIngredientHandler(svc)

	body := `{"name":"Tomato","category":"vegetables"}`
	req := httptest.NewRequest(http.MethodPost, "/api/ingredients", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
	}

	var resp ingredientResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != 1 || resp.Category != "VEGETABLES" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

// カテゴリ省略時はOTHERとして登録されることを確認する。
func TestIngredientHandler_Create_DefaultsToOtherCategory(t *testing.T) {
	svc := &mockIngredientService{
		createFn: func(ctx context.Context, name string, category model.IngredientCategory) (*model.Ingredient, error) {
			if category != model.IngredientCategoryOther {
				t.Errorf("category = %q, want %q", category, model.IngredientCategoryOther)
			}
			return &model.Ingredient{ID: 1, Name: name, Category: category}, nil
		},
	}

	h := NewIngredientHandler(svc)

	body := `{"name":"Mystery Sauce"}`
	req := httptest.NewRequest(http.MethodPost, "/api/ingredients", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", w.Code, http.StatusCreated)
	}
}

func TestIngredientHandler_Create_EmptyName(t *testing.T) {
	h := NewIngredientHandler(&mockIngredientService{})

	body := `{"category":"VEGETABLES"}`
	req := httptest.NewRequest(http.MethodPost, "/api/ingredients", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestIngredientHandler_Create_InvalidCategory(t *testing.T) {
	h := NewIngredientHandler(&mockIngredientService{})

	body := `{"name":"Tomato","category":"GADGETS"}`
	req := httptest.NewRequest(http.MethodPost, "/api/ingredients", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	resp := decodeErrorResponse(t, w)
	if resp.Code != model.ErrCodeInvalidEnumValue {
		t.Errorf("code = %q, want %q", resp.Code, model.ErrCodeInvalidEnumValue)
	}
}

func TestIngredientHandler_Create_DuplicateName(t *testing.T) {
	svc := &mockIngredientService{
		createFn: func(ctx context.Context, name string, category model.IngredientCategory) (*model.Ingredient, error) {
			return nil, model.NewDuplicateNameError("食材", name)
		},
	}

	h := NewIngredientHandler(svc)

	body := `{"name":"Tomato","category":"VEGETABLES"}`
	req := httptest.NewRequest(http.MethodPost, "/api/ingredients", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", w.Code, http.StatusConflict)
	}
}

func TestIngredientHandler_List_Success(t *testing.T) {
	svc := &mockIngredientService{
		listAllFn: func(ctx context.Context) ([]model.Ingredient, error) {
			return []model.Ingredient{
				{ID: 1, Name: "Tomato", Category: model.IngredientCategoryVegetables},
				{ID: 2, Name: "Milk", Category: model.IngredientCategoryDairy},
			}, nil
		},
	}

	h := NewIngredientHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/ingredients", nil)
	w := httptest.NewRecorder()

	h.List(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp []ingredientResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Errorf("len(resp) = %d, want 2", len(resp))
	}
}

func TestIngredientHandler_ListByCategory_InvalidCategory(t *testing.T) {
	h := NewIngredientHandler(&mockIngredientService{})

	req := httptest.NewRequest(http.MethodGet, "/api/ingredients/category/GADGETS", nil)
	req = withURLParam(req, "category", "GADGETS")
	w := httptest.NewRecorder()

	h.ListByCategory(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestIngredientHandler_Get_InvalidID(t *testing.T) {
	h := NewIngredientHandler(&mockIngredientService{})

	req := httptest.NewRequest(http.MethodGet, "/api/ingredients/abc", nil)
	req = withURLParam(req, "id", "abc")
	w := httptest.NewRecorder()

	h.Get(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestIngredientHandler_Get_NotFound(t *testing.T) {
	svc := &mockIngredientService{
		getByIDFn: func(ctx context.Context, ingredientID int64) (*model.Ingredient, error) {
			return nil, model.NewIngredientNotFoundError(ingredientID)
		},
	}

	h := NewIngredientHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/ingredients/99", nil)
	req = withURLParam(req, "id", "99")
	w := httptest.NewRecorder()

	h.Get(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// recipe_idsを省略した場合、レシピ関連は変更しない（nilで渡す）ことを確認する。
func TestIngredientHandler_Update_OmittedRecipeIDsStaysNil(t *testing.T) {
	svc := &mockIngredientService{
		updateFn: func(ctx context.Context, ingredientID int64, input ingredient.UpdateInput) (*model.Ingredient, error) {
			if input.RecipeIDs != nil {
				t.Errorf("RecipeIDs = %v, want nil", input.RecipeIDs)
			}
			return &model.Ingredient{ID: ingredientID, Name: input.Name, Category: model.IngredientCategoryVegetables}, nil
		},
	}

	h := NewIngredientHandler(svc)

	body := `{"name":"Cherry Tomato"}`
	req := httptest.NewRequest(http.MethodPut, "/api/ingredients/1", strings.NewReader(body))
	req = withURLParam(req, "id", "1")
	w := httptest.NewRecorder()

	h.Update(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestIngredientHandler_Update_PassesRecipeIDs(t *testing.T) {
	svc := &mockIngredientService{
		updateFn: func(ctx context.Context, ingredientID int64, input ingredient.UpdateInput) (*model.Ingredient, error) {
			if len(input.RecipeIDs) != 2 || input.RecipeIDs[0] != 10 || input.RecipeIDs[1] != 20 {
				t.Errorf("RecipeIDs = %v, want [10 20]", input.RecipeIDs)
			}
			return &model.Ingredient{ID: ingredientID, Name: "Tomato", Category: model.IngredientCategoryVegetables}, nil
		},
	}

	h := NewIngredientHandler(svc)

	body := `{"recipe_ids":[10,20]}`
	req := httptest.NewRequest(http.MethodPut, "/api/ingredients/1", strings.NewReader(body))
	req = withURLParam(req, "id", "1")
	w := httptest.NewRecorder()

	h.Update(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestIngredientHandler_Delete_Success(t *testing.T) {
	deleteCalled := false
	svc := &mockIngredientService{
		deleteFn: func(ctx context.Context, ingredientID int64) error {
			deleteCalled = true
			if ingredientID != 5 {
				t.Errorf("ingredientID = %d, want 5", ingredientID)
			}
			return nil
		},
	}

	h := NewIngredientHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/ingredients/5", nil)
	req = withURLParam(req, "id", "5")
	w := httptest.NewRecorder()

	h.Delete(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if !deleteCalled {
		t.Error("expected Delete to be called")
	}
}

func TestIngredientHandler_ListCategories_ReturnsAll(t *testing.T) {
	h := NewIngredientHandler(&mockIngredientService{})

	req := httptest.NewRequest(http.MethodGet, "/api/ingredient-categories", nil)
	w := httptest.NewRecorder()

	h.ListCategories(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp []string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 13 {
		t.Errorf("len(resp) = %d, want 13", len(resp))
	}
	if resp[0] != "VEGETABLES" || resp[len(resp)-1] != "OTHER" {
		t.Errorf("unexpected categories: %v", resp)
	}
}
