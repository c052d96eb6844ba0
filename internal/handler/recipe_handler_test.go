package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/mealplan/internal/model"
)

// mockRecipeService はRecipeServiceInterfaceのモック実装。
type mockRecipeService struct {
	createFn             func(ctx context.Context, name string, refs []model.IngredientRef) (*model.Recipe, error)
	getByIDFn            func(ctx context.Context, recipeID int64) (*model.Recipe, error)
	listAllFn            func(ctx context.Context) ([]model.Recipe, error)
	searchFn             func(ctx context.Context, fragment string) ([]model.Recipe, error)
	addIngredientFn      func(ctx context.Context, recipeID int64, ref model.IngredientRef) (*model.Recipe, error)
	replaceIngredientsFn func(ctx context.Context, recipeID int64, refs []model.IngredientRef) (*model.Recipe, error)
	deleteFn             func(ctx context.Context, recipeID int64) error
}

func (m *mockRecipeService) Create(ctx context.Context, name string, refs []model.IngredientRef) (*model.Recipe, error) {
	return m.createFn(ctx, name, refs)
}

func (m *mockRecipeService) GetByID(ctx context.Context, recipeID int64) (*model.Recipe, error) {
	return m.getByIDFn(ctx, recipeID)
}

func (m *mockRecipeService) ListAll(ctx context.Context) ([]model.Recipe, error) {
	return m.listAllFn(ctx)
}

func (m *mockRecipeService) Search(ctx context.Context, fragment string) ([]model.Recipe, error) {
	return m.searchFn(ctx, fragment)
}

func (m *mockRecipeService) AddIngredient(ctx context.Context, recipeID int64, ref model.IngredientRef) (*model.Recipe, error) {
	return m.addIngredientFn(ctx, recipeID, ref)
}

func (m *mockRecipeService) ReplaceIngredients(ctx context.Context, recipeID int64, refs []model.IngredientRef) (*model.Recipe, error) {
	return m.replaceIngredientsFn(ctx, recipeID, refs)
}

func (m *mockRecipeService) Delete(ctx context.Context, recipeID int64) error {
	return m.deleteFn(ctx, recipeID)
}

func TestRecipeHandler_Create_Success(t *testing.T) {
	svc := &mockRecipeService{
		createFn: func(ctx context.Context, name string, refs []model.IngredientRef) (*model.Recipe, error) {
			if name != "Pasta al Pomodoro" {
				t.Errorf("name = %q, want %q", name, "Pasta al Pomodoro")
			}
			if len(refs) != 2 {
				t.Fatalf("len(refs) = %d, want 2", len(refs))
			}
			// 1つ目はID参照
			if refs[0].ID == nil || *refs[0].ID != 1 {
				t.Errorf("refs[0].ID = %v, want 1", refs[0].ID)
			}
			// 2つ目は名前＋カテゴリでの新規作成候補
			if refs[1].Name != "Basil" || refs[1].Category != model.IngredientCategorySpices {
				t.Errorf("refs[1] = %+v, want Basil/SPICES", refs[1])
			}
			return &model.Recipe{
				ID:   10,
				Name: name,
				Ingredients: []model.Ingredient{
					{ID: 1, Name: "Tomato", Category: model.IngredientCategoryVegetables},
					{ID: 2, Name: "Basil", Category: model.IngredientCategorySpices},
				},
			}, nil
		},
	}

	h := NewRecipeHandler(svc)

	body := `{"name":"Pasta al Pomodoro","ingredients":[{"id":1},{"name":"Basil","category":"SPICES"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/recipes", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
	}

	var resp recipeResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != 10 || len(resp.Ingredients) != 2 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestRecipeHandler_Create_EmptyName(t *testing.T) {
	h := NewRecipeHandler(&mockRecipeService{})

	body := `{"ingredients":[]}`
	req := httptest.NewRequest(http.MethodPost, "/api/recipes", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestRecipeHandler_Create_InvalidIngredientCategory(t *testing.T) {
	h := NewRecipeHandler(&mockRecipeService{})

	body := `{"name":"Pasta","ingredients":[{"name":"Basil","category":"GADGETS"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/recipes", strings.NewReader(body))
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

func TestRecipeHandler_Create_DuplicateName(t *testing.T) {
	svc := &mockRecipeService{
		createFn: func(ctx context.Context, name string, refs []model.IngredientRef) (*model.Recipe, error) {
			return nil, model.NewDuplicateNameError("レシピ", name)
		},
	}

	h := NewRecipeHandler(svc)

	body := `{"name":"Pasta","ingredients":[]}`
	req := httptest.NewRequest(http.MethodPost, "/api/recipes", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", w.Code, http.StatusConflict)
	}
}

func TestRecipeHandler_Search_PassesQueryFragment(t *testing.T) {
	svc := &mockRecipeService{
		searchFn: func(ctx context.Context, fragment string) ([]model.Recipe, error) {
			if fragment != "pasta" {
				t.Errorf("fragment = %q, want %q", fragment, "pasta")
			}
			return []model.Recipe{{ID: 1, Name: "Pasta al Pomodoro"}}, nil
		},
	}

	h := NewRecipeHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/recipes/search?name=pasta", nil)
	w := httptest.NewRecorder()

	h.Search(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp []recipeResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 1 {
		t.Errorf("len(resp) = %d, want 1", len(resp))
	}
}

func TestRecipeHandler_Get_NotFound(t *testing.T) {
	svc := &mockRecipeService{
		getByIDFn: func(ctx context.Context, recipeID int64) (*model.Recipe, error) {
			return nil, model.NewRecipeNotFoundError(recipeID)
		},
	}

	h := NewRecipeHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/recipes/99", nil)
	req = withURLParam(req, "id", "99")
	w := httptest.NewRecorder()

	h.Get(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestRecipeHandler_AddIngredient_RequiresIDOrName(t *testing.T) {
	h := NewRecipeHandler(&mockRecipeService{})

	body := `{"category":"SPICES"}`
	req := httptest.NewRequest(http.MethodPost, "/api/recipes/1/ingredients", strings.NewReader(body))
	req = withURLParam(req, "id", "1")
	w := httptest.NewRecorder()

	h.AddIngredient(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestRecipeHandler_AddIngredient_Success(t *testing.T) {
	svc := &mockRecipeService{
		addIngredientFn: func(ctx context.Context, recipeID int64, ref model.IngredientRef) (*model.Recipe, error) {
			if recipeID != 1 {
				t.Errorf("recipeID = %d, want 1", recipeID)
			}
			if ref.Name != "Basil" {
				t.Errorf("ref.Name = %q, want %q", ref.Name, "Basil")
			}
			return &model.Recipe{ID: 1, Name: "Pasta", Ingredients: []model.Ingredient{
				{ID: 2, Name: "Basil", Category: model.IngredientCategorySpices},
			}}, nil
		},
	}

	h := NewRecipeHandler(svc)

	body := `{"name":"Basil","category":"SPICES"}`
	req := httptest.NewRequest(http.MethodPost, "/api/recipes/1/ingredients", strings.NewReader(body))
	req = withURLParam(req, "id", "1")
	w := httptest.NewRecorder()

	h.AddIngredient(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRecipeHandler_ReplaceIngredients_Success(t *testing.T) {
	svc := &mockRecipeService{
		replaceIngredientsFn: func(ctx context.Context, recipeID int64, refs []model.IngredientRef) (*model.Recipe, error) {
			if len(refs) != 1 {
				t.Errorf("len(refs) = %d, want 1", len(refs))
			}
			return &model.Recipe{ID: recipeID, Name: "Pasta", Ingredients: []model.Ingredient{
				{ID: 3, Name: "Garlic", Category: model.IngredientCategoryVegetables},
			}}, nil
		},
	}

	h := NewRecipeHandler(svc)

	body := `{"ingredients":[{"id":3}]}`
	req := httptest.NewRequest(http.MethodPut, "/api/recipes/1/ingredients", strings.NewReader(body))
	req = withURLParam(req, "id", "1")
	w := httptest.NewRecorder()

	h.ReplaceIngredients(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRecipeHandler_Delete_NotFound(t *testing.T) {
	svc := &mockRecipeService{
		deleteFn: func(ctx context.Context, recipeID int64) error {
			return model.NewRecipeNotFoundError(recipeID)
		},
	}

	h := NewRecipeHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/recipes/99", nil)
	req = withURLParam(req, "id", "99")
	w := httptest.NewRecorder()

	h.Delete(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}
