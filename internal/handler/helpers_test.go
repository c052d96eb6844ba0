package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/mealplan/internal/middleware"
)

// withUserID はリクエストコンテキストに認証済みユーザーIDを注入する。
func withUserID(req *http.Request, userID int64) *http.Request {
	return req.WithContext(middleware.ContextWithUserID(req.Context(), userID))
}

// withURLParam はchiのルートコンテキストにURLパスパラメータを注入する。
// ハンドラーをルーターを経由せず直接呼び出すテストで使う。
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// decodeErrorResponse はレスポンスボディを統一エラーフォーマットとして解析する。
func decodeErrorResponse(t *testing.T, w *httptest.ResponseRecorder) apiErrorResponse {
	t.Helper()
	var body apiErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return body
}
