package handler

import (
	"context"
	"net/http"
)

// HealthChecker はヘルスチェックで依存先の疎通確認に使うインターフェース。
// *sql.DB がそのまま満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// healthResponse はヘルスチェックのレスポンス。
type healthResponse struct {
	Status string `json:"status"`
}

// NewHealthHandler はヘルスチェックエンドポイントのハンドラーを返す。
// checkerがnilでなくPingに失敗した場合は503を返す。
// GET /health
func NewHealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			if err := checker.PingContext(r.Context()); err != nil {
				writeJSONResponse(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
				return
			}
		}
		writeJSONResponse(w, http.StatusOK, healthResponse{Status: "ok"})
	}
}
