package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/mealplan/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenVerifier     middleware.TokenVerifier
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger
	MetricsRecorder   middleware.HTTPMetricsRecorder

	// 運用エンドポイント
	MetricsHandler http.Handler
	HealthChecker  HealthChecker

	// ドメインサービス
	AuthService         AuthServiceInterface
	UserService         UserServiceInterface
	IngredientService   IngredientServiceInterface
	RecipeService       RecipeServiceInterface
	MenuService         MenuServiceInterface
	ShoppingListService ShoppingListServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Metrics → Logging → Auth → RateLimit(General)
//
// 認証ルート（/auth/*）、ユーザー登録、/health、/metricsは認証ミドルウェアの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewMetricsMiddleware(deps.MetricsRecorder))
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}

	authHandler := NewAuthHandler(deps.AuthService)
	userHandler := NewUserHandler(deps.UserService)
	ingredientHandler := NewIngredientHandler(deps.IngredientService)
	recipeHandler := NewRecipeHandler(deps.RecipeService)
	menuHandler := NewMenuHandler(deps.MenuService)
	listHandler := NewShoppingListHandler(deps.ShoppingListService)

	// --- 認証不要のルート ---

	r.Get("/health", NewHealthHandler(deps.HealthChecker))
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// ログイン
	r.Post("/auth/login", authHandler.Login)

	// ユーザー登録（アカウント作成前なので認証不要）
	r.Post("/api/users", userHandler.Register)

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Auth → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.TokenVerifier))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		writeLimit := deps.RateLimiter.WriteMiddleware()

		// ユーザー管理
		r.Route("/api/users/me", func(r chi.Router) {
			r.Get("/", userHandler.Me)
			r.Put("/", userHandler.UpdateMe)
		})

		// 食材カテゴリ一覧
		r.Get("/api/ingredient-categories", ingredientHandler.ListCategories)

		// 食材カタログ
		r.Route("/api/ingredients", func(r chi.Router) {
			r.With(writeLimit).Post("/", ingredientHandler.Create)
			r.Get("/", ingredientHandler.List)
			r.Get("/category/{category}", ingredientHandler.ListByCategory)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", ingredientHandler.Get)
				r.Put("/", ingredientHandler.Update)
				r.Delete("/", ingredientHandler.Delete)
				r.Get("/recipes", ingredientHandler.ListRecipes)
			})
		})

		// レシピ管理
		r.Route("/api/recipes", func(r chi.Router) {
			r.With(writeLimit).Post("/", recipeHandler.Create)
			r.Get("/", recipeHandler.List)
			r.Get("/search", recipeHandler.Search)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", recipeHandler.Get)
				r.Delete("/", recipeHandler.Delete)
				r.Post("/ingredients", recipeHandler.AddIngredient)
				r.Put("/ingredients", recipeHandler.ReplaceIngredients)
			})
		})

		// 週間メニュー管理
		r.Route("/api/menus", func(r chi.Router) {
			r.With(writeLimit).Post("/", menuHandler.Create)
			r.Get("/", menuHandler.List)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", menuHandler.Get)
				r.Delete("/", menuHandler.Delete)
				r.Post("/recipes", menuHandler.AddRecipe)
				r.Put("/recipes", menuHandler.ReplaceRecipes)
			})
		})

		// 買い物リスト管理
		r.Route("/api/shopping-lists", func(r chi.Router) {
			r.With(writeLimit).Post("/generate", listHandler.Generate)
			r.Get("/", listHandler.List)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", listHandler.Get)
				r.Delete("/", listHandler.Delete)
				r.Post("/items", listHandler.AddItems)
				r.Post("/items/remove", listHandler.RemoveItems)
			})
		})
	})

	return r
}
