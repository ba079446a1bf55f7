package routes

import (
	"net/http"

	"github.com/filedrive/filedrive/internal/app"
	"github.com/filedrive/filedrive/internal/handler"
	"github.com/filedrive/filedrive/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	file := handler.NewFileHandler(app.FileService)
	favorite := handler.NewFavoriteHandler(app.FavoriteService)
	webhook := handler.NewWebhookHandler(app.WebhookService)
	health := handler.NewHealthHandler(app.DB)

	mux := http.NewServeMux()

	// Health
	mux.HandleFunc("GET /healthz", health.Healthz)

	// Files
	mux.HandleFunc("POST /api/files", file.Create)
	mux.HandleFunc("GET /api/files", file.List)
	mux.HandleFunc("POST /api/files/upload-url", file.UploadURL)
	mux.HandleFunc("DELETE /api/files/{id}", file.Delete)
	mux.HandleFunc("POST /api/files/{id}/restore", file.Restore)

	// Favorites
	mux.HandleFunc("POST /api/files/{id}/favorite", favorite.Toggle)
	mux.HandleFunc("GET /api/favorites", favorite.List)

	// Identity provider sync (rate limited)
	rateLimiter := middleware.RateLimitWebhook()
	mux.HandleFunc("POST /webhooks/identity", rateLimiter(webhook.Identity))

	// Global middleware
	return middleware.Chain(mux,
		middleware.RequestLogging,
		middleware.AuthMiddleware(app.IdentityService, app.Cfg.IdentityJWTSecret),
	)
}
