package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/okhalid/habitsync/internal/api"
	"github.com/okhalid/habitsync/internal/auth"
	"github.com/okhalid/habitsync/internal/config"
	"github.com/okhalid/habitsync/internal/middleware"
	"github.com/okhalid/habitsync/internal/service"
	"github.com/okhalid/habitsync/internal/storage/sqlite"
	"github.com/okhalid/habitsync/pkg/logging"
)

func main() {
	logging.Setup()
	cfg := config.Load()

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	authService := service.NewAuthService(authenticator, jwtManager, store)
	syncService := service.NewSyncService(store)
	leaderboardService := service.NewLeaderboardService(store)
	groupService := service.NewGroupService(store, leaderboardService)

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	api.NewServer(authService, syncService, leaderboardService, groupService).Register(mux)

	// Metrics sits innermost so the mux has resolved the route pattern by
	// the time labels are recorded.
	handler := middleware.Logging(
		middleware.CORS(
			middleware.WithAuth(jwtManager)(
				middleware.Metrics(mux),
			),
		),
	)

	// h2c allows HTTP/2 without TLS for clients behind a terminating proxy.
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	slog.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
