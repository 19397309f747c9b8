package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/barrybecker4/conquest-engine/internal/auth"
	"github.com/barrybecker4/conquest-engine/internal/config"
	"github.com/barrybecker4/conquest-engine/internal/handler"
	"github.com/barrybecker4/conquest-engine/internal/logger"
	"github.com/barrybecker4/conquest-engine/internal/middleware"
	"github.com/barrybecker4/conquest-engine/internal/repository/postgres"
	redisrepo "github.com/barrybecker4/conquest-engine/internal/repository/redis"
	"github.com/barrybecker4/conquest-engine/internal/service"
)

func main() {
	logger.Init()
	cfg := config.Load()
	log.Info().Str("port", cfg.Port).Msg("config loaded")

	db, err := postgres.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	redisClient, err := redisrepo.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer redisClient.Close()

	// Enable Redis keyspace notifications so TurnTimer hears deadline expiry.
	if err := redisClient.Underlying().ConfigSet(context.Background(), "notify-keyspace-events", "Ex").Err(); err != nil {
		log.Warn().Err(err).Msg("failed to set redis keyspace notifications, turn timer will rely on polling only")
	}

	userRepo := postgres.NewUserRepo(db)
	gameRepo := postgres.NewGameRepo(db)
	turnRepo := postgres.NewTurnRepo(db)
	cache := redisClient

	jwtMgr := auth.NewJWTManager(cfg.JWTSecret)
	oauthProvider := auth.NewOAuthProvider(
		cfg.OAuthClientID,
		cfg.OAuthClientSecret,
		cfg.OAuthIssuerURL+"/authorize",
		cfg.OAuthIssuerURL+"/token",
		cfg.OAuthIssuerURL+"/userinfo",
		envOrDefault("OAUTH_REDIRECT_URL", "http://localhost:"+cfg.Port+"/auth/callback"),
	)

	wsHub := handler.NewHub()

	gameSvc := service.NewGameService(gameRepo, cache)
	aiBudget := time.Duration(cfg.AIBudgetMillis) * time.Millisecond
	cmdSvc := service.NewCommandService(gameRepo, turnRepo, cache, wsHub, cfg.TurnTimeoutSeconds, aiBudget)
	recoverySvc := service.NewRecoveryService(gameRepo, turnRepo, cache)
	turnTimer := service.NewTurnTimer(redisClient.Underlying(), cmdSvc, turnRepo)

	authHandler := handler.NewAuthHandler(oauthProvider, jwtMgr, userRepo)
	lobbyHandler := handler.NewLobbyHandler(gameSvc, cfg.TurnTimeoutSeconds, wsHub)
	commandHandler := handler.NewCommandHandler(cmdSvc)
	wsHandler := handler.NewWSHandler(wsHub, jwtMgr)

	mux := http.NewServeMux()
	authMw := auth.Middleware(jwtMgr)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	mux.HandleFunc("GET /auth/login", authHandler.Login)
	mux.HandleFunc("GET /auth/callback", authHandler.Callback)
	mux.HandleFunc("GET /auth/dev", authHandler.DevLogin)

	api := http.NewServeMux()
	api.HandleFunc("POST /games", lobbyHandler.CreateGame)
	api.HandleFunc("GET /games", lobbyHandler.ListGames)
	api.HandleFunc("GET /games/{id}", lobbyHandler.GetGame)
	api.HandleFunc("POST /games/{id}/join", lobbyHandler.JoinGame)
	api.HandleFunc("POST /games/{id}/start", lobbyHandler.StartGame)
	api.HandleFunc("POST /games/{id}/stop", lobbyHandler.StopGame)
	api.HandleFunc("DELETE /games/{id}", lobbyHandler.DeleteGame)
	api.HandleFunc("POST /games/{id}/commands", commandHandler.SubmitCommand)

	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", authMw(api)))

	// WebSocket auth uses a query-param token, not the bearer middleware.
	mux.HandleFunc("GET /api/v1/ws", wsHandler.ServeWS)

	root := middleware.Chain(mux, middleware.Logger, middleware.CORS("*"), middleware.JSON)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if err := recoverySvc.RecoverActiveGames(context.Background()); err != nil {
		log.Error().Err(err).Msg("failed to recover active games (non-fatal)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go turnTimer.Start(ctx)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server shutdown error")
	}
	log.Info().Msg("server stopped")
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
