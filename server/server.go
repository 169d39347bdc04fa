package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"MePlay/config"
	"MePlay/db"
	"MePlay/logger"
	"MePlay/repository"
	"MePlay/storage"

	"github.com/gorilla/mux"
)

// NewRouter 注册所有路由. The catalog listing is public like the rest of the
// original site; everything that touches a user's data needs a token.
func NewRouter(h *APIHandler, jwtSecret string) *mux.Router {
	router := mux.NewRouter()
	router.Use(corsMiddleware)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, true, "ok", nil)
	}).Methods(http.MethodGet)
	router.HandleFunc("/api/songs", h.GetSongsHandler).Methods(http.MethodGet, http.MethodOptions)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(AuthMiddleware(jwtSecret))
	api.HandleFunc("/songs", h.AddSongHandler).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/likes", h.LikesHandler).Methods(http.MethodGet, http.MethodPost, http.MethodOptions)
	api.HandleFunc("/playlists", h.PlaylistsHandler).Methods(http.MethodGet, http.MethodPost, http.MethodOptions)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "Not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	return router
}

// 添加 CORS 中间件
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Start connects the stores and serves the API until ctx is cancelled.
func Start(ctx context.Context, cfg *config.Config) error {
	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}

	if err := db.ConnectDB(cfg); err != nil {
		return err
	}
	defer db.CloseDB()

	if err := db.ConnectGormDB(cfg); err != nil {
		return err
	}
	defer db.CloseGormDB()

	// Initialize database schema
	if err := db.InitDB(ctx); err != nil {
		return err
	}
	if err := db.AutoMigrate(db.GormDB); err != nil {
		return err
	}

	objects, err := storage.NewObjectStore(cfg)
	if err != nil {
		return err
	}
	if err := objects.EnsureBucket(ctx, cfg.MinioRegion); err != nil {
		// 存储桶不可用时仍然可以返回原始路径
		logger.Warn("MinIO bucket check failed", logger.ErrorField(err))
	}

	h := NewAPIHandler(
		repository.NewMySQLTrackRepository(db.DB),
		repository.NewGormLikeRepository(db.GormDB),
		repository.NewGormPlaylistRepository(db.GormDB),
		objects,
		cfg,
	)
	return Serve(ctx, cfg.ServerAddr, NewRouter(h, cfg.JWTSecret))
}

// Serve runs handler on addr and shuts down gracefully when ctx is done.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	// 设置服务器超时
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", logger.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	// 创建一个5秒超时的上下文
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}
