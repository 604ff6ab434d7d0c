// Package server is the composition root: it wires the database,
// services, and handlers together, defines all routes, and owns the HTTP
// server lifecycle including graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/sakif/book-catalog/internal/auth"
	"github.com/sakif/book-catalog/internal/config"
	"github.com/sakif/book-catalog/internal/handler"
	"github.com/sakif/book-catalog/internal/middleware"
	sqliteRepo "github.com/sakif/book-catalog/internal/repository/sqlite"
	"github.com/sakif/book-catalog/internal/service"
)

// Server bundles the router, configuration, and the resources it owns. The
// database connection is closed during shutdown, after in-flight requests
// have drained.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates the server and assembles the whole dependency chain:
// database → repositories → services → handlers → routes. Services receive
// repository interfaces, handlers receive services; nothing skips a layer.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// Handler exposes the router, mainly for tests that drive the full stack
// through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the server's resources. Start does this itself; Close is
// for callers that never reach Start (tests, failed startups).
func (s *Server) Close() error {
	return s.db.Close()
}

// setupRoutes configures middleware and the route table.
//
// Route structure:
//
//	POST   /register, /login, /refresh     public, rate limited per IP
//	GET    /books[?search=Q]               bearer
//	GET    /books/recommendations          bearer
//	GET    /books/{id}                     bearer
//	POST   /books                          bearer
//	PUT    /books/{id}  (also PATCH)       bearer
//	DELETE /books/{id}                     bearer
//	       /authors, /authors/{id}         bearer, same CRUD shape
//	GET    /favorites                      bearer, caller's rows only
//	POST   /favorites                      bearer
//	DELETE /favorites/{id}                 bearer
//
// StripSlashes keeps the trailing-slash spellings (/books/, /register/)
// working for clients written against the old surface.
func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.config.JWTSecret, s.config.AccessTokenTTL, s.config.RefreshTokenTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(chimiddleware.StripSlashes)
	s.router.Use(middleware.Logger(s.logger))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authService := service.NewAuthService(s.db, tokens, auth.NewPasswordService(), s.logger)
	authorService := service.NewAuthorService(s.db, s.logger)
	bookService := service.NewBookService(s.db, s.db, s.logger)
	favoriteService := service.NewFavoriteService(s.db, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	authorHandler := handler.NewAuthorHandler(authorService, s.logger)
	bookHandler := handler.NewBookHandler(bookService, s.logger)
	favoriteHandler := handler.NewFavoriteHandler(favoriteService, s.logger)

	// Public credential endpoints. Rate limited per IP — these are the only
	// routes an attacker can hammer without a token.
	s.router.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(s.config.AuthRateLimit, time.Minute))

		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/refresh", authHandler.HandleRefresh)
	})

	// Everything else requires a valid access token.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))

		r.Route("/books", func(r chi.Router) {
			r.Get("/", bookHandler.HandleList)
			r.Post("/", bookHandler.HandleCreate)
			// Must be registered before /{id} so "recommendations" isn't
			// captured as a book id.
			r.Get("/recommendations", bookHandler.HandleRecommendations)
			r.Get("/{id}", bookHandler.HandleGet)
			r.Put("/{id}", bookHandler.HandleUpdate)
			r.Patch("/{id}", bookHandler.HandleUpdate)
			r.Delete("/{id}", bookHandler.HandleDelete)
		})

		r.Route("/authors", func(r chi.Router) {
			r.Get("/", authorHandler.HandleList)
			r.Post("/", authorHandler.HandleCreate)
			r.Get("/{id}", authorHandler.HandleGet)
			r.Put("/{id}", authorHandler.HandleUpdate)
			r.Patch("/{id}", authorHandler.HandleUpdate)
			r.Delete("/{id}", authorHandler.HandleDelete)
		})

		r.Route("/favorites", func(r chi.Router) {
			r.Get("/", favoriteHandler.HandleList)
			r.Post("/", favoriteHandler.HandleCreate)
			r.Delete("/{id}", favoriteHandler.HandleDelete)
		})
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
