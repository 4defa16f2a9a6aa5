// Package httpapi exposes the authentication service over HTTP: the
// register/login/refresh endpoints, an example protected route, and the
// per-request authenticator that performs silent access-token renewal.
package httpapi

import (
	"context"
	"net/http"

	"github.com/avoronkov/authcore/internal/logging"
	"github.com/avoronkov/authcore/internal/server/services"
	"github.com/avoronkov/authcore/internal/server/token"
	"github.com/gin-gonic/gin"
)

// Server owns the router and the HTTP listener.
type Server struct {
	addr       string
	router     *gin.Engine
	httpServer *http.Server
	logger     logging.Logger

	auth     *services.AuthService
	accounts *services.AccountService
	tokens   *token.Manager
}

func NewServer(addr string, l logging.Logger, auth *services.AuthService, accounts *services.AccountService, tokens *token.Manager) (*Server, error) {
	router := gin.New()
	router.Use(gin.Recovery())
	if err := router.SetTrustedProxies(nil); err != nil {
		return nil, err
	}

	s := &Server{
		addr:     addr,
		router:   router,
		logger:   l.With("module", "httpapi"),
		auth:     auth,
		accounts: accounts,
		tokens:   tokens,
	}

	s.setupRoutes()

	return s, nil
}

func (s *Server) setupRoutes() {
	// The authenticator runs on every route; it attaches a principal when
	// it can and never rejects by itself.
	s.router.Use(s.authenticator())

	api := s.router.Group("/api")
	{
		api.POST("/auth/register", s.registerHandler)
		api.POST("/auth/login", s.loginHandler)
		api.POST("/auth/refresh", s.refreshHandler)
		api.GET("/me", requireAuth(), s.meHandler)
		api.GET("/healthz", s.healthzHandler)
	}
}

// Handler exposes the router for tests using httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the HTTP listener and blocks until it stops.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:    s.addr,
		Handler: s.router,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		if err := s.httpServer.Shutdown(context.Background()); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
