package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lejet/booking-gateway/api"
	"github.com/lejet/booking-gateway/config"
	"github.com/lejet/booking-gateway/internal/service/admin"
	"github.com/lejet/booking-gateway/internal/service/workflow"
	"github.com/lejet/booking-gateway/internal/session"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, sessions *session.Manager, workflowSvc workflow.WorkflowUseCase, adminSvc admin.AdminUseCase) error {
	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: newRouter(cfg, sessions, workflowSvc, adminSvc),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newRouter(cfg *config.Config, sessions *session.Manager, workflowSvc workflow.WorkflowUseCase, adminSvc admin.AdminUseCase) *gin.Engine {
	router := gin.Default()

	corsCfg := cors.DefaultConfig()
	if len(cfg.HTTP.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.HTTP.AllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowCredentials = !corsCfg.AllowAllOrigins
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	router.Use(cors.New(corsCfg))

	router.Use(api.SessionMiddleware(sessions, cfg.Session.CookieName))

	authHandler := api.NewAuthHandler(sessions, cfg.Session.CookieName, int(cfg.Session.TTL().Seconds()))
	workflowHandler := api.NewWorkflowHandler(workflowSvc)
	bookingHandler := api.NewBookingHandler(workflowSvc)
	adminHandler := api.NewAdminHandler(adminSvc)

	v1 := router.Group("/api/v1")
	authHandler.Register(v1.Group("/auth"))
	workflowHandler.Register(v1)

	authed := v1.Group("")
	authed.Use(api.RequireAuth())
	workflowHandler.RegisterAuthenticated(authed)
	bookingHandler.Register(authed)

	adminGroup := v1.Group("/admin")
	adminGroup.Use(api.RequireAdmin())
	adminHandler.Register(adminGroup)

	if cfg.HTTP.SwaggerDir != "" {
		router.StaticFS("/swagger", http.Dir(cfg.HTTP.SwaggerDir))
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger/gateway.swagger.json"),
		)))
	}

	return router
}
