package server

import (
	"context"

	"github.com/rs/zerolog/log"

	"funolympics/internal/db"
	"funolympics/internal/handlers"
	"funolympics/internal/handlers/api"
	"funolympics/internal/metrics"
	"funolympics/internal/middleware"
	"funolympics/internal/views"
)

// RegisterRoutes registers all application routes. database may be nil when
// no usage store is configured.
func (s *Server) RegisterRoutes(ctx context.Context, svc *views.Service, database *db.DB) error {
	ds := svc.Dataset()

	// Probes and metrics are registered first and never require login.
	probeHandler := handlers.NewProbeHandler(ds, database)
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", metrics.Handler())

	authMiddleware := middleware.NewAuthMiddleware(s.Cfg.AuthEnabled())
	if s.Cfg.AuthEnabled() {
		authHandler, err := handlers.NewAuthHandler(ctx, s.Cfg)
		if err != nil {
			return err
		}
		s.App.Get("/auth/login", authHandler.Login)
		s.App.Get("/auth/callback", authHandler.Callback)
		s.App.Get("/auth/logout", authHandler.Logout)
	} else {
		log.Info().Msg("OIDC is not configured, dashboard is public")
	}

	registerDashboard(s, svc, database, authMiddleware)
	registerAPI(s, svc, database, authMiddleware)
	return nil
}

func registerDashboard(s *Server, svc *views.Service, database *db.DB, auth *middleware.AuthMiddleware) {
	h := handlers.NewDashboardHandler(svc, database, s.Cfg)

	// The landing page is public; it greets a logged in user by name.
	s.App.Get("/", auth.OptionalAuth, h.Index)
	s.App.Get("/views/:view", auth.RequireAuth, h.Show)
	s.App.Get("/views/:view/countries", auth.RequireAuth, h.Countries)
	s.App.Get("/views/:view/chart.png", auth.RequireAuth, h.ChartPNG)
	s.App.Get("/views/:view/export.xlsx", auth.RequireAuth, h.Export)
}

func registerAPI(s *Server, svc *views.Service, database *db.DB, auth *middleware.AuthMiddleware) {
	h := api.NewDashboardHandler(svc)

	group := s.App.Group("/api", auth.RequireAuthAPI)
	group.Get("/options", h.Options)
	group.Get("/views", h.Views)
	group.Get("/views/:view", h.View)
	group.Get("/views/:view/countries", h.Countries)
	group.Post("/query", h.Query)

	if database != nil {
		exports := api.NewExportHandler(database)
		group.Get("/exports", exports.List)
	}
}
