package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/courtside/club-stats-service/internal/auth"
	"github.com/courtside/club-stats-service/internal/metrics"
	"github.com/courtside/club-stats-service/internal/service"
)

// Services bundles the dependencies Register mounts onto the engine.
type Services struct {
	Teams      service.TeamService
	Players    service.PlayerService
	Games      service.GameService
	Stats      service.StatsService
	StatsQuery service.StatsQueryService
	Auth       *auth.Service
}

// Register mounts all public routes on the given engine. Health probes, docs
// and the auth endpoints are open; everything else under the API prefix sits
// behind the bearer-token middleware.
func Register(r *gin.Engine, repo Pinger, svcs Services, m *metrics.Service) {
	h := NewHealthHandler(repo)

	// Health probes
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)

	if m != nil {
		r.GET("/metrics", gin.WrapH(metrics.NewHandler()))
	}

	// Docs endpoints (root-level)
	RegisterDocs(r)

	api := r.Group(APIV1Prefix)
	{
		health := api.Group("/health")
		{
			health.GET("/live", h.Liveness)
			health.GET("/ready", h.Readiness)
		}
		NewAuthHandler(svcs.Auth).Register(api)
	}

	protected := api.Group("", RequireAuth(svcs.Auth))
	{
		NewTeamHandler(svcs.Teams).Register(protected)
		NewPlayerHandler(svcs.Players).Register(protected)
		NewGameHandler(svcs.Games).Register(protected)
		NewStatsHandler(svcs.Stats).Register(protected)
		NewQueryHandler(svcs.StatsQuery).Register(protected)
		NewAggregatesHandler(svcs.Teams, svcs.Players, svcs.StatsQuery).Register(protected)
	}
}
