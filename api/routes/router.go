package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/argvision/argvision-backend/api/controllers"
	"github.com/argvision/argvision-backend/api/middleware"
	"github.com/argvision/argvision-backend/internal/discussions"
	"github.com/argvision/argvision-backend/internal/games"
	"github.com/argvision/argvision-backend/internal/matches"
	"github.com/argvision/argvision-backend/internal/memberships"
	"github.com/argvision/argvision-backend/internal/notifications"
	"github.com/argvision/argvision-backend/internal/rankings"
	"github.com/argvision/argvision-backend/internal/teams"
	"github.com/argvision/argvision-backend/internal/users"
	"github.com/argvision/argvision-backend/pkg/config"
	"github.com/argvision/argvision-backend/pkg/logger"
	"github.com/argvision/argvision-backend/pkg/metrics"
	"github.com/argvision/argvision-backend/pkg/redis"
)

// RealtimeEndpoints serves the websocket streams.
type RealtimeEndpoints interface {
	Notifications(w http.ResponseWriter, r *http.Request)
	Room(w http.ResponseWriter, r *http.Request)
}

// Params carries everything the router mounts. Nil services answer with an
// internal error; a nil Redis disables idempotency replay and rate limits.
type Params struct {
	Config   *config.Config
	Logger   *logger.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	DB       controllers.Pinger
	Redis    *redis.Client

	Matches       matches.Service
	Memberships   memberships.Service
	Rankings      rankings.Service
	Games         games.Service
	Users         users.Service
	Teams         teams.Service
	Discussions   discussions.Service
	Notifications notifications.Service
	Realtime      RealtimeEndpoints
}

func NewRouter(p Params) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.Metrics),
		middleware.CORS(cfg.App.CORSAllowedOrigins),
	)

	deps := map[string]controllers.Pinger{}
	if p.DB != nil {
		deps["db"] = p.DB
	}
	if p.Redis != nil {
		deps["redis"] = p.Redis
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps))
	})

	if p.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	if p.Realtime != nil {
		r.Route("/ws", func(r chi.Router) {
			r.Get("/notifications", p.Realtime.Notifications)
			r.Get("/rooms/{room}", p.Realtime.Room)
		})
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		if p.Redis != nil {
			r.Use(middleware.WriteRateLimit(cfg.RateLimit.Writes, cfg.RateLimit.Window, p.Redis, logg))
			r.Use(middleware.Idempotency(p.Redis, logg))
		}

		r.Route("/matches", func(r chi.Router) {
			r.Post("/", controllers.CreateMatch(p.Matches, logg))
			r.Get("/", controllers.ListMatches(p.Matches, logg))
			r.Get("/mine", controllers.ListMyMatches(p.Matches, logg))
			r.Route("/{matchId}", func(r chi.Router) {
				r.Get("/", controllers.GetMatch(p.Matches, logg))
				r.Post("/invitations", controllers.InviteToMatch(p.Memberships, logg))
				r.Get("/memberships", controllers.ListMatchMemberships(p.Memberships, logg))
				r.Post("/side", controllers.SelectMatchSide(p.Matches, logg))
				r.Post("/begin", controllers.BeginMatch(p.Matches, logg))
				r.Post("/complete", controllers.CompleteMatch(p.Matches, logg))
				r.Post("/cancel", controllers.CancelMatch(p.Matches, logg))
				r.Post("/archive", controllers.ArchiveMatch(p.Matches, logg))
			})
		})

		r.Route("/memberships", func(r chi.Router) {
			r.Get("/", controllers.ListMyMemberships(p.Memberships, logg))
			r.Route("/{membershipId}", func(r chi.Router) {
				r.Post("/accept", controllers.AcceptMembership(p.Memberships, logg))
				r.Post("/deny", controllers.DenyMembership(p.Memberships, logg))
				r.Post("/kick", controllers.KickMembership(p.Memberships, logg))
				r.Post("/ban", controllers.BanMembership(p.Memberships, logg))
				r.Post("/leave", controllers.LeaveMembership(p.Memberships, logg))
			})
		})

		r.Get("/rankings/me", controllers.MyRankings(p.Rankings, logg))

		r.Route("/games", func(r chi.Router) {
			r.Get("/", controllers.ListGames(p.Games, logg))
			r.With(middleware.RequireStaff(logg)).Post("/", controllers.CreateGame(p.Games, logg))
			r.Get("/{gameId}", controllers.GetGame(p.Games, logg))
			r.With(middleware.RequireStaff(logg)).Post("/{gameId}/archive", controllers.ArchiveGame(p.Games, logg))
			r.Get("/{gameId}/leaderboard", controllers.GameLeaderboard(p.Rankings, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.SearchUsers(p.Users, logg))
			r.Get("/me", controllers.CurrentUser(p.Users, logg))
			r.Get("/{userId}", controllers.GetUser(p.Users, logg))
		})

		r.Route("/teams", func(r chi.Router) {
			r.Post("/", controllers.CreateTeam(p.Teams, logg))
			r.Get("/{teamId}", controllers.GetTeam(p.Teams, logg))
			r.Post("/{teamId}/invitations", controllers.InviteToTeam(p.Teams, logg))
		})

		r.Route("/team-memberships/{membershipId}", func(r chi.Router) {
			r.Post("/accept", controllers.AcceptTeamMembership(p.Teams, logg))
			r.Post("/deny", controllers.DenyTeamMembership(p.Teams, logg))
			r.Post("/kick", controllers.KickTeamMembership(p.Teams, logg))
			r.Post("/leave", controllers.LeaveTeamMembership(p.Teams, logg))
		})

		r.Route("/discussions", func(r chi.Router) {
			r.Post("/", controllers.CreateDiscussion(p.Discussions, logg))
			r.Get("/", controllers.ListDiscussions(p.Discussions, logg))
			r.Get("/{discussionId}", controllers.GetDiscussion(p.Discussions, logg))
			r.Post("/{discussionId}/messages", controllers.PostMessage(p.Discussions, logg))
			r.Get("/{discussionId}/messages", controllers.ListMessages(p.Discussions, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(p.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(p.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(p.Notifications, logg))
		})
	})

	return r
}
