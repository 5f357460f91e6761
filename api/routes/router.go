package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stockflowhq/stockflow-backend/api/controllers"
	"github.com/stockflowhq/stockflow-backend/api/middleware"
	"github.com/stockflowhq/stockflow-backend/internal/auth"
	"github.com/stockflowhq/stockflow-backend/internal/contributions"
	"github.com/stockflowhq/stockflow-backend/internal/ledger"
	"github.com/stockflowhq/stockflow-backend/internal/products"
	"github.com/stockflowhq/stockflow-backend/internal/profiles"
	"github.com/stockflowhq/stockflow-backend/internal/stats"
	"github.com/stockflowhq/stockflow-backend/internal/transactions"
	"github.com/stockflowhq/stockflow-backend/pkg/auth/session"
	"github.com/stockflowhq/stockflow-backend/pkg/config"
	"github.com/stockflowhq/stockflow-backend/pkg/enums"
	"github.com/stockflowhq/stockflow-backend/pkg/logger"
	"github.com/stockflowhq/stockflow-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// Deps bundles everything the router needs. Grouped to keep NewRouter's
// signature stable as endpoints grow.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             controllers.Pinger
	Redis          *redis.Client
	SessionManager sessionManager
	AuthService    auth.Service
	ProductService products.Service
	LedgerService  ledger.Service
	ContribService contributions.Service
	TxnService     transactions.Service
	StatsService   stats.Service
	ProfileService profiles.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUserLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
			Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(deps.AuthService, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, logg))

		r.Post("/auth/change-password", controllers.AuthChangePassword(deps.AuthService, logg))

		r.Get("/products", controllers.ProductList(deps.ProductService, logg))

		r.Route("/ledger", func(r chi.Router) {
			r.Post("/withdraw", controllers.LedgerWithdraw(deps.LedgerService, logg))
			r.Post("/sell", controllers.LedgerSell(deps.LedgerService, logg))
			r.Post("/return", controllers.LedgerReturn(deps.LedgerService, logg))
			r.Post("/transfer", controllers.LedgerTransfer(deps.LedgerService, logg))
			r.Get("/credit", controllers.LedgerCredit(deps.LedgerService, logg))
		})

		r.Get("/transactions/recent", controllers.TransactionsRecent(deps.TxnService, logg))
		r.Get("/profiles/sellers", controllers.ProfileSellers(deps.ProfileService, logg))
		r.Get("/profiles/me", controllers.ProfileMe(deps.ProfileService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.ProfileRoleAdmin), logg))

			r.Post("/products", controllers.ProductCreate(deps.ProductService, logg))
			r.Post("/products/{productId}/restock", controllers.ProductRestock(deps.LedgerService, logg))
			r.Post("/contributions", controllers.ContributionRegister(deps.ContribService, logg))
			r.Get("/stats/sales", controllers.StatsSales(deps.StatsService, logg))
		})
	})

	return r
}
