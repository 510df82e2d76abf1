package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dishcovery-app/dishcovery-backend/api/controllers"
	"github.com/dishcovery-app/dishcovery-backend/api/middleware"
	"github.com/dishcovery-app/dishcovery-backend/internal/auth"
	"github.com/dishcovery-app/dishcovery-backend/internal/discovery"
	"github.com/dishcovery-app/dishcovery-backend/internal/share"
	"github.com/dishcovery-app/dishcovery-backend/internal/wishlist"
	"github.com/dishcovery-app/dishcovery-backend/pkg/auth/session"
	"github.com/dishcovery-app/dishcovery-backend/pkg/config"
	"github.com/dishcovery-app/dishcovery-backend/pkg/logger"
	"github.com/dishcovery-app/dishcovery-backend/pkg/metrics"
	"github.com/dishcovery-app/dishcovery-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	httpMetrics *metrics.HTTPMetrics,
	dbPinger controllers.Pinger,
	redisClient *redis.Client,
	sessions sessionManager,
	authService auth.Service,
	registerService auth.RegisterService,
	wishlistService wishlist.Service,
	shareService share.Service,
	discoveryService discovery.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if httpMetrics != nil {
		r.Use(httpMetrics.Middleware)
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterUsernameLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": dbPinger,
			"redis":    redisClient,
		}))
	})

	if httpMetrics != nil {
		r.Get("/metrics", httpMetrics.Handler().ServeHTTP)
	}

	r.Route("/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(registerService, logg))
		r.Post("/logout", controllers.AuthLogout(sessions, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(sessions, cfg.JWT, logg))
	})

	r.Get("/shared/{shareID}", controllers.SharedWishlist(shareService, logg))
	r.Post("/find-cafes", controllers.FindCafes(discoveryService, logg))

	r.Route("/wishlist", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Get("/", controllers.WishlistList(wishlistService, logg))
		r.Post("/", controllers.WishlistAddItem(wishlistService, logg))
		r.Delete("/{itemID}", controllers.WishlistRemoveItem(wishlistService, logg))
		r.Get("/sync", controllers.WishlistSync(wishlistService, logg))
		r.Post("/share", controllers.WishlistShare(shareService, logg))
	})

	return r
}
