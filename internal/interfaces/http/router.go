package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ifat-github/casting-agency/docs"
	"github.com/ifat-github/casting-agency/internal/application"
	"github.com/ifat-github/casting-agency/internal/infrastructure/config"
	"github.com/ifat-github/casting-agency/internal/infrastructure/database"
	"github.com/ifat-github/casting-agency/internal/infrastructure/repository"
	httperrors "github.com/ifat-github/casting-agency/internal/interfaces/http/errors"
	"github.com/ifat-github/casting-agency/internal/interfaces/http/handlers"
	"github.com/ifat-github/casting-agency/internal/interfaces/http/middleware/auth"
	"github.com/ifat-github/casting-agency/internal/interfaces/http/middleware/ratelimit"
	"github.com/ifat-github/casting-agency/internal/interfaces/http/middleware/recovery"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const visitorTTL = 3 * time.Minute

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping() error
}

type Router struct {
	router      *chi.Mux
	rateLimiter *ratelimit.RateLimiter
}

func NewRouter(
	db *database.Postgres,
	authorizer auth.Authorizer,
	cfg *config.Config,
	logger *zap.Logger,
) *Router {
	actorRepo := repository.NewActorRepository(db, logger)
	movieRepo := repository.NewMovieRepository(db, logger)
	actorService := application.NewActorService(actorRepo, logger)
	movieService := application.NewMovieService(movieRepo, logger)

	return newRouter(db, actorService, movieService, authorizer, cfg, logger)
}

func newRouter(
	db Pinger,
	actorService handlers.ActorService,
	movieService handlers.MovieService,
	authorizer auth.Authorizer,
	cfg *config.Config,
	logger *zap.Logger,
) *Router {
	guard := auth.NewGuard(authorizer, logger)
	actorHandler := handlers.NewActorHandler(actorService, guard, logger)
	movieHandler := handlers.NewMovieHandler(movieService, guard, logger)

	router := createRouter(logger)

	rateLimiter := ratelimit.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst, visitorTTL, logger)
	router.Use(rateLimiter.Middleware)

	// Health check endpoints
	router.Group(func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})

		r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
			if err := db.Ping(); err != nil {
				logger.Error("Database health check failed", zap.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte("Database connection failed"))
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("Ready"))
		})

		r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("Alive"))
		})
	})

	router.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write(docs.SwaggerJSON)
	})
	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
		httpSwagger.DeepLinking(true),
		httpSwagger.PersistAuthorization(true),
	))

	// Every record route checks its own permission through the guard
	router.Route("/actors", func(r chi.Router) {
		r.Get("/", actorHandler.ListActorsHandler)
		r.Post("/", actorHandler.CreateActorHandler)
		r.Patch("/{id}", actorHandler.UpdateActorHandler)
		r.Delete("/{id}", actorHandler.DeleteActorHandler)
	})
	router.Route("/movies", func(r chi.Router) {
		r.Get("/", movieHandler.ListMoviesHandler)
		r.Post("/", movieHandler.CreateMovieHandler)
		r.Patch("/{id}", movieHandler.UpdateMovieHandler)
		r.Delete("/{id}", movieHandler.DeleteMovieHandler)
	})

	return &Router{router: router, rateLimiter: rateLimiter}
}

func createRouter(logger *zap.Logger) *chi.Mux {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.RequestID)
	router.Use(recovery.Recoverer(logger))
	router.Use(middleware.RealIP)
	router.Use(middleware.Timeout(60 * time.Second))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httperrors.RespondWithError(w, http.StatusNotFound, httperrors.MessageNotFound, nil)
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httperrors.RespondWithError(w, http.StatusMethodNotAllowed, httperrors.MessageMethodNotAllowed, nil)
	})

	return router
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}

// Close releases background resources held by the router's middleware
func (r *Router) Close() {
	r.rateLimiter.Stop()
}
