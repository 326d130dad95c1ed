package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	auth "github.com/mind-engage/clinical-scores/internal/auth/middleware"
	"github.com/mind-engage/clinical-scores/internal/config"
	"github.com/mind-engage/clinical-scores/internal/logging"
	"github.com/mind-engage/clinical-scores/internal/rbac"
	"github.com/mind-engage/clinical-scores/pkg/score"
)

// RouterOptions carries the optional pieces of NewRouter.
type RouterOptions struct {
	Version string
	Log     *logrus.Logger
	Checker *rbac.Checker
}

// NewRouter mounts the catalog, calculate, auth and probe routes for reg.
// With cfg.EnableAuth unset every score route is public.
func NewRouter(cfg config.Config, reg *score.Registry, opts RouterOptions) http.Handler {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	checker := opts.Checker
	if checker == nil {
		checker = rbac.NewChecker(nil)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, logging.RequestLogger(log), middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins(),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: cfg.EnableAuth,
		MaxAge:           300,
	}))

	r.Get("/", BannerHandler(reg, opts.Version))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if reg.Len() == 0 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	read := func(next http.Handler) http.Handler { return next }
	calc := read
	if cfg.EnableAuth {
		authSvc := auth.NewAuthService(cfg.AuthHMACSecret, cfg.TokenTTL)
		jwtmw := auth.JWTMiddleware(authSvc)
		r.Post("/auth/login", auth.LoginHandler(authSvc, cfg.Accounts()))
		r.With(jwtmw).Get("/auth/me", auth.MeHandler(checker))

		read = chain(jwtmw, checker.Require(rbac.PermScoreRead))
		calc = chain(jwtmw, checker.Require(rbac.PermScoreCalculate))
	}

	r.Route("/api", func(ar chi.Router) {
		ar.With(read).Get("/scores", ListScoresHandler(reg))
		ar.With(read).Get("/scores/{score_id}", GetScoreHandler(reg))
		ar.With(read).Get("/scores/{score_id}/validate", ValidateScoreHandler(reg))
		ar.With(read).Get("/categories", CategoriesHandler(reg))
		ar.With(calc).Post("/{score_id}/calculate", CalculateHandler(reg, log, ""))
	})

	for _, id := range reg.IDs() {
		r.With(calc).Post("/"+id, CalculateHandler(reg, log, id))
	}

	return r
}

func chain(mws ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}
