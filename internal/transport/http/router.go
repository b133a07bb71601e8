package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/wa-otp-auth/internal/application/challenge"
	"github.com/wa-otp-auth/internal/application/signup"
	"github.com/wa-otp-auth/internal/config"
	"github.com/wa-otp-auth/internal/transport/http/handler"
	appmiddleware "github.com/wa-otp-auth/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the trigger router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second with a burst of 10; the triggers are the public surface.
	triggerRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	roleCache := challenge.NewRoleCache()
	roles := challenge.NewRoleResolver(deps.Directory, roleCache)
	orchestrator := challenge.NewOrchestrator(deps.Directory, roles, deps.DecisionLog, cfg)
	issuer := challenge.NewIssuer(deps.Sender, roles)
	verifier := challenge.NewVerifier(cfg.OTPExpiryMinutes)
	signupSvc := signup.NewService(deps.Directory)

	healthH := handler.NewHealthHandler()
	triggerH := handler.NewTriggerHandler(orchestrator, issuer, verifier)
	lifecycleH := handler.NewLifecycleHandler(signupSvc)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check", healthH.Ping)

		r.Route("/triggers", func(r chi.Router) {
			r.Use(triggerRL.Limit)

			r.Post("/pre-sign-up", lifecycleH.PreSignUp)
			r.Post("/post-confirmation", lifecycleH.PostConfirmation)
			r.Post("/define-auth-challenge", triggerH.Define)
			r.Post("/create-auth-challenge", triggerH.Create)
			r.Post("/verify-auth-challenge", triggerH.Verify)
		})
	})

	return r
}
