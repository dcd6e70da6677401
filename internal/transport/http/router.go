package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	otpapp "github.com/harshpatel9469/medoh-v2-sub002/internal/application/otp"
	pageapp "github.com/harshpatel9469/medoh-v2-sub002/internal/application/page"
	"github.com/harshpatel9469/medoh-v2-sub002/internal/config"
	"github.com/harshpatel9469/medoh-v2-sub002/internal/domain"
	"github.com/harshpatel9469/medoh-v2-sub002/internal/infrastructure/dynamo"
	jwtinfra "github.com/harshpatel9469/medoh-v2-sub002/internal/infrastructure/jwt"
	s3infra "github.com/harshpatel9469/medoh-v2-sub002/internal/infrastructure/s3"
	"github.com/harshpatel9469/medoh-v2-sub002/internal/infrastructure/smtp"
	"github.com/harshpatel9469/medoh-v2-sub002/internal/infrastructure/sns"
	"github.com/harshpatel9469/medoh-v2-sub002/internal/transport/http/handler"
	appmiddleware "github.com/harshpatel9469/medoh-v2-sub002/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	OTPStore     otpapp.Store
	PageRepo     *dynamo.PageRepo
	MessageRepo  *dynamo.MessageRepo
	DocumentRepo *dynamo.DocumentRepo
	S3Store      *s3infra.Store
	Mailer       smtp.Mailer
	SMSSender    sns.SMSSender
	JWTProvider  *jwtinfra.Provider
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Session resolution runs on every request so the guard and the
	// authenticated routes see the same identity. Nil-safe when JWT keys
	// are not configured.
	r.Use(appmiddleware.Session(deps.JWTProvider))

	// The OTP guard gates page routes only. API and static asset paths
	// are excluded at the mount boundary.
	r.Use(appmiddleware.Unless(
		[]string{"/api/", "/static/"},
		appmiddleware.Guard(appmiddleware.DefaultGuardConfig()),
	))

	// 5 requests/second, burst of 10 — applied to the OTP endpoints so a
	// code can't be brute-forced within its lifetime.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	otpSvc := otpapp.NewService(otpapp.Deps{
		Store:     deps.OTPStore,
		SMSSender: deps.SMSSender,
		Mailer:    deps.Mailer,
		TTL:       cfg.OTPTTL,
	})
	pageSvc := pageapp.NewService(pageapp.Deps{
		PageRepo:     deps.PageRepo,
		MessageRepo:  deps.MessageRepo,
		DocumentRepo: deps.DocumentRepo,
		Objects:      deps.S3Store,
		SMSSender:    deps.SMSSender,
	})

	healthH := handler.NewHealthHandler()
	otpH := handler.NewOTPHandler(otpSvc, cfg.OTPCookieMaxAge)
	pageH := handler.NewPageHandler(pageSvc)
	docH := handler.NewDocumentHandler(pageSvc)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)

		// OTP challenge endpoints are public: the caller is by definition
		// not signed in. POST-only; chi answers 405 elsewhere.
		r.With(sensitiveRL.Limit).Post("/send-otp", otpH.Send)
		r.With(sensitiveRL.Limit).Post("/verify-otp", otpH.Verify)

		// Doctor-facing routes.
		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.RequireUser)

			r.Post("/private-pages/{id}/share", pageH.ShareLink)
			r.Get("/messages", pageH.ListMessages)
		})

		// Admin-only page and document management.
		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.RequireRole(domain.RoleAdmin, domain.RoleDoctor))

			r.Post("/private-pages", pageH.Create)
			r.Get("/private-pages", pageH.List)
			r.Delete("/private-pages/{id}", pageH.Disable)
			r.Post("/private-pages/{id}/documents", docH.Upload)
			r.Delete("/documents/{docID}", docH.Delete)
		})
	})

	// Patient-facing page routes, gated by the OTP guard above. The
	// /auth challenge is inside the guarded prefix but always passes.
	r.Route("/private-page-patient/{id}", func(r chi.Router) {
		r.Get("/", pageH.Get)
		r.Get("/auth", pageH.Challenge)
		r.Get("/documents", docH.ListByPage)
		r.Get("/documents/{docID}", docH.Download)
	})

	return r
}
