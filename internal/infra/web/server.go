package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"mixpool-commerce/internal/config"
	"mixpool-commerce/internal/domain/ports/adapter"
	"mixpool-commerce/internal/infra/security"
	"mixpool-commerce/internal/infra/worker"
	"mixpool-commerce/internal/usecase"
)

// Server owns the HTTP surface: the provider webhook, the client-initiated
// verify route, and the download endpoints.
type Server struct {
	processor usecase.WebhookUseCase
	payments  usecase.PaymentUseCase
	downloads usecase.DownloadUseCase
	verifier  *security.WebhookVerifier
	pool      *worker.Pool
	limiter   adapter.RateLimiter
	auth      *AuthManager
	cfg       *config.Config
	log       *zerolog.Logger

	httpServer *http.Server
}

func NewServer(
	processor usecase.WebhookUseCase,
	payments usecase.PaymentUseCase,
	downloads usecase.DownloadUseCase,
	verifier *security.WebhookVerifier,
	pool *worker.Pool,
	limiter adapter.RateLimiter,
	auth *AuthManager,
	cfg *config.Config,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		processor: processor,
		payments:  payments,
		downloads: downloads,
		verifier:  verifier,
		pool:      pool,
		limiter:   limiter,
		auth:      auth,
		cfg:       cfg,
		log:       logger,
	}
}

// Routes builds the router. Split out from Start so tests can drive the full
// middleware stack through httptest.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.traceMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(s.observeMiddleware)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/webhook/paystack", s.handlePaystackWebhook)

	rateLimit := s.rateLimitMiddleware(s.limiter, s.cfg.Download.RateLimit, s.cfg.Download.RateLimitWindow)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/payments/verify", s.handleVerifyPayment)

		// Redemption is anonymous: the token is the credential.
		r.With(rateLimit).Get("/downloads/secure", s.handleRedeemToken)

		// Issuance accepts guests too: a paid order id is proof enough,
		// so identity is only required for subscription-tier products.
		r.With(s.optionalUser, rateLimit).Post("/downloads/secure", s.handleIssueToken)

		r.Group(func(r chi.Router) {
			r.Use(s.requireUser)
			r.With(rateLimit).Post("/downloads/request", s.handleRequestDownload)
		})
	})

	return r
}

func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:      s.Routes(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}
	s.log.Info().Int("port", s.cfg.Server.Port).Msg("http server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
