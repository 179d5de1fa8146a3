package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	red "tutoring-platform/internal/infra/redis"
	"tutoring-platform/internal/usecase"
)

// Server wires the public HTTP surface: payment notifications, the
// authenticated student API and the marketing chat widget.
type Server struct {
	paymentUC  usecase.PaymentUseCase
	bookingUC  usecase.BookingUseCase
	planUC     usecase.PlanUseCase
	resourceUC usecase.ResourceUseCase
	chatUC     usecase.ChatUseCase
	auth       *Authenticator
	limiter    *red.RateLimiter
	log        *zerolog.Logger
}

func NewServer(
	paymentUC usecase.PaymentUseCase,
	bookingUC usecase.BookingUseCase,
	planUC usecase.PlanUseCase,
	resourceUC usecase.ResourceUseCase,
	chatUC usecase.ChatUseCase,
	auth *Authenticator,
	limiter *red.RateLimiter,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		paymentUC:  paymentUC,
		bookingUC:  bookingUC,
		planUC:     planUC,
		resourceUC: resourceUC,
		chatUC:     chatUC,
		auth:       auth,
		limiter:    limiter,
		log:        logger,
	}
}

// Router builds the full route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(func(next http.Handler) http.Handler {
		return Chain(next, TraceID(), Recover(s.log), RequestLog(s.log), Timeout(30*time.Second))
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Provider notifications arrive unauthenticated.
	r.With(RateLimit(s.limiter, 60, time.Minute)).
		Post("/api/mercadopago/webhook", s.handleWebhook)

	// Public marketing surface.
	r.Get("/api/v1/plans", s.handleListPlans)
	r.Get("/api/v1/availability", s.handleAvailability)
	r.With(RateLimit(s.limiter, 10, time.Minute)).
		Post("/api/chat", s.handleChat)

	// Authenticated student API.
	r.Group(func(r chi.Router) {
		r.Use(s.auth.RequireUser)
		r.Post("/api/v1/payments/checkout", s.handleCheckout)
		r.Post("/api/v1/payments/confirm", s.handleConfirm)
		r.Post("/api/v1/classes/book", s.handleBook)
		r.Get("/api/v1/classes", s.handleListClasses)
		r.Get("/api/v1/resources", s.handleMyResources)
	})

	// Admin surface.
	r.Group(func(r chi.Router) {
		r.Use(s.auth.RequireAdmin)
		r.Get("/api/v1/admin/resources", s.handleAllResources)
		r.Post("/api/v1/admin/resources/assign", s.handleAssignResource)
	})

	return r
}
