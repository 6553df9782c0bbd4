package routes

import (
	"net/http"

	"github.com/jsimpson73/test-med-app/internal/api/handlers"
	"github.com/jsimpson73/test-med-app/internal/api/middleware"
	"github.com/jsimpson73/test-med-app/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	authHandler         *handlers.AuthHandler
	profileHandler      *handlers.ProfileHandler
	appointmentHandler  *handlers.AppointmentHandler
	directoryHandler    *handlers.DirectoryHandler
	reviewHandler       *handlers.ReviewHandler
	notificationHandler *handlers.NotificationHandler
	reportHandler       *handlers.ReportHandler

	authLimiter    *middleware.RateLimiter
	allowedOrigins []string
	metrics        *observability.Metrics
}

// Handlers groups the handlers the router mounts.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Profile      *handlers.ProfileHandler
	Appointments *handlers.AppointmentHandler
	Directory    *handlers.DirectoryHandler
	Reviews      *handlers.ReviewHandler
	Notification *handlers.NotificationHandler
	Reports      *handlers.ReportHandler
}

// NewRouter creates a new router. authLimiter may be nil to disable rate limiting.
func NewRouter(h Handlers, authLimiter *middleware.RateLimiter, allowedOrigins []string, metrics *observability.Metrics) *Router {
	return &Router{
		mux:                 http.NewServeMux(),
		authHandler:         h.Auth,
		profileHandler:      h.Profile,
		appointmentHandler:  h.Appointments,
		directoryHandler:    h.Directory,
		reviewHandler:       h.Reviews,
		notificationHandler: h.Notification,
		reportHandler:       h.Reports,
		authLimiter:         authLimiter,
		allowedOrigins:      allowedOrigins,
		metrics:             metrics,
	}
}

func (r *Router) limited(h http.HandlerFunc) http.HandlerFunc {
	if r.authLimiter == nil {
		return h
	}
	return r.authLimiter.Limit(h)
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Auth endpoints
	r.mux.HandleFunc("POST /api/auth/register", r.limited(r.authHandler.Register))
	r.mux.HandleFunc("POST /api/auth/login", r.limited(r.authHandler.Login))
	r.mux.HandleFunc("POST /api/auth/logout", r.authHandler.Logout)
	r.mux.HandleFunc("GET /api/auth/session", r.authHandler.Session)

	// Profile endpoints
	r.mux.HandleFunc("GET /api/profile", r.profileHandler.GetProfile)
	r.mux.HandleFunc("PATCH /api/profile", r.profileHandler.UpdateProfile)

	// Appointment endpoints
	r.mux.HandleFunc("GET /api/appointments", r.appointmentHandler.ListAppointments)
	r.mux.HandleFunc("POST /api/appointments", r.appointmentHandler.BookAppointment)
	r.mux.HandleFunc("POST /api/appointments/instant", r.appointmentHandler.BookInstant)
	r.mux.HandleFunc("DELETE /api/appointments/{id}", r.appointmentHandler.CancelAppointment)

	// Directory and content endpoints
	r.mux.HandleFunc("GET /api/doctors", r.directoryHandler.ListDoctors)
	r.mux.HandleFunc("GET /api/doctors/{id}", r.directoryHandler.GetDoctor)
	r.mux.HandleFunc("GET /api/doctors/{id}/slots", r.directoryHandler.AvailableSlots)
	r.mux.HandleFunc("GET /api/specialties", r.directoryHandler.ListSpecialties)
	r.mux.HandleFunc("GET /api/health-tips", r.directoryHandler.ListHealthTips)
	r.mux.HandleFunc("GET /api/self-checkup", r.directoryHandler.ListCheckupTopics)

	// Review endpoints
	r.mux.HandleFunc("GET /api/reviews", r.reviewHandler.ListReviews)
	r.mux.HandleFunc("POST /api/reviews", r.reviewHandler.SubmitReview)
	r.mux.HandleFunc("GET /api/reviews/summary", r.reviewHandler.Summary)

	// Notification endpoints
	r.mux.HandleFunc("GET /api/notifications", r.notificationHandler.ListNotifications)
	r.mux.HandleFunc("DELETE /api/notifications", r.notificationHandler.ClearNotifications)
	r.mux.HandleFunc("GET /api/notifications/stream", r.notificationHandler.StreamNotifications)

	// Report endpoints
	r.mux.HandleFunc("GET /api/reports", r.reportHandler.ListReports)
	r.mux.HandleFunc("GET /api/reports/{id}", r.reportHandler.GetReport)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
