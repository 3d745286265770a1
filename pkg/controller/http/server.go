package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/secmon-lab/pulse/pkg/usecase"
	"github.com/secmon-lab/pulse/pkg/utils/logging"
	"github.com/secmon-lab/pulse/pkg/utils/safe"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
	apiKey string
}

type Options func(*Server)

// WithAPIKey sets the static shared secret required on /api/* requests.
// Without it, all /api/* requests are rejected with 503.
func WithAPIKey(key string) Options {
	return func(s *Server) {
		s.apiKey = key
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	// Liveness probe, no auth
	r.Get("/healthz", healthzHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(apiKeyMiddleware(s.apiKey))

		r.Get("/daily-checkins", s.dailyCheckinsHandler)
		r.Get("/absentees", s.absenteesHandler)
		r.Get("/checkin", s.checkinHandler)
		r.Route("/summary", func(r chi.Router) {
			r.Get("/day", s.dailySummaryHandler)
			r.Get("/week", s.weeklySummaryHandler)
			r.Get("/month", s.monthlySummaryHandler)
		})
		r.Post("/refresh", s.refreshHandler)
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func healthzHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	safe.Write(r.Context(), w, []byte(`{"status":"ok"}`))
}
