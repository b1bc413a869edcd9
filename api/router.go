package api

import (
	"net/http"
	"strconv"

	"credmarket/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server wires the HTTP layer to the services
type Server struct {
	ledger      service.LedgerService
	marketplace service.MarketplaceService
	votes       service.VoteService
	content     service.ContentService
	validate    *validator.Validate
}

// NewServer creates a new API server
func NewServer(ledger service.LedgerService, marketplace service.MarketplaceService, votes service.VoteService, content service.ContentService) *Server {
	return &Server{
		ledger:      ledger,
		marketplace: marketplace,
		votes:       votes,
		content:     content,
		validate:    validator.New(),
	}
}

// Router builds the chi router with all routes and middleware
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(instrument)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/accounts", s.handleCreateAccount)
		r.Get("/accounts/{userID}/balance", s.handleGetBalance)
		r.Get("/accounts/{userID}/history", s.handleGetHistory)
		r.Get("/accounts/{userID}/wallet", s.handleGetWallet)
		r.Post("/transfers", s.handleTransfer)

		r.Post("/courses", s.handleCreateCourse)
		r.Get("/courses", s.handleListCourses)
		r.Post("/courses/{courseID}/join", s.handleJoinCourse)

		r.Post("/sessions", s.handleHostSession)
		r.Get("/sessions", s.handleListSessions)
		r.Post("/sessions/{sessionID}/join", s.handleJoinSession)
		r.Post("/sessions/{sessionID}/cancel", s.handleCancelSession)

		r.Post("/threads", s.handleCreateThread)
		r.Get("/threads", s.handleListThreads)
		r.Get("/threads/{threadID}", s.handleGetThread)
		r.Post("/threads/{threadID}/comments", s.handleCreateComment)

		r.Post("/votes", s.handleCastVote)
		r.Get("/score", s.handleGetScore)
		r.Post("/reports", s.handleFileReport)
	})

	return r
}

// urlID parses a numeric URL parameter, returning 0 if malformed
func urlID(r *http.Request, name string) int64 {
	id, _ := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id
}

// queryInt parses a query parameter with a default and upper bound
func queryInt(r *http.Request, name string, def, max int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	if v > max {
		return max
	}
	return v
}
