// Package server exposes the assessment pipeline over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"github.com/sells-group/riskpilot/internal/config"
	"github.com/sells-group/riskpilot/internal/model"
	"github.com/sells-group/riskpilot/internal/pipeline"
)

// Service runs the persona flows. *pipeline.Pipeline implements it.
type Service interface {
	Employee(ctx context.Context, profile model.EmployeeProfile) (*pipeline.EmployeeResult, error)
	EmployeeSuggestions(ctx context.Context, profile model.EmployeeProfile, risk string) (model.CareerSuggestions, error)
	Investor(ctx context.Context, company string) (*pipeline.InvestorResult, error)
	Student(ctx context.Context, profile model.StudentProfile) (*pipeline.StudentResult, error)
	TemplateSuggestions(profile model.EmployeeProfile, risk string, revenueGrowth float64) model.CareerSuggestions
}

// Server routes API requests to a Service.
type Server struct {
	svc      Service
	validate *validator.Validate
	origins  []string
	timeout  time.Duration
}

// New creates a Server.
func New(svc Service, cfg config.ServerConfig) *Server {
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	v := validator.New()
	v.RegisterTagNameFunc(jsonName)
	return &Server{
		svc:      svc,
		validate: v,
		origins:  origins,
		timeout:  time.Duration(cfg.RequestTimeoutSecs) * time.Second,
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)

	r.Group(func(r chi.Router) {
		if s.timeout > 0 {
			r.Use(middleware.Timeout(s.timeout))
		}
		r.Route("/api", func(r chi.Router) {
			r.Post("/employee/predict", s.employeePredict)
			r.Post("/employee/suggestions", s.employeeSuggestions)
			r.Post("/investor/predict", s.investorPredict)
			r.Post("/student/predict", s.studentPredict)
			r.Post("/suggestions", s.templateSuggestions)
		})
	})
	return r
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
