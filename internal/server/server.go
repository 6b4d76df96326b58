package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/easyjob/apiserver/config"
	"github.com/easyjob/apiserver/internal/db"
	"github.com/easyjob/apiserver/internal/handlers"
	"github.com/easyjob/apiserver/internal/mq"
	"github.com/easyjob/apiserver/internal/services"
	"github.com/easyjob/apiserver/internal/storage"
	"github.com/easyjob/apiserver/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	db         *sql.DB
	files      *storage.Storage
	broker     *mq.MQ
}

// New connects the database, object storage and broker selected by cfg
// and mounts every route.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	if strings.TrimSpace(cfg.JWT.Secret) == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	files, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("storage: %w", err)
	}

	broker, err := mq.New(ctx, cfg.MQ)
	if err != nil {
		_ = dbConn.Close()
		if files != nil {
			_ = files.Close()
		}
		return nil, fmt.Errorf("mq: %w", err)
	}

	logger := slog.Default()
	svc := NewServices(dbConn, files, broker, cfg, logger)
	tokens := handlers.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	media := handlers.NewMedia(cfg.Storage.PublicBaseURL)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
		middleware.StripSlashes,
		cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/api/v1", func(r chi.Router) {
		handlers.APIRouter(r, svc, tokens, media)
	})
	router.Route("/media", func(r chi.Router) {
		var objects handlers.ObjectReader
		if files != nil {
			objects = files
		}
		handlers.MediaRouter(r, objects)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server configured",
		"port", port,
		"storage", backendName(cfg.Storage.Backend),
		"mq", backendName(cfg.MQ.Backend),
		"vacancy_writes", cfg.VacancyWritePolicy,
	)

	return &Server{
		httpServer: httpServer,
		db:         dbConn,
		files:      files,
		broker:     broker,
	}, nil
}

// NewServices builds the use-case layer over Postgres. files and broker
// may be nil, which disables uploads and event publishing respectively.
func NewServices(dbConn *sql.DB, files *storage.Storage, broker *mq.MQ, cfg config.Config, logger *slog.Logger) handlers.Services {
	var fileStore services.FileStore
	if files != nil {
		fileStore = files
	}
	var publisher services.Publisher
	if broker != nil {
		publisher = broker
	}
	uploads := services.NewUploader(fileStore, logger)
	events := services.NewEvents(publisher, cfg.MQ.Channel, logger)

	users := store.NewUserRepository(dbConn)
	companies := store.NewCompanyRepository(dbConn)
	categories := store.NewCategoryRepository(dbConn)
	skills := store.NewSkillRepository(dbConn)
	vacancies := store.NewVacancyRepository(dbConn)
	resumes := store.NewResumeRepository(dbConn)
	applications := store.NewApplicationRepository(dbConn)
	contacts := store.NewContactRepository(dbConn)

	return handlers.Services{
		Users:      services.NewUserService(users, uploads),
		Companies:  services.NewCompanyService(companies, uploads),
		Categories: services.NewCategoryService(categories),
		Skills:     services.NewSkillService(skills),
		Vacancies: services.NewVacancyService(services.VacancyRepos{
			Vacancies:    vacancies,
			Companies:    companies,
			Categories:   categories,
			Skills:       skills,
			Resumes:      resumes,
			Applications: applications,
		}, events, cfg.VacancyWritePolicy == config.VacancyWritesOwner),
		Resumes:      services.NewResumeService(resumes, skills, uploads),
		Applications: services.NewApplicationService(applications, vacancies, resumes, events),
		Contacts:     services.NewContactService(contacts),
	}
}

func backendName(backend string) string {
	if backend == "" {
		return "disabled"
	}
	return backend
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	slog.Info("listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests and releases the database, storage
// and broker connections.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if s.broker != nil {
		_ = s.broker.Close()
	}
	if s.files != nil {
		_ = s.files.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return err
}
