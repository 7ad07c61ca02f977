package router

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"gojobs/internal/api/auth"
	"gojobs/internal/api/contractor"
	"gojobs/internal/api/developer"
	"gojobs/internal/api/job"
	"gojobs/internal/domain"
	"gojobs/internal/pkg/cache"
	"gojobs/internal/pkg/middleware"
)

// Config agrupa os handlers e serviços que o roteador recebe por injeção
// de dependências.
type Config struct {
	AuthHandler       *auth.Handler
	ContractorHandler *contractor.Handler
	DeveloperHandler  *developer.Handler
	JobHandler        *job.Handler
	TokenService      middleware.TokenService
	CacheClient       cache.Client
	RateLimitMax      int
	RateLimitPeriod   time.Duration
}

// NewRouter configura e retorna o roteador HTTP principal.
func NewRouter(cfg Config) http.Handler {
	r := mux.NewRouter()

	authenticate := middleware.NewAuthMiddleware(cfg.TokenService)
	contractorOnly := middleware.PermissionMiddleware(domain.RoleContractor)
	developerOnly := middleware.PermissionMiddleware(domain.RoleDeveloper)
	anyRole := middleware.PermissionMiddleware(domain.RoleContractor, domain.RoleDeveloper)

	// --- 1. Health Check e documentação ---
	r.HandleFunc("/ping", PingHandler).Methods(http.MethodGet)
	r.PathPrefix("/swagger/").Handler(httpSwagger.Handler())

	// --- 2. Autenticação ---
	r.HandleFunc("/login", cfg.AuthHandler.LoginHandler).Methods(http.MethodPost)

	// --- 3. Contratantes ---
	r.HandleFunc("/contractors/signup", cfg.ContractorHandler.RegisterHandler).Methods(http.MethodPost)
	r.HandleFunc("/contractors", cfg.ContractorHandler.ListHandler).Methods(http.MethodGet)
	r.HandleFunc("/contractors/profile", authenticate(contractorOnly(cfg.ContractorHandler.GetProfileHandler))).Methods(http.MethodGet)
	r.HandleFunc("/contractors/update", authenticate(contractorOnly(cfg.ContractorHandler.UpdateProfileHandler))).Methods(http.MethodPatch)
	r.HandleFunc("/contractors/delete", authenticate(contractorOnly(cfg.ContractorHandler.DeleteProfileHandler))).Methods(http.MethodDelete)
	r.HandleFunc("/contractors/jobs", authenticate(contractorOnly(cfg.JobHandler.ListByContractorHandler))).Methods(http.MethodGet)

	// --- 4. Desenvolvedores ---
	r.HandleFunc("/developers/signup", cfg.DeveloperHandler.RegisterHandler).Methods(http.MethodPost)
	r.HandleFunc("/developers", cfg.DeveloperHandler.ListHandler).Methods(http.MethodGet)
	r.HandleFunc("/developers/profile", authenticate(developerOnly(cfg.DeveloperHandler.GetProfileHandler))).Methods(http.MethodGet)
	r.HandleFunc("/developers/update", authenticate(developerOnly(cfg.DeveloperHandler.UpdateProfileHandler))).Methods(http.MethodPatch)
	r.HandleFunc("/developers/delete", authenticate(developerOnly(cfg.DeveloperHandler.DeleteProfileHandler))).Methods(http.MethodDelete)
	r.HandleFunc("/developers/jobs", authenticate(developerOnly(cfg.JobHandler.ListByDeveloperHandler))).Methods(http.MethodGet)

	// --- 5. Jobs ---
	// /jobs/tech é registrado antes de /jobs/{id} para que a palavra "tech"
	// nunca seja capturada como ID.
	r.HandleFunc("/jobs/tech", cfg.JobHandler.SearchByTechHandler).Methods(http.MethodGet)
	r.HandleFunc("/jobs", authenticate(contractorOnly(cfg.JobHandler.CreateHandler))).Methods(http.MethodPost)
	r.HandleFunc("/jobs", cfg.JobHandler.ListOpenHandler).Methods(http.MethodGet)
	r.HandleFunc("/jobs/{id}", cfg.JobHandler.GetOpenHandler).Methods(http.MethodGet)
	r.HandleFunc("/jobs/{id}/info", authenticate(anyRole(cfg.JobHandler.GetInfoHandler))).Methods(http.MethodGet)
	r.HandleFunc("/jobs/{id}", authenticate(contractorOnly(cfg.JobHandler.UpdateHandler))).Methods(http.MethodPatch)
	r.HandleFunc("/jobs/{id}", authenticate(contractorOnly(cfg.JobHandler.DeleteHandler))).Methods(http.MethodDelete)

	// --- 6. Middlewares globais ---
	var handler http.Handler = r
	if cfg.CacheClient != nil && cfg.RateLimitMax > 0 {
		handler = middleware.RateLimiter(cfg.CacheClient, cfg.RateLimitMax, cfg.RateLimitPeriod)(handler)
	}

	return handler
}

// PingHandler é a função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
