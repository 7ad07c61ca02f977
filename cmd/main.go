package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Pacotes de infraestrutura e utilitários
	"gojobs/config"
	"gojobs/internal/pkg/cache"
	"gojobs/internal/pkg/database"
	"gojobs/internal/pkg/logger"
	"gojobs/internal/pkg/token"

	// Camadas da aplicação para Injeção de Dependências
	"gojobs/internal/api/auth"
	"gojobs/internal/api/contractor"
	"gojobs/internal/api/developer"
	"gojobs/internal/api/job"
	"gojobs/internal/api/router"
	"gojobs/internal/repository/contractorrepo"
	"gojobs/internal/repository/developerrepo"
	"gojobs/internal/repository/jobrepo"
	"gojobs/internal/repository/techrepo"
	"gojobs/internal/service/contractorservice"
	"gojobs/internal/service/developerservice"
	"gojobs/internal/service/identityservice"
	"gojobs/internal/service/jobservice"
	"gojobs/internal/service/techservice"
)

func main() {
	// 1. Configuração e Inicialização
	stdlog.Println("⚡ Inicializando serviço GoJobs...")
	// O godotenv.Load() procura por um arquivo chamado .env na raiz.
	if err := godotenv.Load(); err != nil {
		// Se o arquivo .env não existir, as variáveis podem estar no
		// ambiente do sistema (ex: Docker).
		stdlog.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Configurações carregadas.", map[string]interface{}{"environment": cfg.Environment})

	// 2. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados (PostgreSQL)
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	log.Info("Conexão PostgreSQL estabelecida.", nil)

	// B. Cache (Redis)
	cacheClient, err := cache.NewRedisClient(cfg.RedisAddr, cfg.CacheTimeout)
	if err != nil {
		log.Fatal("Falha ao conectar ao Redis.", err)
	}
	log.Info("Conexão Redis estabelecida.", nil)

	// C. Serviço de Tokens (JWT)
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)
	log.Debug("Serviço de Tokens JWT inicializado.", nil)

	// 3. INJEÇÃO DE DEPENDÊNCIAS (Repository -> Service -> Handler)

	// A. Repositórios (Camada de Acesso a Dados)
	contractorRepo := contractorrepo.NewContractorRepository(db, cfg.DBTimeout, log)
	developerRepo := developerrepo.NewDeveloperRepository(db, cfg.DBTimeout, log)
	techRepo := techrepo.NewTechRepository(db, cacheClient, cfg.DBTimeout, log)
	jobRepo := jobrepo.NewJobRepository(db, cfg.DBTimeout, log)
	log.Debug("Repositórios inicializados.", nil)

	// B. Serviços (Camada de Lógica de Negócio)
	identitySvc := identityservice.NewService(contractorRepo, developerRepo, tokenSvc, log)
	techSvc := techservice.NewService(techRepo, log)
	contractorSvc := contractorservice.NewService(contractorRepo, identitySvc, log)
	developerSvc := developerservice.NewService(developerRepo, identitySvc, techSvc, log)
	jobSvc := jobservice.NewService(jobRepo, developerRepo, log)
	log.Debug("Serviços inicializados.", nil)

	// C. Handlers (Camada de Apresentação)
	authHandler := auth.NewHandler(identitySvc, log)
	contractorHandler := contractor.NewHandler(contractorSvc, log)
	developerHandler := developer.NewHandler(developerSvc, log)
	jobHandler := job.NewHandler(jobSvc, log)
	log.Debug("Handlers inicializados.", nil)

	// 4. Configuração e Início do Roteador/Servidor
	r := router.NewRouter(router.Config{
		AuthHandler:       authHandler,
		ContractorHandler: contractorHandler,
		DeveloperHandler:  developerHandler,
		JobHandler:        jobHandler,
		TokenService:      tokenSvc,
		CacheClient:       cacheClient,
		RateLimitMax:      cfg.RateLimitMaxRequests,
		RateLimitPeriod:   cfg.RateLimitPeriod,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		log.Info("Servidor GoJobs ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Desligamento do servidor forçado.", err)
	}

	log.Info("Servidor encerrado com sucesso.", nil)
}
