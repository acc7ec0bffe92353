package main

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Pacotes de infraestrutura e utilitários
	"pontoestagio/config"
	"pontoestagio/internal/pkg/cache"
	"pontoestagio/internal/pkg/codigo"
	"pontoestagio/internal/pkg/database"
	"pontoestagio/internal/pkg/logger"

	// Camadas para Injeção de Dependências
	"pontoestagio/internal/api/estagiario"
	"pontoestagio/internal/api/frequencia"
	"pontoestagio/internal/api/relatorio"
	"pontoestagio/internal/api/router"
	"pontoestagio/internal/repository/estagiariorepo"
	"pontoestagio/internal/repository/frequenciarepo"
	"pontoestagio/internal/service/estagioservice"
	"pontoestagio/internal/service/frequenciaservice"
	"pontoestagio/internal/service/relatorioservice"
)

func main() {
	// 1. Configuração e Inicialização
	log.Println("⚡ Inicializando serviço de ponto de estagiários...")
	// O godotenv.Load() procura por um arquivo chamado .env na raiz.
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Configurações carregadas.", nil)

	// 2. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados (PostgreSQL)
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	log.Info("Conexão PostgreSQL estabelecida.", nil)

	// B. Cache (Redis)
	cacheClient := cache.NewRedisClient(cfg.RedisAddr)
	log.Info("Conexão Redis estabelecida.", nil)

	// 3. INJEÇÃO DE DEPENDÊNCIAS
	// Ordem: Repository -> Service -> Handler

	estagiarioRepo := estagiariorepo.NewEstagiarioRepository(db, cacheClient, cfg.DBTimeout, cfg.CacheTimeout, log)
	frequenciaRepo := frequenciarepo.NewFrequenciaRepository(db, cfg.DBTimeout, log)
	log.Debug("Repositórios inicializados.", nil)

	gerador := codigo.NewGerador(rand.New(rand.NewSource(time.Now().UnixNano())))

	estagioSvc := estagioservice.NewService(estagiarioRepo, gerador, log)
	frequenciaSvc := frequenciaservice.NewService(frequenciaRepo, estagioSvc, log)
	relatorioSvc := relatorioservice.NewService(frequenciaRepo, estagiarioRepo, log)
	log.Debug("Serviços inicializados.", nil)

	estagiarioHandler := estagiario.NewHandler(estagioSvc, log)
	frequenciaHandler := frequencia.NewHandler(frequenciaSvc, log)
	relatorioHandler := relatorio.NewHandler(relatorioSvc, log)
	log.Debug("Handlers inicializados.", nil)

	// 4. Configuração e Início do Roteador/Servidor

	r := router.NewRouter(
		estagiarioHandler,
		frequenciaHandler,
		relatorioHandler,
		cacheClient,
		cfg.CORSOrigin,
		cfg.RateLimitMaxRequests,
		cfg.RateLimitPeriod,
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		log.Info("Servidor ouvindo na porta", map[string]interface{}{"port": cfg.Port})
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
