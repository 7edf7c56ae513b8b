// @title           AgroPro API
// @version         1.0
// @description     Agriculture chat assistant with document-grounded answers.

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/agropro-ai/agropro/internal/config"
	"github.com/agropro-ai/agropro/internal/conversation"
	"github.com/agropro-ai/agropro/internal/data/store"
	"github.com/agropro-ai/agropro/internal/domain/chatModel"
	"github.com/agropro-ai/agropro/internal/domain/jobModel"
	"github.com/agropro-ai/agropro/internal/handlers"
	"github.com/agropro-ai/agropro/internal/housekeeping"
	"github.com/agropro-ai/agropro/internal/httpclient"
	"github.com/agropro-ai/agropro/internal/job"
	"github.com/agropro-ai/agropro/internal/middleware"
	"github.com/agropro-ai/agropro/internal/rag"
	"github.com/agropro-ai/agropro/internal/rag/chunker"
	"github.com/agropro-ai/agropro/internal/rag/embedding"
	"github.com/agropro-ai/agropro/internal/rag/embedding/google"
	"github.com/agropro-ai/agropro/internal/rag/embedding/openaiembed"
	"github.com/agropro-ai/agropro/internal/rag/llm"
	"github.com/agropro-ai/agropro/internal/rag/llm/gemini"
	"github.com/agropro-ai/agropro/internal/rag/llm/openaichat"
	"github.com/agropro-ai/agropro/internal/rag/responder"
	"github.com/agropro-ai/agropro/internal/rag/vectorindex"
	"github.com/agropro-ai/agropro/internal/rag/vectorindex/memoryindex"
	"github.com/agropro-ai/agropro/internal/rag/vectorindex/qdrantindex"
	"github.com/agropro-ai/agropro/internal/server"
	"github.com/agropro-ai/agropro/internal/worker"
	"github.com/agropro-ai/agropro/pkg/logging"
	"github.com/joho/godotenv"
)

var (
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {
	_ = godotenv.Load()

	var configPath string
	flag.StringVar(&configPath, "config", "", "path to the TOML config file")
	flag.Parse()
	if configPath != "" {
		os.Setenv("CONFIG_FILE", configPath)
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Init("dev")
		logging.NewLogger("main").Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init(cfg.App.Env)
	logger := logging.NewLogger("main")
	logger.Info("Starting", "app", cfg.App.Name, "env", cfg.App.Env)

	httpclient.Init(cfg.HTTPPool.MaxIdleConns, cfg.HTTPPool.MaxIdleConnsPerHost, cfg.HTTPPool.IdleConnTimeout())

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	embedder := buildEmbedder(serviceContext, cfg, logger)
	provider := buildProvider(serviceContext, cfg, logger)
	if embedder == nil || provider == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.",
			"embedder", embedder != nil, "llmProvider", provider != nil)
		return
	}

	indexStore := buildIndexStore(cfg, embedder, logger)
	if indexStore == nil {
		return
	}

	jobStore, sessionStore := buildStores(serviceContext, cfg, logger)

	jobChannel := make(chan jobModel.Job, cfg.Worker.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	jobService := job.InitJobService(job.ServiceConfig{
		JobChannel:        jobChannel,
		DispatcherChannel: dispatcherChannel,
		JobStore:          jobStore,
	})

	sessions := conversation.NewManager(cfg.Chat.MaxTurns, indexStore)
	splitter := chunker.NewSplitter(cfg.Chunker.ChunkSize, cfg.Chunker.ChunkOverlap)
	ragService := rag.NewService(indexStore, responder.NewFetcher(provider), splitter, sessions, cfg.Chat.TopK)

	handlers.InitHandlers(handlers.Dependencies{
		JobService:   jobService,
		RagService:   ragService,
		Sessions:     sessions,
		SessionStore: sessionStore,
		Config:       cfg,
	})
	middleware.Init(cfg.App, cfg.Server)

	worker.InitServices(jobService, ragService, cfg.Worker)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	sweeper := housekeeping.NewSweeper(cfg.App.DataDir,
		cfg.Housekeeping.IndexMaxAge(), cfg.Housekeeping.SpoolMaxAge(), cfg.Housekeeping.SweepInterval())
	sweeper.Start()

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		Sweeper:          sweeper,
		CloseServices:    closeExternalServices,
		ServerConfig:     cfg.Server,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(cfg.Server, cfg.HTTPAddr())

	<-stopExecution
	logger.Info("Server stopped")
}

func buildEmbedder(ctx context.Context, cfg *config.Config, logger *logging.Logger) embedding.Embedder {
	switch cfg.Embedding.Provider {
	case "openai":
		return openaiembed.NewEmbedder(cfg.LLM.OpenAIAPIKey, cfg.LLM.OpenAIBaseURL,
			cfg.Embedding.OpenAIModel, cfg.Embedding.OutputDimensionality, httpclient.Shared())
	default:
		embedder, err := google.NewEmbedder(ctx, cfg.Embedding.GeminiModel, cfg.LLM.GeminiAPIKey, cfg.Embedding.OutputDimensionality)
		if err != nil {
			logger.Error("Failed to initialize gemini embedder", "error", err)
			return nil
		}
		return embedder
	}
}

func buildProvider(ctx context.Context, cfg *config.Config, logger *logging.Logger) llm.Provider {
	switch cfg.LLM.Provider {
	case "openai":
		return openaichat.NewClient(cfg.LLM.OpenAIAPIKey, cfg.LLM.OpenAIBaseURL, cfg.LLM.OpenAIModel, httpclient.Shared())
	default:
		provider, err := gemini.NewClient(ctx, cfg.LLM.GeminiModel, cfg.LLM.GeminiAPIKey)
		if err != nil {
			logger.Error("Failed to initialize gemini provider", "error", err)
			return nil
		}
		return provider
	}
}

func buildIndexStore(cfg *config.Config, embedder embedding.Embedder, logger *logging.Logger) vectorindex.Store {
	switch cfg.VectorIndex.Backend {
	case "qdrant":
		qdrantStore, err := qdrantindex.NewStore(qdrantindex.Config{
			Host:      cfg.Qdrant.Host,
			Port:      cfg.Qdrant.Port,
			UseTLS:    cfg.Qdrant.UseTLS,
			PoolSize:  cfg.Qdrant.PoolSize,
			Dimension: cfg.Embedding.OutputDimensionality,
			BatchSize: cfg.Ingest.BatchSize,
		}, embedder)
		if err != nil {
			logger.Error("Failed to initialize qdrant index store", "error", err)
			return nil
		}
		return qdrantStore
	default:
		return memoryindex.NewStore(embedder, cfg.App.DataDir, cfg.Ingest.BatchSize, cfg.Embedding.GeminiModel)
	}
}

func buildStores(ctx context.Context, cfg *config.Config, logger *logging.Logger) (jobModel.JobStore, chatModel.SessionStore) {
	redisJobs := store.GetRedisJobStore(ctx, cfg.Redis)
	redisSessions := store.GetRedisSessionStore(ctx, cfg.Redis)
	if redisJobs != nil && redisSessions != nil {
		return redisJobs, redisSessions
	}

	if !cfg.Redis.FallbackInMemory {
		logger.Error("Redis stores are offline and in-memory fallback is disabled")
		os.Exit(1)
	}
	logger.Warn("Redis stores are offline, using in-memory fallback")
	return store.InitInMemoryJobStore(), store.InitInMemorySessionStore()
}
