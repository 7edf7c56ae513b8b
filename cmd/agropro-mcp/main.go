// agropro-mcp exposes the chat and ingestion pipeline as MCP tools over
// stdio, so editor and agent clients can talk to the same core the HTTP
// server uses. Sessions are process-local.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/agropro-ai/agropro/internal/adapter/utils"
	"github.com/agropro-ai/agropro/internal/config"
	"github.com/agropro-ai/agropro/internal/conversation"
	"github.com/agropro-ai/agropro/internal/domain/jobModel"
	"github.com/agropro-ai/agropro/internal/httpclient"
	"github.com/agropro-ai/agropro/internal/rag"
	"github.com/agropro-ai/agropro/internal/rag/chunker"
	"github.com/agropro-ai/agropro/internal/rag/embedding"
	"github.com/agropro-ai/agropro/internal/rag/embedding/google"
	"github.com/agropro-ai/agropro/internal/rag/embedding/openaiembed"
	"github.com/agropro-ai/agropro/internal/rag/ingest"
	"github.com/agropro-ai/agropro/internal/rag/llm"
	"github.com/agropro-ai/agropro/internal/rag/llm/gemini"
	"github.com/agropro-ai/agropro/internal/rag/llm/openaichat"
	"github.com/agropro-ai/agropro/internal/rag/responder"
	"github.com/agropro-ai/agropro/internal/rag/vectorindex/memoryindex"
	"github.com/agropro-ai/agropro/pkg/logging"
	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type askArgs struct {
	SessionId string `json:"session_id,omitempty" jsonschema:"session to continue; a new one is created when empty"`
	Question  string `json:"question" jsonschema:"the question to ask"`
}

type askResult struct {
	SessionId string `json:"session_id"`
	Reply     string `json:"reply"`
	Grounded  bool   `json:"grounded"`
}

type ingestArgs struct {
	Path      string `json:"path" jsonschema:"local path of the document to ingest (pdf, docx, txt or rtf)"`
	SessionId string `json:"session_id,omitempty" jsonschema:"session to attach the document to; a new one is created when empty"`
}

type ingestResult struct {
	SessionId  string `json:"session_id"`
	ChunkCount int    `json:"chunk_count"`
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	// stdout carries the MCP stream, logs go to stderr
	logging.InitStderr(cfg.App.Env)
	logger := logging.NewLogger("mcp")

	httpclient.Init(cfg.HTTPPool.MaxIdleConns, cfg.HTTPPool.MaxIdleConnsPerHost, cfg.HTTPPool.IdleConnTimeout())

	ctx := context.Background()
	ragService, sessions, err := buildCore(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize core services", "error", err)
		os.Exit(1)
	}

	server := mcp.NewServer(&mcp.Implementation{Name: "agropro", Version: "1.0.0"}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask",
		Description: "Ask the agriculture assistant a question. Answers are grounded in previously ingested documents when available.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args askArgs) (*mcp.CallToolResult, askResult, error) {
		if args.Question == "" {
			return nil, askResult{}, fmt.Errorf("question is required")
		}

		traceCtx := context.WithValue(ctx, config.TraceIDKey, utils.GetNewUUID())
		session := sessions.GetOrCreate(traceCtx, args.SessionId)
		reply := ragService.Respond(traceCtx, session, args.Question)

		result := askResult{SessionId: session.Id, Reply: reply, Grounded: session.HasIndex()}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: reply}},
		}, result, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ingest_document",
		Description: "Ingest a local document (pdf, docx, txt or rtf) so later questions can be answered from its content.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ingestArgs) (*mcp.CallToolResult, ingestResult, error) {
		file, err := os.Open(args.Path)
		if err != nil {
			return nil, ingestResult{}, fmt.Errorf("open document: %w", err)
		}
		defer file.Close()

		spoolPath, err := ingest.Spool(cfg.App.DataDir, filepath.Base(args.Path), cfg.Ingest.MaxUploadBytes, file)
		if err != nil {
			return nil, ingestResult{}, fmt.Errorf("spool document: %w", err)
		}

		sessionId := args.SessionId
		if sessionId == "" {
			sessionId = utils.GetNewUUID()
		}

		traceCtx := context.WithValue(ctx, config.TraceIDKey, utils.GetNewUUID())
		job := ragService.IngestDocument(traceCtx, jobModel.Job{
			Id:           utils.GetNewUUID(),
			SessionId:    sessionId,
			DocumentName: filepath.Base(args.Path),
			SpoolPath:    spoolPath,
			CreatedTime:  time.Now(),
			Status:       jobModel.JobStatusRunning,
			CurrentStep:  jobModel.IngestInit,
		})
		if job.Status != jobModel.JobStatusComplete {
			return nil, ingestResult{}, fmt.Errorf("ingestion failed: %s", job.Error.Message)
		}

		result := ingestResult{SessionId: sessionId, ChunkCount: job.ChunkCount}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{
				Text: fmt.Sprintf("Ingested %s: %d chunks indexed into session %s", job.DocumentName, job.ChunkCount, sessionId),
			}},
		}, result, nil
	})

	logger.Info("MCP server ready on stdio")
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		logger.Error("MCP server stopped", "error", err)
		os.Exit(1)
	}
}

func buildCore(ctx context.Context, cfg *config.Config) (rag.Service, *conversation.Manager, error) {
	var embedder embedding.Embedder
	var provider llm.Provider
	var err error

	switch cfg.Embedding.Provider {
	case "openai":
		embedder = openaiembed.NewEmbedder(cfg.LLM.OpenAIAPIKey, cfg.LLM.OpenAIBaseURL,
			cfg.Embedding.OpenAIModel, cfg.Embedding.OutputDimensionality, httpclient.Shared())
	default:
		embedder, err = google.NewEmbedder(ctx, cfg.Embedding.GeminiModel, cfg.LLM.GeminiAPIKey, cfg.Embedding.OutputDimensionality)
		if err != nil {
			return nil, nil, fmt.Errorf("gemini embedder: %w", err)
		}
	}

	switch cfg.LLM.Provider {
	case "openai":
		provider = openaichat.NewClient(cfg.LLM.OpenAIAPIKey, cfg.LLM.OpenAIBaseURL, cfg.LLM.OpenAIModel, httpclient.Shared())
	default:
		provider, err = gemini.NewClient(ctx, cfg.LLM.GeminiModel, cfg.LLM.GeminiAPIKey)
		if err != nil {
			return nil, nil, fmt.Errorf("gemini provider: %w", err)
		}
	}

	indexStore := memoryindex.NewStore(embedder, cfg.App.DataDir, cfg.Ingest.BatchSize, cfg.Embedding.GeminiModel)
	sessions := conversation.NewManager(cfg.Chat.MaxTurns, indexStore)
	splitter := chunker.NewSplitter(cfg.Chunker.ChunkSize, cfg.Chunker.ChunkOverlap)
	service := rag.NewService(indexStore, responder.NewFetcher(provider), splitter, sessions, cfg.Chat.TopK)
	return service, sessions, nil
}
