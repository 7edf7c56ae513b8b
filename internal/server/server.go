package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"

	"github.com/agropro-ai/agropro/internal/adapter/utils"
	"github.com/agropro-ai/agropro/internal/config"
	"github.com/agropro-ai/agropro/internal/housekeeping"
	"github.com/agropro-ai/agropro/internal/middleware"
	"github.com/agropro-ai/agropro/pkg/logging"
)

var (
	server  *http.Server
	_logger *logging.Logger
)

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	WorkerStop       chan bool
	Group            *sync.WaitGroup
	Sweeper          *housekeeping.Sweeper
	CloseServices    context.CancelFunc
	ServerConfig     config.ServerConfig
}

func CreateServer(cfg config.ServerConfig, listenAddr string) {
	_logger = logging.NewLogger("Server")

	r := utils.GetRouter()

	r.Router.Get("/healthz", middleware.HealthzHandler)
	r.Router.Post("/chat", middleware.ChatHandler)
	r.Router.Post("/documents", middleware.PostDocumentsHandler)
	r.Router.Get("/jobs/{jobId}", middleware.GetJobStatusHandler)
	r.Router.Get("/sessions/{sessionId}", middleware.GetSessionHandler)
	r.Router.Post("/sessions/{sessionId}/save", middleware.SaveSessionHandler)
	r.Router.Post("/sessions/{sessionId}/restore", middleware.RestoreSessionHandler)
	r.Router.Delete("/sessions/{sessionId}", middleware.DeleteSessionHandler)

	server = &http.Server{
		Addr:         listenAddr,
		Handler:      r.Router,
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
		IdleTimeout:  cfg.IdleTimeout(),
	}

	_logger.Info("Server is listening", "address", listenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_logger.Error("Server crashed", "error", err.Error(), "addr", listenAddr)
	}
}

func ShutDownHandler(shutdownParams ShutdownParams) {
	state := <-shutdownParams.GracefulShutdown
	_logger.Info("Server is shutting down", "signal", state.String())

	ctx, cancel := context.WithTimeout(context.Background(), shutdownParams.ServerConfig.ShutdownTimeout())
	defer cancel()

	done := make(chan struct{})

	go func() {
		server.SetKeepAlivesEnabled(false)

		if err := server.Shutdown(ctx); err != nil {
			_logger.Error("Could not shutdown gracefully", "error", err)
		}

		close(shutdownParams.WorkerStop)
		shutdownParams.Group.Wait()
		if shutdownParams.Sweeper != nil {
			shutdownParams.Sweeper.Stop()
		}
		shutdownParams.CloseServices()
		close(shutdownParams.StopExecution)
		close(done)
	}()

	select {
	case <-done:
		_logger.Info("Graceful shutdown complete")
	case <-ctx.Done():
		_logger.Info("Force shut down")
		os.Exit(1)
	}
}
