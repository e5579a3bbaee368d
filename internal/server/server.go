package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"

	"github.com/adforge/briefapi/internal/adapter/utils"
	"github.com/adforge/briefapi/internal/config"
	"github.com/adforge/briefapi/internal/middleware"
	"github.com/adforge/briefapi/pkg/logger_i"
)

var (
	server  *http.Server
	_logger *logger_i.Logger
)

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	WorkerStop       chan bool
	Group            *sync.WaitGroup
	CloseServices    context.CancelFunc
}

func CreateServer(listenAddr string) {
	_logger = logger_i.NewLogger("Server")

	r := utils.GetRouter()

	r.Router.Get("/", middleware.GetHandler)
	r.Router.Post("/briefs", middleware.UploadBriefHandler)
	r.Router.Get("/status/{id}", middleware.GetStatusHandler)

	r.Router.Get("/workflow/{sessionId}", middleware.GetWorkflowHandler)
	r.Router.Put("/workflow/{sessionId}/brief", middleware.EditBriefHandler)
	r.Router.Post("/workflow/{sessionId}/confirm", middleware.ConfirmBriefHandler)
	r.Router.Post("/workflow/{sessionId}/selections/motivations", middleware.SelectMotivationsHandler)
	r.Router.Post("/workflow/{sessionId}/selections/copy", middleware.SelectCopyHandler)
	r.Router.Post("/workflow/{sessionId}/selections/assets", middleware.SelectAssetsHandler)
	r.Router.Post("/workflow/{sessionId}/template", middleware.SelectTemplateHandler)
	r.Router.Post("/workflow/{sessionId}/matrix", middleware.BindMatrixHandler)
	r.Router.Post("/workflow/{sessionId}/execute", middleware.ExecuteHandler)
	r.Router.Post("/workflow/{sessionId}/back", middleware.BackHandler)
	r.Router.Post("/workflow/{sessionId}/cancel", middleware.CancelHandler)

	server = &http.Server{
		Addr:         listenAddr,
		Handler:      r.Router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	_logger.Info("Server is listening at", "address", listenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_logger.Error("Server crashed", "error :", err.Error(), "addr", listenAddr)
	}
}

func ShutDownHandler(shutdownParams ShutdownParams) {
	state := <-shutdownParams.GracefulShutdown
	println("\nServer is shutting down", state)

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})

	go func() {
		server.SetKeepAlivesEnabled(false)

		if err := server.Shutdown(ctx); err != nil {
			_logger.Error("Could not shutdown gracefully: %s", err)
		}

		//close workers
		close(shutdownParams.WorkerStop)
		shutdownParams.Group.Wait()
		shutdownParams.CloseServices()
		close(shutdownParams.StopExecution)
		close(done)
	}()

	select {
	case <-done:
		_logger.Info("Gracefully is shutting down")
	case <-ctx.Done():
		_logger.Info("Force Shut down")
		os.Exit(1)
	}
}
