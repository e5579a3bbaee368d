// @title           Brief Workflow API
// @version         1.0
// @description     This API extracts structured creative briefs from uploaded documents and drives the campaign workflow built on them.
// @termsOfService  http://swagger.io/terms/

// @contact.name    me lol
// @contact.url
// @contact.email

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

	"github.com/joho/godotenv"

	"github.com/adforge/briefapi/internal/config"
	"github.com/adforge/briefapi/internal/data/store"
	jobmodel "github.com/adforge/briefapi/internal/domain/jobModel"
	"github.com/adforge/briefapi/internal/domain/workflowModel"
	"github.com/adforge/briefapi/internal/extract"
	"github.com/adforge/briefapi/internal/generate"
	"github.com/adforge/briefapi/internal/handlers"
	"github.com/adforge/briefapi/internal/job"
	"github.com/adforge/briefapi/internal/llm"
	"github.com/adforge/briefapi/internal/llm/gemini"
	"github.com/adforge/briefapi/internal/llm/openaiLLM"
	"github.com/adforge/briefapi/internal/render"
	"github.com/adforge/briefapi/internal/server"
	"github.com/adforge/briefapi/internal/worker"
	"github.com/adforge/briefapi/internal/workflow"
	"github.com/adforge/briefapi/pkg/logger_i"
)

var (
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	_ = godotenv.Load()
	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init job service and job store
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
	}
	logger.Info("Starting job service")

	if jobStore := store.GetRedisJobStore(serviceContext); jobStore != nil {
		serviceConfig.JobStore = jobStore
	} else {
		logger.Error("Redis job store is offline - falling back to in-memory")
		serviceConfig.JobStore = store.InitInMemoryJobStore()
	}
	service := job.InitJobService(serviceConfig)

	var workflowStore workflowModel.WorkflowStore
	if redisWorkflowStore := store.GetRedisWorkflowStore(serviceContext); redisWorkflowStore != nil {
		workflowStore = redisWorkflowStore
	} else {
		logger.Error("Redis workflow store is offline - falling back to in-memory")
		workflowStore = store.InitInMemoryWorkflowStore()
	}
	workflowManager := workflow.NewManager(workflowStore)

	//the model is optional: with no provider configured extraction
	//degrades to the heuristic path and generation jobs fail fast
	var llmClient llm.StructuredClient
	switch config.LLMProvider {
	case "openai":
		llmClient = openaiLLM.GetOpenAIClient(config.OpenAIModelName, config.OpenAIAPIKey)
	default:
		llmClient = gemini.GetGeminiClient(serviceContext, config.GeminiModelName, config.GeminiAPIKey)
	}
	if llmClient == nil {
		logger.Warn("No LLM provider available - brief extraction will use the heuristic path only")
	}

	pipeline := extract.NewPipeline(llmClient)
	motivationGen := generate.NewMotivationGenerator(llmClient)
	copyGen := generate.NewCopyGenerator(llmClient)
	renderClient := render.NewClient(config.RenderEndpoint)

	handlers.InitHandlers(service, workflowManager, renderClient)

	//init worker pool
	worker.InitServices(worker.Services{
		JobService:          service,
		Pipeline:            pipeline,
		WorkflowManager:     workflowManager,
		MotivationGenerator: motivationGen,
		CopyGenerator:       copyGen,
	})
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}
