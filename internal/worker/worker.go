package worker

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/adforge/briefapi/internal/config"
	"github.com/adforge/briefapi/internal/extract"
	"github.com/adforge/briefapi/internal/generate"
	"github.com/adforge/briefapi/internal/job"
	"github.com/adforge/briefapi/internal/metrics"
	"github.com/adforge/briefapi/internal/workflow"
	"github.com/adforge/briefapi/pkg/logger_i"
)

var (
	_jobService         *job.Service
	_pipeline           *extract.Pipeline
	_workflowManager    *workflow.Manager
	_motivationGen      *generate.MotivationGenerator
	_copyGen            *generate.CopyGenerator
	stopWorkerChannel   chan bool
	workerWaitGroup     *sync.WaitGroup
	dispatcherChannel   chan bool
	currentWorkerCount  int64
	logger              *logger_i.Logger
	minWorkerCount      = config.MinWorkerCount
	idleWorkerTimeout   = config.IdleWorkerTimeout
)

type Services struct {
	JobService          *job.Service
	Pipeline            *extract.Pipeline
	WorkflowManager     *workflow.Manager
	MotivationGenerator *generate.MotivationGenerator
	CopyGenerator       *generate.CopyGenerator
}

func InitServices(services Services) {
	_jobService = services.JobService
	_pipeline = services.Pipeline
	_workflowManager = services.WorkflowManager
	_motivationGen = services.MotivationGenerator
	_copyGen = services.CopyGenerator
	dispatcherChannel = services.JobService.DispatcherChannel
}

func InitWorkerPool(stopWorkerChan chan bool, waitGroup *sync.WaitGroup) {
	stopWorkerChannel = stopWorkerChan
	workerWaitGroup = waitGroup
	logger = logger_i.NewLogger("WorkerPool")
	logger.Info("Initializing worker pool")
	go dispatcher()
}

func dispatcher() {
	createWorker()
	logger.Info("Dispatcher started")
	for range dispatcherChannel {
		if atomic.LoadInt64(&currentWorkerCount) < config.MaxWorkerCount {
			logger.Info("Creating new worker", "WorkerCount", currentWorkerCount)
			createWorker()
		}
	}
}

func createWorker() {
	workerWaitGroup.Add(1)
	go worker()
	atomic.AddInt64(&currentWorkerCount, 1)
	metrics.IncrementActiveWorkerCount()
	logger.Info("Created new worker")
}

func worker() {
	for {
		select {
		case currentJob := <-_jobService.JobChannel:
			executeJob(currentJob)
			metrics.DecrementJobsInQueue()

		case <-stopWorkerChannel:
			removeWorker("Stop worker signal received")
			return

		case <-time.After(idleWorkerTimeout):
			// Worker was idle for too long, retire unless we are at the floor
			if atomic.LoadInt64(&currentWorkerCount) > minWorkerCount {
				removeWorker("Idle worker timeout - Removed worker")
				return
			}
		}
	}
}
