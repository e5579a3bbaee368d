package handlers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/adforge/briefapi/internal/config"
	"github.com/adforge/briefapi/internal/domain/jobModel"
	"github.com/adforge/briefapi/internal/job"
	"github.com/adforge/briefapi/internal/metrics"
	"github.com/adforge/briefapi/internal/render"
	"github.com/adforge/briefapi/internal/workflow"
	"github.com/adforge/briefapi/pkg/logger_i"
)

var (
	handlerInstance *JobHandler //private singleton
	workflowManager *workflow.Manager
	renderClient    *render.Client
	once            sync.Once
	logJH           *logger_i.Logger
)

type JobHandler struct {
	service *job.Service
}

func InitHandlers(jobService *job.Service, manager *workflow.Manager, render *render.Client) {
	once.Do(func() {
		handlerInstance = &JobHandler{service: jobService}
		workflowManager = manager
		renderClient = render

		logJH = logger_i.NewLogger("JobHandler")
		logRH = logger_i.NewLogger("RequestHandler")
		logWH = logger_i.NewLogger("WorkflowHandler")
		logJH.Info("Starting job handler")
	})
}

func CreateNewJob(newJob newJobData) {
	logJH.With("traceId", newJob.traceId, "job id", newJob.id)
	logJH.Info("To create new job", "type", newJob.jobType)
	handlerInstance.pushToJobChannel(newJob)
}

func GetJobStatus(id string, traceId string) (result jobModel.Job, isFound bool) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if handlerInstance != nil {
		return handlerInstance.service.JobStore.GetJob(ctxC, id)
	}
	return result, false
}

// private methods
func (h *JobHandler) pushToJobChannel(newJob newJobData) {

	_job := jobModel.Job{}
	_job.Id = newJob.id
	_job.SessionId = newJob.sessionId
	_job.CreatedTime = time.Now()
	_job.TraceId = newJob.traceId
	_job.Status = jobModel.JobStatusQueued
	_job.JobType = newJob.jobType

	switch newJob.jobType {
	case jobModel.JobTypeExtract:
		_job.CurrentStep = jobModel.ExtractInit
		_job.JobPayload.DocumentName = newJob.documentName
		_job.JobPayload.DocumentPath = newJob.documentPath
		_job.JobPayload.MediaType = newJob.mediaType
		_job.JobPayload.Epoch = newJob.epoch
	case jobModel.JobTypeMotivations:
		_job.CurrentStep = jobModel.MotivationCall
	case jobModel.JobTypeCopy:
		_job.CurrentStep = jobModel.CopyCall
		_job.JobPayload.SelectedMotivationIds = newJob.selectedMotivationIds
	}

	//metrics
	metrics.IncrementJobsInQueue()

	h.service.JobChannel <- _job //this is a blocking send to prevent the system from being overwhelmed
	logJH.Info("Created new job")

	//we will start a new worker every 10 requests - can also be configured
	// or
	//for performance - a new worker is added for a document extraction job
	//extraction chunks the document and fans calls out to the model - it might take time
	//worker will be removed if it has idle time - so it should be ok
	//this also allows us to only keep 1 worker running at most times therefore cutting resource spend

	accurateCount := atomic.AddInt64(&h.service.RequestCount, 1) //after sending a request increment counter
	if accurateCount%config.RequestsPerNewWorkerCount == 0 || _job.JobType == jobModel.JobTypeExtract {
		metrics.StartDispatcherSignalCount() //metrics
		logJH.Debug("Worker count ", accurateCount)
		h.service.DispatcherChannel <- true
	}
}
