package worker

import (
	"context"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/adforge/briefapi/internal/apperrors"
	"github.com/adforge/briefapi/internal/config"
	"github.com/adforge/briefapi/internal/domain/briefModel"
	jobmodel "github.com/adforge/briefapi/internal/domain/jobModel"
	"github.com/adforge/briefapi/internal/domain/workflowModel"
	"github.com/adforge/briefapi/internal/metrics"
	"github.com/adforge/briefapi/internal/workflow"
)

func executeJob(job jobmodel.Job) {
	start := time.Now()
	defer func() {
		metrics.CaptureJobMetrics(string(job.Status), time.Since(start))
	}()
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, 5*time.Minute)
	defer cancel()
	logger.Debug("Processing job", "jobId", job.Id, "type", job.JobType)

	saveJobState(ctx, job, jobmodel.JobStatusRunning)

	switch job.JobType {
	case jobmodel.JobTypeExtract:
		job = runExtraction(ctx, job)
	case jobmodel.JobTypeMotivations:
		job = runMotivationGeneration(ctx, job)
	case jobmodel.JobTypeCopy:
		job = runCopyGeneration(ctx, job)
	default:
		job = jobError(job, "Unknown job type", false)
	}

	job.EndTime = time.Now()
	if job.Status != jobmodel.JobStatusError {
		job.Status = jobmodel.JobStatusComplete
		job.CurrentStep = jobmodel.Complete
	}
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		logger.Error("Failed to persist finished job", "jobId", job.Id, "err", err)
	}
}

// runExtraction drives the whole document-to-brief pipeline and then hands
// the result to the workflow, which drops it if a newer upload superseded
// this job's epoch.
func runExtraction(ctx context.Context, job jobmodel.Job) jobmodel.Job {
	job.CurrentStep = jobmodel.TextExtraction

	data, err := os.ReadFile(job.JobPayload.DocumentPath)
	if removeErr := os.Remove(job.JobPayload.DocumentPath); removeErr != nil {
		logger.Error("Error removing temp file", "path", job.JobPayload.DocumentPath, "err", removeErr)
	}
	if err != nil {
		logger.Error("Failed to read uploaded document", "jobId", job.Id, "err", err)
		return jobError(job, "Could not read uploaded document", true)
	}

	doc := briefModel.UploadedDocument{
		Data:      data,
		MediaType: job.JobPayload.MediaType,
		Filename:  job.JobPayload.DocumentName,
	}

	job.CurrentStep = jobmodel.StructuredExtract
	brief, err := _pipeline.Run(ctx, doc)
	if err != nil {
		// only unsupported-format and size-limit errors escape the pipeline
		logger.Error("Extraction rejected", "jobId", job.Id, "err", err)
		return jobError(job, err.Error(), false)
	}

	job.CurrentStep = jobmodel.ChunkMerge
	applied := _workflowManager.ApplyExtractionResult(ctx, job.SessionId, job.JobPayload.Epoch, brief)
	if !applied {
		logger.Info("Extraction result superseded by a newer upload", "jobId", job.Id)
		return jobError(job, "Superseded by a newer upload", false)
	}

	job.JobPayload.Brief = &brief
	return job
}

func runMotivationGeneration(ctx context.Context, job jobmodel.Job) jobmodel.Job {
	job.CurrentStep = jobmodel.MotivationCall

	state, found := _workflowManager.Get(ctx, job.SessionId)
	if !found || state.Brief == nil {
		return jobError(job, "No confirmed brief for session", false)
	}

	motivations, err := _motivationGen.Generate(ctx, *state.Brief)
	if err != nil {
		logger.Error("Motivation generation failed", "jobId", job.Id, "err", err)
		return jobError(job, "Motivation generation failed", apperrors.IsAITimeout(err))
	}

	if _, err := _workflowManager.Mutate(ctx, job.SessionId, func(s workflowModel.WorkflowState) (workflowModel.WorkflowState, error) {
		return workflow.ApplyMotivations(s, motivations)
	}); err != nil {
		// the user navigated away while we were generating; not a job failure
		logger.Info("Discarding motivations, workflow moved on", "jobId", job.Id, "err", err)
		return jobError(job, "Workflow no longer expects motivations", false)
	}
	_workflowManager.PersistMotivations(ctx, job.SessionId, motivations)

	job.JobPayload.Motivations = motivations
	return job
}

func runCopyGeneration(ctx context.Context, job jobmodel.Job) jobmodel.Job {
	job.CurrentStep = jobmodel.CopyCall

	state, found := _workflowManager.Get(ctx, job.SessionId)
	if !found || state.Brief == nil {
		return jobError(job, "No workflow session for copy generation", false)
	}

	variants, err := _copyGen.Generate(ctx, *state.Brief, state.Motivations)
	if err != nil {
		logger.Error("Copy generation failed", "jobId", job.Id, "err", err)
		return jobError(job, "Copy generation failed", apperrors.IsAITimeout(err))
	}

	if _, err := _workflowManager.Mutate(ctx, job.SessionId, func(s workflowModel.WorkflowState) (workflowModel.WorkflowState, error) {
		return workflow.ApplyCopyVariants(s, variants)
	}); err != nil {
		logger.Info("Discarding copy variants, workflow moved on", "jobId", job.Id, "err", err)
		return jobError(job, "Workflow no longer expects copy variants", false)
	}
	_workflowManager.PersistCopyVariants(ctx, job.SessionId, variants)

	job.JobPayload.CopyVariants = variants
	return job
}

func jobError(job jobmodel.Job, message string, canRetry bool) jobmodel.Job {
	job.Error = jobmodel.JobError{
		Code:    http.StatusInternalServerError,
		Message: message,
		Retry:   canRetry,
	}
	job.Status = jobmodel.JobStatusError
	job.CurrentStep = jobmodel.Error
	return job
}

func removeWorker(reason string) {
	workerWaitGroup.Done()
	atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker", "reason", reason, "workerCount", currentWorkerCount)
	metrics.DecrementActiveWorkerCount()
}

func saveJobState(ctx context.Context, job jobmodel.Job, jobStatus jobmodel.JobStatus) {
	job.Status = jobStatus
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		logger.Error("Failed to update job status", "err", err)
	}
}
