package jobModel

import (
	"context"
	"time"

	"github.com/adforge/briefapi/internal/domain/briefModel"
)

type JobStatus string
type InternalStatus string

type JobType string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	ExtractInit       InternalStatus = "ExtractInit"
	FormatDetection   InternalStatus = "FormatDetection"
	TextExtraction    InternalStatus = "TextExtraction"
	Chunking          InternalStatus = "Chunking"
	StructuredExtract InternalStatus = "StructuredExtract"
	ChunkMerge        InternalStatus = "ChunkMerge"

	MotivationCall InternalStatus = "MotivationGeneration"
	CopyCall       InternalStatus = "CopyGeneration"

	Error    InternalStatus = "Error"
	Complete InternalStatus = "Complete"

	JobTypeExtract     JobType = "Extract"
	JobTypeMotivations JobType = "Motivations"
	JobTypeCopy        JobType = "Copy"
)

type Job struct {
	Id          string         `json:"id"`
	SessionId   string         `json:"session_id"`
	TraceId     string         `json:"trace_id"`
	JobType     JobType        `json:"job_type"`
	JobPayload  JobPayload     `json:"job_payload"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobPayload struct {
	//extract jobs
	DocumentName string `json:"document_name,omitempty"`
	DocumentPath string `json:"document_path,omitempty"`
	MediaType    string `json:"media_type,omitempty"`
	//Epoch ties the job to the extraction generation that started it;
	//stale results are discarded instead of merged
	Epoch int64 `json:"epoch,omitempty"`

	//copy jobs
	SelectedMotivationIds []string `json:"selected_motivation_ids,omitempty"`

	//results
	Brief        *briefModel.Brief         `json:"brief,omitempty"`
	Motivations  []briefModel.Motivation   `json:"motivations,omitempty"`
	CopyVariants []briefModel.CopyVariant  `json:"copy_variants,omitempty"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}
