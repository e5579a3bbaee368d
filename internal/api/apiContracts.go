package api

import (
	"time"

	"github.com/adforge/briefapi/internal/domain/briefModel"
)

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	SessionId string            `json:"session_id" example:"session_550"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type Result struct {
	Status       string                   `json:"status"`
	Step         string                   `json:"step,omitempty"`
	Brief        *briefModel.Brief        `json:"brief,omitempty"`
	Motivations  []briefModel.Motivation  `json:"motivations,omitempty"`
	CopyVariants []briefModel.CopyVariant `json:"copy_variants,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	SessionId string `json:"session_id"`
	StatusURL string `json:"status_url"`
}

type WorkflowResponse struct {
	SessionId        string                   `json:"session_id"`
	CurrentStep      string                   `json:"current_step"`
	BriefConfirmed   bool                     `json:"brief_confirmed"`
	Brief            *briefModel.Brief        `json:"brief,omitempty"`
	Motivations      []briefModel.Motivation  `json:"motivations,omitempty"`
	CopyVariants     []briefModel.CopyVariant `json:"copy_variants,omitempty"`
	SelectedCopyIds  []string                 `json:"selected_copy_ids,omitempty"`
	SelectedAssetIds []string                 `json:"selected_asset_ids,omitempty"`
	TemplateId       string                   `json:"template_id,omitempty"`
	MatrixBindings   map[string]string        `json:"matrix_bindings,omitempty"`
	UpdatedAt        time.Time                `json:"updated_at"`
}

// requests---------------------

type EditBriefRequest struct {
	Title            string   `json:"title"`
	Objective        string   `json:"objective"`
	TargetAudience   string   `json:"target_audience"`
	ValueProposition string   `json:"value_proposition"`
	Product          string   `json:"product"`
	Industry         string   `json:"industry"`
	KeyMessages      []string `json:"key_messages"`
	Platforms        []string `json:"platforms"`
	Constraints      string   `json:"constraints"`
	Budget           string   `json:"budget"`
	Timeline         string   `json:"timeline"`
}

type SelectionRequest struct {
	Ids []string `json:"ids" validate:"required"`
}

type TemplateRequest struct {
	TemplateId string `json:"template_id" validate:"required"`
}

type MatrixRequest struct {
	Bindings map[string]string `json:"bindings" validate:"required"`
}
