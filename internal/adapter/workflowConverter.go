package adapter

import (
	"fmt"
	"time"

	"github.com/adforge/briefapi/internal/api"
	"github.com/adforge/briefapi/internal/domain/jobModel"
	"github.com/adforge/briefapi/internal/domain/workflowModel"
)

func ToInitJobResponse(id string, sessionId string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		SessionId: sessionId,
		StatusURL: fmt.Sprintf("status/%s", id), //pass "status/job.Id"
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		Status:       string(job.Status),
		Step:         string(job.CurrentStep),
		Brief:        job.JobPayload.Brief,
		Motivations:  job.JobPayload.Motivations,
		CopyVariants: job.JobPayload.CopyVariants,
	}

	return api.JobResponse{
		Id:        job.Id,
		SessionId: job.SessionId,
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result:    result,
	}
}

func ToWorkflowResponse(state workflowModel.WorkflowState) api.WorkflowResponse {
	return api.WorkflowResponse{
		SessionId:        state.SessionId,
		CurrentStep:      string(state.CurrentStep),
		BriefConfirmed:   state.BriefConfirmed,
		Brief:            state.Brief,
		Motivations:      state.Motivations,
		CopyVariants:     state.CopyVariants,
		SelectedCopyIds:  state.SelectedCopyIds,
		SelectedAssetIds: state.SelectedAssetIds,
		TemplateId:       state.TemplateId,
		MatrixBindings:   state.MatrixBindings,
		UpdatedAt:        state.UpdatedAt,
	}
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		SessionId: "",
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}
