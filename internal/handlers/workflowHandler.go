package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/adforge/briefapi/internal/adapter"
	"github.com/adforge/briefapi/internal/adapter/utils"
	"github.com/adforge/briefapi/internal/api"
	"github.com/adforge/briefapi/internal/config"
	"github.com/adforge/briefapi/internal/domain/briefModel"
	"github.com/adforge/briefapi/internal/domain/jobModel"
	"github.com/adforge/briefapi/internal/domain/workflowModel"
	"github.com/adforge/briefapi/internal/render"
	"github.com/adforge/briefapi/internal/workflow"
	"github.com/adforge/briefapi/pkg/logger_i"
)

var logWH *logger_i.Logger

// GetWorkflowHandler godoc
// @Summary      Get workflow state
// @Description  Returns the session's current step and everything gathered so far.
// @Tags         Workflow
// @Produce      json
// @Param        sessionId  path  string  true  "Workflow session ID"
// @Success      200  {object}  api.WorkflowResponse
// @Failure      404  {object}  api.JobResponse  "Session not found"
// @Router       /workflow/{sessionId} [get]
func GetWorkflowHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		sessionId := utils.GetChiURLParam(r, "sessionId")
		state, found := workflowManager.Get(r.Context(), sessionId)
		if !found {
			WriteErrorResponse(w, http.StatusNotFound, sessionId, "Session not found")
			return
		}
		writeJsonResponse(w, http.StatusOK, adapter.ToWorkflowResponse(state))
	}
}

// EditBriefHandler godoc
// @Summary      Edit the extracted brief
// @Description  Replaces the brief fields while the session is in review.
// @Tags         Workflow
// @Accept       json
// @Produce      json
// @Param        sessionId  path  string                true  "Workflow session ID"
// @Param        request    body  api.EditBriefRequest  true  "Edited brief fields"
// @Success      200  {object}  api.WorkflowResponse
// @Failure      409  {object}  api.JobResponse  "Session is not reviewing a brief"
// @Router       /workflow/{sessionId}/brief [put]
func EditBriefHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		var requestData api.EditBriefRequest
		if !decodeBody(w, r, &requestData) {
			return
		}
		edited := briefModel.Brief{
			Title:            requestData.Title,
			Objective:        requestData.Objective,
			TargetAudience:   requestData.TargetAudience,
			ValueProposition: requestData.ValueProposition,
			Product:          requestData.Product,
			Industry:         requestData.Industry,
			KeyMessages:      requestData.KeyMessages,
			Platforms:        requestData.Platforms,
			Constraints:      requestData.Constraints,
			Budget:           requestData.Budget,
			Timeline:         requestData.Timeline,
		}
		mutateAndRespond(w, r, func(s workflowModel.WorkflowState) (workflowModel.WorkflowState, error) {
			return workflow.EditBrief(s, edited)
		})
	}
}

// ConfirmBriefHandler godoc
// @Summary      Confirm the brief
// @Description  Locks the reviewed brief and queues motivation generation.
// @Tags         Workflow
// @Produce      json
// @Param        sessionId  path  string  true  "Workflow session ID"
// @Success      202  {object}  api.InitJobResponse  "Motivation generation queued"
// @Failure      409  {object}  api.JobResponse  "Brief is missing its objective or the session is elsewhere"
// @Router       /workflow/{sessionId}/confirm [post]
func ConfirmBriefHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		sessionId := utils.GetChiURLParam(r, "sessionId")
		_, err := workflowManager.Mutate(r.Context(), sessionId, workflow.ConfirmBrief)
		if err != nil {
			writeWorkflowError(w, sessionId, err)
			return
		}
		newJob := newJobData{
			id:        utils.GetNewUUID(),
			sessionId: sessionId,
			traceId:   r.Context().Value(config.TRACE_ID_KEY).(string),
			jobType:   jobModel.JobTypeMotivations,
		}
		CreateNewJob(newJob)
		writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob.id, sessionId))
	}
}

// SelectMotivationsHandler godoc
// @Summary      Select motivations
// @Description  Marks the chosen motivations and queues copy generation for them.
// @Tags         Workflow
// @Accept       json
// @Produce      json
// @Param        sessionId  path  string                true  "Workflow session ID"
// @Param        request    body  api.SelectionRequest  true  "Motivation IDs to keep"
// @Success      202  {object}  api.InitJobResponse  "Copy generation queued"
// @Failure      409  {object}  api.JobResponse  "Unknown motivation ID or wrong step"
// @Router       /workflow/{sessionId}/selections/motivations [post]
func SelectMotivationsHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		var requestData api.SelectionRequest
		if !decodeBody(w, r, &requestData) {
			return
		}
		sessionId := utils.GetChiURLParam(r, "sessionId")
		_, err := workflowManager.Mutate(r.Context(), sessionId, func(s workflowModel.WorkflowState) (workflowModel.WorkflowState, error) {
			return workflow.SelectMotivations(s, requestData.Ids)
		})
		if err != nil {
			writeWorkflowError(w, sessionId, err)
			return
		}
		newJob := newJobData{
			id:                    utils.GetNewUUID(),
			sessionId:             sessionId,
			traceId:               r.Context().Value(config.TRACE_ID_KEY).(string),
			jobType:               jobModel.JobTypeCopy,
			selectedMotivationIds: requestData.Ids,
		}
		CreateNewJob(newJob)
		writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob.id, sessionId))
	}
}

// SelectCopyHandler godoc
// @Summary      Select copy variants
// @Tags         Workflow
// @Accept       json
// @Produce      json
// @Param        sessionId  path  string                true  "Workflow session ID"
// @Param        request    body  api.SelectionRequest  true  "Copy variant IDs to keep"
// @Success      200  {object}  api.WorkflowResponse
// @Failure      409  {object}  api.JobResponse  "Unknown variant ID or wrong step"
// @Router       /workflow/{sessionId}/selections/copy [post]
func SelectCopyHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		var requestData api.SelectionRequest
		if !decodeBody(w, r, &requestData) {
			return
		}
		mutateAndRespond(w, r, func(s workflowModel.WorkflowState) (workflowModel.WorkflowState, error) {
			return workflow.SelectCopy(s, requestData.Ids)
		})
	}
}

// SelectAssetsHandler godoc
// @Summary      Select assets
// @Tags         Workflow
// @Accept       json
// @Produce      json
// @Param        sessionId  path  string                true  "Workflow session ID"
// @Param        request    body  api.SelectionRequest  true  "Asset IDs to attach"
// @Success      200  {object}  api.WorkflowResponse
// @Failure      409  {object}  api.JobResponse  "Wrong step"
// @Router       /workflow/{sessionId}/selections/assets [post]
func SelectAssetsHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		var requestData api.SelectionRequest
		if !decodeBody(w, r, &requestData) {
			return
		}
		mutateAndRespond(w, r, func(s workflowModel.WorkflowState) (workflowModel.WorkflowState, error) {
			return workflow.SelectAssets(s, requestData.Ids)
		})
	}
}

// SelectTemplateHandler godoc
// @Summary      Select a template
// @Tags         Workflow
// @Accept       json
// @Produce      json
// @Param        sessionId  path  string               true  "Workflow session ID"
// @Param        request    body  api.TemplateRequest  true  "Template to populate"
// @Success      200  {object}  api.WorkflowResponse
// @Failure      409  {object}  api.JobResponse  "Wrong step or missing template ID"
// @Router       /workflow/{sessionId}/template [post]
func SelectTemplateHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		var requestData api.TemplateRequest
		if !decodeBody(w, r, &requestData) {
			return
		}
		mutateAndRespond(w, r, func(s workflowModel.WorkflowState) (workflowModel.WorkflowState, error) {
			return workflow.SelectTemplate(s, requestData.TemplateId)
		})
	}
}

// BindMatrixHandler godoc
// @Summary      Bind content into the template matrix
// @Description  Adds slot bindings; the session stays in the populate step so bindings can accumulate.
// @Tags         Workflow
// @Accept       json
// @Produce      json
// @Param        sessionId  path  string             true  "Workflow session ID"
// @Param        request    body  api.MatrixRequest  true  "Slot to content bindings"
// @Success      200  {object}  api.WorkflowResponse
// @Failure      409  {object}  api.JobResponse  "Wrong step"
// @Router       /workflow/{sessionId}/matrix [post]
func BindMatrixHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		var requestData api.MatrixRequest
		if !decodeBody(w, r, &requestData) {
			return
		}
		mutateAndRespond(w, r, func(s workflowModel.WorkflowState) (workflowModel.WorkflowState, error) {
			return workflow.BindMatrix(s, requestData.Bindings)
		})
	}
}

// ExecuteHandler godoc
// @Summary      Execute the populated workflow
// @Description  Finalizes the session and hands the assembled content off to the render service.
// @Tags         Workflow
// @Produce      json
// @Param        sessionId  path  string  true  "Workflow session ID"
// @Success      200  {object}  api.WorkflowResponse
// @Failure      409  {object}  api.JobResponse  "No bindings yet or wrong step"
// @Router       /workflow/{sessionId}/execute [post]
func ExecuteHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		sessionId := utils.GetChiURLParam(r, "sessionId")
		state, err := workflowManager.Mutate(r.Context(), sessionId, workflow.Execute)
		if err != nil {
			writeWorkflowError(w, sessionId, err)
			return
		}
		if err := renderClient.Send(r.Context(), render.BuildHandoff(state)); err != nil {
			logWH.Error("Render handoff failed", "sessionId", sessionId, "err", err)
			WriteErrorResponse(w, http.StatusBadGateway, sessionId, "Render handoff failed")
			return
		}
		writeJsonResponse(w, http.StatusOK, adapter.ToWorkflowResponse(state))
	}
}

// BackHandler godoc
// @Summary      Step back
// @Description  Moves the session one step back and discards what the departing step produced.
// @Tags         Workflow
// @Produce      json
// @Param        sessionId  path  string  true  "Workflow session ID"
// @Success      200  {object}  api.WorkflowResponse
// @Failure      409  {object}  api.JobResponse  "Already at the first step"
// @Router       /workflow/{sessionId}/back [post]
func BackHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		mutateAndRespond(w, r, workflow.Back)
	}
}

// CancelHandler godoc
// @Summary      Cancel the session
// @Description  Resets the session to the upload step; any in-flight extraction result is discarded.
// @Tags         Workflow
// @Produce      json
// @Param        sessionId  path  string  true  "Workflow session ID"
// @Success      200  {object}  api.WorkflowResponse
// @Router       /workflow/{sessionId}/cancel [post]
func CancelHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		sessionId := utils.GetChiURLParam(r, "sessionId")
		state := workflowManager.Cancel(r.Context(), sessionId)
		writeJsonResponse(w, http.StatusOK, adapter.ToWorkflowResponse(state))
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logWH.Error("Couldn't close the request body reader :", err)
		}
	}(r.Body)
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		logWH.Warn("Bad workflow request: ", "error:", err)
		WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
		return false
	}
	return true
}

func mutateAndRespond(w http.ResponseWriter, r *http.Request, transition func(workflowModel.WorkflowState) (workflowModel.WorkflowState, error)) {
	sessionId := utils.GetChiURLParam(r, "sessionId")
	state, err := workflowManager.Mutate(r.Context(), sessionId, transition)
	if err != nil {
		writeWorkflowError(w, sessionId, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToWorkflowResponse(state))
}
