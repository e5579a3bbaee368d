package workflow

import (
	"time"

	"github.com/adforge/briefapi/internal/apperrors"
	"github.com/adforge/briefapi/internal/domain/briefModel"
	"github.com/adforge/briefapi/internal/domain/workflowModel"
	"github.com/adforge/briefapi/internal/metrics"
)

// Transition functions are pure: each takes a WorkflowState value and
// returns a new one or a workflow_state error, leaving the input untouched.
// The session manager owns the authoritative copy and serializes access;
// nothing here mutates shared state.

func touch(state workflowModel.WorkflowState, step workflowModel.Step) workflowModel.WorkflowState {
	state.CurrentStep = step
	state.UpdatedAt = time.Now()
	metrics.CaptureWorkflowTransition(string(step))
	return state
}

func requireStep(state workflowModel.WorkflowState, step workflowModel.Step, action string) error {
	if state.CurrentStep != step {
		return apperrors.WorkflowState(action + " is only valid at " + string(step) + ", current step is " + string(state.CurrentStep))
	}
	return nil
}

// ApplyExtractedBrief fires automatically once extraction (primary or
// fallback) produced a brief, regardless of quality. A new brief
// invalidates everything generated from the previous one.
func ApplyExtractedBrief(state workflowModel.WorkflowState, brief briefModel.Brief) workflowModel.WorkflowState {
	state.Brief = &brief
	state.BriefConfirmed = false
	state.Motivations = nil
	state.CopyVariants = nil
	state.SelectedCopyIds = nil
	state.SelectedAssetIds = nil
	state.TemplateId = ""
	state.MatrixBindings = nil
	return touch(state, workflowModel.StepReviewBrief)
}

// EditBrief applies an explicit user edit during review.
func EditBrief(state workflowModel.WorkflowState, brief briefModel.Brief) (workflowModel.WorkflowState, error) {
	if err := requireStep(state, workflowModel.StepReviewBrief, "editing the brief"); err != nil {
		return state, err
	}
	if state.Brief != nil {
		brief.FromFallback = state.Brief.FromFallback
	}
	state.Brief = &brief
	state.UpdatedAt = time.Now()
	return state, nil
}

// ConfirmBrief is the review gate: it refuses to advance unless the brief
// carries a title, objective and target audience.
func ConfirmBrief(state workflowModel.WorkflowState) (workflowModel.WorkflowState, error) {
	if err := requireStep(state, workflowModel.StepReviewBrief, "confirming the brief"); err != nil {
		return state, err
	}
	if state.Brief == nil || !state.Brief.Confirmable() {
		return state, apperrors.WorkflowState("brief is not confirmable: title, objective and target audience must be non-empty")
	}
	state.BriefConfirmed = true
	return touch(state, workflowModel.StepGenerateMotivations), nil
}

// ApplyMotivations records generator output and moves on to selection.
func ApplyMotivations(state workflowModel.WorkflowState, motivations []briefModel.Motivation) (workflowModel.WorkflowState, error) {
	if err := requireStep(state, workflowModel.StepGenerateMotivations, "applying motivations"); err != nil {
		return state, err
	}
	state.Motivations = motivations
	return touch(state, workflowModel.StepSelectMotivations), nil
}

func SelectMotivations(state workflowModel.WorkflowState, ids []string) (workflowModel.WorkflowState, error) {
	if err := requireStep(state, workflowModel.StepSelectMotivations, "selecting motivations"); err != nil {
		return state, err
	}
	if len(ids) == 0 {
		return state, apperrors.WorkflowState("at least one motivation must be selected")
	}
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	matched := 0
	updated := make([]briefModel.Motivation, len(state.Motivations))
	for i, m := range state.Motivations {
		m.Selected = wanted[m.Id]
		if m.Selected {
			matched++
		}
		updated[i] = m
	}
	if matched != len(wanted) {
		return state, apperrors.WorkflowState("selection references unknown motivation ids")
	}
	state.Motivations = updated
	return touch(state, workflowModel.StepGenerateCopy), nil
}

func ApplyCopyVariants(state workflowModel.WorkflowState, variants []briefModel.CopyVariant) (workflowModel.WorkflowState, error) {
	if err := requireStep(state, workflowModel.StepGenerateCopy, "applying copy variants"); err != nil {
		return state, err
	}
	state.CopyVariants = variants
	return touch(state, workflowModel.StepSelectCopy), nil
}

func SelectCopy(state workflowModel.WorkflowState, ids []string) (workflowModel.WorkflowState, error) {
	if err := requireStep(state, workflowModel.StepSelectCopy, "selecting copy"); err != nil {
		return state, err
	}
	if len(ids) == 0 {
		return state, apperrors.WorkflowState("at least one copy variant must be selected")
	}
	known := make(map[string]bool, len(state.CopyVariants))
	for _, v := range state.CopyVariants {
		known[v.Id] = true
	}
	for _, id := range ids {
		if !known[id] {
			return state, apperrors.WorkflowState("selection references unknown copy variant ids")
		}
	}
	state.SelectedCopyIds = ids
	return touch(state, workflowModel.StepSelectAssets), nil
}

func SelectAssets(state workflowModel.WorkflowState, assetIds []string) (workflowModel.WorkflowState, error) {
	if err := requireStep(state, workflowModel.StepSelectAssets, "selecting assets"); err != nil {
		return state, err
	}
	if len(assetIds) == 0 {
		return state, apperrors.WorkflowState("at least one asset must be selected")
	}
	state.SelectedAssetIds = assetIds
	return touch(state, workflowModel.StepSelectTemplate), nil
}

func SelectTemplate(state workflowModel.WorkflowState, templateId string) (workflowModel.WorkflowState, error) {
	if err := requireStep(state, workflowModel.StepSelectTemplate, "selecting a template"); err != nil {
		return state, err
	}
	if templateId == "" {
		return state, apperrors.WorkflowState("template id must be non-empty")
	}
	state.TemplateId = templateId
	return touch(state, workflowModel.StepPopulateMatrix), nil
}

func BindMatrix(state workflowModel.WorkflowState, bindings map[string]string) (workflowModel.WorkflowState, error) {
	if err := requireStep(state, workflowModel.StepPopulateMatrix, "populating the matrix"); err != nil {
		return state, err
	}
	if len(bindings) == 0 {
		return state, apperrors.WorkflowState("matrix bindings must be non-empty")
	}
	state.MatrixBindings = bindings
	return state, nil
}

// Execute moves into the terminal step. The caller emits the handoff
// payload; the workflow itself never models the render job's lifecycle.
func Execute(state workflowModel.WorkflowState) (workflowModel.WorkflowState, error) {
	if err := requireStep(state, workflowModel.StepPopulateMatrix, "executing"); err != nil {
		return state, err
	}
	if len(state.MatrixBindings) == 0 {
		return state, apperrors.WorkflowState("matrix must be populated before executing")
	}
	return touch(state, workflowModel.StepExecute), nil
}

// Back moves to the immediately preceding step and discards whatever the
// departed step produced, so regenerated output can never mix with stale
// descendants.
func Back(state workflowModel.WorkflowState) (workflowModel.WorkflowState, error) {
	idx := state.CurrentStep.Index()
	if idx <= 0 {
		return state, apperrors.WorkflowState("cannot navigate back from " + string(state.CurrentStep))
	}

	switch state.CurrentStep {
	case workflowModel.StepGenerateMotivations:
		// re-opening the review invalidates confirmation and any motivations
		state.BriefConfirmed = false
		state.Motivations = nil
	case workflowModel.StepSelectMotivations:
		state.Motivations = nil
	case workflowModel.StepGenerateCopy:
		for i := range state.Motivations {
			state.Motivations[i].Selected = false
		}
		state.CopyVariants = nil
	case workflowModel.StepSelectCopy:
		state.CopyVariants = nil
	case workflowModel.StepSelectAssets:
		state.SelectedCopyIds = nil
	case workflowModel.StepSelectTemplate:
		state.SelectedAssetIds = nil
	case workflowModel.StepPopulateMatrix:
		state.TemplateId = ""
		state.MatrixBindings = nil
	}

	return touch(state, workflowModel.Order[idx-1]), nil
}

// Reset returns the session to the initial step, discarding the brief and
// everything derived from it. Fired on a new upload or an explicit cancel.
func Reset(state workflowModel.WorkflowState) workflowModel.WorkflowState {
	fresh := workflowModel.NewWorkflowState(state.SessionId)
	fresh.Epoch = state.Epoch
	return fresh
}
