package workflowModel

import (
	"context"
	"time"

	"github.com/adforge/briefapi/internal/domain/briefModel"
)

type Step string

const (
	StepUploadBrief         Step = "UploadBrief"
	StepReviewBrief         Step = "ReviewBrief"
	StepGenerateMotivations Step = "GenerateMotivations"
	StepSelectMotivations   Step = "SelectMotivations"
	StepGenerateCopy        Step = "GenerateCopy"
	StepSelectCopy          Step = "SelectCopy"
	StepSelectAssets        Step = "SelectAssets"
	StepSelectTemplate      Step = "SelectTemplate"
	StepPopulateMatrix      Step = "PopulateMatrix"
	StepExecute             Step = "Execute"
)

// Order is the forward sequence of the workflow. Back-navigation walks it
// one step at a time; Execute is terminal.
var Order = []Step{
	StepUploadBrief,
	StepReviewBrief,
	StepGenerateMotivations,
	StepSelectMotivations,
	StepGenerateCopy,
	StepSelectCopy,
	StepSelectAssets,
	StepSelectTemplate,
	StepPopulateMatrix,
	StepExecute,
}

func (s Step) Index() int {
	for i, step := range Order {
		if step == s {
			return i
		}
	}
	return -1
}

// WorkflowState is a value object: transition functions take one in and
// return a new one. A single session manager owns the authoritative copy.
type WorkflowState struct {
	SessionId      string            `json:"session_id"`
	CurrentStep    Step              `json:"current_step"`
	BriefConfirmed bool              `json:"brief_confirmed"`
	Brief          *briefModel.Brief `json:"brief,omitempty"`

	Motivations  []briefModel.Motivation  `json:"motivations,omitempty"`
	CopyVariants []briefModel.CopyVariant `json:"copy_variants,omitempty"`

	SelectedCopyIds  []string          `json:"selected_copy_ids,omitempty"`
	SelectedAssetIds []string          `json:"selected_asset_ids,omitempty"`
	TemplateId       string            `json:"template_id,omitempty"`
	MatrixBindings   map[string]string `json:"matrix_bindings,omitempty"`

	//Epoch counts extraction generations for this session; results carrying
	//an older epoch belong to a superseded document and are dropped
	Epoch     int64     `json:"epoch"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewWorkflowState(sessionId string) WorkflowState {
	return WorkflowState{
		SessionId:   sessionId,
		CurrentStep: StepUploadBrief,
		UpdatedAt:   time.Now(),
	}
}

// WorkflowStore is the write-through persistence boundary. Every method is
// best-effort: failures are logged by callers, never block a transition.
type WorkflowStore interface {
	LoadWorkflowState(ctx context.Context, sessionId string) (WorkflowState, bool)
	SaveWorkflowState(ctx context.Context, sessionId string, state WorkflowState) error
	SaveBrief(ctx context.Context, sessionId string, brief briefModel.Brief) error
	SaveMotivations(ctx context.Context, sessionId string, motivations []briefModel.Motivation) error
	SaveCopyVariants(ctx context.Context, sessionId string, variants []briefModel.CopyVariant) error
}
