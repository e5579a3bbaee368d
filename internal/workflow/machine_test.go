package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adforge/briefapi/internal/apperrors"
	"github.com/adforge/briefapi/internal/domain/briefModel"
	"github.com/adforge/briefapi/internal/domain/workflowModel"
)

func confirmableBrief() briefModel.Brief {
	return briefModel.Brief{
		Title:          "Solstice Launch",
		Objective:      "Drive 10k preorders",
		TargetAudience: "Urban runners",
	}
}

// walks a session through upload -> review -> confirmed
func confirmedState(t *testing.T) workflowModel.WorkflowState {
	t.Helper()
	state := workflowModel.NewWorkflowState("session-1")
	state = ApplyExtractedBrief(state, confirmableBrief())
	state, err := ConfirmBrief(state)
	require.NoError(t, err)
	return state
}

func TestApplyExtractedBrief_MovesToReviewAndClearsDownstream(t *testing.T) {
	state := workflowModel.NewWorkflowState("session-1")
	state.Motivations = []briefModel.Motivation{{Id: "m1"}}
	state.CopyVariants = []briefModel.CopyVariant{{Id: "c1"}}
	state.TemplateId = "tpl"
	state.MatrixBindings = map[string]string{"slot": "c1"}

	state = ApplyExtractedBrief(state, confirmableBrief())

	assert.Equal(t, workflowModel.StepReviewBrief, state.CurrentStep)
	assert.False(t, state.BriefConfirmed)
	assert.Nil(t, state.Motivations)
	assert.Nil(t, state.CopyVariants)
	assert.Empty(t, state.TemplateId)
	assert.Nil(t, state.MatrixBindings)
	require.NotNil(t, state.Brief)
	assert.Equal(t, "Solstice Launch", state.Brief.Title)
}

func TestConfirmBrief_RejectsMissingObjective(t *testing.T) {
	state := workflowModel.NewWorkflowState("session-1")
	brief := confirmableBrief()
	brief.Objective = ""
	state = ApplyExtractedBrief(state, brief)

	next, err := ConfirmBrief(state)

	assert.True(t, apperrors.IsWorkflowState(err))
	assert.Equal(t, workflowModel.StepReviewBrief, next.CurrentStep, "a refused confirmation must not advance the step")
	assert.False(t, next.BriefConfirmed)
}

func TestConfirmBrief_RejectsWrongStep(t *testing.T) {
	state := workflowModel.NewWorkflowState("session-1")

	_, err := ConfirmBrief(state)
	assert.True(t, apperrors.IsWorkflowState(err))
}

func TestEditBrief_PreservesFallbackFlag(t *testing.T) {
	state := workflowModel.NewWorkflowState("session-1")
	extracted := confirmableBrief()
	extracted.FromFallback = true
	state = ApplyExtractedBrief(state, extracted)

	edited := confirmableBrief()
	edited.Objective = "A sharper objective"
	state, err := EditBrief(state, edited)

	require.NoError(t, err)
	assert.Equal(t, "A sharper objective", state.Brief.Objective)
	assert.True(t, state.Brief.FromFallback, "editing must not launder fallback provenance")
}

func TestEditBrief_OnlyDuringReview(t *testing.T) {
	state := confirmedState(t)

	_, err := EditBrief(state, confirmableBrief())
	assert.True(t, apperrors.IsWorkflowState(err))
}

func TestSelectMotivations_MarksSelectionAndAdvances(t *testing.T) {
	state := confirmedState(t)
	state, err := ApplyMotivations(state, []briefModel.Motivation{
		{Id: "m1", Text: "Belonging"},
		{Id: "m2", Text: "Status"},
		{Id: "m3", Text: "Savings"},
	})
	require.NoError(t, err)

	state, err = SelectMotivations(state, []string{"m1", "m3"})
	require.NoError(t, err)

	assert.Equal(t, workflowModel.StepGenerateCopy, state.CurrentStep)
	assert.True(t, state.Motivations[0].Selected)
	assert.False(t, state.Motivations[1].Selected)
	assert.True(t, state.Motivations[2].Selected)
}

func TestSelectMotivations_RejectsUnknownIds(t *testing.T) {
	state := confirmedState(t)
	state, err := ApplyMotivations(state, []briefModel.Motivation{{Id: "m1"}})
	require.NoError(t, err)

	next, err := SelectMotivations(state, []string{"m1", "ghost"})
	assert.True(t, apperrors.IsWorkflowState(err))
	assert.Equal(t, workflowModel.StepSelectMotivations, next.CurrentStep)
}

func TestSelectMotivations_RejectsEmptySelection(t *testing.T) {
	state := confirmedState(t)
	state, err := ApplyMotivations(state, []briefModel.Motivation{{Id: "m1"}})
	require.NoError(t, err)

	_, err = SelectMotivations(state, nil)
	assert.True(t, apperrors.IsWorkflowState(err))
}

func TestSelectCopy_RejectsUnknownVariant(t *testing.T) {
	state := stateAtSelectCopy(t)

	_, err := SelectCopy(state, []string{"nope"})
	assert.True(t, apperrors.IsWorkflowState(err))
}

func stateAtSelectCopy(t *testing.T) workflowModel.WorkflowState {
	t.Helper()
	state := confirmedState(t)
	state, err := ApplyMotivations(state, []briefModel.Motivation{{Id: "m1"}})
	require.NoError(t, err)
	state, err = SelectMotivations(state, []string{"m1"})
	require.NoError(t, err)
	state, err = ApplyCopyVariants(state, []briefModel.CopyVariant{
		{Id: "c1", MotivationId: "m1", Variant: 1},
		{Id: "c2", MotivationId: "m1", Variant: 2},
	})
	require.NoError(t, err)
	return state
}

func TestFullForwardWalk(t *testing.T) {
	state := stateAtSelectCopy(t)

	state, err := SelectCopy(state, []string{"c1"})
	require.NoError(t, err)
	assert.Equal(t, workflowModel.StepSelectAssets, state.CurrentStep)

	state, err = SelectAssets(state, []string{"asset-1"})
	require.NoError(t, err)
	assert.Equal(t, workflowModel.StepSelectTemplate, state.CurrentStep)

	state, err = SelectTemplate(state, "tpl-9")
	require.NoError(t, err)
	assert.Equal(t, workflowModel.StepPopulateMatrix, state.CurrentStep)

	state, err = BindMatrix(state, map[string]string{"hero": "c1"})
	require.NoError(t, err)
	assert.Equal(t, workflowModel.StepPopulateMatrix, state.CurrentStep, "binding accumulates without advancing")

	state, err = Execute(state)
	require.NoError(t, err)
	assert.Equal(t, workflowModel.StepExecute, state.CurrentStep)
}

func TestExecute_RequiresBindings(t *testing.T) {
	state := stateAtSelectCopy(t)
	state, err := SelectCopy(state, []string{"c1"})
	require.NoError(t, err)
	state, err = SelectAssets(state, []string{"asset-1"})
	require.NoError(t, err)
	state, err = SelectTemplate(state, "tpl-9")
	require.NoError(t, err)

	_, err = Execute(state)
	assert.True(t, apperrors.IsWorkflowState(err))
}

func TestBack_FromGenerateMotivationsReopensReview(t *testing.T) {
	state := confirmedState(t)

	state, err := Back(state)
	require.NoError(t, err)

	assert.Equal(t, workflowModel.StepReviewBrief, state.CurrentStep)
	assert.False(t, state.BriefConfirmed, "stepping back must invalidate the confirmation")
	assert.Nil(t, state.Motivations)
}

func TestBack_FromGenerateCopyClearsSelectionFlags(t *testing.T) {
	state := confirmedState(t)
	state, err := ApplyMotivations(state, []briefModel.Motivation{{Id: "m1"}, {Id: "m2"}})
	require.NoError(t, err)
	state, err = SelectMotivations(state, []string{"m2"})
	require.NoError(t, err)

	state, err = Back(state)
	require.NoError(t, err)

	assert.Equal(t, workflowModel.StepSelectMotivations, state.CurrentStep)
	for _, m := range state.Motivations {
		assert.False(t, m.Selected)
	}
	assert.Nil(t, state.CopyVariants)
}

func TestBack_FromPopulateMatrixClearsTemplate(t *testing.T) {
	state := stateAtSelectCopy(t)
	state, err := SelectCopy(state, []string{"c1"})
	require.NoError(t, err)
	state, err = SelectAssets(state, []string{"a1"})
	require.NoError(t, err)
	state, err = SelectTemplate(state, "tpl-1")
	require.NoError(t, err)
	state, err = BindMatrix(state, map[string]string{"hero": "c1"})
	require.NoError(t, err)

	state, err = Back(state)
	require.NoError(t, err)

	assert.Equal(t, workflowModel.StepSelectTemplate, state.CurrentStep)
	assert.Empty(t, state.TemplateId)
	assert.Nil(t, state.MatrixBindings)
}

func TestBack_AtFirstStepFails(t *testing.T) {
	state := workflowModel.NewWorkflowState("session-1")

	_, err := Back(state)
	assert.True(t, apperrors.IsWorkflowState(err))
}

func TestReset_PreservesSessionAndEpoch(t *testing.T) {
	state := confirmedState(t)
	state.Epoch = 7

	fresh := Reset(state)

	assert.Equal(t, "session-1", fresh.SessionId)
	assert.Equal(t, int64(7), fresh.Epoch)
	assert.Equal(t, workflowModel.StepUploadBrief, fresh.CurrentStep)
	assert.Nil(t, fresh.Brief)
	assert.Nil(t, fresh.Motivations)
}
