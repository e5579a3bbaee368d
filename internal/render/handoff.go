package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/adforge/briefapi/internal/customHttpClient"
	"github.com/adforge/briefapi/internal/domain/briefModel"
	"github.com/adforge/briefapi/internal/domain/workflowModel"
	"github.com/adforge/briefapi/pkg/logger_i"
)

// HandoffPayload is everything the external render collaborator needs to
// start producing output. The workflow ends here; render job lifecycle is
// not modelled on this side.
type HandoffPayload struct {
	SessionId      string                   `json:"session_id"`
	Brief          briefModel.Brief         `json:"brief"`
	Motivations    []briefModel.Motivation  `json:"motivations"`
	CopyVariants   []briefModel.CopyVariant `json:"copy_variants"`
	AssetIds       []string                 `json:"asset_ids"`
	TemplateId     string                   `json:"template_id"`
	MatrixBindings map[string]string        `json:"matrix_bindings"`
}

// BuildHandoff assembles the payload from a workflow that reached Execute,
// keeping only the selected motivations and copy variants.
func BuildHandoff(state workflowModel.WorkflowState) HandoffPayload {
	payload := HandoffPayload{
		SessionId:      state.SessionId,
		AssetIds:       state.SelectedAssetIds,
		TemplateId:     state.TemplateId,
		MatrixBindings: state.MatrixBindings,
	}
	if state.Brief != nil {
		payload.Brief = *state.Brief
	}
	for _, m := range state.Motivations {
		if m.Selected {
			payload.Motivations = append(payload.Motivations, m)
		}
	}
	selected := make(map[string]bool, len(state.SelectedCopyIds))
	for _, id := range state.SelectedCopyIds {
		selected[id] = true
	}
	for _, v := range state.CopyVariants {
		if selected[v.Id] {
			payload.CopyVariants = append(payload.CopyVariants, v)
		}
	}
	return payload
}

type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *logger_i.Logger
}

func NewClient(endpoint string) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: customHttpClient.PooledClient(),
		logger:     logger_i.NewLogger("Render Handoff"),
	}
}

// Send posts the handoff payload to the render endpoint. Without a
// configured endpoint the payload is logged only, which keeps local
// development and tests off the network.
func (c *Client) Send(ctx context.Context, payload HandoffPayload) error {
	if c.endpoint == "" {
		c.logger.Info("No render endpoint configured, handoff logged only", "sessionId", payload.SessionId)
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal handoff payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build handoff request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post handoff: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("render endpoint rejected handoff: %s", resp.Status)
	}
	c.logger.Info("Handed off to render service", "sessionId", payload.SessionId, "status", resp.Status)
	return nil
}
