package sink

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/acidni/intake-service/internal/config"
)

// patchOp is one entry of the JSON-patch document the work-item API expects.
type patchOp struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value"`
}

type workItemResponse struct {
	ID int `json:"id"`
}

// TrackerClient creates work items through the tracker's REST API using a
// personal access token.
type TrackerClient struct {
	cfg    config.TrackerConfig
	client *http.Client
	logger *zap.Logger
}

// NewTrackerClient constructs the client.
func NewTrackerClient(cfg config.TrackerConfig, logger *zap.Logger) *TrackerClient {
	return &TrackerClient{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
		logger: logger,
	}
}

// CreateWorkItem posts a JSON-patch document and returns the assigned id.
func (t *TrackerClient) CreateWorkItem(ctx context.Context, item WorkItem) (int, error) {
	doc := []patchOp{
		{Op: "add", Path: "/fields/System.Title", Value: item.Title},
		{Op: "add", Path: "/fields/System.Description", Value: item.Description},
		{Op: "add", Path: "/fields/System.Tags", Value: item.Tags},
		{Op: "add", Path: "/fields/Microsoft.VSTS.Common.Priority", Value: item.Priority},
	}
	if item.AreaPath != "" {
		doc = append(doc, patchOp{Op: "add", Path: "/fields/System.AreaPath", Value: item.AreaPath})
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return 0, fmt.Errorf("marshal work item: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/_apis/wit/workitems/$%s?api-version=7.0",
		t.cfg.OrgURL, t.cfg.Project, url.PathEscape(item.Type))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("build work item request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json-patch+json")
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(":"+t.cfg.PAT)))

	resp, err := t.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("create work item: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read work item response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		t.logger.Error("tracker rejected work item",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return 0, fmt.Errorf("tracker returned status %d", resp.StatusCode)
	}

	var result workItemResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return 0, fmt.Errorf("parse work item response: %w", err)
	}
	return result.ID, nil
}
