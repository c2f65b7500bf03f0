package runpod

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bnema/podwatch/internal/domain"
	"github.com/bnema/podwatch/internal/ports"
)

const (
	// DefaultBaseURL is the RunPod REST API root.
	DefaultBaseURL = "https://rest.runpod.io/v1"

	requestTimeout = 30 * time.Second
)

// APIError is a non-2xx answer from the RunPod API, surfaced to the user as a
// readable message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("runpod api: status %d", e.Status)
	}
	return fmt.Sprintf("runpod api: status %d: %s", e.Status, e.Message)
}

// Client talks to the RunPod REST API. It implements ports.PodDirectory.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ ports.PodDirectory = (*Client)(nil)

// NewClient returns a Client for the given API root. An empty baseURL selects
// DefaultBaseURL; a nil httpClient gets one with the 30s request timeout.
func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

type podPayload struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	DesiredStatus string  `json:"desiredStatus"`
	GPUTypeID     string  `json:"gpuTypeId"`
	CostPerHr     float64 `json:"costPerHr"`
	CreatedAt     string  `json:"createdAt"`
	Runtime       *struct {
		UptimeInSeconds int `json:"uptimeInSeconds"`
	} `json:"runtime"`
}

func (p podPayload) toDomain() domain.Pod {
	pod := domain.Pod{
		ID:          domain.PodID(p.ID),
		Name:        p.Name,
		Status:      domain.ParseStatus(p.DesiredStatus),
		GPUType:     p.GPUTypeID,
		CostPerHour: p.CostPerHr,
	}
	if p.Runtime != nil {
		pod.UptimeSeconds = p.Runtime.UptimeInSeconds
	}
	if created, err := time.Parse(time.RFC3339, p.CreatedAt); err == nil {
		pod.CreatedAt = created
	}
	return pod
}

func (c *Client) ListPods(ctx context.Context) ([]domain.Pod, error) {
	var payload []podPayload
	if err := c.get(ctx, "/pods", &payload); err != nil {
		return nil, err
	}

	pods := make([]domain.Pod, 0, len(payload))
	for _, p := range payload {
		pods = append(pods, p.toDomain())
	}
	return pods, nil
}

type templatePayload struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	ImageName         string `json:"imageName"`
	DockerArgs        string `json:"dockerArgs"`
	ContainerDiskInGb int    `json:"containerDiskInGb"`
	Ports             string `json:"ports"`
}

func (c *Client) ListTemplates(ctx context.Context) ([]domain.Template, error) {
	var payload []templatePayload
	if err := c.get(ctx, "/templates", &payload); err != nil {
		return nil, err
	}

	templates := make([]domain.Template, 0, len(payload))
	for _, t := range payload {
		templates = append(templates, domain.Template{
			ID:              domain.TemplateID(t.ID),
			Name:            t.Name,
			ImageName:       t.ImageName,
			DockerArgs:      t.DockerArgs,
			ContainerDiskGB: t.ContainerDiskInGb,
			Ports:           t.Ports,
		})
	}
	return templates, nil
}

type volumePayload struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Size         int    `json:"size"`
	DataCenterID string `json:"dataCenterId"`
}

func (c *Client) ListVolumes(ctx context.Context) ([]domain.NetworkVolume, error) {
	var payload []volumePayload
	if err := c.get(ctx, "/networkvolumes", &payload); err != nil {
		return nil, err
	}

	volumes := make([]domain.NetworkVolume, 0, len(payload))
	for _, v := range payload {
		volumes = append(volumes, domain.NetworkVolume{
			ID:           domain.VolumeID(v.ID),
			Name:         v.Name,
			SizeGB:       v.Size,
			DataCenterID: v.DataCenterID,
		})
	}
	return volumes, nil
}

type createPayload struct {
	Name              string   `json:"name"`
	ImageName         string   `json:"imageName"`
	GPUTypeIDs        []string `json:"gpuTypeIds"`
	GPUCount          int      `json:"gpuCount"`
	ContainerDiskInGb int      `json:"containerDiskInGb"`
	Ports             []string `json:"ports"`
	TemplateID        string   `json:"templateId"`
	DockerStartCmd    []string `json:"dockerStartCmd,omitempty"`
	NetworkVolumeID   string   `json:"networkVolumeId,omitempty"`
	VolumeInGb        int      `json:"volumeInGb"`
	DataCenterIDs     []string `json:"dataCenterIds,omitempty"`
}

func (c *Client) CreatePod(ctx context.Context, spec domain.CreateSpec) (domain.Pod, error) {
	payload := createPayload{
		Name:              spec.Name,
		ImageName:         spec.ImageName,
		GPUTypeIDs:        []string{spec.GPUType},
		GPUCount:          spec.GPUCount,
		ContainerDiskInGb: spec.ContainerDiskGB,
		Ports:             spec.Ports,
		TemplateID:        string(spec.TemplateID),
		DockerStartCmd:    spec.DockerStartCmd,
		VolumeInGb:        spec.VolumeGB,
	}
	if spec.VolumeID != "" {
		payload.NetworkVolumeID = string(spec.VolumeID)
		if spec.DataCenterID != "" {
			payload.DataCenterIDs = []string{spec.DataCenterID}
		}
	}

	var created podPayload
	if err := c.post(ctx, "/pods", payload, &created); err != nil {
		return domain.Pod{}, err
	}
	return created.toDomain(), nil
}

func (c *Client) TerminatePod(ctx context.Context, id domain.PodID) error {
	return c.do(ctx, http.MethodDelete, "/pods/"+url.PathEscape(string(id)), nil, nil)
}

func (c *Client) StopPod(ctx context.Context, id domain.PodID) error {
	return c.do(ctx, http.MethodPost, "/pods/"+url.PathEscape(string(id))+"/stop", nil, nil)
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	return c.do(ctx, http.MethodGet, endpoint, nil, out)
}

func (c *Client) post(ctx context.Context, endpoint string, in, out any) error {
	return c.do(ctx, http.MethodPost, endpoint, in, out)
}

func (c *Client) do(ctx context.Context, method, endpoint string, in, out any) error {
	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiErrorFrom(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// apiErrorFrom extracts the most readable message the error body offers: the
// API returns either {"error": "text"} or {"error": {"message": "text"}}.
func apiErrorFrom(resp *http.Response) *APIError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	apiErr := &APIError{Status: resp.StatusCode}

	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Error) > 0 {
		var text string
		if json.Unmarshal(envelope.Error, &text) == nil && text != "" {
			apiErr.Message = text
			return apiErr
		}
		var detail struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(envelope.Error, &detail) == nil && detail.Message != "" {
			apiErr.Message = detail.Message
			return apiErr
		}
	}

	if len(raw) > 0 {
		apiErr.Message = string(raw)
		if len(apiErr.Message) > 200 {
			apiErr.Message = apiErr.Message[:200]
		}
	}
	return apiErr
}
