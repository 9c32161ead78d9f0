package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/fleetcheck/internal/domain/models"
)

// TemperatureReading is the body of a per-shift climate push.
type TemperatureReading struct {
	MobileID    string  `json:"movil_id"`
	Shift       string  `json:"jornada"`
	Temperature float64 `json:"temperatura"`
	Humidity    float64 `json:"humedad"`
	Responsible string  `json:"responsable"`
}

// APIClient is a resty-backed client for the central records server.
type APIClient struct {
	httpClient *resty.Client
	baseURL    string
}

// NewClient builds a client for baseURL.
func NewClient(baseURL string, timeout time.Duration) *APIClient {
	base := strings.TrimSuffix(baseURL, "/")

	restyClient := resty.New().
		SetBaseURL(base).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	return &APIClient{httpClient: restyClient, baseURL: base}
}

type syncRequest struct {
	UserID    string                 `json:"userId"`
	Timestamp string                 `json:"timestamp"`
	Data      *models.InventoryState `json:"data"`
}

// SyncInventory posts the full unit document.
func (c *APIClient) SyncInventory(ctx context.Context, userID string, state *models.InventoryState) error {
	body := syncRequest{
		UserID:    userID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data:      state,
	}
	if state != nil && state.LastSaved != nil {
		body.Timestamp = state.LastSaved.UTC().Format(time.RFC3339)
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		Post("/api/sync-inventory")
	if err != nil {
		return fmt.Errorf("sync inventory: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("sync inventory: server answered %d", resp.StatusCode())
	}
	return nil
}

// SaveTemperature posts one shift's climate reading.
func (c *APIClient) SaveTemperature(ctx context.Context, reading TemperatureReading) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(reading).
		Post("/api/guardar-temperatura")
	if err != nil {
		return fmt.Errorf("save temperature: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("save temperature: server answered %d", resp.StatusCode())
	}
	return nil
}

type historyResponse struct {
	Files []string `json:"archivos"`
}

// ListHistory returns the archived report paths of a unit folder.
func (c *APIClient) ListHistory(ctx context.Context, folder string) ([]string, error) {
	result := new(historyResponse)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("folder", folder).
		SetResult(result).
		Get("/api/historial/{folder}")
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("list history: server answered %d", resp.StatusCode())
	}
	if result.Files == nil {
		return []string{}, nil
	}
	return result.Files, nil
}

// FetchTemplate downloads a named spreadsheet template.
func (c *APIClient) FetchTemplate(ctx context.Context, name string) ([]byte, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Accept", "application/octet-stream").
		SetPathParam("name", name).
		Get("/templates/{name}")
	if err != nil {
		return nil, fmt.Errorf("fetch template %s: %w", name, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("fetch template %s: server answered %d", name, resp.StatusCode())
	}
	return resp.Body(), nil
}

// DownloadURL is the static URL of an archived file.
func (c *APIClient) DownloadURL(path string) string {
	segments := strings.Split(strings.TrimPrefix(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return c.baseURL + "/static/" + strings.Join(segments, "/")
}
