package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/fleetcheck/internal/domain/models"
)

const (
	defaultAPIURL = "https://api.anthropic.com/v1/messages"
	apiVersion    = "2023-06-01"
	defaultModel  = "claude-3-haiku-20240307"
	maxTokens     = 1024
)

const dispatchSystemPrompt = `Eres el coordinador del almacén central de una flota de ambulancias.
Recibes solicitudes de reabastecimiento pendientes en JSON. Cada una trae la móvil, la fecha y los
insumos con su déficit.

Genera un informe de despacho breve en español:
- Agrupa por móvil y ordena por urgencia (medicamentos y déficits grandes primero).
- Suma los déficits del mismo insumo entre móviles para preparar el picking.
- Señala insumos que se repiten en varias móviles.
Responde solo con el informe en texto plano, sin JSON ni markdown.`

// Config controls the Messages API client.
type Config struct {
	APIKey  string
	APIURL  string
	Model   string
	Timeout time.Duration
}

// Client is a resty-backed Anthropic Messages API client.
type Client struct {
	httpClient *resty.Client
	apiURL     string
	model      string
}

// NewClient creates a configured Anthropic client.
func NewClient(cfg Config) *Client {
	if cfg.APIURL == "" {
		cfg.APIURL = defaultAPIURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	client := resty.New().
		SetHeader("x-api-key", cfg.APIKey).
		SetHeader("anthropic-version", apiVersion).
		SetHeader("content-type", "application/json").
		SetTimeout(cfg.Timeout)

	return &Client{httpClient: client, apiURL: cfg.APIURL, model: cfg.Model}
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// SummarizeDispatch asks the model for a dispatch plan over the pending requests.
func (c *Client) SummarizeDispatch(ctx context.Context, pending []models.SupplyRequest) (string, error) {
	if len(pending) == 0 {
		return "", errors.New("no requests to summarize")
	}

	payload, err := json.Marshal(pending)
	if err != nil {
		return "", fmt.Errorf("marshal pending requests: %w", err)
	}

	reqBody := messageRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		System:    dispatchSystemPrompt,
		Messages: []message{{
			Role:    "user",
			Content: "Solicitudes pendientes:\n" + string(payload),
		}},
	}

	var respBody messageResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&respBody).
		Post(c.apiURL)
	if err != nil {
		return "", fmt.Errorf("anthropic api call: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("anthropic api error: status=%d body=%s", resp.StatusCode(), resp.String())
	}

	var parts []string
	for _, block := range respBody.Content {
		if text := strings.TrimSpace(block.Text); text != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return "", errors.New("empty response from ai")
	}
	return strings.Join(parts, "\n"), nil
}
