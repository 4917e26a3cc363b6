package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"perfume-pal/internal/infrastructure/config"
	"perfume-pal/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client talks to the Gemini generateContent REST API. Safe for concurrent use.
type Client struct {
	config *config.Config
	client *resty.Client
}

// generateRequest is the generateContent request payload.
type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature,omitempty"`
	MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

// generateResponse is the subset of the generateContent response we consume.
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// NewClient creates a Gemini client from config.
func NewClient(cfg *config.Config) *Client {
	client := resty.New().
		SetBaseURL(cfg.Gemini.BaseURL).
		SetTimeout(cfg.Gemini.Timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{
		config: cfg,
		client: client,
	}
}

// GenerateContent sends a prompt and returns the raw text of the first
// candidate. The backend is asked for an application/json completion.
func (c *Client) GenerateContent(ctx context.Context, prompt string, maxTokens int) (string, error) {
	req := &generateRequest{
		Contents: []content{
			{
				Role:  "user",
				Parts: []part{{Text: prompt}},
			},
		},
		GenerationConfig: &generationConfig{
			Temperature:      c.config.Gemini.Temperature,
			MaxOutputTokens:  maxTokens,
			ResponseMimeType: "application/json",
		},
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("key", c.config.Gemini.APIKey).
		SetBody(req).
		Post(fmt.Sprintf("/models/%s:generateContent", c.config.Gemini.Model))

	if err != nil {
		common.LogError("failed to reach generative backend",
			zap.Error(err),
			zap.String("model", c.config.Gemini.Model),
		)
		return "", common.NewUpstreamGenerationError(err)
	}

	if resp.StatusCode() != http.StatusOK {
		common.LogError("generative backend returned error status",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("model", c.config.Gemini.Model),
			zap.String("response", resp.String()),
		)
		return "", common.NewUpstreamGenerationError(
			fmt.Errorf("backend status %d: %s", resp.StatusCode(), apiErrorMessage(resp.Body())))
	}

	var result generateResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", common.NewSchemaValidationError(fmt.Errorf("failed to parse backend response: %w", err))
	}

	if len(result.Candidates) == 0 {
		return "", common.NewSchemaValidationError(fmt.Errorf("no candidates in backend response"))
	}

	var text string
	for _, p := range result.Candidates[0].Content.Parts {
		text += p.Text
	}
	if text == "" {
		return "", common.NewSchemaValidationError(fmt.Errorf("empty content in backend response"))
	}

	common.LogInfo("generated response from backend",
		zap.String("model", c.config.Gemini.Model),
		zap.Int("content_length", len(text)),
		zap.String("finish_reason", result.Candidates[0].FinishReason),
	)

	return text, nil
}

// apiErrorMessage pulls the error message out of an error body, falling back
// to the raw body.
func apiErrorMessage(body []byte) string {
	var parsed struct {
		Error apiError `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return string(body)
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}
