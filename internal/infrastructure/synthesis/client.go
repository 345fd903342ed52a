// Package synthesis talks to the external image synthesis provider. The
// provider API is asynchronous: a prediction is created, then polled until
// it settles.
package synthesis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pixamint/pixamint/internal/application/generation/services"
	"github.com/pixamint/pixamint/internal/shared/config"
	"github.com/pixamint/pixamint/internal/shared/logger"
)

type Client struct {
	baseURL      string
	apiKey       string
	defaultModel string
	pollInterval time.Duration
	maxPollTime  time.Duration
	httpClient   *http.Client
	logger       logger.Interface
}

func NewClient(cfg *config.SynthesisConfig, logger logger.Interface) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	maxPollTime := cfg.MaxPollTime
	if maxPollTime <= 0 {
		maxPollTime = 3 * time.Minute
	}

	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		defaultModel: cfg.Model,
		pollInterval: pollInterval,
		maxPollTime:  maxPollTime,
		httpClient:   &http.Client{Timeout: timeout},
		logger:       logger,
	}
}

var _ services.Synthesizer = (*Client)(nil)

type createPredictionRequest struct {
	Model string          `json:"model"`
	Input predictionInput `json:"input"`
}

type predictionInput struct {
	Prompt string `json:"prompt"`
	Size   string `json:"size"`
}

type predictionResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Output struct {
		ImageURL string `json:"image_url"`
	} `json:"output"`
	Error string `json:"error"`
}

// Generate creates a prediction and polls until it settles.
func (c *Client) Generate(ctx context.Context, req services.SynthesisRequest) (*services.SynthesisResult, error) {
	model := req.Model
	if model == "" {
		model = c.defaultModel
	}

	pred, err := c.createPrediction(ctx, createPredictionRequest{
		Model: model,
		Input: predictionInput{Prompt: req.Prompt, Size: req.Size},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create prediction: %w", err)
	}

	c.logger.Debugw("prediction created", "prediction_id", pred.ID, "model", model)

	return c.pollPrediction(ctx, pred.ID)
}

func (c *Client) createPrediction(ctx context.Context, payload createPredictionRequest) (*predictionResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var resp predictionResponse
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/predictions", bytes.NewReader(body), &resp); err != nil {
		return nil, err
	}
	if resp.ID == "" {
		return nil, fmt.Errorf("provider returned empty prediction id")
	}
	return &resp, nil
}

func (c *Client) pollPrediction(ctx context.Context, predictionID string) (*services.SynthesisResult, error) {
	deadline := time.Now().Add(c.maxPollTime)
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("prediction %s did not settle within %s", predictionID, c.maxPollTime)
		}

		var resp predictionResponse
		if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/predictions/"+predictionID, nil, &resp); err != nil {
			return nil, err
		}

		switch resp.Status {
		case "succeeded":
			if resp.Output.ImageURL == "" {
				return nil, fmt.Errorf("prediction %s succeeded without an image", predictionID)
			}
			return &services.SynthesisResult{
				ImageURL:   resp.Output.ImageURL,
				ProviderID: predictionID,
			}, nil
		case "failed", "canceled":
			reason := resp.Error
			if reason == "" {
				reason = resp.Status
			}
			return nil, fmt.Errorf("prediction %s failed: %s", predictionID, reason)
		default:
			// starting or processing, keep polling
		}
	}
}

func (c *Client) doJSON(ctx context.Context, method, url string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read provider response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("provider error: status=%d body=%s", resp.StatusCode, truncate(raw, 512))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode provider response: %w", err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
