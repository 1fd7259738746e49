// internal/oracle/client.go
package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"airport-query-engine/internal/common/http"
)

var (
	ErrOracleFailed  = errors.New("ORACLE_REQUEST_FAILED")
	ErrOracleTimeout = errors.New("ORACLE_TIMEOUT")
)

const (
	generatePath = "/api/ai/generate"
	extractPath  = "/api/ai/extract-parameters"
)

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Client talks to the GenAI service that plans and evaluates reasoning steps.
type Client struct {
	config *Config
	http   *http.Client
	logger Logger
}

func NewClient(cfg *Config, log Logger) *Client {
	return &Client{
		config: cfg,
		http: http.NewClient(cfg.Timeout,
			http.WithRetries(cfg.MaxRetries),
			http.WithHeader("X-API-Key", cfg.APIKey),
		),
		logger: log,
	}
}

// Process sends a free-form prompt.
func (c *Client) Process(ctx context.Context, prompt string) (*Completion, error) {
	req := generateRequest{
		Prompt:      prompt,
		MaxTokens:   c.config.MaxTokens,
		Temperature: c.config.Temperature,
	}
	var out Completion
	if err := c.post(ctx, generatePath, req, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.Text) == "" {
		return nil, fmt.Errorf("%w: empty completion", ErrOracleFailed)
	}
	c.logger.Info("oracle completion received", map[string]interface{}{
		"promptLength": len(prompt),
		"textLength":   len(out.Text),
	})
	return &out, nil
}

// ExtractParameters asks the oracle to pull structured parameters out of text.
func (c *Client) ExtractParameters(ctx context.Context, text string) (*Extraction, error) {
	var out Extraction
	if err := c.post(ctx, extractPath, extractRequest{Text: text}, &out); err != nil {
		return nil, err
	}
	if out.Parameters == nil {
		out.Parameters = map[string]interface{}{}
	}
	if out.Confidence < 0 || out.Confidence > 1 {
		out.Confidence = 0.5
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	err := c.http.PostJSON(ctx, c.config.BaseURL+path, payload, out)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %w", ErrOracleTimeout, ctx.Err())
	}
	c.logger.Warn("oracle request failed", map[string]interface{}{
		"path":  path,
		"error": err.Error(),
	})
	return fmt.Errorf("%w: %v", ErrOracleFailed, err)
}
