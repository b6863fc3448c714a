// Package backend talks to the remote test-impact analysis service.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/agusespa/testimpact/internal/impact"
)

const (
	impactPath = "/api/v1/impact"
	healthPath = "/health"

	// maxErrorBody bounds how much of an error response ends up in messages.
	maxErrorBody = 512
)

type Client struct {
	baseURL  string
	apiKey   string
	client   *http.Client
	validate *validator.Validate
	logger   *slog.Logger
}

// NewClient creates a client. The timeout applies to each request; the
// client never retries.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
		validate: validator.New(),
		logger:   logger,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// AnalyzeImpact sends the change request and returns the backend verdicts.
func (c *Client) AnalyzeImpact(ctx context.Context, req impact.Request) (*impact.Response, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, newError(KindValidation, "invalid impact request", 0, err)
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, newError(KindUnknown, "failed to marshal request", 0, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+impactPath, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, newError(KindUnknown, "failed to create request", 0, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.authorize(httpReq)

	start := time.Now()
	body, err := c.do(httpReq)
	if err != nil {
		c.logger.Warn("impact request failed", "url", httpReq.URL.String(), "error", err)
		return nil, err
	}
	c.logger.Debug("impact request completed",
		"files", len(req.FilesChanged),
		"duration", time.Since(start))

	var resp impact.Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, newError(KindUnknown, "failed to unmarshal response", 0, err)
	}

	return &resp, nil
}

// Health checks that the backend is reachable.
func (c *Client) Health(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthPath, nil)
	if err != nil {
		return newError(KindUnknown, "failed to create request", 0, err)
	}
	c.authorize(httpReq)

	_, err = c.do(httpReq)
	return err
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

// do executes the request and returns the body of a 2xx response.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Debug("error closing response body", "error", closeErr)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, newError(kindForStatus(resp.StatusCode),
				fmt.Sprintf("request failed, could not read body: %v", err), resp.StatusCode, nil)
		}
		return nil, transportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		details := strings.TrimSpace(string(body))
		if len(details) > maxErrorBody {
			details = details[:maxErrorBody] + "..."
		}
		return nil, newError(kindForStatus(resp.StatusCode),
			fmt.Sprintf("request failed. Details: %s", details), resp.StatusCode, nil)
	}

	return body, nil
}
