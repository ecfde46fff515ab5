// Package gemini is a thin client for the Google Gemini generateContent
// API. Both operations are best-effort enrichment: failures degrade to
// a fallback value and are never surfaced to callers as errors.
package gemini

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"trading-journal-go/internal/config"
)

// SummaryFallback is returned by SummarizeStock on any upstream failure.
const SummaryFallback = "Stock information is currently unavailable."

const defaultImageMIME = "image/png"

// Client defines the AI augmentation operations used by the API layer.
type Client interface {
	// SummarizeStock returns a short generated summary of the stock,
	// or SummaryFallback when the upstream call fails.
	SummarizeStock(ctx context.Context, stockName string) string

	// EditChartImage sends a chart image (as a data URL) plus an
	// instruction and returns the edited image as a data URL, or ""
	// on failure or when no image is produced.
	EditChartImage(ctx context.Context, imageDataURL, instruction string) string
}

// RestClient talks to the Gemini REST API. It implements Client.
type RestClient struct {
	client     *resty.Client
	apiKey     string
	textModel  string
	imageModel string
	logger     *zap.Logger
	limiter    *rate.Limiter
}

// ensure RestClient implements the interface
var _ Client = (*RestClient)(nil)

// NewRestClient creates a new Gemini API client. Every request is
// bounded by the configured timeout so a slow upstream can never stall
// trade CRUD handlers that wait on an AI result.
func NewRestClient(cfg *config.Gemini, logger *zap.Logger) *RestClient {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second)

	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst)

	return &RestClient{
		client:     client,
		apiKey:     cfg.APIKey,
		textModel:  cfg.TextModel,
		imageModel: cfg.ImageModel,
		logger:     logger,
		limiter:    limiter,
	}
}

// generateRequest is the generateContent request body.
type generateRequest struct {
	Contents []Content `json:"contents"`
	Tools    []Tool    `json:"tools,omitempty"`
}

// Content is a single message of a generateContent exchange.
type Content struct {
	Parts []Part `json:"parts"`
}

// Part carries either text or inline binary data.
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

// InlineData is a base64-encoded media payload.
type InlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

// Tool enables a model capability; only Google Search grounding is used.
type Tool struct {
	GoogleSearch *struct{} `json:"googleSearch,omitempty"`
}

// generateResponse is the subset of the generateContent response the
// client consumes.
type generateResponse struct {
	Candidates []struct {
		Content Content `json:"content"`
	} `json:"candidates"`
}

// SummarizeStock asks the text model for a short, search-grounded stock
// summary. Never returns an error: any failure yields SummaryFallback.
func (c *RestClient) SummarizeStock(ctx context.Context, stockName string) string {
	prompt := fmt.Sprintf(`Give me a very brief summary of the stock %s as bullet points (one per line):
- Approximate current price.
- Overall trend (up/down/sideways).
- The most important recent news or a quick tip.
Keep the answer very short and clear.`, stockName)

	body := generateRequest{
		Contents: []Content{{Parts: []Part{{Text: prompt}}}},
		Tools:    []Tool{{GoogleSearch: &struct{}{}}},
	}

	result, err := c.generateContent(ctx, c.textModel, &body)
	if err != nil {
		c.logger.Warn("stock summary failed, returning fallback",
			zap.String("stock", stockName),
			zap.Error(err),
		)
		return SummaryFallback
	}

	text := firstText(result)
	if text == "" {
		c.logger.Warn("stock summary response carried no text", zap.String("stock", stockName))
		return SummaryFallback
	}
	return text
}

// EditChartImage sends the chart image and the edit instruction to the
// image model. Returns the first image of the response as a PNG data
// URL, or "" on failure or when the model produced no image.
func (c *RestClient) EditChartImage(ctx context.Context, imageDataURL, instruction string) string {
	mimeType, payload := splitDataURL(imageDataURL)

	body := generateRequest{
		Contents: []Content{{Parts: []Part{
			{InlineData: &InlineData{MimeType: mimeType, Data: payload}},
			{Text: instruction},
		}}},
	}

	result, err := c.generateContent(ctx, c.imageModel, &body)
	if err != nil {
		c.logger.Warn("chart image edit failed", zap.Error(err))
		return ""
	}

	for _, candidate := range result.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				return "data:image/png;base64," + part.InlineData.Data
			}
		}
	}
	c.logger.Warn("chart image edit response carried no image")
	return ""
}

// firstText returns the first non-empty text part of the response, or
// "" when the model produced none.
func firstText(resp *generateResponse) string {
	for _, candidate := range resp.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				return part.Text
			}
		}
	}
	return ""
}

// generateContent posts a generateContent request for the given model.
func (c *RestClient) generateContent(ctx context.Context, model string, body *generateRequest) (*generateResponse, error) {
	req := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetQueryParam("key", c.apiKey).
		SetBody(body).
		SetResult(&generateResponse{})

	url := fmt.Sprintf("/models/%s:generateContent", model)
	resp, err := c.doRequest(ctx, http.MethodPost, url, req)
	if err != nil {
		return nil, fmt.Errorf("generateContent with %s failed: %w", model, err)
	}

	return resp.Result().(*generateResponse), nil
}

// doRequest executes the request with rate limiting and retry logic.
// Retries are limited to throttling and server errors; anything else
// fails immediately.
func (c *RestClient) doRequest(ctx context.Context, method, url string, req *resty.Request) (*resty.Response, error) {
	var resp *resty.Response
	var err error
	const maxRetries = 3

	for i := 0; i < maxRetries; i++ {
		// Wait for the rate limiter
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		c.logger.Debug("executing request", zap.String("method", method), zap.String("url", c.client.BaseURL+url))
		resp, err = req.Execute(method, url)

		if err == nil && !resp.IsError() {
			return resp, nil // Success
		}

		// Analyze error and decide whether to retry
		shouldRetry := false
		var retryAfter time.Duration

		if resp != nil && err == nil {
			statusCode := resp.StatusCode()
			if statusCode == http.StatusTooManyRequests {
				shouldRetry = true
				retryAfterHeader := resp.Header().Get("Retry-After")
				if seconds, err := strconv.Atoi(retryAfterHeader); err == nil {
					retryAfter = time.Duration(seconds) * time.Second
				}
			} else if statusCode >= 500 { // Server errors
				shouldRetry = true
			}
		} else { // Network or other client-side errors
			shouldRetry = true
		}

		if !shouldRetry {
			return nil, fmt.Errorf("request failed with status %s: %s", resp.Status(), resp.String())
		}

		// Keep the status-based failure so exhausted retries report it.
		if err == nil && resp != nil {
			err = fmt.Errorf("upstream returned status %s", resp.Status())
		}

		// Exponential backoff: 1s, 2s, 4s unless the server said otherwise.
		if retryAfter == 0 {
			retryAfter = time.Duration(math.Pow(2, float64(i))) * time.Second
		}

		c.logger.Warn("request failed, retrying...",
			zap.Int("attempt", i+1),
			zap.Duration("retry_after", retryAfter),
			zap.Error(err),
		)

		select {
		case <-time.After(retryAfter):
			continue
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", maxRetries, err)
}

// splitDataURL separates a "data:<mime>;base64,<payload>" URL into its
// MIME type and payload. A bare base64 string passes through with the
// default PNG MIME type.
func splitDataURL(dataURL string) (mimeType, payload string) {
	mimeType = defaultImageMIME
	payload = dataURL

	prefix, rest, found := strings.Cut(dataURL, ",")
	if !found {
		return mimeType, payload
	}
	payload = rest

	prefix = strings.TrimPrefix(prefix, "data:")
	if mime, _, _ := strings.Cut(prefix, ";"); mime != "" {
		mimeType = mime
	}
	return mimeType, payload
}
