// Package gemini implements the interpreter port against the Google
// Generative Language API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/mindhq/mindcore/internal/config"
	"github.com/mindhq/mindcore/internal/domain/task"
	"github.com/mindhq/mindcore/internal/port/interpreter"
	"github.com/mindhq/mindcore/internal/resilience"
)

// Per-category analysis instructions. Unknown categories fall back to the
// message instructions, matching the default executor routing.
var systemPrompts = map[task.Category]string{
	task.CategoryMessage: `You are an email assistant. Analyze the user's request to send messages or emails. Extract:
1. Recipients (email addresses or descriptions)
2. Subject line
3. Message content
4. Tone/style preferences
Return a JSON response with these fields.`,

	task.CategoryShopping: `You are a shopping assistant. Analyze the user's request to order products. Extract:
1. Product name/description
2. Price range/budget
3. Brand preferences
4. Specifications/requirements
Return a JSON response with these fields and suggest specific products.`,

	task.CategoryEntertainment: `You are an entertainment assistant. Analyze the user's request to book movie tickets. Extract:
1. Movie name/genre preferences
2. Location/theater preferences
3. Date and time preferences
4. Number of tickets
Return a JSON response with these fields and suggest available options.`,
}

// Client talks to the Generative Language API. It implements
// interpreter.Interpreter.
type Client struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
	breaker    *resilience.Breaker
}

// NewClient creates a gateway client from the given config section.
func NewClient(cfg config.Gateway) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// SetBreaker attaches a circuit breaker to all outgoing calls. An open
// circuit surfaces as interpreter.ErrUnavailable.
func (c *Client) SetBreaker(b *resilience.Breaker) {
	c.breaker = b
}

type genRequest struct {
	Contents         []genContent `json:"contents"`
	GenerationConfig genConfig    `json:"generationConfig"`
}

type genContent struct {
	Parts []genPart `json:"parts"`
}

type genPart struct {
	Text string `json:"text"`
}

type genConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type genResponse struct {
	Candidates []struct {
		Content struct {
			Parts []genPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Interpret analyzes the prompt for the given category and returns the raw
// model text. The result may be a JSON document or free prose; no schema is
// enforced here.
func (c *Client) Interpret(ctx context.Context, category task.Category, prompt string) (*interpreter.Result, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("gemini: api key not configured: %w", interpreter.ErrInvalidCredentials)
	}

	system, ok := systemPrompts[category]
	if !ok {
		system = systemPrompts[task.CategoryMessage]
	}

	reqBody := genRequest{
		Contents: []genContent{{
			Parts: []genPart{
				{Text: system},
				{Text: "User request: " + prompt},
			},
		}},
		GenerationConfig: genConfig{
			Temperature:     0.7,
			TopK:            40,
			TopP:            0.95,
			MaxOutputTokens: 1024,
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("gemini: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.endpoint, c.model, c.apiKey)

	var respBody []byte
	call := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("gemini: build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("gemini: %v: %w", err, interpreter.ErrUnavailable)
		}
		defer func() { _ = resp.Body.Close() }()

		respBody, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("gemini: read response: %w", interpreter.ErrUnavailable)
		}

		if resp.StatusCode != http.StatusOK {
			return statusError(resp.StatusCode)
		}
		return nil
	}

	if c.breaker != nil {
		err = c.breaker.Execute(call)
		if err == resilience.ErrCircuitOpen {
			err = fmt.Errorf("gemini: circuit open: %w", interpreter.ErrUnavailable)
		}
	} else {
		err = call()
	}
	if err != nil {
		return nil, err
	}

	var parsed genResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("gemini: unmarshal response: %w", interpreter.ErrUnavailable)
	}

	text := ""
	if len(parsed.Candidates) > 0 && len(parsed.Candidates[0].Content.Parts) > 0 {
		text = parsed.Candidates[0].Content.Parts[0].Text
	}

	return &interpreter.Result{Text: text}, nil
}

// statusError maps an API status code onto the gateway failure taxonomy.
func statusError(code int) error {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("gemini: status %d: %w", code, interpreter.ErrInvalidCredentials)
	case http.StatusTooManyRequests:
		return fmt.Errorf("gemini: status %d: %w", code, interpreter.ErrRateLimited)
	default:
		return fmt.Errorf("gemini: status %d: %w", code, interpreter.ErrUnavailable)
	}
}
