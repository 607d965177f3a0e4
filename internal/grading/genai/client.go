// Package genai is a minimal REST client for the Gemini generateContent
// endpoint. It exposes text-only and text+attachment generation; everything
// the grading pipeline knows about the model goes through these two calls.
package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"

var ErrNotConfigured = errors.New("genai: api key or url not configured")

type Client struct {
	apiKey  string
	baseURL string
	httpc   *http.Client
}

type Option func(*Client)

func WithBaseURL(u string) Option { return func(c *Client) { c.baseURL = u } }

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.httpc = h } }

func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultURL,
		httpc:   &http.Client{Timeout: 60 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// --- wire types ---

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"` // base64
}

type content struct {
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
}

type safetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
	SafetySettings   []safetySetting  `json:"safetySettings,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

var defaultSafetySettings = []safetySetting{
	{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
}

// GenerateText sends a text-only prompt and returns the first candidate's text.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	req := generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{Temperature: 0.7, MaxOutputTokens: 128, TopP: 0.8, TopK: 40},
	}
	return c.generate(ctx, req)
}

// GenerateWithFile sends a prompt plus an inline binary attachment (image or
// PDF) and returns the first candidate's text.
func (c *Client) GenerateWithFile(ctx context.Context, prompt, mimeType string, data []byte) (string, error) {
	req := generateRequest{
		Contents: []content{{Parts: []part{
			{Text: prompt},
			{InlineData: &inlineData{MIMEType: mimeType, Data: base64.StdEncoding.EncodeToString(data)}},
		}}},
		GenerationConfig: generationConfig{Temperature: 0.3, MaxOutputTokens: 1024, TopP: 0.8, TopK: 40},
		SafetySettings:   defaultSafetySettings,
	}
	return c.generate(ctx, req)
}

func (c *Client) generate(ctx context.Context, req generateRequest) (string, error) {
	// Config is checked here, before any network attempt, so a missing key
	// surfaces as one clear error instead of a confusing 4xx.
	if c.apiKey == "" || c.baseURL == "" {
		return "", ErrNotConfigured
	}
	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"?key="+c.apiKey, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("genai: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Surface the raw payload for diagnostics. No retry at this layer.
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("genai: request failed: %s: %s", resp.Status, bytes.TrimSpace(payload))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("genai: decode response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("genai: response missing candidate text")
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
