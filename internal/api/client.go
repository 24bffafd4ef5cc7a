package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nshetty/vidlens/internal/analysis"
)

const defaultHTTPTimeout = 90 * time.Second

// Client talks to the analysis backend over plain request/response HTTP.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient builds a client rooted at baseURL. A nil httpClient falls back to
// a default with a generous timeout; callers cancel via context.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
	}
}

// AnswerKind discriminates the two shapes an ask response can take.
type AnswerKind int

const (
	// AnswerSingle carries one answer tagged with the backend's declared kind.
	AnswerSingle AnswerKind = iota
	// AnswerDual carries a transcript-grounded answer and a general-knowledge
	// answer for the same question.
	AnswerDual
)

// Answer is the decoded ask response. The discrimination on the wire-level
// "type" field happens exactly once, here at the transport boundary.
type Answer struct {
	Kind AnswerKind

	// Single answer fields.
	Mode string
	Text string

	// Dual answer fields.
	TranscriptText string
	GeneralText    string
}

// Analyze submits a video URL and returns the produced analysis result.
func (c *Client) Analyze(ctx context.Context, url string) (*analysis.Result, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("video url cannot be empty")
	}
	body, err := c.post(ctx, "/api/analyze", map[string]string{"url": url})
	if err != nil {
		return nil, err
	}
	var result analysis.Result
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode analyze response: %w", err)
	}
	return &result, nil
}

// Ask submits one question about a video. The mode is a client-local
// answer-shaping hint forwarded to the backend; the response shape alone
// dictates how the answer fans out.
func (c *Client) Ask(ctx context.Context, videoID, question, mode string) (Answer, error) {
	if strings.TrimSpace(question) == "" {
		return Answer{}, fmt.Errorf("question cannot be empty")
	}
	body, err := c.post(ctx, "/api/ask", map[string]string{
		"video_id": videoID,
		"question": question,
		"mode":     mode,
	})
	if err != nil {
		return Answer{}, err
	}

	var parsed struct {
		Type             string `json:"type"`
		Answer           string `json:"answer"`
		TranscriptAnswer string `json:"transcript_answer"`
		GeneralAnswer    string `json:"general_answer"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Answer{}, fmt.Errorf("decode ask response: %w", err)
	}
	if parsed.Type == "beyond" {
		return Answer{
			Kind:           AnswerDual,
			TranscriptText: parsed.TranscriptAnswer,
			GeneralText:    parsed.GeneralAnswer,
		}, nil
	}
	return Answer{Kind: AnswerSingle, Mode: parsed.Type, Text: parsed.Answer}, nil
}

// Health probes the backend liveness endpoint and returns the reported status.
// Only startup tooling calls this; the session controller never does.
func (c *Client) Health(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return "", err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("health check returned %s", resp.Status)
	}
	var parsed struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode health response: %w", err)
	}
	return parsed.Status, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("backend error: %s (%s)", resp.Status, strings.TrimSpace(string(body)))
	}
	return body, nil
}
