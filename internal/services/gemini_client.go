package services

import (
  "bytes"
  "context"
  "encoding/json"
  "fmt"
  "io"
  "net/http"
  "os"
  "strconv"
  "strings"
  "time"

  "github.com/goalforge/goalforge-backend/internal/logger"
)

// GeminiClient is the boundary to the external text-generation service. It
// returns whatever free-form text the model produced; callers own all
// interpretation of that text.
type GeminiClient interface {
  GenerateText(ctx context.Context, prompt string) (string, error)
}

type geminiClient struct {
  log        *logger.Logger
  baseURL    string
  apiKey     string
  model      string
  httpClient *http.Client
}

func NewGeminiClient(log *logger.Logger) (GeminiClient, error) {
  apiKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
  if apiKey == "" {
    return nil, fmt.Errorf("missing GEMINI_API_KEY")
  }

  baseURL := os.Getenv("GEMINI_BASE_URL")
  if baseURL == "" {
    baseURL = "https://generativelanguage.googleapis.com/v1beta"
  }
  baseURL = strings.TrimRight(baseURL, "/")

  model := os.Getenv("GEMINI_MODEL")
  if model == "" {
    model = "gemini-1.5-flash"
  }

  timeoutSec := 180
  if v := os.Getenv("GEMINI_TIMEOUT_SECONDS"); v != "" {
    if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
      timeoutSec = parsed
    }
  }

  return &geminiClient{
    log:        log.With("service", "GeminiClient"),
    baseURL:    baseURL,
    apiKey:     apiKey,
    model:      model,
    httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
  }, nil
}

type geminiHTTPError struct {
  StatusCode int
  Body       string
}

func (e *geminiHTTPError) Error() string {
  return fmt.Sprintf("gemini http %d: %s", e.StatusCode, e.Body)
}

type geminiPart struct {
  Text string `json:"text,omitempty"`
}

type geminiContent struct {
  Parts []geminiPart `json:"parts"`
}

type geminiGenerateRequest struct {
  Contents []geminiContent `json:"contents"`
}

type geminiGenerateResponse struct {
  Candidates []struct {
    Content      geminiContent `json:"content"`
    FinishReason string        `json:"finishReason,omitempty"`
  } `json:"candidates"`
}

func (c *geminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
  req := geminiGenerateRequest{
    Contents: []geminiContent{
      {Parts: []geminiPart{{Text: prompt}}},
    },
  }

  var buf bytes.Buffer
  if err := json.NewEncoder(&buf).Encode(req); err != nil {
    return "", err
  }

  url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
  httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
  if err != nil {
    return "", err
  }
  httpReq.Header.Set("Content-Type", "application/json")

  resp, err := c.httpClient.Do(httpReq)
  if err != nil {
    return "", err
  }
  raw, readErr := io.ReadAll(resp.Body)
  _ = resp.Body.Close()
  if readErr != nil {
    return "", readErr
  }
  if resp.StatusCode < 200 || resp.StatusCode >= 300 {
    return "", &geminiHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
  }

  var out geminiGenerateResponse
  if err := json.Unmarshal(raw, &out); err != nil {
    return "", fmt.Errorf("gemini decode error: %w", err)
  }

  var text strings.Builder
  for _, cand := range out.Candidates {
    for _, part := range cand.Content.Parts {
      text.WriteString(part.Text)
    }
    // only the first candidate is requested or used
    break
  }
  return text.String(), nil
}
