package strategy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"toolwatch/internal/entity"
	"toolwatch/pkg/logger"
	"toolwatch/pkg/utils"
)

// HTTPToolDetails defines the structure for HTTP tool payloads.
type HTTPToolDetails struct {
	URL     string            `json:"url"`
	Method  string            `json:"method"`
	Headers map[string]string `json:"headers"`
	Body    json.RawMessage   `json:"body"`
}

// HTTPStrategy executes HTTP-based tools.
type HTTPStrategy struct {
	logger *logger.Logger
}

// NewHTTPStrategy creates a new HTTPStrategy.
func NewHTTPStrategy(log *logger.Logger) ToolExecutionStrategy {
	return &HTTPStrategy{logger: log}
}

// GetType returns the tool type this strategy handles.
func (s *HTTPStrategy) GetType() entity.ToolType {
	return entity.ToolTypeHTTP
}

// Execute performs the HTTP request defined in the tool's payload. A
// non-2xx status is not an error here: it lands in the outcome as return
// code 1 so the caller can record it.
func (s *HTTPStrategy) Execute(ctx context.Context, tool *entity.Tool, task *entity.InvocationTask) (*Outcome, error) {
	var details HTTPToolDetails
	if err := json.Unmarshal(tool.Payload, &details); err != nil {
		s.logger.Error("Failed to unmarshal tool payload", logger.ErrorField(err), logger.Field("tool", tool.Name))
		return nil, fmt.Errorf("failed to unmarshal tool payload: %w", err)
	}
	if details.Method == "" {
		details.Method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, details.Method, details.URL, bytes.NewBuffer(details.Body))
	if err != nil {
		s.logger.Error("Failed to create HTTP request", logger.ErrorField(err), logger.Field("tool", tool.Name))
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	for key, value := range details.Headers {
		req.Header.Set(key, value)
	}

	client := &http.Client{}
	start := time.Now()
	resp, err := client.Do(req)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		s.logger.Error("Failed to execute HTTP request", logger.ErrorField(err), logger.Field("tool", tool.Name))
		return nil, fmt.Errorf("failed to execute HTTP request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		s.logger.Error("Failed to read response body", logger.ErrorField(err), logger.Field("tool", tool.Name))
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	outcome := &Outcome{
		Command:       fmt.Sprintf("%s %s", details.Method, details.URL),
		Stdout:        utils.CleanToValidUTF8(string(bodyBytes)),
		ExecutionTime: elapsed,
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		outcome.ReturnCode = 1
		outcome.Stderr = fmt.Sprintf("http request failed with status code %d", resp.StatusCode)
	}

	s.logger.Info("HTTP tool executed", logger.Field("tool", tool.Name), logger.Field("status_code", resp.StatusCode))
	return outcome, nil
}
