// Package llm provides the HTTP client for the external idea validation
// service. The service wraps a language model; prompt construction and
// response shaping happen on its side, this client only carries the
// structured request and response.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nicheshunter/nicheshunter/ports"
)

// Config holds validator service configuration.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Validator implements ports.IdeaValidator against the validation service.
type Validator struct {
	config     Config
	httpClient *http.Client
}

// NewValidator creates a new validation service client.
func NewValidator(config Config) *Validator {
	timeout := config.Timeout
	if timeout == 0 {
		// Model-backed calls are slow; default well above a normal API call.
		timeout = 60 * time.Second
	}
	return &Validator{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
	}
}

var _ ports.IdeaValidator = (*Validator)(nil)

type validateRequest struct {
	Idea  string   `json:"idea"`
	Steps []string `json:"steps"`
}

// Validate submits an idea for analysis and returns per-step verdicts.
func (v *Validator) Validate(ctx context.Context, idea string, steps []string) (ports.ValidationResult, error) {
	body, err := json.Marshal(validateRequest{Idea: idea, Steps: steps})
	if err != nil {
		return ports.ValidationResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.config.BaseURL+"/v1/validate", bytes.NewReader(body))
	if err != nil {
		return ports.ValidationResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if v.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+v.config.APIKey)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return ports.ValidationResult{}, fmt.Errorf("validation service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Cap the error body so a misbehaving service can't flood logs.
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return ports.ValidationResult{}, fmt.Errorf("validation service: status %d: %s", resp.StatusCode, msg)
	}

	var result ports.ValidationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return ports.ValidationResult{}, fmt.Errorf("validation service: decode response: %w", err)
	}
	return result, nil
}
