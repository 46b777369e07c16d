package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"issue-workflow-api/internal/domain"
	"issue-workflow-api/internal/metrics"
)

const validatePath = "/api/auth/validate"

// AuthClient validates tokens against the auth service
type AuthClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// TokenValidationRequest is the body sent to the auth service
type TokenValidationRequest struct {
	Token string `json:"token"`
}

// TokenValidationResponse is the auth service answer
type TokenValidationResponse struct {
	UserID  string   `json:"userId"`
	Roles   []string `json:"roles,omitempty"`
	Valid   bool     `json:"valid"`
	Message string   `json:"message,omitempty"`
}

// NewAuthClient creates an AuthClient. m may be nil.
func NewAuthClient(baseURL string, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) *AuthClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		metrics:    m,
	}
}

// ValidateToken returns the user and named roles a token belongs to
func (c *AuthClient) ValidateToken(ctx context.Context, tokenStr string) (uuid.UUID, []domain.Role, error) {
	jsonBody, err := json.Marshal(TokenValidationRequest{Token: tokenStr})
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+validatePath, bytes.NewReader(jsonBody))
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record(0, start, err)
		c.logger.Error("Failed to validate token", zap.Error(err))
		return uuid.Nil, nil, fmt.Errorf("failed to validate token: %w", err)
	}
	defer resp.Body.Close()
	c.record(resp.StatusCode, start, nil)

	if resp.StatusCode != http.StatusOK {
		return uuid.Nil, nil, fmt.Errorf("token validation failed with status: %d", resp.StatusCode)
	}

	var result TokenValidationResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return uuid.Nil, nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if !result.Valid {
		return uuid.Nil, nil, fmt.Errorf("token is not valid: %s", result.Message)
	}

	userID, err := uuid.Parse(result.UserID)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("failed to parse user ID: %w", err)
	}

	roles := make([]domain.Role, 0, len(result.Roles))
	for _, r := range result.Roles {
		roles = append(roles, domain.Role(r))
	}
	return userID, roles, nil
}

func (c *AuthClient) record(status int, start time.Time, err error) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordExternalAPICall(validatePath, http.MethodPost, status, time.Since(start), err)
}
