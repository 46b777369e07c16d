package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"issue-workflow-api/internal/domain"
	"issue-workflow-api/internal/metrics"
)

func authServer(t *testing.T, status int, body TokenValidationResponse) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, validatePath, r.URL.Path)
		var req TokenValidationRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "tok", req.Token)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAuthClient_ValidateToken(t *testing.T) {
	userID := uuid.New()

	t.Run("성공: 사용자와 역할", func(t *testing.T) {
		srv := authServer(t, http.StatusOK, TokenValidationResponse{UserID: userID.String(), Roles: []string{"manager"}, Valid: true})
		m := metrics.NewWithRegistry(prometheus.NewRegistry(), nil)
		c := NewAuthClient(srv.URL, time.Second, nil, m)

		gotID, roles, err := c.ValidateToken(context.Background(), "tok")

		require.NoError(t, err)
		assert.Equal(t, userID, gotID)
		assert.Equal(t, []domain.Role{"manager"}, roles)

		var metric dto.Metric
		require.NoError(t, m.ExternalAPIRequestsTotal.WithLabelValues(validatePath, "POST", "200").Write(&metric))
		assert.Equal(t, float64(1), metric.GetCounter().GetValue())
	})

	t.Run("실패: valid=false", func(t *testing.T) {
		srv := authServer(t, http.StatusOK, TokenValidationResponse{Valid: false, Message: "revoked"})
		c := NewAuthClient(srv.URL, time.Second, nil, nil)

		_, _, err := c.ValidateToken(context.Background(), "tok")

		assert.ErrorContains(t, err, "revoked")
	})

	t.Run("실패: 401", func(t *testing.T) {
		srv := authServer(t, http.StatusUnauthorized, TokenValidationResponse{})
		c := NewAuthClient(srv.URL, time.Second, nil, nil)

		_, _, err := c.ValidateToken(context.Background(), "tok")

		assert.ErrorContains(t, err, "401")
	})

	t.Run("실패: 잘못된 사용자 ID", func(t *testing.T) {
		srv := authServer(t, http.StatusOK, TokenValidationResponse{UserID: "x", Valid: true})
		c := NewAuthClient(srv.URL, time.Second, nil, nil)

		_, _, err := c.ValidateToken(context.Background(), "tok")

		assert.Error(t, err)
	})
}
