package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationMetrics(t *testing.T) {
	ctx := context.Background()

	provider, err := NewProvider()
	require.NoError(t, err)
	defer func() { _ = provider.Shutdown(ctx) }()

	m, err := NewOperationMetrics(provider.MeterProvider(), "sealbox")
	require.NoError(t, err)

	m.RecordOperation(ctx, "encrypt", "hybrid-test", "success")
	m.RecordDuration(ctx, "encrypt", "hybrid-test", 5*time.Millisecond, "success")
	m.RecordFallbackDepth(ctx, 2)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	provider.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "sealbox_operations_total")
	assert.Contains(t, body, "sealbox_operation_duration_seconds")
	assert.Contains(t, body, "sealbox_decrypt_fallback_depth")
}

func TestNoOpOperationMetrics(t *testing.T) {
	ctx := context.Background()
	m := NewNoOpOperationMetrics()

	// Must be safe to call without a provider.
	m.RecordOperation(ctx, "decrypt", "", "error")
	m.RecordDuration(ctx, "decrypt", "", time.Second, "error")
	m.RecordFallbackDepth(ctx, 1)
}
