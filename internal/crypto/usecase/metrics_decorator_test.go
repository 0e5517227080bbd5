package usecase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/sealbox/sealbox/internal/crypto/domain"
	"github.com/sealbox/sealbox/internal/metrics"
)

// stubCryptoUseCase lets the decorator be tested without real crypto.
type stubCryptoUseCase struct {
	active          cryptoDomain.SuiteID
	switchOnEncrypt cryptoDomain.SuiteID
	encryptErr      error
	decryptErr      error
	reloadErr       error
}

func (s *stubCryptoUseCase) Encrypt(
	_ context.Context, _ []byte, _ cryptoDomain.KeyMaterial,
) ([]byte, error) {
	if s.switchOnEncrypt != "" {
		s.active = s.switchOnEncrypt
	}
	return []byte("bundle"), s.encryptErr
}

func (s *stubCryptoUseCase) Decrypt(
	_ context.Context, _ []byte, _ cryptoDomain.KeyMaterial,
) ([]byte, error) {
	return []byte("plain"), s.decryptErr
}

func (s *stubCryptoUseCase) ActiveSuiteID() cryptoDomain.SuiteID {
	return s.active
}

func (s *stubCryptoUseCase) Reload(_ context.Context, _ cryptoDomain.Settings) error {
	return s.reloadErr
}

func TestCryptoUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()

	provider, err := metrics.NewProvider()
	require.NoError(t, err)
	defer func() { _ = provider.Shutdown(ctx) }()

	m, err := metrics.NewOperationMetrics(provider.MeterProvider(), "sealbox")
	require.NoError(t, err)

	stub := &stubCryptoUseCase{active: "hybrid-primary", decryptErr: cryptoDomain.ErrDecryptionFailed}
	decorated := NewCryptoUseCaseWithMetrics(stub, m)

	_, err = decorated.Encrypt(ctx, []byte("x"), cryptoDomain.KeyMaterial{})
	require.NoError(t, err)

	_, err = decorated.Decrypt(ctx, []byte("x"), cryptoDomain.KeyMaterial{})
	require.Error(t, err)

	require.NoError(t, decorated.Reload(ctx, cryptoDomain.Settings{}))
	assert.Equal(t, cryptoDomain.SuiteID("hybrid-primary"), decorated.ActiveSuiteID())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	provider.Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	assert.Contains(t, body, `operation="encrypt"`)
	assert.Contains(t, body, `operation="decrypt"`)
	assert.Contains(t, body, `operation="reload"`)
	assert.Contains(t, body, `status="error"`)
	assert.Contains(t, body, `suite="hybrid-primary"`)
}

func TestCryptoUseCaseWithMetricsLabelsEncryptingSuite(t *testing.T) {
	ctx := context.Background()

	provider, err := metrics.NewProvider()
	require.NoError(t, err)
	defer func() { _ = provider.Shutdown(ctx) }()

	m, err := metrics.NewOperationMetrics(provider.MeterProvider(), "sealbox")
	require.NoError(t, err)

	// The active suite flips during Encrypt, as a settings reload racing the
	// call would do. The operation must be labeled with the suite that was
	// active when it started.
	stub := &stubCryptoUseCase{active: "hybrid-primary", switchOnEncrypt: "hybrid-next"}
	decorated := NewCryptoUseCaseWithMetrics(stub, m)

	_, err = decorated.Encrypt(ctx, []byte("x"), cryptoDomain.KeyMaterial{})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	provider.Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	assert.Contains(t, body, `suite="hybrid-primary"`)
	assert.NotContains(t, body, `suite="hybrid-next"`)
}
