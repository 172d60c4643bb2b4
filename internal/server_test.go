package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"redsys-orders/entity"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReconciler struct {
	result *entity.SweepResult
	err    error
	scope  string
}

func (s *stubReconciler) Run(_ context.Context, scope string) (*entity.SweepResult, error) {
	s.scope = scope
	return s.result, s.err
}

func newTestServer(values map[string]interface{}, reconciler *stubReconciler, orders ...*entity.Order) *Server {
	return NewServer(nil, newTestPayments(values, orders...), reconciler)
}

func doRequest(t *testing.T, server *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServer_PaymentRequest(t *testing.T) {
	server := newTestServer(testMerchantValues(), &stubReconciler{}, testOrder())

	rec := doRequest(t, server, http.MethodPost, "/payment/"+testOrderId, `{"store":"default","logged_in":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var request entity.PaymentRequest
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &request))
	assert.Equal(t, "HMAC_SHA256_V1", request.SignatureVersion)
	assert.NotEmpty(t, request.Parameters)
	assert.NotEmpty(t, request.Signature)
	assert.NotEmpty(t, request.Url)
}

func TestServer_PaymentRequestErrors(t *testing.T) {
	incomplete := testOrder()
	incomplete.IncrementId = "000000124"
	incomplete.Currency = ""

	tests := []struct {
		name   string
		values map[string]interface{}
		path   string
		body   string
		want   int
	}{
		{"not found", testMerchantValues(), "/payment/404", "", http.StatusNotFound},
		{"incomplete order", testMerchantValues(), "/payment/000000124", "", http.StatusUnprocessableEntity},
		{"configuration missing", map[string]interface{}{}, "/payment/" + testOrderId, "", http.StatusServiceUnavailable},
		{"bad body", testMerchantValues(), "/payment/" + testOrderId, "{", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(tt.values, &stubReconciler{}, testOrder(), incomplete)
			rec := doRequest(t, server, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code)

			var response errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
			assert.NotEmpty(t, response.Error)
			// internal details are not exposed to the storefront
			assert.NotContains(t, response.Error, "currency")
			assert.NotContains(t, response.Error, KeyCommerceName)
		})
	}
}

func TestServer_Reconcile(t *testing.T) {
	reconciler := &stubReconciler{result: &entity.SweepResult{Scope: "default", Enabled: true, Cancelled: 2, Started: testNow, Finished: testNow.Add(time.Second)}}
	server := newTestServer(testMerchantValues(), reconciler)

	rec := doRequest(t, server, http.MethodPost, "/reconcile/default", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "default", reconciler.scope)

	var result entity.SweepResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 2, result.Cancelled)
	assert.True(t, result.Enabled)
}

func TestServer_ReconcileErrors(t *testing.T) {
	busy := &stubReconciler{err: fmt.Errorf("scope default: %w", ErrSweepInProgress)}
	rec := doRequest(t, newTestServer(testMerchantValues(), busy), http.MethodPost, "/reconcile/default", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	broken := &stubReconciler{err: fmt.Errorf("search pending orders: %w", context.DeadlineExceeded)}
	rec = doRequest(t, newTestServer(testMerchantValues(), broken), http.MethodPost, "/reconcile/default", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestServer_HealthAndMetrics(t *testing.T) {
	server := newTestServer(testMerchantValues(), &stubReconciler{}, testOrder())

	rec := doRequest(t, server, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	// a signed request shows up in the payment counter
	rec = doRequest(t, server, http.MethodPost, "/payment/"+testOrderId, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, server, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "redsys_payment_requests_total")

	rec = doRequest(t, server, http.MethodGet, "/payment/"+testOrderId, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServer_StartWithoutConfig(t *testing.T) {
	server := newTestServer(testMerchantValues(), &stubReconciler{})
	assert.Error(t, server.Start())
}

func TestServer_RequestID(t *testing.T) {
	server := newTestServer(testMerchantValues(), &stubReconciler{}, testOrder())

	req := httptest.NewRequest(http.MethodPost, "/payment/"+testOrderId, nil)
	req.Header.Set("X-Request-Id", "checkout-42")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "checkout-42", rec.Header().Get("X-Request-Id"))

	rec = doRequest(t, server, http.MethodPost, "/payment/404", "")
	assert.Len(t, rec.Header().Get("X-Request-Id"), 36)
}

func TestServer_PaymentRequestBodyTooLarge(t *testing.T) {
	server := newTestServer(testMerchantValues(), &stubReconciler{}, testOrder())

	body := `{"store":"default","padding":"` + strings.Repeat("x", maxBodySize) + `"}`
	rec := doRequest(t, server, http.MethodPost, "/payment/"+testOrderId, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_ReconcileInterrupted(t *testing.T) {
	partial := &entity.SweepResult{Scope: "default", Enabled: true, Matched: 5, Cancelled: 2}
	reconciler := &stubReconciler{result: partial, err: fmt.Errorf("scope default: sweep interrupted: %w", context.Canceled)}
	rec := doRequest(t, newTestServer(testMerchantValues(), reconciler), http.MethodPost, "/reconcile/default", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var result entity.SweepResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 2, result.Cancelled)
	assert.Equal(t, 5, result.Matched)
}
