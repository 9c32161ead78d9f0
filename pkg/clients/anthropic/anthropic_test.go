package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/fleetcheck/internal/domain/models"
)

func pendingRequests() []models.SupplyRequest {
	return []models.SupplyRequest{{
		ID:         "REQ-1",
		MobileID:   "movil-3",
		MobileName: "Móvil 3",
		Status:     models.RequestPending,
		Items:      []models.SupplyItem{{Name: "Guantes", Deficit: 4, Current: "6"}},
	}}
}

func TestSummarizeDispatch(t *testing.T) {
	var got messageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		assert.Equal(t, apiVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"  Móvil 3: 4 guantes  "}]}`))
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "secret", APIURL: srv.URL})
	summary, err := client.SummarizeDispatch(context.Background(), pendingRequests())
	require.NoError(t, err)

	assert.Equal(t, "Móvil 3: 4 guantes", summary)
	assert.Equal(t, defaultModel, got.Model)
	require.Len(t, got.Messages, 1)
	assert.True(t, strings.Contains(got.Messages[0].Content, "Guantes"))
}

func TestSummarizeDispatchErrors(t *testing.T) {
	t.Run("api error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"type":"rate_limit_error"}}`))
		}))
		defer srv.Close()

		_, err := NewClient(Config{APIURL: srv.URL}).SummarizeDispatch(context.Background(), pendingRequests())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
	})

	t.Run("empty content", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"content":[]}`))
		}))
		defer srv.Close()

		_, err := NewClient(Config{APIURL: srv.URL}).SummarizeDispatch(context.Background(), pendingRequests())
		assert.Error(t, err)
	})

	t.Run("nothing pending", func(t *testing.T) {
		_, err := NewClient(Config{}).SummarizeDispatch(context.Background(), nil)
		assert.Error(t, err)
	})
}
