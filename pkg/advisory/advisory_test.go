package advisory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPChecker(t *testing.T) {
	t.Run("reports a hold when the service flags an interaction", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/interactions/check", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"warning":"Warfarin and aspirin increase bleeding risk."}`))
		}))
		defer srv.Close()

		checker := NewHTTPChecker(Config{BaseURL: srv.URL})
		hold := checker.CheckInteractions(context.Background(), []string{"Warfarin", "Aspirin"})
		require.NotNil(t, hold)
		assert.Contains(t, hold.Warning, "bleeding risk")
	})

	t.Run("no hold when the service reports safe", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"warning":"No significant interactions detected."}`))
		}))
		defer srv.Close()

		checker := NewHTTPChecker(Config{BaseURL: srv.URL})
		assert.Nil(t, checker.CheckInteractions(context.Background(), []string{"A", "B"}))
	})

	t.Run("single medicine carts are never checked", func(t *testing.T) {
		checker := NewHTTPChecker(Config{BaseURL: "http://127.0.0.1:1"})
		assert.Nil(t, checker.CheckInteractions(context.Background(), []string{"Paracetamol"}))
	})

	t.Run("fails open on unreachable service", func(t *testing.T) {
		checker := NewHTTPChecker(Config{BaseURL: "http://127.0.0.1:1", Timeout: 200 * time.Millisecond})
		assert.Nil(t, checker.CheckInteractions(context.Background(), []string{"A", "B"}))
	})

	t.Run("fails open on server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		checker := NewHTTPChecker(Config{BaseURL: srv.URL})
		assert.Nil(t, checker.CheckInteractions(context.Background(), []string{"A", "B"}))
	})

	t.Run("fails open on malformed response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}))
		defer srv.Close()

		checker := NewHTTPChecker(Config{BaseURL: srv.URL})
		assert.Nil(t, checker.CheckInteractions(context.Background(), []string{"A", "B"}))
	})
}

func TestNullChecker(t *testing.T) {
	checker := NewNullChecker()
	assert.Nil(t, checker.CheckInteractions(context.Background(), []string{"A", "B", "C"}))
}
