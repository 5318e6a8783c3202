package alerting

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSummary() RunSummary {
	return RunSummary{
		RunID:            uuid.New(),
		FinishedAt:       time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		SnapshotsLoaded:  2,
		SnapshotsFailed:  1,
		RowsScored:       1500,
		HiddenGems:       40,
		Overpriced:       60,
		FairPriced:       1400,
		UnseenCategories: 3,
	}
}

func TestTelegramNotify(t *testing.T) {
	var gotPath string
	var gotPayload map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	n := NewTelegramNotifier("token123", "chat42", server.URL, 5*time.Second, zerolog.Nop())
	summary := testSummary()
	require.NoError(t, n.Notify(context.Background(), summary))

	assert.Equal(t, "/bottoken123/sendMessage", gotPath)
	assert.Equal(t, "chat42", gotPayload["chat_id"])
	assert.Contains(t, gotPayload["text"], "Rows scored: 1500")
	assert.Contains(t, gotPayload["text"], "Hidden Gems: 40")
	assert.Contains(t, gotPayload["text"], "Unseen categories: 3")
}

func TestTelegramNotifyAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer server.Close()

	n := NewTelegramNotifier("token", "chat", server.URL, 5*time.Second, zerolog.Nop())
	err := n.Notify(context.Background(), testSummary())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ok=false")
}

func TestTelegramNotifyHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	n := NewTelegramNotifier("token", "chat", server.URL, 5*time.Second, zerolog.Nop())
	err := n.Notify(context.Background(), testSummary())
	assert.Error(t, err)
}

func TestRenderSummaryOmitsZeroUnseen(t *testing.T) {
	summary := testSummary()
	summary.UnseenCategories = 0
	assert.NotContains(t, renderSummary(summary), "Unseen categories")
}
