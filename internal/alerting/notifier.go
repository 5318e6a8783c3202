package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RunSummary describes the outcome of one scoring run for notification.
type RunSummary struct {
	RunID            uuid.UUID
	FinishedAt       time.Time
	SnapshotsLoaded  int
	SnapshotsFailed  int
	RowsScored       int
	HiddenGems       int
	Overpriced       int
	FairPriced       int
	UnseenCategories int64
}

// Notifier delivers run summaries to an external channel.
type Notifier interface {
	Notify(ctx context.Context, summary RunSummary) error
}

// TelegramNotifier pushes run summaries through the Telegram Bot API.
type TelegramNotifier struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
	logger   zerolog.Logger
}

// NewTelegramNotifier constructs a Telegram run-summary notifier.
func NewTelegramNotifier(botToken, chatID, baseURL string, timeout time.Duration, logger zerolog.Logger) *TelegramNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}

	return &TelegramNotifier{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: timeout},
		logger:   logger.With().Str("component", "notify_telegram").Logger(),
	}
}

// Notify sends the rendered summary via the sendMessage API.
func (n *TelegramNotifier) Notify(ctx context.Context, summary RunSummary) error {
	payload := map[string]string{
		"chat_id": n.chatID,
		"text":    renderSummary(summary),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal telegram payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	var result struct {
		OK bool `json:"ok"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err == nil {
		if !result.OK {
			return fmt.Errorf("telegram returned ok=false")
		}
	}

	n.logger.Info().
		Str("run_id", summary.RunID.String()).
		Int("rows_scored", summary.RowsScored).
		Msg("run summary sent (Telegram)")
	return nil
}

func renderSummary(summary RunSummary) string {
	builder := strings.Builder{}
	builder.WriteString("[Opportunity Engine Run]\n")
	builder.WriteString(fmt.Sprintf("Run: %s\n", summary.RunID))
	builder.WriteString(fmt.Sprintf("Finished: %s UTC\n", summary.FinishedAt.UTC().Format(time.RFC3339)))
	builder.WriteString(fmt.Sprintf("Snapshots: %d loaded, %d failed\n", summary.SnapshotsLoaded, summary.SnapshotsFailed))
	builder.WriteString(fmt.Sprintf("Rows scored: %d\n", summary.RowsScored))
	builder.WriteString(fmt.Sprintf("Hidden Gems: %d | Overpriced: %d | Fair: %d\n", summary.HiddenGems, summary.Overpriced, summary.FairPriced))
	if summary.UnseenCategories > 0 {
		builder.WriteString(fmt.Sprintf("Unseen categories: %d\n", summary.UnseenCategories))
	}
	return builder.String()
}

var _ Notifier = (*TelegramNotifier)(nil)
