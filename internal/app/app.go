package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/deividalexander/investment-opportunity-engine/internal/alerting"
	"github.com/deividalexander/investment-opportunity-engine/internal/artifacts"
	"github.com/deividalexander/investment-opportunity-engine/internal/config"
	"github.com/deividalexander/investment-opportunity-engine/internal/encoder"
	"github.com/deividalexander/investment-opportunity-engine/internal/ingest"
	"github.com/deividalexander/investment-opportunity-engine/internal/scoring"
	"github.com/deividalexander/investment-opportunity-engine/internal/storage"
	"github.com/deividalexander/investment-opportunity-engine/internal/textscore"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) artifactPaths() artifacts.Paths {
	cfg := a.Config.Artifacts
	return artifacts.Paths{
		Dir:               cfg.Dir,
		ModelFile:         cfg.ModelFile,
		RoomTypeFile:      cfg.RoomTypeFile,
		NeighbourhoodFile: cfg.NeighbourhoodFile,
		KeywordsFile:      cfg.KeywordsFile,
	}
}

// snapshotSources materialises the configured snapshot list.
func (a *App) snapshotSources() ([]ingest.Source, error) {
	sources := make([]ingest.Source, 0, len(a.Config.Pipeline.Snapshots))
	for _, src := range a.Config.Pipeline.Snapshots {
		date, err := src.SnapshotDate()
		if err != nil {
			return nil, err
		}
		policy := src.Policy
		if policy == "" {
			policy = ingest.DirectRestrict
		}
		sources = append(sources, ingest.Source{Path: src.Path, Date: date, Policy: policy})
	}
	return sources, nil
}

// newScorer wires the loaded artifact bundle into a scorer with the
// configured fallback strategy and gap threshold.
func (a *App) newScorer(bundle *artifacts.Bundle) (*scoring.Scorer, error) {
	strategy, err := encoder.ParseFallback(a.Config.Scoring.FallbackStrategy)
	if err != nil {
		return nil, err
	}

	rooms := encoder.New(bundle.RoomTypes, strategy)
	neighbourhoods := encoder.New(bundle.Neighbourhoods, strategy)
	text := textscore.New(bundle.Keywords)
	threshold := decimal.NewFromFloat(a.Config.Scoring.GapThreshold)

	return scoring.New(bundle.Model, rooms, neighbourhoods, text, threshold, a.Logger), nil
}

func (a *App) newNotifier() alerting.Notifier {
	if a.Config.Notify.Enabled && a.Config.Notify.Telegram.Enabled {
		cfg := a.Config.Notify.Telegram
		return alerting.NewTelegramNotifier(cfg.BotToken, cfg.ChatID, cfg.APIBase, 10*time.Second, a.Logger)
	}
	return nil
}

func (a *App) openStore(ctx context.Context) (*storage.Store, func(), error) {
	if a.Config.Database.DSN == "" {
		return nil, nil, nil
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, nil, err
	}

	store := storage.NewStore(pool)
	closer := func() {
		store.Close()
	}
	return store, closer, nil
}

// ETLOptions configure the ETL stage.
type ETLOptions struct {
	SilverPath string
}

// ScoreOptions configure the scoring stage.
type ScoreOptions struct {
	SilverPath string
	GoldPath   string
}

// RunOptions configure the end-to-end pipeline command.
type RunOptions struct {
	Watch bool
}

// PredictOptions carry one online record plus an optional asking price.
type PredictOptions struct {
	Accommodates            int
	RoomType                string
	NumberOfReviewsLTM      float64
	ReviewScoresRating      float64
	ReviewScoresCleanliness float64
	ReviewScoresLocation    float64
	IsSuperhost             bool
	Neighbourhood           string
	Description             string
	AskingPrice             *float64
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Limit int
	Runs  bool
}

// ExportOptions hold parameters for exporting classified data.
type ExportOptions struct {
	GoldPath  string
	CSVPath   string
	PNGPath   string
	MaxPoints int
}
