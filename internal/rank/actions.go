package rank

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dtnitsch/nft-rarity/models"
	"github.com/dtnitsch/nft-rarity/pkg/caching"
	"github.com/dtnitsch/nft-rarity/pkg/rarity"
	"github.com/dtnitsch/nft-rarity/pkg/report"
	"github.com/urfave/cli/v2"
)

// NewLogger builds the JSON stderr logger shared by all commands.
func NewLogger(c *cli.Context) *slog.Logger {
	logLevel := slog.LevelInfo
	if c.Bool("verbose") {
		logLevel = slog.LevelDebug
	}
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// LoadConfig reads the config file named by --config and applies flag overrides.
func LoadConfig(c *cli.Context) (*models.Config, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}
	applyFlags(c, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func applyFlags(c *cli.Context, cfg *models.Config) {
	if c.IsSet("indexer-url") {
		cfg.IndexerURL = c.String("indexer-url")
	}
	if c.IsSet("contract") {
		cfg.Contract = c.String("contract")
	}
	if c.IsSet("gateway") {
		cfg.GatewayURL = c.String("gateway")
	}
	if c.IsSet("collection-total") {
		cfg.CollectionTotal = c.Int("collection-total")
	}
	if c.IsSet("cache-dir") {
		cfg.Cache.Dir = c.String("cache-dir")
	}
	if c.IsSet("stale-delay") {
		cfg.Cache.StaleDelay = c.Duration("stale-delay")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("id-padding") {
		cfg.IDPadding = c.Int("id-padding")
	}
	if c.IsSet("tie-break") {
		cfg.TieBreak = models.TieBreak(c.String("tie-break"))
	}
	if c.IsSet("top") {
		cfg.TopN = c.Int("top")
	}
	if c.IsSet("by-rank") {
		cfg.Reports.ByRank = c.String("by-rank")
	}
	if c.IsSet("by-id") {
		cfg.Reports.ByID = c.String("by-id")
	}
	if c.IsSet("traits") {
		cfg.Reports.Traits = c.String("traits")
	}
	if c.IsSet("summary") {
		cfg.Reports.Summary = c.String("summary")
	}
	if c.IsSet("db") {
		cfg.Database.Path = c.String("db")
	}
}

func RankAction(c *cli.Context) error {
	logger := NewLogger(c)

	cfg, err := LoadConfig(c)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(2)
	}

	result, err := Run(c.Context, logger, cfg)
	if err != nil {
		logger.Error("ranking run failed", "error", err)
		os.Exit(2)
	}

	if c.Bool("quiet") {
		return nil
	}

	fmt.Printf("Ranked %d tokens (collection total %d) in %.1fs\n",
		len(result.Ranked), cfg.CollectionTotal, result.Stats.TotalTimeSeconds)
	fmt.Printf("Metadata: %d cached, %d fetched, %d refetched\n",
		result.Stats.count(caching.SourceCache), result.Stats.count(caching.SourceNetwork), result.Stats.count(caching.SourceRefetched))

	fmt.Printf("\nTop %d:\n", cfg.TopN)
	for _, tok := range rarity.TopN(result.Ranked, cfg.TopN) {
		fmt.Printf("%4d. #%s  %-20s %s\n", tok.Rank, report.FormatID(tok.ID, cfg.IDPadding), tok.Name, report.FormatScore(tok.Score))
	}

	if result.RunID > 0 {
		fmt.Printf("\nRun %d saved. Details: nft-rarity show %d\n", result.RunID, result.RunID)
	}
	return nil
}
