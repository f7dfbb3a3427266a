package history

import (
	"fmt"
	"strings"

	"github.com/dtnitsch/nft-rarity/models"
	dbpkg "github.com/dtnitsch/nft-rarity/pkg/db"
	"github.com/dtnitsch/nft-rarity/pkg/report"
	"github.com/urfave/cli/v2"
)

func openDatabase(c *cli.Context) (*dbpkg.DB, int, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return nil, 0, err
	}
	if c.IsSet("db") {
		cfg.Database.Path = c.String("db")
	}
	if cfg.Database.Path == "" {
		return nil, 0, fmt.Errorf("run history is disabled (database.path is empty)")
	}
	database, err := dbpkg.Open(cfg.Database.Path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open database: %w", err)
	}
	return database, cfg.IDPadding, nil
}

// RunsAction lists stored ranking runs.
func RunsAction(c *cli.Context) error {
	database, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runs, err := database.ListRuns(c.Int("limit"))
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No runs found")
		return nil
	}

	fmt.Printf("%-6s %-20s %-38s %-7s %-7s %-7s %-7s %-7s\n",
		"ID", "Created", "Contract", "Total", "Tokens", "Cached", "Fetched", "Stale")
	fmt.Println(strings.Repeat("-", 106))

	for _, r := range runs {
		fmt.Printf("%-6d %-20s %-38s %-7d %-7d %-7d %-7d %-7d\n",
			r.RunID,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Contract,
			r.CollectionTotal,
			r.TokenCount,
			r.CacheHits,
			r.NetworkFetches,
			r.Refetched,
		)
	}

	fmt.Printf("\nTotal: %d runs\n", len(runs))
	fmt.Printf("\nTip: Use 'nft-rarity show <id>' to see the leaderboard\n")
	return nil
}

// ShowAction prints the leaderboard of a run, the latest when no ID is given.
func ShowAction(c *cli.Context) error {
	database, pad, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runID, err := runIDOrLatest(c, database)
	if err != nil {
		return err
	}

	run, err := database.GetRun(runID)
	if err != nil {
		return err
	}

	fmt.Printf("Run %d  %s  %s\n", run.RunID, run.CreatedAt.Format("2006-01-02 15:04:05"), run.Contract)
	fmt.Printf("Tokens: %d of %d  Trait pairs: %d  Tie-break: %s\n\n",
		run.TokenCount, run.CollectionTotal, run.TraitPairs, run.TieBreak)

	top, err := database.TopTokens(runID, c.Int("top"))
	if err != nil {
		return err
	}
	for _, s := range top {
		fmt.Printf("%4d. #%s  %-20s %s\n", s.Rank, report.FormatID(s.TokenID, pad), s.Name, report.FormatScore(s.Score))
	}

	if !c.Bool("traits") {
		return nil
	}

	stats, err := database.GetTraitStats(runID)
	if err != nil {
		return err
	}
	fmt.Printf("\nTraits (rarest first):\n")
	for _, ts := range stats {
		fmt.Printf("  %-24s %-24s %6d  %8.4f%%\n", ts.Name, ts.Value, ts.Count, ts.Percentage*100)
	}
	return nil
}

// runIDOrLatest returns the run ID from args, or the latest run if not provided
func runIDOrLatest(c *cli.Context, database *dbpkg.DB) (int64, error) {
	if c.NArg() == 0 {
		runs, err := database.ListRuns(1)
		if err != nil {
			return 0, fmt.Errorf("failed to get latest run: %w", err)
		}
		if len(runs) == 0 {
			return 0, fmt.Errorf("no runs found. Run 'nft-rarity rank' first")
		}
		return runs[0].RunID, nil
	}

	var runID int64
	if _, err := fmt.Sscanf(c.Args().First(), "%d", &runID); err != nil {
		return 0, fmt.Errorf("invalid run ID: %s", c.Args().First())
	}
	return runID, nil
}
