package rank

import (
	"github.com/urfave/cli/v2"
)

// GlobalFlags are shared by every command.
func GlobalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML config file (missing file means defaults)",
			Value:   "nft-rarity.yaml",
		},
		&cli.StringFlag{
			Name:  "db",
			Usage: "run history database path (empty disables history)",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "only log errors and skip the stdout summary",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "debug logging, including the full attribute tables",
		},
	}
}

// Flags configure a ranking run. They override values from the config file.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "indexer-url", Usage: "TzKT API base URL"},
		&cli.StringFlag{Name: "contract", Usage: "token contract address"},
		&cli.StringFlag{Name: "gateway", Usage: "IPFS HTTP gateway base URL"},
		&cli.IntFlag{Name: "collection-total", Usage: "nominal collection size used as the score numerator"},
		&cli.StringFlag{Name: "cache-dir", Usage: "metadata cache directory"},
		&cli.DurationFlag{Name: "stale-delay", Usage: "pause before refetching a stale cache entry"},
		&cli.IntFlag{Name: "workers", Usage: "parallel metadata fetches (1 = sequential)"},
		&cli.IntFlag{Name: "id-padding", Usage: "zero-pad token ids in reports to this width (0 = none)"},
		&cli.StringFlag{Name: "tie-break", Usage: "order of equal scores: insertion or id"},
		&cli.IntFlag{Name: "top", Usage: "number of tokens in the summary leaderboard"},
		&cli.StringFlag{Name: "by-rank", Usage: "rank-ordered CSV path (empty skips)"},
		&cli.StringFlag{Name: "by-id", Usage: "id-ordered CSV path (empty skips)"},
		&cli.StringFlag{Name: "traits", Usage: "trait frequency CSV path (empty skips)"},
		&cli.StringFlag{Name: "summary", Usage: "YAML run summary path (empty skips)"},
	}
}
