package main

import (
	"fmt"
	"os"

	"github.com/dtnitsch/nft-rarity/internal/history"
	"github.com/dtnitsch/nft-rarity/internal/rank"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:   "nft-rarity",
		Usage:  "Rank an NFT collection by trait rarity and write CSV reports",
		Flags:  append(rank.GlobalFlags(), rank.Flags()...),
		Action: rank.RankAction,
		Commands: []*cli.Command{
			{
				Name:   "rank",
				Usage:  "Fetch the collection, score every token and write reports",
				Flags:  rank.Flags(),
				Action: rank.RankAction,
			},
			{
				Name:   "runs",
				Usage:  "List stored ranking runs",
				Flags:  []cli.Flag{&cli.IntFlag{Name: "limit", Value: 20, Usage: "maximum runs to list"}},
				Action: history.RunsAction,
			},
			{
				Name:      "show",
				Usage:     "Show the leaderboard of a stored run",
				ArgsUsage: "[run-id]",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "top", Value: 25, Usage: "number of tokens to show"},
					&cli.BoolFlag{Name: "traits", Usage: "also list every trait with its frequency"},
				},
				Action: history.ShowAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
