package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func recommendCmd() *cobra.Command {
	var (
		envFile    string
		candidates int
		top        int
	)

	cmd := &cobra.Command{
		Use:   "recommend <game-name>",
		Short: "Recommend games similar to the given game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecommend(cmd, envFile, args[0], candidates, top)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().IntVar(&candidates, "candidates", 0, "Vector-search candidate pool size (default: NUM_CANDIDATES)")
	cmd.Flags().IntVar(&top, "top", 0, "Number of recommendations (default: NUM_FINAL)")

	return cmd
}

func runRecommend(cmd *cobra.Command, envFile, gameID string, candidates, top int) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg)

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if candidates <= 0 {
		candidates = cfg.NumCandidates()
	}
	if top <= 0 {
		top = cfg.NumFinal()
	}

	recs, err := client.Engine().Recommendations(cmd.Context(), gameID, candidates, top)
	if err != nil {
		return err
	}

	if len(recs) == 0 {
		fmt.Printf("No recommendations for %q. Is the game indexed?\n", gameID)
		return nil
	}

	fmt.Printf("Recommendations for %q:\n\n", gameID)
	for _, rec := range recs {
		fmt.Printf("%d. %s (score %.3f, vector %.3f)\n", rec.Rank(), rec.ID(), rec.Score(), rec.VectorScore())
		fmt.Printf("   %s\n", rec.Explanation())
		if tags := rec.KeySimilarities(); len(tags) > 0 {
			fmt.Printf("   Similarities: %s\n", strings.Join(tags, ", "))
		}
		fmt.Println()
	}
	return nil
}
