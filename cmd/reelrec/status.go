package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func statusCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the state of the vector index",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, envFile)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")

	return cmd
}

func runStatus(cmd *cobra.Command, envFile string) error {
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

	status, err := client.Engine().IndexStatus(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("Indexed games:   %d\n", status.Stats().Count())
	fmt.Printf("Storage:         %s\n", status.Stats().Mode())
	fmt.Printf("Health:          %s\n", status.Stats().Health())
	fmt.Printf("Embedding model: %s\n", status.EmbeddingModel())
	fmt.Printf("Ready:           %t\n", status.ReadyForRecommendations())
	return nil
}
