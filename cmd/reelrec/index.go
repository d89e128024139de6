package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reelrec/reelrec/domain/game"
)

func indexCmd() *cobra.Command {
	var (
		envFile string
		catalog string
	)

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build the vector index from a catalog file",
		Long: `Build the vector index from a catalog JSON file.

Every game is turned into a natural-language overview, embedded, and
upserted into the vector store. Re-running the command refreshes existing
entries in place. Requires a configured EMBEDDING_ENDPOINT.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd, envFile, catalog)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&catalog, "catalog", "", "Catalog JSON path (default: CATALOG_PATH)")

	return cmd
}

func runIndex(cmd *cobra.Command, envFile, catalog string) error {
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

	path := catalog
	if path == "" {
		path = client.CatalogPath()
	}

	games, err := game.LoadCatalog(path)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	indexed, err := client.Engine().BuildIndex(ctx, games)
	if err != nil {
		return err
	}

	status, err := client.Engine().IndexStatus(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Indexed %d of %d games (%s)\n", indexed, len(games), status.Stats().Mode())
	return nil
}
