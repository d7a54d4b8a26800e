package main

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/bananamirror/relay"
	"github.com/bananamirror/relay/config"
)

var removeCmd = &cobra.Command{
	Use:   "remove [flags] <name1> [name2] ...",
	Short: "Delete files straight from a category bucket",
	Long: `Delete stored files from a configured bucket without going through the
HTTP API. Names are removed in batches of 50.

Examples:
  relay remove -C screenshots a.png
  relay remove -C mods author_old.zip author_older.zip`,
	Args:        cobra.MinimumNArgs(1),
	Annotations: map[string]string{needsConfig: ""},
	RunE:        runRemove,
}

var removeCategory string

func init() {
	removeCmd.Flags().StringVarP(&removeCategory, "category", "C", "", "target category: mods, screenshots or richPresenceIcons")
	_ = removeCmd.MarkFlagRequired("category")
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	category, err := relay.ParseCategory(removeCategory)
	if err != nil {
		return err
	}

	batches, err := deletionBatches(category, args)
	if err != nil {
		return err
	}

	dispatcher, closeBuckets, err := openDispatcher(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeBuckets()

	removed := 0
	for _, batch := range batches {
		msg, dispatchErr := dispatcher.Dispatch(ctx, batch)
		if dispatchErr != nil {
			return fmt.Errorf("remove batch starting at %s: %w", batch.FileNames[0], dispatchErr)
		}
		removed += len(batch.FileNames)
		slog.Info("removed", "count", len(batch.FileNames), "result", msg)
	}

	slog.Info("remove complete", "category", category, "removed", removed)
	return nil
}

// deletionBatches splits names into validated requests of at most
// relay.MaxDeleteBatch names. Nothing is returned unless every batch is valid.
func deletionBatches(category relay.Category, names []string) ([]*relay.DeletionRequest, error) {
	var batches []*relay.DeletionRequest
	for batch := range slices.Chunk(names, relay.MaxDeleteBatch) {
		req := &relay.DeletionRequest{Category: category, FileNames: batch}
		if err := relay.Validate(req); err != nil {
			return nil, err
		}
		batches = append(batches, req)
	}
	return batches, nil
}
