package main

import (
	"github.com/spf13/cobra"

	"github.com/bananamirror/relay"
	"github.com/bananamirror/relay/clientcli"
)

var deleteCategory string

var deleteCmd = &cobra.Command{
	Use:   "delete <file-name> [file-name...]",
	Short: "Delete files from a category bucket",
	Long: `Delete one or more stored files. Names are sent in batches of 50.

Examples:
  relay-cli delete -C screenshots a.png
  relay-cli delete -C mods author_old.zip author_older.zip
  relay-cli delete -q -C richPresenceIcons game_icon.png`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().StringVarP(&deleteCategory, "category", "C", "", "target category: mods, screenshots or richPresenceIcons")
	_ = deleteCmd.MarkFlagRequired("category")
}

func runDelete(cmd *cobra.Command, args []string) error {
	category, err := relay.ParseCategory(deleteCategory)
	if err != nil {
		return reportError(err)
	}

	client, err := getClient()
	if err != nil {
		return reportError(err)
	}

	results, err := client.Delete(cmd.Context(), clientcli.DeleteOptions{
		Category:  category,
		FileNames: args,
	})
	if err != nil {
		return reportError(err)
	}

	if err := getFormatter().FormatDelete(cmd.OutOrStdout(), results); err != nil {
		return err
	}

	// Return error if any deletes failed
	if clientcli.HasDeleteErrors(results) {
		return &exitError{code: 1}
	}
	return nil
}
