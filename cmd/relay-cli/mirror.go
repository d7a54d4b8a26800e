package main

import (
	"github.com/spf13/cobra"

	"github.com/bananamirror/relay"
	"github.com/bananamirror/relay/clientcli"
)

var (
	mirrorCategory string
	mirrorName     string
)

var mirrorCmd = &cobra.Command{
	Use:   "mirror <url>",
	Short: "Have the relay download a URL into a category bucket",
	Long: `Ask the relay to fetch a URL and store the result. The relay performs the
download, so the URL must be reachable from the server.

Examples:
  relay-cli mirror -C screenshots https://cdn.example.com/shots/a.png
  relay-cli mirror -C mods --name author_mod.zip https://example.com/dl?id=42`,
	Args: cobra.ExactArgs(1),
	RunE: runMirror,
}

func init() {
	mirrorCmd.Flags().StringVarP(&mirrorCategory, "category", "C", "", "target category: mods, screenshots or richPresenceIcons")
	mirrorCmd.Flags().StringVarP(&mirrorName, "name", "n", "", "stored file name (default: last segment of the URL path)")
	_ = mirrorCmd.MarkFlagRequired("category")
}

func runMirror(cmd *cobra.Command, args []string) error {
	category, err := relay.ParseCategory(mirrorCategory)
	if err != nil {
		return reportError(err)
	}

	client, err := getClient()
	if err != nil {
		return reportError(err)
	}

	result, err := client.Mirror(cmd.Context(), clientcli.MirrorOptions{
		Category: category,
		URL:      args[0],
		FileName: mirrorName,
	})
	if err != nil {
		return reportError(err)
	}

	return getFormatter().FormatMirror(cmd.OutOrStdout(), result)
}
