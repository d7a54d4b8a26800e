package main

import (
	"github.com/spf13/cobra"

	"github.com/bananamirror/relay"
	"github.com/bananamirror/relay/clientcli"
)

var (
	uploadCategory string
	uploadName     string
)

var uploadCmd = &cobra.Command{
	Use:   "upload <local-path> [local-path...]",
	Short: "Upload files into a category bucket",
	Long: `Upload one or more local files. Each file is base64-encoded, signed and
sent as its own request. Underscores in the stored name become path
separators in the public URL.

Examples:
  relay-cli upload --category mods ./author_mod.zip
  relay-cli upload -C screenshots ./a.png ./b.png
  relay-cli upload -C richPresenceIcons --name game_icon.png ./icon.png`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVarP(&uploadCategory, "category", "C", "", "target category: mods, screenshots or richPresenceIcons")
	uploadCmd.Flags().StringVarP(&uploadName, "name", "n", "", "stored file name (single file only, default: local base name)")
	_ = uploadCmd.MarkFlagRequired("category")
}

func runUpload(cmd *cobra.Command, args []string) error {
	category, err := relay.ParseCategory(uploadCategory)
	if err != nil {
		return reportError(err)
	}

	client, err := getClient()
	if err != nil {
		return reportError(err)
	}

	results, err := client.Upload(cmd.Context(), clientcli.UploadOptions{
		Category: category,
		Paths:    args,
		FileName: uploadName,
	})
	if err != nil {
		return reportError(err)
	}

	if err := getFormatter().FormatUpload(cmd.OutOrStdout(), results); err != nil {
		return err
	}

	if clientcli.HasUploadErrors(results) {
		return &exitError{code: 1}
	}
	return nil
}
