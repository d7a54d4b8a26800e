package main

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bananamirror/relay"
	"github.com/bananamirror/relay/config"
)

var addCmd = &cobra.Command{
	Use:   "add [flags] <file1> [file2] ...",
	Short: "Import local files straight into a category bucket",
	Long: `Write files into a configured bucket without going through the HTTP
API. Nested paths are flattened with underscores, so they come back out as
path segments in the public URL.

Examples:
  # Add a single file
  relay add --category mods ./author_mod.zip

  # Add a directory recursively (shots/2024/a.png is stored as 2024_a.png)
  relay add -C screenshots -r ./shots`,
	Args:        cobra.MinimumNArgs(1),
	Annotations: map[string]string{needsConfig: ""},
	RunE:        runAdd,
}

var (
	addCategory  string
	addRecursive bool
	addQuiet     bool
)

func init() {
	addCmd.Flags().StringVarP(&addCategory, "category", "C", "", "target category: mods, screenshots or richPresenceIcons")
	addCmd.Flags().BoolVarP(&addRecursive, "recursive", "r", false, "recursively add directories")
	addCmd.Flags().BoolVarP(&addQuiet, "quiet", "q", false, "suppress per-file output")
	_ = addCmd.MarkFlagRequired("category")
	rootCmd.AddCommand(addCmd)
}

// fileEntry represents a file to be added with its source path and stored name.
type fileEntry struct {
	sourcePath string
	fileName   string
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	category, err := relay.ParseCategory(addCategory)
	if err != nil {
		return err
	}

	var files []fileEntry
	for _, arg := range args {
		entries, collectErr := collectFiles(arg, addRecursive)
		if collectErr != nil {
			return fmt.Errorf("collect files from %s: %w", arg, collectErr)
		}
		files = append(files, entries...)
	}

	if len(files) == 0 {
		slog.Info("no files to add")
		return nil
	}

	dispatcher, closeBuckets, err := openDispatcher(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeBuckets()

	for _, entry := range files {
		data, readErr := os.ReadFile(entry.sourcePath) //#nosec G304 -- operator-provided path
		if readErr != nil {
			return fmt.Errorf("read %s: %w", entry.sourcePath, readErr)
		}

		req, reqErr := uploadRequest(category, entry.fileName, data)
		if reqErr != nil {
			return fmt.Errorf("add %s: %w", entry.sourcePath, reqErr)
		}

		msg, dispatchErr := dispatcher.Dispatch(ctx, req)
		if dispatchErr != nil {
			return fmt.Errorf("add %s: %w", entry.fileName, dispatchErr)
		}

		if !addQuiet {
			slog.Info("added", "file", entry.fileName, "size", len(data), "result", msg)
		}
	}

	slog.Info("add complete", "category", category, "added", len(files))
	return nil
}

// uploadRequest builds a validated upload, holding local files to the same
// rules as bodies sent to the server.
func uploadRequest(category relay.Category, name string, data []byte) (*relay.UploadRequest, error) {
	req := &relay.UploadRequest{
		Category: category,
		FileName: name,
		File:     relay.EncodeBase64(data),
	}
	if err := relay.Validate(req); err != nil {
		return nil, err
	}
	return req, nil
}

// collectFiles gathers files from a path, optionally recursively. Directory
// entries are named by their relative path with separators replaced by "_".
func collectFiles(path string, recursive bool) ([]fileEntry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return []fileEntry{{sourcePath: path, fileName: filepath.Base(path)}}, nil
	}

	if !recursive {
		return nil, fmt.Errorf("%s is a directory (use -r to add recursively)", path)
	}

	var entries []fileEntry
	walkErr := filepath.WalkDir(path, func(walkPath string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}

		relPath, relErr := filepath.Rel(path, walkPath)
		if relErr != nil {
			return relErr
		}

		entries = append(entries, fileEntry{
			sourcePath: walkPath,
			fileName:   strings.ReplaceAll(filepath.ToSlash(relPath), "/", "_"),
		})
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	return entries, nil
}
