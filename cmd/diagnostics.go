// file: cmd/diagnostics.go
// version: 2.0.0
// guid: c8f6a0d4-2a8b-48cf-9d08-02cc9915d9fc

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jdfalk/reading-report/internal/config"
	"github.com/jdfalk/reading-report/internal/covers"
	"github.com/jdfalk/reading-report/internal/isbn"
	"github.com/jdfalk/reading-report/internal/library"
	"github.com/jdfalk/reading-report/internal/pipeline"
	"github.com/jdfalk/reading-report/internal/stats"
)

var (
	diagnosticsCmd = &cobra.Command{
		Use:   "diagnostics",
		Short: "Debugging and cleanup helpers",
		Long:  "Diagnostic utilities for inspecting the library export, cover lookups and the covers directory.",
	}

	checkExportCmd = &cobra.Command{
		Use:   "check-export",
		Short: "Validate the library export without fetching covers",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			return runCheckExport(config.AppConfig.InputPath, limit)
		},
	}

	lookupCmd = &cobra.Command{
		Use:   "lookup <isbn>",
		Short: "Resolve the cover for a single ISBN",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title, _ := cmd.Flags().GetString("title")
			return runLookup(cmd.Context(), args[0], title)
		},
	}

	cleanCoversCmd = &cobra.Command{
		Use:   "clean-covers",
		Short: "Remove saved cover images",
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("yes")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			genericOnly, _ := cmd.Flags().GetBool("generic-only")
			return runCleanCovers(config.AppConfig.CoversDir, force, dryRun, genericOnly)
		},
	}
)

func init() {
	checkExportCmd.Flags().Int("limit", 20, "Maximum number of problem rows to display")

	lookupCmd.Flags().String("title", "", "Book title, used to pick between Google Books results")

	cleanCoversCmd.Flags().Bool("yes", false, "Skip confirmation prompt")
	cleanCoversCmd.Flags().Bool("dry-run", false, "List files without deleting")
	cleanCoversCmd.Flags().Bool("generic-only", false, "Only remove generated placeholder covers")

	diagnosticsCmd.AddCommand(checkExportCmd)
	diagnosticsCmd.AddCommand(lookupCmd)
	diagnosticsCmd.AddCommand(cleanCoversCmd)
}

func runCheckExport(path string, limit int) error {
	if limit <= 0 {
		return errors.New("limit must be positive")
	}

	books, err := library.Load(path)
	if err != nil {
		return err
	}

	summary := stats.Summarize(books)
	fmt.Printf("Export: %s\n", path)
	fmt.Printf("Books: %d\n", summary.TotalBooks)
	fmt.Printf("With read date: %d\n", summary.DatedBooks)
	fmt.Printf("Total pages: %d\n", summary.TotalPages)

	var noISBN []library.Book
	for _, b := range books {
		if !b.HasISBN() {
			noISBN = append(noISBN, b)
		}
	}
	fmt.Printf("Without a usable ISBN: %d\n", len(noISBN))
	for i, b := range noISBN {
		if i >= limit {
			fmt.Printf("... and %d more\n", len(noISBN)-limit)
			break
		}
		raw := b.RawISBN
		if raw == "" {
			raw = "(empty)"
		}
		fmt.Printf("%2d. Row %d: %s\n", i+1, b.Row+1, b.Title)
		fmt.Printf("    Identifier: %s\n", raw)
	}
	return nil
}

func runLookup(ctx context.Context, raw, title string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	normalized := isbn.Normalize(raw)
	if normalized == "" {
		return fmt.Errorf("%q is not a valid ISBN-10 or ISBN-13", raw)
	}

	cfg := config.AppConfig
	resolver := covers.NewResolver(pipeline.DefaultSources(cfg), covers.WithTimeout(cfg.LookupTimeout))
	result := resolver.Resolve(ctx, library.Book{ISBN: normalized, RawISBN: raw, Title: title})

	fmt.Printf("ISBN: %s\n", normalized)
	fmt.Printf("Source: %s\n", result.Source)
	fmt.Printf("Image size: %d bytes\n", len(result.Image))
	if result.IsPlaceholder() {
		fmt.Println("No cover art found; a placeholder would be used.")
	}
	return nil
}

func runCleanCovers(dir string, force, dryRun, genericOnly bool) error {
	if dir == "" {
		return errors.New("covers directory not configured")
	}
	files, err := findCoverFiles(dir, genericOnly)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No cover files found.")
		return nil
	}

	fmt.Printf("Found %d cover files in %s:\n", len(files), dir)
	for i, f := range files {
		fmt.Printf("%2d. %s\n", i+1, filepath.Base(f))
	}

	if dryRun {
		fmt.Println("Dry run enabled; no files were removed.")
		return nil
	}

	if !force {
		confirmed, err := promptYesNo(fmt.Sprintf("Remove %d files", len(files)))
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Aborted. No files removed.")
			return nil
		}
	}

	removed := 0
	for _, f := range files {
		if err := os.Remove(f); err != nil {
			fmt.Printf("Failed to remove %s: %v\n", f, err)
			continue
		}
		removed++
	}
	fmt.Printf("Removed %d cover files.\n", removed)
	return nil
}

// findCoverFiles lists the files Store writes, ignoring anything else in dir.
func findCoverFiles(dir string, genericOnly bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read covers directory: %w", err)
	}

	prefixes := []string{"GENERIC_"}
	if !genericOnly {
		prefixes = append(prefixes, "cover_")
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".jpg") {
			continue
		}
		if hasPrefix(e.Name(), prefixes) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func hasPrefix(name string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

func promptYesNo(action string) (bool, error) {
	fmt.Printf("%s? Type 'yes' to confirm: ", action)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "yes", nil
}
