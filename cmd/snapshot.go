// File: cmd/snapshot.go
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pagelens/pagelens/internal/browser"
	"github.com/pagelens/pagelens/internal/dom"
	"github.com/pagelens/pagelens/internal/observability"
)

var snapshotOutDir string

// snapshotSummary is what one capture boils down to on disk.
type snapshotSummary struct {
	SnapshotID   string        `json:"snapshot_id"`
	URL          string        `json:"url"`
	Title        string        `json:"title"`
	CapturedAt   time.Time     `json:"captured_at"`
	Interactions int           `json:"interactions"`
	Images       int           `json:"images"`
	Elapsed      time.Duration `json:"elapsed_ns"`
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <url>...",
	Short: "Capture and normalize one or more pages without a live session",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := observability.GetLogger()
		snapshotter := browser.NewSnapshotter(browserOptions(appConfig.Browser), logger)
		normalizer := dom.NewNormalizer(logger)

		if snapshotOutDir != "" {
			if err := os.MkdirAll(snapshotOutDir, 0o755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}
		}

		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(appConfig.Browser.SnapshotConcurrency)

		summaries := make([]*snapshotSummary, len(args))
		for i, url := range args {
			g.Go(func() error {
				captured, err := snapshotter.Capture(ctx, url)
				if err != nil {
					return err
				}
				dump, err := dom.DecodeRawDump(captured.Structure)
				if err != nil {
					return fmt.Errorf("%s: %w", url, err)
				}
				snap, err := normalizer.Normalize(captured.URL, captured.Title, dump)
				if err != nil {
					return fmt.Errorf("%s: %w", url, err)
				}

				summaries[i] = &snapshotSummary{
					SnapshotID:   snap.Metadata.SnapshotID,
					URL:          snap.Metadata.URL,
					Title:        snap.Metadata.Title,
					CapturedAt:   snap.Metadata.CapturedAt,
					Interactions: len(snap.InteractionNodes()),
					Images:       len(snap.Root.ImageNodes()),
					Elapsed:      captured.Elapsed,
				}
				if snapshotOutDir != "" {
					return writeSnapshot(snapshotOutDir, snap)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	},
}

func init() {
	snapshotCmd.Flags().StringVarP(&snapshotOutDir, "out", "o", "",
		"directory to write full normalized snapshots into (one JSON file per page)")
	rootCmd.AddCommand(snapshotCmd)
}

// writeSnapshot stores the full normalized tree, keyed by the snapshot id so
// repeated captures of the same URL never clobber each other.
func writeSnapshot(dir string, snap *dom.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot %s: %w", snap.Metadata.SnapshotID, err)
	}
	path := filepath.Join(dir, snap.Metadata.SnapshotID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", snap.Metadata.SnapshotID, err)
	}
	observability.GetLogger().Info("snapshot written",
		zap.String("url", snap.Metadata.URL),
		zap.String("path", path))
	return nil
}
