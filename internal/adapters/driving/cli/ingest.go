package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/custodia-labs/retrieva-cli/internal/adapters/driven/objectstore/filesystem"
)

var ingestWatch bool

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Index documents from the configured storage",
	Long: `Lists the configured storage location and indexes every recognised
document: fetch, chunk, embed, store. Already indexed documents are
overwritten where the backend supports it.

With --watch (filesystem storage only) the command keeps running and
re-ingests files as they are created or modified.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "keep watching for file changes (filesystem storage only)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	if err := initClients(cmd); err != nil {
		return err
	}
	if ingestService == nil {
		return errors.New("storage is not configured, run 'retrieva settings wizard'")
	}
	if indexAdmin != nil {
		if err := indexAdmin.Ensure(cmd.Context()); err != nil {
			return fmt.Errorf("prepare index: %w", err)
		}
	}

	report, err := ingestService.Ingest(cmd.Context())
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Objects seen:     %d\n", report.ObjectsSeen)
	cmd.Printf("Objects ingested: %d\n", report.ObjectsIngested)
	cmd.Printf("Chunks indexed:   %d\n", report.ChunksIndexed)
	if report.Failures > 0 {
		cmd.Printf("Failures:         %d\n", report.Failures)
	}

	if !ingestWatch {
		return nil
	}
	return watchLoop(cmd)
}

// watchLoop re-ingests files as the object store reports changes. Only
// the filesystem store can watch; other providers fail here.
func watchLoop(cmd *cobra.Command) error {
	if clients == nil {
		return errors.New("watch requires a running store")
	}
	store, ok := clients.Store.(*filesystem.ObjectStore)
	if !ok {
		return errors.New("--watch is only supported for filesystem storage")
	}

	events, err := store.Watch(cmd.Context())
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}

	cmd.Println()
	cmd.Println("Watching for changes. Press Ctrl+C to stop.")

	for key := range events {
		indexed, err := ingestService.IngestObject(cmd.Context(), key)
		if err != nil {
			log.Warn("re-ingest failed", zap.String("key", key), zap.Error(err))
			continue
		}
		if indexed > 0 {
			cmd.Printf("Re-ingested %s (%d chunks)\n", key, indexed)
		}
	}

	return nil
}
