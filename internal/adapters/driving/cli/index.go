package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the vector index",
}

var indexEnsureCmd = &cobra.Command{
	Use:   "ensure",
	Short: "Create the index if it does not exist",
	RunE:  runIndexEnsure,
}

var indexStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index name, record count and dimension",
	RunE:  runIndexStats,
}

var indexResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop and recreate the index",
	Long:  `Drops the index and recreates it empty. All indexed chunks are lost.`,
	RunE:  runIndexReset,
}

func init() {
	indexCmd.AddCommand(indexEnsureCmd)
	indexCmd.AddCommand(indexStatsCmd)
	indexCmd.AddCommand(indexResetCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndexEnsure(cmd *cobra.Command, _ []string) error {
	if err := initClients(cmd); err != nil {
		return err
	}
	if indexAdmin == nil {
		return errors.New("index admin not configured")
	}

	if err := indexAdmin.Ensure(cmd.Context()); err != nil {
		return err
	}
	cmd.Println("Index is ready.")
	return nil
}

func runIndexStats(cmd *cobra.Command, _ []string) error {
	if err := initClients(cmd); err != nil {
		return err
	}
	if indexAdmin == nil {
		return errors.New("index admin not configured")
	}

	stats, err := indexAdmin.Stats(cmd.Context())
	if err != nil {
		return err
	}

	cmd.Printf("Index:     %s\n", stats.Name)
	cmd.Printf("Records:   %d\n", stats.Records)
	if stats.Dimension > 0 {
		cmd.Printf("Dimension: %d\n", stats.Dimension)
	}
	return nil
}

func runIndexReset(cmd *cobra.Command, _ []string) error {
	if err := initClients(cmd); err != nil {
		return err
	}
	if indexAdmin == nil {
		return errors.New("index admin not configured")
	}

	if err := indexAdmin.Reset(cmd.Context()); err != nil {
		return err
	}
	cmd.Println("Index reset.")
	return nil
}
