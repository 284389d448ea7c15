package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/retrieva-cli/internal/core/services"
)

var askK int

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about your documents",
	Long: `Answers a single question using retrieval-augmented generation.
The question is embedded, the most similar indexed passages are retrieved
and the language model answers from that context.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askK, "k", "k", 0, "number of passages to retrieve (0 = configured default)")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := initClients(cmd); err != nil {
		return err
	}
	if askService == nil {
		return errors.New("ask service not configured")
	}

	svc := askService
	if askK > 0 && clients != nil {
		retriever := services.NewRetriever(clients.Embedding, clients.Index, askK, log)
		svc = services.NewAsker(retriever, clients.LLM, appSettings.LLM.MaxTokens, log)
	}

	question := strings.Join(args, " ")

	answer, err := svc.Ask(cmd.Context(), question)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	cmd.Println(answer.Text)
	if len(answer.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for _, src := range answer.Sources {
			cmd.Printf("  - %s\n", src)
		}
	}

	return nil
}
