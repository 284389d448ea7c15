package cli

import (
	"bufio"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive question and answer session",
	Long: `Starts an interactive session. Each question is answered from the
indexed documents. Type 'quit', 'exit' or 'q' to leave.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if err := initClients(cmd); err != nil {
		return err
	}
	if askService == nil {
		return errors.New("ask service not configured")
	}

	cmd.Println("Retrieva chat. Ask anything about your documents.")
	cmd.Println("Type 'quit', 'exit' or 'q' to leave.")
	cmd.Println()

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		cmd.Print("You: ")
		if !scanner.Scan() {
			cmd.Println()
			return scanner.Err()
		}

		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if isQuit(question) {
			cmd.Println("Goodbye!")
			return nil
		}

		cmd.Println("Searching knowledge base...")
		cmd.Println("Generating answer...")

		answer, err := askService.Ask(cmd.Context(), question)
		if err != nil {
			if errors.Is(err, domain.ErrEmptyQuestion) {
				continue
			}
			cmd.Printf("Error: %v\n\n", err)
			continue
		}

		cmd.Printf("\nAnswer: %s\n", answer.Text)
		if len(answer.Sources) > 0 {
			cmd.Printf("Sources: %s\n", strings.Join(answer.Sources, ", "))
		}
		cmd.Println()
	}
}

// isQuit reports whether the input is one of the session exit tokens.
func isQuit(input string) bool {
	switch strings.ToLower(input) {
	case "quit", "exit", "q":
		return true
	default:
		return false
	}
}
