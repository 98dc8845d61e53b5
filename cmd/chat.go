package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/budget/internal/advisor"
	"github.com/theirongolddev/budget/internal/cli"
	"github.com/theirongolddev/budget/internal/model"
	"github.com/theirongolddev/budget/internal/store"
)

var (
	flagChatHistory int
	flagChatClear   bool
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Ask the budget assistant (interactive without a message)",
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().IntVar(&flagChatHistory, "history", 0, "Show the last n messages and exit")
	chatCmd.Flags().BoolVar(&flagChatClear, "clear", false, "Delete the chat history and exit")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	switch {
	case flagChatClear:
		if err := st.ClearMessages(); err != nil {
			return err
		}
		fmt.Println("  Chat history cleared.")
		return nil
	case flagChatHistory > 0:
		msgs, err := st.RecentMessages(flagChatHistory)
		if err != nil {
			return err
		}
		for _, m := range msgs {
			printChatMessage(m)
		}
		return nil
	}

	adv := newAdvisor(cfg)
	if len(args) > 0 {
		return chatTurn(cmd.Context(), st, adv, strings.Join(args, " "))
	}

	fmt.Println()
	fmt.Println(cli.Muted("  Ask about budgeting, saving or spending. Empty line or Ctrl+D to quit."))
	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\n  you › ")
		if !in.Scan() {
			fmt.Println()
			return in.Err()
		}
		line := strings.TrimSpace(in.Text())
		if line == "" {
			return nil
		}
		if err := chatTurn(cmd.Context(), st, adv, line); err != nil {
			return err
		}
	}
}

// chatTurn stores the question, asks the advisor and stores the reply.
func chatTurn(ctx context.Context, st *store.Store, adv *advisor.Advisor, question string) error {
	if err := st.SaveMessage(model.NewUserMessage(question)); err != nil {
		return fmt.Errorf("saving message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, remoteTimeout)
	defer cancel()
	answer, err := adv.Chat(ctx, question)
	switch {
	case errors.Is(err, advisor.ErrRemoteUnavailable):
		answer = advisor.ChatNeedsKey
	case err != nil:
		slog.Warn("chat request failed", "err", err)
		answer = advisor.ChatFailed
	}

	reply := model.NewAssistantMessage(answer)
	if err := st.SaveMessage(reply); err != nil {
		return fmt.Errorf("saving reply: %w", err)
	}
	printChatMessage(reply)
	return nil
}

func printChatMessage(m model.ChatMessage) {
	who := "assistant"
	if m.FromUser {
		who = "you"
	}
	fmt.Printf("\n  %s %s\n", cli.Muted(m.Timestamp.Format("Jan 02 15:04")), who)
	if m.FromUser {
		fmt.Println("  " + m.Content)
		return
	}
	fmt.Println(cli.RenderAdvice(m.Content))
}
