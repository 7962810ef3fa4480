package cli

import (
	"context"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/vesperants/najir-agent/pkg/cli/config"
	"github.com/vesperants/najir-agent/pkg/domain/types"
	"github.com/vesperants/najir-agent/pkg/usecase"
)

// cmdHistory prints stored conversation transcripts
func cmdHistory() *cli.Command {
	var userID string
	var conversationID string
	var sessionCfg config.Session

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user",
			Usage:       "User ID",
			Required:    true,
			Destination: &userID,
		},
		&cli.StringFlag{
			Name:        "conversation",
			Usage:       "Conversation ID (all conversations when empty)",
			Destination: &conversationID,
		},
	}
	flags = append(flags, sessionCfg.Flags()...)

	return &cli.Command{
		Name:  "history",
		Usage: "Show stored conversation logs",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := sessionCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize session cache")
			}
			defer repo.Close() //nolint:errcheck // one-shot command

			sessions := usecase.NewSessionUseCase(repo, nil)

			uid := types.UserID(userID)
			if conversationID != "" {
				entry, err := sessions.History(ctx, uid, types.ConversationID(conversationID))
				if err != nil {
					return err
				}
				printEntry(conversationID, entry.Title, len(entry.Log))
				for _, rec := range entry.Log {
					printTurn(rec.Sender, rec.Text)
				}
				return nil
			}

			conversations, err := sessions.ListConversations(ctx, uid)
			if err != nil {
				return err
			}
			for cid, entry := range conversations {
				printEntry(cid.String(), entry.Title, len(entry.Log))
			}
			return nil
		},
	}
}

func printEntry(cid, title string, turns int) {
	color.Cyan("%s: %s (%d turns)", cid, title, turns)
}

func printTurn(sender types.Sender, text string) {
	if sender == types.SenderUser {
		color.Green("  [user] %s", text)
		return
	}
	color.White("  [bot]  %s", text)
}
