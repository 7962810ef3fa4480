package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/vesperants/najir-agent/pkg/cli/config"
	"github.com/vesperants/najir-agent/pkg/domain/model"
	"github.com/vesperants/najir-agent/pkg/domain/types"
	"github.com/vesperants/najir-agent/pkg/service/lookup"
	"github.com/vesperants/najir-agent/pkg/usecase"
)

// cmdChat runs a single chat turn from the terminal, for trying routing
// and lookups without the HTTP surface.
func cmdChat() *cli.Command {
	var userID string
	var conversationID string
	var selected []string
	var workers int
	var lookupTimeout time.Duration
	var discoveryCfg config.Discovery
	var vertexCfg config.Vertex
	var geminiCfg config.Gemini
	var sessionCfg config.Session
	var routerCfg config.Router

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user",
			Usage:       "User ID",
			Value:       "cli-user",
			Destination: &userID,
		},
		&cli.StringFlag{
			Name:        "conversation",
			Usage:       "Conversation ID",
			Value:       model.DefaultConversationID.String(),
			Destination: &conversationID,
		},
		&cli.StringSliceFlag{
			Name:        "case-id",
			Usage:       "Explicitly selected case IDs (repeatable)",
			Destination: &selected,
		},
		&cli.IntFlag{
			Name:        "lookup-workers",
			Usage:       "Concurrent workers for batch case lookups",
			Value:       3,
			Destination: &workers,
		},
		&cli.DurationFlag{
			Name:        "lookup-timeout",
			Usage:       "Per-case lookup deadline",
			Value:       15 * time.Second,
			Destination: &lookupTimeout,
		},
	}
	flags = append(flags, discoveryCfg.Flags()...)
	flags = append(flags, vertexCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, sessionCfg.Flags()...)
	flags = append(flags, routerCfg.Flags()...)

	return &cli.Command{
		Name:      "chat",
		Usage:     "Send one message and print the reply",
		ArgsUsage: "<message>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			message := c.Args().First()
			if message == "" {
				return goerr.New("message argument is required")
			}

			searchClient, err := discoveryCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure case search backend")
			}
			defer searchClient.Close() //nolint:errcheck // one-shot command

			sessionBackend, err := vertexCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure session backend")
			}

			llm, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Gemini client")
			}

			repo, err := sessionCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize session cache")
			}
			defer repo.Close() //nolint:errcheck // one-shot command

			keywords, err := routerCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load routing keywords")
			}

			uc := usecase.New(repo, sessionBackend, searchClient, lookup.New(searchClient, llm),
				usecase.WithRouterConfig(keywords),
				usecase.WithFallbackLLM(llm),
				usecase.WithBatchOptions(
					lookup.WithWorkers(workers),
					lookup.WithTimeout(lookupTimeout),
				),
			)

			color.Cyan("> %s", message)
			reply := uc.Chat.Chat(ctx,
				types.UserID(userID),
				types.ConversationID(conversationID),
				message,
				types.CaseIDsFromStrings(selected),
			)

			printReply(reply)
			return nil
		},
	}
}

func printReply(reply string) {
	if !model.IsStructuredReply(reply) {
		color.Green("%s", reply)
		return
	}

	// pretty-print structured payloads for the terminal
	var pretty map[string]any
	if err := json.Unmarshal([]byte(reply), &pretty); err == nil {
		if data, err := json.MarshalIndent(pretty, "", "  "); err == nil {
			color.Yellow("%s", string(data))
			return
		}
	}
	fmt.Println(reply)
}
