package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/pulse/pkg/agent/tool"
	"github.com/secmon-lab/pulse/pkg/agent/tool/report"
	"github.com/secmon-lab/pulse/pkg/cli/config"
	"github.com/secmon-lab/pulse/pkg/usecase"
	"github.com/secmon-lab/pulse/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

const assistSystemPrompt = `You are a team check-in assistant. You answer
questions about daily check-ins, absentees and check-in quality trends
using the provided tools. Dates are formatted YYYY-MM-DD in UTC. Answer
concisely and cite the dates your answer is based on.`

func cmdAssist() *cli.Command {
	var repoCfg config.Repository
	var slackCfg config.Slack
	var geminiCfg config.Gemini

	var flags []cli.Flag
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)

	return &cli.Command{
		Name:      "assist",
		Aliases:   []string{"a"},
		Usage:     "Ask the AI assistant about check-in activity",
		ArgsUsage: "<question>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			prompt := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if prompt == "" {
				return goerr.New("a question is required, e.g. pulse assist \"who is absent today?\"")
			}

			// Initialize repository
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			// Initialize Gemini LLM client (required)
			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize Gemini client")
			}
			if llmClient == nil {
				return goerr.New("gemini-project is required for assist")
			}

			// The chat source is optional here. Without it the tools
			// answer from stored data only.
			ucOpts := []usecase.Option{}
			if slackCfg.IsConfigured() {
				slackSvc, err := slackCfg.Configure()
				if err != nil {
					return goerr.Wrap(err, "failed to initialize Slack service")
				}
				ucOpts = append(ucOpts, usecase.WithChatSource(slackSvc, slackCfg.ChannelID()))
			}

			uc := usecase.New(repo, ucOpts...)

			// Surface tool progress on the terminal
			ctx = tool.WithUpdate(ctx, func(ctx context.Context, msg string) {
				fmt.Println("  " + msg)
			})

			agent := gollem.New(llmClient,
				gollem.WithSystemPrompt(assistSystemPrompt),
				gollem.WithTools(report.New(uc)...),
			)

			resp, err := agent.Execute(ctx, gollem.Text(prompt))
			if err != nil {
				return goerr.Wrap(err, "failed to execute assist agent")
			}

			fmt.Println(strings.Join(resp.Texts, "\n"))
			return nil
		},
	}
}
