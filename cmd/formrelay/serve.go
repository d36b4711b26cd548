package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tuannvm/formrelay/internal/agents"
	"github.com/tuannvm/formrelay/internal/chat"
	"github.com/tuannvm/formrelay/internal/config"
	"github.com/tuannvm/formrelay/internal/formschema"
	"github.com/tuannvm/formrelay/internal/jira"
	"github.com/tuannvm/formrelay/internal/logging"
	"github.com/tuannvm/formrelay/internal/relay"
)

var withAgent bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the webhook server",
	Long: `Run the HTTP webhook server on server.port. With --agent (or
AGENT_ENABLED=true) the same pipeline is also served as an A2A agent on
agent.port.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&withAgent, "agent", false, "also serve the A2A report agent")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	agent := newReportAgent(cfg)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return agent.StartHTTPServer(ctx)
	})
	if withAgent || cfg.AgentEnabled {
		g.Go(func() error {
			return agent.StartA2AServer(ctx)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	logging.Infof("Server shutdown complete")
	return nil
}

// newReportAgent wires the sinks and schema lookup described by cfg
func newReportAgent(cfg *config.Config) *agents.ReportAgent {
	logger := logging.Named("report")
	dispatcher := newDispatcher(cfg)

	var schema formschema.Source
	if cfg.FormAPIConfigured() {
		schema = formschema.NewClient(cfg.FormAPIURL, cfg.FormAPIKey)
	} else {
		logger.Infof("No FORM_API_KEY configured; raw answers keep their field keys as labels")
	}

	return agents.NewReportAgent(cfg, dispatcher, schema, logger)
}

func newDispatcher(cfg *config.Config) *relay.Dispatcher {
	dispatcher := relay.NewDispatcher(logging.Named("relay"), cfg.RelayTimeout)

	if notifier, err := chat.NewNotifier(cfg.SlackWebhookURL); err == nil {
		dispatcher.Add(notifier)
	} else {
		dispatcher.Skip("slack", "No SLACK_WEBHOOK_URL configured; skipping Slack notification")
	}

	if jiraClient, err := jira.NewClient(cfg); err == nil {
		dispatcher.Add(jiraClient)
	} else {
		if !errors.Is(err, jira.ErrNotConfigured) {
			logging.Errorf("Jira client unavailable: %v", err)
		}
		dispatcher.Skip("jira", "Missing Jira configuration; skipping ticket creation")
	}
	return dispatcher
}
