package main

import (
	"github.com/spf13/cobra"
	liblog "trpc.group/trpc-go/trpc-a2a-go/log"

	"github.com/tuannvm/formrelay/internal/config"
	"github.com/tuannvm/formrelay/internal/logging"
)

var (
	cfgFile  string
	logLevel string
	cfg      *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "formrelay",
	Short: "Relay form submissions to Slack and Jira",
	Long: `formrelay receives form service webhooks, turns each submission into an
ordered list of question/answer pairs plus its file attachments, and posts
the result to a Slack incoming webhook and a Jira Cloud project.

Configuration comes from environment variables (SLACK_WEBHOOK_URL,
JIRA_SITE, JIRA_EMAIL, JIRA_API_TOKEN, JIRA_PROJECT_KEY, ...), a .env file
or a formrelay.yaml config file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v, err := config.NewViper(cfgFile)
		if err != nil {
			return err
		}
		if logLevel != "" {
			v.Set("log.level", logLevel)
		}
		cfg = config.FromViper(v)

		if err := logging.Setup(cfg.LogLevel); err != nil {
			logging.Warnf("Unknown log level %q, using info", cfg.LogLevel)
		}
		liblog.Default = logging.Named("a2a")
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./formrelay.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.SetErrPrefix("formrelay:")
}
