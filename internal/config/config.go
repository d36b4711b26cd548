package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// ReportAgentName is the A2A agent card name
	ReportAgentName = "FormReportAgent"

	DefaultServerPort   = 8080
	DefaultAgentPort    = 8081
	DefaultReportPath   = "/api/report"
	DefaultFormAPIURL   = "https://api.jotform.com"
	DefaultJiraIssue    = "Task"
	DefaultMaxBodyBytes = 10 << 20
)

// Config holds the application configuration.
// It is read once at startup and never mutated afterwards.
type Config struct {
	// Server configuration
	ServerHost   string
	ServerPort   int
	ReportPath   string
	MaxBodyBytes int64

	// Agent configuration
	AgentEnabled bool
	AgentName    string
	AgentVersion string
	AgentURL     string
	AgentPort    int

	// Authentication for the A2A endpoint
	AuthType  string // "jwt", "apikey" or empty
	JWTSecret string
	APIKey    string

	// Form service configuration
	FormHost   string
	FormAPIURL string
	FormAPIKey string

	// Slack configuration
	SlackWebhookURL string

	// Jira configuration
	JiraSite       string
	JiraEmail      string
	JiraAPIToken   string
	JiraProjectKey string
	JiraIssueType  string

	// Relay configuration
	RelayTimeout time.Duration

	LogLevel string
}

// init loads environment variables from a .env file if one is present
func init() {
	for _, path := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(path); err == nil {
			log.Printf("Loaded configuration from %s file", path)
			return
		}
	}
}

// NewViper creates a viper instance with defaults, environment binding and,
// when cfgFile is set, the given config file.
func NewViper(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
		return v, nil
	}

	v.SetConfigName("formrelay")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.report_path", DefaultReportPath)
	v.SetDefault("server.max_body_bytes", DefaultMaxBodyBytes)

	v.SetDefault("agent.enabled", false)
	v.SetDefault("agent.name", ReportAgentName)
	v.SetDefault("agent.version", "1.0.0")
	v.SetDefault("agent.url", "")
	v.SetDefault("agent.port", DefaultAgentPort)

	v.SetDefault("auth.type", "apikey")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.api_key", "")

	v.SetDefault("form.host", "jotform.com")
	v.SetDefault("form.api_url", DefaultFormAPIURL)
	v.SetDefault("form.api_key", "")

	v.SetDefault("slack.webhook_url", "")

	v.SetDefault("jira.site", "")
	v.SetDefault("jira.email", "")
	v.SetDefault("jira.api_token", "")
	v.SetDefault("jira.project_key", "")
	v.SetDefault("jira.issue_type", DefaultJiraIssue)

	v.SetDefault("relay.timeout", 30*time.Second)

	v.SetDefault("log.level", "info")
}

// FromViper builds a Config from v
func FromViper(v *viper.Viper) *Config {
	cfg := &Config{
		ServerHost:   v.GetString("server.host"),
		ServerPort:   v.GetInt("server.port"),
		ReportPath:   v.GetString("server.report_path"),
		MaxBodyBytes: v.GetInt64("server.max_body_bytes"),

		AgentEnabled: v.GetBool("agent.enabled"),
		AgentName:    v.GetString("agent.name"),
		AgentVersion: v.GetString("agent.version"),
		AgentURL:     v.GetString("agent.url"),
		AgentPort:    v.GetInt("agent.port"),

		AuthType:  strings.ToLower(v.GetString("auth.type")),
		JWTSecret: v.GetString("auth.jwt_secret"),
		APIKey:    v.GetString("auth.api_key"),

		FormHost:   strings.ToLower(v.GetString("form.host")),
		FormAPIURL: strings.TrimRight(v.GetString("form.api_url"), "/"),
		FormAPIKey: v.GetString("form.api_key"),

		SlackWebhookURL: v.GetString("slack.webhook_url"),

		JiraSite:       strings.TrimRight(v.GetString("jira.site"), "/"),
		JiraEmail:      v.GetString("jira.email"),
		JiraAPIToken:   v.GetString("jira.api_token"),
		JiraProjectKey: v.GetString("jira.project_key"),
		JiraIssueType:  v.GetString("jira.issue_type"),

		RelayTimeout: v.GetDuration("relay.timeout"),

		LogLevel: v.GetString("log.level"),
	}

	if cfg.AgentURL == "" {
		cfg.AgentURL = fmt.Sprintf("http://localhost:%d", cfg.AgentPort)
	}
	return cfg
}

// NewConfig creates a configuration from defaults and environment variables.
// A formrelay.{yaml,toml,json} in the working directory is read if present.
func NewConfig() *Config {
	v, err := NewViper("")
	if err != nil {
		log.Printf("Ignoring config file: %v", err)
		v = viper.New()
		setDefaults(v)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}
	return FromViper(v)
}

// SlackConfigured reports whether the chat notifier can be used
func (c *Config) SlackConfigured() bool {
	return c.SlackWebhookURL != ""
}

// JiraConfigured reports whether all four Jira settings are present.
// Ticket creation is skipped entirely otherwise.
func (c *Config) JiraConfigured() bool {
	return c.JiraSite != "" && c.JiraEmail != "" && c.JiraAPIToken != "" && c.JiraProjectKey != ""
}

// FormAPIConfigured reports whether question labels can be fetched
func (c *Config) FormAPIConfigured() bool {
	return c.FormAPIURL != "" && c.FormAPIKey != ""
}
