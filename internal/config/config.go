package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	DefaultPath                       = "report_config.json"
	defaultExternalHTTPTimeoutSeconds = 60
	defaultDBPath                     = "./report_history.db"
	defaultSchedule                   = "0 9 28 * *"
	defaultLLMModel                   = "claude-3-5-haiku-latest"
)

type Config struct {
	Redmine RedmineConfig `json:"redmine"`
	User    UserConfig    `json:"user"`
	Report  ReportConfig  `json:"report"`
	Slack   SlackConfig   `json:"slack"`
	LLM     LLMConfig     `json:"llm"`
	Log     LogConfig     `json:"log"`

	ExternalHTTPTimeoutSeconds int `json:"external_http_timeout_seconds"`

	Location *time.Location `json:"-"` // computed from Report.Timezone
}

type RedmineConfig struct {
	URL    string `json:"REDMINE_URL"`
	APIKey string `json:"API_KEY"`
}

type UserConfig struct {
	Firstname string `json:"firstname"`
	Initials  string `json:"initials"`
}

type ReportConfig struct {
	OutputDir      string `json:"output_dir"`
	DBPath         string `json:"db_path"`
	DisableHistory bool   `json:"disable_history"`
	StatusesPath   string `json:"statuses_path"`
	Schedule       string `json:"schedule"`
	Timezone       string `json:"timezone"`
}

type SlackConfig struct {
	BotToken  string `json:"bot_token"`
	ChannelID string `json:"channel_id"`
}

type LLMConfig struct {
	AnthropicAPIKey string `json:"anthropic_api_key"`
	Model           string `json:"model"`
}

type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// Load reads the JSON config at path, applies environment overrides and
// defaults, and validates the result. A missing file is reported with an
// error wrapping os.ErrNotExist.
func Load(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Path resolves the config location: explicit flag, then CONFIG_PATH, then
// DefaultPath.
func Path(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return envPath
	}
	return DefaultPath
}

func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}

func applyEnv(cfg *Config) error {
	envOverride(&cfg.Redmine.URL, "REDMINE_URL")
	envOverride(&cfg.Redmine.APIKey, "REDMINE_API_KEY")
	envOverride(&cfg.User.Firstname, "REPORT_FIRSTNAME")
	envOverride(&cfg.User.Initials, "REPORT_INITIALS")
	envOverride(&cfg.Report.OutputDir, "REPORT_OUTPUT_DIR")
	envOverride(&cfg.Report.DBPath, "REPORT_DB_PATH")
	envOverrideBool(&cfg.Report.DisableHistory, "REPORT_DISABLE_HISTORY")
	envOverride(&cfg.Report.StatusesPath, "REPORT_STATUSES_PATH")
	envOverride(&cfg.Report.Schedule, "REPORT_SCHEDULE")
	envOverride(&cfg.Report.Timezone, "TIMEZONE")
	envOverride(&cfg.Slack.BotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.Slack.ChannelID, "SLACK_CHANNEL_ID")
	envOverride(&cfg.LLM.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.LLM.Model, "LLM_MODEL")
	envOverride(&cfg.Log.Level, "LOG_LEVEL")
	envOverride(&cfg.Log.Format, "LOG_FORMAT")
	return envOverrideInt(&cfg.ExternalHTTPTimeoutSeconds, "EXTERNAL_HTTP_TIMEOUT_SECONDS")
}

func applyDefaults(cfg *Config) {
	if cfg.Report.DBPath == "" {
		cfg.Report.DBPath = defaultDBPath
	}
	if cfg.Report.Schedule == "" {
		cfg.Report.Schedule = defaultSchedule
	}
	if cfg.Report.Timezone == "" {
		cfg.Report.Timezone = "Local"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = defaultLLMModel
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.ExternalHTTPTimeoutSeconds == 0 {
		cfg.ExternalHTTPTimeoutSeconds = defaultExternalHTTPTimeoutSeconds
	}
}

func (c *Config) validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"redmine.REDMINE_URL", c.Redmine.URL},
		{"redmine.API_KEY", c.Redmine.APIKey},
		{"user.firstname", c.User.Firstname},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("required config '%s' is not set (via config file or env var)", r.name)
		}
	}

	if strings.EqualFold(c.Report.Timezone, "Local") {
		c.Location = time.Local
	} else {
		loc, err := time.LoadLocation(c.Report.Timezone)
		if err != nil {
			return fmt.Errorf("invalid timezone '%s': %w", c.Report.Timezone, err)
		}
		c.Location = loc
	}

	if c.ExternalHTTPTimeoutSeconds < 5 {
		return fmt.Errorf("invalid external_http_timeout_seconds '%d': must be >= 5", c.ExternalHTTPTimeoutSeconds)
	}
	if _, err := ParseSchedule(c.Report.Schedule); err != nil {
		return fmt.Errorf("invalid report.schedule '%s': %w", c.Report.Schedule, err)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be 'console' or 'json', got '%s'", c.Log.Format)
	}
	if (c.Slack.BotToken == "") != (c.Slack.ChannelID == "") {
		return errors.New("slack.bot_token and slack.channel_id must be set together")
	}
	return nil
}

// ParseSchedule parses a standard 5-field cron expression.
func ParseSchedule(expr string) (cron.Schedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	return parser.Parse(strings.TrimSpace(expr))
}

func (c Config) HistoryEnabled() bool {
	return !c.Report.DisableHistory && c.Report.DBPath != ""
}

func (c Config) SlackConfigured() bool {
	return c.Slack.BotToken != "" && c.Slack.ChannelID != ""
}

func (c Config) LLMConfigured() bool {
	return c.LLM.AnthropicAPIKey != ""
}

// Masked renders the config for display with secrets shortened.
func (c Config) Masked() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Redmine URL: %s\n", c.Redmine.URL)
	fmt.Fprintf(&b, "API Key: %s\n", mask(c.Redmine.APIKey))
	fmt.Fprintf(&b, "User: %s %s\n", c.User.Firstname, c.User.Initials)
	fmt.Fprintf(&b, "Output Dir: %s\n", displayDir(c.Report.OutputDir))
	if c.HistoryEnabled() {
		fmt.Fprintf(&b, "History DB: %s\n", c.Report.DBPath)
	} else {
		fmt.Fprintf(&b, "History DB: disabled\n")
	}
	fmt.Fprintf(&b, "Statuses: %s\n", orDefault(c.Report.StatusesPath, "built-in"))
	fmt.Fprintf(&b, "Schedule: %s (%s)\n", c.Report.Schedule, c.Report.Timezone)
	fmt.Fprintf(&b, "Slack: %s\n", orDefault(c.Slack.ChannelID, "disabled"))
	if c.LLMConfigured() {
		fmt.Fprintf(&b, "LLM: %s (key %s)\n", c.LLM.Model, mask(c.LLM.AnthropicAPIKey))
	} else {
		fmt.Fprintf(&b, "LLM: disabled\n")
	}
	return b.String()
}

func mask(secret string) string {
	if len(secret) > 8 {
		return secret[:4] + "..." + secret[len(secret)-4:]
	}
	return strings.Repeat("*", len(secret))
}

func displayDir(dir string) string {
	return orDefault(dir, ".")
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) error {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid %s '%s': %w", envKey, val, err)
		}
		*field = parsed
	}
	return nil
}

func envOverrideBool(field *bool, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = strings.EqualFold(val, "true") || val == "1"
	}
}
