package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	BotToken       string `env:"BOT_TOKEN"`
	OperatorChatID int64  `env:"OPERATOR_CHAT_ID"`

	UpstreamBaseURL string        `env:"UPSTREAM_BASE_URL" envDefault:"https://www.sheinindia.in"`
	UpstreamTenant  string        `env:"UPSTREAM_TENANT" envDefault:"SHEIN"`
	ApplyTimeout    time.Duration `env:"APPLY_TIMEOUT" envDefault:"12s"`
	ResetTimeout    time.Duration `env:"RESET_TIMEOUT" envDefault:"5s"`
	ProbeTimeout    time.Duration `env:"PROBE_TIMEOUT" envDefault:"10s"`

	ValidateSession         bool             `env:"VALIDATE_SESSION" envDefault:"true"`
	SessionFailureThreshold int              `env:"SESSION_FAILURE_THRESHOLD" envDefault:"3"`
	ReportLimit             int              `env:"REPORT_LIMIT" envDefault:"25"`
	VoucherTiers            Tiers            `env:"VOUCHER_TIERS"`

	RunAddress    string `env:"RUN_ADDRESS" envDefault:":8080"`
	StatusToken   string `env:"STATUS_TOKEN"`
	WebhookURL    string `env:"WEBHOOK_URL"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`

	QueueSize       int           `env:"QUEUE_SIZE" envDefault:"16"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
}

const (
	defaultApplyTimeout     = 12 * time.Second
	defaultResetTimeout     = 5 * time.Second
	defaultProbeTimeout     = 10 * time.Second
	defaultReportLimit      = 25
	defaultQueueSize        = 16
	defaultShutdownTimeout  = 10 * time.Second
	defaultFailureThreshold = 3
)

// DefaultVoucherTiers maps voucher prefixes to their face value.
func DefaultVoucherTiers() Tiers {
	return Tiers{
		"SVH": 4000,
		"SVC": 2000,
		"SVD": 1000,
		"SVA": 500,
	}
}

// WebhookEnabled reports whether updates are delivered by webhook instead of long polling.
func (c *Config) WebhookEnabled() bool {
	return c.WebhookURL != ""
}

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], env.ToMap(os.Environ()))
}

func load(args []string, environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.OperatorChatID == 0 {
		if raw, ok := environ["CHAT_ID"]; ok && raw != "" {
			id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid CHAT_ID: %w", err)
			}
			cfg.OperatorChatID = id
		}
	}

	fs := flag.NewFlagSet("voucherbot", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		applyTimeoutStr    = cfg.ApplyTimeout.String()
		resetTimeoutStr    = cfg.ResetTimeout.String()
		probeTimeoutStr    = cfg.ProbeTimeout.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		tiersStr           string
	)

	fs.StringVar(&cfg.BotToken, "t", cfg.BotToken, "Telegram bot token")
	fs.Int64Var(&cfg.OperatorChatID, "o", cfg.OperatorChatID, "Operator chat id")
	fs.StringVar(&cfg.UpstreamBaseURL, "u", cfg.UpstreamBaseURL, "Upstream shop base URL")
	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "Ops HTTP server listen address")
	fs.StringVar(&cfg.WebhookURL, "webhook-url", cfg.WebhookURL, "Public webhook URL, empty for long polling")
	fs.StringVar(&cfg.WebhookSecret, "webhook-secret", cfg.WebhookSecret, "Webhook path secret, generated when empty")
	fs.StringVar(&cfg.StatusToken, "status-token", cfg.StatusToken, "Bearer token guarding /api/status")
	fs.BoolVar(&cfg.ValidateSession, "validate-session", cfg.ValidateSession, "Probe cookies before accepting them")
	fs.IntVar(&cfg.ReportLimit, "report-limit", cfg.ReportLimit, "Maximum outcome lines per report")
	fs.IntVar(&cfg.SessionFailureThreshold, "session-failures", cfg.SessionFailureThreshold, "Consecutive auth failures that expire the session")
	fs.IntVar(&cfg.QueueSize, "queue-size", cfg.QueueSize, "Inbound message queue capacity")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")
	fs.StringVar(&applyTimeoutStr, "apply-timeout", applyTimeoutStr, "Apply voucher request timeout")
	fs.StringVar(&resetTimeoutStr, "reset-timeout", resetTimeoutStr, "Reset voucher request timeout")
	fs.StringVar(&probeTimeoutStr, "probe-timeout", probeTimeoutStr, "Session probe request timeout")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&tiersStr, "tiers", "", "Voucher tiers as PREFIX=VALUE pairs separated by commas")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.ApplyTimeout, err = time.ParseDuration(applyTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid apply timeout: %w", err)
	}
	if cfg.ResetTimeout, err = time.ParseDuration(resetTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid reset timeout: %w", err)
	}
	if cfg.ProbeTimeout, err = time.ParseDuration(probeTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid probe timeout: %w", err)
	}
	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if tiersStr != "" {
		if cfg.VoucherTiers, err = ParseTiers(tiersStr); err != nil {
			return nil, err
		}
	}
	if len(cfg.VoucherTiers) == 0 {
		cfg.VoucherTiers = DefaultVoucherTiers()
	}

	if cfg.ApplyTimeout <= 0 {
		cfg.ApplyTimeout = defaultApplyTimeout
	}
	if cfg.ResetTimeout <= 0 {
		cfg.ResetTimeout = defaultResetTimeout
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = defaultProbeTimeout
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	if cfg.ReportLimit <= 0 {
		cfg.ReportLimit = defaultReportLimit
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.SessionFailureThreshold < 0 {
		cfg.SessionFailureThreshold = defaultFailureThreshold
	}

	if cfg.WebhookEnabled() && cfg.WebhookSecret == "" {
		cfg.WebhookSecret = uuid.NewString()
	}

	if strings.TrimSpace(cfg.BotToken) == "" {
		return nil, fmt.Errorf("bot token must be provided")
	}

	if cfg.OperatorChatID == 0 {
		return nil, fmt.Errorf("operator chat id must be provided")
	}

	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}

	return cfg, nil
}

// TierPrefixLength is the number of leading code characters that select a tier.
const TierPrefixLength = 3

// Tiers maps upper-case voucher prefixes to face values.
type Tiers map[string]int64

// UnmarshalText parses VOUCHER_TIERS with the same rules as the --tiers flag.
func (t *Tiers) UnmarshalText(text []byte) error {
	parsed, err := ParseTiers(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTiers parses "SVH=4000,SVD=1000" into a prefix table.
func ParseTiers(raw string) (Tiers, error) {
	tiers := make(Tiers)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		prefix, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid tier %q: expected PREFIX=VALUE", pair)
		}
		n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid tier value %q", value)
		}
		prefix = strings.ToUpper(strings.TrimSpace(prefix))
		if len(prefix) != TierPrefixLength {
			return nil, fmt.Errorf("invalid tier prefix %q: expected %d characters", prefix, TierPrefixLength)
		}
		tiers[prefix] = n
	}
	return tiers, nil
}
