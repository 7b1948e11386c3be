// Package config loads and validates the process configuration from the
// environment. The config is built once at startup and passed around as an
// immutable value; changing it requires a restart.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP server
	Port string

	// Telegram
	TelegramToken  string
	WebhookBaseURL string
	AllowedSenders []int64 // empty = open policy

	// allow-list entries that failed to parse; Validate rejects them so a
	// typo in TELEGRAM_ALLOWED_IDS never degrades to the open policy
	badAllowedSenders []string

	// Ledger backend selection
	DataBackend string

	// Google Sheets
	GoogleSpreadsheetID   string
	GoogleSheetName       string
	GoogleCredentialsJSON string
	GoogleCredentialsFile string

	// SQLite
	SQLiteDBPath string

	// Dedup window
	DedupTTL        time.Duration
	DedupMaxEntries int

	// Ledger retry policy
	LedgerRetryAttempts  int
	LedgerRetryBaseDelay time.Duration

	// Free-form sign policy
	IncomeKeywords    []string
	ExpenseKeywords   []string
	UnsignedDirection string

	// Balance query cache
	BalanceCacheTTL time.Duration
}

func Load() *Config {
	allowed, badAllowed := getEnvInt64List("TELEGRAM_ALLOWED_IDS")
	return &Config{
		Port: getEnv("PORT", "8080"),

		TelegramToken:  getEnv("TELEGRAM_BOT_TOKEN", ""),
		WebhookBaseURL: strings.TrimRight(getEnv("WEBHOOK_BASE_URL", ""), "/"),
		AllowedSenders: allowed,

		badAllowedSenders: badAllowed,

		DataBackend: getEnv("DATA_BACKEND", "sheets"),

		GoogleSpreadsheetID:   getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:       getEnv("GOOGLE_SHEET_NAME", "Ledger"),
		GoogleCredentialsJSON: getEnv("GOOGLE_CREDENTIALS_JSON", ""),
		GoogleCredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", ""),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/kassabot.db"),

		DedupTTL:        getEnvDuration("DEDUP_TTL", 10*time.Minute),
		DedupMaxEntries: getEnvInt("DEDUP_MAX_ENTRIES", 4096),

		LedgerRetryAttempts:  getEnvInt("LEDGER_RETRY_ATTEMPTS", 4),
		LedgerRetryBaseDelay: getEnvDuration("LEDGER_RETRY_BASE_DELAY", time.Second),

		IncomeKeywords:    getEnvList("INCOME_KEYWORDS"),
		ExpenseKeywords:   getEnvList("EXPENSE_KEYWORDS"),
		UnsignedDirection: getEnv("UNSIGNED_DIRECTION", "income"),

		BalanceCacheTTL: getEnvDuration("BALANCE_CACHE_TTL", 5*time.Minute),
	}
}

// Validate collects every configuration problem into one error. A missing
// bot token or webhook base URL is fatal: the bot must not come up
// half-configured and silently fall back to another delivery mode.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.TelegramToken == "" {
		errs = append(errs, "TELEGRAM_BOT_TOKEN is required")
	}
	if c.WebhookBaseURL == "" {
		errs = append(errs, "WEBHOOK_BASE_URL is required: the bot only runs in webhook mode")
	} else if !strings.HasPrefix(c.WebhookBaseURL, "https://") && !strings.HasPrefix(c.WebhookBaseURL, "http://") {
		errs = append(errs, fmt.Sprintf("invalid WEBHOOK_BASE_URL '%s': must be an http(s) URL", c.WebhookBaseURL))
	}
	if len(c.badAllowedSenders) > 0 {
		errs = append(errs, fmt.Sprintf("invalid TELEGRAM_ALLOWED_IDS entries %q: every entry must be a numeric sender ID", c.badAllowedSenders))
	}

	switch c.DataBackend {
	case "sheets":
		if c.GoogleSpreadsheetID == "" {
			errs = append(errs, "GOOGLE_SPREADSHEET_ID is required for the sheets backend")
		}
		if c.GoogleCredentialsJSON == "" && c.GoogleCredentialsFile == "" {
			errs = append(errs, "either GOOGLE_CREDENTIALS_JSON or GOOGLE_CREDENTIALS_FILE is required for the sheets backend")
		}
		if c.GoogleCredentialsFile != "" {
			if _, err := os.Stat(c.GoogleCredentialsFile); os.IsNotExist(err) {
				errs = append(errs, fmt.Sprintf("Google credentials file does not exist: %s", c.GoogleCredentialsFile))
			}
		}
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errs = append(errs, "SQLITE_DB_PATH cannot be empty when using the sqlite backend")
		}
	case "memory":
	default:
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of [sheets sqlite memory]", c.DataBackend))
	}

	if c.DedupTTL < time.Second {
		errs = append(errs, fmt.Sprintf("invalid dedup TTL %v: must be at least 1 second", c.DedupTTL))
	}
	if c.DedupMaxEntries < 1 {
		errs = append(errs, fmt.Sprintf("invalid dedup max entries %d: must be at least 1", c.DedupMaxEntries))
	}
	if c.LedgerRetryAttempts < 1 || c.LedgerRetryAttempts > 10 {
		errs = append(errs, fmt.Sprintf("invalid ledger retry attempts %d: must be between 1 and 10", c.LedgerRetryAttempts))
	}
	if c.LedgerRetryBaseDelay < 100*time.Millisecond {
		errs = append(errs, fmt.Sprintf("invalid ledger retry base delay %v: must be at least 100ms", c.LedgerRetryBaseDelay))
	}
	if c.UnsignedDirection != "income" && c.UnsignedDirection != "expense" {
		errs = append(errs, fmt.Sprintf("invalid unsigned direction '%s': must be 'income' or 'expense'", c.UnsignedDirection))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// GoogleCredentials returns the service-account credential bundle, from
// the inline JSON or from the configured file.
func (c *Config) GoogleCredentials() ([]byte, error) {
	if c.GoogleCredentialsJSON != "" {
		return []byte(c.GoogleCredentialsJSON), nil
	}
	if c.GoogleCredentialsFile != "" {
		b, err := os.ReadFile(c.GoogleCredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("no Google credentials configured")
}

// WebhookURL returns the full externally reachable webhook endpoint.
func (c *Config) WebhookURL() string {
	return c.WebhookBaseURL + "/webhook"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated variable, trimming blanks.
func getEnvList(key string) []string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// getEnvInt64List parses a comma-separated list of sender IDs, returning
// the parsed IDs and the entries that failed to parse.
func getEnvInt64List(key string) ([]int64, []string) {
	var out []int64
	var bad []string
	for _, part := range getEnvList(key) {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			bad = append(bad, part)
			continue
		}
		out = append(out, id)
	}
	return out, bad
}
