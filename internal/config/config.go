package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	CatalogPath  string
	OutputDir    string
	OutputFormat string
	DBPath       string

	FilterAnonymous bool

	DetectMinScore   float64
	DetectMinMatches int

	SuggestLimit           int
	SuggestEnableThreshold int

	// GenericTemplate adds the flat "all fields" template to every run.
	GenericTemplate bool

	InboxDir string

	GmailClientID     string
	GmailClientSecret string
	GmailRedirectURI  string
	GmailRefreshToken string

	IMAPHost     string
	IMAPPort     int
	IMAPSecure   bool
	IMAPUser     string
	IMAPPassword string
	IMAPMarkSeen bool
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	outputDir := getEnv("OUTPUT_DIR", filepath.Join(cwd, "out"))
	cfg := Config{
		CatalogPath:  getEnv("FEEDJOIN_CATALOG_PATH", ""),
		OutputDir:    outputDir,
		OutputFormat: strings.ToLower(getEnv("OUTPUT_FORMAT", "csv")),
		DBPath:       getEnv("DB_PATH", filepath.Join(outputDir, "feedjoin.db")),

		FilterAnonymous: getEnvBool("FILTER_ANONYMOUS", true),

		DetectMinScore:   getEnvFloat("DETECT_MIN_SCORE", 0.5),
		DetectMinMatches: getEnvInt("DETECT_MIN_MATCHES", 2),

		SuggestLimit:           getEnvInt("SUGGEST_LIMIT", 3),
		SuggestEnableThreshold: getEnvInt("SUGGEST_ENABLE_THRESHOLD", 60),

		GenericTemplate: getEnvBool("GENERIC_TEMPLATE", false),

		InboxDir: getEnv("FEED_INBOX_DIR", filepath.Join(cwd, "data", "inbox")),

		GmailClientID:     getEnv("GMAIL_CLIENT_ID", ""),
		GmailClientSecret: getEnv("GMAIL_CLIENT_SECRET", ""),
		GmailRedirectURI:  getEnv("GMAIL_REDIRECT_URI", "https://developers.google.com/oauthplayground"),
		GmailRefreshToken: getEnv("GMAIL_REFRESH_TOKEN", ""),

		IMAPHost:     getEnv("IMAP_HOST", ""),
		IMAPPort:     getEnvInt("IMAP_PORT", 993),
		IMAPSecure:   getEnvBool("IMAP_SECURE", true),
		IMAPUser:     getEnv("IMAP_USER", ""),
		IMAPPassword: getEnv("IMAP_PASSWORD", ""),
		IMAPMarkSeen: getEnvBool("IMAP_MARK_SEEN", false),
	}

	switch cfg.OutputFormat {
	case "":
		cfg.OutputFormat = "csv"
	case "csv", "xlsx", "sqlite":
	default:
		return Config{}, fmt.Errorf("unsupported OUTPUT_FORMAT: %s", cfg.OutputFormat)
	}
	if cfg.SuggestLimit <= 0 {
		cfg.SuggestLimit = 3
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required value: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
