package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Document store backend selection
	DocBackend string

	// Firebase (firestore backend + token verification)
	FirebaseProjectID string
	FirebaseAPIKey    string

	// Bank aggregator endpoints
	BankLinkTokenURL    string
	BankExchangeURL     string
	BankAccountsURL     string
	BankTransactionsURL string

	// Bank snapshot cache
	SnapshotTTL time.Duration

	// SQLite mirror (worker)
	SQLiteDBPath string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

func Load() *Config {
	return &Config{
		Port:       getEnv("PORT", "8081"),
		DocBackend: getEnv("DOC_BACKEND", "memory"),

		FirebaseProjectID: getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseAPIKey:    getEnv("FIREBASE_WEB_API_KEY", ""),

		BankLinkTokenURL:    getEnv("BANK_CREATE_LINK_URL", ""),
		BankExchangeURL:     getEnv("BANK_EXCHANGE_URL", ""),
		BankAccountsURL:     getEnv("BANK_ACCOUNTS_URL", ""),
		BankTransactionsURL: getEnv("BANK_TRANSACTIONS_URL", ""),

		SnapshotTTL: getEnvDuration("BANK_SNAPSHOT_TTL", 5*time.Minute),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/santi.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "santi"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ledger_changes"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DocBackend {
	case "memory":
	case "firestore":
		if c.FirebaseProjectID == "" {
			errs = append(errs, "FIREBASE_PROJECT_ID is required when using the firestore backend")
		}
	default:
		errs = append(errs, fmt.Sprintf("invalid doc backend '%s': must be one of [memory firestore]", c.DocBackend))
	}

	for name, raw := range map[string]string{
		"BANK_CREATE_LINK_URL":  c.BankLinkTokenURL,
		"BANK_EXCHANGE_URL":     c.BankExchangeURL,
		"BANK_ACCOUNTS_URL":     c.BankAccountsURL,
		"BANK_TRANSACTIONS_URL": c.BankTransactionsURL,
	} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, fmt.Sprintf("invalid %s '%s': must be an http(s) URL", name, raw))
		}
	}

	if c.SnapshotTTL < time.Second || c.SnapshotTTL > 24*time.Hour {
		errs = append(errs, fmt.Sprintf("invalid snapshot TTL %v: must be between 1s and 24h", c.SnapshotTTL))
	}

	if c.SQLiteDBPath == "" {
		errs = append(errs, "SQLite database path cannot be empty")
	} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				errs = append(errs, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
			}
		}
	}

	if c.AMQPURL != "" {
		if u, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if u.Scheme != "amqp" && u.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", u.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
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
