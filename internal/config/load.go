package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Environment variable names for the three required credentials.
// Kept as the canonical names so a missing-credential error tells the
// operator exactly which variable to set.
const (
	EnvPracticumToken = "PRACTICUM_TOKEN"
	EnvTelegramToken  = "TELEGRAM_TOKEN"
	EnvTelegramChatID = "TELEGRAM_CHAT_ID"
)

// Default returns the built-in configuration: console logging, default
// endpoint, 600s poll interval, storage and digest disabled.
func Default() *Config {
	return &Config{
		Practicum: PracticumConfig{
			Endpoint:       DefaultEndpoint,
			PollInterval:   "600s",
			RequestTimeout: "30s",
		},
		Logging: LoggingConfig{Level: "info", Console: true},
	}
}

// Parse reads and strictly decodes the config file at path.
func Parse(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	jb, err := coerceToJSONBytes(path, b)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	dec := json.NewDecoder(bytes.NewReader(jb))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, err
	}
	// reject trailing tokens (e.g. concatenated JSON)
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("invalid config: trailing data")
		}
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv fills empty credential fields from the process environment.
// Explicit config values win.
func ApplyEnv(cfg *Config) error {
	if strings.TrimSpace(cfg.Practicum.Token) == "" {
		cfg.Practicum.Token = strings.TrimSpace(os.Getenv(EnvPracticumToken))
	}
	if strings.TrimSpace(cfg.Telegram.Token) == "" {
		cfg.Telegram.Token = strings.TrimSpace(os.Getenv(EnvTelegramToken))
	}
	if cfg.Telegram.ChatID == 0 {
		raw := strings.TrimSpace(os.Getenv(EnvTelegramChatID))
		if raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return fmt.Errorf("%s: invalid chat id %q: %w", EnvTelegramChatID, raw, err)
			}
			cfg.Telegram.ChatID = id
		}
	}
	return nil
}

// MissingCredentials returns the credential names (env-var spelling) that
// are still unset after config + environment merging.
func MissingCredentials(cfg *Config) []string {
	var missing []string
	if strings.TrimSpace(cfg.Practicum.Token) == "" {
		missing = append(missing, EnvPracticumToken)
	}
	if strings.TrimSpace(cfg.Telegram.Token) == "" {
		missing = append(missing, EnvTelegramToken)
	}
	if cfg.Telegram.ChatID == 0 {
		missing = append(missing, EnvTelegramChatID)
	}
	return missing
}

// Validate checks the startup preconditions. A non-nil error here is fatal:
// the daemon must not enter the poll loop without all three credentials.
func Validate(cfg *Config) error {
	if missing := MissingCredentials(cfg); len(missing) > 0 {
		return fmt.Errorf("missing required credentials: %s", strings.Join(missing, ", "))
	}
	if strings.TrimSpace(cfg.Practicum.Endpoint) == "" {
		return fmt.Errorf("practicum.endpoint must not be empty")
	}
	if _, err := ParseDurationField("practicum.poll_interval", cfg.Practicum.PollInterval); err != nil {
		return err
	}
	if _, err := ParseDurationField("practicum.request_timeout", cfg.Practicum.RequestTimeout); err != nil {
		return err
	}
	if cfg.Storage != nil {
		if _, err := ParseDurationField("storage.busy_timeout", cfg.Storage.BusyTimeout); err != nil {
			return err
		}
	}
	return nil
}
