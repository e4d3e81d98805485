package config

// Config is the full daemon configuration.
//
// All durations are Go duration strings (e.g. "30s", "10m").
// The three credentials (practicum.token, telegram.token, telegram.chat_id)
// may instead come from the environment: PRACTICUM_TOKEN, TELEGRAM_TOKEN,
// TELEGRAM_CHAT_ID. An explicit config value wins over the environment.
type Config struct {
	Practicum PracticumConfig `json:"practicum"`
	Telegram  TelegramConfig  `json:"telegram"`
	Logging   LoggingConfig   `json:"logging"`
	Notifier  NotifierConfig  `json:"notifier,omitempty"`
	Storage   *StorageConfig  `json:"storage,omitempty"`
	Digest    *DigestConfig   `json:"digest,omitempty"`
}

// PracticumConfig points at the homework-status endpoint.
type PracticumConfig struct {
	Token    string `json:"token"`
	Endpoint string `json:"endpoint,omitempty"`

	// PollInterval is the fixed delay applied after every poll cycle.
	// Default: "600s".
	PollInterval string `json:"poll_interval,omitempty"`

	// RequestTimeout bounds a single status request. Default: "30s".
	RequestTimeout string `json:"request_timeout,omitempty"`
}

type TelegramConfig struct {
	Token    string `json:"token"`
	ChatID   int64  `json:"chat_id"`
	ThreadID int    `json:"thread_id,omitempty"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// NotifierConfig tunes outbound message pacing.
type NotifierConfig struct {
	RatePerSec int `json:"rate_per_sec,omitempty"`
}

// StorageConfig controls the optional notification audit trail.
//
// Driver values:
//   - "file": dependency-free JSONL backend
//   - "sqlite": SQLite database file (requires the sqlite build tag)
//
// If the section is omitted or Driver is empty/"none", storage is disabled.
type StorageConfig struct {
	Driver      string `json:"driver"`
	Path        string `json:"path"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // Go duration string (sqlite)
}

// DigestConfig controls the optional daily summary message.
// Schedule is a standard 5-field cron spec; empty disables the digest.
type DigestConfig struct {
	Schedule string `json:"schedule"`
	Timezone string `json:"timezone,omitempty"`
}

const DefaultEndpoint = "https://practicum.yandex.ru/api/user_api/homework_statuses/"
