package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

// DatabaseConfig tunes the SQLite file. Zero values fall back to the
// defaults applied in database.Init.
type DatabaseConfig struct {
	Path                   string `mapstructure:"path"`
	LogMode                bool   `mapstructure:"log_mode"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes"`
	BusyTimeoutMS          int    `mapstructure:"busy_timeout_ms"`
	JournalMode            string `mapstructure:"journal_mode"`
	Synchronous            string `mapstructure:"synchronous"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	Issuer      string `mapstructure:"issuer"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type SecurityConfig struct {
	BcryptCost    int    `mapstructure:"bcrypt_cost"`
	EncryptionKey string `mapstructure:"encryption_key"`
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	Production bool   `mapstructure:"production"`
}

// GeminiConfig holds the hosted LLM settings. APIKey falls back to
// GOOGLE_API_KEY from the environment / .env file.
type GeminiConfig struct {
	APIKey         string `mapstructure:"api_key"`
	BaseURL        string `mapstructure:"base_url"`
	ChatModel      string `mapstructure:"chat_model"`
	EmbeddingModel string `mapstructure:"embedding_model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type MentorConfig struct {
	MinMonths             int `mapstructure:"min_months"`
	Limit                 int `mapstructure:"limit"`
	EmbeddingCacheMinutes int `mapstructure:"embedding_cache_minutes"`
}

type InvitesConfig struct {
	Dir string `mapstructure:"dir"`
}

type ProgressConfig struct {
	CSVDir string `mapstructure:"csv_dir"`
}

type OnboardingConfig struct {
	EmployeeCSV string `mapstructure:"employee_csv"`
	OfficeCSV   string `mapstructure:"office_csv"`
}

type MailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type EventsConfig struct {
	NatsURL string `mapstructure:"nats_url"`
}

type SchedulerConfig struct {
	CompleteIntervalSeconds int `mapstructure:"complete_interval_seconds"`
}

type AppSubConfig struct {
	PageSize int `mapstructure:"page_size"`
}

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Security   SecurityConfig   `mapstructure:"security"`
	Log        LogConfig        `mapstructure:"log"`
	Gemini     GeminiConfig     `mapstructure:"gemini"`
	Mentor     MentorConfig     `mapstructure:"mentor"`
	Invites    InvitesConfig    `mapstructure:"invites"`
	Progress   ProgressConfig   `mapstructure:"progress"`
	Onboarding OnboardingConfig `mapstructure:"onboarding"`
	Mail       MailConfig       `mapstructure:"mail"`
	Events     EventsConfig     `mapstructure:"events"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
	App        AppSubConfig     `mapstructure:"app"`
}

var (
	appConfig *Config
	once      sync.Once
)

// Load loads configuration from given file path (e.g. "config.yaml").
// If path is empty, it looks for "config.yaml" in the working directory.
// Without a config file the defaults plus MM_* env vars apply.
func Load(path string) (*Config, error) {
	var err error
	once.Do(func() {
		appConfig, err = read(path)
	})

	if err != nil {
		return nil, err
	}
	return appConfig, nil
}

// Get returns the loaded global configuration.
// Call Load() once at application startup.
func Get() *Config {
	return appConfig
}

func read(path string) (*Config, error) {
	// .env is optional; real environment variables win over it
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	// environment overrides, e.g. MM_SERVER_PORT=9000
	v.SetEnvPrefix("MM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if c.Gemini.APIKey == "" {
		c.Gemini.APIKey = os.Getenv("GOOGLE_API_KEY")
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")

	v.SetDefault("database.path", "data/mentormatch.db")
	v.SetDefault("database.log_mode", false)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime_minutes", 60)
	v.SetDefault("database.busy_timeout_ms", 5000)
	v.SetDefault("database.journal_mode", "WAL")
	v.SetDefault("database.synchronous", "NORMAL")

	v.SetDefault("jwt.secret", "change-me")
	v.SetDefault("jwt.issuer", "sap360-hub")
	v.SetDefault("jwt.expire_hours", 24)

	v.SetDefault("security.bcrypt_cost", 12)
	v.SetDefault("security.encryption_key", "")

	v.SetDefault("log.file", "logs/app.log")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.production", false)

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("gemini.chat_model", "gemini-1.5-flash")
	v.SetDefault("gemini.embedding_model", "text-embedding-004")
	v.SetDefault("gemini.timeout_seconds", 30)

	v.SetDefault("mentor.min_months", 24)
	v.SetDefault("mentor.limit", 3)
	v.SetDefault("mentor.embedding_cache_minutes", 60)

	v.SetDefault("invites.dir", "invites")
	v.SetDefault("progress.csv_dir", "data")

	v.SetDefault("onboarding.employee_csv", "Employee Dataset1.csv")
	v.SetDefault("onboarding.office_csv", "OfficeDetails.csv")

	v.SetDefault("mail.enabled", false)
	v.SetDefault("mail.host", "")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.from", "")

	v.SetDefault("events.nats_url", "")

	v.SetDefault("scheduler.complete_interval_seconds", 60)

	v.SetDefault("app.page_size", 20)
}
