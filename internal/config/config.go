package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Data modes select the community data source.
const (
	ModeMock = "mock"
	ModeDB   = "db"
	ModeREST = "rest"
)

// Config holds the application configuration.
type Config struct {
	Server   ServerConfig
	Source   SourceConfig
	Auth     AuthConfig
	Activity ActivityConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port        string
	DevelopMode bool
	Lang        string // validation message language, en or zh
}

type SourceConfig struct {
	Mode           string // mock, db, rest
	DatabaseURL    string
	BackendBaseURL string
	BackendTimeout time.Duration
	PageLimit      int
	RateLimit      float64 // backend requests per second, 0 disables the limiter
	RateBurst      int
	MockLatency    time.Duration
}

type AuthConfig struct {
	AdminTokenHash string // bcrypt hash of the admin bearer token
}

type ActivityConfig struct {
	CacheSize int // 0 keeps every user until restart
}

type LogConfig struct {
	Level      string
	Path       string
	MaxSize    int
	MaxBackups int
	Compress   bool
	Console    bool
}

// Load reads configuration from the environment.
// Priority: process environment > .env file > defaults.
func Load() *Config {
	// A missing .env file is fine, the process environment is used instead.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return &Config{
		Server: ServerConfig{
			Port:        v.GetString("PORT"),
			DevelopMode: v.GetBool("DEVELOP_MODE"),
			Lang:        strings.ToLower(v.GetString("LANG_VALIDATION")),
		},
		Source: SourceConfig{
			Mode:           strings.ToLower(v.GetString("DATA_MODE")),
			DatabaseURL:    v.GetString("DATABASE_URL"),
			BackendBaseURL: strings.TrimSuffix(v.GetString("BACKEND_BASE_URL"), "/"),
			BackendTimeout: v.GetDuration("BACKEND_TIMEOUT"),
			PageLimit:      v.GetInt("BACKEND_PAGE_LIMIT"),
			RateLimit:      v.GetFloat64("BACKEND_RPS"),
			RateBurst:      v.GetInt("BACKEND_BURST"),
			MockLatency:    v.GetDuration("MOCK_LATENCY"),
		},
		Auth: AuthConfig{
			AdminTokenHash: v.GetString("ADMIN_TOKEN_HASH"),
		},
		Activity: ActivityConfig{
			CacheSize: v.GetInt("ACTIVITY_CACHE_SIZE"),
		},
		Log: LogConfig{
			Level:      v.GetString("LOG_LEVEL"),
			Path:       v.GetString("LOG_PATH"),
			MaxSize:    v.GetInt("LOG_MAX_SIZE"),
			MaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
			Compress:   v.GetBool("LOG_COMPRESS"),
			Console:    v.GetBool("LOG_CONSOLE"),
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEVELOP_MODE", false)
	v.SetDefault("LANG_VALIDATION", "en")

	v.SetDefault("DATA_MODE", ModeMock)
	v.SetDefault("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=lingoboard port=5432 sslmode=disable")
	v.SetDefault("BACKEND_BASE_URL", "http://localhost:3000/api")
	v.SetDefault("BACKEND_TIMEOUT", 10*time.Second)
	v.SetDefault("BACKEND_PAGE_LIMIT", 100)
	v.SetDefault("BACKEND_RPS", 0)
	v.SetDefault("BACKEND_BURST", 10)
	v.SetDefault("MOCK_LATENCY", time.Duration(0))

	v.SetDefault("ACTIVITY_CACHE_SIZE", 0)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PATH", "./logs/lingoboard.log")
	v.SetDefault("LOG_MAX_SIZE", 16)
	v.SetDefault("LOG_MAX_BACKUPS", 5)
	v.SetDefault("LOG_COMPRESS", false)
	v.SetDefault("LOG_CONSOLE", true)
}
