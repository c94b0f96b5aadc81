package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port            string
	DefaultProvider string
	DefaultModel    string
	OpenAIKey       string
	OpenAIBaseURL   string
	GroqKey         string
	OllamaHost      string
	OracleTimeout   time.Duration

	SessionStore string // "memory" | "sqlite"
	SQLitePath   string
	SessionTTL   time.Duration

	VocabFile     string
	VocabCacheTTL time.Duration

	RateLimitRPS   int
	RateLimitBurst int

	ExportEnabled bool
	ExportFile    string

	AdminUser string
	AdminPass string
}

// Load reads a .env file if one exists and then builds the config from the
// process environment.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env")
	}
	return FromEnv()
}

func FromEnv() Config {
	c := Config{}
	c.Port = getenv("PORT", "8080")
	c.DefaultProvider = strings.ToLower(getenv("DEFAULT_PROVIDER", "openai"))
	c.DefaultModel = getenv("DEFAULT_MODEL", "gpt-4o")
	c.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	c.OpenAIBaseURL = os.Getenv("OPENAI_BASE_URL")
	c.GroqKey = os.Getenv("GROQ_API_KEY")
	c.OllamaHost = getenv("OLLAMA_HOST", "http://localhost:11434")
	c.OracleTimeout = getenvDuration("ORACLE_TIMEOUT", 30*time.Second)

	c.SessionStore = strings.ToLower(getenv("SESSION_STORE", "memory"))
	c.SQLitePath = getenv("SQLITE_PATH", "./akinator.db")
	c.SessionTTL = getenvDuration("SESSION_TTL", 2*time.Hour)

	c.VocabFile = os.Getenv("VOCAB_FILE")
	c.VocabCacheTTL = getenvDuration("VOCAB_CACHE_TTL", 10*time.Minute)

	c.RateLimitRPS = getenvInt("RATE_LIMIT_RPS", 2)
	c.RateLimitBurst = getenvInt("RATE_LIMIT_BURST", 5)

	c.ExportEnabled = getenv("EXPORT_ENABLED", "false") == "true"
	c.ExportFile = getenv("EXPORT_FILE", "./akinator-transcripts.txt")

	c.AdminUser = os.Getenv("ADMIN_USER")
	c.AdminPass = os.Getenv("ADMIN_PASS")
	return c
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Warn().Str("key", k).Str("value", v).Dur("default", def).Msg("invalid duration, using default")
		return def
	}
	return d
}

func getenvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", k).Str("value", v).Int("default", def).Msg("invalid int, using default")
		return def
	}
	return i
}
