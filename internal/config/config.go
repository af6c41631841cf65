package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Config is loaded once at startup and passed down explicitly. Changing it
// requires a restart.
type Config struct {
	Port          string
	Env           string
	MongoURI      string
	MongoDB       string
	JWTSecret     string
	Location      *time.Location
	DefaultLocale string

	AutoProvisionSchedule bool
	DefaultScheduleStart  string
	DefaultScheduleEnd    string
	DefaultGraceMinutes   int

	MattermostURL          string
	MattermostBotToken     string
	MattermostAlertChannel string

	AllowedOrigins []string
	EnableAPIDocs  bool
	TrustProxy     bool // honour X-Forwarded-For from a reverse proxy
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "3000"),
		Env:           getEnv("ENV", "development"),
		MongoURI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGODB_DATABASE", "shinobi_rh"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		DefaultLocale: getEnv("DEFAULT_LOCALE", "fr"),

		AutoProvisionSchedule: getEnvBool("AUTO_PROVISION_SCHEDULE", true),
		DefaultScheduleStart:  getEnv("DEFAULT_SCHEDULE_START", "09:00"),
		DefaultScheduleEnd:    getEnv("DEFAULT_SCHEDULE_END", "17:00"),
		DefaultGraceMinutes:   getEnvInt("DEFAULT_GRACE_MINUTES", 15),

		MattermostURL:          strings.TrimRight(os.Getenv("MATTERMOST_URL"), "/"),
		MattermostBotToken:     os.Getenv("MATTERMOST_BOT_TOKEN"),
		MattermostAlertChannel: os.Getenv("MATTERMOST_ALERT_CHANNEL_ID"),

		AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS")),
		TrustProxy:     getEnvBool("TRUST_PROXY", false),
	}
	cfg.EnableAPIDocs = getEnvBool("ENABLE_API_DOCS", cfg.Env != "production")

	tz := getEnv("TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err)
	}
	cfg.Location = loc

	missing := []string{}
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return nil, errors.New("missing env: " + strings.Join(missing, ", "))
	}

	return cfg, nil
}

// NotificationsEnabled reports whether late-arrival alerts can be posted.
func (c *Config) NotificationsEnabled() bool {
	return c.MattermostURL != "" && c.MattermostBotToken != "" && c.MattermostAlertChannel != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
