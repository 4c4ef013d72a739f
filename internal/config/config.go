package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port int

	// memory | postgres
	StoreDriver string
	DBURL       string
	DBMaxConns  int

	// memory | redis
	CacheDriver   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration
	// memory driver only
	CacheMaxEntries int
	// cron spec in DisplayTimezone; "off" disables the midnight purge
	CacheRolloverCron string

	DisplayTimezone *time.Location
	VenueOpen       time.Duration
	VenueClose      time.Duration
	SlotStep        time.Duration
	MaxSlots        int

	AlmostFullRatio      float64
	CalendarPreviewLimit int

	SeedFile string

	OTelEnabled     bool
	OTelEndpoint    string
	OTelSampleRatio float64 // share of root traces kept, 0..1

	CORSAllowedOrigins []string
	MaxBodyBytes       int64
	RateLimitPerMinute int
}

// Load reads the process environment, after merging a .env file when one is present.
func Load() Config {
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "dev")
	port := getEnvInt("PORT", 8080)

	return Config{
		Env:  env,
		Port: port,

		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", "memory")),
		DBURL:       buildDBURL(),
		DBMaxConns:  getEnvInt("DB_MAX_CONNS", 5),

		CacheDriver:     strings.ToLower(getEnv("CACHE_DRIVER", "memory")),
		RedisAddr:       getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		CacheTTL:        time.Duration(getEnvInt("CACHE_TTL_SECONDS", 5)) * time.Second,
		CacheMaxEntries: getEnvInt("CACHE_MAX_ENTRIES", 1024),

		CacheRolloverCron: getEnv("CACHE_ROLLOVER_CRON", "0 0 * * *"),

		DisplayTimezone: resolveLocationOrLocal(getEnv("DISPLAY_TIMEZONE", "")),
		VenueOpen:       getEnvClock("VENUE_OPEN", 8*time.Hour),
		VenueClose:      getEnvClock("VENUE_CLOSE", 22*time.Hour),
		SlotStep:        time.Duration(getEnvInt("SLOT_STEP_MINUTES", 15)) * time.Minute,
		MaxSlots:        getEnvInt("MAX_SUGGESTED_SLOTS", 3),

		AlmostFullRatio:      getEnvFloat("ALMOST_FULL_RATIO", 0.2),
		CalendarPreviewLimit: getEnvInt("CALENDAR_PREVIEW_LIMIT", 3),

		SeedFile: getEnv("SEED_FILE", ""),

		OTelEnabled:     getEnvBool("OTEL_ENABLED", false),
		OTelEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTelSampleRatio: getEnvFloat("OTEL_TRACES_SAMPLER_ARG", 1),

		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		MaxBodyBytes:       int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
	}
}

func buildDBURL() string {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		return v
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "campusevents")
	pass := getEnv("DB_PASSWORD", "campusevents")
	name := getEnv("DB_NAME", "campusevents")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

// resolveLocationOrLocal falls back to the host zone for an empty or unknown name.
func resolveLocationOrLocal(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: unknown DISPLAY_TIMEZONE %q, using local: %v\n", name, err)
		return time.Local
	}
	return loc
}

// ParseClock turns "HH:MM" into an offset from midnight.
func ParseClock(v string) (time.Duration, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(v))
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %s: %v\n", key, err)
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %s: %v\n", key, err)
			return fallback
		}
		return f
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return b
	}
	return fallback
}

func getEnvClock(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := ParseClock(v)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %s: %v\n", key, err)
			return fallback
		}
		return d
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	out := make([]string, 0)
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
