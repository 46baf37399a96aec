package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/jobs"
)

// DefaultIngestionActor is recorded on every row written by an ingestion.
const DefaultIngestionActor = "tech@bloomthis.co"

type Config struct {
	HTTPPort      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSslMode     string
	DBAutoMigrate bool

	IngestionActor         string
	DeliveryTimezone       string
	StatusTransitionPolicy string
	StageRawPayloads       bool

	ReplaySchedule    string
	ReplayBatchSize   int
	ReplayMaxAttempts int
	ReplayConcurrency int
}

// LoadConfig reads the configuration through lookup, which returns "" for unset keys.
func LoadConfig(lookup func(key string) string) (Config, error) {
	c := Config{
		HTTPPort:               withDefault(lookup("HTTP_PORT"), "8080"),
		DBHost:                 lookup("DB_HOST"),
		DBPort:                 withDefault(lookup("DB_PORT"), "5432"),
		DBUser:                 lookup("DB_USER"),
		DBPassword:             lookup("DB_PASSWORD"),
		DBName:                 lookup("DB_NAME"),
		DBSslMode:              withDefault(lookup("DB_SSLMODE"), "disable"),
		IngestionActor:         withDefault(lookup("INGESTION_ACTOR"), DefaultIngestionActor),
		DeliveryTimezone:       strings.TrimSpace(lookup("DELIVERY_TIMEZONE")),
		StatusTransitionPolicy: withDefault(lookup("STATUS_TRANSITION_POLICY"), order.PolicyPermissive),
		ReplaySchedule:         withDefault(lookup("REPLAY_SCHEDULE"), jobs.DefaultReplaySchedule),
	}

	var err error
	if c.DBAutoMigrate, err = parseBool(lookup, "DB_AUTO_MIGRATE", false); err != nil {
		return Config{}, err
	}
	if c.StageRawPayloads, err = parseBool(lookup, "STAGE_RAW_PAYLOADS", true); err != nil {
		return Config{}, err
	}
	if c.ReplayBatchSize, err = parseInt(lookup, "REPLAY_BATCH_SIZE", 50); err != nil {
		return Config{}, err
	}
	if c.ReplayMaxAttempts, err = parseInt(lookup, "REPLAY_MAX_ATTEMPTS", 5); err != nil {
		return Config{}, err
	}
	if c.ReplayConcurrency, err = parseInt(lookup, "REPLAY_CONCURRENCY", 4); err != nil {
		return Config{}, err
	}

	return c, nil
}

// DSN is the libpq style connection string for gorm.io/driver/postgres.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// Location resolves DeliveryTimezone. Empty means the server's local zone.
func (c Config) Location() (*time.Location, error) {
	if c.DeliveryTimezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.DeliveryTimezone)
}

func withDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}

func parseBool(lookup func(string) string, key string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(lookup(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func parseInt(lookup func(string) string, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(lookup(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

// EnvLookup reads the process environment.
func EnvLookup(key string) string {
	return os.Getenv(key)
}
