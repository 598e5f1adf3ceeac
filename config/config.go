// file: config/config.go
package config

import (
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Config holds everything the process reads from the environment.
// Handlers and services must go through this struct, never through
// os.Getenv directly.
type Config struct {
	Port        int
	DatabaseDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string
	TokenTTL  time.Duration

	BcryptCost int

	// Abuse monitor tuning.
	AbuseWindow              time.Duration
	RapidSubmissionThreshold int
	BruteforceSameChallenge  int
	BruteforceIncorrect      int

	// Classification endpoint (OpenAI-compatible). Empty URL disables the
	// classification pass; rule triggers are then persisted as-is.
	ClassifierURL     string
	ClassifierAPIKey  string
	ClassifierModel   string
	ClassifierTimeout time.Duration

	// "earliest" ranks the earlier last-solve first at equal points,
	// "none" sorts by points only.
	ScoreboardTiebreak string
}

var C Config

// Load populates the package-level Config from the environment.
func Load() {
	C = Config{
		Port:        envInt("PORT", 8080),
		DatabaseDSN: envStr("DATABASE_DSN", "host=localhost user=novactf password=novactf dbname=novactf port=5432 sslmode=disable"),

		RedisAddr:     envStr("REDIS_ADDR", "localhost:6379"),
		RedisPassword: envStr("REDIS_PASSWORD", ""),
		RedisDB:       envInt("REDIS_DB", 0),

		JWTSecret: envStr("JWT_SECRET", "dev-only-secret-change-me"),
		TokenTTL:  envDuration("TOKEN_TTL", 7*24*time.Hour),

		BcryptCost: envInt("BCRYPT_COST", bcrypt.DefaultCost),

		AbuseWindow:              envDuration("ABUSE_WINDOW", 5*time.Minute),
		RapidSubmissionThreshold: envInt("ABUSE_RAPID_THRESHOLD", 10),
		BruteforceSameChallenge:  envInt("ABUSE_BRUTEFORCE_SAME_CHALLENGE", 5),
		BruteforceIncorrect:      envInt("ABUSE_BRUTEFORCE_INCORRECT", 4),

		ClassifierURL:     envStr("CLASSIFIER_URL", ""),
		ClassifierAPIKey:  envStr("CLASSIFIER_API_KEY", ""),
		ClassifierModel:   envStr("CLASSIFIER_MODEL", "gpt-4o-mini"),
		ClassifierTimeout: envDuration("CLASSIFIER_TIMEOUT", 10*time.Second),

		ScoreboardTiebreak: envStr("SCOREBOARD_TIEBREAK", "earliest"),
	}

	if C.BcryptCost < bcrypt.MinCost || C.BcryptCost > bcrypt.MaxCost {
		C.BcryptCost = bcrypt.DefaultCost
	}
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
