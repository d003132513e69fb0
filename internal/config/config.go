package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. Required values are enforced by must() so
// a misconfigured process refuses to start instead of limping along with
// defaults — in particular there is no fallback signing secret.
type Config struct {
	Env        string // application environment ("dev", "test", "prod")
	Port       string // HTTP port to listen on
	DBUser     string // database username
	DBPass     string // database password (optional)
	DBHost     string // database host address
	DBPort     string // database port number
	DBName     string // database name
	JWTSecret  string // secret used to sign session tokens; never logged
	BcryptCost int    // bcrypt cost for password hashing
	CORSOrigin string // browser origin allowed to send credentialed requests
}

// Load reads configuration from the environment. Missing required
// variables cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:        must("APP_ENV"),
		Port:       must("APP_PORT"),
		DBUser:     must("DB_USER"),
		DBPass:     os.Getenv("DB_PASS"), // empty allowed
		DBHost:     must("DB_HOST"),
		DBPort:     must("DB_PORT"),
		DBName:     must("DB_NAME"),
		JWTSecret:  must("JWT_SECRET"),
		BcryptCost: intOr("BCRYPT_COST", 10),
		CORSOrigin: envOr("CORS_ORIGIN", "http://localhost:3000"),
	}
}

// IsProd reports whether production hardening applies, which currently
// means the Secure attribute on auth cookies.
func (c Config) IsProd() bool { return c.Env == "prod" }

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// intOr reads an optional integer variable, falling back to def when the
// variable is unset. A present but unparsable value is a fatal error.
func intOr(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
