// Package testkit starts the Postgres query log and the Redis table cache used
// by integration tests, either as testcontainers or from external addresses.
package testkit

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds environment-driven configuration for integration test infrastructure.
// Every key is read from FXREADER_TEST_<KEY>.
type Config struct {
	PGImage        string
	RedisImage     string
	PGDSN          string        // If set, no Postgres container is started.
	RedisAddr      string        // If set, no Redis container is started.
	StartupTimeout time.Duration // Max time to wait for containers to become ready.
	KeepContainers bool          // Leave containers running after the suite.
}

// LoadConfig reads test infrastructure settings from the environment.
func LoadConfig() Config {
	v := viper.New()
	v.SetEnvPrefix("FXREADER_TEST")
	v.AutomaticEnv()

	v.SetDefault("pg_image", "postgres:18.1-alpine")
	v.SetDefault("redis_image", "redis:8.4.0-alpine")
	v.SetDefault("pg_dsn", "")
	v.SetDefault("redis_addr", "")
	v.SetDefault("startup_timeout", "90s")
	v.SetDefault("keep_containers", false)

	return Config{
		PGImage:        v.GetString("pg_image"),
		RedisImage:     v.GetString("redis_image"),
		PGDSN:          v.GetString("pg_dsn"),
		RedisAddr:      v.GetString("redis_addr"),
		StartupTimeout: parseTimeout(v.GetString("startup_timeout"), 90*time.Second),
		KeepContainers: v.GetBool("keep_containers"),
	}
}

// parseTimeout accepts a Go duration or a plain number of seconds.
func parseTimeout(s string, def time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second
	}
	fmt.Fprintf(os.Stderr, "testkit: invalid startup timeout %q, using %v\n", s, def)
	return def
}
