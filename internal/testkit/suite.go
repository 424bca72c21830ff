package testkit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/redis/go-redis/v9"
)

// Suite owns the integration infrastructure: the migrated query log database
// and the table cache, with their containers.
type Suite struct {
	mu    sync.Mutex
	cfg   Config
	pg    *PostgresModule
	redis *RedisModule
	db    *sql.DB
	cache *redis.Client
}

var (
	globalSuite *Suite
	globalOnce  sync.Once
)

// Global returns the singleton Suite instance.
func Global() *Suite {
	globalOnce.Do(func() {
		globalSuite = &Suite{cfg: LoadConfig()}
	})
	return globalSuite
}

// Setup starts the containers (or uses external overrides), migrates the
// query log and connects to the table cache.
func (s *Suite) Setup(ctx context.Context) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return fmt.Errorf("suite already set up; call Shutdown first")
	}
	defer func() {
		if err != nil {
			s.teardown(ctx)
		}
	}()

	if s.pg, err = StartPostgres(ctx, &s.cfg); err != nil {
		return fmt.Errorf("setup postgres: %w", err)
	}
	if s.redis, err = StartRedis(ctx, &s.cfg); err != nil {
		return fmt.Errorf("setup redis: %w", err)
	}
	if s.db, err = s.pg.OpenQueryLog(ctx); err != nil {
		return fmt.Errorf("open query log: %w", err)
	}
	if s.cache, err = s.redis.OpenTableCache(ctx); err != nil {
		return fmt.Errorf("open table cache: %w", err)
	}
	return nil
}

// Shutdown closes the clients and terminates the containers unless
// FXREADER_TEST_KEEP_CONTAINERS is set.
func (s *Suite) Shutdown(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teardown(ctx)
}

func (s *Suite) teardown(ctx context.Context) {
	var errs []error
	if s.cache != nil {
		errs = append(errs, s.cache.Close())
		s.cache = nil
	}
	if s.db != nil {
		errs = append(errs, s.db.Close())
		s.db = nil
	}

	if s.cfg.KeepContainers {
		if s.pg != nil {
			fmt.Println("keeping query log database:", s.pg.DSN())
		}
		if s.redis != nil {
			fmt.Println("keeping table cache:", s.redis.Addr())
		}
	} else {
		if s.redis != nil {
			errs = append(errs, s.redis.Terminate(ctx))
		}
		if s.pg != nil {
			errs = append(errs, s.pg.Terminate(ctx))
		}
	}
	s.pg, s.redis = nil, nil

	if err := errors.Join(errs...); err != nil {
		fmt.Fprintln(os.Stderr, "testkit: teardown:", err)
	}
}

// DB returns the migrated query log database.
func (s *Suite) DB() *sql.DB {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db
}

// Cache returns the table cache client.
func (s *Suite) Cache() *redis.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache
}

// Reset empties the query log and the table cache before a test.
func (s *Suite) Reset(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	if err := TruncateQueryLog(ctx, s.DB()); err != nil {
		t.Fatal(err)
	}
	if err := ClearTableCache(ctx, s.Cache()); err != nil {
		t.Fatal(err)
	}
}

// Run sets up the suite, runs the tests and shuts the suite down.
// Intended for use in TestMain.
func (s *Suite) Run(m *testing.M) {
	ctx := context.Background()

	if err := s.Setup(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "integration test setup failed: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	s.Shutdown(ctx)
	os.Exit(code)
}

// Run is a package-level convenience that delegates to Global().Run.
func Run(m *testing.M) {
	Global().Run(m)
}
