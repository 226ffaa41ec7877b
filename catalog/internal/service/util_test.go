package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	testRedis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/ipetrenko/cardshop/catalog/internal/repository"
)

type fixture struct {
	pool           *pgxpool.Pool
	cache          *redis.Client
	queries        *repository.Queries
	products       ProductService
	pgContainer    *postgres.PostgresContainer
	redisContainer *testRedis.RedisContainer
}

func setup(t *testing.T, c context.Context, seedPaths ...string) *fixture {
	t.Helper()

	pgContainer, err := postgres.Run(
		c,
		"postgres:16.6-alpine3.21",
		testcontainers.WithEnv(map[string]string{
			"POSTGRES_DB":       "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_PORT":     "5432",
			"POSTGRES_USER":     "postgres",
		}),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		postgres.WithDatabase("postgres"),
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts(
			append(
				[]string{filepath.Join("..", "..", "migrations", "000001_init.up.sql")},
				seedPaths...)...,
		),
	)
	if err != nil {
		t.Fatalf("failed running postgres container with error: %s", err)
	}

	pgConnStr, err := pgContainer.ConnectionString(c)
	if err != nil {
		t.Fatalf("failed getting postgres connection string with error: %s", err)
	}

	pgConfig, err := pgxpool.ParseConfig(pgConnStr)
	if err != nil {
		t.Fatalf("failed parsing pgconfig with error: %s", err)
	}

	pool, err := pgxpool.NewWithConfig(c, pgConfig)
	if err != nil {
		t.Fatalf("failed creating postgres pool with error: %s", err)
	}

	if err = pool.Ping(c); err != nil {
		t.Fatalf("failed ping postgres pool with error: %s", err)
	}

	redisContainer, err := testRedis.Run(
		c,
		"redis:7.4.2-alpine3.21",
		testRedis.WithLogLevel(testRedis.LogLevelVerbose),
	)
	if err != nil {
		t.Fatalf("failed running redis container with error: %s", err)
	}

	redisConnStr, err := redisContainer.ConnectionString(c)
	if err != nil {
		t.Fatalf("failed getting redis connection string with error: %s", err)
	}

	redisOpt, err := redis.ParseURL(redisConnStr)
	if err != nil {
		t.Fatalf("failed parsing redis connection string with error: %s", err)
	}

	redisClient := redis.NewClient(redisOpt)
	if err = redisClient.Ping(c).Err(); err != nil {
		t.Fatalf("failed ping redis client with error: %s", err)
	}

	queries := repository.New(pool)
	f := &fixture{
		pool:           pool,
		cache:          redisClient,
		queries:        queries,
		products:       NewProductService(queries, redisClient),
		pgContainer:    pgContainer,
		redisContainer: redisContainer,
	}
	t.Cleanup(func() { teardown(t, f) })
	return f
}

func teardown(t *testing.T, f *fixture) {
	t.Helper()
	f.cache.Close()
	f.pool.Close()
	if err := testcontainers.TerminateContainer(f.pgContainer); err != nil {
		t.Fatalf("failed to terminate container: %s", err)
	}
	if err := testcontainers.TerminateContainer(f.redisContainer); err != nil {
		t.Fatalf("failed to terminate container: %s", err)
	}
}
