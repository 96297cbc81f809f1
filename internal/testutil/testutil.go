package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"room-scheduler-api/internal/config"
)

var (
	containerOnce sync.Once
	containerCfg  config.DBConfig
	containerErr  error
)

// Postgres returns a config pointing at a fresh, not yet created database
// on either DATABASE_URL or a throwaway postgres container. The test is
// skipped when neither is available.
func Postgres(t *testing.T) *config.Config {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres tests disabled in -short mode")
	}

	var db config.DBConfig
	if raw := os.Getenv("DATABASE_URL"); raw != "" {
		cc, err := pgx.ParseConfig(raw)
		if err != nil {
			t.Fatalf("DATABASE_URL: %v", err)
		}
		db = config.DBConfig{
			Host:     cc.Host,
			Port:     int(cc.Port),
			User:     cc.User,
			Password: cc.Password,
			SSLMode:  "disable",
		}
	} else {
		testcontainers.SkipIfProviderIsNotHealthy(t)
		containerOnce.Do(startContainer)
		if containerErr != nil {
			t.Fatalf("postgres container: %v", containerErr)
		}
		db = containerCfg
	}

	db.Name = "rooms_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	db.MaintenanceName = "postgres"
	db.MaxConns = 4
	db.ConnectTimeout = 5 * time.Second

	cfg := &config.Config{DB: db}
	t.Cleanup(func() { dropDatabase(cfg) })
	return cfg
}

func startContainer() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "postgres",
		},
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort("5432/tcp"),
		),
	}
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		containerErr = fmt.Errorf("start: %w", err)
		return
	}
	host, err := c.Host(ctx)
	if err != nil {
		containerErr = fmt.Errorf("host: %w", err)
		return
	}
	port, err := c.MappedPort(ctx, "5432")
	if err != nil {
		containerErr = fmt.Errorf("port: %w", err)
		return
	}
	// terminated by the testcontainers reaper when the test binary exits
	containerCfg = config.DBConfig{
		Host:     host,
		Port:     port.Int(),
		User:     "test",
		Password: "test",
		SSLMode:  "disable",
	}
}

func dropDatabase(cfg *config.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	conn, err := pgx.Connect(ctx, cfg.MaintenanceDSN())
	if err != nil {
		return
	}
	defer conn.Close(ctx)
	_, _ = conn.Exec(ctx, "DROP DATABASE IF EXISTS "+pgx.Identifier{cfg.DB.Name}.Sanitize()+" WITH (FORCE)")
}
