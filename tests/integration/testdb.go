//go:build integration

// Package integration runs the engine against a real PostgreSQL started with testcontainers.
package integration

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/invledger/backend/internal/infrastructure/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	// Shared container for all tests in the package
	sharedContainer   *tcpostgres.PostgresContainer
	sharedContainerMu sync.Mutex
	sharedDatabases   int
)

// NewPostgresConfig returns an engine configuration pointing at a fresh database
// inside the shared container. The schema is created by the engine's auto-migrate.
func NewPostgresConfig(t *testing.T, policy string) *config.Config {
	t.Helper()
	ctx := context.Background()

	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()

	if sharedContainer == nil {
		container, err := tcpostgres.Run(ctx,
			"postgres:16-alpine",
			tcpostgres.WithDatabase("invledger_test"),
			tcpostgres.WithUsername("postgres"),
			tcpostgres.WithPassword("admin123"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second)),
		)
		require.NoError(t, err, "Failed to start PostgreSQL container")
		sharedContainer = container
	}

	// one database per test keeps sequences and data isolated
	sharedDatabases++
	name := "ledger_" + time.Now().UTC().Format("150405") + "_" + strconv.Itoa(sharedDatabases)
	code, _, err := sharedContainer.Exec(ctx, []string{"psql", "-U", "postgres", "-c", "CREATE DATABASE " + name})
	require.NoError(t, err)
	require.Zero(t, code, "CREATE DATABASE %s failed", name)

	host, err := sharedContainer.Host(ctx)
	require.NoError(t, err)
	port, err := sharedContainer.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	v := viper.New()
	v.Set("database.driver", config.DriverPostgres)
	v.Set("database.host", host)
	v.Set("database.port", port.Int())
	v.Set("database.user", "postgres")
	v.Set("database.password", "admin123")
	v.Set("database.dbname", name)
	v.Set("ledger.reset_policy", policy)
	v.Set("ledger.locale", "en")
	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	return cfg
}

// TerminateShared stops the shared container, if one was started
func TerminateShared() {
	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()
	if sharedContainer != nil {
		_ = sharedContainer.Terminate(context.Background())
		sharedContainer = nil
	}
}
