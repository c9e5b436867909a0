//go:build database

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestAHPWithMySQL runs the store lifecycle against a MySQL backend.
func TestAHPWithMySQL(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "ahp",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	runStoreLifecycle(t, map[string]string{
		"AHP_STORE_BACKEND":    "mysql",
		"AHP_STORE_DB_CONNECT": fmt.Sprintf("root:secret123@tcp(%s:%s)/ahp?parseTime=true", host, port.Port()),
	})
}

// TestAHPWithPostgres runs the store lifecycle against a PostgreSQL backend.
func TestAHPWithPostgres(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	runStoreLifecycle(t, map[string]string{
		"AHP_STORE_BACKEND":    "postgresql",
		"AHP_STORE_DB_CONNECT": fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port()),
	})
}

func runStoreLifecycle(t *testing.T, env map[string]string) {
	t.Helper()

	_, err := runAHP(t, env, "submissions", "clear")
	require.NoError(t, err)

	_, err = runAHP(t, env, "submissions", "migrate")
	require.NoError(t, err)

	_, err = runAHP(t, env, "compute", "alice.json", "bob.yaml", "--save")
	require.NoError(t, err)

	out, err := runAHP(t, env, "submissions", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Submissions: 2")
	assert.Contains(t, out, "Total Experts: 2")

	_, err = runAHP(t, env, "aggregate", "--from-store")
	require.NoError(t, err)

	out, err = runAHP(t, env, "consensus", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Runs: 1")

	_, err = runAHP(t, env, "submissions", "clear")
	require.NoError(t, err)
}
