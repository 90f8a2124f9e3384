//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestChartpulseWithMySQL tests the chartpulse CLI with a MySQL backend.
func TestChartpulseWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "chartpulse",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(30 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	storeConn := fmt.Sprintf("root:secret123@tcp(%s:%s)/chartpulse?parseTime=true", host, port.Port())
	// Both stores share the server; the connection strings must differ.
	catalogConn := fmt.Sprintf("root:secret123@tcp(%s:%s)/chartpulse?parseTime=true&interpolateParams=true", host, port.Port())

	// Set environment variables
	_ = os.Setenv("CHARTPULSE_STORE_BACKEND", "mysql")
	_ = os.Setenv("CHARTPULSE_STORE_DB_CONNECT", storeConn)
	_ = os.Setenv("CHARTPULSE_CATALOG_BACKEND", "mysql")
	_ = os.Setenv("CHARTPULSE_CATALOG_DB_CONNECT", catalogConn)
	defer func() { _ = os.Unsetenv("CHARTPULSE_STORE_BACKEND") }()
	defer func() { _ = os.Unsetenv("CHARTPULSE_STORE_DB_CONNECT") }()
	defer func() { _ = os.Unsetenv("CHARTPULSE_CATALOG_BACKEND") }()
	defer func() { _ = os.Unsetenv("CHARTPULSE_CATALOG_DB_CONNECT") }()

	// Run chartpulse store clear
	err = runChartpulseCommand(t, "store", "clear")
	require.NoError(t, err)

	// Run chartpulse catalog migrate to set up the catalog schema
	err = runChartpulseCommand(t, "catalog", "migrate")
	require.NoError(t, err)

	// Run chartpulse movers (empty store; should report nothing to analyze)
	err = runChartpulseCommand(t, "movers", "--countries", "TW")
	require.NoError(t, err)

	// Run chartpulse store status
	err = runChartpulseCommand(t, "store", "status")
	require.NoError(t, err)

	// Run chartpulse catalog status
	err = runChartpulseCommand(t, "catalog", "status")
	require.NoError(t, err)
}

// TestChartpulseWithPostgres tests the chartpulse CLI with a PostgreSQL backend.
func TestChartpulseWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432:5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()
	time.Sleep(5 * time.Second)

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	storeConn := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())
	catalogConn := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())

	// Set environment variables
	_ = os.Setenv("CHARTPULSE_STORE_BACKEND", "postgresql")
	_ = os.Setenv("CHARTPULSE_STORE_DB_CONNECT", storeConn)
	_ = os.Setenv("CHARTPULSE_CATALOG_BACKEND", "postgresql")
	_ = os.Setenv("CHARTPULSE_CATALOG_DB_CONNECT", catalogConn)
	defer func() { _ = os.Unsetenv("CHARTPULSE_STORE_BACKEND") }()
	defer func() { _ = os.Unsetenv("CHARTPULSE_STORE_DB_CONNECT") }()
	defer func() { _ = os.Unsetenv("CHARTPULSE_CATALOG_BACKEND") }()
	defer func() { _ = os.Unsetenv("CHARTPULSE_CATALOG_DB_CONNECT") }()

	// Run chartpulse store clear
	err = runChartpulseCommand(t, "store", "clear")
	require.NoError(t, err)

	// Run chartpulse catalog migrate to set up the catalog schema
	err = runChartpulseCommand(t, "catalog", "migrate")
	require.NoError(t, err)

	// Run chartpulse movers (empty store; should report nothing to analyze)
	err = runChartpulseCommand(t, "movers", "--countries", "TW")
	require.NoError(t, err)

	// Run chartpulse store status
	err = runChartpulseCommand(t, "store", "status")
	require.NoError(t, err)

	// Run chartpulse catalog status
	err = runChartpulseCommand(t, "catalog", "status")
	require.NoError(t, err)
}
