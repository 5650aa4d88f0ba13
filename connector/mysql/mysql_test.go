package mysql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"
)

func TestConnectorExecuteQueryIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	container, err := tcmysql.Run(ctx, "mysql:8.0",
		tcmysql.WithDatabase("testdb"),
		tcmysql.WithUsername("root"),
		tcmysql.WithPassword("testpass"),
	)
	require.NoError(t, err, "failed to start MySQL container")
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "parseTime=true")
	require.NoError(t, err)

	conn, err := Open(ctx, dsn, 5)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	assert.True(t, conn.HealthCheck(ctx))

	rows, err := conn.ExecuteQuery(ctx, "SELECT 1 AS one, 'x' AS letter")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0]["one"])
	assert.Equal(t, "x", rows[0]["letter"])
}

func TestConnectorOpenRejectsBadDSN(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	_, err := Open(context.Background(), "invalid:user@tcp(127.0.0.1:1)/nope", 1)
	assert.Error(t, err)
}
