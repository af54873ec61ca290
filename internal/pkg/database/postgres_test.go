package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeduno/paygate/internal/pkg/models"
)

func newMockPostgres(t *testing.T) (*PostgresClient, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return &PostgresClient{db: sqlx.NewDb(mockDB, "pgx")}, mock
}

func TestBuildDSN(t *testing.T) {
	dsn := BuildDSN(models.DatabaseConfig{
		Username: "payments",
		Password: "secret",
		Host:     "db",
		Port:     5432,
		Database: "paygate",
		SSLMode:  "disable",
	})
	assert.Equal(t, "postgres://payments:secret@db:5432/paygate?sslmode=disable", dsn)
}

func TestPostgresClient_GetDB(t *testing.T) {
	client, _ := newMockPostgres(t)
	assert.NotNil(t, client.GetDB())
	assert.Equal(t, "pgx", client.GetDB().DriverName())
}

func TestPostgresClient_Ping(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		client, mock := newMockPostgres(t)
		mock.ExpectPing()

		assert.NoError(t, client.Ping(context.Background()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unreachable", func(t *testing.T) {
		client, mock := newMockPostgres(t)
		mock.ExpectPing().WillReturnError(errors.New("connection reset"))

		assert.EqualError(t, client.Ping(context.Background()), "connection reset")
	})
}

func TestPostgresClient_Close(t *testing.T) {
	client, mock := newMockPostgres(t)
	mock.ExpectClose()

	assert.NoError(t, client.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewPostgresClient_Unreachable(t *testing.T) {
	_, err := NewPostgresClient(models.DatabaseConfig{
		Host:     "127.0.0.1",
		Port:     1,
		Username: "payments",
		Database: "paygate",
		SSLMode:  "disable",
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ping postgres")
}
