package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelapi/internal/config"
)

func TestDSN(t *testing.T) {
	full := config.DatabaseConfig{Host: "db", Port: "5432", User: "kyoto", Password: "p@ss", Name: "travel", SSLMode: "disable"}

	got, err := DSN(full)
	require.NoError(t, err)
	assert.Equal(t, "postgres://kyoto:p%40ss@db:5432/travel?application_name=travelapi&sslmode=disable", got)

	noSecret := full
	noSecret.Password = ""
	noSecret.SSLMode = ""
	got, err = DSN(noSecret)
	require.NoError(t, err)
	assert.Equal(t, "postgres://kyoto@db:5432/travel?application_name=travelapi", got)

	ipv6 := full
	ipv6.Host = "::1"
	got, err = DSN(ipv6)
	require.NoError(t, err)
	assert.Contains(t, got, "@[::1]:5432/")
}

func TestDSN_Missing(t *testing.T) {
	_, err := DSN(config.DatabaseConfig{Host: "db", Name: "travel"})
	require.Error(t, err)
	assert.Equal(t, "database config incomplete: missing DB_PORT, DB_USER", err.Error())

	_, err = DSN(config.DatabaseConfig{})
	assert.ErrorContains(t, err, "DB_HOST, DB_PORT, DB_USER, DB_NAME")
}

func stubOpen(t *testing.T, fn func(driverName, dsn string) (*sql.DB, error)) {
	t.Helper()
	orig := sqlOpen
	sqlOpen = fn
	t.Cleanup(func() { sqlOpen = orig })
}

func TestNewPostgres(t *testing.T) {
	conf := config.DatabaseConfig{
		Host:               "db",
		Port:               "5432",
		User:               "kyoto",
		Password:           "secret",
		Name:               "travel",
		MaxOpenConns:       4,
		MaxIdleConns:       2,
		ConnMaxLifetimeSec: 60,
	}

	t.Run("ready pool", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()

		var gotDriver, gotDSN string
		stubOpen(t, func(driverName, dsn string) (*sql.DB, error) {
			gotDriver, gotDSN = driverName, dsn
			return db, nil
		})
		mock.ExpectPing()

		got, err := NewPostgres(context.Background(), conf)
		require.NoError(t, err)
		assert.Same(t, db, got)
		assert.Contains(t, gotDriver, "otelsql")
		assert.Equal(t, "postgres://kyoto:secret@db:5432/travel?application_name=travelapi", gotDSN)
		assert.Equal(t, 4, got.Stats().MaxOpenConnections)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("open failure", func(t *testing.T) {
		stubOpen(t, func(string, string) (*sql.DB, error) {
			return nil, errors.New("no driver")
		})

		got, err := NewPostgres(context.Background(), conf)
		assert.EqualError(t, err, "open postgres: no driver")
		assert.Nil(t, got)
	})

	t.Run("unreachable server closes the pool", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		stubOpen(t, func(string, string) (*sql.DB, error) { return db, nil })

		mock.ExpectPing().WillReturnError(errors.New("connection refused"))
		mock.ExpectClose()

		got, err := NewPostgres(context.Background(), conf)
		assert.EqualError(t, err, "ping postgres: connection refused")
		assert.Nil(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("incomplete config never opens", func(t *testing.T) {
		stubOpen(t, func(string, string) (*sql.DB, error) {
			t.Fatal("sqlOpen called")
			return nil, nil
		})

		got, err := NewPostgres(context.Background(), config.DatabaseConfig{Host: "db"})
		assert.Error(t, err)
		assert.Nil(t, got)
	})
}
