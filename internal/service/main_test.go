package service

import (
	"os"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/profilebot/core/logger"
)

func TestMain(m *testing.M) {
	// component loggers must exist before services log through them
	_ = logger.Init(logger.Settings{Level: "error", Format: "kv", Profile: "debug"})
	os.Exit(m.Run())
}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	xdb := sqlx.NewDb(db, "sqlmock")
	t.Cleanup(func() { _ = xdb.Close() })
	return xdb, mock
}
