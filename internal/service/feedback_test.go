package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/profilebot/internal/storage"
)

func TestSubmitWritesRowAndCompatSetting(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewFeedbackService(storage.NewFeedbackStore(db), storage.NewSettingStore(db))

	mock.ExpectExec(`INSERT INTO feedback`).
		WithArgs(int64(7), "hello").
		WillReturnResult(sqlmock.NewResult(1, 1))
	// compat key is feedback_<unix-millis>, so only the value is pinned
	mock.ExpectExec(`INSERT INTO user_settings`).
		WithArgs(int64(7), sqlmock.AnyArg(), []byte(`"hello"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.Submit(context.Background(), 7, "hello"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitSurvivesCompatSettingFailure(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewFeedbackService(storage.NewFeedbackStore(db), storage.NewSettingStore(db))

	mock.ExpectExec(`INSERT INTO feedback`).
		WithArgs(int64(7), "hi").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO user_settings`).
		WillReturnError(sql.ErrConnDone)

	assert.NoError(t, svc.Submit(context.Background(), 7, "hi"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitFailsWhenRowInsertFails(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewFeedbackService(storage.NewFeedbackStore(db), storage.NewSettingStore(db))

	mock.ExpectExec(`INSERT INTO feedback`).
		WillReturnError(sql.ErrConnDone)

	assert.Error(t, svc.Submit(context.Background(), 7, "hi"))
	require.NoError(t, mock.ExpectationsWereMet())
}
