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

func TestNotificationsAbsentCountsAsOn(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewSettings(storage.NewSettingStore(db))

	mock.ExpectQuery(`SELECT value FROM user_settings`).
		WithArgs(int64(1), KeyNotifications).
		WillReturnError(sql.ErrNoRows)

	assert.True(t, svc.Notifications(context.Background(), 1))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleNotificationsTwiceReturnsToOriginal(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewSettings(storage.NewSettingStore(db))
	ctx := context.Background()

	// first toggle: absent value counts as on, so the toggle stores false
	mock.ExpectQuery(`SELECT value FROM user_settings`).
		WithArgs(int64(1), KeyNotifications).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`INSERT INTO user_settings`).
		WithArgs(int64(1), KeyNotifications, []byte(`false`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	first, err := svc.ToggleNotifications(ctx, 1)
	require.NoError(t, err)
	assert.False(t, first)

	// second toggle: stored false flips back to the original on
	mock.ExpectQuery(`SELECT value FROM user_settings`).
		WithArgs(int64(1), KeyNotifications).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte(`false`)))
	mock.ExpectExec(`INSERT INTO user_settings`).
		WithArgs(int64(1), KeyNotifications, []byte(`true`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	second, err := svc.ToggleNotifications(ctx, 1)
	require.NoError(t, err)
	assert.True(t, second)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResetWritesDocumentedDefaults(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewSettings(storage.NewSettingStore(db))

	for _, want := range []struct {
		key   string
		value []byte
	}{
		{KeyNotifications, []byte(`true`)},
		{KeyLanguage, []byte(`"ko"`)},
		{KeyNickname, []byte(`null`)},
		{KeyTheme, []byte(`"light"`)},
	} {
		mock.ExpectExec(`INSERT INTO user_settings`).
			WithArgs(int64(3), want.key, want.value).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}

	require.NoError(t, svc.Reset(context.Background(), 3))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAllDegradesToEmptyMapOnFailure(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewSettings(storage.NewSettingStore(db))

	mock.ExpectQuery(`SELECT key, value FROM user_settings`).
		WithArgs(int64(4)).
		WillReturnError(sql.ErrConnDone)

	got := svc.All(context.Background(), 4)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}
