package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/profilebot/internal/state"
	"github.com/m3rciful/profilebot/internal/storage"
)

func newPrivacy(t *testing.T) (*Privacy, sqlmock.Sqlmock, *state.Machine) {
	t.Helper()
	db, mock := newMockDB(t)
	machine := state.NewMachine(state.NewMemoryStore())
	return NewPrivacy(storage.New(db), machine), mock, machine
}

func TestPurgeDeletesEverything(t *testing.T) {
	svc, mock, machine := newPrivacy(t)
	ctx := context.Background()

	require.NoError(t, machine.Begin(ctx, 9, state.WaitingDelete, state.EncodeDeletePayload("tok")))

	mock.ExpectExec(`DELETE FROM messages`).WithArgs(int64(9)).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM user_settings`).WithArgs(int64(9)).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM feedback`).WithArgs(int64(9)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM users`).WithArgs(int64(9)).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.Purge(ctx, 9))
	require.NoError(t, mock.ExpectationsWereMet())

	rec, err := machine.Current(ctx, 9)
	require.NoError(t, err)
	assert.Nil(t, rec, "conversation state must be gone")
}

func TestPurgeReportsPartialFailuresButKeepsGoing(t *testing.T) {
	svc, mock, _ := newPrivacy(t)

	mock.ExpectExec(`DELETE FROM messages`).WillReturnError(sql.ErrConnDone)
	mock.ExpectExec(`DELETE FROM user_settings`).WithArgs(int64(9)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM feedback`).WithArgs(int64(9)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM users`).WithArgs(int64(9)).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.Error(t, svc.Purge(context.Background(), 9))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildExportSurvivesPartialStoreFailure(t *testing.T) {
	svc, mock, _ := newPrivacy(t)

	userCols := []string{"telegram_id", "username", "first_name", "last_name", "language_code", "is_bot", "is_premium", "created_at", "last_active_at"}
	mock.ExpectQuery(`SELECT \* FROM users`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(int64(5), "tester", "Test", nil, "ko", false, false, time.Now(), nil))
	mock.ExpectQuery(`SELECT key, value FROM user_settings`).WillReturnError(sql.ErrConnDone)
	mock.ExpectQuery(`SELECT \* FROM messages`).WillReturnError(sql.ErrConnDone)
	mock.ExpectQuery(`SELECT \* FROM feedback`).WillReturnError(sql.ErrConnDone)

	got, err := svc.BuildExport(context.Background(), 5)
	require.NoError(t, err, "partial failures degrade, only marshalling can fail")
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Contains(t, string(got), `"exported_at"`)
	assert.Contains(t, string(got), `"tester"`)
	assert.Contains(t, string(got), `"settings": {}`)
}
