package postgres

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMock(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return New(mock), mock
}

func TestStore_Migrate(t *testing.T) {
	s, mock := setupMock(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS cart_snapshots").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Save(t *testing.T) {
	s, mock := setupMock(t)

	mock.ExpectExec("INSERT INTO cart_snapshots").
		WithArgs("pre_main_post", []byte(`{"schema_version":1}`)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.Save(context.Background(), "pre_main_post", []byte(`{"schema_version":1}`))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Save_Error(t *testing.T) {
	s, mock := setupMock(t)

	mock.ExpectExec("INSERT INTO cart_snapshots").
		WithArgs("main", []byte("x")).
		WillReturnError(assert.AnError)

	err := s.Save(context.Background(), "main", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upsert snapshot")
}

func TestStore_Restore(t *testing.T) {
	s, mock := setupMock(t)

	mock.ExpectQuery("SELECT data FROM cart_snapshots").
		WithArgs("main").
		WillReturnRows(pgxmock.NewRows([]string{"data"}).AddRow([]byte("blob")))

	data, ok, err := s.Restore(context.Background(), "main")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("blob"), data)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Restore_Absent(t *testing.T) {
	s, mock := setupMock(t)

	mock.ExpectQuery("SELECT data FROM cart_snapshots").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{"data"}))

	data, ok, err := s.Restore(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, data)
}

func TestStore_Clear(t *testing.T) {
	s, mock := setupMock(t)

	mock.ExpectExec("DELETE FROM cart_snapshots").
		WithArgs("main").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, s.Clear(context.Background(), "main"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Clear_AbsentIsNoop(t *testing.T) {
	s, mock := setupMock(t)

	mock.ExpectExec("DELETE FROM cart_snapshots").
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.NoError(t, s.Clear(context.Background(), "missing"))
}
