package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/teamfeedback/internal/infrastructure/clients/postgres"
)

var fixedTime = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func newMockClient(t *testing.T) (*postgres.Client, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	return postgres.NewClientFromDB(db), mock
}

func strPtr(s string) *string { return &s }
