package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/teamfeedback/internal/domain/entities"
)

func TestTagAdapter_GetOrCreate(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewTagAdapter(client)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id", "name" FROM "tags" WHERE \("name" IN \('teamwork', 'delivery'\)\)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "teamwork"))
	mock.ExpectQuery(`INSERT INTO "tags" \("name"\) VALUES \('delivery'\) RETURNING "id", "name"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(2, "delivery"))
	mock.ExpectCommit()

	tags, err := adapter.GetOrCreate(context.Background(), []string{"teamwork", "delivery", "teamwork"})
	require.NoError(t, err)

	assert.Equal(t, []entities.Tag{
		{ID: 1, Name: "teamwork"},
		{ID: 2, Name: "delivery"},
		{ID: 1, Name: "teamwork"},
	}, tags)
}

func TestTagAdapter_GetOrCreate_ConcurrentInsert(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewTagAdapter(client)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id", "name" FROM "tags"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
	mock.ExpectQuery(`INSERT INTO "tags"`).
		WillReturnError(&pq.Error{Code: pqUniqueViolation})
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id", "name" FROM "tags"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(7, "growth"))
	mock.ExpectCommit()

	tags, err := adapter.GetOrCreate(context.Background(), []string{"growth"})
	require.NoError(t, err)
	assert.Equal(t, []entities.Tag{{ID: 7, Name: "growth"}}, tags)
}

func TestTagAdapter_GetOrCreate_RollsBackOnFailure(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewTagAdapter(client)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id", "name" FROM "tags"`).WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	_, err := adapter.GetOrCreate(context.Background(), []string{"growth"})
	assert.Error(t, err)
}

func TestTagAdapter_GetOrCreate_Empty(t *testing.T) {
	client, _ := newMockClient(t)
	adapter := NewTagAdapter(client)

	tags, err := adapter.GetOrCreate(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestTagAdapter_ListAndGetByIDs(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewTagAdapter(client)

	mock.ExpectQuery(`SELECT "id", "name" FROM "tags" ORDER BY "name" ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(2, "delivery").AddRow(1, "teamwork"))
	mock.ExpectQuery(`SELECT "id", "name" FROM "tags" WHERE \("id" IN \(1, 9\)\)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "teamwork"))

	all, err := adapter.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	found, err := adapter.GetByIDs(context.Background(), []int64{1, 9})
	require.NoError(t, err)
	assert.Equal(t, []entities.Tag{{ID: 1, Name: "teamwork"}}, found)
}
